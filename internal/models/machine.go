package models

import "time"

type Machine struct {
	ID       string `json:"id"`
	ClientID string `json:"clienteId"`

	Name  string `json:"nome"`
	Model string `json:"modelo"`

	// Texto livre digitado pelo técnico, ex.: "15/03/2023".
	LastMaintenance string `json:"ultimaManutencao"`

	CreatedAt time.Time  `json:"dataCadastro"`
	UpdatedAt *time.Time `json:"dataAtualizacao,omitempty"`
}
