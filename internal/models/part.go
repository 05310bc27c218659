package models

import "time"

// Part é uma peça de reposição vinculada a uma máquina.
type Part struct {
	ID        string `json:"id"`
	MachineID string `json:"maquinaId"`

	Name     string `json:"nome"`
	Model    string `json:"modelo"`
	Quantity int    `json:"quantidade"`

	CreatedAt time.Time  `json:"dataCadastro"`
	UpdatedAt *time.Time `json:"dataAtualizacao,omitempty"`
}
