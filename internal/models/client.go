package models

import "time"

// Client é o cliente da oficina (hospital, indústria...), dono das máquinas.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Phone   string `json:"telefone"`
	Address string `json:"endereco"`
	Email   string `json:"email,omitempty"`

	CreatedAt time.Time  `json:"dataCadastro"`
	UpdatedAt *time.Time `json:"dataAtualizacao,omitempty"`
}
