package models

import (
	"strings"
	"time"
)

// Cliente representa um cliente da empresa de eventos (pessoa física ou
// jurídica). Eventos apontam para ele via ClienteID.
type Cliente struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome          string     `gorm:"not null" json:"nome" form:"nome"`
	Email         string     `gorm:"default:''" json:"email" form:"email"`
	Phone         string     `gorm:"default:''" json:"phone" form:"phone"`
	CPF           string     `gorm:"default:''" json:"cpf" form:"cpf"`
	CNPJ          string     `gorm:"default:''" json:"cnpj" form:"cnpj"`
	AddressState  string     `gorm:"column:address_state" json:"address_state" form:"address_state"`
	AddressCity   string     `gorm:"column:address_city" json:"address_city" form:"address_city"`
	AddressStreet string     `gorm:"column:address_street" json:"address_street" form:"address_street"`
	AddressNumber int        `gorm:"column:address_number" json:"address_number" form:"address_number"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (cliente Cliente) MissingFields() string {
	if cliente.Nome == "" {
		return "nome"
	}
	return ""
}

func IsCpfValid(cpf string) bool {
	if cpf == "" {
		return false
	} else if strings.Count(cpf, "") != 12 {
		return false
	}
	return true
}

func IsCnpjValid(cnpj string) bool {
	if cnpj == "" {
		return false
	} else if strings.Count(cnpj, "") != 15 {
		return false
	}
	return true
}
