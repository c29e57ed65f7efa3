package models

import (
	"time"

	"gorm.io/gorm"
)

// Contract lives in the tenant database, owned by the "contracts" module.
type Contract struct {
	gorm.Model
	ContractNo   string     `json:"contract_no" gorm:"unique"`
	CustomerID   uint       `json:"customer_id" gorm:"index"`
	Customer     *Customer  `gorm:"foreignKey:CustomerID"`
	Description  string     `json:"description"`
	ContractType string     `json:"contract_type"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Value        float64    `json:"value"`
	Status       string     `json:"status" gorm:"default:DRAFT"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
