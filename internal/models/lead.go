package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusClosed    = "closed"
)

// Lead is a prospective-franchisee inquiry for a brand, routed to the
// brand's claim holder when the brand is claimed.
type Lead struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	BrandID         uuid.UUID  `json:"brand_id" db:"brand_id"`
	FirstName       string     `json:"first_name" db:"first_name"`
	LastName        string     `json:"last_name" db:"last_name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone,omitempty" db:"phone"`
	InvestmentRange string     `json:"investment_range,omitempty" db:"investment_range"`
	Message         string     `json:"message,omitempty" db:"message"`
	Status          string     `json:"status" db:"status"`
	RoutedTo        *uuid.UUID `json:"routed_to,omitempty" db:"routed_to"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateLeadRequest struct {
	BrandID         string `json:"brand_id" binding:"required,uuid"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=50"`
	InvestmentRange string `json:"investment_range" binding:"max=100"`
	Message         string `json:"message"`
}
