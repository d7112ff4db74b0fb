package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Release represents an announced watch release tracked for notification.
// The notified/notified_at pair is mutated only by the dispatch engine or
// the explicit mark-notified override.
type Release struct {
	Base
	WatchName        string              `json:"watch_name" db:"watch_name"`
	Brand            string              `json:"brand" db:"brand"`
	ModelNumber      *string             `json:"model_number,omitempty" db:"model_number"`
	Description      *string             `json:"description,omitempty" db:"description"`
	ReleaseDate      *time.Time          `json:"release_date,omitempty" db:"release_date"`
	Price            decimal.NullDecimal `json:"price,omitempty" db:"price"`
	Currency         string              `json:"currency" db:"currency"`
	Features         pq.StringArray      `json:"features" db:"features"`
	Categories       pq.StringArray      `json:"categories" db:"categories"`
	ImageURL         *string             `json:"image_url,omitempty" db:"image_url"`
	ProductURL       *string             `json:"product_url,omitempty" db:"product_url"`
	IsLimitedEdition bool                `json:"is_limited_edition" db:"is_limited_edition"`
	LimitedQuantity  *int                `json:"limited_quantity,omitempty" db:"limited_quantity"`
	IsNotified       bool                `json:"is_notified" db:"is_notified"`
	NotifiedAt       *time.Time          `json:"notified_at,omitempty" db:"notified_at"`
}

// CreateReleaseRequest represents release creation parameters
type CreateReleaseRequest struct {
	WatchName        string              `json:"watch_name" binding:"required"`
	Brand            string              `json:"brand" binding:"required"`
	ModelNumber      *string             `json:"model_number"`
	Description      *string             `json:"description"`
	ReleaseDate      *time.Time          `json:"release_date"`
	Price            decimal.NullDecimal `json:"price"`
	Currency         string              `json:"currency" binding:"omitempty,currency"`
	Features         []string            `json:"features"`
	Categories       []string            `json:"categories"`
	ImageURL         *string             `json:"image_url"`
	ProductURL       *string             `json:"product_url"`
	IsLimitedEdition bool                `json:"is_limited_edition"`
	LimitedQuantity  *int                `json:"limited_quantity"`
}

// UpdateReleaseRequest represents release update parameters
type UpdateReleaseRequest struct {
	WatchName        string              `json:"watch_name" binding:"required"`
	Brand            string              `json:"brand" binding:"required"`
	ModelNumber      *string             `json:"model_number"`
	Description      *string             `json:"description"`
	ReleaseDate      *time.Time          `json:"release_date"`
	Price            decimal.NullDecimal `json:"price"`
	Currency         string              `json:"currency" binding:"omitempty,currency"`
	Features         []string            `json:"features"`
	Categories       []string            `json:"categories"`
	ImageURL         *string             `json:"image_url"`
	ProductURL       *string             `json:"product_url"`
	IsLimitedEdition bool                `json:"is_limited_edition"`
	LimitedQuantity  *int                `json:"limited_quantity"`
}
