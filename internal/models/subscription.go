package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription é 1:1 com User e nunca é apagada; muda apenas de status.
type Subscription struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	PlanType string `gorm:"size:20;not null" json:"plan_type"`
	// active | canceled | past_due
	Status string `gorm:"size:20;not null;default:'active';index" json:"status"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `gorm:"index" json:"end_date"`

	ExternalCustomerID     string `gorm:"size:100" json:"external_customer_id,omitempty"`
	ExternalSubscriptionID string `gorm:"size:100" json:"external_subscription_id,omitempty"`
	LastPaymentID          string `gorm:"size:100;index" json:"-"`

	SelectedCategories datatypes.JSONSlice[uint] `gorm:"type:jsonb" json:"selected_categories"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
