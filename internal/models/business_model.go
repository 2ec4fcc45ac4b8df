package models

import "time"

type Business struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	Description      *string   `db:"description" json:"description"`
	Industry         string    `db:"industry" json:"industry"`
	Website          *string   `db:"website" json:"website"`
	LogoURL          *string   `db:"logo_url" json:"logo_url"`
	SubscriptionPlan string    `db:"subscription_plan" json:"subscription_plan"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanAgency  = "agency"
)
