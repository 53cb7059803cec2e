package model

import (
	"errors"
	"time"
)

// Subscription plans and statuses accepted by the API.
const (
	PlanFree = "free"
	PlanPro  = "pro"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription represents a user's subscription record. There is at most one
// per user and it is never deleted, only updated.
type Subscription struct {
	UserID    string    `json:"user_id"    db:"user_id"`
	Plan      string    `json:"plan"       db:"plan"`
	Status    string    `json:"status"     db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertSubscriptionRequest creates or updates the caller's subscription.
type UpsertSubscriptionRequest struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// Validate validates the UpsertSubscriptionRequest fields.
func (r *UpsertSubscriptionRequest) Validate() error {
	switch r.Plan {
	case PlanFree, PlanPro:
	default:
		return errors.New("plan must be one of: free, pro")
	}
	switch r.Status {
	case SubscriptionActive, SubscriptionCanceled:
	default:
		return errors.New("status must be one of: active, canceled")
	}
	return nil
}
