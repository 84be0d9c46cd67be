package domain

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	Admin   UserRole = "admin"
	AppUser UserRole = "appuser"
	Premium UserRole = "premium"
)

type TokenPayload struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Role   UserRole
}

// Tier maps a role to the plan tier used in prediction cache keys.
func (r UserRole) Tier() PlanTier {
	if r == Premium || r == Admin {
		return TierPaid
	}
	return TierFree
}
