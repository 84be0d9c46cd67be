package domain

import (
	"time"

	"github.com/google/uuid"
)

type ComponentType string

const (
	Chain          ComponentType = "chain"
	Cassette       ComponentType = "cassette"
	Chainring      ComponentType = "chainring"
	BrakePad       ComponentType = "brake_pad"
	Tire           ComponentType = "tire"
	Rotor          ComponentType = "rotor"
	Sealant        ComponentType = "sealant"
	Derailleur     ComponentType = "derailleur"
	ShiftCable     ComponentType = "shift_cable"
	BrakeFluid     ComponentType = "brake_fluid"
	SuspensionFork ComponentType = "suspension_fork"
	RearShock      ComponentType = "rear_shock"
	DropperPost    ComponentType = "dropper_post"
	WheelBearing   ComponentType = "wheel_bearing"
	BottomBracket  ComponentType = "bottom_bracket"
	Headset        ComponentType = "headset"
	Pedals         ComponentType = "pedals"
	Frame          ComponentType = "frame"
	Handlebars     ComponentType = "handlebars"
)

type MountLocation string

const (
	LocationFront MountLocation = "front"
	LocationRear  MountLocation = "rear"
	LocationNone  MountLocation = "none"
)

type Component struct {
	ID                uuid.UUID     `json:"id"`
	BikeID            uuid.UUID     `json:"bike_id" validate:"required"`
	Type              ComponentType `json:"type" validate:"required"`
	Location          MountLocation `json:"location"`
	Brand             string        `json:"brand,omitempty" validate:"max=100"`
	Model             string        `json:"model,omitempty" validate:"max=100"`
	HoursUsed         float64       `json:"hours_used" validate:"min=0"`
	ServiceDueAtHours *float64      `json:"service_due_at_hours,omitempty"`
	InstalledAt       time.Time     `json:"installed_at"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Trackable reports whether predictions are computed for this component
// type. Structural parts are excluded from wear tracking.
func (t ComponentType) Trackable() bool {
	switch t {
	case Frame, Handlebars:
		return false
	}
	return true
}

// Paired component types carry distinct front/rear service intervals.
func (t ComponentType) Paired() bool {
	switch t {
	case BrakePad, Tire, Rotor:
		return true
	}
	return false
}

// PreferenceScope separates user-global overrides from bike-specific ones.
type PreferenceScope string

const (
	ScopeGlobal PreferenceScope = "global"
	ScopeBike   PreferenceScope = "bike"
)

// ComponentPreference lets a user disable tracking for a component type or
// replace its catalog interval. A bike-scoped preference wins over a global
// one; a component's own ServiceDueAtHours override wins over both.
type ComponentPreference struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	BikeID              *uuid.UUID      `json:"bike_id,omitempty"`
	Scope               PreferenceScope `json:"scope"`
	ComponentType       ComponentType   `json:"component_type"`
	Enabled             bool            `json:"enabled"`
	CustomIntervalHours *float64        `json:"custom_interval_hours,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
