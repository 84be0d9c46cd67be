package domain

import (
	"time"

	"github.com/google/uuid"
)

type BikeType string

const (
	BMX    BikeType = "bmx"
	MTB    BikeType = "mtb"
	Road   BikeType = "road"
	Gravel BikeType = "gravel"
)

type Bike struct {
	UserID       uuid.UUID `json:"user_id"`
	BikeID       uuid.UUID `json:"bike_id"`
	BikeName     string    `json:"bike_name"`
	Type         BikeType  `json:"type"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
