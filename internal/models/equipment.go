package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// EquipmentStatus represents the operational state of a piece of equipment.
type EquipmentStatus string

const (
	EquipmentActive   EquipmentStatus = "active"
	EquipmentInactive EquipmentStatus = "inactive"
	EquipmentRetired  EquipmentStatus = "retired"
)

// Equipment represents a biomedical device tracked by the system.
type Equipment struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AssetTag     string             `json:"asset_tag" bson:"asset_tag"`
	Name         string             `json:"name" bson:"name"`
	Manufacturer string             `json:"manufacturer" bson:"manufacturer"`
	Model        string             `json:"model" bson:"model"`
	SerialNumber string             `json:"serial_number" bson:"serial_number"`
	Location     string             `json:"location" bson:"location"` // ward / department / room
	RiskClass    string             `json:"risk_class" bson:"risk_class"` // "I", "IIa", "IIb", "III"
	Status       EquipmentStatus    `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
