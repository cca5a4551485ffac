package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
}

type Contact struct {
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

type NGO struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	Category         string             `bson:"category" json:"category"`
	Address          Address            `bson:"address" json:"address"`
	Contact          Contact            `bson:"contact" json:"contact"`
	Capacity         int                `bson:"capacity" json:"capacity"`
	CurrentOccupancy int                `bson:"current_occupancy" json:"currentOccupancy"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	IsActive         bool               `bson:"is_active" json:"isActive"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// Donation carries denormalized donor and NGO summary fields so list views
// never fan out into per-row lookups. The full NGO document is attached on
// detail reads only.
type Donation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonorID        string             `bson:"donor_id" json:"donor_id"`
	DonorName      string             `bson:"donor_name" json:"donor_name"`
	DonorEmail     string             `bson:"donor_email" json:"donor_email"`
	NGOID          primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	NGOName        string             `bson:"ngo_name" json:"ngo_name"`
	NGOCategory    string             `bson:"ngo_category" json:"ngo_category"`
	FoodType       string             `bson:"food_type" json:"foodType"`
	FoodCategory   string             `bson:"food_category" json:"foodCategory"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	ServingSize    int                `bson:"serving_size" json:"servingSize"`
	PickupLocation Address            `bson:"pickup_location" json:"pickupLocation"`
	PickupDateTime time.Time          `bson:"pickup_date_time" json:"pickupDateTime"`
	DeliveryMethod string             `bson:"delivery_method" json:"deliveryMethod"`
	Status         string             `bson:"status" json:"status"`
	Notes          string             `bson:"notes" json:"notes"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`

	NGO *NGO `bson:"-" json:"ngo,omitempty"`
}

// DonationEvent is the message published on the donations exchange.
type DonationEvent struct {
	Type       string    `json:"type"` // donation_created, status_update
	DonationID string    `json:"donation_id"`
	DonorID    string    `json:"donor_id"`
	DonorName  string    `json:"donor_name"`
	NGOName    string    `json:"ngo_name"`
	NGOEmail   string    `json:"ngo_email,omitempty"`
	FoodType   string    `json:"food_type,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	EventDonationCreated = "donation_created"
	EventStatusUpdate    = "status_update"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPickedUp  = "picked-up"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusAccepted:  true,
	StatusPickedUp:  true,
	StatusDelivered: true,
	StatusCancelled: true,
}

// IsValidStatus checks enum membership only. The lifecycle order
// (pending, then accepted, then picked-up, then delivered) is advisory: an admin may set
// any status after any other.
func IsValidStatus(status string) bool {
	return validStatuses[status]
}

var validNGOCategories = map[string]bool{
	"orphanage":        true,
	"old-age-home":     true,
	"homeless-shelter": true,
	"disaster-relief":  true,
	"other":            true,
}

func IsValidNGOCategory(category string) bool {
	return validNGOCategories[category]
}

var validFoodTypes = map[string]bool{
	"cooked": true,
	"raw":    true,
}

func IsValidFoodType(foodType string) bool {
	return validFoodTypes[foodType]
}

var validFoodCategories = map[string]bool{
	"veg":     true,
	"non-veg": true,
}

func IsValidFoodCategory(foodCategory string) bool {
	return validFoodCategories[foodCategory]
}

var validDeliveryMethods = map[string]bool{
	"pickup":   true,
	"delivery": true,
}

func IsValidDeliveryMethod(method string) bool {
	return validDeliveryMethods[method]
}
