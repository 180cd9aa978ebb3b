package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level of a user
type Role string

const (
	RoleUser  Role = "User"
	RoleRider Role = "Rider"
	RoleAdmin Role = "Admin"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRider, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// User represents a user in the system
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	Photo         string             `bson:"photo" json:"photo"`
	Role          Role               `bson:"role" json:"role"`
	CreatedOn     string             `bson:"createdOn" json:"createdOn"`
	RatingAvg     float64            `bson:"ratingAvg" json:"ratingAvg"`
	DeliveryCount int                `bson:"deliveryCount" json:"deliveryCount"`
}

// UserRole is the role-only projection of a user
type UserRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Role Role               `bson:"role" json:"role"`
}

// RiderSummary is the leaderboard projection of a rider
type RiderSummary struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Photo         string             `bson:"photo" json:"photo"`
	RatingAvg     float64            `bson:"ratingAvg" json:"ratingAvg"`
	DeliveryCount int                `bson:"deliveryCount" json:"deliveryCount"`
}

// TopRiders holds the two leaderboards side by side
type TopRiders struct {
	ByRating   []RiderSummary `json:"byRating"`
	ByDelivery []RiderSummary `json:"byDelivery"`
}
