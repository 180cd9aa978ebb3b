package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reviewer is the name and photo shown next to a review
type Reviewer struct {
	Name  string `bson:"name" json:"name"`
	Photo string `bson:"photo" json:"photo"`
}

// Review is the single review left for a booking
type Review struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	BookingID     string             `bson:"bookingId" json:"bookingId"`
	ReviewBy      Reviewer           `bson:"reviewBy" json:"reviewBy"`
	Rating        float64            `bson:"rating" json:"rating"`
	Feedback      string             `bson:"feedback" json:"feedback"`
	DeliveryMenID string             `bson:"deliveryMenId" json:"deliveryMenId"`
	ReviewDate    string             `bson:"reviewDate" json:"reviewDate"`
}

// CoverageArea is a zone the service delivers to
type CoverageArea struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Region      string             `bson:"region" json:"region"`
	District    string             `bson:"district" json:"district"`
	City        string             `bson:"city" json:"city"`
	CoveredArea []string           `bson:"covered_area" json:"covered_area"`
	Latitude    float64            `bson:"latitude" json:"latitude"`
	Longitude   float64            `bson:"longitude" json:"longitude"`
}
