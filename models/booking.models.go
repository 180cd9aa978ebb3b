package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusAssigned  BookingStatus = "Assigned"
	StatusOnTheWay  BookingStatus = "On The Way"
	StatusDelivered BookingStatus = "Delivered"
	StatusCancelled BookingStatus = "Cancelled"
	StatusReturned  BookingStatus = "Returned"
)

// TerminalStatuses can not be left once reached
var TerminalStatuses = []BookingStatus{StatusDelivered, StatusCancelled, StatusReturned}

// IsValid reports whether s is a known booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusOnTheWay, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

func (s BookingStatus) String() string {
	return string(s)
}

// DeliveryFee returns the flat fee for a parcel of the given weight (kg)
func DeliveryFee(weight float64) int {
	switch {
	case weight <= 1:
		return 50
	case weight <= 2:
		return 100
	default:
		return 150
	}
}

// Booking represents a single delivery request
type Booking struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone" json:"phone"`
	Type               string             `bson:"type" json:"type"` // e.g., "Document", "Parcel"
	Weight             float64            `bson:"weight" json:"weight"`
	DeliveryFee        int                `bson:"deliveryFee" json:"deliveryFee"`
	ReceiverName       string             `bson:"receiverName" json:"receiverName"`
	ReceiverPhone      string             `bson:"receiverPhone" json:"receiverPhone"`
	DeliveryAddress    string             `bson:"deliveryAddress" json:"deliveryAddress"`
	ReqDeliveryDate    string             `bson:"reqDeliveryDate" json:"reqDeliveryDate"`
	DeliveryLat        float64            `bson:"deliveryLat" json:"deliveryLat"`
	DeliveryLon        float64            `bson:"deliveryLon" json:"deliveryLon"`
	DeliveryMen        *string            `bson:"deliveryMen" json:"deliveryMen"` // assigned rider id
	ApproxDeliveryDate *string            `bson:"approxDeliveryDate" json:"approxDeliveryDate"`
	Status             BookingStatus      `bson:"status" json:"status"`
	BookingDate        string             `bson:"bookingDate" json:"bookingDate"` // YYYY-MM-DD
}

// BookingSummary is the admin listing projection
type BookingSummary struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Phone           string             `bson:"phone" json:"phone"`
	BookingDate     string             `bson:"bookingDate" json:"bookingDate"`
	ReqDeliveryDate string             `bson:"reqDeliveryDate" json:"reqDeliveryDate"`
	DeliveryFee     int                `bson:"deliveryFee" json:"deliveryFee"`
	Status          BookingStatus      `bson:"status" json:"status"`
}

// Consignment is a booking as seen by the assigned rider
type Consignment struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Phone              string             `bson:"phone" json:"phone"`
	ReceiverName       string             `bson:"receiverName" json:"receiverName"`
	ReceiverPhone      string             `bson:"receiverPhone" json:"receiverPhone"`
	DeliveryAddress    string             `bson:"deliveryAddress" json:"deliveryAddress"`
	ReqDeliveryDate    string             `bson:"reqDeliveryDate" json:"reqDeliveryDate"`
	ApproxDeliveryDate *string            `bson:"approxDeliveryDate" json:"approxDeliveryDate"`
	DeliveryLat        float64            `bson:"deliveryLat" json:"deliveryLat"`
	DeliveryLon        float64            `bson:"deliveryLon" json:"deliveryLon"`
	Status             BookingStatus      `bson:"status" json:"status"`
}

// OptionalString remembers whether a JSON field was sent, so an explicit null
// (clear the value) is told apart from a missing key (leave it alone)
type OptionalString struct {
	Set   bool
	Value *string
}

// SomeString is a present, non-null OptionalString
func SomeString(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// NullString is a present OptionalString holding null
func NullString() OptionalString {
	return OptionalString{Set: true}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// BookingPatch lists the only fields a booking update may change
type BookingPatch struct {
	Status             *BookingStatus `json:"status" validate:"omitempty,booking_status"`
	DeliveryMen        OptionalString `json:"deliveryMen"`
	ApproxDeliveryDate OptionalString `json:"approxDeliveryDate"`
}

// IsEmpty reports whether the patch changes nothing
func (p BookingPatch) IsEmpty() bool {
	return p.Status == nil && !p.DeliveryMen.Set && !p.ApproxDeliveryDate.Set
}

// Apply returns a copy of b with the patch fields set
func (p BookingPatch) Apply(b Booking) Booking {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.DeliveryMen.Set {
		b.DeliveryMen = p.DeliveryMen.Value
	}
	if p.ApproxDeliveryDate.Set {
		b.ApproxDeliveryDate = p.ApproxDeliveryDate.Value
	}
	return b
}

// WriteResult mirrors the store's acknowledgement of a write
type WriteResult struct {
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedID    interface{} `json:"upsertedId,omitempty"`
}

// Counter holds the dashboard counts
type Counter struct {
	BookingCount  int64 `json:"bookingCount"`
	DeliveryCount int64 `json:"deliveryCount"`
	UserCount     int64 `json:"userCount"`
}
