package models

// PaymentIntentRequest is the amount a customer is about to pay
type PaymentIntentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"` // major currency units, e.g. 150.50
}

// PaymentIntent is what the client needs to confirm a card payment
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}
