package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryFee(t *testing.T) {
	cases := []struct {
		weight float64
		want   int
	}{
		{0, 50},
		{0.5, 50},
		{1, 50},
		{1.01, 100},
		{2, 100},
		{2.001, 150},
		{25, 150},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DeliveryFee(c.weight), "weight %v", c.weight)
	}
}

func TestDeliveryFeeIsMonotonic(t *testing.T) {
	prev := DeliveryFee(0)
	for w := 0.0; w <= 5; w += 0.05 {
		fee := DeliveryFee(w)
		assert.GreaterOrEqual(t, fee, prev, "weight %v", w)
		prev = fee
	}
}

func TestBookingStatus(t *testing.T) {
	assert.True(t, StatusOnTheWay.IsValid())
	assert.False(t, BookingStatus("Lost").IsValid())
	assert.ElementsMatch(t, []BookingStatus{StatusDelivered, StatusCancelled, StatusReturned}, TerminalStatuses)
}

func TestBookingPatchApply(t *testing.T) {
	rider := "6530f1c2a1b2c3d4e5f60718"
	b := Booking{Name: "Rahim", Status: StatusPending, DeliveryFee: 100}

	delivered := StatusDelivered
	got := BookingPatch{Status: &delivered}.Apply(b)
	assert.Equal(t, StatusDelivered, got.Status)
	assert.Nil(t, got.DeliveryMen)
	assert.Equal(t, "Rahim", got.Name)
	assert.Equal(t, 100, got.DeliveryFee)
	assert.Equal(t, StatusPending, b.Status, "Apply must not mutate its input")

	got = BookingPatch{DeliveryMen: SomeString(rider)}.Apply(b)
	assert.Equal(t, rider, *got.DeliveryMen)
	assert.Equal(t, StatusPending, got.Status)

	assert.True(t, BookingPatch{}.IsEmpty())
	assert.False(t, BookingPatch{DeliveryMen: SomeString(rider)}.IsEmpty())
}

func TestBookingPatchNullClears(t *testing.T) {
	rider := "6530f1c2a1b2c3d4e5f60718"
	approx := "2024-03-18"
	b := Booking{Status: StatusAssigned, DeliveryMen: &rider, ApproxDeliveryDate: &approx}

	var patch BookingPatch
	require.NoError(t, json.Unmarshal([]byte(`{"deliveryMen":null}`), &patch))
	assert.True(t, patch.DeliveryMen.Set)
	assert.Nil(t, patch.DeliveryMen.Value)
	assert.False(t, patch.ApproxDeliveryDate.Set)
	assert.False(t, patch.IsEmpty())

	got := patch.Apply(b)
	assert.Nil(t, got.DeliveryMen)
	assert.Equal(t, &approx, got.ApproxDeliveryDate)

	patch = BookingPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"approxDeliveryDate":"2024-03-20"}`), &patch))
	assert.Equal(t, SomeString("2024-03-20"), patch.ApproxDeliveryDate)
	assert.Equal(t, NullString(), OptionalString{Set: true})

	assert.Error(t, json.Unmarshal([]byte(`{"deliveryMen":42}`), &patch))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleRider.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("admin").IsValid())
	assert.False(t, Role("All").IsValid())
}
