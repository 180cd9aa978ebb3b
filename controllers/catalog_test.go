package controllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-courier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoverage struct {
	page, limit int64
	err         error
}

func (f *fakeCoverage) List(_ context.Context, page, limit int64) ([]models.CoverageArea, error) {
	f.page, f.limit = page, limit
	return []models.CoverageArea{{District: "Dhaka", CoveredArea: []string{"Mirpur", "Uttara"}}}, f.err
}

type fakeStats struct {
	counts *models.Counter
	err    error
}

func (f fakeStats) Counts(context.Context) (*models.Counter, error) {
	return f.counts, f.err
}

type fakePayments struct {
	amounts []int64
	err     error
}

func (f *fakePayments) CreateIntent(_ context.Context, amount int64) (string, error) {
	f.amounts = append(f.amounts, amount)
	if f.err != nil {
		return "", f.err
	}
	return "pi_1_secret_2", nil
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query       string
		page, limit int64
		ok          bool
	}{
		{"", 0, 10, true},
		{"page=2&limit=20", 2, 20, true},
		{"page=-3&limit=5", 0, 5, true},
		{"limit=0", 0, 10, true},
		{"limit=-1", 0, 10, true},
		{"limit=5000", 0, 100, true},
		{"page=9223372036854775807&limit=100", math.MaxInt64 / 100, 100, true},
		{"page=9223372036854775807", math.MaxInt64 / 10, 10, true},
		{"page=two", 0, 0, false},
		{"limit=1.5", 0, 0, false},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/coverage?"+c.query, nil)
		page, limit, ok := pageParams(req)
		assert.Equal(t, c.ok, ok, c.query)
		if c.ok {
			assert.Equal(t, c.page, page, c.query)
			assert.Equal(t, c.limit, limit, c.query)
			assert.GreaterOrEqual(t, page*limit, int64(0), c.query)
		}
	}
}

func TestGetCoverage(t *testing.T) {
	coverage := &fakeCoverage{}
	cc := NewCatalogController(coverage, fakeStats{}, &fakePayments{}, discard)

	rec := serve(t, http.MethodGet, "/coverage", "/coverage?page=1&limit=3", "", cc.GetCoverage)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), coverage.page)
	assert.Equal(t, int64(3), coverage.limit)
	assert.Contains(t, rec.Body.String(), `"covered_area":["Mirpur","Uttara"]`)

	rec = serve(t, http.MethodGet, "/coverage", "/coverage?page=abc", "", cc.GetCoverage)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCounter(t *testing.T) {
	stats := fakeStats{counts: &models.Counter{BookingCount: 12, DeliveryCount: 7, UserCount: 4}}
	cc := NewCatalogController(&fakeCoverage{}, stats, &fakePayments{}, discard)

	rec := serve(t, http.MethodGet, "/counter", "/counter", "", cc.GetCounter)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookingCount":12,"deliveryCount":7,"userCount":4}`, rec.Body.String())
}

func TestCreatePaymentIntent(t *testing.T) {
	payments := &fakePayments{}
	cc := NewCatalogController(&fakeCoverage{}, fakeStats{}, payments, discard)

	rec := serve(t, http.MethodPost, "/create-payment-intent", "/create-payment-intent", `{"amount":150}`, cc.CreatePaymentIntent)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_1_secret_2"}`, rec.Body.String())
	assert.Equal(t, []int64{15000}, payments.amounts)
}

func TestCreatePaymentIntentRejects(t *testing.T) {
	for _, body := range []string{`{"amount":0}`, `{"amount":-10}`, `{"amount":0.001}`, `{}`, `{"amount":"ten"}`} {
		payments := &fakePayments{}
		cc := NewCatalogController(&fakeCoverage{}, fakeStats{}, payments, discard)

		rec := serve(t, http.MethodPost, "/create-payment-intent", "/create-payment-intent", body, cc.CreatePaymentIntent)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Empty(t, payments.amounts, body)
	}
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	payments := &fakePayments{err: errors.New("stripe: card_declined sk_live_leak")}
	cc := NewCatalogController(&fakeCoverage{}, fakeStats{}, payments, discard)

	rec := serve(t, http.MethodPost, "/create-payment-intent", "/create-payment-intent", `{"amount":10}`, cc.CreatePaymentIntent)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	assert.Len(t, payments.amounts, 1, "no retry")
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(15000), minorUnits(150))
	assert.Equal(t, int64(1050), minorUnits(10.5))
	assert.Equal(t, int64(0), minorUnits(0.009))
}
