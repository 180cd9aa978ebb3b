package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"go-courier/models"
)

const (
	defaultCoverageLimit = 10
	maxCoverageLimit     = 100
)

// CoverageStore pages through the coverage areas
type CoverageStore interface {
	List(ctx context.Context, page, limit int64) ([]models.CoverageArea, error)
}

// StatsStore produces the dashboard counts
type StatsStore interface {
	Counts(ctx context.Context) (*models.Counter, error)
}

// PaymentProvider creates card payment intents for an amount in minor units
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

// CatalogController serves the public, read-mostly endpoints: coverage, counts and payments
type CatalogController struct {
	Coverage CoverageStore
	Stats    StatsStore
	Payments PaymentProvider
	log      *slog.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(coverage CoverageStore, stats StatsStore, payments PaymentProvider, log *slog.Logger) *CatalogController {
	return &CatalogController{Coverage: coverage, Stats: stats, Payments: payments, log: log}
}

// GetCoverage returns one page of coverage areas; ?page= is zero based
func (cc *CatalogController) GetCoverage(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "page and limit must be numbers")
		return
	}

	areas, err := cc.Coverage.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, cc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func pageParams(r *http.Request) (page, limit int64, ok bool) {
	query := r.URL.Query()
	parse := func(key string) (int64, bool) {
		v := query.Get(key)
		if v == "" {
			return 0, true
		}
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}

	if page, ok = parse("page"); !ok {
		return 0, 0, false
	}
	if limit, ok = parse("limit"); !ok {
		return 0, 0, false
	}

	if page < 0 {
		page = 0
	}
	switch {
	case limit <= 0:
		limit = defaultCoverageLimit
	case limit > maxCoverageLimit:
		limit = maxCoverageLimit
	}
	// page*limit becomes the skip and must not overflow
	if page > math.MaxInt64/limit {
		page = math.MaxInt64 / limit
	}
	return page, limit, true
}

// GetCounter returns the dashboard counts
func (cc *CatalogController) GetCounter(w http.ResponseWriter, r *http.Request) {
	counts, err := cc.Stats.Counts(r.Context())
	if err != nil {
		writeError(w, r, cc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// CreatePaymentIntent starts a card payment for the amount in the body (major units)
func (cc *CatalogController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "amount must be greater than 0")
		return
	}

	amount := minorUnits(req.Amount)
	if amount <= 0 {
		writeMessage(w, http.StatusBadRequest, "amount must be at least 0.01")
		return
	}

	secret, err := cc.Payments.CreateIntent(r.Context(), amount)
	if err != nil {
		writeError(w, r, cc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PaymentIntent{ClientSecret: secret})
}

// minorUnits converts to cents, truncating any fraction of a cent
func minorUnits(amount float64) int64 {
	return int64(amount * 100)
}
