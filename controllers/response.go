package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-courier/middleware"
	"go-courier/models"
	"go-courier/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return models.BookingStatus(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).IsValid()
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps store errors to a status; anything unexpected is logged and hidden behind a 500
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, repository.ErrStatusLocked):
		writeMessage(w, http.StatusConflict, "Booking status can no longer change")
	case errors.Is(err, repository.ErrAlreadyRegistered):
		writeMessage(w, http.StatusOK, "User Already Registered")
	default:
		log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(middleware.RequestIDHeader),
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage turns validator errors into a short client-facing message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "Invalid field(s): " + strings.Join(fields, ", ")
}

func parseObjectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	return id, err == nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// number accepts a JSON number or a numeric string, the way browser forms tend to send them.
// Request fields use *number so a missing or null value stays nil for the required check.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return errors.New("empty number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("not a number: " + s)
	}
	*n = number(f)
	return nil
}
