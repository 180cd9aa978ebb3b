// routes/routes.go
package routes

import (
	"log/slog"
	"net/http"

	"go-courier/controllers"
	"go-courier/middleware"

	"github.com/gorilla/mux"
)

// Controllers groups everything the route table dispatches to
type Controllers struct {
	Auth     *controllers.AuthController
	Bookings *controllers.BookingController
	Users    *controllers.UserController
	Reviews  *controllers.ReviewController
	Catalog  *controllers.CatalogController
	// LiveFeed serves the admin websocket feed; nil leaves the route out
	LiveFeed http.HandlerFunc
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, tokens middleware.TokenVerifier, roles middleware.RoleLookup, log *slog.Logger) {
	authMw := middleware.AuthMiddleware(tokens, log)
	adminMw := middleware.AdminMiddleware(roles, log)

	authed := func(h http.HandlerFunc) http.Handler { return authMw(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authMw(adminMw(h)) }

	// Public routes
	router.HandleFunc("/", controllers.Ready).Methods("GET")
	router.HandleFunc("/jwt", c.Auth.IssueToken).Methods("POST")
	router.HandleFunc("/users/{email}", c.Users.Register).Methods("POST")
	router.HandleFunc("/user-role/{email}", c.Users.GetRole).Methods("GET")
	router.HandleFunc("/top-riders", c.Users.GetTopRiders).Methods("GET")
	router.HandleFunc("/reviews", c.Reviews.UpsertReview).Methods("PATCH")
	router.HandleFunc("/counter", c.Catalog.GetCounter).Methods("GET")
	router.HandleFunc("/coverage", c.Catalog.GetCoverage).Methods("GET")
	router.HandleFunc("/create-payment-intent", c.Catalog.CreatePaymentIntent).Methods("POST")

	// Booking routes
	router.Handle("/bookings", authed(c.Bookings.CreateBooking)).Methods("POST")
	router.Handle("/bookings", admin(c.Bookings.GetBookings)).Methods("GET")
	router.Handle("/bookings/{email}", authed(c.Bookings.GetBookingsByEmail)).Methods("GET")
	router.Handle("/bookings/{id}", authed(c.Bookings.UpdateBooking)).Methods("PATCH")
	router.Handle("/booking/{id}", authed(c.Bookings.GetBookingByID)).Methods("GET")
	router.Handle("/my-consignments/{uId}", authed(c.Bookings.GetConsignments)).Methods("GET")

	// Review and user routes behind a token
	router.Handle("/my-review/{id}", authed(c.Reviews.GetRiderReviews)).Methods("GET")
	router.Handle("/users", authed(c.Users.GetUsers)).Methods("GET")

	// Admin routes
	router.Handle("/update-role/{email}", admin(c.Users.UpdateRole)).Methods("PATCH")
	router.Handle("/user-delete/{id}", admin(c.Users.DeleteUser)).Methods("DELETE")

	if c.LiveFeed != nil {
		router.Handle("/ws/bookings", admin(c.LiveFeed)).Methods("GET")
	}
}
