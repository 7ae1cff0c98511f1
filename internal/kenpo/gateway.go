// Package kenpo talks to the external booking API: service catalog,
// reservation link issuance, input criteria and reservation submission.
package kenpo

import (
	"context"
	"errors"
)

// ErrCategoryNotFound indicates a category code the catalog does not know.
var ErrCategoryNotFound = errors.New("service category not found")

// ServiceCategory is one bookable category with its service groups.
type ServiceCategory struct {
	Code     string         `json:"code"`
	Name     string         `json:"name"`
	Services []ServiceGroup `json:"services"`
}

// ServiceGroup is one concrete service within a category.
type ServiceGroup struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Gateway is the consumed surface of the booking API.
type Gateway interface {
	// Categories lists every service category.
	Categories(ctx context.Context) ([]ServiceCategory, error)
	// FindCategory returns one category by code, or ErrCategoryNotFound.
	FindCategory(ctx context.Context, code string) (*ServiceCategory, error)
	// ServiceAvailable reports whether the (category, service) pair is
	// currently offered.
	ServiceAvailable(ctx context.Context, categoryCode, service string) (bool, error)
	// RequestReservationURL asks the provider to email a reservation
	// link for the chosen service.
	RequestReservationURL(ctx context.Context, categoryCode, service, email string) error
	// Criteria fetches the per-step input constraints for a reservation URL.
	Criteria(ctx context.Context, reservationURL string) (map[string][]string, error)
	// Submit sends the final reservation data for a reservation URL.
	Submit(ctx context.Context, categoryCode, reservationURL string, data any) error
}
