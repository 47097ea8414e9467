// Package services defines the business logic for menus, banners and their
// translations. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Mapping these errors to user-facing messages or status codes is the job of
// whatever transport sits in front of the services.
package services

import "errors"

// Catalog lookup errors.
var (
	// ErrRestaurantNotFound indicates that the owning restaurant does not exist.
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrMenuNotFound indicates that the requested menu does not exist.
	ErrMenuNotFound = errors.New("menu not found")

	// ErrCategoryNotFound indicates that the requested category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrMenuItemNotFound indicates that the requested menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrBannerNotFound indicates that the requested banner does not exist.
	ErrBannerNotFound = errors.New("banner not found")
)

// Input and visibility errors.
var (
	// ErrEmptyName is returned when a name or title is blank.
	ErrEmptyName = errors.New("name is empty")

	// ErrInvalidPrice is returned for negative prices.
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrInvalidSchedule wraps schedule validation failures.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrMenuUnavailable is returned by guest read paths when a menu exists
	// but is unpublished or outside its schedule.
	ErrMenuUnavailable = errors.New("menu is not available")
)
