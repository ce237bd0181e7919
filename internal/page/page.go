// Package page holds one state container per console page. Each page owns
// its fetched collections, filters and form state exclusively; navigating
// between pages re-fetches from the API. Pages are not safe for concurrent
// use from multiple goroutines, mirroring the single event loop they model.
package page

import (
	"strings"
	"time"
)

// Console routes.
const (
	RoutePatients     = "/pacientes"
	RouteAppointments = "/citas"
	RouteHistories    = "/historias"
	RouteIndicators   = "/indicadores"
)

// Navigator abstracts route changes so pages stay testable.
type Navigator interface {
	NavigateTo(route string, params map[string]string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string, params map[string]string)

func (f NavigatorFunc) NavigateTo(route string, params map[string]string) {
	f(route, params)
}

type nopNavigator struct{}

func (nopNavigator) NavigateTo(string, map[string]string) {}

// ConfirmFunc asks the user to confirm a destructive action. Deletion is
// only issued when it returns true.
type ConfirmFunc func(prompt string) bool

// DropdownCloseDelay is how long a suggestion dropdown stays open after the
// field loses focus, so a click on a suggestion still lands.
const DropdownCloseDelay = 120 * time.Millisecond

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func containsTerm(haystack, term string) bool {
	return strings.Contains(haystack, term)
}
