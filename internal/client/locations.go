package client

import (
	"context"
	"net/http"

	"github.com/soulconnect/clinic-console/internal/model"
)

// Locations fetches the static department/city dataset served next to the
// API. The asset never changes at runtime; callers cache it.
type Locations struct {
	c    *Client
	path string
}

// NewLocations wraps a transport client for the locations asset at path.
func NewLocations(c *Client, path string) *Locations {
	if path == "" {
		path = "/assets/colombia-locations.json"
	}
	return &Locations{c: c, path: path}
}

// Load fetches and flattens the dataset into one Location per city.
func (l *Locations) Load(ctx context.Context) ([]model.Location, error) {
	var entries []model.DepartmentEntry
	if err := l.c.do(ctx, http.MethodGet, l.path, nil, nil, &entries, "location", "load"); err != nil {
		return nil, err
	}
	return model.FlattenDepartments(entries), nil
}
