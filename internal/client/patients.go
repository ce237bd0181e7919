package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/model"
)

const patientsPath = "/api/patients"

// Patients is the typed client for the patient resource.
type Patients struct {
	c *Client
}

// NewPatients wraps a transport client for patient operations.
func NewPatients(c *Client) *Patients {
	return &Patients{c: c}
}

// List fetches the full patient collection.
func (p *Patients) List(ctx context.Context) ([]model.Patient, error) {
	var out []model.Patient
	if err := p.c.do(ctx, http.MethodGet, patientsPath, nil, nil, &out, "patient", "list"); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one patient by id. A missing id maps to a NotFound error.
func (p *Patients) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var out model.Patient
	if err := p.c.do(ctx, http.MethodGet, patientsPath+"/"+id.String(), nil, nil, &out, "patient", "get"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByDocument looks a patient up by identification number.
func (p *Patients) SearchByDocument(ctx context.Context, identificationNumber string) (*model.Patient, error) {
	q := url.Values{"identificationNumber": {identificationNumber}}
	var out model.Patient
	if err := p.c.do(ctx, http.MethodGet, patientsPath+"/search", q, nil, &out, "patient", "search"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a new patient. A duplicate identification number maps to
// a Conflict error.
func (p *Patients) Create(ctx context.Context, patient *model.Patient) (*model.Patient, error) {
	var out model.Patient
	if err := p.c.do(ctx, http.MethodPost, patientsPath, nil, patient, &out, "patient", "create"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the mutable fields of an existing patient.
func (p *Patients) Update(ctx context.Context, id uuid.UUID, patient *model.Patient) (*model.Patient, error) {
	var out model.Patient
	if err := p.c.do(ctx, http.MethodPut, patientsPath+"/"+id.String(), nil, patient, &out, "patient", "update"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a patient.
func (p *Patients) Delete(ctx context.Context, id uuid.UUID) error {
	return p.c.do(ctx, http.MethodDelete, patientsPath+"/"+id.String(), nil, nil, nil, "patient", "delete")
}
