package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/model"
)

const (
	appointmentsPath     = "/api/appointments"
	appointmentTypesPath = "/api/appointment-types"
)

// Appointments is the typed client for the appointment resource and its
// read-only type catalog.
type Appointments struct {
	c *Client
}

// NewAppointments wraps a transport client for appointment operations.
func NewAppointments(c *Client) *Appointments {
	return &Appointments{c: c}
}

// List fetches every appointment.
func (a *Appointments) List(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := a.c.do(ctx, http.MethodGet, appointmentsPath, nil, nil, &out, "appointment", "list"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPatient fetches the appointments attached to one patient.
func (a *Appointments) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.Appointment, error) {
	q := url.Values{"patientId": {patientID.String()}}
	var out []model.Appointment
	if err := a.c.do(ctx, http.MethodGet, appointmentsPath, q, nil, &out, "appointment", "list"); err != nil {
		return nil, err
	}
	return out, nil
}

// Create schedules a new appointment for the patient named in the payload.
func (a *Appointments) Create(ctx context.Context, apt *model.Appointment) (*model.Appointment, error) {
	var out model.Appointment
	if err := a.c.do(ctx, http.MethodPost, appointmentsPath, nil, apt, &out, "appointment", "create"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update mutates an existing appointment's date, time, specialty or status.
func (a *Appointments) Update(ctx context.Context, id uuid.UUID, apt *model.Appointment) (*model.Appointment, error) {
	var out model.Appointment
	if err := a.c.do(ctx, http.MethodPut, appointmentsPath+"/"+id.String(), nil, apt, &out, "appointment", "update"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an appointment.
func (a *Appointments) Delete(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, appointmentsPath+"/"+id.String(), nil, nil, nil, "appointment", "delete")
}

// ListTypes fetches the read-only appointment type catalog.
func (a *Appointments) ListTypes(ctx context.Context) ([]model.AppointmentType, error) {
	var out []model.AppointmentType
	if err := a.c.do(ctx, http.MethodGet, appointmentTypesPath, nil, nil, &out, "appointment_type", "list"); err != nil {
		return nil, err
	}
	return out, nil
}
