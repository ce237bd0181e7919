package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// AppointmentStatuses lists the selectable states in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

const (
	appointmentDateLayout = "2006-01-02"
	appointmentTimeLayout = "15:04"
)

// Appointment is the wire representation of a scheduled visit. Date and time
// travel as separate strings, exactly as the remote API serializes them.
type Appointment struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	PatientID uuid.UUID         `json:"patientId"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Specialty string            `json:"specialty"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

// When combines the date and time fields into a local time.Time.
func (a *Appointment) When() (time.Time, error) {
	layout := appointmentDateLayout + "T" + appointmentTimeLayout
	t, err := time.ParseInLocation(layout, a.Date+"T"+a.Time, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment date/time %q %q: %w", a.Date, a.Time, err)
	}
	return t, nil
}

// IsUpcoming reports whether the appointment is still ahead: its date-time is
// not before now and it has not been cancelled. Unparseable date-times count
// as past.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	if a.Status == AppointmentStatusCancelled {
		return false
	}
	when, err := a.When()
	if err != nil {
		return false
	}
	return !when.Before(now)
}

// AppointmentType is a read-only catalog entry used for specialty suggestions.
type AppointmentType struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Code      string    `json:"code"`
}

// SearchKey is the lowercase composite of name, specialty and code.
func (t *AppointmentType) SearchKey() string {
	return strings.ToLower(fmt.Sprintf("%s %s %s", t.Name, t.Specialty, t.Code))
}

// DisplayName prefers the catalog name, falling back to the specialty.
func (t *AppointmentType) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Specialty
}
