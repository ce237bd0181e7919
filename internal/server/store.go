package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/model"
)

// Store is the in-memory backing of the stub API. It mirrors the remote
// backend's semantics: unique identification numbers, server-assigned ids,
// idempotent deletes.
type Store struct {
	mu           sync.RWMutex
	patients     map[uuid.UUID]model.Patient
	appointments map[uuid.UUID]model.Appointment
	types        []model.AppointmentType
}

// NewStore creates an empty store with the appointment type catalog loaded.
func NewStore() *Store {
	return &Store{
		patients:     make(map[uuid.UUID]model.Patient),
		appointments: make(map[uuid.UUID]model.Appointment),
		types:        defaultAppointmentTypes(),
	}
}

func defaultAppointmentTypes() []model.AppointmentType {
	names := []struct{ name, specialty, code string }{
		{"Consulta general", "Medicina General", "MG-001"},
		{"Control pediátrico", "Pediatría", "PD-001"},
		{"Valoración cardiológica", "Cardiología", "CD-001"},
		{"Consulta dermatológica", "Dermatología", "DM-001"},
		{"Consulta odontológica", "Odontología", "OD-001"},
		{"Consulta psicológica", "Psicología", "PS-001"},
		{"Control prenatal", "Ginecología", "GN-001"},
	}
	types := make([]model.AppointmentType, 0, len(names))
	for _, n := range names {
		types = append(types, model.AppointmentType{
			ID:        uuid.New(),
			Name:      n.name,
			Specialty: n.specialty,
			Code:      n.code,
		})
	}
	return types
}

// ListPatients returns every patient ordered by creation time.
func (s *Store) ListPatients() []model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// GetPatient looks a patient up by id.
func (s *Store) GetPatient(id uuid.UUID) (model.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	return p, ok
}

// FindPatientByDocument looks a patient up by identification number.
func (s *Store) FindPatientByDocument(identificationNumber string) (model.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.IdentificationNumber == identificationNumber {
			return p, true
		}
	}
	return model.Patient{}, false
}

// CreatePatient inserts a patient, assigning id and timestamps. It reports
// false when the identification number is already registered.
func (s *Store) CreatePatient(p model.Patient) (model.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.patients {
		if existing.IdentificationNumber == p.IdentificationNumber {
			return model.Patient{}, false
		}
	}
	now := time.Now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.patients[p.ID] = p
	return p, true
}

// UpdatePatient replaces a patient's mutable fields. The second return is
// false when the id is unknown, the third when the identification number
// collides with another patient.
func (s *Store) UpdatePatient(id uuid.UUID, payload model.Patient) (model.Patient, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.patients[id]
	if !ok {
		return model.Patient{}, false, true
	}
	for otherID, other := range s.patients {
		if otherID != id && other.IdentificationNumber == payload.IdentificationNumber {
			return model.Patient{}, true, false
		}
	}
	payload.ID = existing.ID
	payload.CreatedAt = existing.CreatedAt
	payload.UpdatedAt = time.Now()
	s.patients[id] = payload
	return payload, true, true
}

// DeletePatient removes a patient. Deleting an unknown id is a no-op, as in
// the remote backend.
func (s *Store) DeletePatient(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patients, id)
}

// ListAppointments returns appointments, optionally restricted to one
// patient, ordered by date then time.
func (s *Store) ListAppointments(patientID *uuid.UUID) []model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		if patientID != nil && a.PatientID != *patientID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].Time < out[j].Time
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// CreateAppointment inserts an appointment for an existing patient. It
// reports false when the patient is unknown.
func (s *Store) CreateAppointment(a model.Appointment) (model.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[a.PatientID]; !ok {
		return model.Appointment{}, false
	}
	if a.Status == "" {
		a.Status = model.AppointmentStatusPending
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	s.appointments[a.ID] = a
	return a, true
}

// UpdateAppointment mutates date, time, specialty and status. It reports
// false when the id is unknown.
func (s *Store) UpdateAppointment(id uuid.UUID, payload model.Appointment) (model.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.appointments[id]
	if !ok {
		return model.Appointment{}, false
	}
	existing.Date = payload.Date
	existing.Time = payload.Time
	existing.Specialty = payload.Specialty
	if payload.Status != "" {
		existing.Status = payload.Status
	}
	s.appointments[id] = existing
	return existing, true
}

// DeleteAppointment removes an appointment; unknown ids are a no-op.
func (s *Store) DeleteAppointment(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.appointments, id)
}

// AppointmentTypes returns the read-only catalog.
func (s *Store) AppointmentTypes() []model.AppointmentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AppointmentType, len(s.types))
	copy(out, s.types)
	return out
}

// Seed loads a handful of demo patients and appointments for local runs.
func (s *Store) Seed() {
	num := func(v float64) *float64 { return &v }
	p1, _ := s.CreatePatient(model.Patient{
		FirstName:            "María",
		LastName:             "Gómez",
		IdentificationNumber: "1032456789",
		IdentificationType:   model.IdentificationCC,
		DateOfBirth:          "1988-04-12",
		Email:                "maria.gomez@example.com",
		PhoneNumber:          "3001234567",
		EPS:                  "Nueva EPS",
		City:                 "Medellín",
		Municipality:         "Antioquia",
		BloodType:            "O+",
		HeightCm:             num(162),
		WeightKg:             num(58),
	})
	p2, _ := s.CreatePatient(model.Patient{
		FirstName:            "Carlos",
		LastName:             "Ramírez",
		IdentificationNumber: "79654321",
		IdentificationType:   model.IdentificationCC,
		DateOfBirth:          "1975-11-03",
		Email:                "carlos.ramirez@example.com",
		PhoneNumber:          "3109876543",
		EPS:                  "Sanitas",
		City:                 "Bogotá",
		Municipality:         "Cundinamarca",
		BloodType:            "A-",
	})

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	s.CreateAppointment(model.Appointment{
		PatientID: p1.ID,
		Date:      tomorrow,
		Time:      "09:30",
		Specialty: "Medicina General",
		Status:    model.AppointmentStatusPending,
	})
	s.CreateAppointment(model.Appointment{
		PatientID: p1.ID,
		Date:      lastMonth,
		Time:      "14:00",
		Specialty: "Cardiología",
		Status:    model.AppointmentStatusCompleted,
	})
	s.CreateAppointment(model.Appointment{
		PatientID: p2.ID,
		Date:      tomorrow,
		Time:      "11:00",
		Specialty: "Odontología",
		Status:    model.AppointmentStatusPending,
	})
}
