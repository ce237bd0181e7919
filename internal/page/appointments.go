package page

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/form"
	"github.com/soulconnect/clinic-console/internal/model"
	"github.com/soulconnect/clinic-console/internal/toast"
	apperrors "github.com/soulconnect/clinic-console/pkg/errors"
	"github.com/soulconnect/clinic-console/pkg/logger"
)

// AppointmentsPage is the scheduling page: pick a patient by document or
// from the list, then create and delete their appointments.
type AppointmentsPage struct {
	patients     *client.Patients
	appointments *client.Appointments
	log          *logger.Logger
	nav          Navigator

	Confirm ConfirmFunc

	Toasts *toast.Notifier

	// Lookup holds the document search control; Form holds the new
	// appointment's fields.
	Lookup *form.Form
	Form   *form.Form

	allPatients      []model.Patient
	filteredPatients []model.Patient
	selected         *model.Patient
	appointmentList  []model.Appointment

	types            []model.AppointmentType
	filteredTypes    []model.AppointmentType
	typeDropdownOpen bool
	closeDelay       time.Duration
}

// NewAppointmentsPage wires the scheduling page.
func NewAppointmentsPage(patients *client.Patients, appointments *client.Appointments, notifier *toast.Notifier, nav Navigator, log *logger.Logger) *AppointmentsPage {
	if notifier == nil {
		notifier = toast.NewNotifier(0)
	}
	if nav == nil {
		nav = nopNavigator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	lookup := form.New()
	lookup.Add("document", "required,min=3")
	return &AppointmentsPage{
		patients:     patients,
		appointments: appointments,
		log:          log,
		nav:          nav,
		Toasts:       notifier,
		Lookup:       lookup,
		Form:         newAppointmentForm(),
		closeDelay:   DropdownCloseDelay,
	}
}

func newAppointmentForm() *form.Form {
	f := form.New()
	f.Add("date", "required")
	f.Add("time", "required")
	f.Add("specialty", "required,min=2")
	f.AddWithDefault("status", string(model.AppointmentStatusPending), "required")
	return f
}

// Init loads the patient list and the type catalog, and re-selects the
// patient named by the deep-link query parameter when present.
func (p *AppointmentsPage) Init(ctx context.Context, queryPatientID string) {
	if queryPatientID != "" {
		if id, err := uuid.Parse(queryPatientID); err == nil {
			p.LoadPatientByID(ctx, id)
		}
	}
	p.LoadPatients(ctx)
	p.LoadTypes(ctx)
}

// LoadPatients fetches the patient collection for the picker.
func (p *AppointmentsPage) LoadPatients(ctx context.Context) {
	data, err := p.patients.List(ctx)
	if err != nil {
		p.log.Error(err, "failed to load patients")
		p.Toasts.Error("No se pudieron cargar los pacientes")
		return
	}
	p.allPatients = data
	p.filteredPatients = data
}

// LoadTypes fetches the appointment type catalog for the specialty
// suggestions.
func (p *AppointmentsPage) LoadTypes(ctx context.Context) {
	types, err := p.appointments.ListTypes(ctx)
	if err != nil {
		p.log.Error(err, "failed to load appointment types")
		p.Toasts.Error("No se pudieron cargar las especialidades")
		return
	}
	p.types = types
	p.filteredTypes = types
}

// SearchByDocument resolves the lookup control against the document search
// endpoint and selects the result.
func (p *AppointmentsPage) SearchByDocument(ctx context.Context) {
	if !p.Lookup.Valid() {
		p.Lookup.Touch("document")
		p.Toasts.Error("Ingresa un documento para buscar")
		return
	}
	document := strings.TrimSpace(p.Lookup.Get("document"))
	if document == "" {
		p.Toasts.Error("Ingresa un documento para buscar")
		return
	}

	patient, err := p.patients.SearchByDocument(ctx, document)
	if err != nil {
		p.log.Error(err, "failed to search patient by document")
		p.clearSelection(false)
		if apperrors.IsNotFound(err) {
			p.Toasts.Error("Paciente no encontrado")
		} else {
			p.Toasts.Error("No se pudo buscar el paciente")
		}
		return
	}
	p.SelectPatient(ctx, patient, true)
}

// FilterPatients narrows the picker by the composite search key. An exact
// identification number match selects the patient outright.
func (p *AppointmentsPage) FilterPatients(ctx context.Context, term string) {
	value := normalizeTerm(term)
	if value == "" {
		p.filteredPatients = p.allPatients
		return
	}

	filtered := make([]model.Patient, 0, len(p.allPatients))
	for _, patient := range p.allPatients {
		if containsTerm(patient.SearchKey(), value) {
			filtered = append(filtered, patient)
		}
	}
	p.filteredPatients = filtered

	for i := range filtered {
		if strings.ToLower(filtered[i].IdentificationNumber) == value {
			p.SelectPatient(ctx, &filtered[i], true)
			return
		}
	}
}

// LoadPatientByID resolves a deep-linked patient without rewriting the
// query parameter it came from.
func (p *AppointmentsPage) LoadPatientByID(ctx context.Context, id uuid.UUID) {
	patient, err := p.patients.Get(ctx, id)
	if err != nil {
		p.log.Error(err, "failed to load patient")
		p.clearSelection(false)
		p.Toasts.Error("No se pudo cargar el paciente")
		return
	}
	p.SelectPatient(ctx, patient, false)
	if patient.IdentificationNumber != "" {
		p.Lookup.Patch(map[string]string{"document": patient.IdentificationNumber})
	}
}

// SelectPatient makes a patient current, resets the appointment form and
// fetches their appointments. updateQuery mirrors the selection into the
// page's query parameter.
func (p *AppointmentsPage) SelectPatient(ctx context.Context, patient *model.Patient, updateQuery bool) {
	p.selected = patient
	p.Form.Reset()
	p.loadAppointments(ctx, patient.ID)
	if updateQuery {
		p.nav.NavigateTo(RouteAppointments, map[string]string{"patientId": patient.ID.String()})
	}
}

// ClearSelection drops the current patient and their appointment list.
func (p *AppointmentsPage) ClearSelection() {
	p.clearSelection(true)
}

func (p *AppointmentsPage) clearSelection(navigate bool) {
	p.selected = nil
	p.appointmentList = nil
	p.Form.Reset()
	p.Lookup.Reset()
	if navigate {
		p.nav.NavigateTo(RouteAppointments, nil)
	}
}

func (p *AppointmentsPage) loadAppointments(ctx context.Context, patientID uuid.UUID) {
	data, err := p.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		p.log.Error(err, "failed to load appointments")
		p.Toasts.Error("No se pudieron cargar las citas")
		return
	}
	p.appointmentList = data
}

// FilterTypes narrows the specialty suggestions and opens the dropdown.
func (p *AppointmentsPage) FilterTypes(term string) {
	p.typeDropdownOpen = true
	value := normalizeTerm(term)
	if value == "" {
		p.filteredTypes = p.types
		return
	}
	filtered := make([]model.AppointmentType, 0, len(p.types))
	for _, t := range p.types {
		if containsTerm(t.SearchKey(), value) {
			filtered = append(filtered, t)
		}
	}
	p.filteredTypes = filtered
}

// SelectType copies a catalog entry into the specialty field and closes the
// dropdown.
func (p *AppointmentsPage) SelectType(t *model.AppointmentType) {
	p.Form.Set("specialty", t.DisplayName())
	p.typeDropdownOpen = false
}

// CloseTypeDropdown closes the suggestion list after the grace delay.
func (p *AppointmentsPage) CloseTypeDropdown() {
	time.AfterFunc(p.closeDelay, func() {
		p.typeDropdownOpen = false
	})
}

// CreateAppointment validates the form and schedules a visit for the
// selected patient.
func (p *AppointmentsPage) CreateAppointment(ctx context.Context) {
	if p.selected == nil {
		p.Toasts.Error("Selecciona un paciente")
		return
	}
	if !p.Form.Valid() {
		p.Form.TouchAll()
		return
	}

	payload := &model.Appointment{
		PatientID: p.selected.ID,
		Date:      p.Form.Get("date"),
		Time:      p.Form.Get("time"),
		Specialty: p.Form.Get("specialty"),
		Status:    model.AppointmentStatus(p.Form.Get("status")),
	}
	if _, err := p.appointments.Create(ctx, payload); err != nil {
		p.log.Error(err, "failed to create appointment")
		p.Toasts.Error("No se pudo crear la cita")
		return
	}
	p.Toasts.Success("Cita creada")
	p.Form.Reset()
	p.loadAppointments(ctx, p.selected.ID)
}

// DeleteAppointment removes an appointment after explicit confirmation and
// re-fetches the list.
func (p *AppointmentsPage) DeleteAppointment(ctx context.Context, id uuid.UUID) {
	if p.Confirm == nil || !p.Confirm("¿Eliminar esta cita?") {
		return
	}
	if err := p.appointments.Delete(ctx, id); err != nil {
		p.log.Error(err, "failed to delete appointment")
		p.Toasts.Error("No se pudo eliminar la cita")
		return
	}
	if p.selected != nil {
		p.loadAppointments(ctx, p.selected.ID)
	}
	p.Toasts.Success("Cita eliminada")
}

// GoToPatients navigates back to the registry.
func (p *AppointmentsPage) GoToPatients() {
	p.nav.NavigateTo(RoutePatients, nil)
}

// Selected returns the current patient, nil when none is chosen.
func (p *AppointmentsPage) Selected() *model.Patient { return p.selected }

// Appointments returns the selected patient's appointments.
func (p *AppointmentsPage) Appointments() []model.Appointment { return p.appointmentList }

// FilteredPatients returns the picker collection after filtering.
func (p *AppointmentsPage) FilteredPatients() []model.Patient { return p.filteredPatients }

// FilteredTypes returns the specialty suggestions after filtering.
func (p *AppointmentsPage) FilteredTypes() []model.AppointmentType { return p.filteredTypes }

// TypeDropdownOpen reports whether the specialty suggestions are showing.
func (p *AppointmentsPage) TypeDropdownOpen() bool { return p.typeDropdownOpen }
