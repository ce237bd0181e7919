package page

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/form"
	"github.com/soulconnect/clinic-console/internal/model"
	"github.com/soulconnect/clinic-console/internal/toast"
	apperrors "github.com/soulconnect/clinic-console/pkg/errors"
	"github.com/soulconnect/clinic-console/pkg/logger"
)

// DefaultPageSize is the fixed window of the patient table.
const DefaultPageSize = 4

// PatientsPage is the registry page: the searchable, paginated patient list
// plus the create/edit form.
type PatientsPage struct {
	patients *client.Patients
	log      *logger.Logger
	nav      Navigator

	// Confirm guards destructive actions; a nil hook rejects them.
	Confirm ConfirmFunc

	Toasts *toast.Notifier
	Form   *form.Form

	pageSize   int
	all        []model.Patient
	filtered   []model.Patient
	page       int
	searchTerm string
	editingID  *uuid.UUID
}

// NewPatientsPage wires the registry page. A zero pageSize falls back to
// DefaultPageSize; nil notifier and navigator get inert defaults.
func NewPatientsPage(patients *client.Patients, notifier *toast.Notifier, nav Navigator, pageSize int, log *logger.Logger) *PatientsPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if notifier == nil {
		notifier = toast.NewNotifier(0)
	}
	if nav == nil {
		nav = nopNavigator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PatientsPage{
		patients: patients,
		log:      log,
		nav:      nav,
		Toasts:   notifier,
		Form:     newPatientListForm(),
		pageSize: pageSize,
		page:     1,
	}
}

func newPatientListForm() *form.Form {
	f := form.New()
	f.Add("firstName", "required,min=2")
	f.Add("lastName", "required")
	f.Add("identificationNumber", "required")
	f.AddWithDefault("identificationType", model.IdentificationCC, "required")
	f.Add("dateOfBirth", "required,notfuture")
	f.Add("email", "omitempty,email")
	f.Add("phoneNumber", "")
	f.Add("eps", "")
	f.Add("address", "")
	f.Add("bloodType", "")
	f.Add("heightCm", "")
	f.Add("weightKg", "")
	return f
}

// Init performs the initial fetch.
func (p *PatientsPage) Init(ctx context.Context) {
	p.Reload(ctx)
}

// Reload replaces the collection with a fresh fetch, re-applies the active
// search term and resets to the first page. On failure the prior list stays
// on screen.
func (p *PatientsPage) Reload(ctx context.Context) {
	data, err := p.patients.List(ctx)
	if err != nil {
		p.log.Error(err, "failed to load patients")
		p.Toasts.Error("Error al cargar pacientes")
		return
	}
	p.all = data
	p.applyFilter()
	p.page = 1
}

// Search filters the list by a case-insensitive substring of the composite
// key (full name + identification number) and resets to page 1.
func (p *PatientsPage) Search(term string) {
	p.searchTerm = term
	p.applyFilter()
	p.page = 1
}

func (p *PatientsPage) applyFilter() {
	term := normalizeTerm(p.searchTerm)
	if term == "" {
		p.filtered = p.all
		return
	}
	filtered := make([]model.Patient, 0, len(p.all))
	for _, patient := range p.all {
		if containsTerm(patient.SearchKey(), term) {
			filtered = append(filtered, patient)
		}
	}
	p.filtered = filtered
}

// TotalPages is always at least 1, even on an empty list.
func (p *PatientsPage) TotalPages() int {
	pages := (len(p.filtered) + p.pageSize - 1) / p.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paged returns the current window of the filtered list. An out-of-range
// page yields an empty slice, never a panic.
func (p *PatientsPage) Paged() []model.Patient {
	start := (p.page - 1) * p.pageSize
	if start >= len(p.filtered) || start < 0 {
		return nil
	}
	end := start + p.pageSize
	if end > len(p.filtered) {
		end = len(p.filtered)
	}
	return p.filtered[start:end]
}

// GoToPage clamps the target into [1, TotalPages].
func (p *PatientsPage) GoToPage(n int) {
	if n < 1 {
		n = 1
	}
	if max := p.TotalPages(); n > max {
		n = max
	}
	p.page = n
}

// Submit validates the form and dispatches create or update depending on
// whether an edit is in progress. Invalid input marks every field touched
// and issues nothing.
func (p *PatientsPage) Submit(ctx context.Context) {
	if !p.Form.Valid() {
		p.Form.TouchAll()
		return
	}

	payload := p.patientPayload()

	if p.editingID != nil {
		if _, err := p.patients.Update(ctx, *p.editingID, payload); err != nil {
			p.log.Error(err, "failed to update patient")
			if apperrors.IsConflict(err) {
				p.Toasts.Error("Identificacion ya registrada")
			} else {
				p.Toasts.Error("No se pudo actualizar")
			}
			return
		}
		p.Reload(ctx)
		p.resetForm()
		p.Toasts.Success("Paciente actualizado")
		return
	}

	if _, err := p.patients.Create(ctx, payload); err != nil {
		p.log.Error(err, "failed to create patient")
		if apperrors.IsConflict(err) {
			p.Toasts.Error("Identificacion ya registrada")
		} else {
			p.Toasts.Error("No se pudo guardar")
		}
		return
	}
	p.Reload(ctx)
	p.resetForm()
	p.page = 1
	p.Toasts.Success("Paciente guardado")
}

func (p *PatientsPage) patientPayload() *model.Patient {
	return &model.Patient{
		FirstName:            p.Form.Get("firstName"),
		LastName:             p.Form.Get("lastName"),
		IdentificationNumber: p.Form.Get("identificationNumber"),
		IdentificationType:   p.Form.Get("identificationType"),
		DateOfBirth:          p.Form.Get("dateOfBirth"),
		Email:                p.Form.Get("email"),
		PhoneNumber:          p.Form.Get("phoneNumber"),
		EPS:                  p.Form.Get("eps"),
		Address:              p.Form.Get("address"),
		BloodType:            p.Form.Get("bloodType"),
		HeightCm:             p.Form.Float("heightCm"),
		WeightKg:             p.Form.Float("weightKg"),
	}
}

// StartEdit loads an existing patient into the form and records its id.
func (p *PatientsPage) StartEdit(patient *model.Patient) {
	id := patient.ID
	p.editingID = &id
	p.Form.Patch(map[string]string{
		"firstName":            patient.FirstName,
		"lastName":             patient.LastName,
		"identificationNumber": patient.IdentificationNumber,
		"identificationType":   patient.IdentificationType,
		"dateOfBirth":          patient.DateOfBirth,
		"email":                patient.Email,
		"phoneNumber":          patient.PhoneNumber,
		"eps":                  patient.EPS,
		"address":              patient.Address,
		"bloodType":            patient.BloodType,
		"heightCm":             formatFloat(patient.HeightCm),
		"weightKg":             formatFloat(patient.WeightKg),
	})
}

// CancelEdit leaves edit mode and restores form defaults.
func (p *PatientsPage) CancelEdit() {
	p.resetForm()
}

func (p *PatientsPage) resetForm() {
	p.editingID = nil
	p.Form.Reset()
}

// Delete removes a patient after explicit confirmation, then reloads.
func (p *PatientsPage) Delete(ctx context.Context, id uuid.UUID) {
	if p.Confirm == nil || !p.Confirm("¿Eliminar este paciente?") {
		return
	}
	if err := p.patients.Delete(ctx, id); err != nil {
		p.log.Error(err, "failed to delete patient")
		p.Toasts.Error("No se pudo eliminar")
		return
	}
	p.Reload(ctx)
	p.Toasts.Success("Paciente eliminado")
}

// GoToAppointments navigates to the appointments page pre-filtered to one
// patient.
func (p *PatientsPage) GoToAppointments(patient *model.Patient) {
	p.nav.NavigateTo(RouteAppointments, map[string]string{"patientId": patient.ID.String()})
}

// GoToDetail navigates to a patient's detail page.
func (p *PatientsPage) GoToDetail(patient *model.Patient) {
	p.nav.NavigateTo(RoutePatients+"/"+patient.ID.String(), nil)
}

// All returns the unfiltered collection.
func (p *PatientsPage) All() []model.Patient { return p.all }

// Filtered returns the collection after the active search term.
func (p *PatientsPage) Filtered() []model.Patient { return p.filtered }

// Page returns the current 1-based page number.
func (p *PatientsPage) Page() int { return p.page }

// EditingID returns the id being edited, nil in create mode.
func (p *PatientsPage) EditingID() *uuid.UUID { return p.editingID }

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
