package page

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/soulconnect/clinic-console/internal/catalog"
	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/form"
	"github.com/soulconnect/clinic-console/internal/model"
	"github.com/soulconnect/clinic-console/internal/toast"
	apperrors "github.com/soulconnect/clinic-console/pkg/errors"
	"github.com/soulconnect/clinic-console/pkg/logger"
)

// PatientDetailPage aggregates one patient's full profile, derived vitals,
// and their appointment history split into upcoming and past.
type PatientDetailPage struct {
	patients     *client.Patients
	appointments *client.Appointments
	locations    *catalog.Locations
	log          *logger.Logger
	nav          Navigator

	Confirm ConfirmFunc

	Toasts *toast.Notifier

	// Form covers the profile; AppointmentForm the nested scheduling form.
	Form            *form.Form
	AppointmentForm *form.Form

	patient         *model.Patient
	appointmentList []model.Appointment
	pending         []model.Appointment
	past            []model.Appointment

	types         []model.AppointmentType
	filteredTypes []model.AppointmentType

	allLocations      []model.Location
	filteredLocations []model.Location
	filteredEPS       []string

	locationDropdownOpen bool
	epsDropdownOpen      bool
	typeDropdownOpen     bool

	editingAppointmentID *uuid.UUID

	closeDelay time.Duration
	now        func() time.Time
}

// NewPatientDetailPage wires the detail page.
func NewPatientDetailPage(patients *client.Patients, appointments *client.Appointments, locations *catalog.Locations, notifier *toast.Notifier, nav Navigator, log *logger.Logger) *PatientDetailPage {
	if notifier == nil {
		notifier = toast.NewNotifier(0)
	}
	if nav == nil {
		nav = nopNavigator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PatientDetailPage{
		patients:        patients,
		appointments:    appointments,
		locations:       locations,
		log:             log,
		nav:             nav,
		Toasts:          notifier,
		Form:            newPatientDetailForm(),
		AppointmentForm: newAppointmentForm(),
		filteredEPS:     catalog.EPSList,
		closeDelay:      DropdownCloseDelay,
		now:             time.Now,
	}
}

func newPatientDetailForm() *form.Form {
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
	// Display-only composition of city and department; stripped from the
	// update payload.
	f.Add("location", "")
	f.Add("sexBiological", "")
	f.Add("genderIdentity", "")
	f.Add("maritalStatus", "")
	f.Add("educationLevel", "")
	f.Add("occupation", "")
	f.Add("emergencyContactName", "")
	f.Add("emergencyContactPhone", "")
	f.Add("city", "")
	f.Add("municipality", "")
	f.Add("neighborhood", "")
	f.Add("postalCode", "")
	f.Add("housingType", "")
	f.Add("socioeconomicStratum", "")
	f.Add("residenceDurationMonths", "")
	f.Add("abdominalCircumferenceCm", "")
	f.Add("heartRateBpm", "")
	f.Add("respiratoryRateRpm", "")
	f.Add("bloodPressureSys", "")
	f.Add("bloodPressureDia", "")
	f.Add("temperatureC", "")
	f.Add("spo2", "")
	f.Add("allergies", "")
	f.Add("medications", "")
	f.Add("surgeries", "")
	f.Add("familyHistory", "")
	f.Add("habits", "")
	f.Add("vaccines", "")
	f.Add("chronicConditions", "")
	return f
}

// Init loads the reference data and then the patient. A missing id behaves
// like a 404: error toast and navigation back to the registry.
func (p *PatientDetailPage) Init(ctx context.Context, id uuid.UUID) {
	p.LoadLocations(ctx)
	p.LoadTypes(ctx)
	p.Load(ctx, id)
}

// Load fetches the patient and, only on success, their appointments. A 404
// or transport failure notifies and navigates back to the patient list.
func (p *PatientDetailPage) Load(ctx context.Context, id uuid.UUID) {
	patient, err := p.patients.Get(ctx, id)
	if err != nil {
		p.log.Error(err, "failed to load patient", "id", id.String())
		p.Toasts.Error("No se pudo cargar el paciente")
		p.nav.NavigateTo(RoutePatients, nil)
		return
	}

	p.patient = patient
	p.Form.Patch(map[string]string{
		"firstName":                patient.FirstName,
		"lastName":                 patient.LastName,
		"identificationNumber":     patient.IdentificationNumber,
		"identificationType":       patient.IdentificationType,
		"dateOfBirth":              patient.DateOfBirth,
		"email":                    patient.Email,
		"phoneNumber":              patient.PhoneNumber,
		"eps":                      patient.EPS,
		"address":                  patient.Address,
		"bloodType":                patient.BloodType,
		"heightCm":                 formatFloat(patient.HeightCm),
		"weightKg":                 formatFloat(patient.WeightKg),
		"location":                 model.ComposeLocation(patient.City, patient.Municipality),
		"sexBiological":            patient.SexBiological,
		"genderIdentity":           patient.GenderIdentity,
		"maritalStatus":            patient.MaritalStatus,
		"educationLevel":           patient.EducationLevel,
		"occupation":               patient.Occupation,
		"emergencyContactName":     patient.EmergencyContactName,
		"emergencyContactPhone":    patient.EmergencyContactPhone,
		"city":                     patient.City,
		"municipality":             patient.Municipality,
		"neighborhood":             patient.Neighborhood,
		"postalCode":               patient.PostalCode,
		"housingType":              patient.HousingType,
		"socioeconomicStratum":     formatInt(patient.SocioeconomicStratum),
		"residenceDurationMonths":  formatInt(patient.ResidenceDurationMonths),
		"abdominalCircumferenceCm": formatFloat(patient.AbdominalCircumferenceCm),
		"heartRateBpm":             formatFloat(patient.HeartRateBpm),
		"respiratoryRateRpm":       formatFloat(patient.RespiratoryRateRpm),
		"bloodPressureSys":         formatFloat(patient.BloodPressureSys),
		"bloodPressureDia":         formatFloat(patient.BloodPressureDia),
		"temperatureC":             formatFloat(patient.TemperatureC),
		"spo2":                     formatFloat(patient.SpO2),
		"allergies":                patient.Allergies,
		"medications":              patient.Medications,
		"surgeries":                patient.Surgeries,
		"familyHistory":            patient.FamilyHistory,
		"habits":                   patient.Habits,
		"vaccines":                 patient.Vaccines,
		"chronicConditions":        patient.ChronicConditions,
	})

	p.loadAppointments(ctx, patient.ID)
}

func (p *PatientDetailPage) loadAppointments(ctx context.Context, patientID uuid.UUID) {
	data, err := p.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		p.log.Error(err, "failed to load appointments")
		p.Toasts.Error("No se pudieron cargar las citas")
		return
	}
	p.appointmentList = data
	p.splitAppointments()
}

func (p *PatientDetailPage) splitAppointments() {
	now := p.now()
	p.pending = nil
	p.past = nil
	for _, a := range p.appointmentList {
		if a.IsUpcoming(now) {
			p.pending = append(p.pending, a)
		} else {
			p.past = append(p.past, a)
		}
	}
}

// LoadLocations fetches the city/department dataset for address
// suggestions. Failure is logged only; the field still accepts free text.
func (p *PatientDetailPage) LoadLocations(ctx context.Context) {
	if p.locations == nil {
		return
	}
	locations, err := p.locations.Load(ctx)
	if err != nil {
		p.log.Error(err, "failed to load locations dataset")
		return
	}
	p.allLocations = locations
	p.filteredLocations = locations
}

// LoadTypes fetches the appointment type catalog.
func (p *PatientDetailPage) LoadTypes(ctx context.Context) {
	types, err := p.appointments.ListTypes(ctx)
	if err != nil {
		p.log.Error(err, "failed to load appointment types")
		p.Toasts.Error("No se pudieron cargar las especialidades")
		return
	}
	p.types = types
	p.filteredTypes = types
}

// BMI derives the body-mass index from the form's current height and
// weight. The second return is false when either is missing or zero.
func (p *PatientDetailPage) BMI() (float64, bool) {
	return model.ComputeBMI(p.Form.Float("heightCm"), p.Form.Float("weightKg"))
}

// SavePatient validates and sends the profile update, stripping the
// display-only location field, then re-fetches the patient.
func (p *PatientDetailPage) SavePatient(ctx context.Context) {
	if p.patient == nil || !p.Form.Valid() {
		p.Form.TouchAll()
		return
	}

	payload := p.profilePayload()

	if _, err := p.patients.Update(ctx, p.patient.ID, payload); err != nil {
		p.log.Error(err, "failed to update patient")
		if apperrors.IsConflict(err) {
			p.Toasts.Error("Identificacion ya registrada")
		} else {
			p.Toasts.Error("No se pudo actualizar el paciente")
		}
		return
	}
	p.Toasts.Success("Paciente actualizado")
	p.Load(ctx, p.patient.ID)
}

// profilePayload builds the update body from every form field except the
// display-only location.
func (p *PatientDetailPage) profilePayload() *model.Patient {
	return &model.Patient{
		FirstName:                p.Form.Get("firstName"),
		LastName:                 p.Form.Get("lastName"),
		IdentificationNumber:     p.Form.Get("identificationNumber"),
		IdentificationType:       p.Form.Get("identificationType"),
		DateOfBirth:              p.Form.Get("dateOfBirth"),
		Email:                    p.Form.Get("email"),
		PhoneNumber:              p.Form.Get("phoneNumber"),
		EPS:                      p.Form.Get("eps"),
		Address:                  p.Form.Get("address"),
		BloodType:                p.Form.Get("bloodType"),
		HeightCm:                 p.Form.Float("heightCm"),
		WeightKg:                 p.Form.Float("weightKg"),
		SexBiological:            p.Form.Get("sexBiological"),
		GenderIdentity:           p.Form.Get("genderIdentity"),
		MaritalStatus:            p.Form.Get("maritalStatus"),
		EducationLevel:           p.Form.Get("educationLevel"),
		Occupation:               p.Form.Get("occupation"),
		EmergencyContactName:     p.Form.Get("emergencyContactName"),
		EmergencyContactPhone:    p.Form.Get("emergencyContactPhone"),
		City:                     p.Form.Get("city"),
		Municipality:             p.Form.Get("municipality"),
		Neighborhood:             p.Form.Get("neighborhood"),
		PostalCode:               p.Form.Get("postalCode"),
		HousingType:              p.Form.Get("housingType"),
		SocioeconomicStratum:     p.Form.Int("socioeconomicStratum"),
		ResidenceDurationMonths:  p.Form.Int("residenceDurationMonths"),
		AbdominalCircumferenceCm: p.Form.Float("abdominalCircumferenceCm"),
		HeartRateBpm:             p.Form.Float("heartRateBpm"),
		RespiratoryRateRpm:       p.Form.Float("respiratoryRateRpm"),
		BloodPressureSys:         p.Form.Float("bloodPressureSys"),
		BloodPressureDia:         p.Form.Float("bloodPressureDia"),
		TemperatureC:             p.Form.Float("temperatureC"),
		SpO2:                     p.Form.Float("spo2"),
		Allergies:                p.Form.Get("allergies"),
		Medications:              p.Form.Get("medications"),
		Surgeries:                p.Form.Get("surgeries"),
		FamilyHistory:            p.Form.Get("familyHistory"),
		Habits:                   p.Form.Get("habits"),
		Vaccines:                 p.Form.Get("vaccines"),
		ChronicConditions:        p.Form.Get("chronicConditions"),
	}
}

// StartEditAppointment loads an appointment into the nested form and
// records its id.
func (p *PatientDetailPage) StartEditAppointment(a *model.Appointment) {
	id := a.ID
	p.editingAppointmentID = &id
	p.AppointmentForm.Patch(map[string]string{
		"date":      a.Date,
		"time":      a.Time,
		"specialty": a.Specialty,
		"status":    string(a.Status),
	})
}

// CancelAppointmentEdit leaves appointment edit mode and restores the form.
func (p *PatientDetailPage) CancelAppointmentEdit() {
	p.editingAppointmentID = nil
	p.AppointmentForm.Reset()
}

// SaveAppointment dispatches update when an edit is in progress, create
// otherwise; both paths reset the form and re-fetch the list.
func (p *PatientDetailPage) SaveAppointment(ctx context.Context) {
	if p.patient == nil {
		p.Toasts.Error("Selecciona un paciente")
		return
	}
	if !p.AppointmentForm.Valid() {
		p.AppointmentForm.TouchAll()
		return
	}

	payload := &model.Appointment{
		PatientID: p.patient.ID,
		Date:      p.AppointmentForm.Get("date"),
		Time:      p.AppointmentForm.Get("time"),
		Specialty: p.AppointmentForm.Get("specialty"),
		Status:    model.AppointmentStatus(p.AppointmentForm.Get("status")),
	}

	var err error
	editing := p.editingAppointmentID != nil
	if editing {
		_, err = p.appointments.Update(ctx, *p.editingAppointmentID, payload)
	} else {
		_, err = p.appointments.Create(ctx, payload)
	}
	if err != nil {
		p.log.Error(err, "failed to save appointment")
		p.Toasts.Error("No se pudo guardar la cita")
		return
	}

	if editing {
		p.Toasts.Success("Cita actualizada")
	} else {
		p.Toasts.Success("Cita creada")
	}
	p.CancelAppointmentEdit()
	p.loadAppointments(ctx, p.patient.ID)
}

// DeleteAppointment removes an appointment after explicit confirmation and
// re-fetches the list.
func (p *PatientDetailPage) DeleteAppointment(ctx context.Context, id uuid.UUID) {
	if p.Confirm == nil || !p.Confirm("¿Eliminar esta cita?") {
		return
	}
	if err := p.appointments.Delete(ctx, id); err != nil {
		p.log.Error(err, "failed to delete appointment")
		p.Toasts.Error("No se pudo eliminar")
		return
	}
	p.Toasts.Success("Cita eliminada")
	if p.patient != nil {
		p.loadAppointments(ctx, p.patient.ID)
	}
}

// FilterLocations narrows the address suggestions and opens the dropdown.
func (p *PatientDetailPage) FilterLocations(term string) {
	p.locationDropdownOpen = true
	p.filteredLocations = catalog.FilterLocations(p.allLocations, term)
}

// SelectLocation copies a suggestion into the structured city/department
// fields and the display string.
func (p *PatientDetailPage) SelectLocation(loc model.Location) {
	p.Form.Patch(map[string]string{
		"city":         loc.City,
		"municipality": loc.Department,
		"location":     loc.Label(),
	})
	p.locationDropdownOpen = false
}

// CloseLocationDropdown closes the suggestions after the grace delay.
func (p *PatientDetailPage) CloseLocationDropdown() {
	time.AfterFunc(p.closeDelay, func() {
		p.locationDropdownOpen = false
	})
}

// FilterEPS narrows the insurer suggestions and opens the dropdown.
func (p *PatientDetailPage) FilterEPS(term string) {
	p.epsDropdownOpen = true
	p.filteredEPS = catalog.FilterEPS(term)
}

// SelectEPS copies an insurer into the form and closes the dropdown.
func (p *PatientDetailPage) SelectEPS(eps string) {
	p.Form.Patch(map[string]string{"eps": eps})
	p.epsDropdownOpen = false
}

// CloseEPSDropdown closes the suggestions after the grace delay.
func (p *PatientDetailPage) CloseEPSDropdown() {
	time.AfterFunc(p.closeDelay, func() {
		p.epsDropdownOpen = false
	})
}

// FilterTypes narrows the specialty suggestions and opens the dropdown.
func (p *PatientDetailPage) FilterTypes(term string) {
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

// SelectType copies a catalog entry into the specialty field.
func (p *PatientDetailPage) SelectType(t *model.AppointmentType) {
	p.AppointmentForm.Set("specialty", t.DisplayName())
	p.typeDropdownOpen = false
}

// CloseTypeDropdown closes the suggestions after the grace delay.
func (p *PatientDetailPage) CloseTypeDropdown() {
	time.AfterFunc(p.closeDelay, func() {
		p.typeDropdownOpen = false
	})
}

// GoBack navigates to the patient list.
func (p *PatientDetailPage) GoBack() {
	p.nav.NavigateTo(RoutePatients, nil)
}

// Patient returns the loaded record, nil before Load succeeds.
func (p *PatientDetailPage) Patient() *model.Patient { return p.patient }

// PendingAppointments returns upcoming, non-cancelled appointments.
func (p *PatientDetailPage) PendingAppointments() []model.Appointment { return p.pending }

// PastAppointments returns past or cancelled appointments.
func (p *PatientDetailPage) PastAppointments() []model.Appointment { return p.past }

// EditingAppointmentID returns the id under edit, nil in create mode.
func (p *PatientDetailPage) EditingAppointmentID() *uuid.UUID { return p.editingAppointmentID }

// FilteredLocations returns the address suggestions after filtering.
func (p *PatientDetailPage) FilteredLocations() []model.Location { return p.filteredLocations }

// FilteredEPS returns the insurer suggestions after filtering.
func (p *PatientDetailPage) FilteredEPS() []string { return p.filteredEPS }

// FilteredTypes returns the specialty suggestions after filtering.
func (p *PatientDetailPage) FilteredTypes() []model.AppointmentType { return p.filteredTypes }
