package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulconnect/clinic-console/internal/catalog"
	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/model"
	"github.com/soulconnect/clinic-console/internal/server"
	"github.com/soulconnect/clinic-console/internal/toast"
	"github.com/soulconnect/clinic-console/pkg/logger"
)

func fixedNow() time.Time {
	return time.Date(2030, 1, 15, 12, 0, 0, 0, time.Local)
}

func seedDetailPatient(t *testing.T, env *testEnv) model.Patient {
	t.Helper()
	height, weight := 170.0, 65.0
	created, ok := env.store.CreatePatient(model.Patient{
		FirstName:            "María",
		LastName:             "Gómez",
		IdentificationNumber: "100200",
		IdentificationType:   model.IdentificationCC,
		DateOfBirth:          "1990-01-15",
		EPS:                  "EPS Sura",
		City:                 "Medellín",
		Municipality:         "Antioquia",
		HeightCm:             &height,
		WeightKg:             &weight,
	})
	require.True(t, ok)
	return created
}

func TestDetailLoadPopulatesForm(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Init(context.Background(), seeded.ID)

	require.NotNil(t, p.Patient())
	assert.Equal(t, "María", p.Form.Get("firstName"))
	assert.Equal(t, "Medellín, Antioquia", p.Form.Get("location"))
	assert.Equal(t, "170", p.Form.Get("heightCm"))
	assert.NotEmpty(t, p.FilteredLocations(), "locations dataset loads from the asset")
	assert.NotEmpty(t, p.FilteredTypes())
}

func TestDetailLoadNotFoundSkipsAppointments(t *testing.T) {
	store := server.NewStore()
	var appointmentCalls int64
	inner := server.New(store, nil).Handler()
	wrapped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/appointments") {
			atomic.AddInt64(&appointmentCalls, 1)
		}
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(wrapped.Close)

	c := client.New(wrapped.URL, logger.Nop())
	nav := &navRecorder{}
	toasts := toast.NewNotifier(time.Minute)
	p := NewPatientDetailPage(client.NewPatients(c), client.NewAppointments(c), nil, toasts, nav, logger.Nop())

	p.Load(context.Background(), uuid.New())

	assert.Equal(t, RoutePatients, nav.last())
	require.Len(t, toasts.Active(), 1)
	assert.Equal(t, "No se pudo cargar el paciente", toasts.Active()[0].Message)
	assert.Zero(t, atomic.LoadInt64(&appointmentCalls), "missing patient must not trigger an appointment fetch")
	assert.Nil(t, p.Patient())
}

func TestDetailSplitsAppointments(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	futurePending := seedAppointment(t, env, seeded.ID, "2030-02-01", "09:00")
	pastVisit := seedAppointment(t, env, seeded.ID, "2029-12-01", "09:00")
	cancelled, ok := env.store.CreateAppointment(model.Appointment{
		PatientID: seeded.ID,
		Date:      "2030-03-01",
		Time:      "10:00",
		Specialty: "Cardiología",
		Status:    model.AppointmentStatusCancelled,
	})
	require.True(t, ok)

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	require.Len(t, p.PendingAppointments(), 1)
	assert.Equal(t, futurePending.ID, p.PendingAppointments()[0].ID)

	require.Len(t, p.PastAppointments(), 2)
	ids := []uuid.UUID{p.PastAppointments()[0].ID, p.PastAppointments()[1].ID}
	assert.Contains(t, ids, pastVisit.ID)
	assert.Contains(t, ids, cancelled.ID, "cancelled stays out of upcoming even with a future date")
}

func TestDetailBMI(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	bmi, ok := p.BMI()
	require.True(t, ok)
	assert.InDelta(t, 22.49, bmi, 0.001)

	p.Form.Set("weightKg", "")
	_, ok = p.BMI()
	assert.False(t, ok)
}

func TestDetailSavePatientStripsLocation(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	p.SelectLocation(model.Location{City: "Bello", Department: "Antioquia"})
	assert.Equal(t, "Bello, Antioquia", p.Form.Get("location"))
	p.Form.Set("occupation", "Docente")
	p.SavePatient(context.Background())

	assert.Equal(t, "Paciente actualizado", env.lastToast())
	updated, found := env.store.GetPatient(seeded.ID)
	require.True(t, found)
	assert.Equal(t, "Bello", updated.City)
	assert.Equal(t, "Antioquia", updated.Municipality)
	assert.Equal(t, "Docente", updated.Occupation)
}

func TestDetailSavePatientConflict(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)
	seedPatient(t, env, "Carlos", "Ramírez", "300400")

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	p.Form.Set("identificationNumber", "300400")
	p.SavePatient(context.Background())

	assert.Equal(t, "Identificacion ya registrada", env.lastToast())
	current, _ := env.store.GetPatient(seeded.ID)
	assert.Equal(t, "100200", current.IdentificationNumber)
}

func TestDetailSavePatientInvalidIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	p.Form.Set("firstName", "")
	p.SavePatient(context.Background())

	assert.Empty(t, env.toastMessages())
	assert.True(t, p.Form.Invalid("firstName"))
	current, _ := env.store.GetPatient(seeded.ID)
	assert.Equal(t, "María", current.FirstName)
}

func TestDetailAppointmentCreateAndEdit(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)

	p.AppointmentForm.Set("date", "2030-02-01")
	p.AppointmentForm.Set("time", "09:00")
	p.AppointmentForm.Set("specialty", "Cardiología")
	p.SaveAppointment(context.Background())

	assert.Equal(t, "Cita creada", env.lastToast())
	require.Len(t, p.PendingAppointments(), 1)
	created := p.PendingAppointments()[0]

	p.StartEditAppointment(&created)
	require.NotNil(t, p.EditingAppointmentID())
	assert.Equal(t, "2030-02-01", p.AppointmentForm.Get("date"))

	p.AppointmentForm.Set("status", string(model.AppointmentStatusCancelled))
	p.SaveAppointment(context.Background())

	assert.Equal(t, "Cita actualizada", env.lastToast())
	assert.Nil(t, p.EditingAppointmentID())
	assert.Empty(t, p.PendingAppointments(), "cancelled appointment moves to past")
	require.Len(t, p.PastAppointments(), 1)
	assert.Equal(t, model.AppointmentStatusCancelled, p.PastAppointments()[0].Status)
}

func TestDetailDeleteAppointmentRefreshesSplit(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)
	upcoming := seedAppointment(t, env, seeded.ID, "2030-02-01", "09:00")
	past := seedAppointment(t, env, seeded.ID, "2029-12-01", "09:00")

	p := env.detailPage()
	p.now = fixedNow
	p.Load(context.Background(), seeded.ID)
	require.Len(t, p.PendingAppointments(), 1)
	require.Len(t, p.PastAppointments(), 1)

	p.DeleteAppointment(context.Background(), upcoming.ID)
	assert.Equal(t, "Cita eliminada", env.lastToast())
	assert.Empty(t, p.PendingAppointments())
	require.Len(t, p.PastAppointments(), 1)

	p.DeleteAppointment(context.Background(), past.ID)
	assert.Empty(t, p.PastAppointments())
}

func TestDetailLocationDropdown(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.closeDelay = 5 * time.Millisecond
	p.Init(context.Background(), seeded.ID)

	p.FilterLocations("medell")
	require.NotEmpty(t, p.FilteredLocations())
	for _, loc := range p.FilteredLocations() {
		assert.Contains(t, strings.ToLower(loc.Label()), "medell")
	}

	p.CloseLocationDropdown()
	assert.Eventually(t, func() bool { return !p.locationDropdownOpen }, 200*time.Millisecond, 5*time.Millisecond)
}

func TestDetailEPSDropdown(t *testing.T) {
	env := newTestEnv(t)
	p := env.detailPage()

	assert.Equal(t, catalog.EPSList, p.FilteredEPS())

	p.FilterEPS("sura")
	require.NotEmpty(t, p.FilteredEPS())
	for _, eps := range p.FilteredEPS() {
		assert.Contains(t, strings.ToLower(eps), "sura")
	}

	p.SelectEPS(p.FilteredEPS()[0])
	assert.Equal(t, "EPS Sura", p.Form.Get("eps"))
	assert.False(t, p.epsDropdownOpen)
}

func TestDetailTypeDropdown(t *testing.T) {
	env := newTestEnv(t)
	seeded := seedDetailPatient(t, env)

	p := env.detailPage()
	p.now = fixedNow
	p.Init(context.Background(), seeded.ID)

	p.FilterTypes("odonto")
	require.Len(t, p.FilteredTypes(), 1)
	entry := p.FilteredTypes()[0]
	p.SelectType(&entry)
	assert.Equal(t, entry.DisplayName(), p.AppointmentForm.Get("specialty"))
}

func TestDetailGoBack(t *testing.T) {
	env := newTestEnv(t)
	p := env.detailPage()
	p.GoBack()
	assert.Equal(t, RoutePatients, env.nav.last())
}
