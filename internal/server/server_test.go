package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulconnect/clinic-console/internal/model"
)

func newTestServer(t *testing.T) (*Store, *httptest.Server) {
	t.Helper()
	store := NewStore()
	srv := httptest.NewServer(New(store, nil).Handler())
	t.Cleanup(srv.Close)
	return store, srv
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	return body.Message
}

func TestCreatePatientRejectsDuplicateDocument(t *testing.T) {
	_, srv := newTestServer(t)

	payload := model.Patient{FirstName: "María", LastName: "Gómez", IdentificationNumber: "100200"}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/patients", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/patients", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Identificacion ya registrada", errorMessage(t, resp))
}

func TestUpdatePatientConflictExcludesSelf(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})
	store.CreatePatient(model.Patient{FirstName: "Carlos", IdentificationNumber: "300400"})

	// Re-sending its own document is not a conflict.
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/patients/"+a.ID.String(),
		model.Patient{FirstName: "Mariana", IdentificationNumber: "100200"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Patient
	decode(t, resp, &updated)
	assert.Equal(t, "Mariana", updated.FirstName)

	// Taking another patient's document is.
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/patients/"+a.ID.String(),
		model.Patient{FirstName: "Mariana", IdentificationNumber: "300400"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetPatientNotFound(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Paciente no encontrado", errorMessage(t, resp))

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/patients/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchPatientByDocument(t *testing.T) {
	store, srv := newTestServer(t)
	seeded, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/patients/search?identificationNumber=100200", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found model.Patient
	decode(t, resp, &found)
	assert.Equal(t, seeded.ID, found.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/patients/search?identificationNumber=999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Paciente no encontrado", errorMessage(t, resp))
}

func TestDeletePatientIsIdempotent(t *testing.T) {
	store, srv := newTestServer(t)
	seeded, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/patients/"+seeded.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/patients/"+seeded.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, store.ListPatients())
}

func TestAppointmentsFilterByPatient(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})
	b, _ := store.CreatePatient(model.Patient{FirstName: "Carlos", IdentificationNumber: "300400"})
	store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "09:00", Specialty: "MG"})
	store.CreateAppointment(model.Appointment{PatientID: b.ID, Date: "2030-05-11", Time: "10:00", Specialty: "MG"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/appointments?patientId="+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.Appointment
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].PatientID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	assert.Len(t, list, 2)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/appointments?patientId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAppointmentsSortedByDateTime(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})
	store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "15:00", Specialty: "MG"})
	store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "09:00", Specialty: "MG"})
	store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-09", Time: "23:00", Specialty: "MG"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/appointments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.Appointment
	decode(t, resp, &list)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		prev := list[i-1].Date + "T" + list[i-1].Time
		cur := list[i].Date + "T" + list[i].Time
		assert.LessOrEqual(t, prev, cur)
	}
}

func TestCreateAppointmentRequiresExistingPatient(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/appointments",
		model.Appointment{PatientID: uuid.New(), Date: "2030-05-10", Time: "09:00", Specialty: "MG"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Paciente no encontrado", errorMessage(t, resp))
}

func TestCreateAppointmentDefaultsStatus(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/appointments",
		model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "09:00", Specialty: "MG"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created model.Appointment
	decode(t, resp, &created)
	assert.Equal(t, model.AppointmentStatusPending, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestUpdateAppointment(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})
	appt, _ := store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "09:00", Specialty: "MG"})

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/appointments/"+appt.ID.String(),
		model.Appointment{Date: "2030-05-11", Time: "10:30", Specialty: "Cardiología", Status: model.AppointmentStatusCompleted})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated model.Appointment
	decode(t, resp, &updated)
	assert.Equal(t, "2030-05-11", updated.Date)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/appointments/"+uuid.NewString(),
		model.Appointment{Date: "2030-05-11", Time: "10:30", Specialty: "MG"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Cita no encontrada", errorMessage(t, resp))
}

func TestDeleteAppointmentIsIdempotent(t *testing.T) {
	store, srv := newTestServer(t)
	a, _ := store.CreatePatient(model.Patient{FirstName: "María", IdentificationNumber: "100200"})
	appt, _ := store.CreateAppointment(model.Appointment{PatientID: a.ID, Date: "2030-05-10", Time: "09:00", Specialty: "MG"})

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/api/appointments/"+appt.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, "attempt %d", i+1)
	}
}

func TestAppointmentTypesEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/appointment-types", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var types []model.AppointmentType
	decode(t, resp, &types)
	assert.Len(t, types, 7)
}

func TestLocationsAsset(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/assets/colombia-locations.json", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []model.DepartmentEntry
	decode(t, resp, &entries)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotEmpty(t, e.Department)
		assert.NotEmpty(t, e.Cities, "department %s has no cities", e.Department)
	}
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedPopulatesDemoData(t *testing.T) {
	store := NewStore()
	store.Seed()

	patients := store.ListPatients()
	require.Len(t, patients, 2)
	assert.Equal(t, fmt.Sprintf("%s %s", patients[0].FirstName, patients[0].LastName), patients[0].FullName())
	assert.Len(t, store.ListAppointments(nil), 3)
}
