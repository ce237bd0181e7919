package page

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soulconnect/clinic-console/internal/catalog"
	"github.com/soulconnect/clinic-console/internal/client"
	"github.com/soulconnect/clinic-console/internal/server"
	"github.com/soulconnect/clinic-console/internal/toast"
	"github.com/soulconnect/clinic-console/pkg/logger"
)

// navRecorder captures navigation calls for assertions.
type navRecorder struct {
	routes []string
	params []map[string]string
}

func (n *navRecorder) NavigateTo(route string, params map[string]string) {
	n.routes = append(n.routes, route)
	n.params = append(n.params, params)
}

func (n *navRecorder) last() string {
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

func confirmAlways(string) bool { return true }
func confirmNever(string) bool  { return false }

// testEnv spins up the stub API and a transport client against it.
type testEnv struct {
	store  *server.Store
	client *client.Client
	nav    *navRecorder
	toasts *toast.Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := server.NewStore()
	srv := httptest.NewServer(server.New(store, nil).Handler())
	t.Cleanup(srv.Close)
	return &testEnv{
		store:  store,
		client: client.New(srv.URL, logger.Nop()),
		nav:    &navRecorder{},
		toasts: toast.NewNotifier(time.Minute),
	}
}

func (e *testEnv) patientsPage() *PatientsPage {
	p := NewPatientsPage(client.NewPatients(e.client), e.toasts, e.nav, DefaultPageSize, logger.Nop())
	p.Confirm = confirmAlways
	return p
}

func (e *testEnv) appointmentsPage() *AppointmentsPage {
	p := NewAppointmentsPage(client.NewPatients(e.client), client.NewAppointments(e.client), e.toasts, e.nav, logger.Nop())
	p.Confirm = confirmAlways
	return p
}

func (e *testEnv) detailPage() *PatientDetailPage {
	locations := catalog.NewLocations(client.NewLocations(e.client, ""), time.Minute)
	p := NewPatientDetailPage(client.NewPatients(e.client), client.NewAppointments(e.client), locations, e.toasts, e.nav, logger.Nop())
	p.Confirm = confirmAlways
	return p
}

// lastToast returns the newest message, or "".
func (e *testEnv) lastToast() string {
	active := e.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	return active[len(active)-1].Message
}

// toastMessages returns every visible message in order.
func (e *testEnv) toastMessages() []string {
	var out []string
	for _, t := range e.toasts.Active() {
		out = append(out, t.Message)
	}
	return out
}
