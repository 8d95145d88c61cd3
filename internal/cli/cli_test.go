package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/backend"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db/memory"
)

const orderJSON = `{"id":"o-1","order_number":"A-7","client":{"id":"c-1","name":"Eva","phone":"555"},` +
	`"description":"shirts","services":[{"id":"s-1","name":"Wash","price":10}],"value":10,` +
	`"status":"pending","payment_status":"not_paid"}`

// fakeBackend serves the endpoints the CLI drives and records update bodies.
type fakeBackend struct {
	mu      sync.Mutex
	updates []map[string]any
}

func (f *fakeBackend) lastUpdate() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/auth/login":
		io.WriteString(w, `{"token":"t-1","user":{"id":"u-1","username":"ana","role":"admin","adminType":"single"}}`)
	case r.URL.Path == "/laundry/info":
		io.WriteString(w, `[{"id":"l-1","name":"Lavanda"},{"id":"l-2","name":"Burbuja"}]`)
	case r.URL.Path == "/order/laundry/l-1":
		io.WriteString(w, `{"data":[`+orderJSON+`],"totalPages":1,"currentPage":1,"totalItems":1}`)
	case r.URL.Path == "/order/o-1" && r.Method == http.MethodPut:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.updates = append(f.updates, body)
		f.mu.Unlock()
		io.WriteString(w, `{"order":`+strings.Replace(orderJSON, `"pending"`, `"ready"`, 1)+`}`)
	case r.URL.Path == "/service/laundry/l-1":
		io.WriteString(w, `[{"id":"s-1","name":"Wash","price":10},{"id":"s-2","name":"Iron","price":5.5}]`)
	case strings.HasPrefix(r.URL.Path, "/client/phone/"):
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"client not found"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type harness struct {
	fake *fakeBackend
	kv   ports.KeyValueStore
	url  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := &fakeBackend{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return &harness{fake: fake, kv: memory.NewKVStore(), url: srv.URL}
}

// run executes one laundryctl invocation with a fresh App over the shared
// store, like a new process reading the same profile.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	client := backend.New(h.url, 5*time.Second, zerolog.Nop())
	app := &App{
		Workspaces: service.NewWorkspaceFactory(h.kv, client, 0, zerolog.Nop()),
		Out:        &out,
		Log:        zerolog.Nop(),
	}
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	if _, err := h.run(t, "login", "--email", "ana@lavanda.mx", "--password", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	for _, want := range []string{"ana", "SINGLE_ADMIN", "Lavanda", "u-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami output missing %q:\n%s", want, out)
		}
	}
}

func TestCommands_RequireLogin(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{{"whoami"}, {"orders", "list"}, {"services"}, {"dashboard"}} {
		if _, err := h.run(t, args...); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%v: expected ErrUnauthorized, got %v", args, err)
		}
	}
}

func TestLogout_ForgetsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	if _, err := h.run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := h.run(t, "whoami"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestOrdersList_JSONOutput(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "orders", "list", "-o", "json")
	if err != nil {
		t.Fatalf("orders list: %v", err)
	}
	var page domain.OrderPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(page.Orders) != 1 || page.Orders[0].OrderNumber != "A-7" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestOrdersList_TableShowsNextStep(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "orders", "list")
	if err != nil {
		t.Fatalf("orders list: %v", err)
	}
	if !strings.Contains(out, "NUMBER") || !strings.Contains(out, "in_processing") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestOrdersStatus_SnapshotSendsWholeOrder(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if _, err := h.run(t, "orders", "status", "A-7", "ready"); err != nil {
		t.Fatalf("orders status: %v", err)
	}
	body := h.fake.lastUpdate()
	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("expected full snapshot, got %v", body)
	}
	if order["status"] != "ready" || order["description"] != "shirts" {
		t.Errorf("unexpected snapshot: %v", order)
	}
}

func TestOrdersStatus_PartialSendsOnlyStatus(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if _, err := h.run(t, "orders", "status", "--partial", "o-1", "delivered"); err != nil {
		t.Fatalf("orders status: %v", err)
	}
	body := h.fake.lastUpdate()
	if len(body) != 1 || body["status"] != "delivered" {
		t.Errorf("expected {status: delivered}, got %v", body)
	}
}

func TestOrdersStatus_RejectsUnknownStatus(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.run(t, "orders", "status", "A-7", "lost")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if h.fake.lastUpdate() != nil {
		t.Error("no update should reach the backend")
	}
}

func TestOrdersPay_PartialSendsOnlyPayment(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if _, err := h.run(t, "orders", "pay", "--partial", "o-1", "paid"); err != nil {
		t.Fatalf("orders pay: %v", err)
	}
	body := h.fake.lastUpdate()
	if len(body) != 1 || body["payment_status"] != "paid" {
		t.Errorf("expected {payment_status: paid}, got %v", body)
	}
}

func TestOrdersPay_ToggleFlipsCurrentPayment(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if _, err := h.run(t, "orders", "pay", "A-7", "toggle"); err != nil {
		t.Fatalf("orders pay toggle: %v", err)
	}
	body := h.fake.lastUpdate()
	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("expected full snapshot, got %v", body)
	}
	if order["payment_status"] != "paid" || order["status"] != "pending" || order["value"] != 10.0 {
		t.Errorf("unexpected snapshot: %v", order)
	}

	if _, err := h.run(t, "orders", "pay", "--partial", "o-1", "toggle"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a partial toggle, got %v", err)
	}
}

func TestClientsLookup_MissIsNotAnError(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "clients", "lookup", "000", "-o", "json")
	if err != nil {
		t.Fatalf("clients lookup: %v", err)
	}
	if !strings.Contains(out, `"found": false`) {
		t.Errorf("expected found=false, got %s", out)
	}
}

func TestUse_SwitchesLaundry(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if _, err := h.run(t, "use", "l-2"); err != nil {
		t.Fatalf("use: %v", err)
	}
	out, err := h.run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "Burbuja") {
		t.Errorf("expected Burbuja active:\n%s", out)
	}
	if _, err := h.run(t, "use", "l-9"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown laundry, got %v", err)
	}
}

func TestRoot_RejectsUnknownOutput(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "whoami", "-o", "yaml"); err == nil {
		t.Fatal("expected error for -o yaml")
	}
}

func TestPickServices(t *testing.T) {
	catalog := []domain.ServiceItem{{ID: "s-1", Name: "Wash", Price: 10}, {ID: "s-2", Name: "Iron", Price: 5.5}}

	got, err := pickServices(catalog, []string{"s-2", "wash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s-2" || got[1].ID != "s-1" {
		t.Errorf("unexpected services: %+v", got)
	}

	if _, err := pickServices(catalog, []string{"dry"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
