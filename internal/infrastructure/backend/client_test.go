package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, token string, hook ports.UnauthorizedFunc) ports.LaundryAPI {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 5*time.Second, zerolog.Nop()).Bind(staticToken(token), hook)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		if r.URL.Path != "/api/service/laundry/l-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":"s-1","name":"Wash","price":"40.50"}]`))
	}, "tok-1", nil)

	services, err := api.ListServices(context.Background(), "l-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Bearer tok-1" {
		t.Errorf("expected bearer header, got %q", got)
	}
	if len(services) != 1 || services[0].Price != 40.5 {
		t.Errorf("unexpected services: %+v", services)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var sent bool
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sent = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"token":"tok-1","username":"ana","role":"operator","id":"u-1"}`))
	}, "", nil)

	sess, err := api.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent {
		t.Error("no Authorization header may be sent without a token")
	}
	if sess.Token != "tok-1" || sess.Role() != domain.RoleOperator || sess.User.ID != "u-1" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestClient_UnauthorizedFiresHook(t *testing.T) {
	var fired int32
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	}, "tok-1", func(context.Context) { atomic.AddInt32(&fired, 1) })

	_, err := api.ListOrders(context.Background(), "l-1", domain.OrderFilter{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", StatusCode(err))
	}
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("expected hook to fire once per 401, got %d", n)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "", nil)

	_, err := api.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "bad"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_ClientLookup404IsNotFound(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/client/phone/l-1/555" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
	}, "tok-1", nil)

	_, err := api.FindClientByPhone(context.Background(), "l-1", "555")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClient_ListOrdersQuery(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("paymentStatus") != "paid" || q.Get("orderNumber") != "ORD-1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Has("phone") {
			t.Error("empty filters must be omitted")
		}
		_, _ = w.Write([]byte(`{"data":[{"_id":"o-1","order_number":"ORD-1","value":"12.50","status":"ready"}],"totalPages":"3","currentPage":2,"totalItems":21}`))
	}, "tok-1", nil)

	page, err := api.ListOrders(context.Background(), "l-1", domain.OrderFilter{Page: 2, PaymentStatus: "paid", OrderNumber: "ORD-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 3 || page.TotalItems != 21 || len(page.Orders) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if o := page.Orders[0]; o.Value != 12.5 || o.Status != domain.StatusReady || o.PaymentStatus != domain.PaymentNotPaid {
		t.Errorf("unexpected order: %+v", o)
	}
}

func TestClient_UpdatePayloadShapes(t *testing.T) {
	var bodies []map[string]any
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/order/o-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		bodies = append(bodies, body)
		_, _ = w.Write([]byte(`{"id":"o-1","status":"ready"}`))
	}, "tok-1", nil)

	snapshot := &ports.OrderSnapshot{
		Client:        domain.Client{ID: "c-1", Name: "Luis", Phone: "555"},
		Description:   "2 shirts",
		Services:      []domain.ServiceItem{{ID: "s-1", Price: 40}},
		Status:        domain.StatusReady,
		PaymentStatus: domain.PaymentPaid,
	}
	if _, err := api.UpdateOrder(context.Background(), "o-1", ports.OrderUpdate{Snapshot: snapshot}); err != nil {
		t.Fatalf("full update: %v", err)
	}
	if _, err := api.UpdateOrder(context.Background(), "o-1", ports.OrderUpdate{Status: domain.StatusReady}); err != nil {
		t.Fatalf("partial update: %v", err)
	}

	full := bodies[0]
	order, _ := full["order"].(map[string]any)
	client, _ := full["client"].(map[string]any)
	if order["status"] != "ready" || order["payment_status"] != "paid" || order["description"] != "2 shirts" {
		t.Errorf("unexpected full order payload: %v", order)
	}
	if client["id"] != "c-1" || client["phone"] != "555" {
		t.Errorf("unexpected full client payload: %v", client)
	}
	partial := bodies[1]
	if len(partial) != 1 || partial["status"] != "ready" {
		t.Errorf("partial update must send only {status}, got %v", partial)
	}
}

func TestClient_FullUpdateKeepsOrderValue(t *testing.T) {
	var values []any
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Order map[string]any `json:"order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		values = append(values, body.Order["value"])
		_, _ = w.Write([]byte(`{"id":"o-7"}`))
	}, "tok-1", nil)

	cases := []struct {
		name     string
		snapshot ports.OrderSnapshot
		want     float64
	}{
		{
			name: "services without prices",
			snapshot: ports.OrderSnapshot{
				Services: []domain.ServiceItem{{ID: "s-1"}, {ID: "s-2"}},
				Value:    35,
				Status:   domain.StatusInProcessing,
			},
			want: 35,
		},
		{
			name: "stored value wins over prices",
			snapshot: ports.OrderSnapshot{
				Services: []domain.ServiceItem{{ID: "s-1", Price: 10}},
				Value:    12.5,
				Status:   domain.StatusReady,
			},
			want: 12.5,
		},
		{
			name: "zero value falls back to prices",
			snapshot: ports.OrderSnapshot{
				Services: []domain.ServiceItem{{ID: "s-1", Price: 10}, {ID: "s-2", Price: 5.5}},
				Status:   domain.StatusReady,
			},
			want: 15.5,
		},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := tc.snapshot
			if _, err := api.UpdateOrder(context.Background(), "o-7", ports.OrderUpdate{Snapshot: &snapshot}); err != nil {
				t.Fatalf("update: %v", err)
			}
			if values[i] != tc.want {
				t.Errorf("expected value %v on the wire, got %v", tc.want, values[i])
			}
		})
	}
}

func TestClient_ReportEndpoints(t *testing.T) {
	paths := make(map[string]bool)
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths[r.URL.Path] = true
		_, _ = w.Write([]byte(`[]`))
	}, "tok-1", nil)

	for _, kind := range domain.ReportKinds {
		if _, err := api.Report(context.Background(), kind, "l-1"); err != nil {
			t.Fatalf("report %s: %v", kind, err)
		}
	}
	for _, want := range []string{
		"/api/reports/this-month-analytics/l-1",
		"/api/reports/top/clients/month/l-1",
		"/api/reports/top/services/l-1",
		"/api/order/week-analytics/l-1",
		"/api/order/day-analytics/l-1",
		"/api/reports/months-analytics/l-1",
	} {
		if !paths[want] {
			t.Errorf("expected a call to %s", want)
		}
	}
}

func TestClient_ServerErrorIsAPIError(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"db down"}`))
	}, "tok-1", nil)

	_, err := api.Laundries(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "db down" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
