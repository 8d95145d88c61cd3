package handler

import (
	"strings"
	"testing"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

func TestValidator_CreateOrder(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		req  createOrderRequest
		want string
	}{
		{
			name: "new client needs a name",
			req:  createOrderRequest{Client: clientRequest{Phone: "555"}, Services: []serviceRequest{{ID: "s-1"}}},
			want: "client.name is required when id is empty",
		},
		{
			name: "phone is always required",
			req:  createOrderRequest{Client: clientRequest{ID: "c-1"}, Services: []serviceRequest{{ID: "s-1"}}},
			want: "client.phone is required",
		},
		{
			name: "at least one service",
			req:  createOrderRequest{Client: clientRequest{ID: "c-1", Phone: "555"}, Services: []serviceRequest{}},
			want: "services must have at least 1 item(s)",
		},
		{
			name: "payment status is closed",
			req: createOrderRequest{
				Client:        clientRequest{ID: "c-1", Phone: "555"},
				Services:      []serviceRequest{{ID: "s-1"}},
				PaymentStatus: "later",
			},
			want: "payment_status must be one of: paid not_paid",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(&tc.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestValidator_ExistingClientWithoutName(t *testing.T) {
	req := createOrderRequest{
		Client:   clientRequest{ID: "c-1", Phone: "555"},
		Services: []serviceRequest{{ID: "s-1", Price: 12}},
	}
	if err := NewValidator().Validate(&req); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidator_Credentials(t *testing.T) {
	err := NewValidator().Validate(&domain.Credentials{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"email must be a valid email", "password is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestSnapshotRequest_ToDomain(t *testing.T) {
	var none *orderSnapshotRequest
	if none.toDomain("o-1") != nil {
		t.Error("nil snapshot must map to nil")
	}

	snap := &orderSnapshotRequest{
		Client:      clientRequest{ID: "c-1", Name: "Eva", Phone: "555"},
		Description: "shirts",
		Services:    []serviceRequest{{ID: "s-1", Name: "Wash", Price: 10}},
		Status:      "ready",
	}
	o := snap.toDomain("o-1")
	if o.ID != "o-1" || o.Client.Phone != "555" || o.Status != domain.StatusReady || len(o.Services) != 1 {
		t.Errorf("unexpected order: %+v", o)
	}
}
