package backend

import (
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// orderRequest is the {client, order} body of order create and full update.
type orderRequest struct {
	Client clientPayload `json:"client"`
	Order  orderPayload  `json:"order"`
}

type clientPayload struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone"`
}

type orderPayload struct {
	Description   string   `json:"description"`
	Services      []string `json:"services"`
	Value         float64  `json:"value"`
	Status        string   `json:"status,omitempty"`
	PaymentStatus string   `json:"payment_status"`
	OperatorID    string   `json:"operator_id,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status"`
}

func serviceIDs(services []domain.ServiceItem) []string {
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

func createPayload(o ports.NewOrder) orderRequest {
	return orderRequest{
		Client: clientPayload{ID: o.Client.ID, Name: o.Client.Name, Phone: o.Client.Phone},
		Order: orderPayload{
			Description:   o.Description,
			Services:      serviceIDs(o.Services),
			Value:         domain.SumPrices(o.Services),
			Status:        string(domain.StatusPending),
			PaymentStatus: string(o.PaymentStatus),
			OperatorID:    o.OperatorID,
		},
	}
}

// updatePayload re-sends the whole order when a snapshot is present and only
// the changed field otherwise.
func updatePayload(u ports.OrderUpdate) any {
	if s := u.Snapshot; s != nil {
		value := s.Value
		if value == 0 {
			value = domain.SumPrices(s.Services)
		}
		return orderRequest{
			Client: clientPayload{ID: s.Client.ID, Name: s.Client.Name, Phone: s.Client.Phone},
			Order: orderPayload{
				Description:   s.Description,
				Services:      serviceIDs(s.Services),
				Value:         value,
				Status:        string(s.Status),
				PaymentStatus: string(s.PaymentStatus),
			},
		}
	}
	if u.PaymentStatus != "" {
		return paymentRequest{PaymentStatus: string(u.PaymentStatus)}
	}
	return statusRequest{Status: string(u.Status)}
}
