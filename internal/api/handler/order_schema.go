package handler

import (
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// --- Request / Response types ---

type clientRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"  validate:"required_without=ID"`
	Phone string `json:"phone" validate:"required"`
}

type serviceRequest struct {
	ID    string  `json:"id"    validate:"required"`
	Name  string  `json:"name"`
	Price float64 `json:"price" validate:"gte=0"`
}

type createOrderRequest struct {
	Client        clientRequest    `json:"client"`
	Description   string           `json:"description"`
	Services      []serviceRequest `json:"services"       validate:"required,min=1,dive"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=paid not_paid"`
}

// orderSnapshotRequest is the full order as last seen by the caller. When
// present, an update re-sends all of it.
type orderSnapshotRequest struct {
	Client        clientRequest    `json:"client"`
	Description   string           `json:"description"`
	Services      []serviceRequest `json:"services"       validate:"dive"`
	Value         float64          `json:"value"          validate:"gte=0"`
	Status        string           `json:"status"         validate:"omitempty,oneof=pending in_processing ready delivered"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=paid not_paid"`
}

type updateStatusRequest struct {
	Status string                `json:"status" validate:"required,oneof=pending in_processing ready delivered"`
	Order  *orderSnapshotRequest `json:"order"`
}

type updatePaymentRequest struct {
	PaymentStatus string                `json:"payment_status" validate:"required,oneof=paid not_paid"`
	Order         *orderSnapshotRequest `json:"order"`
}

type listOrdersQuery struct {
	Page          int    `query:"page"`
	Limit         int    `query:"limit"`
	Status        string `query:"status"`
	PaymentStatus string `query:"paymentStatus"`
	Phone         string `query:"phone"`
	StartDate     string `query:"startDate"`
	EndDate       string `query:"endDate"`
	OrderNumber   string `query:"orderNumber"`
}

// orderView decorates an order with the transitions the UI may offer.
type orderView struct {
	domain.Order
	NextStatuses []domain.OrderStatus `json:"next_statuses"`
}

type listOrdersResponse struct {
	Data        []orderView       `json:"data"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	TotalItems  int               `json:"totalItems"`
	Stats       domain.OrderStats `json:"stats"`
}

type clientLookupResponse struct {
	Found  bool           `json:"found"`
	Client *domain.Client `json:"client,omitempty"`
}

// --- Mapping ---

func (r clientRequest) toDomain() domain.ClientRef {
	return domain.ClientRef{ID: r.ID, Name: r.Name, Phone: r.Phone}
}

func toServices(in []serviceRequest) []domain.ServiceItem {
	out := make([]domain.ServiceItem, 0, len(in))
	for _, s := range in {
		out = append(out, domain.ServiceItem{ID: s.ID, Name: s.Name, Price: s.Price})
	}
	return out
}

func (r *orderSnapshotRequest) toDomain(orderID string) *domain.Order {
	if r == nil {
		return nil
	}
	return &domain.Order{
		ID:            orderID,
		Client:        domain.Client{ID: r.Client.ID, Name: r.Client.Name, Phone: r.Client.Phone},
		Description:   r.Description,
		Services:      toServices(r.Services),
		Value:         r.Value,
		Status:        domain.OrderStatus(r.Status),
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
	}
}

func (q listOrdersQuery) toFilter() domain.OrderFilter {
	return domain.OrderFilter{
		Page:          q.Page,
		Limit:         q.Limit,
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		Phone:         q.Phone,
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		OrderNumber:   q.OrderNumber,
	}
}

func toOrderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		next := o.Status.AvailableTransitions()
		if next == nil {
			next = []domain.OrderStatus{}
		}
		out = append(out, orderView{Order: o, NextStatuses: next})
	}
	return out
}

func newListOrdersResponse(page domain.OrderPage, stats domain.OrderStats) *listOrdersResponse {
	return &listOrdersResponse{
		Data:        toOrderViews(page.Orders),
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		TotalItems:  page.TotalItems,
		Stats:       stats,
	}
}
