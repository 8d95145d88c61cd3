package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusInProcessing OrderStatus = "in_processing"
	StatusReady        OrderStatus = "ready"
	StatusDelivered    OrderStatus = "delivered"
)

// statusSequence is the forward order of the lifecycle. The data layer does
// not enforce it; it only drives what is offered as the next step.
var statusSequence = []OrderStatus{StatusPending, StatusInProcessing, StatusReady, StatusDelivered}

// PaymentStatus is independent of OrderStatus and may change at any time.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentNotPaid PaymentStatus = "not_paid"
)

// ParseOrderStatus validates s against the closed set of statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if st.index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// ParsePaymentStatus validates s against the closed set of payment statuses.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentPaid, PaymentNotPaid:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
}

func (s OrderStatus) index() int {
	for i, st := range statusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool { return s.index() >= 0 }

// IsTerminal reports whether no forward step exists from s.
func (s OrderStatus) IsTerminal() bool { return s == StatusDelivered }

// Next returns the single forward step from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(statusSequence) {
		return "", false
	}
	return statusSequence[i+1], true
}

// AvailableTransitions lists the statuses a user may jump to from s: every
// status strictly after it. Delivered and unknown statuses offer none.
func (s OrderStatus) AvailableTransitions() []OrderStatus {
	i := s.index()
	if i < 0 {
		return nil
	}
	out := make([]OrderStatus, 0, len(statusSequence)-i-1)
	out = append(out, statusSequence[i+1:]...)
	return out
}

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentNotPaid
}

// Toggle flips between paid and not_paid.
func (p PaymentStatus) Toggle() PaymentStatus {
	if p == PaymentPaid {
		return PaymentNotPaid
	}
	return PaymentPaid
}

// Client is a laundry's customer. Phone numbers are unique per laundry only.
type Client struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ServiceItem is a priced service offered by a laundry.
type ServiceItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Order is a unit of work for one client at one laundry.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	Client        Client        `json:"client"`
	Description   string        `json:"description"`
	Services      []ServiceItem `json:"services"`
	Value         float64       `json:"value"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderDate     string        `json:"order_date,omitempty"`
}

// ServicesTotal sums service prices without float drift.
func (o Order) ServicesTotal() float64 {
	return SumPrices(o.Services)
}

// SumPrices adds up the prices of services.
func SumPrices(services []ServiceItem) float64 {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(decimal.NewFromFloat(s.Price))
	}
	return total.InexactFloat64()
}

// ClientRef identifies the client of a new order: an existing client by ID, or
// a new one created inline from Name and Phone.
type ClientRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"  validate:"required_without=ID"`
	Phone string `json:"phone" validate:"required"`
}

// IsNew reports whether the client must be created together with the order.
func (c ClientRef) IsNew() bool { return c.ID == "" }

// OrderDraft is the order form before submission.
type OrderDraft struct {
	Description   string        `json:"description"`
	Services      []ServiceItem `json:"services"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// OrderFilter carries the query parameters of the order list endpoint.
type OrderFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	Phone         string
	StartDate     string
	EndDate       string
	OrderNumber   string
}

// OrderPage is one page of the order list.
type OrderPage struct {
	Orders      []Order `json:"data"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	TotalItems  int     `json:"totalItems"`
}

// OrderStats are the aggregates derived from a set of orders.
type OrderStats struct {
	Total        int                 `json:"total"`
	ByStatus     map[OrderStatus]int `json:"by_status"`
	Paid         int                 `json:"paid"`
	NotPaid      int                 `json:"not_paid"`
	PaidValue    float64             `json:"paid_value"`
	NotPaidValue float64             `json:"not_paid_value"`
	TotalValue   float64             `json:"total_value"`
}

// ComputeOrderStats recomputes aggregates from orders.
func ComputeOrderStats(orders []Order) OrderStats {
	stats := OrderStats{ByStatus: make(map[OrderStatus]int, len(statusSequence))}
	for _, st := range statusSequence {
		stats.ByStatus[st] = 0
	}
	paid, notPaid := decimal.Zero, decimal.Zero
	for _, o := range orders {
		stats.Total++
		if o.Status.Valid() {
			stats.ByStatus[o.Status]++
		}
		v := decimal.NewFromFloat(o.Value)
		if o.PaymentStatus == PaymentPaid {
			stats.Paid++
			paid = paid.Add(v)
		} else {
			stats.NotPaid++
			notPaid = notPaid.Add(v)
		}
	}
	stats.PaidValue = paid.InexactFloat64()
	stats.NotPaidValue = notPaid.InexactFloat64()
	stats.TotalValue = paid.Add(notPaid).InexactFloat64()
	return stats
}
