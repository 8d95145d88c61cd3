package normalize

import (
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// Login reads the session out of a login response. The token and user fields
// may sit at the top level, under "user", or under "data".
func Login(v any) domain.Session {
	rec := Record(v)
	data := Record(rec["data"])
	user := Record(rec["user"])
	if len(user) == 0 {
		user = Record(data["user"])
	}
	sources := []map[string]any{rec, user, data}
	pick := func(keys ...string) string {
		for _, src := range sources {
			if s := Text(src, keys...); s != "" {
				return s
			}
		}
		return ""
	}

	return domain.Session{
		Token: pick("token", "accessToken", "access_token"),
		User: domain.User{
			ID:           pick("id", "_id", "userId", "user_id"),
			Username:     pick("username", "name", "email"),
			Email:        pick("email"),
			RawRole:      pick("role"),
			AdminSubtype: pick("adminType", "admin_type", "adminSubtype"),
		},
	}
}

// Laundry maps one laundry record.
func Laundry(rec map[string]any) domain.Laundry {
	return domain.Laundry{
		ID:             Text(rec, "id", "_id", "laundry_id"),
		Name:           Text(rec, "name", "laundry_name"),
		Phone:          Text(rec, "phone", "telephone"),
		Email:          Text(rec, "email"),
		Address:        Text(rec, "address"),
		BillingEnabled: Bool(Field(rec, "billing_enabled", "billingEnabled", "billing")),
		SMSEnabled:     Bool(Field(rec, "sms_enabled", "smsEnabled", "sms")),
		EmailEnabled:   Bool(Field(rec, "email_enabled", "emailEnabled")),
	}
}

// Laundries accepts a single laundry or a list and drops records without an id.
func Laundries(v any) []domain.Laundry {
	items := Items(v)
	out := make([]domain.Laundry, 0, len(items))
	for _, rec := range items {
		l := Laundry(rec)
		if l.ID == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Client maps a client record.
func Client(rec map[string]any) domain.Client {
	return domain.Client{
		ID:    Text(rec, "id", "_id", "client_id"),
		Name:  Text(rec, "name", "client_name"),
		Phone: Text(rec, "phone", "client_phone"),
	}
}

// Service maps a service record. Order lines may nest it under "service".
func Service(rec map[string]any) domain.ServiceItem {
	if nested := Record(rec["service"]); len(nested) > 0 {
		s := Service(nested)
		if p := Field(rec, "price", "value"); p != nil {
			s.Price = Money(p)
		}
		return s
	}
	return domain.ServiceItem{
		ID:    Text(rec, "id", "_id", "service_id"),
		Name:  Text(rec, "name", "service_name"),
		Price: Money(Field(rec, "price", "value", "amount")),
	}
}

// Services maps a service list. Bare string elements are taken as ids.
func Services(v any) []domain.ServiceItem {
	list, ok := v.([]any)
	if !ok {
		items := Items(v)
		out := make([]domain.ServiceItem, 0, len(items))
		for _, rec := range items {
			if len(rec) > 0 {
				out = append(out, Service(rec))
			}
		}
		return out
	}
	out := make([]domain.ServiceItem, 0, len(list))
	for _, item := range list {
		if id, ok := item.(string); ok {
			out = append(out, domain.ServiceItem{ID: id})
			continue
		}
		out = append(out, Service(Record(item)))
	}
	return out
}

// Order maps one order record. A value that coerces to 0 is replaced by the
// sum of service prices when services are present.
func Order(rec map[string]any) domain.Order {
	status := domain.OrderStatus(Text(rec, "status"))
	if status == "" {
		status = domain.StatusPending
	}
	payment := domain.PaymentStatus(Text(rec, "payment_status", "paymentStatus"))
	if payment == "" {
		payment = domain.PaymentNotPaid
	}

	o := domain.Order{
		ID:            Text(rec, "id", "_id", "order_id"),
		OrderNumber:   Text(rec, "order_number", "orderNumber", "number"),
		Client:        orderClient(rec),
		Description:   Text(rec, "description"),
		Value:         Money(Field(rec, "value", "total", "amount")),
		Status:        status,
		PaymentStatus: payment,
		OrderDate:     Text(rec, "order_date", "orderDate", "createdAt", "created_at"),
	}
	if services := Field(rec, "services", "order_services"); services != nil {
		o.Services = Services(services)
	} else {
		o.Services = []domain.ServiceItem{}
	}
	if o.Value == 0 && len(o.Services) > 0 {
		o.Value = o.ServicesTotal()
	}
	return o
}

func orderClient(rec map[string]any) domain.Client {
	if client := Record(rec["client"]); len(client) > 0 {
		return Client(client)
	}
	return domain.Client{
		ID:    Text(rec, "client_id", "clientId"),
		Name:  Text(rec, "client_name", "clientName"),
		Phone: Text(rec, "client_phone", "clientPhone", "phone"),
	}
}

// Orders maps a list of order records.
func Orders(v any) []domain.Order {
	items := Items(v)
	out := make([]domain.Order, 0, len(items))
	for _, rec := range items {
		out = append(out, Order(rec))
	}
	return out
}

// OrderPage maps the paginated list envelope. A bare array is one page.
func OrderPage(v any) domain.OrderPage {
	orders := Orders(v)
	rec := Record(v)
	page := domain.OrderPage{
		Orders:      orders,
		TotalPages:  Int(Field(rec, "totalPages", "total_pages")),
		CurrentPage: Int(Field(rec, "currentPage", "current_page", "page")),
		TotalItems:  Int(Field(rec, "totalItems", "total_items", "total")),
	}
	if page.TotalItems == 0 {
		page.TotalItems = len(orders)
	}
	if page.TotalPages == 0 && len(orders) > 0 {
		page.TotalPages = 1
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = 1
	}
	return page
}
