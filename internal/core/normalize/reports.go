package normalize

import (
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// MonthSummary maps the this-month analytics report. Some backends wrap the
// figures in a one-element array.
func MonthSummary(v any) domain.MonthSummary {
	rec := First(v)
	return domain.MonthSummary{
		Orders:      Int(Field(rec, "total_orders", "totalOrders", "orders", "count")),
		Revenue:     Money(Field(rec, "total_revenue", "totalRevenue", "revenue", "total_value", "total")),
		PaidRevenue: Money(Field(rec, "paid_revenue", "paidRevenue", "paid")),
		Clients:     Int(Field(rec, "total_clients", "totalClients", "clients")),
		Delivered:   Int(Field(rec, "delivered", "delivered_orders", "deliveredOrders")),
		Pending:     Int(Field(rec, "pending", "pending_orders", "pendingOrders")),
	}
}

// TopClients maps the top-clients ranking.
func TopClients(v any) []domain.TopClient {
	items := Items(v)
	out := make([]domain.TopClient, 0, len(items))
	for _, rec := range items {
		client := Record(rec["client"])
		if len(client) == 0 {
			client = rec
		}
		out = append(out, domain.TopClient{
			Name:   Text(client, "name", "client_name", "clientName"),
			Phone:  Text(client, "phone", "client_phone"),
			Orders: Int(Field(rec, "total_orders", "totalOrders", "orders", "count")),
			Spent:  Money(Field(rec, "total_spent", "totalSpent", "total_value", "total", "value")),
		})
	}
	return out
}

// TopServices maps the top-services ranking.
func TopServices(v any) []domain.TopService {
	items := Items(v)
	out := make([]domain.TopService, 0, len(items))
	for _, rec := range items {
		svc := Record(rec["service"])
		if len(svc) == 0 {
			svc = rec
		}
		out = append(out, domain.TopService{
			Name:    Text(svc, "name", "service_name", "serviceName"),
			Count:   Int(Field(rec, "count", "total", "quantity", "times_used")),
			Revenue: Money(Field(rec, "revenue", "total_value", "total_revenue", "value")),
		})
	}
	return out
}

// Series maps a chart series whose label is a day, weekday or hour.
func Series(v any) []domain.SeriesPoint {
	return series(v, func(rec map[string]any) string {
		return Text(rec, "label", "day", "day_name", "dayName", "hour", "date", "name")
	})
}

// MonthSeries maps the monthly analytics series using MonthLabel.
func MonthSeries(v any) []domain.SeriesPoint {
	return series(v, MonthLabel)
}

func series(v any, label func(map[string]any) string) []domain.SeriesPoint {
	items := Items(v)
	out := make([]domain.SeriesPoint, 0, len(items))
	for _, rec := range items {
		out = append(out, domain.SeriesPoint{
			Label:   label(rec),
			Orders:  Int(Field(rec, "total_orders", "totalOrders", "orders", "count")),
			Revenue: Money(Field(rec, "total_revenue", "totalRevenue", "revenue", "total_value", "total", "value")),
		})
	}
	return out
}
