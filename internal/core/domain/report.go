package domain

// ReportKind names one of the backend reporting endpoints.
type ReportKind string

const (
	ReportThisMonth   ReportKind = "this-month"
	ReportTopClients  ReportKind = "top-clients"
	ReportTopServices ReportKind = "top-services"
	ReportWeek        ReportKind = "week"
	ReportDay         ReportKind = "day"
	ReportMonths      ReportKind = "months"
)

// ReportKinds lists every report loaded by the dashboard, in display order.
var ReportKinds = []ReportKind{
	ReportThisMonth, ReportTopClients, ReportTopServices, ReportWeek, ReportDay, ReportMonths,
}

// Valid reports whether k names a known report.
func (k ReportKind) Valid() bool {
	for _, known := range ReportKinds {
		if k == known {
			return true
		}
	}
	return false
}

// MonthSummary is the current-month headline figures.
type MonthSummary struct {
	Orders      int     `json:"orders"`
	Revenue     float64 `json:"revenue"`
	PaidRevenue float64 `json:"paid_revenue"`
	Clients     int     `json:"clients"`
	Delivered   int     `json:"delivered"`
	Pending     int     `json:"pending"`
}

// TopClient is one row of the top-clients ranking.
type TopClient struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

// TopService is one row of the top-services ranking.
type TopService struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// SeriesPoint is one bucket of a chart series (day, weekday or month).
type SeriesPoint struct {
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Dashboard is the joined result of every report. It is only built when all
// reports load.
type Dashboard struct {
	ThisMonth   MonthSummary  `json:"this_month"`
	TopClients  []TopClient   `json:"top_clients"`
	TopServices []TopService  `json:"top_services"`
	Week        []SeriesPoint `json:"week"`
	Day         []SeriesPoint `json:"day"`
	Months      []SeriesPoint `json:"months"`
}
