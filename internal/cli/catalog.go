package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

type clientLookup struct {
	Found  bool           `json:"found"`
	Client *domain.Client `json:"client,omitempty"`
}

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Find clients of the active laundry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <phone>",
		Short: "Find a client by phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			client, found, err := w.Orders().LookupClient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return app.printer().message(clientLookup{}, "no client with phone %s", args[0])
			}
			return app.printer().print(clientLookup{Found: true, Client: &client},
				[]string{"ID", "NAME", "PHONE"},
				[][]string{{client.ID, client.Name, client.Phone}},
			)
		},
	})
	return cmd
}

func newServicesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services offered by the active laundry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			services, err := w.Orders().Services(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(services))
			for _, s := range services {
				rows = append(rows, []string{s.ID, s.Name, money(s.Price)})
			}
			return app.printer().print(services, []string{"ID", "NAME", "PRICE"}, rows)
		},
	}
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show this month's figures and rankings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			d, err := w.Reports().LoadDashboard(cmd.Context())
			if err != nil {
				return err
			}
			m := d.ThisMonth
			rows := [][]string{
				{"orders", strconv.Itoa(m.Orders)},
				{"revenue", money(m.Revenue)},
				{"paid revenue", money(m.PaidRevenue)},
				{"clients", strconv.Itoa(m.Clients)},
				{"delivered", strconv.Itoa(m.Delivered)},
				{"pending", strconv.Itoa(m.Pending)},
			}
			for i, c := range d.TopClients {
				rows = append(rows, []string{"top client " + strconv.Itoa(i+1), c.Name + " (" + money(c.Spent) + ")"})
			}
			for i, s := range d.TopServices {
				rows = append(rows, []string{"top service " + strconv.Itoa(i+1), s.Name + " x" + strconv.Itoa(s.Count)})
			}
			return app.printer().print(d, []string{"METRIC", "VALUE"}, rows)
		},
	}
}
