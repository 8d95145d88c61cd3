package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
)

const defaultWatchInterval = 15 * time.Second

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, create and move orders of the active laundry",
	}
	cmd.AddCommand(
		newOrdersListCmd(app),
		newOrdersCreateCmd(app),
		newOrdersStatusCmd(app),
		newOrdersPayCmd(app),
		newOrdersAdvanceCmd(app),
	)
	return cmd
}

func newOrdersListCmd(app *App) *cobra.Command {
	var (
		filter   domain.OrderFilter
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			m := w.Orders()
			if !watch {
				page, err := m.ListOrders(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return app.printOrders(page)
			}
			return app.watchOrders(cmd.Context(), m, filter, interval)
		},
	}
	f := cmd.Flags()
	f.IntVar(&filter.Page, "page", 1, "page number")
	f.IntVar(&filter.Limit, "limit", 10, "orders per page")
	f.StringVar(&filter.Status, "status", "", "filter by status: pending, in_processing, ready, delivered")
	f.StringVar(&filter.PaymentStatus, "payment", "", "filter by payment status: paid, not_paid")
	f.StringVar(&filter.Phone, "phone", "", "filter by client phone")
	f.StringVar(&filter.StartDate, "from", "", "orders on or after this date (YYYY-MM-DD)")
	f.StringVar(&filter.EndDate, "to", "", "orders on or before this date (YYYY-MM-DD)")
	f.StringVar(&filter.OrderNumber, "number", "", "filter by order number")
	f.BoolVar(&watch, "watch", false, "refresh the list until interrupted")
	f.DurationVar(&interval, "interval", defaultWatchInterval, "refresh interval with --watch")
	return cmd
}

// watchOrders re-fetches on every tick. A failed refresh keeps showing the
// last page that loaded.
func (a *App) watchOrders(ctx context.Context, m *service.OrderManager, filter domain.OrderFilter, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		page, err := m.ListOrders(ctx, filter)
		if err != nil {
			last, ok := m.LastKnown()
			if !ok {
				return err
			}
			a.Log.Warn().Err(err).Msg("refresh failed, showing last known orders")
			page = last
		}
		if err := a.printOrders(page); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) printOrders(page domain.OrderPage) error {
	rows := make([][]string, 0, len(page.Orders))
	for _, o := range page.Orders {
		next := "-"
		if st, ok := o.Status.Next(); ok {
			next = string(st)
		}
		rows = append(rows, []string{
			o.OrderNumber,
			o.Client.Name,
			o.Client.Phone,
			string(o.Status),
			string(o.PaymentStatus),
			money(o.Value),
			next,
		})
	}
	return a.printer().print(page,
		[]string{"NUMBER", "CLIENT", "PHONE", "STATUS", "PAYMENT", "VALUE", "NEXT"},
		rows,
	)
}

func (a *App) printOrder(o domain.Order, verb string) error {
	return a.printer().message(o, "order %s %s: %s, %s", o.OrderNumber, verb, o.Status, o.PaymentStatus)
}

func newOrdersCreateCmd(app *App) *cobra.Command {
	var (
		phone, name string
		services    []string
		draft       domain.OrderDraft
		paid        bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order for a new or existing client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := app.authenticated(ctx)
			if err != nil {
				return err
			}
			m := w.Orders()

			catalog, err := m.Services(ctx)
			if err != nil {
				return err
			}
			draft.Services, err = pickServices(catalog, services)
			if err != nil {
				return err
			}
			draft.PaymentStatus = domain.PaymentNotPaid
			if paid {
				draft.PaymentStatus = domain.PaymentPaid
			}

			client := domain.ClientRef{Name: name, Phone: phone}
			existing, found, err := m.LookupClient(ctx, phone)
			if err != nil {
				return err
			}
			if found {
				client.ID = existing.ID
				client.Name = existing.Name
			}

			order, err := m.CreateOrder(ctx, client, draft)
			if err != nil {
				return err
			}
			return app.printOrder(order, "created")
		},
	}
	f := cmd.Flags()
	f.StringVar(&phone, "phone", "", "client phone")
	f.StringVar(&name, "name", "", "client name, required for a new client")
	f.StringSliceVar(&services, "service", nil, "service id or name, repeatable")
	f.StringVar(&draft.Description, "description", "", "order notes")
	f.BoolVar(&paid, "paid", false, "the client paid up front")
	return cmd
}

// pickServices resolves ids or names against the laundry's catalog.
func pickServices(catalog []domain.ServiceItem, wanted []string) ([]domain.ServiceItem, error) {
	out := make([]domain.ServiceItem, 0, len(wanted))
	for _, want := range wanted {
		found := false
		for _, s := range catalog {
			if s.ID == want || strings.EqualFold(s.Name, want) {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown service %q", domain.ErrValidation, want)
		}
	}
	return out, nil
}

// orderTarget resolves the order named by a command. With a partial id the
// order is not fetched and only the changed field is sent.
func orderTarget(ctx context.Context, m *service.OrderManager, partialID string, args []string) (id string, snapshot *domain.Order, rest []string, err error) {
	if partialID != "" {
		return partialID, nil, args, nil
	}
	if len(args) == 0 {
		return "", nil, nil, fmt.Errorf("%w: order number is required", domain.ErrValidation)
	}
	order, err := m.FindByNumber(ctx, args[0])
	if err != nil {
		return "", nil, nil, err
	}
	return order.ID, &order, args[1:], nil
}

func newOrdersStatusCmd(app *App) *cobra.Command {
	var partialID string
	cmd := &cobra.Command{
		Use:   "status <order-number> <status>",
		Short: "Move an order to any status",
		Long: `Move an order to any status. The whole order is re-sent with the new status.
With --partial <order-id> only the status is sent and the order number is omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := app.authenticated(ctx)
			if err != nil {
				return err
			}
			m := w.Orders()
			id, snapshot, rest, err := orderTarget(ctx, m, partialID, args)
			if err != nil {
				return err
			}
			if len(rest) != 1 {
				return fmt.Errorf("%w: expected exactly one status", domain.ErrValidation)
			}
			status, err := domain.ParseOrderStatus(rest[0])
			if err != nil {
				return err
			}
			order, err := m.UpdateOrderStatus(ctx, id, status, snapshot)
			if err != nil {
				return err
			}
			return app.printOrder(order, "updated")
		},
	}
	cmd.Flags().StringVar(&partialID, "partial", "", "send only the status for this order id")
	return cmd
}

func newOrdersPayCmd(app *App) *cobra.Command {
	var partialID string
	cmd := &cobra.Command{
		Use:   "pay <order-number> paid|not_paid|toggle",
		Short: "Set the payment status of an order",
		Long: `Set the payment status of an order. toggle flips the current status and
needs the order number, not --partial.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := app.authenticated(ctx)
			if err != nil {
				return err
			}
			m := w.Orders()
			id, snapshot, rest, err := orderTarget(ctx, m, partialID, args)
			if err != nil {
				return err
			}
			if len(rest) != 1 {
				return fmt.Errorf("%w: expected exactly one payment status", domain.ErrValidation)
			}
			payment, err := paymentArg(rest[0], snapshot)
			if err != nil {
				return err
			}
			order, err := m.UpdatePaymentStatus(ctx, id, payment, snapshot)
			if err != nil {
				return err
			}
			return app.printOrder(order, "updated")
		},
	}
	cmd.Flags().StringVar(&partialID, "partial", "", "send only the payment status for this order id")
	return cmd
}

func paymentArg(arg string, snapshot *domain.Order) (domain.PaymentStatus, error) {
	if arg != "toggle" {
		return domain.ParsePaymentStatus(arg)
	}
	if snapshot == nil {
		return "", fmt.Errorf("%w: toggle needs the current order, drop --partial", domain.ErrValidation)
	}
	return snapshot.PaymentStatus.Toggle(), nil
}

func newOrdersAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <order-number>",
		Short: "Move an order one status forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w, err := app.authenticated(ctx)
			if err != nil {
				return err
			}
			m := w.Orders()
			order, err := m.FindByNumber(ctx, args[0])
			if err != nil {
				return err
			}
			order, err = m.Advance(ctx, order)
			if err != nil {
				return err
			}
			return app.printOrder(order, "advanced")
		},
	}
}
