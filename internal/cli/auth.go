package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

type whoami struct {
	Username   string          `json:"username"`
	Email      string          `json:"email,omitempty"`
	Role       domain.Role     `json:"role"`
	Laundry    *domain.Laundry `json:"laundry,omitempty"`
	OperatorID string          `json:"operator_id,omitempty"`
}

func newLoginCmd(app *App) *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.workspace(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := w.Session.Login(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			info := whoami{
				Username:   sess.User.Username,
				Email:      sess.User.Email,
				Role:       sess.Role(),
				Laundry:    w.Tenant.Laundry(),
				OperatorID: w.Tenant.OperatorID(),
			}
			return app.printer().message(info, "logged in as %s (%s)", info.Username, info.Role)
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.workspace(cmd.Context())
			if err != nil {
				return err
			}
			if err := w.Session.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			return app.printer().message(map[string]bool{"authenticated": false}, "logged out")
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and active laundry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			sess, _ := w.Session.Current()
			info := whoami{
				Username:   sess.User.Username,
				Email:      sess.User.Email,
				Role:       sess.Role(),
				Laundry:    w.Tenant.Laundry(),
				OperatorID: w.Tenant.OperatorID(),
			}
			laundry := "-"
			if info.Laundry != nil {
				laundry = info.Laundry.Name
			}
			return app.printer().print(info,
				[]string{"USER", "ROLE", "LAUNDRY", "OPERATOR"},
				[][]string{{info.Username, string(info.Role), laundry, info.OperatorID}},
			)
		},
	}
}

func newLaundriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "laundries",
		Short: "List the laundries the account manages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			laundries, err := w.Laundries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list laundries: %w", err)
			}
			active := w.Tenant.LaundryID()
			rows := make([][]string, 0, len(laundries))
			for _, l := range laundries {
				mark := ""
				if l.ID == active {
					mark = "*"
				}
				rows = append(rows, []string{mark, l.ID, l.Name, l.Phone})
			}
			return app.printer().print(laundries, []string{"", "ID", "NAME", "PHONE"}, rows)
		},
	}
}

func newUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <laundry-id>",
		Short: "Switch the active laundry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			laundries, err := w.Laundries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list laundries: %w", err)
			}
			for _, l := range laundries {
				if l.ID != args[0] {
					continue
				}
				if err := w.Tenant.SetLaundry(cmd.Context(), l); err != nil {
					return fmt.Errorf("use laundry: %w", err)
				}
				return app.printer().message(l, "now operating %s", l.Name)
			}
			return fmt.Errorf("use laundry %q: %w", args[0], domain.ErrNotFound)
		},
	}
}
