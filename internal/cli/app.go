// Package cli is the operator command line of the laundry dashboard. The CLI
// keeps a single workspace on local disk, so a login survives between runs.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
)

// WorkspaceID is the id of the one workspace a CLI profile holds.
const WorkspaceID = "cli"

// App carries what every command needs.
type App struct {
	Workspaces *service.WorkspaceFactory
	Out        io.Writer
	Log        zerolog.Logger

	output string
}

// NewRootCmd builds the laundryctl command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "laundryctl",
		Short: "Operate a laundry from the terminal",
		Long: `laundryctl manages orders, clients and reports of the laundry bound to
your account. Run 'laundryctl login' first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.output != outputJSON && app.output != outputTable {
				return fmt.Errorf("unknown output format %q: use json or table", app.output)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&app.output, "output", "o", outputTable, "output format: json or table")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newLaundriesCmd(app),
		newUseCmd(app),
		newOrdersCmd(app),
		newClientsCmd(app),
		newServicesCmd(app),
		newDashboardCmd(app),
	)
	return root
}

// workspace restores the CLI workspace from disk.
func (a *App) workspace(ctx context.Context) (*service.Workspace, error) {
	w, err := a.Workspaces.Restore(ctx, WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("restore workspace: %w", err)
	}
	return w, nil
}

// authenticated restores the workspace and fails unless a session exists.
func (a *App) authenticated(ctx context.Context) (*service.Workspace, error) {
	w, err := a.workspace(ctx)
	if err != nil {
		return nil, err
	}
	if w.State() != guard.StateAuthenticated {
		return nil, fmt.Errorf("%w: run 'laundryctl login'", domain.ErrUnauthorized)
	}
	return w, nil
}

func (a *App) printer() printer {
	return printer{w: a.Out, format: a.output}
}
