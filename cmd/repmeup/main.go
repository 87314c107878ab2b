package main

import (
	"context"
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-umair/repmeup-frontend/internal/bootstrap"
	"github.com/Mohd-umair/repmeup-frontend/internal/config"
	"github.com/Mohd-umair/repmeup-frontend/internal/tracer"
)

// app carries the composition root across commands. It also implements
// service.Navigator so session expiry surfaces as a terminal hint.
type app struct {
	cfg            *config.Config
	container      *bootstrap.Container
	shutdownTracer func(context.Context) error
}

func (a *app) ToLogin() {
	color.Yellow("Session expired. Run 'repmeup login' to sign in again.")
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	a.cfg = config.Load()
	a.shutdownTracer = tracer.InitTracer()
	a.container = bootstrap.NewContainer(a.cfg, a)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.container != nil {
		_ = a.container.Logger.Sync()
	}
	if a.shutdownTracer != nil {
		_ = a.shutdownTracer(context.Background())
	}
}

func (a *app) requireAuth() error {
	if !a.container.AuthService.IsAuthenticated() {
		return errors.New("not logged in, run 'repmeup login' first")
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "repmeup",
		Short:             "Engagement inbox client for the RepMeUp platform",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
		PersistentPostRun: a.teardown,
	}

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newPasswdCmd(a),
		newInboxCmd(a),
		newKbCmd(a),
		newWatchCmd(a),
		newLogsCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
