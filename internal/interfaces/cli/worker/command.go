package worker

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"coursegate/internal/interfaces/cli/bootstrap"
)

var env string

// NewCommand runs the background side of the service without HTTP: the catalog
// refresh schedule and the catalog change subscriber.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run scheduled catalog refresh without serving HTTP",
		RunE:  run,
	}
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(bootstrap.Env(env))
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := rt.Container()
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = container.Start(startCtx)
	cancel()
	if err != nil {
		return err
	}

	rt.Log.Infow("worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	rt.Log.Infow("received signal, shutting down", "signal", sig.String())
	container.Shutdown()
	rt.Log.Infow("worker stopped")
	return nil
}
