package populate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	catalogUsecases "coursegate/internal/application/catalog/usecases"
	"coursegate/internal/interfaces/cli/bootstrap"
)

var (
	env       string
	broadcast bool
)

// NewCommand rebuilds the catalog snapshot once, optionally telling running
// instances to do the same.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Rebuild the catalog cache",
		RunE:  run,
	}
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&broadcast, "broadcast", true, "Publish catalog.changed so running servers repopulate")
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

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := container.PopulateCatalog().Execute(ctx, catalogUsecases.PopulateCatalogCommand{
		Reason:    "cli",
		Broadcast: broadcast,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog populated: %d entries (broadcast: %t)\n", result.Entries, result.Broadcasted)
	return nil
}
