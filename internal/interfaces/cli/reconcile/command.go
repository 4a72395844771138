package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/interfaces/cli/bootstrap"
)

var (
	env    string
	userID string
	email  string
	phone  string
)

// NewCommand reconciles one user against every enabled provider, the same work
// the login hook does.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile one user's subscriptions with the payment providers",
		RunE:  run,
	}
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&email, "email", "", "Email the user purchased with")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number, if known")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("email")
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

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	result, err := container.ReconcileSubscriptions().Execute(ctx, subscriptionUsecases.ReconcileCommand{
		User: subscription.User{ID: userID, Email: email, PhoneNumber: phone},
	})
	if result != nil {
		out := cmd.OutOrStdout()
		for _, p := range result.Providers {
			fmt.Fprintf(out, "%-12s %-12s subscriptions=%d %s\n", p.Provider, p.Outcome, p.Subscriptions, p.Error)
		}
		fmt.Fprintf(out, "upserted: %d\n", result.Upserted)
	}
	return err
}
