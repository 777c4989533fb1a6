package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/folio-labs/portfolio-backend/pkg/client"
)

type options struct {
	apiURL string
	token  string
}

func (o *options) client() *client.Client {
	return client.New(o.apiURL, o.token)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Manage portfolio content from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&o.apiURL, "api", envOr("PORTFOLIO_API", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&o.token, "token", os.Getenv("PORTFOLIO_TOKEN"), "admin bearer token")

	root.AddCommand(newLoginCmd(o), newProjectsCmd(o))
	return root
}

func newLoginCmd(o *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an admin token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("PORTFOLIO_PASSWORD")
			}
			token, exp, err := o.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s; export PORTFOLIO_TOKEN to reuse\n", exp.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", os.Getenv("PORTFOLIO_EMAIL"), "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (or PORTFOLIO_PASSWORD)")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
