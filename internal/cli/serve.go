package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"health-chatbot/internal/app"
	"health-chatbot/internal/config"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	d := config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat service",
		Long: `Serve exposes the chatbot over HTTP:

  POST /api/chat          {"message": "..."} -> reply, intent and score
  POST /api/advice        {"message": "..."} -> topic category and advice
  GET  /api/chat/history  latest exchanges of the X-User-ID user
  GET  /healthz           liveness and number of loaded intents`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}

	cmd.Flags().String("addr", d.Server.Addr, "listen address")
	cmd.Flags().String("db-driver", d.Database.Driver, "chat history driver (postgres, sqlite; empty disables history)")
	cmd.Flags().String("db-dsn", d.Database.DSN, "chat history data source name")
	_ = o.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = o.v.BindPFlag("database.driver", cmd.Flags().Lookup("db-driver"))
	_ = o.v.BindPFlag("database.dsn", cmd.Flags().Lookup("db-dsn"))
	return cmd
}
