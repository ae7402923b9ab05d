package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tategaki/server"
	"github.com/ByLCY/tategaki/settings"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (settings, plan, PDF, PNG preview)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			repo, err := settings.Open(root.store)
			if err != nil {
				return err
			}
			stored, err := repo.Load(ctx)
			if err != nil {
				return err
			}
			engine := newEngine(root, stored)

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(repo, engine, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			logger.Info("listening", "addr", addr, "settings", root.store)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
