package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/homeops/portal/internal/api"
	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the dashboard gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides PORT)"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if v := c.String("port"); v != "" {
				cfg.Port = v
			}
			// the gateway forwards each caller's own token, never a stored one
			p, err := newPortal(c.Context, cfg, true)
			if err != nil {
				return cli.Exit(err.Error(), exitInvalidInput)
			}
			defer p.Close(context.Background())

			log := logger.Named("gateway")
			e := api.NewRouter(api.Deps{
				Users:      p.auth,
				Dashboards: p.dashboards,
				Reports: map[string]ports.ReportSource{
					domain.RoleAdmin:           p.admin,
					domain.RoleFacilityManager: p.facility,
				},
				Photos:   p.contractor,
				Checks:   p.checks(),
				Registry: prometheus.NewRegistry(),
				Log:      log,
			})

			srv := &http.Server{
				Addr:              net.JoinHostPort("", cfg.Port),
				Handler:           e,
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       120 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("api", p.client.BaseURL()).Msg("gateway listening")
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return cli.Exit(err.Error(), exitNetworkFailed)
				}
				return nil
			case <-c.Context.Done():
			}

			log.Info().Msg("shutting down gateway")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("gateway forced to shut down")
				return cli.Exit("", exitNetworkFailed)
			}
			log.Info().Msg("gateway stopped")
			return nil
		},
	}
}
