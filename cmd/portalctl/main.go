// Command portalctl is a terminal client for the service portal backend and
// the host of its dashboard gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"
	"github.com/urfave/cli/v2"

	"github.com/homeops/portal/internal/pkg/config"
	"github.com/homeops/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().RunContext(ctx, os.Args)
	stop()

	// exit codes from commands are handled by cli; what reaches here is a
	// usage error
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInvalidInput)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "portalctl",
		Usage: "work with the service portal from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "backend API root (overrides PORTAL_API_URL)"},
			&cli.StringFlag{Name: "token-store", Usage: "file, memory, redis or mongo (overrides TOKEN_STORE)"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error (overrides LOG_LEVEL)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not print progress lines"},
		},
		Before:   setup,
		Commands: commands(),
	}
}

type cfgKey struct{}

// setup loads the configuration, applies flag overrides and starts the logger.
func setup(c *cli.Context) error {
	cfg, err := config.LoadWith(c.Context, envconfig.OsLookuper())
	if err != nil {
		return cli.Exit(fmt.Sprintf("config: %v", err), exitInvalidInput)
	}
	if v := c.String("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := c.String("token-store"); v != "" {
		cfg.Tokens.Kind = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "portalctl"})
	c.Context = context.WithValue(c.Context, cfgKey{}, cfg)
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	cfg, _ := c.Context.Value(cfgKey{}).(*config.Config)
	return cfg
}

// withPortal builds the portal for one command and closes it afterwards.
func withPortal(fn func(c *cli.Context, p *portal) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := newPortal(c.Context, configFrom(c), false)
		if err != nil {
			return cli.Exit(err.Error(), exitInvalidInput)
		}
		defer p.Close(context.Background())
		return fn(c, p)
	}
}
