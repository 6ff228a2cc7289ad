package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/core/service"
	mongostore "github.com/homeops/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/homeops/portal/internal/infrastructure/db/redis"
	"github.com/homeops/portal/internal/infrastructure/rest"
	"github.com/homeops/portal/internal/infrastructure/tokenstore"
	"github.com/homeops/portal/internal/pkg/config"
	"github.com/homeops/portal/pkg/logger"
)

// portal is the object graph built once per process.
type portal struct {
	cfg   *config.Config
	log   zerolog.Logger
	store ports.TokenStore
	creds *service.Credentials

	client     *rest.Client
	auth       *service.AuthService
	facility   *service.FacilityService
	investor   *service.InvestorService
	admin      *service.AdminService
	contractor *service.ContractorService
	customer   *service.CustomerService
	dashboards *service.DashboardService

	closers []func(context.Context) error
}

// newPortal wires the services. With forwardOnly set the client carries no
// token source and authenticates only with tokens placed on the context.
func newPortal(ctx context.Context, cfg *config.Config, forwardOnly bool) (*portal, error) {
	p := &portal{cfg: cfg, log: logger.Named("portal")}

	store, err := p.openStore(ctx)
	if err != nil {
		return nil, err
	}
	p.store = store
	p.creds = service.NewCredentials(store, logger.Named("credentials"))

	scheme, err := rest.ParseScheme(cfg.API.AuthScheme)
	if err != nil {
		return nil, err
	}
	opts := rest.Options{
		BaseURL:   cfg.API.BaseURL,
		Scheme:    scheme,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		Logger:    logger.Named("rest"),
	}
	if !forwardOnly {
		opts.Tokens = p.creds
	}
	if p.client, err = rest.New(opts); err != nil {
		_ = p.Close(ctx)
		return nil, err
	}

	p.auth = service.NewAuthService(p.client.Scope(""), p.creds, cfg.API.LegacyAuthFallback, logger.Named("auth"))
	p.facility = service.NewFacilityService(p.client.Scope("/workspace/fm"))
	p.investor = service.NewInvestorService(p.client.Scope("/workspace/investor"))
	p.admin = service.NewAdminService(p.client.Scope("/workspace/admin"), p.client.Scope("/admin"))
	p.contractor = service.NewContractorService(p.client.Scope("/contractors"))
	p.customer = service.NewCustomerService(p.client.Scope("/customers"))
	p.dashboards = service.NewDashboardService(p.facility, p.investor, p.admin, p.contractor, p.customer, logger.Named("dashboard"))

	p.log.Debug().
		Str("api", p.client.BaseURL()).
		Str("scheme", string(scheme)).
		Str("token_store", cfg.Tokens.Kind).
		Msg("portal client ready")
	return p, nil
}

func (p *portal) openStore(ctx context.Context) (ports.TokenStore, error) {
	ns := p.cfg.Tokens.Namespace
	switch p.cfg.Tokens.Kind {
	case "memory":
		return tokenstore.NewMemory(), nil
	case "file":
		return tokenstore.NewFile(p.cfg.Tokens.Path, ns), nil
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: p.cfg.Redis.Addr, DB: p.cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, func(context.Context) error { return client.Close() })
		return redisstore.NewTokenStore(client, ns, 0), nil
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: p.cfg.Mongo.URI, Database: p.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, client.Disconnect)
		return mongostore.NewTokenStore(db, ns), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", p.cfg.Tokens.Kind)
	}
}

// checks returns the dependencies the readiness probe pings.
func (p *portal) checks() map[string]ports.Pinger {
	checks := map[string]ports.Pinger{}
	if pinger, ok := p.store.(ports.Pinger); ok {
		checks["token_store"] = pinger
	}
	return checks
}

func (p *portal) Close(ctx context.Context) error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = append(errs, p.closers[i](ctx))
	}
	p.closers = nil
	return errors.Join(errs...)
}
