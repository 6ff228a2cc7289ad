package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/infrastructure/queue"
	"github.com/homeops/portal/internal/operation"
	"github.com/homeops/portal/pkg/logger"
)

func commands() []*cli.Command {
	return []*cli.Command{
		loginCommand(),
		registerCommand(),
		{
			Name:  "logout",
			Usage: "end the session and forget the stored tokens",
			Action: withPortal(func(c *cli.Context, p *portal) error {
				op := operation.Func(func(ctx context.Context) (domain.Ack, error) {
					return domain.Ack{Message: "logged out"}, p.auth.Logout(ctx)
				})
				_, err := run(c, op, struct{}{})
				return err
			}),
		},
		{
			Name:  "whoami",
			Usage: "show the authenticated user and when the session expires",
			Action: withPortal(func(c *cli.Context, p *portal) error {
				op := operation.Func(func(ctx context.Context) (sessionView, error) {
					u, err := p.auth.Me(ctx)
					if err != nil {
						return sessionView{}, err
					}
					return p.session(ctx, u)
				})
				_, err := run(c, op, struct{}{})
				return err
			}),
		},
		{
			Name:  "refresh",
			Usage: "exchange the refresh token for a new access token",
			Action: withPortal(func(c *cli.Context, p *portal) error {
				op := operation.Func(func(ctx context.Context) (sessionView, error) {
					if _, err := p.auth.Refresh(ctx); err != nil {
						return sessionView{}, err
					}
					return p.session(ctx, nil)
				})
				_, err := run(c, op, struct{}{})
				return err
			}),
		},
		jobsCommand(),
		estimatesCommand(),
		dashboardCommand(),
		reportCommand(),
		uploadPhotosCommand(),
		serveCommand(),
	}
}

// sessionView is what login, whoami and refresh print. Tokens are never
// written to stdout.
type sessionView struct {
	User      *domain.User `json:"user,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

func (p *portal) session(ctx context.Context, u *domain.User) (sessionView, error) {
	exp, ok, err := p.auth.SessionExpiry(ctx)
	if err != nil {
		return sessionView{}, err
	}
	v := sessionView{User: u}
	if ok {
		v.ExpiresAt = &exp
	}
	return v, nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session tokens",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"PORTAL_PASSWORD"}, Required: true},
		},
		Action: withPortal(func(c *cli.Context, p *portal) error {
			op := operation.New(func(ctx context.Context, req domain.LoginRequest) (sessionView, error) {
				resp, err := p.auth.Login(ctx, req)
				if err != nil {
					return sessionView{}, err
				}
				return p.session(ctx, resp.User)
			})
			_, err := run(c, op, domain.LoginRequest{Email: c.String("email"), Password: c.String("password")})
			return err
		}),
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"PORTAL_PASSWORD"}, Required: true},
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "role", Required: true, Usage: strings.Join(domain.Roles, ", ")},
			&cli.StringFlag{Name: "company"},
			&cli.StringFlag{Name: "phone"},
		},
		Action: withPortal(func(c *cli.Context, p *portal) error {
			op := operation.New(func(ctx context.Context, req domain.RegisterRequest) (sessionView, error) {
				resp, err := p.auth.Register(ctx, req)
				if err != nil {
					return sessionView{}, err
				}
				if resp.AccessToken() == "" {
					return sessionView{User: resp.User}, nil
				}
				return p.session(ctx, resp.User)
			})
			_, err := run(c, op, domain.RegisterRequest{
				Email:     c.String("email"),
				Password:  c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				Role:      c.String("role"),
				Company:   c.String("company"),
				Phone:     c.String("phone"),
			})
			return err
		}),
	}
}

var listFlags = []cli.Flag{
	&cli.StringFlag{Name: "status"},
	&cli.StringFlag{Name: "search"},
	&cli.IntFlag{Name: "limit"},
	&cli.IntFlag{Name: "offset"},
}

// listOptions reads the listing flags. Limit and offset are only sent when
// given on the command line, so an explicit 0 reaches the backend.
func listOptions(c *cli.Context) domain.ListOptions {
	opts := domain.ListOptions{Status: c.String("status"), Search: c.String("search")}
	if c.IsSet("limit") {
		opts.Limit = domain.Ptr(c.Int("limit"))
	}
	if c.IsSet("offset") {
		opts.Offset = domain.Ptr(c.Int("offset"))
	}
	return opts
}

func jobsCommand() *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "list jobs of a workspace",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "workspace", Value: "fm", Usage: "fm, customer or contractor"},
		}, listFlags...),
		Action: withPortal(func(c *cli.Context, p *portal) error {
			var fn func(context.Context, domain.ListOptions) (*domain.Page[domain.Job], error)
			switch ws := c.String("workspace"); ws {
			case "fm":
				fn = p.facility.ListJobs
			case "customer":
				fn = p.customer.ListJobs
			case "contractor":
				fn = p.contractor.ListAvailableJobs
			default:
				return cli.Exit(fmt.Sprintf("unknown workspace %q", ws), exitInvalidInput)
			}
			_, err := run(c, operation.New(fn), listOptions(c))
			return err
		}),
	}
}

func estimatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimates",
		Usage: "review contractor estimates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Flags: listFlags,
				Action: withPortal(func(c *cli.Context, p *portal) error {
					_, err := run(c, operation.New(p.facility.ListEstimates), listOptions(c))
					return err
				}),
			},
			{
				Name:      "approve",
				ArgsUsage: "<estimate-id>",
				Action: withPortal(func(c *cli.Context, p *portal) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					_, err = run(c, operation.New(p.facility.ApproveEstimate), id)
					return err
				}),
			},
			{
				Name:      "reject",
				ArgsUsage: "<estimate-id>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "reason", Required: true}},
				Action: withPortal(func(c *cli.Context, p *portal) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					op := operation.New(func(ctx context.Context, id domain.ID) (*domain.Estimate, error) {
						return p.facility.RejectEstimate(ctx, id, domain.RejectEstimateRequest{Reason: c.String("reason")})
					})
					_, err = run(c, op, id)
					return err
				}),
			},
		},
	}
}

func argID(c *cli.Context) (domain.ID, error) {
	if c.NArg() != 1 || c.Args().First() == "" {
		return "", cli.Exit("exactly one id argument is required", exitInvalidInput)
	}
	return domain.ID(c.Args().First()), nil
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "load the dashboard of the signed-in role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "load another role's dashboard instead"},
		},
		Action: withPortal(func(c *cli.Context, p *portal) error {
			op := operation.New(func(ctx context.Context, role string) (any, error) {
				if role == "" {
					u, err := p.auth.Me(ctx)
					if err != nil {
						return nil, err
					}
					role = u.Role
				}
				return p.dashboards.Load(ctx, role)
			})
			_, err := run(c, op, c.String("role"))
			return err
		}),
	}
}

type reportView struct {
	Out   string `json:"out"`
	Bytes int64  `json:"bytes"`
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "download a CSV report",
		ArgsUsage: "<kind>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workspace", Value: "fm", Usage: "fm, admin or investor"},
			&cli.StringFlag{Name: "period"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: `file to write, "-" for stdout`},
		},
		Action: withPortal(func(c *cli.Context, p *portal) error {
			kind, period := c.Args().First(), c.String("period")
			var download func(ctx context.Context, w io.Writer) (int64, error)
			switch ws := c.String("workspace"); ws {
			case "fm":
				download = func(ctx context.Context, w io.Writer) (int64, error) {
					return p.facility.DownloadReport(ctx, kind, period, w)
				}
			case "admin":
				download = func(ctx context.Context, w io.Writer) (int64, error) {
					return p.admin.DownloadReport(ctx, kind, period, w)
				}
			case "investor":
				kind = "statement"
				download = func(ctx context.Context, w io.Writer) (int64, error) {
					return p.investor.DownloadStatement(ctx, period, w)
				}
			default:
				return cli.Exit(fmt.Sprintf("unknown workspace %q", ws), exitInvalidInput)
			}
			if kind == "" {
				return cli.Exit("report kind is required", exitInvalidInput)
			}

			out := c.String("out")
			if out == "" {
				out = reportFileName(kind, period)
			}
			summary := c.App.Writer
			op := operation.New(func(ctx context.Context, out string) (reportView, error) {
				if out == "-" {
					n, err := download(ctx, c.App.Writer)
					return reportView{Out: out, Bytes: n}, err
				}
				return downloadFile(ctx, out, download)
			})
			if out == "-" {
				summary = c.App.ErrWriter
			}
			_, err := runTo(c, op, out, summary)
			return err
		}),
	}
}

func reportFileName(kind, period string) string {
	if period == "" {
		return kind + ".csv"
	}
	return kind + "-" + period + ".csv"
}

// downloadFile writes the report next to its final name and renames it once
// the body is complete, so a failed download leaves no partial file behind.
func downloadFile(ctx context.Context, path string, download func(context.Context, io.Writer) (int64, error)) (reportView, error) {
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return reportView{}, err
	}
	n, err := download(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return reportView{}, err
	}
	return reportView{Out: path, Bytes: n}, nil
}

type uploadView struct {
	File    string        `json:"file"`
	VisitID domain.ID     `json:"visit_id"`
	Photo   *domain.Photo `json:"photo,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func uploadPhotosCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload-photos",
		Usage:     "attach photos to site visits",
		ArgsUsage: "[visit=]path...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "visit", Usage: "site visit for paths given without a visit prefix"},
			&cli.StringFlag{Name: "caption"},
			&cli.IntFlag{Name: "workers", Value: 4},
		},
		Action: withPortal(func(c *cli.Context, p *portal) error {
			jobs, err := photoJobs(c.Args().Slice(), domain.ID(c.String("visit")), c.String("caption"))
			if err != nil {
				return cli.Exit(err.Error(), exitInvalidInput)
			}
			d := queue.NewDispatcher(c.Int("workers"), p.contractor, logger.Named("uploads"))
			op := operation.New(func(ctx context.Context, jobs []queue.PhotoJob) ([]uploadView, error) {
				results := d.Run(ctx, jobs)
				views := make([]uploadView, len(results))
				for i, r := range results {
					views[i] = uploadView{File: r.Job.FileName, VisitID: r.Job.VisitID, Photo: r.Photo}
					if r.Err != nil {
						views[i].Error = r.Err.Error()
					}
				}
				return views, ctx.Err()
			})
			views, err := run(c, op, jobs)
			if err != nil {
				return err
			}
			for _, r := range views {
				if r.Error != "" {
					return cli.Exit("", exitRequestFailed)
				}
			}
			return nil
		}),
	}
}

// photoJobs parses "visit=path" and bare path arguments.
func photoJobs(args []string, defaultVisit domain.ID, caption string) ([]queue.PhotoJob, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no photos given")
	}
	jobs := make([]queue.PhotoJob, 0, len(args))
	for _, arg := range args {
		visit, path := defaultVisit, arg
		if v, rest, ok := strings.Cut(arg, "="); ok {
			visit, path = domain.ID(v), rest
		}
		if visit == "" || path == "" {
			return nil, fmt.Errorf("%q: a site visit and a path are required", arg)
		}
		jobs = append(jobs, queue.PhotoJob{
			VisitID:  visit,
			FileName: filepath.Base(path),
			Caption:  caption,
			Open:     func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	return jobs, nil
}
