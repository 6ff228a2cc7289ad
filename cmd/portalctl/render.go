package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/operation"
)

const (
	exitOK            = 0
	exitInvalidInput  = 10
	exitNetworkFailed = 20
	exitAuthFailed    = 30
	exitRequestFailed = 40
)

// run executes op once and renders its state transitions to the app writers.
// The result is printed as JSON on stdout.
func run[A, T any](c *cli.Context, op *operation.Operation[A, T], args A) (T, error) {
	return runTo(c, op, args, c.App.Writer)
}

// runTo is run with the JSON result sent to out.
func runTo[A, T any](c *cli.Context, op *operation.Operation[A, T], args A, out io.Writer) (T, error) {
	defer op.Close()
	cancel := op.Subscribe(renderer[T](out, c.App.ErrWriter, c.Bool("quiet")))
	defer cancel()

	v, err := op.Execute(c.Context, args)
	if err != nil {
		return v, cli.Exit("", exitCode(err))
	}
	return v, nil
}

func renderer[T any](out, errOut io.Writer, quiet bool) func(operation.State[T]) {
	return func(s operation.State[T]) {
		switch {
		case s.Loading:
			if !quiet {
				fmt.Fprintln(errOut, "working...")
			}
		case s.Error != "":
			fmt.Fprintln(errOut, "error:", s.Error)
		case s.Data != nil:
			if err := printJSON(out, *s.Data); err != nil {
				fmt.Fprintln(errOut, "error:", err)
			}
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode maps a failure to the process exit status.
func exitCode(err error) int {
	var ae *domain.APIError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrInvalidRequest):
		return exitInvalidInput
	case errors.Is(err, domain.ErrNotAuthenticated):
		return exitAuthFailed
	case errors.As(err, &ae) && ae.Status == 0:
		return exitNetworkFailed
	case errors.As(err, &ae) && (ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden):
		return exitAuthFailed
	default:
		return exitRequestFailed
	}
}
