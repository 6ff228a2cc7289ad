package service

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/query"
)

// listQuery maps the common listing filters in a fixed order.
func listQuery(opts domain.ListOptions) *query.Values {
	return query.New().
		Set("status", opts.Status).
		SetInt("limit", opts.Limit).
		SetInt("offset", opts.Offset).
		Set("period", opts.Period).
		Set("search", opts.Search)
}

func list[T any](ctx context.Context, api ports.Requester, endpoint string, opts domain.ListOptions) (*domain.Page[T], error) {
	var page domain.Page[T]
	if err := api.Do(ctx, ports.Request{Endpoint: endpoint, Query: listQuery(opts)}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func get[T any](ctx context.Context, api ports.Requester, endpoint string, q *query.Values) (*T, error) {
	var out T
	if err := api.Do(ctx, ports.Request{Endpoint: endpoint, Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func send[T any](ctx context.Context, api ports.Requester, method, endpoint string, body any) (*T, error) {
	var out T
	if err := api.Do(ctx, ports.Request{Method: method, Endpoint: endpoint, Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func post[T any](ctx context.Context, api ports.Requester, endpoint string, body any) (*T, error) {
	return send[T](ctx, api, http.MethodPost, endpoint, body)
}

func patch[T any](ctx context.Context, api ports.Requester, endpoint string, body any) (*T, error) {
	return send[T](ctx, api, http.MethodPatch, endpoint, body)
}

// report streams a CSV report for period into w.
func report(ctx context.Context, api ports.Requester, endpoint, period string, w io.Writer) (int64, error) {
	return api.Download(ctx, endpoint, query.New().Set("period", period), w)
}

// seg escapes one path segment.
func seg(id domain.ID) string {
	return url.PathEscape(id.String())
}

// reportPath keeps kind inside a single path segment.
func reportPath(kind string) string {
	return "/reports/" + url.PathEscape(kind) + "/"
}
