// Package service implements the fetch proxy: validation, outbound GET and body decoding.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"data-fetch-agent/internal/model"
	"data-fetch-agent/internal/validator"
)

// ErrMissingURL is returned when the request carries no target URL.
var ErrMissingURL = errors.New("URL is required")

// UpstreamHTTPError reports a completed outbound call with a non-2xx status.
type UpstreamHTTPError struct {
	StatusCode int
	StatusText string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

// Getter performs a single outbound GET and returns the fully read response.
type Getter interface {
	Get(ctx context.Context, target *url.URL) (*model.UpstreamResponse, error)
}

// Result is the outcome of a successful fetch.
type Result struct {
	Body     DecodedBody
	Metadata model.Metadata
}

// FetchService validates target URLs and retrieves them through a Getter.
type FetchService struct {
	getter Getter
	logger *slog.Logger
}

// NewFetchService creates a FetchService.
func NewFetchService(g Getter, logger *slog.Logger) *FetchService {
	return &FetchService{
		getter: g,
		logger: logger.With("component", "fetch_service"),
	}
}

// Fetch validates rawURL, GETs its normalized form and decodes the body by content type.
//
// Errors are ErrMissingURL, validator.ErrInvalidURL, *UpstreamHTTPError, or any
// transport, read or decode failure from the outbound call.
func (s *FetchService) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}

	target, err := validator.Validate(rawURL)
	if err != nil {
		return nil, err
	}
	href := target.Href()

	resp, err := s.getter.Get(ctx, target.RequestURL())
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, &UpstreamHTTPError{StatusCode: resp.StatusCode, StatusText: resp.StatusText}
	}

	contentType := resp.ContentType()
	kind := ClassifyContentType(contentType)
	body, err := DecodeBody(kind, resp.Body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched",
		"url", href,
		"status", resp.StatusCode,
		"kind", kind.String(),
		"bytes", len(resp.Body),
	)

	return &Result{
		Body: body,
		Metadata: model.Metadata{
			ContentType: contentType,
			Status:      resp.StatusCode,
			URL:         href,
		},
	}, nil
}
