package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"data-fetch-agent/internal/metrics"
	"data-fetch-agent/internal/model"
	"data-fetch-agent/internal/service"
	"data-fetch-agent/internal/validator"
)

// Envelope error messages.
const (
	msgURLRequired  = "URL is required"
	msgInvalidURL   = "Invalid URL format"
	msgUnknownError = "Unknown error occurred"
)

// FetchHandler serves POST /api/fetch.
type FetchHandler struct {
	service *service.FetchService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewFetchHandler creates a FetchHandler. The metrics parameter may be nil.
func NewFetchHandler(svc *service.FetchService, m *metrics.Metrics, logger *slog.Logger) *FetchHandler {
	return &FetchHandler{
		service: svc,
		metrics: m,
		logger:  logger.With("component", "fetch_handler"),
	}
}

// Handle decodes {"url": ...}, fetches the target and writes the result envelope.
// Every outcome is written as an envelope; Handle itself only returns write errors.
func (h *FetchHandler) Handle(c echo.Context) error {
	rawURL, err := readTargetURL(c.Request().Body)
	if err != nil {
		return h.mapError(c, err)
	}

	res, err := h.service.Fetch(c.Request().Context(), rawURL)
	if err != nil {
		return h.mapError(c, err)
	}

	// Successful fetches always answer 200; metadata.status carries the outbound code.
	h.recordOutcome(metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, model.Success(res.Body.Value(), res.Metadata))
}

func (h *FetchHandler) mapError(c echo.Context, err error) error {
	// Framework errors (body limit) are rendered by the central error handler.
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, service.ErrMissingURL):
		h.recordOutcome(metrics.OutcomeMissingURL)
		return c.JSON(http.StatusBadRequest, model.Failure(msgURLRequired))

	case errors.Is(err, validator.ErrInvalidURL):
		h.recordOutcome(metrics.OutcomeInvalidURL)
		return c.JSON(http.StatusBadRequest, model.Failure(msgInvalidURL))
	}

	var he *service.UpstreamHTTPError
	if errors.As(err, &he) {
		h.recordOutcome(metrics.OutcomeUpstreamHTTP)
		h.logger.Warn("upstream returned error status", "status", he.StatusCode)
		return c.JSON(envelopeStatus(he.StatusCode, http.StatusBadGateway), model.Failure(he.Error()))
	}

	h.recordOutcome(metrics.OutcomeUnknown)
	h.logger.Error("fetch failed", "err", err)
	return c.JSON(http.StatusInternalServerError, model.Failure(errorMessage(err)))
}

func (h *FetchHandler) recordOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.FetchOutcomes.WithLabelValues(outcome).Inc()
	}
}

// readTargetURL extracts the "url" member of a JSON object body.
//
// Unparsable bodies, non-object bodies and absent, null, false, zero or empty
// values yield ErrMissingURL. Any other non-string value cannot be a URL and
// yields validator.ErrInvalidURL.
func readTargetURL(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read request body: %w", err)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return "", service.ErrMissingURL
	}

	raw := bytes.TrimSpace(body["url"])
	if len(raw) == 0 {
		return "", service.ErrMissingURL
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", service.ErrMissingURL
		}
		return s, nil
	case 'n', 'f':
		return "", service.ErrMissingURL
	case 't', '{', '[':
		return "", validator.ErrInvalidURL
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil || n == 0 {
			return "", service.ErrMissingURL
		}
		return "", validator.ErrInvalidURL
	}
}

// envelopeStatus returns code unless net/http forbids a body for it, in which case fallback is used.
func envelopeStatus(code, fallback int) int {
	if code < 200 || code == http.StatusNoContent || code == http.StatusNotModified {
		return fallback
	}
	return code
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return msgUnknownError
	}
	return err.Error()
}
