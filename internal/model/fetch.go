// Package model defines the request, response and envelope types of the fetch proxy.
package model

import "net/http"

// UpstreamResponse is the fully read result of one outbound GET.
type UpstreamResponse struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// OK reports whether the outbound status is in the 2xx range.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// ContentType returns the Content-Type header, or nil when the upstream sent none.
// Repeated headers are joined the way the Fetch API joins them.
func (r *UpstreamResponse) ContentType() *string {
	vals := r.Header.Values("Content-Type")
	if len(vals) == 0 {
		return nil
	}
	ct := vals[0]
	for _, v := range vals[1:] {
		ct += ", " + v
	}
	return &ct
}

// Metadata describes the outbound response behind a successful envelope.
type Metadata struct {
	ContentType *string `json:"contentType"`
	Status      int     `json:"status"`
	URL         string  `json:"url"`
}

// Envelope is the JSON shape returned for every /api/fetch call.
// Exactly one of Data (with Metadata) or Error is set, matching Success.
type Envelope struct {
	Success  bool      `json:"success"`
	Data     any       `json:"data,omitempty"`
	Error    string    `json:"error,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Success builds a successful envelope.
func Success(data any, meta Metadata) Envelope {
	return Envelope{Success: true, Data: data, Metadata: &meta}
}

// Failure builds a failed envelope.
func Failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
