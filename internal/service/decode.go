package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BodyKind selects how an outbound response body is decoded.
type BodyKind int

const (
	// RawText keeps the body as a string.
	RawText BodyKind = iota
	// ParsedJSON parses the body as a JSON document.
	ParsedJSON
)

func (k BodyKind) String() string {
	switch k {
	case ParsedJSON:
		return "json"
	default:
		return "text"
	}
}

// ClassifyContentType picks the decoding for a Content-Type header value.
// A nil header decodes as text.
func ClassifyContentType(contentType *string) BodyKind {
	if contentType != nil && strings.Contains(*contentType, "application/json") {
		return ParsedJSON
	}
	return RawText
}

// DecodedBody is an outbound body decoded according to its BodyKind.
type DecodedBody struct {
	Kind BodyKind
	JSON json.RawMessage
	Text string
}

// Value returns the decoded payload for the envelope's data field.
func (b DecodedBody) Value() any {
	if b.Kind == ParsedJSON {
		return b.JSON
	}
	return b.Text
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeBody decodes body as kind. JSON bodies must be a single valid document.
func DecodeBody(kind BodyKind, body []byte) (DecodedBody, error) {
	body = bytes.TrimPrefix(body, utf8BOM)

	if kind != ParsedJSON {
		return DecodedBody{Kind: RawText, Text: string(body)}, nil
	}

	var doc json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return DecodedBody{}, fmt.Errorf("parse JSON body: %w", err)
	}
	return DecodedBody{Kind: ParsedJSON, JSON: doc}, nil
}
