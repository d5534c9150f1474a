// Package validator parses caller-supplied target URLs into their canonical form.
package validator

import (
	"errors"
	"net/url"
	"strings"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// ErrInvalidURL is returned when the input is not an absolute URL with a scheme and host.
var ErrInvalidURL = errors.New("invalid URL format")

// Target is a validated URL in WHATWG canonical form.
type Target struct {
	href    string
	request *url.URL
}

// Href returns the canonical serialization, fragment included.
func (t *Target) Href() string { return t.href }

func (t *Target) String() string { return t.href }

// RequestURL returns a copy of the URL in the form net/http sends it.
// The fragment is not part of it.
func (t *Target) RequestURL() *url.URL {
	u := *t.request
	if t.request.User != nil {
		user := *t.request.User
		u.User = &user
	}
	return &u
}

// Validate parses raw with the WHATWG URL parser and returns the canonical target.
// Dot segments are resolved, hosts are lowercased and IDNA-encoded, default ports
// are dropped and unsafe characters are percent-encoded. Inputs that do not parse
// to an absolute URL with a non-empty host are rejected.
func Validate(raw string) (*Target, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidURL
	}

	u, err := whatwg.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme() == "" || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}

	href := u.Href(false)
	req, err := requestURL(u)
	if err != nil {
		return nil, err
	}
	return &Target{href: href, request: req}, nil
}

// requestURL converts the parsed URL into a net/url value for the transport.
// WHATWG keeps sequences such as a lone "%zz" that net/url refuses; those paths
// travel verbatim through Opaque.
func requestURL(u *whatwg.Url) (*url.URL, error) {
	if nu, err := url.Parse(u.Href(true)); err == nil {
		return nu, nil
	}

	path := u.Pathname()
	if strings.HasPrefix(path, "//") {
		// Opaque starting with "//" would be sent as an absolute-form target.
		return nil, ErrInvalidURL
	}

	nu := &url.URL{
		Scheme:   u.Scheme(),
		Host:     u.Host(),
		Opaque:   path,
		RawQuery: strings.TrimPrefix(u.Search(), "?"),
	}
	if name := u.Username(); name != "" || u.Password() != "" {
		nu.User = userinfo(name, u.Password())
	}
	return nu, nil
}

func userinfo(name, password string) *url.Userinfo {
	if n, err := url.PathUnescape(name); err == nil {
		name = n
	}
	if password == "" {
		return url.User(name)
	}
	if p, err := url.PathUnescape(password); err == nil {
		password = p
	}
	return url.UserPassword(name, password)
}
