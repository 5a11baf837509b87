// Package auth applies request credentials for catalog and package fetches.
// The release catalog and the packages it points at may sit behind the same
// protected endpoint, so both the manifest source and the download manager
// accept an Authenticator.
package auth

import "net/http"

// Authenticator applies credentials to an outgoing HTTP request.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type names an authentication scheme.
type Type string

// Authentication schemes.
const (
	BasicAuthType  Type = "basic"
	HeaderAuthType Type = "header"
	BearerAuthType Type = "bearer"
)

// BasicAuth carries HTTP Basic Authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Apply sets the Basic Authentication header.
func (b BasicAuth) Apply(req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// Type returns BasicAuthType.
func (b BasicAuth) Type() Type { return BasicAuthType }

// HeaderAuth carries custom header credentials, for endpoints keyed on
// API-key style headers.
type HeaderAuth struct {
	Headers map[string]string
}

// Apply sets every configured header on the request.
func (h HeaderAuth) Apply(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

// Type returns HeaderAuthType.
func (h HeaderAuth) Type() Type { return HeaderAuthType }

// BearerAuth carries a bearer token.
type BearerAuth struct {
	Token string
}

// Apply sets the Authorization header to the bearer token.
func (b BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// Type returns BearerAuthType.
func (b BearerAuth) Type() Type { return BearerAuthType }
