// Package client talks to the posterboard backend.
//
// HTTPClient covers the JSON API and keeps the current session bundle in
// memory. When a gated call fails because the session expired, it spends
// the update token once and retries, the same way the gRPC interceptor does
// for the session service.
//
// GRPCClient calls posterboard.v1.SessionService and attaches the bearer
// token supplied by a token function, normally HTTPClient.SessionToken.
//
// Transport failures are reported as ErrUnavailable and rejected
// credentials as ErrUnauthorized; both can be matched with errors.Is.
package client
