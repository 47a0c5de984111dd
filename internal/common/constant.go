// Package common contains shared constants and sentinel errors used across
// posterboard components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// AuthorizationMetadataKey is the gRPC metadata key for the same credential.
	// gRPC lowercases metadata keys.
	AuthorizationMetadataKey = "authorization"

	// BearerScheme is the expected scheme keyword, matched case-sensitively.
	BearerScheme = "Bearer"
)
