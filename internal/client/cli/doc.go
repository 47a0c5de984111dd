// Package cli provides the interactive posterboard command-line client.
//
// It wires configuration, the HTTP and gRPC API clients, and a REPL. The
// current session bundle lives only in memory; the update token is used to
// refresh it, either on request or automatically when a gated call reports
// an expired session.
//
// Commands:
//   - register / login / refresh / logout
//   - whoami (gRPC), secret, profile
//   - categories, search <prefix>, interests <title>[, <title>...]
//   - upload <path>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
