// Package client contains client-side building blocks for Matchbox.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     sign-in, listings, and every ledger action exposed by the server.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor and maps
//     transport failures to ErrUnavailable. Ledger errors arrive as the
//     common sentinels (ErrorForbidden, ErrorInvalidState, ...).
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     wiring an SQLite database and applying embedded goose migrations.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package client
