// Package client contains the reader CLI's transport and storage bootstrap.
//
// # Overview
//
// The package provides:
//  1. The Client interface to the paywall server's gRPC service and its
//     implementation GRPCClient. GRPCClient attaches the publisher token
//     when one is set and maps gRPC statuses back to the sentinel errors in
//     internal/common, so callers keep using errors.Is.
//  2. ActionsClient, a small HTTP client for the mint action.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database holding grants and pending payments, migrated with goose.
//
// All operations accept context.Context and honor cancellation.
package client
