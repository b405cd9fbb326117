// Package cli provides the interactive paywall reader client.
//
// It wires configuration, the local grant store, the server API, the ledger
// and the price source into a REPL. Readers list articles, pay for the ones
// they want and claim a license. Publishers set a token and publish.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
