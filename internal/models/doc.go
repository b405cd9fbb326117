// Package models defines the domain types shared by the paywall server and
// the reader client: articles and their encrypted payloads, client-local
// access grants and pending payments, payment quotes and receipts, and the
// action-protocol documents served to wallets.
package models
