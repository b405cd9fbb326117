// Package common contains shared constants and sentinel errors used across
// paywall components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// publisher token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000
