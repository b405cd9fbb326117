// Package config loads runtime configuration for the paywall reader CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the server gRPC endpoint
//	-u string   base URL of the server HTTP endpoint
//	-r string   Solana RPC endpoint
//	-w string   wallet keypair file
//	-q string   spot price URL
//	-d string   local database file
//	-t int      payment confirmation timeout (seconds)
//	-i int      confirmation polling interval (milliseconds)
//	-j string   publisher token
//	-x string   address explorer base URL (empty disables links)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "60s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "actions_url": "http://127.0.0.1:8080",
//	  "rpc_endpoint": "https://api.devnet.solana.com",
//	  "keypair_path": "wallet.json",
//	  "database_path": "grants.db",
//	  "confirm_timeout": "60s",
//	  "poll_interval": "500ms",
//	  "explorer_url": "https://solana.fm/address"
//	}
package config
