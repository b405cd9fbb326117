package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/paywall/internal/flagx"
)

// parseFlags applies short command-line flags:
//
//	-a  gRPC address            -h  HTTP address
//	-d  PostgreSQL DSN          -s  publisher token secret
//	-t  token validity, hours   -k  content secret
//	-n  content salt            -r  Solana RPC endpoint
//	-l  collection address      -w  authority key file
//	-u/-p  S3 user/password     -b  S3 bucket
//	-g  S3 region               -e  S3 endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-h", "-d", "-s", "-t", "-k", "-n", "-r", "-l", "-w", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC listen address")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "HTTP listen address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "publisher token secret")
	validity := fs.Int("t", int(config.PublisherTokenValidity.Hours()), "publisher token validity (in hours)")
	fs.StringVar(&config.ContentSecret, "k", config.ContentSecret, "content secret")
	fs.StringVar(&config.ContentSalt, "n", config.ContentSalt, "content salt")
	fs.StringVar(&config.RPCEndpoint, "r", config.RPCEndpoint, "Solana RPC endpoint")
	fs.StringVar(&config.CollectionAddress, "l", config.CollectionAddress, "license collection address")
	fs.StringVar(&config.AuthorityKeyPath, "w", config.AuthorityKeyPath, "collection authority keypair file")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PublisherTokenValidity = time.Duration(*validity) * time.Hour
}
