// Command publisher-token prints a publisher token for a wallet identity.
// It reads the same configuration as the server so the token is signed
// with the server's secret:
//
//	publisher-token -c server.json -o <wallet address>
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/paywall/internal/flagx"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/server/auth"
	"github.com/dmitrijs2005/paywall/internal/server/config"
	"github.com/gagliardetto/solana-go"
)

func main() {

	cfg := config.LoadConfig()

	var owner string
	fs := flag.NewFlagSet("publisher-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&owner, "o", "", "owner wallet address")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-o"})); err != nil {
		log.Fatalf("%v", err)
	}

	if _, err := solana.PublicKeyFromBase58(owner); err != nil {
		log.Fatalf("owner must be a wallet address (-o): %v", err)
	}

	token, err := auth.GenerateToken(models.Identity(owner), []byte(cfg.SecretKey), cfg.PublisherTokenValidity)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println(token)

}
