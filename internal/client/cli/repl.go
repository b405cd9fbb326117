package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/paywall/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	Pay(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Reconcile(ctx context.Context, args []string) error
	Claim(ctx context.Context, args []string) error
	Balance(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Token(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	Ping(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  list [owner]      list articles, optionally of one author
  read <id>         show an article, decrypted if you may read it
  pay <id>          pay for an article
  status            show grants and pending payments
  reconcile [id]    settle pending payments against the ledger
  claim             mint a license to your wallet
  balance           show the wallet balance
  whoami            show the wallet address
  token             set the publisher token
  publish           publish an article
  ping              check the server
  exit | quit       leave the program`

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit". Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("paywall %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "read":
			cmdErr = a.Read(ctx, args)
		case "pay":
			cmdErr = a.Pay(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "reconcile":
			cmdErr = a.Reconcile(ctx, args)
		case "claim":
			cmdErr = a.Claim(ctx, args)
		case "balance":
			cmdErr = a.Balance(ctx, args)
		case "whoami":
			cmdErr = a.WhoAmI(ctx, args)
		case "token":
			cmdErr = a.Token(ctx, args)
		case "publish":
			cmdErr = a.Publish(ctx, args)
		case "ping":
			cmdErr = a.Ping(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}
	}
}

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// describeError turns an error into something a reader can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, common.ErrConfirmationTimeout):
		return "the payment was sent but not confirmed yet. Run 'reconcile' before paying again."
	case errors.Is(err, common.ErrPaymentPending):
		return "a payment for this article is still pending. Run 'reconcile' to settle it."
	case errors.Is(err, common.ErrAlreadyGranted):
		return "you already have access to this article."
	case errors.Is(err, common.ErrInsufficientFunds):
		return "the wallet balance is too low: " + err.Error()
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return "not authorized. Set a valid publisher token with 'token'."
	}
	return fmt.Sprintf("%s: %v", common.KindOf(err), err)
}
