package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/models"
	"github.com/dmitrijs2005/paywall/internal/wire"
)

func (a *App) List(ctx context.Context, args []string) error {
	var owner models.Identity
	if len(args) > 0 {
		owner = models.Identity(args[0])
	}
	views, err := a.articles.List(ctx, owner, a.identity())
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintln(a.out, "No articles.")
		return nil
	}
	for _, v := range views {
		if link := a.explorerLink(v.Article.ID); link != "" {
			fmt.Fprintf(a.out, "%s\t%s\t[%s]\t%s\n", v.Article.ID, v.Article.Title, v.Indication, link)
			continue
		}
		fmt.Fprintf(a.out, "%s\t%s\t[%s]\n", v.Article.ID, v.Article.Title, v.Indication)
	}
	return nil
}

func (a *App) Read(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("read <id>")
	}
	v, err := a.articles.Open(ctx, args[0], a.identity())
	if err != nil {
		return err
	}

	art := v.Article
	fmt.Fprintf(a.out, "%s\n", art.Title)
	if art.PublishedWhere != "" {
		fmt.Fprintf(a.out, "Published in %s on %s\n", art.PublishedWhere, art.PublishedAt.Format(time.DateOnly))
	} else {
		fmt.Fprintf(a.out, "Published on %s\n", art.PublishedAt.Format(time.DateOnly))
	}
	if link := a.explorerLink(art.ID); link != "" {
		fmt.Fprintf(a.out, "License: %s\n", link)
	}

	if v.Body == nil {
		fmt.Fprintf(a.out, "Locked. %s with 'pay %s'.\n", v.Indication, art.ID)
		return nil
	}
	fmt.Fprintf(a.out, "\n%s\n", v.Body)
	return nil
}

func (a *App) Pay(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("pay <id>")
	}
	art, err := a.articles.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if art.Owner == a.identity() {
		fmt.Fprintln(a.out, "You are the author of this article.")
		return nil
	}

	question := fmt.Sprintf("Pay %s for %q to %s?", formatUSD(art.PriceCents), art.Title, art.Owner)
	if art.PriceCents > 0 {
		if q, err := a.quoter.Quote(ctx, art.PriceCents); err == nil {
			question = fmt.Sprintf("Pay %s (about %s) for %q to %s?", formatUSD(art.PriceCents), formatSOL(q.Lamports), art.Title, art.Owner)
		}
	}
	ok, err := Confirm(a.reader, question, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	rcpt, err := a.payments.Pay(ctx, art, a.identity(), a.wallet)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Paid %s. Signature: %s\n", formatSOL(rcpt.Lamports), rcpt.Signature)
	fmt.Fprintf(a.out, "Use 'read %s' to read it.\n", art.ID)
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	grants, err := a.payments.Grants(ctx)
	if err != nil {
		return err
	}
	pending, err := a.payments.Pending(ctx)
	if err != nil {
		return err
	}

	if len(grants) == 0 && len(pending) == 0 {
		fmt.Fprintln(a.out, "No payments yet.")
		return nil
	}
	for _, g := range grants {
		fmt.Fprintf(a.out, "%s\tpaid\t%s\t%s\n", g.ArticleID, g.GrantedAt.Format(time.RFC3339), g.Signature)
	}
	for _, p := range pending {
		fmt.Fprintf(a.out, "%s\tpending\t%s\t%s\n", p.ArticleID, formatSOL(p.Lamports), p.Signature)
	}
	return nil
}

func (a *App) Reconcile(ctx context.Context, args []string) error {
	ids := args
	if len(ids) == 0 {
		pending, err := a.payments.Pending(ctx)
		if err != nil {
			return err
		}
		for _, p := range pending {
			ids = append(ids, p.ArticleID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nothing pending.")
		return nil
	}

	var errs []error
	for _, id := range ids {
		outcome, err := a.payments.Reconcile(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		fmt.Fprintf(a.out, "%s\t%s\n", id, outcome)
	}
	return errors.Join(errs...)
}

func (a *App) Claim(ctx context.Context, args []string) error {
	desc, err := a.claims.Describe(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", desc.Title, desc.Description)
	if desc.Disabled {
		return fmt.Errorf("%w: the license action is disabled on this server", common.ErrCollectionNotFound)
	}
	ok, err := Confirm(a.reader, desc.Label+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	res, err := a.claims.Claim(ctx, a.wallet)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "License minted: %s\nSignature: %s\n", res.Asset, res.Signature)
	return nil
}

func (a *App) Balance(ctx context.Context, args []string) error {
	lamports, err := a.balances.Balance(ctx, a.wallet.PublicKey())
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	fmt.Fprintln(a.out, formatSOL(lamports))
	return nil
}

func (a *App) WhoAmI(ctx context.Context, args []string) error {
	fmt.Fprintln(a.out, a.identity())
	return nil
}

func (a *App) Token(ctx context.Context, args []string) error {
	token, err := GetSecret("Publisher token: ", a.out)
	if err != nil {
		return err
	}
	if token == "" {
		return usage("token must not be empty")
	}
	a.api.SetPublisherToken(token)
	fmt.Fprintln(a.out, "Publisher token set.")
	return nil
}

func (a *App) Publish(ctx context.Context, args []string) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	where, err := GetSimpleText(a.reader, "Published where (optional)", a.out)
	if err != nil {
		return err
	}
	priceText, err := GetSimpleText(a.reader, "Price in USD, e.g. 0.50", a.out)
	if err != nil {
		return err
	}
	cents, err := ParseCents(priceText)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidAmount, err)
	}
	body, err := GetMultiline(a.reader, "Body", a.out)
	if err != nil {
		return err
	}

	art, err := a.articles.Publish(ctx, &wire.PublishRequest{
		Title:          title,
		PublishedWhere: where,
		PriceCents:     cents,
		Body:           []byte(body),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published %s at %s.\n", art.ID, formatUSD(art.PriceCents))
	return nil
}

func (a *App) Ping(ctx context.Context, args []string) error {
	version, err := a.api.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Server version: %s\n", version)
	return nil
}
