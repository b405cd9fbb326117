package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/dbx"
	"github.com/dmitrijs2005/paywall/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Article) error {
	query := `
		INSERT INTO articles (id, title, published_where, published_at, owner, ciphertext, iv, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.Title, a.PublishedWhere, a.PublishedAt, string(a.Owner),
		a.Payload.Ciphertext, a.Payload.IV, a.PriceCents)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

const selectColumns = `SELECT id, title, published_where, published_at, owner, ciphertext, iv, price_cents FROM articles`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (*models.Article, error) {
	var (
		a     models.Article
		owner string
	)
	if err := s.Scan(&a.ID, &a.Title, &a.PublishedWhere, &a.PublishedAt, &owner,
		&a.Payload.Ciphertext, &a.Payload.IV, &a.PriceCents); err != nil {
		return nil, err
	}
	a.Owner = models.Identity(owner)
	return &a, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select article: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context, owner models.Identity) ([]*models.Article, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if owner.IsZero() {
		rows, err = r.db.QueryContext(ctx, selectColumns+` ORDER BY published_at DESC, id`)
	} else {
		rows, err = r.db.QueryContext(ctx, selectColumns+` WHERE owner = $1 ORDER BY published_at DESC, id`, string(owner))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
