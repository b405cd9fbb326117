package grants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/dmitrijs2005/paywall/internal/dbx"
	"github.com/dmitrijs2005/paywall/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) IsGranted(ctx context.Context, articleID string) (bool, error) {
	var granted bool
	err := r.db.QueryRowContext(ctx, `SELECT granted FROM grants WHERE article_id = ?`, articleID).Scan(&granted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read grant[%s]: %w", articleID, err)
	}
	return granted, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, articleID string) (*models.AccessGrant, error) {
	g, err := scanGrant(r.db.QueryRowContext(ctx,
		`SELECT article_id, granted, signature, payer, granted_at FROM grants WHERE article_id = ?`, articleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grant[%s]: %w", articleID, err)
	}
	return g, nil
}

// Put stores g. An existing grant for the same article is kept, so the
// first confirmed signature wins.
func (r *SQLiteRepository) Put(ctx context.Context, g *models.AccessGrant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grants (article_id, granted, signature, payer, granted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO NOTHING
	`, g.ArticleID, g.Granted, g.Signature, string(g.Payer), g.GrantedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put grant[%s]: %w", g.ArticleID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.AccessGrant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT article_id, granted, signature, payer, granted_at FROM grants ORDER BY granted_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var result []*models.AccessGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grant row: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grant rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGrant(s scanner) (*models.AccessGrant, error) {
	var (
		g     models.AccessGrant
		payer string
		at    int64
	)
	if err := s.Scan(&g.ArticleID, &g.Granted, &g.Signature, &payer, &at); err != nil {
		return nil, err
	}
	g.Payer = models.Identity(payer)
	g.GrantedAt = time.Unix(0, at).UTC()
	return &g, nil
}
