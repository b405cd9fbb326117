package pending

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

const selectColumns = `SELECT article_id, signature, payer, lamports, last_valid_block_height, submitted_at FROM pending_payments`

func (r *SQLiteRepository) Get(ctx context.Context, articleID string) (*models.PendingPayment, error) {
	p, err := scanPending(r.db.QueryRowContext(ctx, selectColumns+` WHERE article_id = ?`, articleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payment[%s]: %w", articleID, err)
	}
	return p, nil
}

// Put records p. At most one payment per article can be pending.
func (r *SQLiteRepository) Put(ctx context.Context, p *models.PendingPayment) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_payments (article_id, signature, payer, lamports, last_valid_block_height, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO NOTHING
	`, p.ArticleID, p.Signature, string(p.Payer), int64(p.Lamports), int64(p.LastValidBlockHeight), p.SubmittedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put pending payment[%s]: %w", p.ArticleID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrPaymentPending
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, articleID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_payments WHERE article_id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete pending payment[%s]: %w", articleID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.PendingPayment, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY submitted_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingPayment
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending payment row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending payment rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPending(s scanner) (*models.PendingPayment, error) {
	var (
		p                   models.PendingPayment
		payer               string
		lamports, lastValid int64
		at                  int64
	)
	if err := s.Scan(&p.ArticleID, &p.Signature, &payer, &lamports, &lastValid, &at); err != nil {
		return nil, err
	}
	p.Payer = models.Identity(payer)
	p.Lamports = uint64(lamports)
	p.LastValidBlockHeight = uint64(lastValid)
	p.SubmittedAt = time.Unix(0, at).UTC()
	return &p, nil
}
