package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/vestibule"
)

func (a *Adapter) CreateVerificationToken(ctx context.Context, t *vestibule.VerificationToken) error {
	query := `INSERT INTO public.verification_tokens (identifier, token, purpose, expires_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`

	var createdAt time.Time
	err := a.pool.QueryRow(ctx, query, t.Identifier, t.Token, t.Purpose, t.ExpiresAt).Scan(&createdAt)
	if err != nil {
		return err
	}

	t.CreatedAt = createdAt
	return nil
}

// GetVerificationToken looks a token up by its opaque value alone; the token
// column is unique and indexed.
func (a *Adapter) GetVerificationToken(ctx context.Context, token string) (*vestibule.VerificationToken, error) {
	q := `SELECT identifier, token, purpose, expires_at, created_at FROM public.verification_tokens WHERE token = $1`

	t := &vestibule.VerificationToken{}
	err := a.pool.QueryRow(ctx, q, token).Scan(&t.Identifier, &t.Token, &t.Purpose, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, vestibule.ErrTokenInvalid
		}
		return nil, err
	}
	return t, nil
}

func (a *Adapter) DeleteVerificationToken(ctx context.Context, token string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.verification_tokens WHERE token = $1`, token)
	if err != nil {
		return err
	}
	return nil
}

func (a *Adapter) DeleteVerificationTokens(ctx context.Context, identifier, purpose string) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.verification_tokens WHERE identifier = $1 AND purpose = $2`, identifier, purpose)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
