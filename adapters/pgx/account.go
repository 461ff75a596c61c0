package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/vestibule"
)

func (a *Adapter) CreateAccount(ctx context.Context, acc *vestibule.Account) error {
	query := `INSERT INTO public.accounts (id, user_id, provider_id, account_id, password, access_token, refresh_token, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		acc.ID, acc.UserID, acc.ProviderID, acc.AccountID, acc.Password, acc.AccessToken, acc.RefreshToken, acc.ExpiresAt,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		return err
	}

	acc.CreatedAt = createdAt
	acc.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetAccountsByUserAndProvider(ctx context.Context, userID, providerID string) ([]*vestibule.Account, error) {
	query := `SELECT id, user_id, provider_id, account_id, password, access_token, refresh_token, expires_at, created_at, updated_at
	          FROM public.accounts WHERE user_id = $1 AND provider_id = $2`

	rows, err := a.pool.Query(ctx, query, userID, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*vestibule.Account
	for rows.Next() {
		acc := &vestibule.Account{}
		err := rows.Scan(
			&acc.ID, &acc.UserID, &acc.ProviderID, &acc.AccountID, &acc.Password, &acc.AccessToken, &acc.RefreshToken, &acc.ExpiresAt, &acc.CreatedAt, &acc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (a *Adapter) UpdateAccount(ctx context.Context, acc *vestibule.Account) error {
	query := `UPDATE public.accounts SET account_id = $1, password = $2, access_token = $3, refresh_token = $4, expires_at = $5, updated_at = now()
	          WHERE id = $6 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		acc.AccountID, acc.Password, acc.AccessToken, acc.RefreshToken, acc.ExpiresAt, acc.ID,
	).Scan(&updatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return vestibule.ErrUserNotFound
		}
		return err
	}

	acc.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteAccount(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return nil
}
