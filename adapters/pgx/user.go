package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/vestibule"
)

func (a *Adapter) CreateUser(ctx context.Context, user *vestibule.User) error {
	query := `INSERT INTO public.users (id, email, email_verified, name, image) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, user.ID, user.Email, user.EmailVerified, user.Name, user.Image).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*vestibule.User, error) {
	q := `SELECT id, email, email_verified, name, image, created_at, updated_at FROM public.users WHERE id = $1`

	user := &vestibule.User{}
	var image *string
	err := a.pool.QueryRow(ctx, q, id).Scan(&user.ID, &user.Email, &user.EmailVerified, &user.Name, &image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, vestibule.ErrUserNotFound
		}
		return nil, err
	}
	user.Image = image
	return user, nil
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*vestibule.User, error) {
	q := `SELECT id, email, email_verified, name, image, created_at, updated_at FROM public.users WHERE email = $1`

	user := &vestibule.User{}
	var image *string
	err := a.pool.QueryRow(ctx, q, email).Scan(&user.ID, &user.Email, &user.EmailVerified, &user.Name, &image, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, vestibule.ErrUserNotFound
		}
		return nil, err
	}
	user.Image = image
	return user, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, user *vestibule.User) error {
	q := `UPDATE public.users SET email = $1, email_verified = $2, name = $3, image = $4, updated_at = now() WHERE id = $5 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.Email, user.EmailVerified, user.Name, user.Image, user.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return vestibule.ErrUserNotFound
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return nil
}
