package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/vestibule"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ vestibule.AuthStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
