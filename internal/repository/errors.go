package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint
var ErrDuplicate = errors.New("duplicate key")

const pgUniqueViolation = "23505"

// translate maps driver specific unique violations to ErrDuplicate
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// forUpdate adds SELECT ... FOR UPDATE on dialects that support row locks
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Page limits a query. Size 0 means no limit.
type Page struct {
	Page int
	Size int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return q
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * p.Size).Limit(p.Size)
}
