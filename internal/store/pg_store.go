package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/store/db"
)

const uniqueViolation = "23505"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PgStore implements ProductStore on one connection acquired from a PostgreSQL pool.
type PgStore struct {
	conn *pgxpool.Conn
	q    *db.Queries
}

// Acquire takes a connection from the pool and wraps it in a PgStore.
// The connection goes back to the pool on Close.
func Acquire(ctx context.Context, pool *pgxpool.Pool) (*PgStore, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, storageError("acquire connection", err)
	}
	return NewPgStore(conn), nil
}

// NewPgStore creates a new instance of ProductStore over an acquired connection.
func NewPgStore(conn *pgxpool.Conn) *PgStore {
	return &PgStore{
		conn: conn,
		q:    db.New(conn),
	}
}

// FindAll retrieves all persisted products ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.FindAll(ctx)
	if err != nil {
		return nil, storageError("find all products", err)
	}
	return products, nil
}

// SearchByName runs a case-insensitive substring match on the name column.
// LIKE wildcards in query are matched literally.
func (p *PgStore) SearchByName(ctx context.Context, query string) ([]db.Product, error) {
	products, err := p.q.SearchByName(ctx, EscapeLike(query))
	if err != nil {
		return nil, storageError("search products by name", err)
	}
	return products, nil
}

// Create inserts a new product row.
func (p *PgStore) Create(ctx context.Context, id int64, name string, quantity int64, price float64) error {
	err := p.q.Create(ctx, db.CreateParams{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Price:    price,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %d: %w", perrors.ErrDuplicateIdentifier, id, storageError("create product", err))
		}
		return storageError("create product", err)
	}
	return nil
}

// Update overwrites all columns of an existing product row.
func (p *PgStore) Update(ctx context.Context, id int64, name string, quantity int64, price float64) error {
	count, err := p.q.Update(ctx, db.UpdateParams{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Price:    price,
	})
	if err != nil {
		return storageError("update product", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// DeleteByID removes a product row by its ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	count, err := p.q.DeleteByID(ctx, id)
	if err != nil {
		return storageError("delete product", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Close returns the connection to the pool. It is safe to call more than once.
func (p *PgStore) Close() error {
	if p.conn != nil {
		p.conn.Release()
		p.conn = nil
	}
	return nil
}

// EscapeLike escapes LIKE metacharacters so the input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func storageError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, perrors.ErrStorageFailure, err)
}
