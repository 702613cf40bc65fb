package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Context is the persistence context repositories run on: a connection
// scope paired with the schema applied to it.
//
// A Context built on a transaction must not be shared between goroutines.
type Context struct {
	db     DBTX
	schema *Schema
}

func NewContext(db DBTX, schema *Schema) *Context {
	return &Context{db: db, schema: schema}
}

func (c *Context) DB() DBTX {
	return c.db
}

func (c *Context) Schema() *Schema {
	return c.schema
}

// Table returns the mapping registered under name.
func (c *Context) Table(name string) (Table, error) {
	t, ok := c.schema.Table(name)
	if !ok {
		return Table{}, fmt.Errorf("table %s is not registered", name)
	}
	return t, nil
}
