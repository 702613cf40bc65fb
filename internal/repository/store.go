package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// Repository is the persistence contract every entity repository offers.
type Repository[T any] interface {
	// Add inserts entity and fills in its generated key.
	Add(ctx context.Context, entity *T) (*T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	// All streams every row. Each range over the sequence runs a new query,
	// and rows come back in whatever order the store returns them.
	All(ctx context.Context) iter.Seq2[*T, error]
	GetAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Mapping tells a Store how to move T in and out of its table.
type Mapping[T any] struct {
	// Table is the name the entity was registered under in the Schema.
	Table string
	Key   func(*T) int64
	// Values returns the non-key column values in the table's column order.
	Values func(*T) []any
	// Fields returns scan targets: the key first, then the columns in order.
	Fields func(*T) []any
}

// Store is the PostgreSQL implementation of Repository.
type Store[T any] struct {
	dbCtx   *database.Context
	table   database.Table
	mapping Mapping[T]

	selectSQL string
	getSQL    string
	insertSQL string
	updateSQL string
	deleteSQL string
}

var _ Repository[struct{}] = (*Store[struct{}])(nil)

// NewStore resolves mapping.Table on dbCtx and prepares the statements.
func NewStore[T any](dbCtx *database.Context, mapping Mapping[T]) (*Store[T], error) {
	table, err := dbCtx.Table(mapping.Table)
	if err != nil {
		return nil, err
	}

	columns := table.ColumnNames()
	placeholders := make([]string, len(columns))
	assignments := make([]string, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		assignments[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}

	selectSQL := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(append([]string{table.PrimaryKey}, columns...), ", "), table.Name)

	return &Store[T]{
		dbCtx:     dbCtx,
		table:     table,
		mapping:   mapping,
		selectSQL: selectSQL,
		getSQL:    fmt.Sprintf("%s WHERE %s = $1", selectSQL, table.PrimaryKey),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table.Name, strings.Join(columns, ", "), strings.Join(placeholders, ", "), table.PrimaryKey),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			table.Name, strings.Join(assignments, ", "), table.PrimaryKey, len(columns)+1),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Name, table.PrimaryKey),
	}, nil
}

func (s *Store[T]) db() database.DBTX {
	return s.dbCtx.DB()
}

// notFound wraps pgx.ErrNoRows so sqlerr.HandleError can name the table.
func (s *Store[T]) notFound(id int64) error {
	return fmt.Errorf("%s%s: id %d: %w", sqlerr.TablePrefix, s.table.Name, id, pgx.ErrNoRows)
}

func (s *Store[T]) Add(ctx context.Context, entity *T) (*T, error) {
	values := s.mapping.Values(entity)
	if err := s.table.Validate(values); err != nil {
		return nil, err
	}

	// Only the key comes back, so scan into the first field target.
	key := s.mapping.Fields(entity)[0]
	if err := s.db().QueryRow(ctx, s.insertSQL, values...).Scan(key); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", s.table.Name, err)
	}

	return entity, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	entity := new(T)

	err := s.db().QueryRow(ctx, s.getSQL, id).Scan(s.mapping.Fields(entity)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.notFound(id)
		}
		return nil, fmt.Errorf("get %s by id %d: %w", s.table.Name, id, err)
	}

	return entity, nil
}

func (s *Store[T]) All(ctx context.Context) iter.Seq2[*T, error] {
	return s.query(ctx, s.selectSQL)
}

func (s *Store[T]) query(ctx context.Context, sql string, args ...any) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := s.db().Query(ctx, sql, args...)
		if err != nil {
			yield(nil, fmt.Errorf("query %s: %w", s.table.Name, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			entity := new(T)
			if err := rows.Scan(s.mapping.Fields(entity)...); err != nil {
				yield(nil, fmt.Errorf("scan %s: %w", s.table.Name, err))
				return
			}
			if !yield(entity, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("query %s: %w", s.table.Name, err))
		}
	}
}

func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	return collect(s.All(ctx))
}

func (s *Store[T]) Update(ctx context.Context, entity *T) (*T, error) {
	values := s.mapping.Values(entity)
	if err := s.table.Validate(values); err != nil {
		return nil, err
	}

	id := s.mapping.Key(entity)
	tag, err := s.db().Exec(ctx, s.updateSQL, append(values, id)...)
	if err != nil {
		return nil, fmt.Errorf("update %s id %d: %w", s.table.Name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, s.notFound(id)
	}

	return entity, nil
}

func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	tag, err := s.db().Exec(ctx, s.deleteSQL, id)
	if err != nil {
		return fmt.Errorf("delete %s id %d: %w", s.table.Name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return s.notFound(id)
	}
	return nil
}

// collect drains seq, stopping at the first error.
func collect[T any](seq iter.Seq2[*T, error]) ([]T, error) {
	items := []T{}
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}
