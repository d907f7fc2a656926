// Package store writes imported rows to PostgreSQL and reads records back
// for exports. Queries are built with squirrel against tables named by the
// catalog.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// ErrInvalidIdentifier is returned for table or column names that are not
// plain lowercase SQL identifiers.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var (
	psql       = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Store runs entity queries.
type Store struct {
	db DBTX
}

// New returns a Store using db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// ListOptions narrows a List query.
type ListOptions struct {
	Columns       []string
	Search        string
	SearchColumns []string
	OrderBy       string
	Limit         uint64
}

// Insert adds one row. values maps column names to pgx-encodable values.
func (s *Store) Insert(ctx context.Context, table string, values map[string]any) error {
	if err := checkIdents(table, values); err != nil {
		return err
	}

	query, args, err := psql.Insert(table).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Upsert inserts a row or, when conflict already holds the same value,
// updates the other supplied columns.
func (s *Store) Upsert(ctx context.Context, table, conflict string, values map[string]any) error {
	if err := checkIdents(table, values); err != nil {
		return err
	}
	if !identRegex.MatchString(conflict) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, conflict)
	}
	if _, ok := values[conflict]; !ok {
		return fmt.Errorf("upsert %s: conflict column %q has no value", table, conflict)
	}

	cols := make([]string, 0, len(values))
	for c := range values {
		if c != conflict {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)

	suffix := fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", conflict)
	if len(cols) > 0 {
		sets := make([]string, len(cols))
		for i, c := range cols {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
		}
		suffix = fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", conflict, strings.Join(sets, ", "))
	}

	query, args, err := psql.Insert(table).SetMap(values).Suffix(suffix).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert %s: %w", table, err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

// List returns the rows of table as column-keyed maps, ready for export.
// Dates become YYYY-MM-DD strings and numerics become float64.
func (s *Store) List(ctx context.Context, table string, opts ListOptions) ([]map[string]any, error) {
	if !identRegex.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	for _, c := range append(append([]string{}, opts.Columns...), opts.SearchColumns...) {
		if !identRegex.MatchString(c) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, c)
		}
	}

	cols := opts.Columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	q := psql.Select(cols...).From(table)

	if term := strings.TrimSpace(opts.Search); term != "" && len(opts.SearchColumns) > 0 {
		or := sq.Or{}
		for _, c := range opts.SearchColumns {
			or = append(or, sq.ILike{c: "%" + escapeLike(term) + "%"})
		}
		q = q.Where(or)
	}
	if opts.OrderBy != "" {
		if !identRegex.MatchString(opts.OrderBy) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, opts.OrderBy)
		}
		q = q.OrderBy(opts.OrderBy + " ASC")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", table, err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		rec := make(map[string]any, len(fields))
		for i, f := range fields {
			if i < len(vals) {
				rec[f.Name] = plainValue(vals[i])
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return out, nil
}

func checkIdents(table string, values map[string]any) error {
	if !identRegex.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	if len(values) == 0 {
		return fmt.Errorf("insert %s: no values", table)
	}
	for c := range values {
		if !identRegex.MatchString(c) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, c)
		}
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// plainValue converts driver values to types that read well in exports.
func plainValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	default:
		return v
	}
}
