// Package sqlstore implements store.Client on top of a SQL database
// (Postgres through pgx, or SQLite).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

var _ store.Client = (*Store)(nil)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// uuidColumns are validated the way a Postgres uuid column would be.
var uuidColumns = map[string]bool{
	"id":           true,
	"user_id":      true,
	"trip_id":      true,
	"trip_stop_id": true,
	"city_id":      true,
	"activity_id":  true,
}

type Store struct {
	db   *sqlx.DB
	like string
}

func New(db *sqlx.DB) *Store {
	like := "ILIKE"
	if db.DriverName() == "sqlite" {
		// SQLite LIKE is already case-insensitive for ASCII.
		like = "LIKE"
	}

	return &Store{db: db, like: like}
}

func (s *Store) Select(ctx context.Context, q store.Query, dest any) error {
	query, args, err := s.buildSelect(q)
	if err != nil {
		return &store.Error{Op: "select", Table: q.Table, Err: err}
	}

	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return &store.Error{Op: "select", Table: q.Table, Err: err}
	}

	return nil
}

// Insert generates the row id when values carry none, like a database default would.
func (s *Store) Insert(ctx context.Context, table store.Table, values store.Values, dest any) error {
	if err := s.insert(ctx, table, values, dest); err != nil {
		return &store.Error{Op: "insert", Table: table, Err: err}
	}

	return nil
}

func (s *Store) insert(ctx context.Context, table store.Table, values store.Values, dest any) error {
	if len(values) == 0 {
		return errors.New("no values to insert")
	}

	row := make(store.Values, len(values)+1)
	for k, v := range values {
		row[k] = v
	}

	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}

	cols, args, err := columnsAndArgs(row)
	if err != nil {
		return err
	}

	if err := checkIdent(string(table)); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return err
		}

		return getByID(ctx, tx, table, row["id"], dest)
	})
}

func (s *Store) Update(ctx context.Context, table store.Table, id string, values store.Values, dest any) error {
	if err := s.update(ctx, table, id, values, dest); err != nil {
		return &store.Error{Op: "update", Table: table, Err: err}
	}

	return nil
}

func (s *Store) update(ctx context.Context, table store.Table, id string, values store.Values, dest any) error {
	if len(values) == 0 {
		return errors.New("no values to update")
	}

	if err := checkIdent(string(table)); err != nil {
		return err
	}

	key, err := normalize("id", id)
	if err != nil {
		return err
	}

	cols, args, err := columnsAndArgs(values)
	if err != nil {
		return err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	args = append(args, key)

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}

		if n == 0 {
			return store.ErrNoRows
		}

		return getByID(ctx, tx, table, key, dest)
	})
}

func (s *Store) Delete(ctx context.Context, table store.Table, id string, dest any) error {
	if err := s.delete(ctx, table, id, dest); err != nil {
		return &store.Error{Op: "delete", Table: table, Err: err}
	}

	return nil
}

func (s *Store) delete(ctx context.Context, table store.Table, id string, dest any) error {
	if err := checkIdent(string(table)); err != nil {
		return err
	}

	key, err := normalize("id", id)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if dest != nil {
			err := getByID(ctx, tx, table, key, dest)
			if errors.Is(err, store.ErrNoRows) {
				return nil
			}

			if err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, tx.Rebind(query), key)

		return err
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func getByID(ctx context.Context, tx *sqlx.Tx, table store.Table, id, dest any) error {
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table)

	err := tx.GetContext(ctx, dest, tx.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNoRows
	}

	return err
}

func (s *Store) buildSelect(q store.Query) (string, []any, error) {
	if err := checkIdent(string(q.Table)); err != nil {
		return "", nil, err
	}

	var (
		conds []string
		args  []any
	)

	for _, f := range q.Where {
		cond, a, err := s.condition(f)
		if err != nil {
			return "", nil, err
		}

		conds = append(conds, cond)
		args = append(args, a...)
	}

	if len(q.AnyOf) > 0 {
		ors := make([]string, 0, len(q.AnyOf))

		for _, f := range q.AnyOf {
			cond, a, err := s.condition(f)
			if err != nil {
				return "", nil, err
			}

			ors = append(ors, cond)
			args = append(args, a...)
		}

		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	var b strings.Builder

	b.WriteString("SELECT * FROM ")
	b.WriteString(string(q.Table))

	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	if len(q.Order) > 0 {
		terms := make([]string, 0, len(q.Order))

		for _, o := range q.Order {
			if err := checkIdent(o.Column); err != nil {
				return "", nil, err
			}

			terms = append(terms, orderTerm(o))
		}

		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")

		args = append(args, q.Limit)
	}

	query, args, err := sqlx.In(b.String(), args...)
	if err != nil {
		return "", nil, fmt.Errorf("expanding query: %w", err)
	}

	return s.db.Rebind(query), args, nil
}

func (s *Store) condition(f store.Filter) (string, []any, error) {
	if err := checkIdent(f.Column); err != nil {
		return "", nil, err
	}

	switch f.Op {
	case store.OpEq:
		if f.Value == nil {
			return f.Column + " IS NULL", nil, nil
		}

		v, err := normalize(f.Column, f.Value)
		if err != nil {
			return "", nil, err
		}

		return f.Column + " = ?", []any{v}, nil
	case store.OpILike:
		return f.Column + " " + s.like + " ?", []any{f.Value}, nil
	case store.OpIn:
		rv := reflect.ValueOf(f.Value)
		if rv.Kind() != reflect.Slice {
			return "", nil, fmt.Errorf("IN filter on %s needs a slice, got %T", f.Column, f.Value)
		}

		if rv.Len() == 0 {
			return "1 = 0", nil, nil
		}

		vals := make([]any, rv.Len())
		for i := range vals {
			v, err := normalize(f.Column, rv.Index(i).Interface())
			if err != nil {
				return "", nil, err
			}

			vals[i] = v
		}

		return f.Column + " IN (?)", []any{vals}, nil
	}

	return "", nil, fmt.Errorf("unknown filter op %d", f.Op)
}

func orderTerm(o store.Order) string {
	term := o.Column + " ASC"
	if o.Desc {
		term = o.Column + " DESC"
	}

	if o.NullsFirst {
		return term + " NULLS FIRST"
	}

	return term + " NULLS LAST"
}

func columnsAndArgs(values store.Values) ([]string, []any, error) {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}

	slices.Sort(cols)

	args := make([]any, len(cols))

	for i, c := range cols {
		if err := checkIdent(c); err != nil {
			return nil, nil, err
		}

		v, err := normalize(c, values[c])
		if err != nil {
			return nil, nil, err
		}

		args[i] = v
	}

	return cols, args, nil
}

// normalize rejects malformed uuid values and renders valid ones canonically.
func normalize(column string, v any) (any, error) {
	if !uuidColumns[column] {
		return v, nil
	}

	var raw string

	switch t := v.(type) {
	case string:
		raw = t
	case *string:
		if t == nil {
			return nil, nil
		}

		raw = *t
	default:
		return v, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid input syntax for type uuid: %q", raw)
	}

	return id.String(), nil
}

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}

	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
