package database

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Result reports the outcome of an insert or update.
type Result struct {
	Success  bool
	Affected int64
}

// Querier is the data access contract used by repositories. Queries use
// named binds (`:user_id`) and arg is a map[string]any or a db-tagged struct.
type Querier interface {
	Select(ctx context.Context, query string, arg any) ([]Row, error)
	SelectInto(ctx context.Context, dest any, query string, arg any) error
	Insert(ctx context.Context, query string, arg any) (Result, error)
	Update(ctx context.Context, query string, arg any) (Result, error)
}

// DataAccess executes parameterized statements on a connection acquired
// from the pool for the duration of a single call.
type DataAccess struct {
	db *sqlx.DB
}

func NewDataAccess(db *sqlx.DB) *DataAccess { return &DataAccess{db: db} }

func (d *DataAccess) Select(ctx context.Context, query string, arg any) ([]Row, error) {
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, apperr.DataAccess("acquire connection", err)
	}
	defer conn.Close()

	q, args, err := d.bind(query, arg)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.DataAccess("select failed", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		m := map[string]any{}
		if err := rows.MapScan(m); err != nil {
			return nil, apperr.DataAccess("scan row", err)
		}
		out = append(out, normalize(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("select failed", err)
	}
	return out, nil
}

// SelectInto scans all rows into dest, which must be a pointer to a slice.
func (d *DataAccess) SelectInto(ctx context.Context, dest any, query string, arg any) error {
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return apperr.DataAccess("acquire connection", err)
	}
	defer conn.Close()

	q, args, err := d.bind(query, arg)
	if err != nil {
		return err
	}
	if err := conn.SelectContext(ctx, dest, q, args...); err != nil {
		return apperr.DataAccess("select failed", err)
	}
	return nil
}

func (d *DataAccess) Insert(ctx context.Context, query string, arg any) (Result, error) {
	return d.exec(ctx, "insert failed", query, arg)
}

func (d *DataAccess) Update(ctx context.Context, query string, arg any) (Result, error) {
	return d.exec(ctx, "update failed", query, arg)
}

func (d *DataAccess) exec(ctx context.Context, failMsg, query string, arg any) (Result, error) {
	conn, err := d.db.Connx(ctx)
	if err != nil {
		return Result{}, apperr.DataAccess("acquire connection", err)
	}
	defer conn.Close()

	q, args, err := d.bind(query, arg)
	if err != nil {
		return Result{}, err
	}
	res, err := conn.ExecContext(ctx, q, args...)
	if err != nil {
		return Result{}, apperr.DataAccess(failMsg, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{}, apperr.DataAccess(failMsg, err)
	}
	return Result{Success: true, Affected: n}, nil
}

// bind expands named parameters and rebinds to the driver placeholder style.
func (d *DataAccess) bind(query string, arg any) (string, []any, error) {
	if query == "" {
		return "", nil, apperr.DataAccess("invalid query", errors.New("empty statement"))
	}
	if arg == nil {
		return query, nil, nil
	}
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, apperr.DataAccess("invalid binds", err)
	}
	return d.db.Rebind(q), args, nil
}

// normalize turns driver byte slices into strings so rows encode as JSON text.
func normalize(m map[string]any) Row {
	for k, v := range m {
		switch t := v.(type) {
		case []byte:
			m[k] = string(t)
		case time.Time:
			m[k] = t.UTC()
		}
	}
	return Row(m)
}
