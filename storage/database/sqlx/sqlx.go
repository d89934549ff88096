// Package sqlxrepos implements the core repositories on PostgreSQL with sqlx.
// Optional predicates are composed with squirrel, never by string concatenation.
package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// nowUTC matches the column defaults.
var nowUTC = sq.Expr("(NOW() AT TIME ZONE 'utc')")

func selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.SelectContext(ctx, dest, q, args...)
}

func getOne(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.GetContext(ctx, dest, q, args...)
}

// insertReturningID runs an INSERT ... RETURNING id.
func insertReturningID(ctx context.Context, exec core.DBExecutor, b sq.InsertBuilder) (int, error) {
	q, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building insert")
	}
	var id int
	err = exec.QueryRowxContext(ctx, q, args...).Scan(&id)
	return id, err
}

// execAffecting runs b and returns notFound when no row was touched.
func execAffecting(ctx context.Context, exec core.DBExecutor, b sq.Sqlizer, notFound error) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building statement")
	}
	res, err := exec.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// trapNoRowsErr maps "no rows" to the domain's not found error.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// inTx runs fn in a transaction, rolling back when it fails.
func inTx(ctx context.Context, db core.DB, fn func(tx core.DBExecutor) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
