package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) CountDonors(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'DONOR'`).Scan(&n)
	return n, err
}

func (r *repoPG) CountOpenRequestsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_requests WHERE status = 'OPEN' AND created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *repoPG) CountFulfilledRequests(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_requests WHERE status = 'FULFILLED'`).Scan(&n)
	return n, err
}

func (r *repoPG) MonthlyFulfilledSince(ctx context.Context, since time.Time) ([]MonthCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, COUNT(*)::int
		FROM blood_requests
		WHERE status = 'FULFILLED' AND created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var buckets []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Year, &mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, mc)
	}
	return buckets, nil
}

func (r *repoPG) InventoryTotalsByBloodType(ctx context.Context) ([]BloodTypeTotal, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT blood_type, COALESCE(SUM(quantity), 0)::int
		FROM blood_inventory
		GROUP BY blood_type
		ORDER BY blood_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var totals []BloodTypeTotal
	for rows.Next() {
		var bt BloodTypeTotal
		if err := rows.Scan(&bt.BloodType, &bt.TotalUnits); err != nil {
			return nil, err
		}
		totals = append(totals, bt)
	}
	return totals, nil
}
