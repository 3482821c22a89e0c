package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
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

const userCols = `id, name, email, password_hash, phone, blood_group, dob, district, gender,
	weight_kg, last_donation_date, points, is_available, role, lat, lng, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.BloodGroup,
		&u.DOB, &u.District, &u.Gender,
		&u.WeightKg, &u.LastDonationDate, &u.Points, &u.IsAvailable, &u.Role,
		&u.Lat, &u.Lng, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	return &u, err
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, blood_group, dob, district, gender,
			weight_kg, last_donation_date, points, is_available, role, lat, lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.BloodGroup, u.DOB, u.District, u.Gender,
		u.WeightKg, u.LastDonationDate, u.Points, u.IsAvailable, u.Role, u.Lat, u.Lng)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET name=$2, phone=$3, blood_group=$4, dob=$5, district=$6, gender=$7,
			weight_kg=$8, is_available=$9, lat=$10, lng=$11, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Name, u.Phone, u.BloodGroup, u.DOB, u.District, u.Gender,
		u.WeightKg, u.IsAvailable, u.Lat, u.Lng)
	return err
}

func (r *repoPG) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET is_available=$2, updated_at=NOW() WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *repoPG) CreditDonation(ctx context.Context, id uuid.UUID, points int, donatedAt time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET last_donation_date=$2, points = points + $3, updated_at=NOW()
		WHERE id = $1`, id, donatedAt, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *repoPG) ListDonors(ctx context.Context, filter DonorFilter, limit, offset int) ([]*User, int, error) {
	query := `SELECT ` + userCols + ` FROM users WHERE role = 'DONOR'`
	countQuery := `SELECT COUNT(*) FROM users WHERE role = 'DONOR'`
	var args []interface{}
	idx := 1

	if filter.BloodGroup != "" {
		query += fmt.Sprintf(` AND blood_group = $%d`, idx)
		countQuery += fmt.Sprintf(` AND blood_group = $%d`, idx)
		args = append(args, filter.BloodGroup)
		idx++
	}
	if filter.District != "" {
		query += fmt.Sprintf(` AND district ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND district ILIKE $%d`, idx)
		args = append(args, filter.District)
		idx++
	}
	if filter.Available != nil {
		query += fmt.Sprintf(` AND is_available = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_available = $%d`, idx)
		args = append(args, *filter.Available)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, nil
}

func (r *repoPG) CountDonors(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'DONOR'`).Scan(&total)
	return total, err
}
