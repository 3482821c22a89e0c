package inventory

import (
	"context"
	"errors"
	"fmt"

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

const invCols = `id, hospital_name, hospital_type, city, division, phone, email, is_247,
	blood_type, quantity, expiry_date, status, created_at, updated_at`

func scanInv(row pgx.Row) (*BloodInventory, error) {
	var inv BloodInventory
	err := row.Scan(&inv.ID, &inv.HospitalName, &inv.HospitalType, &inv.City, &inv.Division,
		&inv.Phone, &inv.Email, &inv.Is247,
		&inv.BloodType, &inv.Quantity, &inv.ExpiryDate, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *BloodInventory) error {
	inv.ID = uuid.New()
	inv.Status = DeriveStatus(inv.Quantity)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_inventory (id, hospital_name, hospital_type, city, division, phone, email, is_247,
			blood_type, quantity, expiry_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		inv.ID, inv.HospitalName, inv.HospitalType, inv.City, inv.Division, inv.Phone, inv.Email, inv.Is247,
		inv.BloodType, inv.Quantity, inv.ExpiryDate, inv.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*BloodInventory, error) {
	inv, err := scanInv(r.conn(ctx).QueryRow(ctx, `SELECT `+invCols+` FROM blood_inventory WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("inventory record")
	}
	return inv, err
}

func (r *repoPG) Update(ctx context.Context, inv *BloodInventory) error {
	inv.Status = DeriveStatus(inv.Quantity)
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_inventory SET hospital_type=$2, city=$3, division=$4, phone=$5, email=$6, is_247=$7,
			quantity=$8, expiry_date=$9, status=$10, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.HospitalType, inv.City, inv.Division, inv.Phone, inv.Email, inv.Is247,
		inv.Quantity, inv.ExpiryDate, inv.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("inventory record")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blood_inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("inventory record")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodInventory, int, error) {
	query := `SELECT ` + invCols + ` FROM blood_inventory WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM blood_inventory WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.BloodType != "" {
		query += fmt.Sprintf(` AND blood_type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND blood_type = $%d`, idx)
		args = append(args, filter.BloodType)
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.HospitalName != "" {
		query += fmt.Sprintf(` AND hospital_name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND hospital_name ILIKE $%d`, idx)
		args = append(args, "%"+filter.HospitalName+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY hospital_name ASC, blood_type ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*BloodInventory
	for rows.Next() {
		inv, err := scanInv(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*BloodInventory, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invCols+` FROM blood_inventory ORDER BY hospital_name ASC, blood_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*BloodInventory
	for rows.Next() {
		inv, err := scanInv(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, nil
}

func (r *repoPG) FindByHospitalAndType(ctx context.Context, hospitalName, bloodType string) (*BloodInventory, error) {
	inv, err := scanInv(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invCols+` FROM blood_inventory WHERE hospital_name = $1 AND blood_type = $2 LIMIT 1`,
		hospitalName, bloodType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return inv, err
}

func (r *repoPG) FindAnyByHospital(ctx context.Context, hospitalName string) (*BloodInventory, error) {
	inv, err := scanInv(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invCols+` FROM blood_inventory WHERE hospital_name = $1 LIMIT 1`, hospitalName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return inv, err
}
