package bloodrequest

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

const reqCols = `id, hospital_name, blood_group, units_needed, urgency, lat, lng, address,
	contact_phone, status, patient_name, relationship, is_thalassemia_patient,
	requested_by, fulfilled_by, created_at, updated_at`

func scanReq(row pgx.Row) (*BloodRequest, error) {
	var br BloodRequest
	err := row.Scan(&br.ID, &br.HospitalName, &br.BloodGroup, &br.UnitsNeeded, &br.Urgency,
		&br.Lat, &br.Lng, &br.Address,
		&br.ContactPhone, &br.Status, &br.PatientName, &br.Relationship, &br.IsThalassemiaPatient,
		&br.RequestedBy, &br.FulfilledBy, &br.CreatedAt, &br.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("blood request")
	}
	return &br, err
}

func (r *repoPG) Create(ctx context.Context, br *BloodRequest) error {
	br.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_requests (id, hospital_name, blood_group, units_needed, urgency, lat, lng, address,
			contact_phone, status, patient_name, relationship, is_thalassemia_patient, requested_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		br.ID, br.HospitalName, br.BloodGroup, br.UnitsNeeded, br.Urgency, br.Lat, br.Lng, br.Address,
		br.ContactPhone, br.Status, br.PatientName, br.Relationship, br.IsThalassemiaPatient, br.RequestedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error) {
	return scanReq(r.conn(ctx).QueryRow(ctx, `SELECT `+reqCols+` FROM blood_requests WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, br *BloodRequest) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_requests SET units_needed=$2, urgency=$3, address=$4, contact_phone=$5,
			patient_name=$6, status=$7, fulfilled_by=$8, updated_at=NOW()
		WHERE id = $1`,
		br.ID, br.UnitsNeeded, br.Urgency, br.Address, br.ContactPhone,
		br.PatientName, br.Status, br.FulfilledBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blood request")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM blood_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("blood request")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*BloodRequest, int, error) {
	query := `SELECT ` + reqCols + ` FROM blood_requests WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM blood_requests WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.BloodGroup != "" {
		query += fmt.Sprintf(` AND blood_group = $%d`, idx)
		countQuery += fmt.Sprintf(` AND blood_group = $%d`, idx)
		args = append(args, filter.BloodGroup)
		idx++
	}
	if filter.Urgency != "" {
		query += fmt.Sprintf(` AND urgency = $%d`, idx)
		countQuery += fmt.Sprintf(` AND urgency = $%d`, idx)
		args = append(args, filter.Urgency)
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
	var items []*BloodRequest
	for rows.Next() {
		br, err := scanReq(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, br)
	}
	return items, total, nil
}
