package appointment

import (
	"context"
	"errors"

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

const apptCols = `id, donor_id, donor_name, donor_phone, donor_blood_group,
	hospital_id, hospital_name, hospital_address, hospital_phone,
	blood_group, appointment_date, appointment_time, status, notes, completed_at,
	created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DonorID, &a.DonorName, &a.DonorPhone, &a.DonorBloodGroup,
		&a.HospitalID, &a.HospitalName, &a.HospitalAddress, &a.HospitalPhone,
		&a.BloodGroup, &a.AppointmentDate, &a.AppointmentTime, &a.Status, &a.Notes, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment")
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, donor_id, donor_name, donor_phone, donor_blood_group,
			hospital_id, hospital_name, hospital_address, hospital_phone,
			blood_group, appointment_date, appointment_time, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.DonorID, a.DonorName, a.DonorPhone, a.DonorBloodGroup,
		a.HospitalID, a.HospitalName, a.HospitalAddress, a.HospitalPhone,
		a.BloodGroup, a.AppointmentDate, a.AppointmentTime, a.Status, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET appointment_date=$2, appointment_time=$3, status=$4, notes=$5,
			completed_at=$6, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.AppointmentDate, a.AppointmentTime, a.Status, a.Notes, a.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *repoPG) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE donor_id = $1`, donorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE donor_id = $1 ORDER BY appointment_date DESC LIMIT $2 OFFSET $3`,
		donorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
