package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindByIDAndToken(ctx context.Context, id int64, token string) (*domain.Booking, error)
	CountActive(ctx context.Context, date, timeOfDay, clinicEmail string) (int, error)
	MarkCancelled(ctx context.Context, id int64, token string) (bool, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	CountsBySlot(ctx context.Context) (map[string]int, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, cancel_token, status,
date, time, timezone, service,
name, email, phone, notes,
clinic_name, clinic_email, clinic_phone, clinic_address, website_url,
created_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID, &b.CancelToken, &b.Status,
		&b.Date, &b.Time, &b.Timezone, &b.Service,
		&b.Name, &b.Email, &b.Phone, &b.Notes,
		&b.ClinicName, &b.ClinicEmail, &b.ClinicPhone, &b.ClinicAddress, &b.WebsiteURL,
		&b.CreatedAt,
	)
}

func (r *bookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	const q = `INSERT INTO bookings (
		id, cancel_token, status,
		date, time, timezone, service,
		name, email, phone, notes,
		clinic_name, clinic_email, clinic_phone, clinic_address, website_url,
		created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q,
		b.ID, b.CancelToken, b.Status,
		b.Date, b.Time, b.Timezone, b.Service,
		b.Name, b.Email, b.Phone, b.Notes,
		b.ClinicName, b.ClinicEmail, b.ClinicPhone, b.ClinicAddress, b.WebsiteURL,
		b.CreatedAt,
	)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id), &b)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepository) FindByIDAndToken(ctx context.Context, id int64, token string) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
		WHERE id=$1 AND cancel_token=$2 AND status != 'cancelled'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id, token), &b)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepository) CountActive(ctx context.Context, date, timeOfDay, clinicEmail string) (int, error) {
	const q = `SELECT count(*) FROM bookings
		WHERE date=$1 AND time=$2 AND lower(clinic_email)=lower($3)
		AND status NOT IN ('cancelled','no-show')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	err := r.pool.QueryRow(ctx, q, date, timeOfDay, clinicEmail).Scan(&count)
	return count, err
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, id int64, token string) (bool, error) {
	const q = `UPDATE bookings SET status='cancelled'
		WHERE id=$1 AND cancel_token=$2 AND status != 'cancelled'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, token)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountsBySlot(ctx context.Context) (map[string]int, error) {
	// Cancelled and no-show bookings do not occupy capacity, so they are
	// excluded from the availability aggregate as well.
	const q = `SELECT date, time, count(*) FROM bookings
		WHERE status NOT IN ('cancelled','no-show')
		GROUP BY date, time`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date, timeOfDay string
		var n int
		if err := rows.Scan(&date, &timeOfDay, &n); err != nil {
			return nil, err
		}
		counts[date+"-"+timeOfDay] = n
	}
	return counts, rows.Err()
}
