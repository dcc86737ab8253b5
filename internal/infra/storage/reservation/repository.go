package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"requester_name",
	"requester_email",
	"reservation_date",
	"start_time",
	"end_time",
	"purpose",
	"attendees",
	"type",
	"notes",
	"status",
	"status_reason",
	"cancelled_by",
	"created_at",
	"updated_at",
}

// StatusUpdate изменение статуса бронирования
type StatusUpdate struct {
	Status      domain.ReservationStatus
	Reason      *string
	CancelledBy *domain.Actor
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if !reservation.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, reservation.Status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"requester_name",
			"requester_email",
			"reservation_date",
			"start_time",
			"end_time",
			"purpose",
			"attendees",
			"type",
			"notes",
			"status",
		).
		Values(
			reservation.RequesterName,
			reservation.RequesterEmail,
			reservation.Date.Format(domain.DateFormat),
			reservation.StartTime,
			reservation.EndTime,
			reservation.Purpose,
			reservation.Attendees,
			reservation.Type,
			reservation.Notes,
			reservation.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до смены статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return reservation, nil
}

// GetByFilter получает бронирования с фильтрацией по дате, статусу и заявителю.
//
// Для конкретной даты сортировка по времени начала, иначе по дате и времени.
// Внутри транзакции выборка на конкретную дату блокируется (FOR UPDATE):
// так создание и подтверждение бронирований на один день выполняются последовательно.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.Before != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"reservation_date": filter.Before.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RequesterEmail != nil {
		selectBuilder = selectBuilder.Where("LOWER(requester_email) = LOWER(?)", strings.TrimSpace(*filter.RequesterEmail))
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC", "start_time ASC", "id ASC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// GetApprovedByDate получает подтвержденные бронирования на дату
func (r *Repository) GetApprovedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	status := domain.StatusApproved
	return r.GetByFilter(ctx, domain.ReservationFilter{Date: &date, Status: &status})
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, update StatusUpdate) error {
	if !update.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, update.Status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", update.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if update.Reason != nil {
		updateBuilder = updateBuilder.Set("status_reason", *update.Reason)
	}
	if update.CancelledBy != nil {
		updateBuilder = updateBuilder.Set("cancelled_by", string(*update.CancelledBy))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var reservation domain.Reservation
	var cancelledBy sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&reservation.ID,
		&reservation.RequesterName,
		&reservation.RequesterEmail,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Purpose,
		&reservation.Attendees,
		&reservation.Type,
		&reservation.Notes,
		&reservation.Status,
		&reservation.StatusReason,
		&cancelledBy,
		&reservation.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy.Valid {
		actor := domain.Actor(cancelledBy.String)
		reservation.CancelledBy = &actor
	}
	if updatedAt.Valid {
		reservation.UpdatedAt = &updatedAt.Time
	}

	return &reservation, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
