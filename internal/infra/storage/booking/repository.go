package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/pkg/dbmetrics"
	"github.com/soundroom/SRS-BookingEngine/pkg/psqlbuilder"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"unit_id",
	"holder_user_id",
	"holder_name",
	"customer_kind",
	"customer_id",
	"start_time",
	"duration_hours",
	"status",
	"confirmed_at",
	"canceled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
// Проверка доступности слота и вставка должны выполняться в одной
// сериализуемой транзакции (txmanager.DoSerializable), иначе возможна гонка
// двух конкурентных запросов на один и тот же час
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"unit_id",
			"holder_user_id",
			"holder_name",
			"customer_kind",
			"customer_id",
			"start_time",
			"duration_hours",
			"status",
			"confirmed_at",
		).
		Values(
			b.UnitID,
			b.HolderUserID,
			b.HolderName,
			b.Customer.Kind,
			b.Customer.ID,
			b.StartTime,
			b.DurationHours,
			b.Status,
			b.ConfirmedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetLiveInWindow получает бронирования в "живых" статусах, пересекающие окно
// [window.Start, window.End) на указанном юните
// В транзакции добавляет FOR UPDATE - это блокировка интервального окна юнита,
// на которой держится проверка пересечений при создании/продлении
func (r *Repository) GetLiveInWindow(ctx context.Context, unitID string, window timeslot.Window) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	liveStatuses := make([]string, len(domain.LiveStatuses))
	for i, s := range domain.LiveStatuses {
		liveStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"unit_id": unitID}).
		Where(squirrel.Eq{"status": liveStatuses}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Expr("start_time + (duration_hours || ' hours')::interval > ?", window.Start)).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLiveInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLiveInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByHolder получает бронирования пользователя, отсортированные от новых к старым
func (r *Repository) GetByHolder(ctx context.Context, holderUserID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"holder_user_id": holderUserID}).
		OrderBy("start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHolder - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHolder - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Confirm переводит бронирование в confirmed с отметкой времени подтверждения
func (r *Repository) Confirm(ctx context.Context, id int64, confirmedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("confirmed_at", confirmedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "Confirm")
}

// Cancel переводит бронирование в canceled с отметкой времени отмены
func (r *Repository) Cancel(ctx context.Context, id int64, canceledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCanceled).
		Set("canceled_at", canceledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "Cancel")
}

// UpdateSchedule обновляет время начала и/или длительность бронирования
// Вызывается только внутри сериализуемой транзакции после повторной проверки
// пересечений (бронирование исключается из собственной проверки)
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, startTime time.Time, durationHours int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("start_time", startTime).
		Set("duration_hours", durationHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "UpdateSchedule")
}

// TransferCustomer переводит заказчика бронирования на группу
// Перевод односторонний: обратно на индивидуального заказчика не переводим
func (r *Repository) TransferCustomer(ctx context.Context, id int64, customer domain.IdentityRef) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("customer_kind", customer.Kind).
		Set("customer_id", customer.ID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransferCustomer - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "TransferCustomer")
}

// MarkOverdueBefore переводит pending бронирования с начавшимся временем в overdue
// Возвращает количество затронутых записей
// Слот освобождается, но запись сохраняется для аудита
func (r *Repository) MarkOverdueBefore(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusOverdue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.LtOrEq{"start_time": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkOverdueBefore - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkOverdueBefore - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkOverdueBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// execOne выполняет запрос, ожидающий ровно одну затронутую строку
func (r *Repository) execOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.UnitID,
		&b.HolderUserID,
		&b.HolderName,
		&b.Customer.Kind,
		&b.Customer.ID,
		&b.StartTime,
		&b.DurationHours,
		&b.Status,
		&b.ConfirmedAt,
		&b.CanceledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
