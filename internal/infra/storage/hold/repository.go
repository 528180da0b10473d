package hold

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

// Repository репозиторий временных hold (они же записи саги оплаты)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория hold
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var holdColumns = []string{
	"id",
	"order_id",
	"unit_id",
	"holder_user_id",
	"holder_name",
	"customer_kind",
	"customer_id",
	"start_time",
	"duration_hours",
	"quoted_price",
	"state",
	"amends_booking_id",
	"committed_booking_id",
	"capture_attempts",
	"expires_at",
	"created_at",
	"updated_at",
}

// Create создает новый hold
// Вызывается только внутри сериализуемой транзакции после проверки пересечений
func (r *Repository) Create(ctx context.Context, h *domain.TemporaryHold) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holds").
		Columns(
			"id",
			"order_id",
			"unit_id",
			"holder_user_id",
			"holder_name",
			"customer_kind",
			"customer_id",
			"start_time",
			"duration_hours",
			"quoted_price",
			"state",
			"amends_booking_id",
			"capture_attempts",
			"expires_at",
		).
		Values(
			h.ID,
			h.OrderID,
			h.UnitID,
			h.HolderUserID,
			h.HolderName,
			h.Customer.Kind,
			h.Customer.ID,
			h.StartTime,
			h.DurationHours,
			h.QuotedPrice,
			h.State,
			h.AmendsBookingID,
			h.CaptureAttempts,
			h.ExpiresAt,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return h, nil
}

// GetByID получает hold по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.TemporaryHold, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByOrderID получает hold по order id платежного шлюза
// В транзакции добавляет FOR UPDATE: подтверждение оплаты и фоновая очистка
// не должны обрабатывать одну и ту же запись одновременно
func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.TemporaryHold, error) {
	return r.getOne(ctx, squirrel.Eq{"order_id": orderID}, "GetByOrderID")
}

func (r *Repository) getOne(ctx context.Context, pred interface{}, op string) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where(pred)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	h, err := r.scanHold(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan hold: %v", ErrScanRow, op, err)
	}

	return h, nil
}

// GetBlockingInWindow получает неистекшие hold в блокирующих состояниях,
// пересекающие окно на указанном юните
// В транзакции добавляет FOR UPDATE (см. GetLiveInWindow у бронирований)
func (r *Repository) GetBlockingInWindow(ctx context.Context, unitID string, window timeslot.Window, now time.Time) ([]*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blockingStates := make([]string, len(domain.BlockingHoldStates))
	for i, s := range domain.BlockingHoldStates {
		blockingStates[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("holds").
		Where(squirrel.Eq{"unit_id": unitID}).
		Where(squirrel.Eq{"state": blockingStates}).
		Where(squirrel.Gt{"expires_at": now}).
		Where(squirrel.Lt{"start_time": window.End}).
		Where(squirrel.Expr("start_time + (duration_hours || ' hours')::interval > ?", window.Start)).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanHolds(rows)
}

// UpdateState обновляет состояние саги
func (r *Repository) UpdateState(ctx context.Context, id string, state domain.HoldState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "UpdateState")
}

// MarkCommitted фиксирует результат саги: состояние committed и ссылка на
// созданное (или исправленное) бронирование для идемпотентных повторов
func (r *Repository) MarkCommitted(ctx context.Context, id string, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("state", domain.HoldCommitted).
		Set("committed_booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCommitted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "MarkCommitted")
}

// IncrementCaptureAttempts увеличивает счетчик неудачных capture
func (r *Repository) IncrementCaptureAttempts(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("capture_attempts", squirrel.Expr("capture_attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementCaptureAttempts - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "IncrementCaptureAttempts")
}

// Delete удаляет hold (замена при повторном входе в сагу)
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holds").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "Delete")
}

// DeleteExpired удаляет истекшие незакоммиченные hold, освобождая слоты
// Возвращает количество удаленных записей
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blockingStates := make([]string, len(domain.BlockingHoldStates))
	for i, s := range domain.BlockingHoldStates {
		blockingStates[i] = string(s)
	}

	query, args, err := psqlbuilder.Delete("holds").
		Where(squirrel.Eq{"state": blockingStates}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrHoldNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanHold(row rowScanner) (*domain.TemporaryHold, error) {
	var h domain.TemporaryHold
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.OrderID,
		&h.UnitID,
		&h.HolderUserID,
		&h.HolderName,
		&h.Customer.Kind,
		&h.Customer.ID,
		&h.StartTime,
		&h.DurationHours,
		&h.QuotedPrice,
		&h.State,
		&h.AmendsBookingID,
		&h.CommittedBookingID,
		&h.CaptureAttempts,
		&h.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func (r *Repository) scanHolds(rows *sql.Rows) ([]*domain.TemporaryHold, error) {
	holds := make([]*domain.TemporaryHold, 0)

	for rows.Next() {
		h, err := r.scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
