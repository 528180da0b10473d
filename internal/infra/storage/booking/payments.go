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
)

// Платежные записи живут рядом с бронированиями: наличный платеж и онлайн
// транзакция ссылаются на booking_id и читаются всегда вместе с бронью

var cashColumns = []string{
	"id",
	"booking_id",
	"price",
	"depositor_name",
	"confirmed_at",
	"refund_requested",
	"refund_account",
	"refund_price",
	"refunded",
	"refunded_at",
	"created_at",
	"updated_at",
}

// CreateCashPayment создает запись наличного платежа для бронирования
func (r *Repository) CreateCashPayment(ctx context.Context, p *domain.CashPaymentStatus) (*domain.CashPaymentStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cash_payments").
		Columns("booking_id", "price", "depositor_name").
		Values(p.BookingID, p.Price, p.DepositorName).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateCashPayment - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateCashPayment - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetCashPaymentByBookingID получает запись наличного платежа по бронированию
func (r *Repository) GetCashPaymentByBookingID(ctx context.Context, bookingID int64) (*domain.CashPaymentStatus, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(cashColumns...).
		From("cash_payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCashPaymentByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.CashPaymentStatus
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BookingID,
		&p.Price,
		&p.DepositorName,
		&p.ConfirmedAt,
		&p.RefundRequested,
		&p.RefundAccount,
		&p.RefundPrice,
		&p.Refunded,
		&p.RefundedAt,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCashPaymentByBookingID - scan payment: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// ConfirmCashPayment отмечает наличный платеж подтвержденным
func (r *Repository) ConfirmCashPayment(ctx context.Context, bookingID int64, confirmedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("cash_payments").
		Set("confirmed_at", confirmedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ConfirmCashPayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOnePayment(ctx, executor, query, args, "ConfirmCashPayment")
}

// RequestCashRefund отмечает запрос возврата наличного платежа
func (r *Repository) RequestCashRefund(ctx context.Context, bookingID int64, refundAccount *string, refundPrice int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("cash_payments").
		Set("refund_requested", true).
		Set("refund_account", refundAccount).
		Set("refund_price", refundPrice).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RequestCashRefund - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOnePayment(ctx, executor, query, args, "RequestCashRefund")
}

// MarkCashRefunded отмечает возврат наличного платежа обработанным
func (r *Repository) MarkCashRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("cash_payments").
		Set("refunded", true).
		Set("refunded_at", refundedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkCashRefunded - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOnePayment(ctx, executor, query, args, "MarkCashRefunded")
}

// CreateOnlinePayment создает запись онлайн транзакции для бронирования
// Вызывается в той же транзакции, что и конвертация hold в бронирование
func (r *Repository) CreateOnlinePayment(ctx context.Context, p *domain.OnlinePaymentTransaction) (*domain.OnlinePaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("online_payments").
		Columns("booking_id", "order_id", "payment_key", "price", "confirmed_at").
		Values(p.BookingID, p.OrderID, p.PaymentKey, p.Price, p.ConfirmedAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOnlinePayment - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOnlinePayment - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time

	return p, nil
}

// GetOnlinePaymentByBookingID получает онлайн транзакцию по бронированию
func (r *Repository) GetOnlinePaymentByBookingID(ctx context.Context, bookingID int64) (*domain.OnlinePaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"order_id",
		"payment_key",
		"price",
		"confirmed_at",
		"refund_price",
		"refunded",
		"refunded_at",
		"created_at",
	).
		From("online_payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOnlinePaymentByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.OnlinePaymentTransaction
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BookingID,
		&p.OrderID,
		&p.PaymentKey,
		&p.Price,
		&p.ConfirmedAt,
		&p.RefundPrice,
		&p.Refunded,
		&p.RefundedAt,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOnlinePaymentByBookingID - scan payment: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time

	return &p, nil
}

// MarkOnlineRefunded отмечает возврат онлайн транзакции обработанным
func (r *Repository) MarkOnlineRefunded(ctx context.Context, bookingID int64, refundPrice int64, refundedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("online_payments").
		Set("refund_price", refundPrice).
		Set("refunded", true).
		Set("refunded_at", refundedAt).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkOnlineRefunded - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOnePayment(ctx, executor, query, args, "MarkOnlineRefunded")
}

func (r *Repository) execOnePayment(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
