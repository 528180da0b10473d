package unit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/pkg/dbmetrics"
	"github.com/soundroom/SRS-BookingEngine/pkg/psqlbuilder"
)

// Repository репозиторий для работы с юнитами (помещениями)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория юнитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var unitColumns = []string{
	"id",
	"name",
	"hourly_rate",
	"max_booking_hours",
	"horizon_start",
	"horizon_end",
	"active",
	"created_at",
	"updated_at",
}

// GetByID получает юнит по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("units").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var u domain.Unit
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.HourlyRate,
		&u.MaxBookingHours,
		&u.HorizonStart,
		&u.HorizonEnd,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan unit: %v", ErrScanRow, err)
	}

	return &u, nil
}

// List возвращает все активные юниты
func (r *Repository) List(ctx context.Context) ([]*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(unitColumns...).
		From("units").
		Where(squirrel.Eq{"active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	units := make([]*domain.Unit, 0)
	for rows.Next() {
		var u domain.Unit
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.HourlyRate,
			&u.MaxBookingHours,
			&u.HorizonStart,
			&u.HorizonEnd,
			&u.Active,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		units = append(units, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return units, nil
}
