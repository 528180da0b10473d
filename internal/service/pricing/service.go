package pricing

import (
	"errors"
	"fmt"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
)

var (
	// ErrInvalidDuration возвращается при неположительной длительности
	ErrInvalidDuration = errors.New("pricing: invalid duration")
)

// Calculator калькулятор стоимости бронирования
// Цены в целых единицах валюты, тариф почасовой с тарифом юнита
type Calculator struct{}

// NewCalculator создает новый калькулятор стоимости
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Quote возвращает стоимость бронирования юнита на hours часов
func (c *Calculator) Quote(unit *domain.Unit, hours int) (int64, error) {
	if hours < domain.MinBookingHours {
		return 0, fmt.Errorf("%w: %d hours", ErrInvalidDuration, hours)
	}
	return unit.HourlyRate * int64(hours), nil
}

// IncrementalQuote возвращает доплату за изменение существующего бронирования
// Перенос времени начала сам по себе бесплатен; оплачиваются только
// дополнительные часы
func (c *Calculator) IncrementalQuote(unit *domain.Unit, additionalHours int) (int64, error) {
	if additionalHours < 0 {
		return 0, fmt.Errorf("%w: %d additional hours", ErrInvalidDuration, additionalHours)
	}
	return unit.HourlyRate * int64(additionalHours), nil
}
