package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soundroom/SRS-BookingEngine/internal/domain"
	"github.com/soundroom/SRS-BookingEngine/pkg/timeslot"
)

// Service движок доступности слотов
// Все проверки выполняются поверх авторитетных записей (бронирования + hold);
// результат чтения никогда не переживает транзакцию, в которой оно сделано
type Service struct {
	bookingRepo  BookingRepository
	holdRepo     HoldRepository
	unitRepo     UnitRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр движка доступности
func NewService(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	unitRepo UnitRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		holdRepo:     holdRepo,
		unitRepo:     unitRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetOccupiedSlots возвращает занятые слоты юнита в окне: живые бронирования
// и неистекшие hold, спроецированные в маскированную читательскую модель
func (s *Service) GetOccupiedSlots(ctx context.Context, unitID string, window timeslot.Window, viewer Viewer) ([]domain.OccupiedSlot, error) {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.GetLiveInWindow(ctx, unitID, window)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - bookings: %v", ErrInternal, err)
	}

	holds, err := s.holdRepo.GetBlockingInWindow(ctx, unitID, window, now)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - holds: %v", ErrInternal, err)
	}

	slots := make([]domain.OccupiedSlot, 0, len(bookings)+len(holds))
	for _, b := range bookings {
		if !b.IsLive(now) {
			continue
		}
		slots = append(slots, domain.OccupiedSlot{
			MaskedName:    maskName(b.HolderName, b.HolderUserID, viewer),
			StartTime:     b.StartTime,
			DurationHours: b.DurationHours,
			Confirmed:     b.Status == domain.StatusConfirmed,
		})
	}
	for _, h := range holds {
		if !h.BlocksSlot(now) {
			continue
		}
		slots = append(slots, domain.OccupiedSlot{
			MaskedName:    maskName(h.HolderName, h.HolderUserID, viewer),
			StartTime:     h.StartTime,
			DurationHours: h.DurationHours,
			Confirmed:     false,
		})
	}

	return slots, nil
}

// ValidateSlot проверяет допустимость интервала [start, start+hours) на юните
// Конфликтом считается любое пересечение, не только вложение; касание границ
// пересечением не является
//
// Вызов внутри сериализуемой транзакции блокирует конфликтующие записи
// (FOR UPDATE в репозиториях) - это та самая однописательная секция,
// которая не дает двум конкурентным запросам занять один час
func (s *Service) ValidateSlot(ctx context.Context, unitID string, start time.Time, hours int, exclude Exclusions) error {
	unit, err := s.getActiveUnit(ctx, unitID)
	if err != nil {
		return err
	}

	requested, err := timeslot.NewRange(start, hours)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !unit.AllowsDuration(hours) {
		return fmt.Errorf("%w: duration %d is outside [%d, %d]",
			ErrInvalidDuration, hours, domain.MinBookingHours, unit.MaxBookingHours)
	}

	now := s.timeProvider.Now()
	if requested.Start.Before(timeslot.TruncateHour(now)) {
		return ErrSlotInPast
	}

	if !unit.WithinHorizon(requested) {
		return ErrOutsideHorizon
	}

	window := timeslot.Window{Start: requested.Start, End: requested.End()}

	bookings, err := s.bookingRepo.GetLiveInWindow(ctx, unitID, window)
	if err != nil {
		return fmt.Errorf("%w: ValidateSlot - bookings: %v", ErrInternal, err)
	}
	for _, b := range bookings {
		if exclude.BookingID != nil && b.ID == *exclude.BookingID {
			continue
		}
		if b.IsLive(now) && b.Range().Overlaps(requested) {
			return ErrSlotNotAvailable
		}
	}

	holds, err := s.holdRepo.GetBlockingInWindow(ctx, unitID, window, now)
	if err != nil {
		return fmt.Errorf("%w: ValidateSlot - holds: %v", ErrInternal, err)
	}
	for _, h := range holds {
		if exclude.HoldID != nil && h.ID == *exclude.HoldID {
			continue
		}
		if h.BlocksSlot(now) && h.Range().Overlaps(requested) {
			return ErrSlotNotAvailable
		}
	}

	return nil
}

// AvailableExtensionHours возвращает число дополнительных часов, на которое
// бронирование может быть продлено от текущего конца
// Продление только непрерывное: первый занятый час обрывает предложение,
// разрыв не допускается
func (s *Service) AvailableExtensionHours(ctx context.Context, b *domain.Booking) (int, error) {
	unit, err := s.getActiveUnit(ctx, b.UnitID)
	if err != nil {
		return 0, err
	}

	maxAdditional := unit.MaxBookingHours - b.DurationHours
	if maxAdditional <= 0 {
		return 0, nil
	}

	now := s.timeProvider.Now()
	end := b.EndTime()

	// Окно от текущего конца брони до максимально возможного продления
	window := timeslot.Window{
		Start: end,
		End:   end.Add(time.Duration(maxAdditional) * time.Hour),
	}
	if window.End.After(unit.HorizonEnd) {
		window.End = unit.HorizonEnd
	}
	if !window.Start.Before(window.End) {
		return 0, nil
	}

	bookings, err := s.bookingRepo.GetLiveInWindow(ctx, b.UnitID, window)
	if err != nil {
		return 0, fmt.Errorf("%w: AvailableExtensionHours - bookings: %v", ErrInternal, err)
	}
	holds, err := s.holdRepo.GetBlockingInWindow(ctx, b.UnitID, window, now)
	if err != nil {
		return 0, fmt.Errorf("%w: AvailableExtensionHours - holds: %v", ErrInternal, err)
	}

	occupied := make([]timeslot.Range, 0, len(bookings)+len(holds))
	for _, other := range bookings {
		if other.ID == b.ID || !other.IsLive(now) {
			continue
		}
		occupied = append(occupied, other.Range())
	}
	for _, h := range holds {
		if !h.BlocksSlot(now) {
			continue
		}
		occupied = append(occupied, h.Range())
	}

	// Каждый дополнительный час должен быть свободен индивидуально
	available := 0
	for hour := 0; hour < timeslot.HoursBetween(window.Start, window.End); hour++ {
		candidate := timeslot.Range{Start: end.Add(time.Duration(hour) * time.Hour), Hours: 1}
		blocked := false
		for _, r := range occupied {
			if r.Overlaps(candidate) {
				blocked = true
				break
			}
		}
		if blocked {
			break
		}
		available++
	}

	return available, nil
}

func (s *Service) getActiveUnit(ctx context.Context, unitID string) (*domain.Unit, error) {
	if unitID == "" {
		return nil, fmt.Errorf("%w: unitID is required", ErrInvalidInput)
	}

	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, ErrUnitNotFound
	}
	if !unit.Active {
		return nil, ErrUnitNotFound
	}

	return unit, nil
}

// maskName маскирует имя держателя брони для посторонних читателей:
// первая руна сохраняется, остальные заменяются звездочками
func maskName(name string, holderUserID int64, viewer Viewer) string {
	if viewer.Staff || viewer.UserID == holderUserID {
		return name
	}

	runes := []rune(name)
	if len(runes) <= 1 {
		return name
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
