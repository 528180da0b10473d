package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Sweeper фоновая очистка: удаляет истекшие незафиксированные hold и
// переводит неподтвержденные бронирования с прошедшим началом в overdue
//
// Очистка молчалива: ни один вызывающий не узнает об освобождении слота
// иначе как через проверку пересечений
type Sweeper struct {
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	holdsExpired Counter
	timeProvider TimeProvider
	logger       Logger

	cron *cron.Cron
}

// NewSweeper создает новый экземпляр фоновой очистки
func NewSweeper(
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	holdsExpired Counter,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		holdRepo:     holdRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		holdsExpired: holdsExpired,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Sweeper) WithTimeProvider(tp TimeProvider) *Sweeper {
	s.timeProvider = tp
	return s
}

// Start запускает очистку по cron-расписанию (например "@every 1m")
func (s *Sweeper) Start(schedule string) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(schedule, func() {
		ctx := context.Background()
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("sweeper: invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Sweeper started with schedule %q", schedule)
	return nil
}

// Stop останавливает очистку и дожидается завершения текущего прохода
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Sweeper stopped")
}

// Sweep выполняет один проход очистки
func (s *Sweeper) Sweep(ctx context.Context) {
	if err := s.ExpireHolds(ctx); err != nil {
		s.logger.Error("Sweeper: failed to expire holds: %v", err)
	}
	if err := s.MarkOverdue(ctx); err != nil {
		s.logger.Error("Sweeper: failed to mark overdue bookings: %v", err)
	}
}

// ExpireHolds удаляет истекшие незафиксированные hold
// Удаление идет в сериализуемой транзакции: конкурентное подтверждение
// оплаты либо увидит hold живым, либо не увидит вовсе - но не посередине
func (s *Sweeper) ExpireHolds(ctx context.Context) error {
	now := s.timeProvider.Now()

	var reclaimed int64
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		n, err := s.holdRepo.DeleteExpired(txCtx, now)
		if err != nil {
			return err
		}
		reclaimed = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweeper: expire holds: %w", err)
	}

	if reclaimed > 0 {
		for i := int64(0); i < reclaimed; i++ {
			s.holdsExpired.Inc()
		}
		s.logger.Info("Sweeper: reclaimed %d expired holds", reclaimed)
	}
	return nil
}

// MarkOverdue переводит неподтвержденные бронирования с прошедшим началом
// в overdue; для чтения они и так уже не занимали слот
func (s *Sweeper) MarkOverdue(ctx context.Context) error {
	now := s.timeProvider.Now()

	marked, err := s.bookingRepo.MarkOverdueBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("sweeper: mark overdue: %w", err)
	}

	if marked > 0 {
		s.logger.Info("Sweeper: marked %d bookings overdue", marked)
	}
	return nil
}
