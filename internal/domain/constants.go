package domain

import "time"

// Booking limits
const (
	MinBookingHours        = 1
	DefaultMaxBookingHours = 4
)

// Door-access windows around a confirmed booking
const (
	// BufferBeforeStart окно до начала брони, в котором открывается доступ
	BufferBeforeStart = 30 * time.Minute

	// DoorAccessAfterEnd окно после конца брони до перехода в complete
	DoorAccessAfterEnd = 15 * time.Minute
)

// Payment saga
const (
	// DefaultHoldTTL должен превышать окно авторизации платежного шлюза,
	// чтобы слот не освободился из-под оплачивающего пользователя
	DefaultHoldTTL = 30 * time.Minute

	// MaxCaptureAttempts после неудачного capture допускается один повтор
	MaxCaptureAttempts = 2
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// LiveStatuses статусы, занимающие слот при проверке пересечений
var LiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// BlockingHoldStates состояния hold, занимающие слот при проверке пересечений
var BlockingHoldStates = []HoldState{
	HoldHolding,
	HoldAwaitingGateway,
	HoldSettling,
}
