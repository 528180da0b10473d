package check_price

import (
	"time"

	checkPrice "github.com/soundroom/SRS-BookingEngine/internal/usecase/check_price"
)

// CheckPriceRequest HTTP request model
type CheckPriceRequest struct {
	UnitID           string `json:"unitId"`
	TimeFrom         string `json:"timeFrom"` // RFC3339
	DesiredHours     int    `json:"desiredHours"`
	AdditionalHours  *int   `json:"additionalHours,omitempty"`
	ExcludeBookingID *int64 `json:"excludeBookingId,omitempty"`
}

// CheckPriceResponse HTTP response model
type CheckPriceResponse struct {
	TotalPrice         int64 `json:"totalPrice"`
	MaxAdditionalHours *int  `json:"maxAdditionalHours,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckPriceRequest) ToUseCaseRequest() (*checkPrice.Request, error) {
	timeFrom, err := time.Parse(time.RFC3339, r.TimeFrom)
	if err != nil {
		return nil, err
	}

	return &checkPrice.Request{
		UnitID:           r.UnitID,
		TimeFrom:         timeFrom,
		DesiredHours:     r.DesiredHours,
		AdditionalHours:  r.AdditionalHours,
		ExcludeBookingID: r.ExcludeBookingID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkPrice.Response) *CheckPriceResponse {
	return &CheckPriceResponse{
		TotalPrice:         resp.TotalPrice,
		MaxAdditionalHours: resp.MaxAdditionalHours,
	}
}
