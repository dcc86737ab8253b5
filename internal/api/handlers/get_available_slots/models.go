package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date             string          `json:"date"`
	Closed           bool            `json:"closed"`
	ClosedReason     string          `json:"closedReason,omitempty"`
	TimeSlotInterval int             `json:"timeSlotInterval"`
	MaxCapacity      int             `json:"maxCapacity"`
	AllowOverlapping bool            `json:"allowOverlapping"`
	DurationOptions  []int           `json:"durationOptions"`
	DefaultDuration  int             `json:"defaultDuration"`
	Slots            []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime     string  `json:"startTime"`
	Occupancy     int     `json:"occupancy"`
	MaxCapacity   int     `json:"maxCapacity"`
	OccupancyRate float64 `json:"occupancyRate"`
	Status        string  `json:"status"`
	Available     bool    `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		slots[i] = AvailableSlot{
			StartTime:     slot.StartTime.String(),
			Occupancy:     slot.Occupancy,
			MaxCapacity:   slot.MaxCapacity,
			OccupancyRate: slot.OccupancyRate(),
			Status:        string(slot.Status),
			Available:     slot.Available,
		}
	}

	options := resp.DurationOptions
	if options == nil {
		options = []int{}
	}

	return &AvailableSlotsResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		Closed:           resp.Closed,
		ClosedReason:     resp.ClosedReason,
		TimeSlotInterval: resp.TimeSlotInterval,
		MaxCapacity:      resp.MaxCapacity,
		AllowOverlapping: resp.AllowOverlapping,
		DurationOptions:  options,
		DefaultDuration:  resp.DefaultDuration,
		Slots:            slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{Date: date}, nil
}
