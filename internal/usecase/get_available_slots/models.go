package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со слотами на день
type Response struct {
	Date             time.Time
	Closed           bool   // День выключен, без часов работы или blackout
	ClosedReason     string // Причина blackout, если есть
	TimeSlotInterval int
	MaxCapacity      int
	AllowOverlapping bool
	DurationOptions  []int // Допустимые длительности для формы
	DefaultDuration  int
	Slots            []domain.SlotAvailability
}
