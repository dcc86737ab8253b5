package find_alternative_dates

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request запрос на поиск альтернативных дат для того же интервала времени
type Request struct {
	Date           time.Time // Исходная (отклоненная) дата
	StartTime      string    // HH:MM
	EndTime        string    // HH:MM
	MaxSuggestions int       // 0 = значение по умолчанию
}

// Response найденные даты в хронологическом порядке
type Response struct {
	Date         time.Time
	StartTime    string
	EndTime      string
	Alternatives []domain.AlternativeDate
}

// Options параметры поиска
type Options struct {
	HorizonDays int // Сколько дней после исходной даты просматривать
	Concurrency int // Сколько дней проверяется одновременно
}
