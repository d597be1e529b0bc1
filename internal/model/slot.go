package model

import (
	"regexp"
	"slices"
	"strconv"
	"time"
)

// Slot закрытый интервал доступности ментора в один из дней
type Slot struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// H'h', H'h'MM или H:MM
var slotTimePattern = regexp.MustCompile(`^(\d{1,2})(?:h(\d{2})?|:(\d{2}))$`)

// NewSlot создаёт слот, проверяя что from <= to
func NewSlot(from, to time.Time) (Slot, error) {
	if from.After(to) {
		return Slot{}, &ParseError{
			Token: from.Format("15:04") + "-" + to.Format("15:04"),
			Err:   ErrInvalidRange,
		}
	}
	return Slot{From: from, To: to}, nil
}

// ParseSlotTime разбирает время вида "9h30" или "14h" и привязывает его к дню
func ParseSlotTime(day time.Time, token string) (time.Time, error) {
	m := slotTimePattern.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, &ParseError{Token: token, Err: ErrInvalidTime}
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	switch {
	case m[2] != "":
		minute, _ = strconv.Atoi(m[2])
	case m[3] != "":
		minute, _ = strconv.Atoi(m[3])
	}

	if hour > 23 || minute > 59 {
		return time.Time{}, &ParseError{Token: token, Err: ErrInvalidTime}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// Compare задаёт порядок слотов: сначала по From, затем по To
func (s Slot) Compare(other Slot) int {
	if c := s.From.Compare(other.From); c != 0 {
		return c
	}
	return s.To.Compare(other.To)
}

// Equal структурное равенство
func (s Slot) Equal(other Slot) bool {
	return s.Compare(other) == 0
}

// IsInstant слот без длительности (одиночное время в ячейке)
func (s Slot) IsInstant() bool {
	return s.From.Equal(s.To)
}

// Duration длительность слота
func (s Slot) Duration() time.Duration {
	return s.To.Sub(s.From)
}

// UniqueSlots сортирует слоты и убирает структурные дубликаты, исходный срез не меняется
func UniqueSlots(slots []Slot) []Slot {
	out := slices.Clone(slots)
	slices.SortFunc(out, Slot.Compare)
	return slices.CompactFunc(out, Slot.Equal)
}
