package parser

import (
	"strings"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
)

// Фраза из формы, которой ментор отмечает день без доступности
const (
	UnavailablePhrase        = "*não estou disponível nesse dia*"
	compactUnavailablePhrase = "*nãoestoudisponívelnessedia*"
)

// Полночь в таблице пишут как "24h", храним её как 23:59 того же дня
const (
	midnightToken    = "24h"
	endOfDayToken    = "23h59"
	rangeSeparator   = "-"
	entriesSeparator = ","
)

// ParseDay разбирает ячейку доступности одного дня в упорядоченный набор слотов.
// Пустая ячейка и ячейка с фразой недоступности дают пустой результат.
func ParseDay(day time.Time, cell string) ([]model.Slot, error) {
	text := normalizeAvailability(cell)

	var slots []model.Slot
	for _, token := range strings.Split(text, entriesSeparator) {
		if token == "" || token == compactUnavailablePhrase {
			continue
		}

		slot, err := parseRange(day, token)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return model.UniqueSlots(slots), nil
}

// normalizeAvailability убирает фразу недоступности и пробелы, переводит 24h в 23h59
func normalizeAvailability(cell string) string {
	text := strings.ReplaceAll(cell, UnavailablePhrase, "")
	text = strings.Join(strings.Fields(text), "")
	text = strings.ReplaceAll(text, compactUnavailablePhrase, "")
	return strings.ReplaceAll(text, midnightToken, endOfDayToken)
}

// parseRange "9h-11h" -> [09:00, 11:00], "9h" -> [09:00, 09:00]
func parseRange(day time.Time, token string) (model.Slot, error) {
	parts := strings.Split(token, rangeSeparator)
	if len(parts) > 2 {
		return model.Slot{}, &model.ParseError{Token: token, Err: model.ErrInvalidRange}
	}

	from, err := model.ParseSlotTime(day, parts[0])
	if err != nil {
		return model.Slot{}, err
	}

	to := from
	if len(parts) == 2 {
		to, err = model.ParseSlotTime(day, parts[1])
		if err != nil {
			return model.Slot{}, err
		}
	}

	return model.NewSlot(from, to)
}
