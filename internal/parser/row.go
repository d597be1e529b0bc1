package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
)

// Колонки таблицы менторов
const (
	ColumnName = iota
	ColumnEmail
	ColumnSkills
	ColumnFirstDay
	ColumnSecondDay
	ColumnThirdDay
)

// IngestionDays три дня мероприятия, по одной колонке доступности на каждый
var IngestionDays = [3]time.Time{
	time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC),
	time.Date(2021, 10, 23, 0, 0, 0, 0, time.UTC),
	time.Date(2021, 10, 24, 0, 0, 0, 0, time.UTC),
}

var skillSeparators = strings.NewReplacer("\r\n", ",", "\n", ",", "\r", ",", "/", ",")

// NormalizeRow строит ментора из ячеек строки.
// Ошибка разбора любого дня отбрасывает всю строку.
func NormalizeRow(cells map[int]string) (model.Mentor, error) {
	name := cells[ColumnName]
	email := cells[ColumnEmail]
	skills := ParseSkills(cells[ColumnSkills])

	var slots []model.Slot
	for i, day := range IngestionDays {
		col := ColumnFirstDay + i
		daySlots, err := ParseDay(day, cells[col])
		if err != nil {
			return model.Mentor{}, fmt.Errorf("column %d (%s): %w", col, day.Format("2006-01-02"), err)
		}
		slots = append(slots, daySlots...)
	}

	return model.NewMentor(name, email, skills, slots), nil
}

// ParseSkills "Java/Go\nRust, C++" -> Java, Go, Rust, C++
func ParseSkills(cell string) []model.Skill {
	var skills []model.Skill
	for _, piece := range strings.Split(skillSeparators.Replace(cell), ",") {
		skill := model.NewSkill(piece)
		if skill.Name == "" {
			continue
		}
		skills = append(skills, skill)
	}
	return skills
}
