package model

import (
	"slices"
	"strings"
	"time"
)

// Mentor ментор, собранный из одной строки таблицы.
// После создания не изменяется: справочник отдаёт только копии.
type Mentor struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Skills []Skill `json:"skills"`
	Slots  []Slot  `json:"slots"`
}

// NewMentor собирает ментора: навыки без точных дубликатов, слоты отсортированы и уникальны
func NewMentor(name, email string, skills []Skill, slots []Slot) Mentor {
	uniqSkills := slices.Clone(skills)
	slices.SortFunc(uniqSkills, func(a, b Skill) int {
		return strings.Compare(a.Name, b.Name)
	})
	uniqSkills = slices.Compact(uniqSkills)

	return Mentor{
		Name:   name,
		Email:  email,
		Skills: uniqSkills,
		Slots:  UniqueSlots(slots),
	}
}

// HasSkill есть ли у ментора навык, подходящий под запрос
func (m Mentor) HasSkill(query string) bool {
	return slices.ContainsFunc(m.Skills, func(s Skill) bool {
		return s.Matches(query)
	})
}

// SkillNames названия навыков в порядке хранения
func (m Mentor) SkillNames() []string {
	names := make([]string, 0, len(m.Skills))
	for _, s := range m.Skills {
		names = append(names, s.Name)
	}
	return names
}

// SlotsOn слоты ментора, начинающиеся в указанный день
func (m Mentor) SlotsOn(day time.Time) []Slot {
	var out []Slot
	y, mo, d := day.Date()
	for _, s := range m.Slots {
		sy, smo, sd := s.From.Date()
		if sy == y && smo == mo && sd == d {
			out = append(out, s)
		}
	}
	return out
}

// Key структурный ключ: два ментора совпадают только при равенстве всех полей
func (m Mentor) Key() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte(0)
	b.WriteString(m.Email)
	b.WriteByte(0)
	for _, s := range m.Skills {
		b.WriteString(s.Name)
		b.WriteByte(0x1f)
	}
	b.WriteByte(0)
	for _, s := range m.Slots {
		b.WriteString(s.From.Format(time.RFC3339))
		b.WriteByte('/')
		b.WriteString(s.To.Format(time.RFC3339))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// Clone независимая копия
func (m Mentor) Clone() Mentor {
	return Mentor{
		Name:   m.Name,
		Email:  m.Email,
		Skills: slices.Clone(m.Skills),
		Slots:  slices.Clone(m.Slots),
	}
}
