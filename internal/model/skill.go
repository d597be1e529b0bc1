package model

import "strings"

// Skill навык ментора в том виде, как он записан в таблице
type Skill struct {
	Name string `json:"name"`
}

// NewSkill обрезает пробелы, регистр сохраняется
func NewSkill(raw string) Skill {
	return Skill{Name: strings.TrimSpace(raw)}
}

// Matches проверяет вхождение запроса в название без учёта регистра
func (s Skill) Matches(query string) bool {
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(query))
}
