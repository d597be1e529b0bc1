package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/parser"
)

// PageSize менторов на одной странице списка
const PageSize = 5

// FormatMentor карточка ментора (HTML)
func FormatMentor(m model.Mentor) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 <b>%s</b>\n", html.EscapeString(m.Name))
	if m.Email != "" {
		fmt.Fprintf(&b, "📧 %s\n", html.EscapeString(m.Email))
	}
	if len(m.Skills) > 0 {
		fmt.Fprintf(&b, "🛠 %s\n", html.EscapeString(strings.Join(m.SkillNames(), ", ")))
	}

	b.WriteString(formatAvailability(m))
	return b.String()
}

func formatAvailability(m model.Mentor) string {
	var lines []string
	for _, day := range parser.IngestionDays {
		slots := m.SlotsOn(day)
		if len(slots) == 0 {
			continue
		}
		parts := make([]string, 0, len(slots))
		for _, s := range slots {
			parts = append(parts, FormatSlot(s))
		}
		lines = append(lines, fmt.Sprintf("   %s %s: %s",
			GetWeekdayShort(day.Weekday()), day.Format("02.01"), strings.Join(parts, ", ")))
	}

	if len(lines) == 0 {
		return "🗓 нет свободного времени\n"
	}
	return "🗓 Доступность:\n" + strings.Join(lines, "\n") + "\n"
}

// TotalPages число страниц для списка из n менторов
func TotalPages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage приводит номер страницы к допустимому диапазону
func ClampPage(page, n int) int {
	if page < 0 {
		return 0
	}
	if last := TotalPages(n) - 1; page > last {
		return last
	}
	return page
}

// FormatMentorPage страница списка менторов с заголовком
func FormatMentorPage(title string, mentors []model.Mentor, page int) string {
	if len(mentors) == 0 {
		return title + "\n\n😔 Никого не нашлось."
	}

	page = ClampPage(page, len(mentors))
	start := page * PageSize
	end := min(start+PageSize, len(mentors))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nНайдено: %d %s\n", title, len(mentors), PluralizeMentors(len(mentors)))
	for _, m := range mentors[start:end] {
		b.WriteString("\n")
		b.WriteString(FormatMentor(m))
	}
	return b.String()
}
