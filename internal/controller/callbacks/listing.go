package callbacks

import (
	"fmt"
	"html"

	"github.com/Freeeeeet/mentors_bot/internal/controller/formatting"
	"github.com/Freeeeeet/mentors_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// Page одна страница списка менторов
type Page struct {
	Text   string
	Markup *models.InlineKeyboardMarkup
}

// SkillPage страница результатов поиска по навыку
func SkillPage(query string, mentors []model.Mentor, page int) Page {
	title := fmt.Sprintf("🔎 Навык: <b>%s</b>", html.EscapeString(query))
	return buildPage(title, SkillPagePrefix, mentors, page)
}

// AllPage страница полного списка менторов
func AllPage(mentors []model.Mentor, page int) Page {
	return buildPage("📚 Все менторы", AllPagePrefix, mentors, page)
}

func buildPage(title, prefix string, mentors []model.Mentor, page int) Page {
	page = formatting.ClampPage(page, len(mentors))

	return Page{
		Text: formatting.FormatMentorPage(title, mentors, page),
		Markup: keyboard.NewBuilder().
			AddPagination(prefix, page, formatting.TotalPages(len(mentors))).
			Build(),
	}
}
