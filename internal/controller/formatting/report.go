package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/google/uuid"
)

// maxFailuresShown сколько отброшенных строк показывать в отчёте
const maxFailuresShown = 10

// FormatReport итог загрузки таблицы (HTML)
func FormatReport(r *model.IngestionReport) string {
	var b strings.Builder

	icon := "✅"
	if r.RowsFailed > 0 {
		icon = "⚠️"
	}

	fmt.Fprintf(&b, "%s Таблица <b>%s</b> загружена\n\n", icon, html.EscapeString(r.Source))
	fmt.Fprintf(&b, "📄 Всего: %d %s\n", r.RowsTotal, PluralizeRows(r.RowsTotal))
	fmt.Fprintf(&b, "✔️ Принято: %d\n", r.RowsOK)
	fmt.Fprintf(&b, "✖️ Отброшено: %d\n", r.RowsFailed)
	fmt.Fprintf(&b, "👥 В справочнике: %d %s\n", r.Mentors, PluralizeMentors(r.Mentors))
	fmt.Fprintf(&b, "⏱ %s\n", FormatDuration(r.Duration()))

	if len(r.Failures) > 0 {
		b.WriteString("\nОшибки:\n")
		for i, f := range r.Failures {
			if i == maxFailuresShown {
				fmt.Fprintf(&b, "… и ещё %d\n", len(r.Failures)-maxFailuresShown)
				break
			}
			// Номер строки как в Excel (с единицы)
			fmt.Fprintf(&b, "• %s, строка %d: %s\n",
				html.EscapeString(f.Sheet), f.Row+1, html.EscapeString(f.Reason))
		}
	}

	return b.String()
}

// FormatStatus версия справочника и последняя загрузка
func FormatStatus(runID uuid.UUID, mentors int, last *model.IngestionReport) string {
	if runID == uuid.Nil {
		return "📭 Справочник ещё не загружен."
	}

	text := fmt.Sprintf("📚 В справочнике %d %s\n🆔 <code>%s</code>",
		mentors, PluralizeMentors(mentors), runID)
	if last != nil {
		text += fmt.Sprintf("\n🕒 Загружен %s из <b>%s</b>",
			FormatDateTime(last.FinishedAt), html.EscapeString(last.Source))
	}
	return text
}

// FormatHistory список последних загрузок
func FormatHistory(runs []*model.IngestionRun) string {
	if len(runs) == 0 {
		return "📭 История загрузок пуста."
	}

	var b strings.Builder
	b.WriteString("🗂 Последние загрузки:\n")
	for _, run := range runs {
		fmt.Fprintf(&b, "\n%s · <b>%s</b>\n   %d/%d %s, %d %s\n",
			FormatDateTime(run.FinishedAt),
			html.EscapeString(run.Source),
			run.RowsOK, run.RowsTotal, PluralizeRows(run.RowsTotal),
			run.Mentors, PluralizeMentors(run.Mentors))
	}
	return b.String()
}
