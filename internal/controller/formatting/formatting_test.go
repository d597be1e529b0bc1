package formatting

import (
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/parser"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestFormatSlot(t *testing.T) {
	day := parser.IngestionDays[0]

	assert.Equal(t, "09:00", FormatSlot(model.Slot{From: at(day, 9, 0), To: at(day, 9, 0)}))
	assert.Equal(t, "09:30-11:00", FormatSlot(model.Slot{From: at(day, 9, 30), To: at(day, 11, 0)}))
}

func TestPluralizeMentors(t *testing.T) {
	cases := map[int]string{
		1:  "ментор",
		2:  "ментора",
		5:  "менторов",
		11: "менторов",
		21: "ментор",
		24: "ментора",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizeMentors(n), "n=%d", n)
	}
}

func TestFormatMentor(t *testing.T) {
	sat := parser.IngestionDays[1]
	m := model.NewMentor("Ana <Dev>", "ana@example.com",
		[]model.Skill{model.NewSkill("Go"), model.NewSkill("Java")},
		[]model.Slot{
			{From: at(sat, 14, 0), To: at(sat, 16, 0)},
			{From: at(sat, 9, 0), To: at(sat, 9, 0)},
		})

	text := FormatMentor(m)
	assert.Contains(t, text, "<b>Ana &lt;Dev&gt;</b>")
	assert.Contains(t, text, "Go, Java")
	assert.Contains(t, text, "Сб 23.10: 09:00, 14:00-16:00")
	assert.NotContains(t, text, "22.10")
}

func TestFormatMentorWithoutSlots(t *testing.T) {
	text := FormatMentor(model.NewMentor("Bruno", "", nil, nil))
	assert.Contains(t, text, "нет свободного времени")
	assert.NotContains(t, text, "📧")
}

func TestPaging(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0))
	assert.Equal(t, 1, TotalPages(PageSize))
	assert.Equal(t, 2, TotalPages(PageSize+1))

	assert.Equal(t, 0, ClampPage(-1, 12))
	assert.Equal(t, 2, ClampPage(9, 12))
}

func TestFormatMentorPage(t *testing.T) {
	var mentors []model.Mentor
	for i := 0; i < PageSize+2; i++ {
		mentors = append(mentors, model.NewMentor(fmt.Sprintf("Mentor %d", i), "", nil, nil))
	}

	second := FormatMentorPage("🔎 go", mentors, 1)
	assert.Contains(t, second, "Найдено: 7 менторов")
	assert.Contains(t, second, "Mentor 5")
	assert.Contains(t, second, "Mentor 6")
	assert.NotContains(t, second, "Mentor 4")

	assert.Contains(t, FormatMentorPage("🔎 rust", nil, 0), "Никого не нашлось")
}

func TestFormatReport(t *testing.T) {
	started := time.Date(2021, 10, 20, 12, 0, 0, 0, time.UTC)
	report := &model.IngestionReport{
		RunID:      uuid.New(),
		Source:     "mentores.xlsx",
		StartedAt:  started,
		FinishedAt: started.Add(250 * time.Millisecond),
		RowsTotal:  3,
		RowsOK:     2,
		RowsFailed: 1,
		Mentors:    2,
		Failures:   []model.RowFailure{{Sheet: "Sheet1", Row: 4, Reason: "bad <time>"}},
	}

	text := FormatReport(report)
	assert.Contains(t, text, "⚠️")
	assert.Contains(t, text, "Всего: 3 строки")
	assert.Contains(t, text, "250 мс")
	assert.Contains(t, text, "Sheet1, строка 5: bad &lt;time&gt;")
}

func TestFormatReportTruncatesFailures(t *testing.T) {
	report := &model.IngestionReport{Source: "big.xlsx"}
	for i := 0; i < maxFailuresShown+3; i++ {
		report.Failures = append(report.Failures, model.RowFailure{Sheet: "S", Row: i, Reason: "x"})
	}
	report.RowsFailed = len(report.Failures)

	assert.Contains(t, FormatReport(report), "… и ещё 3")
}

func TestFormatStatus(t *testing.T) {
	assert.Contains(t, FormatStatus(uuid.Nil, 0, nil), "ещё не загружен")

	id := uuid.New()
	last := &model.IngestionReport{Source: "m.xlsx", FinishedAt: time.Date(2021, 10, 21, 8, 5, 0, 0, time.UTC)}
	text := FormatStatus(id, 3, last)
	assert.Contains(t, text, id.String())
	assert.Contains(t, text, "3 ментора")
	assert.Contains(t, text, "21.10.2021 08:05")
}

func TestFormatHistory(t *testing.T) {
	assert.Contains(t, FormatHistory(nil), "пуста")

	runs := []*model.IngestionRun{{Source: "a.xlsx", RowsOK: 1, RowsTotal: 2, Mentors: 1}}
	text := FormatHistory(runs)
	require.Contains(t, text, "a.xlsx")
	assert.Contains(t, text, "1/2 строки, 1 ментор")
}
