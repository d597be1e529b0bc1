package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"github.com/Freeeeeet/mentors_bot/internal/controller/formatting"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/parser"
	"github.com/fogleman/gg"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 900
	imageHeight      = 700
	headerHeight     = 90
	leftLabelsWidth  = 70
	dayPaddingX      = 10
	minSlotHeight    = 6.0
	instantHeight    = 4.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 255}
	hourLabelColor = color.RGBA{110, 115, 120, 255}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor    = color.RGBA{133, 193, 85, 230}
	slotInstantColor = color.RGBA{66, 133, 244, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// AvailabilityRenderer рисует доступность ментора по трём дням мероприятия.
// Готовые PNG кешируются по структурному ключу ментора.
type AvailabilityRenderer struct {
	cache *lru.Cache[string, []byte]
}

func NewAvailabilityRenderer(cacheSize int) (*AvailabilityRenderer, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &AvailabilityRenderer{cache: cache}, nil
}

// Render PNG с доступностью ментора
func (r *AvailabilityRenderer) Render(m model.Mentor) ([]byte, error) {
	key := m.Key()
	if data, ok := r.cache.Get(key); ok {
		return data, nil
	}

	data, err := GenerateAvailabilityImage(m)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, data)
	return data, nil
}

// Cached число изображений в кеше
func (r *AvailabilityRenderer) Cached() int {
	return r.cache.Len()
}

// GenerateAvailabilityImage рисует три колонки дней со слотами ментора
func GenerateAvailabilityImage(m model.Mentor) ([]byte, error) {
	hours := calculateHourRange(m.Slots)
	days := parser.IngestionDays

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth) / len(days)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, m)
	drawHourLabels(dc, hours, cellHeight)

	for dayIndex, day := range days {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex)
		drawDayHeader(dc, dayIndex, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, slot := range m.SlotsOn(day) {
			drawSlot(dc, slot, x, y, dayWidth, hours, cellHeight)
		}
	}

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(slots []model.Slot) hourRange {
	minHour := 24
	maxHour := 0

	for _, slot := range slots {
		startH := slot.From.Hour()
		endH := slot.To.Hour()
		if slot.To.Minute() > 0 {
			endH++
		}
		minHour = min(minHour, startH)
		maxHour = max(maxHour, endH)
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)
	if endHour <= startHour {
		endHour = startHour + 1
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawHeader рисует имя и навыки ментора
func drawHeader(dc *gg.Context, m model.Mentor) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(m.Name, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
	if m.Email != "" {
		dc.DrawStringAnchored(m.Email, float64(leftLabelsWidth), float64(headerHeight)/4+16, 0, 0.5)
	}
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует день недели и дату над колонкой
func drawDayHeader(dc *gg.Context, dayIndex int, x, y float64, dayWidth int) {
	day := parser.IngestionDays[dayIndex]

	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Format("02.01"), x+float64(dayWidth)/2, y-28, 0.5, 0.5)
	dc.DrawStringAnchored(formatting.GetWeekdayShort(day.Weekday()), x+float64(dayWidth)/2, y-12, 0.5, 0.5)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует интервал блоком, момент тонкой отметкой
func drawSlot(dc *gg.Context, slot model.Slot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	slotStartHour := float64(slot.From.Hour()) + float64(slot.From.Minute())/60.0

	slotY := y + (slotStartHour-float64(hours.start))*cellHeight
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)
	slotX := x + float64(dayPaddingX)

	if slot.IsInstant() {
		dc.SetColor(slotInstantColor)
		dc.DrawRectangle(slotX, slotY-instantHeight/2, slotWidth, instantHeight)
		dc.Fill()

		dc.SetColor(slotTextColor)
		dc.DrawStringAnchored(slot.From.Format("15:04"), slotX+slotWidth, slotY-instantHeight, 1, 0)
		return
	}

	slotHeight := max(slot.Duration().Hours()*cellHeight, minSlotHeight)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(slotX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(slotFreeColor)
	dc.DrawRoundedRectangle(slotX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(slotFreeColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(slotX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	if slotHeight > 20 {
		dc.SetColor(slotTextColor)
		label := slot.From.Format("15:04") + "-" + slot.To.Format("15:04")
		dc.DrawStringAnchored(label, slotX+8, slotY+16, 0, 0)
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}
