package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/xuri/excelize/v2"
)

// HeaderRows первые строки каждого листа занимают заголовки формы
const HeaderRows = 2

// XLSXSource читает строки менторов из книги Excel, все листы подряд
type XLSXSource struct {
	name string
	data []byte
}

// NewXLSXSource читает книгу целиком в память; разбор откладывается до ReadRows
func NewXLSXSource(r io.Reader, name string) (*XLSXSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", name, err)
	}
	return &XLSXSource{name: name, data: data}, nil
}

// OpenFile источник из файла на диске
func OpenFile(path string) (*XLSXSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return NewXLSXSource(f, filepath.Base(path))
}

// Name имя источника для логов и истории загрузок
func (s *XLSXSource) Name() string {
	return s.name
}

// ReadRows декодирует книгу и возвращает строки без заголовков
func (s *XLSXSource) ReadRows(ctx context.Context) ([]model.SheetRow, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var out []model.SheetRow
	for _, sheet := range wb.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := readSheet(wb, sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		out = append(out, rows...)
	}

	return out, nil
}

func readSheet(wb *excelize.File, sheet string) ([]model.SheetRow, error) {
	iter, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []model.SheetRow
	for index := 0; iter.Next(); index++ {
		columns, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if index < HeaderRows {
			continue
		}

		cells := make(map[int]string, len(columns))
		for col, raw := range columns {
			if raw == "" {
				continue
			}
			text, ok, err := cellText(wb, sheet, col, index, raw)
			if err != nil {
				return nil, err
			}
			if ok {
				cells[col] = text
			}
		}

		if len(cells) == 0 {
			continue
		}
		out = append(out, model.SheetRow{Sheet: sheet, Index: index, Cells: cells})
	}

	return out, iter.Error()
}

// cellText принимает только строковые и числовые ячейки, остальные типы пропускаются
func cellText(wb *excelize.File, sheet string, col, row int, raw string) (string, bool, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false, err
	}

	kind, err := wb.GetCellType(sheet, axis)
	if err != nil {
		return "", false, err
	}

	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw, true, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Ячейка без типа с нечисловым значением считается строкой
			return raw, kind == excelize.CellTypeUnset, nil
		}
		return decimalText(v), true, nil
	default:
		return "", false, nil
	}
}

// decimalText число в виде десятичной дроби: 9 -> "9.0", 9.5 -> "9.5"
func decimalText(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
