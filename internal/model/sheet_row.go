package model

// SheetRow одна строка таблицы: номер колонки (с нуля) -> текст ячейки.
// Колонки с неподдерживаемым типом ячейки в Cells отсутствуют.
type SheetRow struct {
	Sheet string         `json:"sheet"`
	Index int            `json:"index"` // номер строки на листе, с нуля
	Cells map[int]string `json:"cells"`
}

// Cell текст колонки или пустая строка, если колонки нет
func (r SheetRow) Cell(col int) string {
	return r.Cells[col]
}
