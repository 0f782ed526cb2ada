package export

import (
	"fmt"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// ApplyProtocolFormatting — жирная шапка, автофильтр по первой строке и
// примерная автоширина колонок по содержимому.
func ApplyProtocolFormatting(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", colName(cols)+"1", style)
	}
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", colName(cols)), nil)

	widths := make([]float64, cols)
	for c := range widths {
		widths[c] = 10
	}
	for rIdx, row := range rows {
		for cIdx := 0; cIdx < cols; cIdx++ {
			var v string
			if cIdx < len(row) {
				v = row[cIdx]
			}
			// кириллица визуально шире латиницы
			w := float64(visualLen(v)) * 1.1
			if rIdx == 0 {
				w += 1.5
			}
			if w > 60 {
				w = 60
			}
			if w > widths[cIdx] {
				widths[cIdx] = w
			}
		}
	}
	for c, w := range widths {
		col := colName(c + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// colName — буквенное имя колонки по номеру (1 → A, 27 → AA).
func colName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			n += 2
		} else {
			n++
		}
	}
	return n
}
