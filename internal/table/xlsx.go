package table

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// LoadXLSX reads an event table from one sheet of an XLSX workbook. An empty
// sheet name selects the first sheet. The first row is the header. Numbers
// carrying a date or time number format become domain.Date (no time of day)
// or time.Time; every other cell is read as its unformatted text, and blank
// cells are null.
func LoadXLSX(name string, r io.Reader, sheet string) (*Memory, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", name, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("open xlsx %s: workbook has no sheets", name)
		}
		sheet = sheets[0]
	}

	all, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s sheet %q: %w", name, sheet, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read xlsx %s sheet %q: missing header row", name, sheet)
	}

	dates := newDateCells(f, sheet)
	columns := normalizeHeader(all[0])
	rows := make([][]any, 0, len(all)-1)
	for i, record := range all[1:] {
		// excelize omits trailing empty cells; Memory reads them as null.
		cells := textCells(record, len(columns))
		for col, v := range cells {
			text, ok := v.(string)
			if !ok {
				continue
			}
			if t, ok := dates.convert(col+1, i+2, text); ok {
				cells[col] = t
			}
		}
		rows = append(rows, cells)
	}

	return NewMemory(name+"#"+sheet, columns, rows), nil
}

// dateCells recognizes date-formatted numeric cells of one sheet.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// convert returns the temporal value of the cell at (col, row) when it holds
// a date serial under a date or time number format.
func (d *dateCells) convert(col, row int, raw string) (any, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, false
	}
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil || !d.isDateStyle(styleID) {
		return nil, false
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return nil, false
	}
	t = t.Round(time.Millisecond)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return domain.NewDate(t), true
	}
	return t, true
}

func (d *dateCells) isDateStyle(id int) bool {
	if isDate, ok := d.styles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := d.f.GetStyle(id); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	d.styles[id] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format renders dates or times.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

var formatLiterals = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)

// isDateFormatCode reports whether a custom format code has date or time
// tokens outside quoted literals, escapes and bracketed colors or locales.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(formatLiterals.ReplaceAllString(code, ""))
	if code == "general" {
		return false
	}
	return strings.ContainsAny(code, "ydmhs")
}
