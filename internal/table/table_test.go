package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const droughtCSV = `EventID,EventType,County,State,StartDate,EndDate,Label
d-1,Drought,Adams,CO,2020-01-01,2020-06-01,D2 drought
f-1,Flood,Denver,CO,2020-02-01,,
d-2,Drought,Adams,CO,2021-01-01,,
`

func TestMemory_ColumnIndex(t *testing.T) {
	tbl := NewMemory("events", []string{"EventID", "County", "county"}, nil)

	t.Run("exact match wins", func(t *testing.T) {
		idx, err := tbl.ColumnIndex("county")
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		idx, err := tbl.ColumnIndex("EVENTID")
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := tbl.ColumnIndex("State")
		require.ErrorIs(t, err, domain.ErrColumnNotFound)
		assert.Contains(t, err.Error(), `"State"`)
	})
}

func TestMemory_Cell(t *testing.T) {
	tbl := NewMemory("events", []string{"A", "B", "C"}, [][]any{
		{"a1", 2, nil},
		{"a2"},
	})

	assert.Equal(t, 2, tbl.Len())

	v, err := tbl.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = tbl.Cell(1, 2)
	require.NoError(t, err)
	assert.Nil(t, v, "short rows read as null")

	_, err = tbl.Cell(2, 0)
	require.Error(t, err)

	_, err = tbl.Cell(0, 3)
	require.Error(t, err)
}

func TestMemory_ColumnsIsCopy(t *testing.T) {
	tbl := NewMemory("events", []string{"A", "B"}, nil)
	cols := tbl.Columns()
	cols[0] = "changed"
	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
}

func TestLoadCSV(t *testing.T) {
	tbl, err := LoadCSV("droughts.csv", strings.NewReader(droughtCSV))
	require.NoError(t, err)

	assert.Equal(t, "droughts.csv", tbl.Name())
	assert.Equal(t, []string{"EventID", "EventType", "County", "State", "StartDate", "EndDate", "Label"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Len())

	v, err := tbl.Cell(0, 6)
	require.NoError(t, err)
	assert.Equal(t, "D2 drought", v)

	v, err = tbl.Cell(1, 5)
	require.NoError(t, err)
	assert.Nil(t, v, "empty cells are null")
}

func TestLoadCSV_ByteOrderMarkAndRaggedRows(t *testing.T) {
	data := "\ufeffEventID, County\nx-1,Adams,extra\nx-2\n"
	tbl, err := LoadCSV("bom.csv", strings.NewReader(data))
	require.NoError(t, err)

	idx, err := tbl.ColumnIndex("EventID")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = tbl.ColumnIndex("County")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	v, err := tbl.Cell(1, 1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV("empty.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestLoadCSV_Malformed(t *testing.T) {
	_, err := LoadCSV("bad.csv", strings.NewReader("A,B\n\"unterminated,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read csv bad.csv")
}

func newWorkbook(t *testing.T, sheet string, rows [][]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	return f
}

func TestLoadXLSX(t *testing.T) {
	f := newWorkbook(t, "Sheet1", [][]string{
		{"EventID", "EventType", "County", "StartDate", "EndDate"},
		{"d-1", "Drought", "Adams", "2020-01-01", "2020-06-01"},
		{"d-2", "Drought", "", "2021-01-01"},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := LoadXLSX("events.xlsx", bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)

	assert.Equal(t, "events.xlsx#Sheet1", tbl.Name())
	assert.Equal(t, 2, tbl.Len())

	v, err := tbl.Cell(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", v)

	v, err = tbl.Cell(1, 2)
	require.NoError(t, err)
	assert.Nil(t, v, "blank cell is null")

	v, err = tbl.Cell(1, 4)
	require.NoError(t, err)
	assert.Nil(t, v, "trailing cells omitted by the workbook are null")
}

func TestLoadXLSX_DateCells(t *testing.T) {
	f := newWorkbook(t, "Sheet1", [][]string{
		{"EventID", "Start", "ShortDate", "Observed", "Count", "TextDate"},
		{"d-1"},
	})
	require.NoError(t, f.SetCellValue("Sheet1", "B2", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))

	// Serial 43831 is 2020-01-01 in the 1900 date system.
	require.NoError(t, f.SetCellValue("Sheet1", "C2", 43831))
	shortDate, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C2", shortDate))

	require.NoError(t, f.SetCellValue("Sheet1", "D2", time.Date(2021, time.March, 15, 14, 30, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "E2", 42))
	require.NoError(t, f.SetCellValue("Sheet1", "F2", "2020-06-01"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := LoadXLSX("events.xlsx", bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	newYear := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		col  int
		want time.Time
	}{
		{"date written as time", 1, newYear},
		{"serial with short date format", 2, newYear},
		{"date and time", 3, time.Date(2021, time.March, 15, 14, 30, 0, 0, time.UTC)},
		{"text date", 5, time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tbl.Cell(0, tt.col)
			require.NoError(t, err)
			got, err := domain.CoerceTime(v)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v, want %v", *got, tt.want)
		})
	}

	v, err := tbl.Cell(0, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Date{Year: 2020, Month: time.January, Day: 1}, v, "midnight serials are calendar dates")

	v, err = tbl.Cell(0, 4)
	require.NoError(t, err)
	assert.Equal(t, "42", v, "plain numbers stay text")
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"yyyy-mm-dd", true},
		{"[$-409]mmm d, yyyy", true},
		{"[h]:mm:ss", true},
		{"0.00", false},
		{"General", false},
		{`#,##0" days"`, false},
		{`[Red]0.0`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDateFormatCode(tt.code), tt.code)
	}
}

func TestLoadXLSX_NamedSheet(t *testing.T) {
	f := newWorkbook(t, "Outages", [][]string{
		{"ID", "Type"},
		{"o-1", "Outage"},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := LoadXLSX("book.xlsx", bytes.NewReader(buf.Bytes()), "Outages")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = LoadXLSX("book.xlsx", bytes.NewReader(buf.Bytes()), "Missing")
	require.Error(t, err)
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSX("junk.xlsx", strings.NewReader("not a zip"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open xlsx junk.xlsx")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "events.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(droughtCSV), 0o600))

	tbl, err := Open(csvPath, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	xlsxPath := filepath.Join(dir, "events.xlsx")
	f := newWorkbook(t, "Sheet1", [][]string{{"ID"}, {"a"}, {"b"}})
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	tbl, err = Open(xlsxPath, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = Open(filepath.Join(dir, "events.parquet"), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer table format")

	_, err = Open(csvPath, "json", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported table format")

	_, err = Open(filepath.Join(dir, "missing.csv"), "", "")
	require.Error(t, err)
}
