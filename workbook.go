package sheetsql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	// dateTimeLayout is how date-formatted cells are stored
	dateTimeLayout = "2006-01-02 15:04:05"
	// timeLayout is used for date-formatted cells holding only a time of day
	timeLayout = "15:04:05"
	// legacyCharset is the charset passed to the BIFF reader for 8-bit strings
	legacyCharset = "utf-8"
)

// parseWorkbook reads every sheet of a workbook in workbook order.
// Sheets without any non-blank row are passed to fn as empty tables,
// so the caller can warn about them.
//
// Cells are read as stored rather than as displayed, so a number keeps its
// value whatever its number format. Numbers styled as dates are converted
// to date text.
func parseWorkbook(ctx context.Context, r io.Reader, fn tableProcessor) error {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("%w: failed to open workbook: %w", ErrInvalidData, err)
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return ErrNoSheets
	}

	dates := newDateCells(xlsxFile)
	for _, sheetName := range sheetNames {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := xlsxFile.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("%w: failed to read sheet %s: %w", ErrInvalidData, sheetName, err)
		}
		dates.convert(sheetName, rows)

		if err := fn(tableFromRows(sanitizeTableName(sheetName), sheetName, rows)); err != nil {
			return err
		}
	}
	return nil
}

// dateCells finds numeric cells whose number format is a date or time format.
type dateCells struct {
	f        *excelize.File
	date1904 bool
	// styles caches whether a style index carries a date format
	styles map[int]bool
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// convert rewrites date-formatted serial numbers in rows as date text, in place.
// rows[i] is sheet row i+1, as returned by GetRows.
func (d *dateCells) convert(sheet string, rows [][]string) {
	for i, row := range rows {
		for j, value := range row {
			serial, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			if !d.isDateCell(sheet, cell) {
				continue
			}
			if text, ok := d.format(serial); ok {
				row[j] = text
			}
		}
	}
}

func (d *dateCells) isDateCell(sheet, cell string) bool {
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}

	isDate, cached := d.styles[styleID]
	if !cached {
		style, err := d.f.GetStyle(styleID)
		isDate = err == nil && isDateStyle(style)
		d.styles[styleID] = isDate
	}
	if !isDate {
		return false
	}

	// A text cell keeps its text even under a date format
	cellType, err := d.f.GetCellType(sheet, cell)
	return err == nil && (cellType == excelize.CellTypeUnset || cellType == excelize.CellTypeNumber)
}

func (d *dateCells) format(serial float64) (string, bool) {
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", false
	}
	if serial < 1 {
		return t.Format(timeLayout), true
	}
	return t.Format(dateTimeLayout), true
}

// isDateStyle reports whether a cell style formats numbers as dates or times.
func isDateStyle(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the built-in date and time formats, including
// the locale specific ones in the 27-36 and 50-58 ranges.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom number format contains date or
// time tokens outside quoted literals, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return false
			}
			// elapsed time: [h], [mm], [ss]
			if inner := code[i+1 : i+1+end]; inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case 'y', 'm', 'd', 'h', 's':
			return true
		}
	}
	return false
}

// parseLegacyWorkbook reads a BIFF (.xls) workbook. The whole source is
// buffered, since the compound file format needs random access.
func parseLegacyWorkbook(ctx context.Context, r io.Reader, fn tableProcessor) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	sheets, err := readLegacySheets(data)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(tableFromRows(sanitizeTableName(sheet.name), sheet.name, sheet.rows)); err != nil {
			return err
		}
	}
	return nil
}

// legacySheet is one sheet of a BIFF workbook read into memory
type legacySheet struct {
	name string
	rows [][]string
}

// readLegacySheets loads every sheet of a BIFF workbook. The reader panics on
// some malformed files, which is reported as ErrInvalidData.
func readLegacySheets(data []byte) (sheets []legacySheet, err error) {
	defer func() {
		if p := recover(); p != nil {
			sheets = nil
			err = fmt.Errorf("%w: failed to read workbook: %v", ErrInvalidData, p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), legacyCharset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrInvalidData, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: failed to open workbook: no workbook stream", ErrInvalidData)
	}

	sheets = make([]legacySheet, 0, wb.NumSheets())
	for i := range wb.NumSheets() {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		sheets = append(sheets, legacySheet{name: sheet.Name, rows: legacyRows(sheet)})
	}
	return sheets, nil
}

// legacyRows returns the cells of a sheet, one slice per row from the first
// row to the last. Missing rows are empty.
func legacyRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := legacyRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows
}

// legacyRow returns row i, or nil when the sheet has no such row.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	// WorkSheet.Row dereferences the row before returning it
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
