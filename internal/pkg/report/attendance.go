package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the first worksheet of an export.
const SummarySheet = "Summary"

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubjectSheet is the data behind one per-subject worksheet
type SubjectSheet struct {
	Subject models.Subject
	Stats   dto.AttendanceStats
	Records []models.AttendanceRecord
}

// ImportRow is one parsed line of an attendance import sheet
type ImportRow struct {
	Line   int
	Date   time.Time
	Status models.AttendanceStatus
}

var summaryHeader = []interface{}{"Code", "Subject", "Total", "Present", "Absent", "Percentage", "Goal", "Classes Needed", "Can Skip", "Status"}

// WriteAttendanceWorkbook renders the summary and one sheet per subject to w.
func WriteAttendanceWorkbook(w io.Writer, owner string, overall dto.AttendanceStats, subjects []SubjectSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Attendance report", owner},
		{"Generated", time.Now().UTC().Format(time.RFC3339)},
		{},
		summaryHeader,
	}
	for _, s := range subjects {
		rows = append(rows, statsRow(s.Subject.Code, s.Subject.Name, s.Stats))
	}
	rows = append(rows, statsRow("", "Overall", overall))
	if err := writeRows(f, SummarySheet, rows); err != nil {
		return err
	}

	used := map[string]bool{SummarySheet: true}
	for _, s := range subjects {
		name := sheetName(s.Subject.Code, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		sheetRows := [][]interface{}{
			{s.Subject.Code, s.Subject.Name},
			{"Percentage", s.Stats.Percentage},
			{},
			{"Date", "Status"},
		}
		for _, r := range s.Records {
			sheetRows = append(sheetRows, []interface{}{r.Date.Format("2006-01-02"), string(r.Status)})
		}
		if err := writeRows(f, name, sheetRows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// AttendanceWorkbook is WriteAttendanceWorkbook into a buffer.
func AttendanceWorkbook(owner string, overall dto.AttendanceStats, subjects []SubjectSheet) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := WriteAttendanceWorkbook(&buf, owner, overall, subjects); err != nil {
		return nil, err
	}
	return &buf, nil
}

func statsRow(code, name string, s dto.AttendanceStats) []interface{} {
	return []interface{}{code, name, s.Total, s.Present, s.Absent, s.Percentage, s.Goal, s.ClassesNeeded, s.CanSkip, string(s.Label)}
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// sheetName makes a unique worksheet name within Excel's 31 character limit.
func sheetName(code string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, code)
	if base == "" {
		base = "Subject"
	}
	if len(base) > 28 {
		base = base[:28]
	}
	name := base
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	used[name] = true
	return name
}

// ParseAttendanceSheet reads Date/Status rows from the first sheet of an
// uploaded workbook. The first row is a header. Blank rows are skipped.
func ParseAttendanceSheet(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}

	var out []ImportRow
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected date and status", i+1)
		}
		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[0]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", i+1, row[0])
		}
		status := models.AttendanceStatus(strings.ToUpper(strings.TrimSpace(row[1])))
		if !status.IsValid() {
			return nil, fmt.Errorf("row %d: invalid status %q", i+1, row[1])
		}
		out = append(out, ImportRow{Line: i + 1, Date: date, Status: status})
	}
	return out, nil
}
