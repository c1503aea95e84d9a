package dashboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the encoding of a table export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat maps a query value to a format. Empty selects CSV.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("dashboard: unsupported export format %q", value)
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds a download name for base.
func (f ExportFormat) Filename(base string) string {
	return base + "." + string(f)
}

// Table is a header row plus string rows, capped at MaxExportRows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// UsersTable flattens farmers for export.
func UsersTable(farmers []FarmerRecord) Table {
	t := Table{
		Sheet:   "Users",
		Headers: []string{"ID", "Name", "Email", "Phone", "Region", "Farm Size (acres)", "Total Scans", "Success Rate (%)", "Joined"},
	}
	for _, f := range farmers[:min(len(farmers), MaxExportRows)] {
		t.Rows = append(t.Rows, []string{
			f.ID,
			f.Name,
			f.Email,
			f.Phone,
			f.Region,
			strconv.FormatFloat(f.FarmSize, 'f', 1, 64),
			strconv.Itoa(f.TotalScans),
			strconv.Itoa(f.SuccessRate),
			f.JoinedDate.Format("2006-01-02"),
		})
	}
	return t
}

// DiseasesTable flattens diseases for export. List fields are joined with "; ".
func DiseasesTable(diseases []Disease) Table {
	t := Table{
		Sheet:   "Diseases",
		Headers: []string{"ID", "Name", "Scientific Name", "Plant", "Severity", "Cases", "Success Rate (%)", "Treatments", "Preventions"},
	}
	for _, d := range diseases[:min(len(diseases), MaxExportRows)] {
		t.Rows = append(t.Rows, []string{
			d.ID,
			d.Name,
			d.ScientificName,
			string(d.PlantType),
			string(d.Severity),
			strconv.Itoa(d.Cases),
			strconv.Itoa(d.SuccessRate),
			strings.Join(d.Treatments, "; "),
			strings.Join(d.Preventions, "; "),
		})
	}
	return t
}

// WriteTable encodes t to w in the requested format.
func WriteTable(w io.Writer, format ExportFormat, t Table) error {
	switch format {
	case ExportXLSX:
		return writeXLSX(w, t)
	default:
		return writeCSV(w, t)
	}
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("dashboard: name sheet: %w", err)
		}
	}
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("dashboard: write header: %w", err)
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("dashboard: write row %d: %w", r+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("dashboard: write workbook: %w", err)
	}
	return nil
}
