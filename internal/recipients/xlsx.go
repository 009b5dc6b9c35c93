// Package recipients reads recipient sheets and writes batch results. The
// sheet contract is two mandatory columns, name and email; every other column
// becomes a substitution variable under its own header.
package recipients

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bbrhub/mailblast/internal/dispatch"
	"github.com/bbrhub/mailblast/internal/storage/sendlogrepo"
)

// Column headers accepted for the two mandatory fields. The Chinese forms
// match the sheets the original desktop builds shipped with.
var (
	nameHeaders  = []string{"name", "姓名"}
	emailHeaders = []string{"email", "recipient_address", "邮箱"}
)

// Sheet is the parsed recipient list. Vars lists the non-mandatory headers in
// column order, so callers can register unseen variables.
type Sheet struct {
	Records []dispatch.RecipientRecord
	Vars    []string
}

// ImportXLSX parses the first worksheet of the file. The first row must be a
// header row carrying the two mandatory columns.
func ImportXLSX(path string) (sheet *Sheet, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open recipient sheet '%s': %w", path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("recipient sheet '%s' has no worksheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read worksheet '%s': %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("recipient sheet '%s' is empty", path)
	}

	headers := rows[0]
	nameCol := findColumn(headers, nameHeaders)
	emailCol := findColumn(headers, emailHeaders)

	var missing []string
	if nameCol < 0 {
		missing = append(missing, "name")
	}
	if emailCol < 0 {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("recipient sheet is missing mandatory column(s): %s", strings.Join(missing, ", "))
	}

	sheet = &Sheet{}
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if i == nameCol || i == emailCol || header == "" {
			continue
		}

		sheet.Vars = append(sheet.Vars, header)
	}

	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		rowNum := i + 2 // 1-based, after the header row

		name := cell(row, nameCol)
		address := cell(row, emailCol)
		if name == "" {
			return nil, fmt.Errorf("recipient sheet row %d: missing name", rowNum)
		}
		if address == "" {
			return nil, fmt.Errorf("recipient sheet row %d: missing email", rowNum)
		}

		vars := make(map[string]string)
		for c, header := range headers {
			header = strings.TrimSpace(header)
			if c == nameCol || c == emailCol || header == "" {
				continue
			}

			vars[header] = cell(row, c)
		}

		sheet.Records = append(sheet.Records, dispatch.RecipientRecord{
			Name:    name,
			Address: address,
			Vars:    vars,
		})
	}

	if len(sheet.Records) == 0 {
		return nil, fmt.Errorf("recipient sheet '%s' has no recipient rows", path)
	}

	return sheet, nil
}

// ExportBatchXLSX writes audit rows to a result workbook, one row per send
// attempt, header row first.
func ExportBatchXLSX(path string, rows []sendlogrepo.SendLog) (err error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheetName := f.GetSheetName(0)

	header := []interface{}{
		"batch_id", "sender_email", "recipient_email", "recipient_name",
		"subject", "status", "error_message", "send_time",
	}
	err = f.SetSheetRow(sheetName, "A1", &header)
	if err != nil {
		return fmt.Errorf("cannot write header row: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.BatchID, row.SenderEmail, row.RecipientEmail, row.RecipientName,
			row.Subject, row.Status, row.ErrorMessage,
			row.SendTime.Format("2006-01-02 15:04:05"),
		}

		cellRef, refErr := excelize.CoordinatesToCellName(1, i+2)
		if refErr != nil {
			return fmt.Errorf("cannot address row %d: %w", i+2, refErr)
		}

		err = f.SetSheetRow(sheetName, cellRef, &values)
		if err != nil {
			return fmt.Errorf("cannot write row %d: %w", i+2, err)
		}
	}

	err = f.SaveAs(path)
	if err != nil {
		return fmt.Errorf("cannot save result workbook '%s': %w", path, err)
	}
	return nil
}

func findColumn(headers []string, accepted []string) int {
	for i, header := range headers {
		header = strings.ToLower(strings.TrimSpace(header))
		for _, want := range accepted {
			if header == want {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
