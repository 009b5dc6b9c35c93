package recipients_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bbrhub/mailblast/internal/recipients"
	"github.com/bbrhub/mailblast/internal/storage/sendlogrepo"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	path := filepath.Join(t.TempDir(), "recipients.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestImportXLSX(t *testing.T) {
	t.Run("maps mandatory and extra columns", func(t *testing.T) {
		path := writeSheet(t, [][]interface{}{
			{"name", "email", "code", "company"},
			{"Alice", "a@x.com", "123", "BBRHub"},
			{"Bob", "b@x.com", "456", ""},
		})

		sheet, err := recipients.ImportXLSX(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"code", "company"}, sheet.Vars)
		require.Len(t, sheet.Records, 2)

		assert.Equal(t, "Alice", sheet.Records[0].Name)
		assert.Equal(t, "a@x.com", sheet.Records[0].Address)
		assert.Equal(t, map[string]string{"code": "123", "company": "BBRHub"}, sheet.Records[0].Vars)
		assert.Equal(t, "", sheet.Records[1].Vars["company"])
	})

	t.Run("accepts chinese headers", func(t *testing.T) {
		path := writeSheet(t, [][]interface{}{
			{"姓名", "邮箱", "成绩"},
			{"张三", "z@x.com", "95"},
		})

		sheet, err := recipients.ImportXLSX(path)
		require.NoError(t, err)
		require.Len(t, sheet.Records, 1)
		assert.Equal(t, "张三", sheet.Records[0].Name)
		assert.Equal(t, "95", sheet.Records[0].Vars["成绩"])
	})

	t.Run("missing mandatory column", func(t *testing.T) {
		path := writeSheet(t, [][]interface{}{
			{"name", "code"},
			{"Alice", "123"},
		})

		_, err := recipients.ImportXLSX(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("missing email cell names the row", func(t *testing.T) {
		path := writeSheet(t, [][]interface{}{
			{"name", "email"},
			{"Alice", "a@x.com"},
			{"Bob", ""},
		})

		_, err := recipients.ImportXLSX(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})

	t.Run("skips blank rows", func(t *testing.T) {
		path := writeSheet(t, [][]interface{}{
			{"name", "email"},
			{"Alice", "a@x.com"},
			{"", ""},
			{"Bob", "b@x.com"},
		})

		sheet, err := recipients.ImportXLSX(path)
		require.NoError(t, err)
		assert.Len(t, sheet.Records, 2)
	})
}

func TestExportBatchXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	sent := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	err := recipients.ExportBatchXLSX(path, []sendlogrepo.SendLog{
		{BatchID: "BATCH_1", SenderEmail: "s@x.com", RecipientEmail: "a@x.com", RecipientName: "Alice", Subject: "Hi Alice", Status: sendlogrepo.StatusSuccess, SendTime: sent},
		{BatchID: "BATCH_1", SenderEmail: "s@x.com", RecipientEmail: "bad@@invalid", RecipientName: "Bob", Subject: "Hi Bob", Status: sendlogrepo.StatusFailure, ErrorMessage: "recipient rejected", SendTime: sent},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "batch_id", rows[0][0])
	assert.Equal(t, "a@x.com", rows[1][2])
	assert.Equal(t, "failure", rows[2][5])
	assert.Equal(t, "2024-03-10 09:30:00", rows[1][7])
}
