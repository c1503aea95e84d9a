package dashboard

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportCSV, format)

	format, err = ParseExportFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, ExportXLSX, format)
	assert.Equal(t, "users.xlsx", format.Filename("users"))

	_, err = ParseExportFormat("pdf")
	assert.Error(t, err)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, ExportCSV, DiseasesTable(SeedDiseases())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Scientific Name", records[0][2])
	assert.Equal(t, "Coffee Leaf Rust", records[2][1])
	assert.Equal(t, "Copper fungicides; Proper pruning; Shade management", records[2][7])
}

func TestWriteTableXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, ExportXLSX, UsersTable(SeedFarmers())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Email", rows[0][2])
	assert.Equal(t, "John Kamau", rows[1][1])
	assert.Equal(t, "2.5", rows[1][5])
	assert.Equal(t, "2024-01-15", rows[1][8])
}

func TestExportCapsRows(t *testing.T) {
	farmers := make([]FarmerRecord, MaxExportRows+5)
	assert.Len(t, UsersTable(farmers).Rows, MaxExportRows)
}
