package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	billID := snowflake.ID(42)
	at := time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC)
	entries := []*domain.Entry{
		{ID: 1, BillID: &billID, Type: domain.EntryTypeAdjustment, Debit: 150050, Balance: 150050, Description: "bill adjusted", TransactionDate: at},
		{ID: 2, BillID: &billID, Type: domain.EntryTypePayment, Credit: 50000, Balance: 100050, Description: "payment", TransactionDate: at.Add(time.Hour)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Header{ClinicName: "Sunrise", PatientName: "Meera Iyer", PatientMRN: "MRN-1", Currency: "INR"}, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Meera Iyer")

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Date", rows[3][0])
	assert.Equal(t, "PAYMENT", rows[5][1])
	assert.Equal(t, "42", rows[5][3])

	balance, err := f.GetCellValue(sheetName, "H6", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1000.5", balance)
}
