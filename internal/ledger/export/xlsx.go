// Package export renders ledger chains as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicdesk/internal/ledger/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Ledger"

// Header describes whose ledger is exported.
type Header struct {
	ClinicName  string
	PatientName string
	PatientMRN  string
	Currency    string
}

var columns = []any{"Date", "Type", "Description", "Bill", "Payment", "Debit", "Credit", "Balance"}

// WriteXLSX writes entries oldest first. Money columns are major units with
// two decimals.
func WriteXLSX(w io.Writer, header Header, entries []*domain.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s ledger: %s (%s)", header.ClinicName, header.PatientName, header.PatientMRN)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "A2", "Currency: "+header.Currency); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return err
	}

	const headerRow = 4
	if err := f.SetSheetRow(sheetName, cell(1, headerRow), &columns); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, cell(1, headerRow), cell(len(columns), headerRow), bold); err != nil {
		return err
	}

	row := headerRow
	for _, e := range entries {
		row++
		values := []any{
			e.TransactionDate.Format("2006-01-02 15:04"),
			string(e.Type),
			e.Description,
			optionalID(e.BillID),
			optionalID(e.PaymentID),
			major(e.Debit),
			major(e.Credit),
			major(e.Balance),
		}
		if err := f.SetSheetRow(sheetName, cell(1, row), &values); err != nil {
			return err
		}
	}
	if row > headerRow {
		if err := f.SetCellStyle(sheetName, cell(6, headerRow+1), cell(8, row), money); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "C", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "D", "E", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "F", "H", 14); err != nil {
		return err
	}

	return f.Write(w)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func major(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}

func optionalID(id *snowflake.ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
