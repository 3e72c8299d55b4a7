// Package pdf renders bills as printable documents.
package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/clinicdesk/internal/billing/domain"
)

// Document carries everything printed on a bill besides the bill itself.
type Document struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	ClinicEmail   string
	PatientName   string
	PatientMRN    string
	PatientPhone  string
	Bill          *domain.Bill
}

var (
	small     = props.Text{Size: 9}
	smallR    = props.Text{Size: 9, Align: align.Right}
	smallBold = props.Text{Size: 9, Style: fontstyle.Bold}
	boldR     = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

func Render(doc Document) ([]byte, error) {
	bill := doc.Bill
	if bill == nil {
		return nil, errors.New("pdf: bill is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, doc.ClinicName, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "BILL", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(18,
		col.New(6).Add(
			text.New(doc.ClinicAddress, props.Text{Size: 9}),
			text.New(strings.TrimSpace(doc.ClinicPhone+"  "+doc.ClinicEmail), props.Text{Size: 9, Top: 5}),
		),
		col.New(6).Add(
			text.New("Bill number: "+bill.BillNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Issued: "+bill.IssueDate.Format("2006-01-02"), props.Text{Size: 9, Top: 4, Align: align.Right}),
			text.New("Due: "+bill.DueDate.Format("2006-01-02"), props.Text{Size: 9, Top: 8, Align: align.Right}),
			text.New("Status: "+string(bill.Status), props.Text{Size: 9, Top: 12, Align: align.Right}),
		),
	)
	m.AddRow(16,
		col.New(12).Add(
			text.New("Billed to", smallBold),
			text.New(doc.PatientName, props.Text{Size: 9, Top: 4}),
			text.New(strings.TrimSpace(doc.PatientMRN+"  "+doc.PatientPhone), props.Text{Size: 9, Top: 8}),
		),
	)

	m.AddRow(8,
		text.NewCol(5, "Description", smallBold),
		text.NewCol(1, "Qty", boldR),
		text.NewCol(2, "Unit price", boldR),
		text.NewCol(1, "Tax", boldR),
		text.NewCol(1, "Disc.", boldR),
		text.NewCol(2, "Amount", boldR),
	)
	for _, item := range bill.Items {
		m.AddRow(7,
			text.NewCol(5, item.Description, small),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), smallR),
			text.NewCol(2, Money(item.UnitPrice), smallR),
			text.NewCol(1, Money(item.Tax), smallR),
			text.NewCol(1, Money(item.Discount), smallR),
			text.NewCol(2, Money(item.LineTotal), smallR),
		)
	}

	m.AddRow(4, col.New(12))
	totals := [][2]string{
		{"Subtotal", Money(bill.Subtotal)},
		{"Discount", "-" + Money(bill.Discount)},
		{"Tax (" + bill.TaxRate.String() + "%)", Money(bill.Tax)},
		{"Total " + bill.Currency, Money(bill.Total)},
		{"Paid", Money(bill.Paid)},
	}
	for _, row := range totals {
		m.AddRow(6,
			col.New(8),
			text.NewCol(2, row[0], small),
			text.NewCol(2, row[1], smallR),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Balance due", smallBold),
		text.NewCol(2, Money(bill.Balance), boldR),
	)

	if len(bill.Payments) > 0 {
		m.AddRow(10, text.NewCol(12, "Payments", props.Text{Size: 10, Style: fontstyle.Bold, Top: 4}))
		for _, p := range bill.Payments {
			m.AddRow(6,
				text.NewCol(3, p.PaidAt.Format("2006-01-02"), small),
				text.NewCol(3, string(p.Method), small),
				text.NewCol(4, p.Reference, small),
				text.NewCol(2, Money(p.Amount), smallR),
			)
		}
	}

	if bill.Notes != "" {
		m.AddRow(14, text.NewCol(12, bill.Notes, props.Text{Size: 8, Top: 6}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

// Money formats minor units with two decimals.
func Money(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
