// Package render produces the printable invoice document.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/cabinworks/cabinbooks/internal/config"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
	"github.com/cabinworks/cabinbooks/pkg/money"
)

const dateLayout = "Jan 2, 2006"

// Renderer turns an invoice plus the company info into a PDF.
type Renderer interface {
	RenderInvoice(ctx context.Context, inv invoicedomain.Invoice, company config.CompanyInfo) (io.Reader, error)
}

type pdfRenderer struct{}

func New() Renderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) RenderInvoice(ctx context.Context, inv invoicedomain.Invoice, company config.CompanyInfo) (io.Reader, error) {
	_ = ctx

	cfg := marotocfg.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Invoice number: "+inv.Number, props.Text{Top: 0}),
			text.New("Date of issue: "+inv.Date.Format(dateLayout), props.Text{Top: 4}),
			text.New("Date due: "+inv.DueDate.Format(dateLayout), props.Text{Top: 8}),
			text.New("Status: "+string(inv.Status), props.Text{Top: 12}),
		),
		col.New(6),
	)

	m.AddRow(34,
		col.New(6).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold}),
			text.New(company.Address, props.Text{Top: 5}),
			text.New(fmt.Sprintf("%s, %s %s", company.City, company.State, company.Zip), props.Text{Top: 9}),
			text.New(company.Email, props.Text{Top: 13}),
			text.New(company.Phone, props.Text{Top: 17}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(inv.ClientName, props.Text{Top: 5}),
			text.New(inv.ClientAddress, props.Text{Top: 9}),
			text.New(fmt.Sprintf("%s, %s %s", inv.ClientCity, inv.ClientState, inv.ClientZip), props.Text{Top: 13}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Service", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Units", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, j := range inv.Jobs {
		m.AddRow(8,
			text.NewCol(4, j.Date.Format(dateLayout), props.Text{Size: 9}),
			text.NewCol(4, jobDescription(j), props.Text{Size: 9}),
			text.NewCol(2, jobUnits(j), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money.FormatUSD(j.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total due", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		text.NewCol(2, money.FormatUSD(inv.Total), props.Text{Style: fontstyle.Bold, Size: 10, Top: 4, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func jobDescription(j jobdomain.Job) string {
	switch j.Kind {
	case jobdomain.JobKindHourly:
		return j.ServiceName
	default:
		return j.ServiceRef
	}
}

func jobUnits(j jobdomain.Job) string {
	switch j.Kind {
	case jobdomain.JobKindHourly:
		return fmt.Sprintf("%.2f hrs", j.HoursWorked)
	default:
		return fmt.Sprintf("%g", j.Quantity)
	}
}
