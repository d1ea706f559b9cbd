// Package export renders reconciliation and document lists as .xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column is one sheet column
type Column struct {
	Header string
	Width  float64
}

// Sheet is a header row plus data rows, written in order
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Write streams the sheet to w as a workbook
func Write(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	for i, col := range sheet.Columns {
		if col.Width > 0 {
			if err := sw.SetColWidth(i+1, i+1, col.Width); err != nil {
				return err
			}
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := make([]any, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Header}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// ReconciliationSheet lays out reconciled purchase-order rows
func ReconciliationSheet(rows []reconciliation.Row) Sheet {
	s := Sheet{
		Name: "Conciliacion",
		Columns: []Column{
			{Header: "Orden de compra", Width: 16},
			{Header: "Documento", Width: 16},
			{Header: "Posicion", Width: 10},
			{Header: "Descripcion", Width: 40},
			{Header: "Unidad", Width: 8},
			{Header: "Fecha emision", Width: 14},
			{Header: "Cant. pedida", Width: 12},
			{Header: "Cant. recibida", Width: 12},
			{Header: "Cant. facturada", Width: 12},
			{Header: "Cant. a facturar", Width: 12},
			{Header: "Pendiente de facturar", Width: 12},
			{Header: "Codigo recepcion", Width: 18},
			{Header: "Precio unitario", Width: 14},
			{Header: "Importe total", Width: 14},
			{Header: "Sociedad", Width: 10},
			{Header: "Proveedor", Width: 14},
			{Header: "Contacto", Width: 24},
			{Header: "Anticipo neto", Width: 14},
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []any{
			r.OrderID,
			r.DocumentNumber,
			r.Position,
			r.ProductDescription,
			r.UnitOfMeasure,
			formatDate(r.EmissionDate),
			number(r.QuantityOrdered),
			number(r.QuantityReceived),
			number(r.QuantityInvoiced),
			optionalNumber(r.QuantityToInvoice),
			number(r.QuantityStillToInvoice),
			r.ReceptionCode,
			number(r.OriginalAmount),
			optionalNumber(r.TotalAmount),
			r.SocietyCode,
			r.ProviderCode,
			r.Contact,
			number(r.AdvancePaymentNetAmount),
		})
	}
	return s
}

// DocumentLine is a document with its display names resolved
type DocumentLine struct {
	Document     document.Document
	ProviderName string
	SocietyCode  string
	TypeCode     string
}

// DocumentsSheet lays out a document listing
func DocumentsSheet(lines []DocumentLine) Sheet {
	s := Sheet{
		Name: "Documentos",
		Columns: []Column{
			{Header: "Numero", Width: 16},
			{Header: "Tipo", Width: 6},
			{Header: "Proveedor", Width: 32},
			{Header: "Sociedad", Width: 10},
			{Header: "Fecha emision", Width: 14},
			{Header: "Vencimiento", Width: 14},
			{Header: "Moneda", Width: 8},
			{Header: "Neto", Width: 14},
			{Header: "Total", Width: 14},
			{Header: "CAE", Width: 16},
			{Header: "Estado", Width: 12},
			{Header: "Observacion", Width: 40},
		},
		Rows: make([][]any, 0, len(lines)),
	}
	for _, l := range lines {
		d := l.Document
		var due string
		if d.DueDate != nil {
			due = formatDate(*d.DueDate)
		}
		note := d.Observation
		if d.Status == document.StatusRejected {
			note = d.RejectionReason
		}
		s.Rows = append(s.Rows, []any{
			d.Number,
			l.TypeCode,
			l.ProviderName,
			l.SocietyCode,
			formatDate(d.IssueDate),
			due,
			d.Currency,
			number(d.NetAmount),
			number(d.TotalAmount),
			d.CAE,
			string(d.Status),
			note,
		})
	}
	return s
}

func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optionalNumber(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
