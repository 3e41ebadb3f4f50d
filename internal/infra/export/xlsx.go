package export

import (
	"fmt"
	"io"
	"time"

	"localmarket/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04:05"

var orderHeaders = []string{
	"ID", "Customer", "Address", "Timestamp", "Status", "Items", "Total", "Payment",
}

var invoiceHeaders = []string{"Number", "Amount", "HoursAgo"}

// 注文一覧を1シートで書き出す
func WriteOrders(w io.Writer, orders []model.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}

	addHeader(sheet, orderHeaders)
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.CustomerAddress)
		row.AddCell().SetString(o.Timestamp.In(time.UTC).Format(timeLayout))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetInt(o.ItemCount())
		//合計なしは空欄
		if o.TotalAmount.Valid {
			row.AddCell().SetString(amount(o.TotalAmount.Decimal))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(o.PaymentMethod))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write orders: %w", err)
	}
	return nil
}

// 請求書一覧
func WriteInvoices(w io.Writer, invoices []model.Invoice) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Invoices")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}

	addHeader(sheet, invoiceHeaders)
	for _, inv := range invoices {
		row := sheet.AddRow()
		row.AddCell().SetString(inv.Number)
		row.AddCell().SetString(amount(inv.Amount))
		row.AddCell().SetInt(inv.HoursAgo)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write invoices: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
