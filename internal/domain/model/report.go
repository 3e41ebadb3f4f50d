package model

import "github.com/shopspring/decimal"

// 週間売上グラフの1点
type SalesPoint struct {
	Name     string `yaml:"name" json:"name"`
	Sales    int64  `yaml:"sales" json:"sales"`
	Expenses int64  `yaml:"expenses" json:"expenses"`
}

type Invoice struct {
	Number   string          `yaml:"number" json:"number"`
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
	HoursAgo int             `yaml:"hours_ago" json:"hours_ago"`
}

// 請求書画面の集計
type InvoiceSummary struct {
	TotalSales    decimal.Decimal `yaml:"total_sales" json:"total_sales"`
	TotalExpenses decimal.Decimal `yaml:"total_expenses" json:"total_expenses"`
	Weekly        []SalesPoint    `yaml:"weekly" json:"weekly"`
	Invoices      []Invoice       `yaml:"invoices" json:"invoices"`
}
