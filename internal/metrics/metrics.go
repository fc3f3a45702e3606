// Package metrics derives aggregate financial figures from a set of
// transactions. Everything here is a pure function of its input; callers
// filter first, then aggregate.
package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lucrohq/lucro/internal/model"
)

// Display colors for the type-distribution breakdown.
const (
	ColorAds     = "#3b82f6"
	ColorExpense = "#ef4444"
)

var hundred = decimal.NewFromInt(100)

// Filter returns the transactions whose date falls within [from, to], both
// bounds inclusive. An empty bound imposes no constraint on that side.
// Dates are compared as YYYY-MM-DD strings; on that fixed-width format
// lexicographic order is chronological order.
func Filter(txs []model.Transaction, from, to string) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if from != "" && tx.Date < from {
			continue
		}
		if to != "" && tx.Date > to {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// DailyPoint is one date bucket of the daily series.
type DailyPoint struct {
	Date    string          `json:"date"`
	Ads     decimal.Decimal `json:"ads"`
	Expense decimal.Decimal `json:"expense"`
	Revenue decimal.Decimal `json:"revenue"`
	Costs   decimal.Decimal `json:"costs"`  // ads + expense
	Result  decimal.Decimal `json:"result"` // revenue - costs
}

// TypeSlice is one entry of the type-distribution breakdown.
type TypeSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// Summary holds every derived figure for a filtered transaction set.
type Summary struct {
	Ads       decimal.Decimal `json:"ads"`
	Expense   decimal.Decimal `json:"expense"`
	Revenue   decimal.Decimal `json:"revenue"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Profit    decimal.Decimal `json:"profit"`
	ROI       decimal.Decimal `json:"roi"`    // percent
	ROAS      decimal.Decimal `json:"roas"`   // ratio
	Margin    decimal.Decimal `json:"margin"` // percent
	GoodDays  int             `json:"goodDays"`
	BadDays   int             `json:"badDays"`
	AvgProfit decimal.Decimal `json:"avgProfit"`
	Daily     []DailyPoint    `json:"daily"`
	TypeData  []TypeSlice     `json:"typeData"`
}

// Aggregate computes the Summary for a set of transactions. Ratios with a
// zero denominator come back as zero, never as an error or infinity.
func Aggregate(txs []model.Transaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch tx.Type {
		case model.TypeAds:
			s.Ads = s.Ads.Add(tx.Amount)
		case model.TypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		case model.TypeRevenue:
			s.Revenue = s.Revenue.Add(tx.Amount)
		}
	}

	s.TotalCost = s.Ads.Add(s.Expense)
	s.Profit = s.Revenue.Sub(s.TotalCost)
	if s.TotalCost.IsPositive() {
		s.ROI = s.Profit.Div(s.TotalCost).Mul(hundred)
	}
	if s.Ads.IsPositive() {
		s.ROAS = s.Revenue.Div(s.Ads)
	}
	if s.Revenue.IsPositive() {
		s.Margin = s.Profit.Div(s.Revenue).Mul(hundred)
	}

	s.Daily = dailySeries(txs)
	for _, d := range s.Daily {
		if d.Result.IsPositive() {
			s.GoodDays++
		}
	}
	s.BadDays = len(s.Daily) - s.GoodDays
	if len(s.Daily) > 0 {
		s.AvgProfit = s.Profit.Div(decimal.NewFromInt(int64(len(s.Daily))))
	}

	s.TypeData = typeDistribution(s.Ads, s.Expense)
	return s
}

// dailySeries groups transactions by exact date value and sums each type
// per bucket, sorted ascending by date.
func dailySeries(txs []model.Transaction) []DailyPoint {
	buckets := make(map[string]*DailyPoint)
	for _, tx := range txs {
		b, ok := buckets[tx.Date]
		if !ok {
			b = &DailyPoint{Date: tx.Date}
			buckets[tx.Date] = b
		}
		switch tx.Type {
		case model.TypeAds:
			b.Ads = b.Ads.Add(tx.Amount)
		case model.TypeExpense:
			b.Expense = b.Expense.Add(tx.Amount)
		case model.TypeRevenue:
			b.Revenue = b.Revenue.Add(tx.Amount)
		}
	}

	series := make([]DailyPoint, 0, len(buckets))
	for _, b := range buckets {
		b.Costs = b.Ads.Add(b.Expense)
		b.Result = b.Revenue.Sub(b.Costs)
		series = append(series, *b)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// typeDistribution returns the cost-side breakdown used for visual
// proportion: ads and expense slices with fixed colors, nonzero sums only.
func typeDistribution(ads, expense decimal.Decimal) []TypeSlice {
	var slices []TypeSlice
	if ads.IsPositive() {
		slices = append(slices, TypeSlice{Name: "ads", Value: ads, Color: ColorAds})
	}
	if expense.IsPositive() {
		slices = append(slices, TypeSlice{Name: "expense", Value: expense, Color: ColorExpense})
	}
	return slices
}
