package inquiry

import (
	"math"
	"sort"
	"strings"
)

// FieldPalette colors the per-field chart; groups beyond its length cycle.
var FieldPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#64748B",
}

// ByAttorney applies the default taxonomy. See Engine.ByAttorney.
func ByAttorney(inqs []Inquiry) []AttorneyStat { return defaultEngine.ByAttorney(inqs) }

// ByField applies the default taxonomy. See Engine.ByField.
func ByField(inqs []Inquiry) []FieldStat { return defaultEngine.ByField(inqs) }

// ByCalendarPeriod applies the default taxonomy. See Engine.ByCalendarPeriod.
func ByCalendarPeriod(inqs []Inquiry, contracts []Contract, period Period) PeriodSummary {
	return defaultEngine.ByCalendarPeriod(inqs, contracts, period)
}

// ByAttorney groups inquiries by attorney, sorted by inquiries descending then name.
func (e *Engine) ByAttorney(inqs []Inquiry) []AttorneyStat {
	groups := make(map[string][]Inquiry)
	var order []string
	for _, inq := range inqs {
		name := strings.TrimSpace(inq.Attorney)
		if name == "" {
			name = UnassignedAttorney
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], inq)
	}

	stats := make([]AttorneyStat, 0, len(order))
	for _, name := range order {
		group := groups[name]
		inquiries := e.CountInquiries(group)
		contracts := countContracts(group)
		stats = append(stats, AttorneyStat{
			Name:      name,
			Inquiries: inquiries,
			Contracts: contracts,
			Rate:      conversionRate(contracts, inquiries),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Inquiries != stats[j].Inquiries {
			return stats[i].Inquiries > stats[j].Inquiries
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// ByField groups inquiries by field in first-seen order. Colors follow the
// same order so a field keeps its color while the data set is unchanged.
func (e *Engine) ByField(inqs []Inquiry) []FieldStat {
	groups := make(map[string][]Inquiry)
	var order []string
	for _, inq := range inqs {
		name := strings.TrimSpace(inq.Field)
		if name == "" {
			name = OtherField
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], inq)
	}

	stats := make([]FieldStat, 0, len(order))
	for i, name := range order {
		stats = append(stats, FieldStat{
			Name:  name,
			Value: e.CountInquiries(groups[name]),
			Color: FieldPalette[i%len(FieldPalette)],
		})
	}
	return stats
}

// ByCalendarPeriod computes the KPI block for one period. Inquiries go
// through CountInquiries; contracts are counted per row, never deduplicated.
func (e *Engine) ByCalendarPeriod(inqs []Inquiry, contracts []Contract, period Period) PeriodSummary {
	var inPeriod []Inquiry
	for _, inq := range inqs {
		if period.Contains(inq.Date) {
			inPeriod = append(inPeriod, inq)
		}
	}

	totalContracts := 0
	var revenue int64
	for _, c := range contracts {
		if !period.Contains(contractPeriodDate(c)) {
			continue
		}
		totalContracts++
		revenue += ParseAmount(c.AmountText)
	}

	totalInquiries := e.CountInquiries(inPeriod)
	return PeriodSummary{
		Period:         period,
		TotalInquiries: totalInquiries,
		TotalContracts: totalContracts,
		TotalRevenue:   revenue,
		Rate:           conversionRate(totalContracts, totalInquiries),
	}
}

// MonthlyTrend returns the twelve monthly summaries of a year.
func (e *Engine) MonthlyTrend(inqs []Inquiry, contracts []Contract, year int) []PeriodSummary {
	out := make([]PeriodSummary, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, e.ByCalendarPeriod(inqs, contracts, Period{Unit: UnitMonth, Year: year, Index: m}))
	}
	return out
}

// ByMediaCategory breaks inquiries down by the category the classifier
// assigned at parse time. Excluded is never reported.
func (e *Engine) ByMediaCategory(inqs []Inquiry) []CategoryStat {
	groups := make(map[Category][]Inquiry)
	for _, inq := range inqs {
		groups[inq.SourceCategory] = append(groups[inq.SourceCategory], inq)
	}

	stats := make([]CategoryStat, 0, len(ReportedCategories))
	for _, cat := range ReportedCategories {
		group := groups[cat]
		inquiries := e.CountInquiries(group)
		contracts := countContracts(group)
		stats = append(stats, CategoryStat{
			Category:  cat,
			Inquiries: inquiries,
			Contracts: contracts,
			Rate:      conversionRate(contracts, inquiries),
		})
	}
	return stats
}

// ByReceiptType breaks inquiries down by channel. Unknown receipt types and
// the not-an-inquiry marker are reported under ReceiptOther.
func (e *Engine) ByReceiptType(inqs []Inquiry) []ChannelStat {
	channels := []ReceiptType{ReceiptWired, ReceiptChat, ReceiptOther}
	groups := make(map[ReceiptType][]Inquiry)
	for _, inq := range inqs {
		rt := inq.ReceiptType
		if rt != ReceiptWired && rt != ReceiptChat {
			rt = ReceiptOther
		}
		groups[rt] = append(groups[rt], inq)
	}

	stats := make([]ChannelStat, 0, len(channels))
	for _, rt := range channels {
		stats = append(stats, ChannelStat{ReceiptType: rt, Inquiries: e.CountInquiries(groups[rt])})
	}
	return stats
}

// Flags tallies visit and reminder flags, skipping hard-excluded rows.
func (e *Engine) Flags(inqs []Inquiry) FlagCounts {
	var fc FlagCounts
	for _, inq := range inqs {
		if e.classifier.IsHardExcluded(inq.DetailSource) {
			continue
		}
		if inq.IsVisit {
			fc.Visits++
		}
		if inq.IsReminder {
			fc.Reminders++
		}
	}
	return fc
}

func contractPeriodDate(c Contract) string {
	if c.ContractDate != "" {
		return c.ContractDate
	}
	return c.Date
}

func countContracts(inqs []Inquiry) int {
	n := 0
	for _, inq := range inqs {
		if inq.IsContract {
			n++
		}
	}
	return n
}

// conversionRate is contracts/inquiries*100 to one decimal, 0 when there are
// no inquiries.
func conversionRate(contracts, inquiries int) float64 {
	if inquiries == 0 {
		return 0
	}
	return math.Round(float64(contracts)/float64(inquiries)*1000) / 10
}
