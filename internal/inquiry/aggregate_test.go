package inquiry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByAttorney(t *testing.T) {
	inqs := []Inquiry{
		{Date: "2025-12-01", Attorney: "김변리", DetailSource: "홈페이지", IsContract: true},
		{Date: "2025-12-02", Attorney: " 김변리 ", DetailSource: "유튜브"},
		{Date: "2025-12-03", Attorney: "김변리", DetailSource: "지인소개"},
		{Date: "2025-12-04", Attorney: "이변리", DetailSource: "홈페이지", IsContract: true},
		{Date: "2025-12-05", Attorney: "", DetailSource: "홈페이지"},
		{Date: "2025-12-06", Attorney: "   ", DetailSource: "리마인드CRM", Phone: "010-1"},
		{Date: "2025-12-07", Attorney: "", DetailSource: "리마인드CRM", Phone: "010-1"},
	}

	stats := ByAttorney(inqs)
	require.Len(t, stats, 3)

	assert.Equal(t, AttorneyStat{Name: "김변리", Inquiries: 3, Contracts: 1, Rate: 33.3}, stats[0])
	assert.Equal(t, AttorneyStat{Name: UnassignedAttorney, Inquiries: 2, Contracts: 0, Rate: 0}, stats[1])
	assert.Equal(t, AttorneyStat{Name: "이변리", Inquiries: 1, Contracts: 1, Rate: 100}, stats[2])
}

func TestByAttorneyZeroInquiries(t *testing.T) {
	assert.Empty(t, ByAttorney(nil))

	// Every row is hard-excluded, so the attorney has contracts but no countable inquiries.
	stats := ByAttorney([]Inquiry{
		{Date: "2025-12-01", Attorney: "박변리", DetailSource: "기존고객", IsContract: true},
	})
	require.Len(t, stats, 1)
	assert.Equal(t, 0, stats[0].Inquiries)
	assert.Equal(t, 1, stats[0].Contracts)
	assert.Equal(t, 0.0, stats[0].Rate)
}

func TestByAttorneyTieBreaksByName(t *testing.T) {
	stats := ByAttorney([]Inquiry{
		{Date: "2025-12-01", Attorney: "최변리", DetailSource: "홈페이지"},
		{Date: "2025-12-01", Attorney: "강변리", DetailSource: "홈페이지"},
	})
	require.Len(t, stats, 2)
	assert.Equal(t, "강변리", stats[0].Name)
	assert.Equal(t, "최변리", stats[1].Name)
}

func TestByField(t *testing.T) {
	inqs := []Inquiry{
		{Date: "2025-12-01", Field: "상표", DetailSource: "홈페이지"},
		{Date: "2025-12-01", Field: "특허", DetailSource: "홈페이지"},
		{Date: "2025-12-02", Field: "상표", DetailSource: "리마인드CRM", Phone: "010-1"},
		{Date: "2025-12-03", Field: "상표", DetailSource: "리마인드CRM", Phone: "010-1"},
		{Date: "2025-12-03", Field: "", DetailSource: "홈페이지"},
		{Date: "2025-12-03", Field: "디자인", DetailSource: "기존고객"},
	}

	stats := ByField(inqs)
	require.Len(t, stats, 4)
	assert.Equal(t, FieldStat{Name: "상표", Value: 2, Color: FieldPalette[0]}, stats[0])
	assert.Equal(t, FieldStat{Name: "특허", Value: 1, Color: FieldPalette[1]}, stats[1])
	assert.Equal(t, FieldStat{Name: OtherField, Value: 1, Color: FieldPalette[2]}, stats[2])
	assert.Equal(t, FieldStat{Name: "디자인", Value: 0, Color: FieldPalette[3]}, stats[3])
}

func TestByFieldPaletteCycles(t *testing.T) {
	var inqs []Inquiry
	for i := 0; i < len(FieldPalette)+2; i++ {
		inqs = append(inqs, Inquiry{Date: "2025-12-01", Field: fmt.Sprintf("분야%02d", i), DetailSource: "홈페이지"})
	}
	stats := ByField(inqs)
	require.Len(t, stats, len(FieldPalette)+2)
	assert.Equal(t, FieldPalette[0], stats[len(FieldPalette)].Color)
	assert.Equal(t, FieldPalette[1], stats[len(FieldPalette)+1].Color)
}

func periodFixture() ([]Inquiry, []Contract) {
	inqs := []Inquiry{
		{Date: "2025-10-15", DetailSource: "홈페이지"},
		{Date: "2025-11-03", DetailSource: "홈페이지"},
		{Date: "2025-12-05", DetailSource: "리마인드CRM", Phone: "010-1111-2222"},
		{Date: "2025-12-20", DetailSource: "리마인드CRM", Phone: "010-1111-2222"},
		{Date: "2025-12-21", DetailSource: "유튜브"},
		{Date: "2025-12-22", DetailSource: "기존고객"},
		{Date: "2024-12-10", DetailSource: "홈페이지"},
	}
	contracts := []Contract{
		{Date: "2025-12-02", InquiryDate: "2025-11-03", ContractDate: "2025-12-02", AmountText: "275,000(상표)\n165,000(갱신)"},
		{Date: "2025-12-24", InquiryDate: "2025-12-24", AmountText: "1980000, 550000"},
		{Date: "2025-10-20", InquiryDate: "2025-10-15", ContractDate: "2025-10-20", AmountText: "110000 or 275000"},
		{Date: "2024-12-11", InquiryDate: "2024-12-10", AmountText: ""},
	}
	return inqs, contracts
}

func TestByCalendarPeriod(t *testing.T) {
	inqs, contracts := periodFixture()

	tests := []struct {
		name   string
		period Period
		want   PeriodSummary
	}{
		{
			name:   "month",
			period: Period{Unit: UnitMonth, Year: 2025, Index: 12},
			want:   PeriodSummary{TotalInquiries: 2, TotalContracts: 2, TotalRevenue: 2970000, Rate: 100},
		},
		{
			name:   "quarter",
			period: Period{Unit: UnitQuarter, Year: 2025, Index: 4},
			want:   PeriodSummary{TotalInquiries: 4, TotalContracts: 3, TotalRevenue: 3355000, Rate: 75},
		},
		{
			name:   "year",
			period: Period{Unit: UnitYear, Year: 2024},
			want:   PeriodSummary{TotalInquiries: 1, TotalContracts: 1, TotalRevenue: 0, Rate: 100},
		},
		{
			name:   "empty period",
			period: Period{Unit: UnitMonth, Year: 2025, Index: 1},
			want:   PeriodSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByCalendarPeriod(inqs, contracts, tt.period)
			tt.want.Period = tt.period
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByCalendarPeriodContractsAreNotDeduplicated(t *testing.T) {
	inqs := []Inquiry{{Date: "2025-12-01", DetailSource: "홈페이지"}}
	contracts := []Contract{
		{Date: "2025-12-02", Phone: "010-1", DetailSource: "리마인드CRM", AmountText: "100000"},
		{Date: "2025-12-03", Phone: "010-1", DetailSource: "리마인드CRM", AmountText: "100000"},
		{Date: "2025-12-04", Phone: "010-1", DetailSource: "리마인드CRM", AmountText: "100000"},
	}
	got := ByCalendarPeriod(inqs, contracts, Period{Unit: UnitMonth, Year: 2025, Index: 12})
	assert.Equal(t, 3, got.TotalContracts)
	assert.Equal(t, int64(300000), got.TotalRevenue)
	assert.Equal(t, 300.0, got.Rate)
}

func TestMonthlyTrend(t *testing.T) {
	inqs, contracts := periodFixture()
	trend := NewEngine(nil).MonthlyTrend(inqs, contracts, 2025)
	require.Len(t, trend, 12)
	assert.Equal(t, 1, trend[9].TotalInquiries)
	assert.Equal(t, 1, trend[9].TotalContracts)
	assert.Equal(t, 1, trend[10].TotalInquiries)
	assert.Equal(t, 0, trend[10].TotalContracts)
	assert.Equal(t, 2, trend[11].TotalInquiries)
	assert.Equal(t, "2025-12", trend[11].Period.String())
}

func TestByMediaCategory(t *testing.T) {
	inqs := []Inquiry{
		{Date: "2025-12-01", DetailSource: "홈페이지", SourceCategory: CategoryHomeAndPaidAds, IsContract: true},
		{Date: "2025-12-01", DetailSource: "네이버 파워링크", SourceCategory: CategoryHomeAndPaidAds},
		{Date: "2025-12-01", DetailSource: "유튜브", SourceCategory: CategoryViral},
		{Date: "2025-12-01", DetailSource: "기존고객", SourceCategory: CategoryExcluded, IsContract: true},
		{Date: "2025-12-02", DetailSource: "리마인드CRM", SourceCategory: CategoryOther, Phone: "010-1"},
		{Date: "2025-12-03", DetailSource: "리마인드CRM", SourceCategory: CategoryOther, Phone: "010-1"},
	}

	stats := NewEngine(nil).ByMediaCategory(inqs)
	require.Len(t, stats, 3)
	assert.Equal(t, CategoryStat{Category: CategoryHomeAndPaidAds, Inquiries: 2, Contracts: 1, Rate: 50}, stats[0])
	assert.Equal(t, CategoryStat{Category: CategoryViral, Inquiries: 1}, stats[1])
	assert.Equal(t, CategoryStat{Category: CategoryOther, Inquiries: 1}, stats[2])
}

func TestByReceiptType(t *testing.T) {
	inqs := []Inquiry{
		{Date: "2025-12-01", DetailSource: "홈페이지", ReceiptType: ReceiptWired},
		{Date: "2025-12-01", DetailSource: "홈페이지", ReceiptType: ReceiptWired},
		{Date: "2025-12-01", DetailSource: "유튜브", ReceiptType: ReceiptChat},
		{Date: "2025-12-01", DetailSource: "지인소개", ReceiptType: ReceiptNotInquiry},
		{Date: "2025-12-01", DetailSource: "지인소개", ReceiptType: "카카오톡"},
	}

	stats := NewEngine(nil).ByReceiptType(inqs)
	assert.Equal(t, []ChannelStat{
		{ReceiptType: ReceiptWired, Inquiries: 2},
		{ReceiptType: ReceiptChat, Inquiries: 1},
		{ReceiptType: ReceiptOther, Inquiries: 2},
	}, stats)
}

func TestFlags(t *testing.T) {
	inqs := []Inquiry{
		{DetailSource: "홈페이지", IsVisit: true, IsReminder: true},
		{DetailSource: "유튜브", IsVisit: true},
		{DetailSource: "기존고객", IsVisit: true, IsReminder: true},
	}
	assert.Equal(t, FlagCounts{Visits: 2, Reminders: 1}, NewEngine(nil).Flags(inqs))
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, conversionRate(5, 0))
	assert.Equal(t, 33.3, conversionRate(1, 3))
	assert.Equal(t, 66.7, conversionRate(2, 3))
	assert.Equal(t, 12.5, conversionRate(1, 8))
}

func TestPeriod(t *testing.T) {
	p, err := NewPeriod("Month", 2025, 12)
	require.NoError(t, err)
	assert.Equal(t, Period{Unit: UnitMonth, Year: 2025, Index: 12}, p)
	assert.True(t, p.Contains("2025-12-31"))
	assert.False(t, p.Contains("2025-11-30"))
	assert.False(t, p.Contains(""))

	q, err := NewPeriod("quarter", 2025, 1)
	require.NoError(t, err)
	assert.True(t, q.Contains("2025-03-31"))
	assert.False(t, q.Contains("2025-04-01"))
	assert.Equal(t, "2025-Q1", q.String())

	y, err := NewPeriod("year", 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, y.Index)
	assert.Equal(t, "2025", y.String())

	_, err = NewPeriod("week", 2025, 1)
	assert.Error(t, err)
	_, err = NewPeriod("month", 2025, 13)
	assert.Error(t, err)
	_, err = NewPeriod("quarter", 2025, 0)
	assert.Error(t, err)
}
