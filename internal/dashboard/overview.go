package dashboard

import (
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

// Overview is the combined payload of the dashboard landing page. Every
// breakdown is restricted to inquiries dated inside Period.
type Overview struct {
	SnapshotID   string                  `json:"snapshotId"`
	MediaVersion string                  `json:"mediaVersion"`
	Summary      inquiry.PeriodSummary   `json:"summary"`
	Attorneys    []inquiry.AttorneyStat  `json:"attorneys"`
	Fields       []inquiry.FieldStat     `json:"fields"`
	Media        []inquiry.CategoryStat  `json:"media"`
	Channels     []inquiry.ChannelStat   `json:"channels"`
	Flags        inquiry.FlagCounts      `json:"flags"`
	Trend        []inquiry.PeriodSummary `json:"trend"`
}

// BuildOverview assembles the overview of snap for period.
func BuildOverview(engine *inquiry.Engine, snap *Snapshot, period inquiry.Period) Overview {
	inPeriod := InquiriesIn(snap.Inquiries, period)
	return Overview{
		SnapshotID:   snap.ID,
		MediaVersion: snap.MediaVersion,
		Summary:      engine.ByCalendarPeriod(snap.Inquiries, snap.Contracts, period),
		Attorneys:    engine.ByAttorney(inPeriod),
		Fields:       engine.ByField(inPeriod),
		Media:        engine.ByMediaCategory(inPeriod),
		Channels:     engine.ByReceiptType(inPeriod),
		Flags:        engine.Flags(inPeriod),
		Trend:        engine.MonthlyTrend(snap.Inquiries, snap.Contracts, period.Year),
	}
}

// InquiriesIn returns the inquiries dated inside period.
func InquiriesIn(inqs []inquiry.Inquiry, period inquiry.Period) []inquiry.Inquiry {
	out := make([]inquiry.Inquiry, 0, len(inqs))
	for _, inq := range inqs {
		if period.Contains(inq.Date) {
			out = append(out, inq)
		}
	}
	return out
}

// ContractsIn returns the contracts whose contract date, or inquiry date
// when no contract date was recorded, falls inside period.
func ContractsIn(contracts []inquiry.Contract, period inquiry.Period) []inquiry.Contract {
	out := make([]inquiry.Contract, 0, len(contracts))
	for _, c := range contracts {
		if period.Contains(c.Date) {
			out = append(out, c)
		}
	}
	return out
}
