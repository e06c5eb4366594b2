package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ignite/inquiry-dashboard/internal/dashboard"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
	"github.com/ignite/inquiry-dashboard/internal/pkg/httputil"
)

// SnapshotProvider is the part of dashboard.Refresher the handlers use.
type SnapshotProvider interface {
	Current(ctx context.Context) (*dashboard.Snapshot, error)
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
	Status() dashboard.Status
	History(ctx context.Context, limit int) ([]dashboard.RefreshRecord, error)
	Engine() *inquiry.Engine
}

// Handlers contains all HTTP handlers
type Handlers struct {
	provider SnapshotProvider
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(provider SnapshotProvider) *Handlers {
	return &Handlers{provider: provider, now: time.Now}
}

// HealthCheck reports degraded while no refresh has succeeded or the last one failed.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	st := h.provider.Status()
	status := "healthy"
	if st.LastSuccess == nil || st.LastError != "" {
		status = "degraded"
	}
	httputil.OK(w, map[string]interface{}{
		"status":       status,
		"timestamp":    h.now().UTC(),
		"last_success": st.LastSuccess,
		"snapshot_id":  st.SnapshotID,
	})
}

// snapshot loads the current snapshot or writes the error response.
func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	snap, err := h.provider.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return snap, true
}

// periodFromQuery reads unit, year and index. With required false and no
// unit given it returns nil, meaning the whole sheet.
func (h *Handlers) periodFromQuery(r *http.Request, required bool) (*inquiry.Period, error) {
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		if !required {
			return nil, nil
		}
		unit = string(inquiry.UnitMonth)
	}

	def := inquiry.PeriodContaining(inquiry.PeriodUnit(strings.ToLower(unit)), h.now())
	year, err := httputil.QueryInt(r, "year", def.Year)
	if err != nil {
		return nil, err
	}
	index, err := httputil.QueryInt(r, "index", def.Index)
	if err != nil {
		return nil, err
	}
	p, err := inquiry.NewPeriod(unit, year, index)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *Handlers) filteredInquiries(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, []inquiry.Inquiry, bool) {
	period, err := h.periodFromQuery(r, false)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return nil, nil, false
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return nil, nil, false
	}
	if period == nil {
		return snap, snap.Inquiries, true
	}
	return snap, dashboard.InquiriesIn(snap.Inquiries, *period), true
}

// ListInquiries returns parsed inquiry records, optionally limited to a
// period and a media category.
func (h *Handlers) ListInquiries(w http.ResponseWriter, r *http.Request) {
	snap, inqs, ok := h.filteredInquiries(w, r)
	if !ok {
		return
	}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := make([]inquiry.Inquiry, 0, len(inqs))
		for _, inq := range inqs {
			if string(inq.SourceCategory) == cat {
				filtered = append(filtered, inq)
			}
		}
		inqs = filtered
	}
	httputil.OK(w, map[string]interface{}{
		"snapshotId": snap.ID,
		"total":      len(inqs),
		"countable":  h.provider.Engine().CountInquiries(inqs),
		"inquiries":  inqs,
	})
}

// ListContracts returns parsed contract records, optionally limited to a period.
func (h *Handlers) ListContracts(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r, false)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	contracts := snap.Contracts
	if period != nil {
		contracts = dashboard.ContractsIn(contracts, *period)
	}
	var revenue int64
	for _, c := range contracts {
		revenue += inquiry.ParseAmount(c.AmountText)
	}
	httputil.OK(w, map[string]interface{}{
		"snapshotId": snap.ID,
		"total":      len(contracts),
		"revenue":    revenue,
		"contracts":  contracts,
	})
}

func (h *Handlers) AttorneyStats(w http.ResponseWriter, r *http.Request) {
	if _, inqs, ok := h.filteredInquiries(w, r); ok {
		httputil.OK(w, h.provider.Engine().ByAttorney(inqs))
	}
}

func (h *Handlers) FieldStats(w http.ResponseWriter, r *http.Request) {
	if _, inqs, ok := h.filteredInquiries(w, r); ok {
		httputil.OK(w, h.provider.Engine().ByField(inqs))
	}
}

func (h *Handlers) MediaStats(w http.ResponseWriter, r *http.Request) {
	if _, inqs, ok := h.filteredInquiries(w, r); ok {
		httputil.OK(w, h.provider.Engine().ByMediaCategory(inqs))
	}
}

func (h *Handlers) ChannelStats(w http.ResponseWriter, r *http.Request) {
	if _, inqs, ok := h.filteredInquiries(w, r); ok {
		httputil.OK(w, h.provider.Engine().ByReceiptType(inqs))
	}
}

// PeriodStats returns the KPI block of one month, quarter or year. The
// current month is used when no unit is given.
func (h *Handlers) PeriodStats(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r, true)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	httputil.OK(w, h.provider.Engine().ByCalendarPeriod(snap.Inquiries, snap.Contracts, *period))
}

// Trend returns twelve monthly summaries for ?year (default: this year).
func (h *Handlers) Trend(w http.ResponseWriter, r *http.Request) {
	year, err := httputil.QueryInt(r, "year", h.now().Year())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if _, err := inquiry.NewPeriod(string(inquiry.UnitYear), year, 0); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	httputil.OK(w, h.provider.Engine().MonthlyTrend(snap.Inquiries, snap.Contracts, year))
}

// Overview returns every dashboard widget for one period in a single payload.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r, true)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	httputil.OK(w, dashboard.BuildOverview(h.provider.Engine(), snap, *period))
}

// TriggerRefresh re-reads the sheet now instead of waiting for the next tick.
func (h *Handlers) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.provider.Refresh(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Accepted(w, map[string]interface{}{
		"snapshotId":  snap.ID,
		"generatedAt": snap.GeneratedAt,
		"report":      snap.Report,
	})
}

func (h *Handlers) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.provider.Status())
}

// History lists recent refresh summaries, newest first.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 20)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if limit < 1 {
		httputil.BadRequest(w, fmt.Sprintf("limit must be positive, got %d", limit))
		return
	}
	records, err := h.provider.History(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, records)
}
