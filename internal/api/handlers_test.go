package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/dashboard"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

// MockProvider serves a fixed snapshot.
type MockProvider struct {
	snap       *dashboard.Snapshot
	currentErr error
	refreshErr error
	status     dashboard.Status
	history    []dashboard.RefreshRecord
	historyErr error
	refreshes  int
}

func (m *MockProvider) Current(context.Context) (*dashboard.Snapshot, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	return m.snap, nil
}

func (m *MockProvider) Refresh(context.Context) (*dashboard.Snapshot, error) {
	m.refreshes++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.snap, nil
}

func (m *MockProvider) Status() dashboard.Status { return m.status }

func (m *MockProvider) History(_ context.Context, limit int) ([]dashboard.RefreshRecord, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if limit < len(m.history) {
		return m.history[:limit], nil
	}
	return m.history, nil
}

func (m *MockProvider) Engine() *inquiry.Engine { return inquiry.NewEngine(nil) }

func testSnapshot() *dashboard.Snapshot {
	inqs := []inquiry.Inquiry{
		{ID: "00001", Date: "2025-11-03", Attorney: "김변리", Field: "상표", DetailSource: "홈페이지", ReceiptType: inquiry.ReceiptWired, SourceCategory: inquiry.CategoryHomeAndPaidAds, IsContract: true},
		{ID: "00002", Date: "2025-12-05", Attorney: "이변리", Field: "특허", DetailSource: "리마인드CRM", Phone: "010-1111-2222", ReceiptType: inquiry.ReceiptWired, SourceCategory: inquiry.CategoryOther},
		{ID: "00003", Date: "2025-12-20", Attorney: "이변리", Field: "특허", DetailSource: "리마인드CRM", Phone: "010-1111-2222", ReceiptType: inquiry.ReceiptChat, SourceCategory: inquiry.CategoryOther, IsContract: true},
		{ID: "00004", Date: "2025-12-21", Attorney: "", Field: "상표", DetailSource: "유튜브", ReceiptType: inquiry.ReceiptChat, SourceCategory: inquiry.CategoryViral},
	}
	contracts := []inquiry.Contract{
		{ID: "00001", Date: "2025-12-02", InquiryDate: "2025-11-03", ContractDate: "2025-12-02", AmountText: "275,000(상표)\n165,000(갱신)", Amount: "440000"},
		{ID: "00002", Date: "2025-12-22", InquiryDate: "2025-12-20", ContractDate: "2025-12-22", AmountText: "1980000, 550000", Amount: "2530000"},
	}
	return &dashboard.Snapshot{
		ID:           "snap-1",
		GeneratedAt:  time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC),
		Source:       "fake",
		MediaVersion: inquiry.DefaultMediaTables.Version,
		Inquiries:    inqs,
		Contracts:    contracts,
		Countable:    3,
	}
}

func setupTestServer(t *testing.T, provider *MockProvider) http.Handler {
	t.Helper()
	h := NewHandlers(provider)
	h.now = func() time.Time { return time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC) }
	return SetupRoutes(h, nil)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func TestHealthCheck(t *testing.T) {
	provider := &MockProvider{snap: testSnapshot()}
	handler := setupTestServer(t, provider)

	var body map[string]interface{}
	rec := doRequest(t, handler, http.MethodGet, "/health", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])

	success := time.Now()
	provider.status = dashboard.Status{LastSuccess: &success, SnapshotID: "snap-1"}
	doRequest(t, handler, http.MethodGet, "/health", &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "snap-1", body["snapshot_id"])
}

func TestListInquiries(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var body struct {
		SnapshotID string            `json:"snapshotId"`
		Total      int               `json:"total"`
		Countable  int               `json:"countable"`
		Inquiries  []inquiry.Inquiry `json:"inquiries"`
	}
	rec := doRequest(t, handler, http.MethodGet, "/api/inquiries", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snap-1", body.SnapshotID)
	assert.Equal(t, 4, body.Total)
	assert.Equal(t, 3, body.Countable)

	doRequest(t, handler, http.MethodGet, "/api/inquiries?unit=month&year=2025&index=12&category=other", &body)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Countable)
}

func TestListContracts(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var body struct {
		Total   int   `json:"total"`
		Revenue int64 `json:"revenue"`
	}
	rec := doRequest(t, handler, http.MethodGet, "/api/contracts?unit=month&year=2025&index=12", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, int64(2970000), body.Revenue)
}

func TestAttorneyStats(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var stats []inquiry.AttorneyStat
	rec := doRequest(t, handler, http.MethodGet, "/api/stats/attorneys", &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stats, 3)
	assert.Equal(t, "김변리", stats[0].Name)
	assert.Equal(t, inquiry.UnassignedAttorney, stats[1].Name)
	assert.Equal(t, inquiry.AttorneyStat{Name: "이변리", Inquiries: 1, Contracts: 1, Rate: 100}, stats[2])
}

func TestFieldMediaAndChannelStats(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var fields []inquiry.FieldStat
	doRequest(t, handler, http.MethodGet, "/api/stats/fields", &fields)
	require.Len(t, fields, 2)
	assert.Equal(t, "상표", fields[0].Name)
	assert.Equal(t, 2, fields[0].Value)
	assert.Equal(t, 1, fields[1].Value)

	var media []inquiry.CategoryStat
	doRequest(t, handler, http.MethodGet, "/api/stats/media?unit=quarter&year=2025&index=4", &media)
	require.Len(t, media, 3)
	assert.Equal(t, 1, media[0].Inquiries)

	var channels []inquiry.ChannelStat
	doRequest(t, handler, http.MethodGet, "/api/stats/channels", &channels)
	require.Len(t, channels, 3)
	assert.Equal(t, 2, channels[0].Inquiries)
	assert.Equal(t, 2, channels[1].Inquiries)
}

func TestPeriodStats(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var summary inquiry.PeriodSummary
	rec := doRequest(t, handler, http.MethodGet, "/api/stats/period?unit=month&year=2025&index=12", &summary)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, summary.TotalInquiries)
	assert.Equal(t, 2, summary.TotalContracts)
	assert.Equal(t, int64(2970000), summary.TotalRevenue)
	assert.Equal(t, 100.0, summary.Rate)

	// Defaults to the month containing "now".
	doRequest(t, handler, http.MethodGet, "/api/stats/period", &summary)
	assert.Equal(t, "2025-12", summary.Period.String())

	rec = doRequest(t, handler, http.MethodGet, "/api/stats/period?unit=week", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, handler, http.MethodGet, "/api/stats/period?unit=month&index=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, handler, http.MethodGet, "/api/stats/period?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendAndOverview(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{snap: testSnapshot()})

	var trend []inquiry.PeriodSummary
	rec := doRequest(t, handler, http.MethodGet, "/api/stats/trend?year=2025", &trend)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, trend, 12)
	assert.Equal(t, 1, trend[10].TotalInquiries)
	assert.Equal(t, 2, trend[11].TotalInquiries)

	var ov dashboard.Overview
	rec = doRequest(t, handler, http.MethodGet, "/api/overview?unit=quarter&year=2025&index=4", &ov)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snap-1", ov.SnapshotID)
	assert.Equal(t, 3, ov.Summary.TotalInquiries)
	assert.Len(t, ov.Attorneys, 3)
	assert.Len(t, ov.Trend, 12)
}

func TestSnapshotUnavailable(t *testing.T) {
	handler := setupTestServer(t, &MockProvider{currentErr: dashboard.ErrNoSnapshot})
	rec := doRequest(t, handler, http.MethodGet, "/api/stats/attorneys", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	handler = setupTestServer(t, &MockProvider{currentErr: errors.New("redis: connection refused to 10.0.0.5")})
	rec = doRequest(t, handler, http.MethodGet, "/api/overview", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestTriggerRefresh(t *testing.T) {
	provider := &MockProvider{snap: testSnapshot()}
	handler := setupTestServer(t, provider)

	var body map[string]interface{}
	rec := doRequest(t, handler, http.MethodPost, "/api/refresh", &body)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "snap-1", body["snapshotId"])
	assert.Equal(t, 1, provider.refreshes)

	provider.refreshErr = dashboard.ErrRefreshInProgress
	rec = doRequest(t, handler, http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/refresh", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefreshStatusAndHistory(t *testing.T) {
	provider := &MockProvider{
		snap:   testSnapshot(),
		status: dashboard.Status{SnapshotID: "snap-1", Refreshes: 4},
		history: []dashboard.RefreshRecord{
			{ID: "snap-1", Countable: 3},
			{ID: "snap-0", Countable: 2},
		},
	}
	handler := setupTestServer(t, provider)

	var st dashboard.Status
	doRequest(t, handler, http.MethodGet, "/api/refresh/status", &st)
	assert.Equal(t, 4, st.Refreshes)

	var records []dashboard.RefreshRecord
	rec := doRequest(t, handler, http.MethodGet, "/api/history?limit=1", &records)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, records, 1)
	assert.Equal(t, "snap-1", records[0].ID)

	rec = doRequest(t, handler, http.MethodGet, "/api/history?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	provider.historyErr = dashboard.ErrHistoryDisabled
	rec = doRequest(t, handler, http.MethodGet, "/api/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerHandler(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 0}, &MockProvider{snap: testSnapshot()})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
