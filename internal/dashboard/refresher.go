package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/inquiry-dashboard/internal/inquiry"
	"github.com/ignite/inquiry-dashboard/internal/monitoring"
	"github.com/ignite/inquiry-dashboard/internal/pkg/distlock"
	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
	"github.com/ignite/inquiry-dashboard/internal/source"
)

// HistoryStore persists one summary per successful refresh.
type HistoryStore interface {
	SaveRun(ctx context.Context, rec RefreshRecord) error
	Recent(ctx context.Context, limit int) ([]RefreshRecord, error)
}

// Status describes the most recent refresh attempt.
type Status struct {
	Running     bool      `json:"running"`
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
	SnapshotID  string    `json:"snapshotId,omitempty"`
	Refreshes   int       `json:"refreshes"`
}

// Options wires a Refresher. Source and Cache are required.
type Options struct {
	Source     source.RowSource
	Cache      Cache
	Classifier *inquiry.MediaClassifier
	// NewLock returns a fresh lock per refresh; nil disables locking.
	NewLock  func() distlock.DistLock
	History  HistoryStore
	Interval time.Duration
}

// Refresher loads the sheet, parses it and publishes the snapshot to the cache.
type Refresher struct {
	source   source.RowSource
	cache    Cache
	parser   *inquiry.Parser
	engine   *inquiry.Engine
	newLock  func() distlock.DistLock
	history  HistoryStore
	interval time.Duration

	mu     sync.Mutex
	status Status

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(opts Options) *Refresher {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		source:   opts.Source,
		cache:    opts.Cache,
		parser:   inquiry.NewParser(opts.Classifier),
		engine:   inquiry.NewEngine(opts.Classifier),
		newLock:  opts.NewLock,
		history:  opts.History,
		interval: interval,
	}
}

// Engine returns the aggregation engine sharing the refresher's taxonomy.
func (r *Refresher) Engine() *inquiry.Engine { return r.engine }

// Status returns a copy of the latest refresh status.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Refresh runs one fetch, parse and publish cycle. When another replica holds
// the refresh lock it returns ErrRefreshInProgress without fetching.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	if r.newLock == nil {
		return r.refresh(ctx)
	}

	var snap *Snapshot
	acquired, err := distlock.WithLock(ctx, r.newLock(), func(ctx context.Context) error {
		var err error
		snap, err = r.refresh(ctx)
		return err
	})
	if err != nil {
		if !acquired {
			return nil, fmt.Errorf("acquire refresh lock: %w", err)
		}
		return nil, err
	}
	if !acquired {
		monitoring.RefreshTotal.WithLabelValues("skipped").Inc()
		return nil, ErrRefreshInProgress
	}
	return snap, nil
}

func (r *Refresher) refresh(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	r.mu.Lock()
	r.status.Running = true
	r.status.LastAttempt = &start
	r.mu.Unlock()

	snap, err := r.load(ctx)

	r.mu.Lock()
	r.status.Running = false
	if err != nil {
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		generated := snap.GeneratedAt
		r.status.LastSuccess = &generated
		r.status.SnapshotID = snap.ID
		r.status.Refreshes++
	}
	r.mu.Unlock()

	monitoring.RefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.RefreshTotal.WithLabelValues("error").Inc()
		logger.Error("refresh failed", "source", r.source.Name(), "error", err)
		return nil, err
	}
	monitoring.RefreshTotal.WithLabelValues("ok").Inc()
	return snap, nil
}

func (r *Refresher) load(ctx context.Context) (*Snapshot, error) {
	rows, err := r.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rows from %s: %w", r.source.Name(), err)
	}

	inqs, contracts, report := r.parser.ParseWithReport(rows)
	snap := &Snapshot{
		ID:           uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Source:       r.source.Name(),
		MediaVersion: r.parser.Classifier().Version(),
		Inquiries:    inqs,
		Contracts:    contracts,
		Report:       report,
		Countable:    r.engine.CountInquiries(inqs),
	}
	recordParseMetrics(snap)

	if err := r.cache.Set(ctx, snap); err != nil {
		return nil, fmt.Errorf("publish snapshot: %w", err)
	}

	if r.history != nil {
		// History is informational; a failed write does not fail the refresh.
		if err := r.history.SaveRun(ctx, snap.Record()); err != nil {
			logger.Warn("save refresh history failed", "snapshot", snap.ID, "error", err)
		}
	}

	logger.Info("snapshot refreshed",
		"snapshot", snap.ID,
		"rows", report.Rows,
		"inquiries", len(inqs),
		"contracts", len(contracts),
		"countable", snap.Countable,
	)
	return snap, nil
}

func recordParseMetrics(snap *Snapshot) {
	monitoring.RowsParsed.WithLabelValues("inquiry").Add(float64(len(snap.Inquiries)))
	monitoring.RowsParsed.WithLabelValues("contract").Add(float64(len(snap.Contracts)))
	for reason, n := range snap.Report.InquiryDrops {
		monitoring.RowsDropped.WithLabelValues("inquiry", reason).Add(float64(n))
	}
	for reason, n := range snap.Report.ContractDrops {
		monitoring.RowsDropped.WithLabelValues("contract", reason).Add(float64(n))
	}
	monitoring.CountableInquiries.Set(float64(snap.Countable))
}

// Current returns the cached snapshot, refreshing on a miss. If another
// replica is mid-refresh, it waits briefly for that replica to publish.
func (r *Refresher) Current(ctx context.Context) (*Snapshot, error) {
	snap, err := r.cache.Get(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, ErrNoSnapshot) {
		logger.Warn("snapshot cache read failed", "error", err)
	}

	snap, err = r.Refresh(ctx)
	if !errors.Is(err, ErrRefreshInProgress) {
		return snap, err
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, ErrNoSnapshot
		case <-ticker.C:
			if snap, err := r.cache.Get(ctx); err == nil {
				return snap, nil
			}
		}
	}
}

// History returns the most recent refresh summaries.
func (r *Refresher) History(ctx context.Context, limit int) ([]RefreshRecord, error) {
	if r.history == nil {
		return nil, ErrHistoryDisabled
	}
	return r.history.Recent(ctx, limit)
}

// Start refreshes immediately and then on every interval until Stop.
func (r *Refresher) Start() {
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.done = make(chan struct{})
	logger.Info("starting snapshot refresher", "source", r.source.Name(), "interval", r.interval)
	go func() {
		defer close(r.done)
		r.runOnce()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.runOnce()
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight refresh to return.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Refresher) runOnce() {
	if _, err := r.Refresh(r.ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) && r.ctx.Err() == nil {
		logger.Warn("scheduled refresh failed", "error", err)
	}
}
