// Package dashboard turns sheet rows into cached snapshots and builds the
// views the dashboard endpoints serve from them.
package dashboard

import (
	"errors"
	"time"

	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

var (
	// ErrNoSnapshot means nothing has been loaded yet, or the cached copy expired.
	ErrNoSnapshot = errors.New("no snapshot available")
	// ErrRefreshInProgress means another replica holds the refresh lock.
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrHistoryDisabled is returned when no history store is configured.
	ErrHistoryDisabled = errors.New("refresh history not enabled")
)

// Snapshot is one parsed copy of the sheet.
type Snapshot struct {
	ID           string              `json:"id"`
	GeneratedAt  time.Time           `json:"generatedAt"`
	Source       string              `json:"source"`
	MediaVersion string              `json:"mediaVersion"`
	Inquiries    []inquiry.Inquiry   `json:"inquiries"`
	Contracts    []inquiry.Contract  `json:"contracts"`
	Report       inquiry.ParseReport `json:"report"`
	Countable    int                 `json:"countable"`
}

// RefreshRecord is the summary of a refresh kept in the history store.
type RefreshRecord struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Source       string    `json:"source"`
	MediaVersion string    `json:"mediaVersion"`
	Rows         int       `json:"rows"`
	InquiryRows  int       `json:"inquiryRows"`
	ContractRows int       `json:"contractRows"`
	Countable    int       `json:"countable"`
	Revenue      int64     `json:"revenue"`
	Dropped      int       `json:"dropped"`
}

// Record summarizes the snapshot for the history store.
func (s *Snapshot) Record() RefreshRecord {
	var revenue int64
	for _, c := range s.Contracts {
		revenue += inquiry.ParseAmount(c.AmountText)
	}
	dropped := 0
	for _, n := range s.Report.InquiryDrops {
		dropped += n
	}
	return RefreshRecord{
		ID:           s.ID,
		GeneratedAt:  s.GeneratedAt,
		Source:       s.Source,
		MediaVersion: s.MediaVersion,
		Rows:         s.Report.Rows,
		InquiryRows:  len(s.Inquiries),
		ContractRows: len(s.Contracts),
		Countable:    s.Countable,
		Revenue:      revenue,
		Dropped:      dropped,
	}
}
