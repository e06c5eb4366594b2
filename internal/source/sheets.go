package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
	"github.com/ignite/inquiry-dashboard/internal/pkg/httpretry"
	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
)

const sheetsReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// SheetsSource reads a range through the Sheets v4 values API. Cells are
// requested as formatted values, so checkboxes arrive as "TRUE"/"FALSE".
type SheetsSource struct {
	client        httpretry.HTTPDoer
	baseURL       string
	spreadsheetID string
	readRange     string
}

type valueRange struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}

// NewSheetsSource authenticates with the service-account file in
// cfg.CredentialsFile, or Application Default Credentials when it is empty.
func NewSheetsSource(ctx context.Context, cfg config.SourceConfig) (*SheetsSource, error) {
	httpClient, err := sheetsHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	httpClient.Timeout = cfg.Timeout()
	return NewSheetsSourceWithClient(
		httpretry.NewRetryClient(httpClient, cfg.MaxRetries),
		cfg.SheetsBaseURL, cfg.SpreadsheetID, cfg.Range,
	), nil
}

// NewSheetsSourceWithClient uses an already authenticated client.
func NewSheetsSourceWithClient(client httpretry.HTTPDoer, baseURL, spreadsheetID, readRange string) *SheetsSource {
	return &SheetsSource{
		client:        client,
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}
}

func sheetsHTTPClient(ctx context.Context, cfg config.SourceConfig) (*http.Client, error) {
	if cfg.CredentialsFile == "" {
		client, err := google.DefaultClient(ctx, sheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("google default credentials: %w", err)
		}
		return client, nil
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", cfg.CredentialsFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}

func (s *SheetsSource) Name() string { return "sheets:" + s.spreadsheetID }

func (s *SheetsSource) FetchRows(ctx context.Context) ([]inquiry.RawRow, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=ROWS&valueRenderOption=FORMATTED_VALUE",
		s.baseURL, url.PathEscape(s.spreadsheetID), url.PathEscape(s.readRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("sheets API error (status %d): %s", resp.StatusCode, string(body))
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode sheets response: %w", err)
	}

	rows := make([]inquiry.RawRow, len(vr.Values))
	for i, v := range vr.Values {
		rows[i] = inquiry.RawRow(v)
	}
	rows = dropHeader(rows)
	logger.Debug("sheets rows fetched", "range", vr.Range, "rows", len(rows))
	return rows, nil
}
