package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"linkbio/internal/domain"
	"linkbio/pkg/logger"
)

// maxResponseBody bounds how much of a Tinybird response is read
const maxResponseBody = 1 << 20

// TinybirdClient talks to the Tinybird events and pipes APIs
type TinybirdClient struct {
	host       string
	token      string
	datasource string
	pipe       string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewTinybirdClient creates a client. host and token may be empty, in which
// case forwarding is skipped and reads report ErrSinkUnconfigured.
func NewTinybirdClient(host, token, datasource, pipe string, httpClient *http.Client, log *logger.Logger) *TinybirdClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TinybirdClient{
		host:       host,
		token:      token,
		datasource: datasource,
		pipe:       pipe,
		httpClient: httpClient,
		logger:     log,
	}
}

// Configured reports whether both endpoint and credential are set
func (c *TinybirdClient) Configured() bool {
	return c.host != "" && c.token != ""
}

type ingestResponse struct {
	SuccessfulRows  int `json:"successful_rows"`
	QuarantinedRows int `json:"quarantined_rows"`
}

// Forward posts one event to the datasource. Rejections are logged, not returned.
func (c *TinybirdClient) Forward(ctx context.Context, event *domain.ClickEvent) error {
	if !c.Configured() {
		return nil
	}

	body, err := json.Marshal(Project(event))
	if err != nil {
		return fmt.Errorf("encode click event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v0/events?name=%s", c.host, url.QueryEscape(c.datasource))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build tinybird request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to tinybird: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Tinybird rejected click event",
			"status", resp.StatusCode,
			"body", string(payload),
			"link_id", event.LinkID,
		)
		return nil
	}

	var result ingestResponse
	if err := json.Unmarshal(payload, &result); err == nil && result.QuarantinedRows > 0 {
		c.logger.Warn("Tinybird quarantined click event",
			"quarantined_rows", result.QuarantinedRows,
			"link_id", event.LinkID,
		)
	}
	return nil
}

// pipeRow is one row of the clicks pipe output
type pipeRow struct {
	Timestamp       string  `json:"timestamp"`
	ProfileUsername string  `json:"profileUsername"`
	ProfileUserID   string  `json:"profileUserId"`
	LinkID          string  `json:"linkId"`
	LinkTitle       string  `json:"linkTitle"`
	LinkURL         string  `json:"linkUrl"`
	UserAgent       string  `json:"userAgent"`
	Referrer        *string `json:"referrer"`
	VisitorID       string  `json:"visitorId"`
	Country         string  `json:"country"`
	Region          string  `json:"region"`
	City            string  `json:"city"`
	Latitude        string  `json:"latitude"`
	Longitude       string  `json:"longitude"`
}

type pipeResponse struct {
	Data []pipeRow `json:"data"`
}

// pipeTimeLayouts are the timestamp formats Tinybird may return
var pipeTimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"}

// Events reads the owner's events through the clicks pipe
func (c *TinybirdClient) Events(ctx context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error) {
	if !c.Configured() {
		return nil, domain.ErrSinkUnconfigured
	}

	params := url.Values{}
	params.Set("owner_id", q.OwnerID)
	params.Set("since", q.Since.UTC().Format(time.RFC3339))
	params.Set("until", q.Until.UTC().Format(time.RFC3339))
	if q.LinkID != "" {
		params.Set("link_id", q.LinkID)
	}

	endpoint := fmt.Sprintf("%s/v0/pipes/%s.json?%s", c.host, url.PathEscape(c.pipe), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tinybird query: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query tinybird: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		return nil, fmt.Errorf("tinybird pipe returned %d: %s", resp.StatusCode, payload)
	}

	var out pipeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*maxResponseBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tinybird pipe: %w", err)
	}

	events := make([]domain.ClickEvent, 0, len(out.Data))
	for _, row := range out.Data {
		ts, ok := parsePipeTime(row.Timestamp)
		if !ok {
			c.logger.Debug("Skipping pipe row with bad timestamp", "timestamp", row.Timestamp)
			continue
		}
		events = append(events, domain.ClickEvent{
			Timestamp:       ts,
			ProfileUsername: row.ProfileUsername,
			OwnerID:         row.ProfileUserID,
			LinkID:          row.LinkID,
			LinkTitle:       row.LinkTitle,
			LinkURL:         row.LinkURL,
			UserAgent:       row.UserAgent,
			Referrer:        row.Referrer,
			VisitorID:       row.VisitorID,
			Location: domain.Location{
				Country:   row.Country,
				Region:    row.Region,
				City:      row.City,
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			},
		})
	}
	return events, nil
}

func parsePipeTime(s string) (time.Time, bool) {
	for _, layout := range pipeTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
