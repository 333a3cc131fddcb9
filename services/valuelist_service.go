package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gardenexchange/backend/config"
	"github.com/gardenexchange/backend/logger"
)

const (
	valueListRange = "A:N"
	valueListTTL   = 5 * time.Minute
)

// Column headers in the community sheet mapped to JSON keys.
var valueListHeaderKeys = map[string]string{
	"name":         "name",
	"item":         "name",
	"value":        "value",
	"demand":       "demand",
	"trend":        "trend",
	"rarity":       "rarity",
	"hatch %":      "hatchPercent",
	"hatchpercent": "hatchPercent",
	"category":     "category",
	"image":        "imageUrl",
}

// ValueListEntry is one row of the community value list.
type ValueListEntry map[string]string

// ValueListService serves the community-maintained value list pulled
// from a Google Sheet. Responses are cached for five minutes; when no
// sheet is configured the service degrades to an empty list rather
// than failing the endpoint.
type ValueListService struct {
	cfg config.SheetsConfig

	mu        sync.Mutex
	cached    []ValueListEntry
	fetchedAt time.Time

	svc     *sheets.Service
	initErr error
	once    sync.Once
}

func NewValueListService(cfg config.SheetsConfig) *ValueListService {
	return &ValueListService{cfg: cfg}
}

func (v *ValueListService) Enabled() bool {
	return v.cfg.ValueSheetID != ""
}

// Get returns the value list, refreshing from the sheet when the cache
// is stale. A refresh failure serves the stale copy when one exists.
func (v *ValueListService) Get(ctx context.Context) ([]ValueListEntry, error) {
	if !v.Enabled() {
		return []ValueListEntry{}, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached != nil && time.Since(v.fetchedAt) < valueListTTL {
		return v.cached, nil
	}

	entries, err := v.fetch(ctx)
	if err != nil {
		if v.cached != nil {
			logger.LogError("Value list refresh failed, serving cached copy", err)
			return v.cached, nil
		}
		return nil, err
	}

	v.cached = entries
	v.fetchedAt = time.Now()
	return entries, nil
}

func (v *ValueListService) fetch(ctx context.Context) ([]ValueListEntry, error) {
	svc, err := v.client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(v.cfg.ValueSheetID, valueListRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("value list: sheet read failed: %w", err)
	}
	if len(resp.Values) < 2 {
		return []ValueListEntry{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		raw := strings.ToLower(strings.TrimSpace(fmt.Sprint(cell)))
		if key, ok := valueListHeaderKeys[raw]; ok {
			headers[i] = key
		}
	}

	entries := make([]ValueListEntry, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		entry := ValueListEntry{}
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if val := strings.TrimSpace(fmt.Sprint(cell)); val != "" {
				entry[headers[i]] = val
			}
		}
		if entry["name"] != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (v *ValueListService) client(ctx context.Context) (*sheets.Service, error) {
	v.once.Do(func() {
		opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
		if v.cfg.ServiceAccountKeyPath != "" {
			opts = append(opts, option.WithCredentialsFile(v.cfg.ServiceAccountKeyPath))
		}
		v.svc, v.initErr = sheets.NewService(ctx, opts...)
	})
	if v.initErr != nil {
		return nil, fmt.Errorf("value list: sheets client init failed: %w", v.initErr)
	}
	return v.svc, nil
}
