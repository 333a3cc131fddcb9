package services

import (
	"sync"
	"time"
)

// Restock cadence per shop category. Seeds and gears roll every five
// minutes, eggs and honey every thirty, cosmetics every four hours.
var restockIntervals = map[string]time.Duration{
	"seeds":     5 * time.Minute,
	"gears":     5 * time.Minute,
	"eggs":      30 * time.Minute,
	"honey":     30 * time.Minute,
	"cosmetics": 240 * time.Minute,
}

// StockCategories lists the categories in display order.
var StockCategories = []string{"seeds", "gears", "eggs", "honey", "cosmetics"}

// StockItem is a single sighted shop entry.
type StockItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// StockSnapshot is the GET /api/stock payload. RestockTimers carries
// absolute epoch-millisecond deadlines so clients render countdowns
// without knowing the cadence themselves.
type StockSnapshot struct {
	Stocks            map[string][]StockItem `json:"stocks"`
	LastSeen          map[string]int64       `json:"lastSeen"`
	RestockTimers     map[string]int64       `json:"restockTimers"`
	TimerCalculatedAt int64                  `json:"timerCalculatedAt"`
}

// StockService tracks shop sightings and computes restock deadlines.
// Sightings are in-memory only; an empty service still produces valid
// timers aligned to the interval grid.
type StockService struct {
	mu       sync.RWMutex
	stocks   map[string][]StockItem
	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewStockService() *StockService {
	return &StockService{
		stocks:   make(map[string][]StockItem),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// RecordSighting replaces the current stock for a category and stamps
// the sighting time, anchoring that category's restock timer.
func (s *StockService) RecordSighting(category string, items []StockItem) {
	if _, ok := restockIntervals[category]; !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[category] = items
	s.lastSeen[category] = s.now()
}

// Snapshot assembles the full stock payload.
func (s *StockService) Snapshot() *StockSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	snap := &StockSnapshot{
		Stocks:            make(map[string][]StockItem, len(StockCategories)),
		LastSeen:          make(map[string]int64, len(StockCategories)),
		RestockTimers:     make(map[string]int64, len(StockCategories)),
		TimerCalculatedAt: now.UnixMilli(),
	}

	for _, cat := range StockCategories {
		items := s.stocks[cat]
		if items == nil {
			items = []StockItem{}
		}
		snap.Stocks[cat] = items

		anchor, sighted := s.lastSeen[cat]
		if sighted {
			snap.LastSeen[cat] = anchor.UnixMilli()
		}
		snap.RestockTimers[cat] = nextRestock(anchor, restockIntervals[cat], now).UnixMilli()
	}
	return snap
}

// nextRestock advances from the anchor in whole intervals until the
// deadline is in the future. Without a sighting the grid is anchored
// to the top of the hour, which matches the in-game shop schedule.
func nextRestock(anchor time.Time, interval time.Duration, now time.Time) time.Time {
	if anchor.IsZero() {
		anchor = now.Truncate(time.Hour)
	}
	next := anchor.Add(interval)
	if !next.After(now) {
		elapsed := now.Sub(anchor)
		steps := elapsed/interval + 1
		next = anchor.Add(steps * interval)
	}
	return next
}
