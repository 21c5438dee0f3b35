// Package quota tracks daily API-cost consumption against the platform's
// fixed budget. The record is keyed by calendar day and survives restarts
// through an injected store.
package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/store"
)

const (
	stateKey  = "quota:usage"
	dayLayout = "2006-01-02"
)

// State is the persisted day/usage pair.
type State struct {
	Day       string `json:"day"`
	UnitsUsed int    `json:"units_used"`
}

type Config struct {
	DailyLimit   int
	SafetyMargin int
	// HardLimit switches the ledger from report-only to reject mode:
	// Consume refuses work that would push usage past the budget.
	HardLimit bool
}

type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	Day       string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("API quota exceeded: used %d/%d (requested %d more) on %s",
		e.Used, e.Limit, e.Requested, e.Day)
}

type Ledger struct {
	store  store.Store
	logger *zap.Logger
	cfg    Config
	now    func() time.Time

	mu   sync.Mutex
	day  string
	used int
}

func NewLedger(ctx context.Context, st store.Store, cfg Config, logger *zap.Logger) (*Ledger, error) {
	l := &Ledger{
		store:  st,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}

	raw, ok, err := st.Get(ctx, stateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load quota state: %w", err)
	}

	// The persisted day is adopted as-is; rollover on the first real call
	// discards it when it is no longer today.
	l.day = l.today()
	if ok {
		var state State
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			logger.Warn("Discarding unreadable quota state", zap.Error(err))
		} else if state.Day != "" {
			l.day = state.Day
			l.used = state.UnitsUsed
		}
	}

	logger.Info("Quota ledger ready",
		zap.String("day", l.day),
		zap.Int("used", l.used),
		zap.Int("daily_limit", cfg.DailyLimit))

	return l, nil
}

// WithClock replaces the ledger's clock. Intended for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

func (l *Ledger) today() string {
	return l.now().Format(dayLayout)
}

// rollover must be called with the mutex held.
func (l *Ledger) rollover() {
	today := l.today()
	if today != l.day {
		l.logger.Info("Quota day changed, counter reset",
			zap.String("previous_day", l.day),
			zap.String("day", today),
			zap.Int("previous_used", l.used))
		l.day = today
		l.used = 0
	}
}

func (l *Ledger) budget() int {
	return l.cfg.DailyLimit - l.cfg.SafetyMargin
}

// Check reports whether cost units can be spent right now. Always nil in
// report-only mode.
func (l *Ledger) Check(cost int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()

	if l.cfg.HardLimit && l.used+cost > l.budget() {
		return &QuotaExceededError{
			Used:      l.used,
			Limit:     l.cfg.DailyLimit,
			Requested: cost,
			Day:       l.day,
		}
	}
	return nil
}

// Consume records cost units against today's budget and persists the new
// total before returning. In hard-limit mode a consumption that would exceed
// the budget is refused and nothing is recorded. The write happens after the
// in-memory update: a crash between the two under-counts, never double-counts.
func (l *Ledger) Consume(ctx context.Context, cost int) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()

	if l.cfg.HardLimit && l.used+cost > l.budget() {
		l.logger.Warn("Quota consumption refused",
			zap.Int("cost", cost),
			zap.Int("used", l.used),
			zap.Int("budget", l.budget()))
		return l.used, false
	}

	l.used += cost

	state, err := json.Marshal(State{Day: l.day, UnitsUsed: l.used})
	if err == nil {
		err = l.store.Set(ctx, stateKey, string(state))
	}
	if err != nil {
		l.logger.Warn("Failed to persist quota state", zap.Error(err))
	}

	remaining := l.cfg.DailyLimit - l.used
	l.logger.Debug("Quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", l.used),
		zap.Int("remaining", remaining))

	if remaining < l.cfg.DailyLimit/10 {
		l.logger.Warn("API quota running low",
			zap.Int("used", l.used),
			zap.Int("remaining", remaining))
	}

	return l.used, true
}

// Limit returns the configured daily budget.
func (l *Ledger) Limit() int {
	return l.cfg.DailyLimit
}

// Used returns today's consumption.
func (l *Ledger) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return l.used
}

// Status returns used units, remaining units and the day they belong to.
func (l *Ledger) Status() (used, remaining int, day string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return l.used, l.cfg.DailyLimit - l.used, l.day
}
