package diagnosis

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/zuro/agenda/internal/platform/events"
	"github.com/zuro/agenda/internal/platform/kvstore"
)

// History is the append-only log of generations stored under aiDiagnoses.
// Entries are kept in insertion order; use SortByRecency for display.
type History struct {
	mu      sync.Mutex
	kv      kvstore.Store
	events  events.Publisher
	logger  zerolog.Logger
	now     func() time.Time
	entries []HistoryEntry
}

// OpenHistory loads the stored log. A missing key is an empty log.
func OpenHistory(ctx context.Context, kv kvstore.Store, pub events.Publisher, logger zerolog.Logger) (*History, error) {
	if pub == nil {
		pub = events.Nop{}
	}
	h := &History{kv: kv, events: pub, logger: logger, now: time.Now}
	var stored []HistoryEntry
	if _, err := kvstore.GetJSON(ctx, kv, kvstore.KeyDiagnoses, &stored); err != nil {
		return nil, fmt.Errorf("load diagnosis history: %w", err)
	}
	if stored == nil {
		stored = []HistoryEntry{}
	}
	h.entries = stored
	return h, nil
}

// Record appends an entry stamped with the current time. IDs are unix
// milliseconds and are bumped past the newest id when two records land in
// the same millisecond.
func (h *History) Record(ctx context.Context, profession Profession, input string, result Result) (HistoryEntry, error) {
	h.mu.Lock()
	now := h.now().UTC()
	id := now.UnixMilli()
	if n := len(h.entries); n > 0 && h.entries[n-1].ID >= id {
		id = h.entries[n-1].ID + 1
	}
	entry := HistoryEntry{
		ID:         id,
		Profession: profession,
		Input:      input,
		Result:     result.clone(),
		Date:       now.Format(time.RFC3339Nano),
	}
	next := append(slices.Clone(h.entries), entry)
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return HistoryEntry{}, err
	}

	h.publish(ctx, events.New(events.DiagnosisRecorded, subject(id), map[string]any{"profession": string(profession)}))
	return entry, nil
}

// Remove deletes the entry with id. Removing an unknown id still persists
// the unchanged list and is not an error.
func (h *History) Remove(ctx context.Context, id int64) error {
	h.mu.Lock()
	next := lo.Reject(h.entries, func(e HistoryEntry, _ int) bool { return e.ID == id })
	removed := len(next) != len(h.entries)
	err := h.commit(ctx, next)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	if removed {
		h.publish(ctx, events.New(events.DiagnosisRemoved, subject(id), nil))
	}
	return nil
}

// Clear empties the log.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	count := len(h.entries)
	err := h.commit(ctx, []HistoryEntry{})
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.publish(ctx, events.New(events.DiagnosisCleared, "diagnosis", map[string]any{"count": count}))
	return nil
}

// List returns the entries oldest first.
func (h *History) List() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries)
}

// SortByRecency returns a copy of entries ordered newest first by date.
func SortByRecency(entries []HistoryEntry) []HistoryEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b HistoryEntry) int {
		return b.time().Compare(a.time())
	})
	return out
}

func (h *History) commit(ctx context.Context, next []HistoryEntry) error {
	if err := kvstore.PutJSON(ctx, h.kv, kvstore.KeyDiagnoses, next); err != nil {
		return fmt.Errorf("persist diagnosis history: %w", err)
	}
	h.entries = next
	return nil
}

func (h *History) publish(ctx context.Context, evts ...events.Event) {
	if err := h.events.Publish(ctx, evts...); err != nil {
		h.logger.Warn().Err(err).Msg("diagnosis event not published")
	}
}

func subject(id int64) string {
	return "diagnosis/" + strconv.FormatInt(id, 10)
}
