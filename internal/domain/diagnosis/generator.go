package diagnosis

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/zuro/agenda/internal/platform/latency"
)

// MinInputLength is the shortest accepted description, in characters after
// trimming.
const MinInputLength = 10

// Generator simulates a model call: it validates the description, waits
// the configured delay, looks the result up and records it.
type Generator struct {
	history *History
	delay   latency.Simulator
}

func NewGenerator(history *History, delay latency.Simulator) *Generator {
	return &Generator{history: history, delay: delay}
}

// Generate returns the recorded entry. If ctx ends during the delay nothing
// is recorded.
func (g *Generator) Generate(ctx context.Context, profession Profession, input string) (HistoryEntry, error) {
	if utf8.RuneCountInString(strings.TrimSpace(input)) < MinInputLength {
		return HistoryEntry{}, &ValidationError{Field: "input", Reason: "descreva os sintomas ou objetivos com mais detalhes"}
	}
	if profession == "" {
		profession = Physio
	}
	if err := g.delay.Wait(ctx); err != nil {
		return HistoryEntry{}, err
	}
	return g.history.Record(ctx, profession, input, Lookup(profession, input))
}
