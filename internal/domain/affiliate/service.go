package affiliate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/zuro/agenda/internal/platform/kvstore"
)

// CommissionPerSignupCents is credited to both the total and the pending
// payment for every tracked signup.
const CommissionPerSignupCents = 6000

// Stats is stored as-is under affiliateStats. Money values are display
// strings in Brazilian reais.
type Stats struct {
	Clicks         int    `json:"clicks"`
	Signups        int    `json:"signups"`
	Commissions    string `json:"commissions"`
	ConversionRate string `json:"conversionRate"`
	PendingPayment string `json:"pendingPayment"`
}

// DefaultStats is what a new affiliate account shows.
func DefaultStats() Stats {
	return Stats{
		Clicks:         238,
		Signups:        24,
		Commissions:    "R$ 1.440,00",
		ConversionRate: "10.08%",
		PendingPayment: "R$ 320,00",
	}
}

type Dashboard struct {
	Link  string `json:"link"`
	Stats Stats  `json:"stats"`
}

type Service struct {
	mu      sync.Mutex
	kv      kvstore.Store
	link    string
	logger  zerolog.Logger
	printer *message.Printer
}

func NewService(kv kvstore.Store, link string, logger zerolog.Logger) *Service {
	return &Service{
		kv:      kv,
		link:    link,
		logger:  logger,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// Dashboard returns the stored link and stats, writing the defaults the
// first time.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.loadStats(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	var link string
	found, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeyAffiliateLink, &link)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load affiliate link: %w", err)
	}
	if !found || link == "" {
		link = s.link
		if err := kvstore.PutJSON(ctx, s.kv, kvstore.KeyAffiliateLink, link); err != nil {
			return Dashboard{}, fmt.Errorf("persist affiliate link: %w", err)
		}
	}
	return Dashboard{Link: link, Stats: stats}, nil
}

func (s *Service) TrackClick(ctx context.Context) (Stats, error) {
	return s.update(ctx, func(st *Stats) {
		st.Clicks++
	})
}

func (s *Service) TrackSignup(ctx context.Context) (Stats, error) {
	return s.update(ctx, func(st *Stats) {
		st.Signups++
		st.Commissions = s.formatBRL(parseBRL(st.Commissions) + CommissionPerSignupCents)
		st.PendingPayment = s.formatBRL(parseBRL(st.PendingPayment) + CommissionPerSignupCents)
	})
}

func (s *Service) update(ctx context.Context, mutate func(*Stats)) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.loadStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	mutate(&stats)
	stats.ConversionRate = ConversionRate(stats.Signups, stats.Clicks)
	if err := kvstore.PutJSON(ctx, s.kv, kvstore.KeyAffiliateStats, stats); err != nil {
		return Stats{}, fmt.Errorf("persist affiliate stats: %w", err)
	}
	s.logger.Debug().Int("clicks", stats.Clicks).Int("signups", stats.Signups).Msg("affiliate stats updated")
	return stats, nil
}

// loadStats reads the stored stats or persists the defaults. Callers hold mu.
func (s *Service) loadStats(ctx context.Context) (Stats, error) {
	var stats Stats
	found, err := kvstore.GetJSON(ctx, s.kv, kvstore.KeyAffiliateStats, &stats)
	if err != nil {
		return Stats{}, fmt.Errorf("load affiliate stats: %w", err)
	}
	if found {
		return stats, nil
	}
	stats = DefaultStats()
	if err := kvstore.PutJSON(ctx, s.kv, kvstore.KeyAffiliateStats, stats); err != nil {
		return Stats{}, fmt.Errorf("persist affiliate stats: %w", err)
	}
	return stats, nil
}

// ConversionRate is signups/clicks as a percentage with two decimals.
func ConversionRate(signups, clicks int) string {
	if clicks <= 0 {
		return "0.00%"
	}
	return strconv.FormatFloat(float64(signups)*100/float64(clicks), 'f', 2, 64) + "%"
}

func (s *Service) formatBRL(cents int64) string {
	return "R$ " + s.printer.Sprint(number.Decimal(float64(cents)/100, number.Scale(2)))
}

// parseBRL reads a reais display string into cents. A trailing separator
// followed by exactly two digits is taken as the decimal mark; anything
// else is a whole amount.
func parseBRL(s string) int64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	if n := len(s); n >= 3 && (s[n-3] == ',' || s[n-3] == '.') {
		return v
	}
	return v * 100
}
