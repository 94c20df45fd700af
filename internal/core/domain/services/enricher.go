package services

import (
	"context"
	"log/slog"
	"time"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

const (
	// FunFactFallback replaces the fun fact whenever the lookup fails.
	FunFactFallback = "Fun fact not available"

	DefaultHolidayCountry    = "BR"
	DefaultEnrichmentTimeout = 3 * time.Second
)

// EnricherConfig tunes the lookups. Zero values fall back to the defaults.
type EnricherConfig struct {
	CountryCode string
	Timeout     time.Duration
}

// Enricher computes the best-effort annotation of a new package.
//
// Both lookups run concurrently under a shared timeout. A lookup that fails,
// times out or returns nothing degrades to its default value; Enrich never
// returns an error.
type Enricher struct {
	holidays ports.HolidayProvider
	funFacts ports.FunFactProvider
	country  string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewEnricher(
	holidays ports.HolidayProvider,
	funFacts ports.FunFactProvider,
	cfg EnricherConfig,
	logger *slog.Logger,
) *Enricher {
	if cfg.CountryCode == "" {
		cfg.CountryCode = DefaultHolidayCountry
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEnrichmentTimeout
	}
	return &Enricher{
		holidays: holidays,
		funFacts: funFacts,
		country:  cfg.CountryCode,
		timeout:  cfg.Timeout,
		logger:   logger.With("component", "enricher"),
	}
}

func (e *Enricher) Enrich(ctx context.Context, estimatedDeliveryDate time.Time) shipment.Enrichment {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		isHoliday bool
		funFact   = FunFactFallback
		g         errgroup.Group
	)

	g.Go(func() error {
		isHoliday = e.isHoliday(ctx, estimatedDeliveryDate)
		return nil
	})
	g.Go(func() error {
		if fact, ok := e.funFact(ctx); ok {
			funFact = fact
		}
		return nil
	})
	_ = g.Wait()

	return shipment.Enrichment{IsHoliday: isHoliday, FunFact: funFact}
}

func (e *Enricher) isHoliday(ctx context.Context, date time.Time) bool {
	holidays, err := e.holidays.PublicHolidays(ctx, date.Year(), e.country)
	if err != nil {
		e.logger.WarnContext(ctx, "holiday lookup failed",
			"date", date.Format(time.DateOnly),
			"country", e.country,
			"error", err,
		)
		return false
	}

	for _, h := range holidays {
		if sameDay(h.Date, date) {
			return true
		}
	}
	return false
}

func (e *Enricher) funFact(ctx context.Context) (string, bool) {
	fact, err := e.funFacts.FunFact(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "fun fact lookup failed", "error", err)
		return "", false
	}
	if fact == "" {
		e.logger.WarnContext(ctx, "fun fact lookup returned nothing")
		return "", false
	}
	return fact, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
