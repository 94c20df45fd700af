package ports

import (
	"context"
	"time"
)

// Holiday is one entry of a public holiday calendar.
type Holiday struct {
	Date      time.Time
	LocalName string
	Name      string
}

// HolidayProvider lists the public holidays of a country for a year.
type HolidayProvider interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error)
}

// FunFactProvider returns a short piece of trivia attached to new packages.
type FunFactProvider interface {
	FunFact(ctx context.Context) (string, error)
}
