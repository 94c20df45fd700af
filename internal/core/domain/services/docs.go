// Package services provides domain services of the tracking system that do not
// belong to a single aggregate.
//
// The package includes:
//   - Enricher: annotates a new package with holiday and fun fact lookups
//
// Enricher runs both lookups concurrently under one timeout. A failed or slow
// lookup never fails package creation: the holiday flag falls back to false and
// the fun fact to an empty string, and the failure is logged.
package services
