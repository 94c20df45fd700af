package commands_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// memoryStore is a transactional in-memory package store. Writes are staged
// by each unit of work and applied on Commit; writes counts applied changes.
type memoryStore struct {
	mu       sync.Mutex
	packages map[kernel.UUID]shipment.RestoreParams
	events   map[kernel.UUID][]*shipment.TrackingEvent
	writes   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		packages: make(map[kernel.UUID]shipment.RestoreParams),
		events:   make(map[kernel.UUID][]*shipment.TrackingEvent),
	}
}

func (s *memoryStore) Create() commands.PackageUoW {
	return &memoryUoW{store: s}
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memoryStore) eventCount(id kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[id])
}

type memoryUoW struct {
	store   *memoryStore
	pending []func()
}

func (u *memoryUoW) Begin(context.Context) error {
	u.pending = nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, apply := range u.pending {
		apply()
		u.store.writes++
	}
	u.pending = nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.pending = nil
	return nil
}

func (u *memoryUoW) PackageRepository() ports.PackageRepository {
	return u
}

func snapshot(p *shipment.Package) shipment.RestoreParams {
	return shipment.RestoreParams{
		ID:                    p.ID(),
		Description:           p.Description(),
		Sender:                p.Sender(),
		Recipient:             p.Recipient(),
		Status:                p.Status(),
		CreatedAt:             p.CreatedAt(),
		UpdatedAt:             p.UpdatedAt(),
		DeliveredAt:           p.DeliveredAt(),
		EstimatedDeliveryDate: p.EstimatedDeliveryDate(),
		Enrichment:            shipment.Enrichment{IsHoliday: p.IsHoliday(), FunFact: p.FunFact()},
		Version:               p.Version(),
	}
}

func (u *memoryUoW) Add(_ context.Context, p *shipment.Package) error {
	params := snapshot(p)
	u.pending = append(u.pending, func() { u.store.packages[params.ID] = params })
	return nil
}

func (u *memoryUoW) Update(_ context.Context, p *shipment.Package) error {
	u.store.mu.Lock()
	stored, ok := u.store.packages[p.ID()]
	u.store.mu.Unlock()
	if !ok || stored.Version != p.Version() {
		return ports.ErrConcurrentModification
	}

	p.AdvanceVersion()
	params := snapshot(p)
	u.pending = append(u.pending, func() { u.store.packages[params.ID] = params })
	return nil
}

func (u *memoryUoW) Get(_ context.Context, id kernel.UUID, includeEvents bool) (*shipment.Package, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	params, ok := u.store.packages[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("package", id.String())
	}
	if includeEvents {
		params.Events = slices.Clone(u.store.events[id])
		if params.Events == nil {
			params.Events = []*shipment.TrackingEvent{}
		}
	}
	return shipment.RestorePackage(params)
}

func (u *memoryUoW) AddEvent(_ context.Context, packageID kernel.UUID, event *shipment.TrackingEvent) error {
	u.store.mu.Lock()
	duplicate := slices.ContainsFunc(u.store.events[packageID], func(stored *shipment.TrackingEvent) bool {
		return stored.ID().IsEqual(event.ID())
	})
	u.store.mu.Unlock()
	if duplicate {
		return ports.ErrEventAlreadyRecorded
	}

	u.pending = append(u.pending, func() {
		u.store.events[packageID] = append(u.store.events[packageID], event)
	})
	return nil
}

func (u *memoryUoW) DeleteDeliveredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	u.store.mu.Lock()
	var expired []kernel.UUID
	for id, params := range u.store.packages {
		if params.DeliveredAt != nil && params.DeliveredAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	u.store.mu.Unlock()

	if len(expired) > 0 {
		u.pending = append(u.pending, func() {
			for _, id := range expired {
				delete(u.store.packages, id)
				delete(u.store.events, id)
			}
		})
	}
	return int64(len(expired)), nil
}
