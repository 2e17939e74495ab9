// Package memstore holds mutex-guarded in-memory repository
// implementations. They back the unit tests and provide a storage-free
// development mode; their ordering contract matches gormstore exactly.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/internal/domain/appointment"
	"github.com/pawsuite/petflow/internal/domain/catalog"
	"github.com/pawsuite/petflow/internal/domain/pet"
	"github.com/pawsuite/petflow/internal/domain/roster"
	"github.com/pawsuite/petflow/internal/domain/timegrid"
)

type AppointmentRepository struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*appointment.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.Status = a.Status
	stored.CancelledAt = a.CancelledAt
	stored.CancellationReason = a.CancellationReason
	stored.CancelledBy = a.CancelledBy
	stored.CompletedAt = a.CompletedAt
	return nil
}

func (r *AppointmentRepository) UpdateSlot(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored.StartsAt = a.StartsAt
	stored.EndsAt = a.EndsAt
	return nil
}

func (r *AppointmentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r *AppointmentRepository) List(_ context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	r.mu.RLock()
	var matched []*appointment.Appointment
	for _, a := range r.appts {
		if q.ProviderID != nil && (a.ProviderID == nil || *a.ProviderID != *q.ProviderID) {
			continue
		}
		if q.CustomerID != nil && a.CustomerID != *q.CustomerID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		if q.DateFrom != nil && a.StartsAt.Before(*q.DateFrom) {
			continue
		}
		if q.DateTo != nil && !a.StartsAt.Before(*q.DateTo) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sortAppointments(matched)

	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &appointment.PagedAppointments{
		Appointments: matched[start:end],
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepository) ListActiveByProviderDate(_ context.Context, providerID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	date = timegrid.DateOf(date)
	next := date.AddDate(0, 0, 1)

	r.mu.RLock()
	var matched []*appointment.Appointment
	for _, a := range r.appts {
		if a.ProviderID == nil || *a.ProviderID != providerID || !a.Active() {
			continue
		}
		if a.StartsAt.Before(date) || !a.StartsAt.Before(next) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sortAppointments(matched)
	return matched, nil
}

func (r *AppointmentRepository) ListStartingBetween(_ context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	r.mu.RLock()
	var matched []*appointment.Appointment
	for _, a := range r.appts {
		if !a.Active() {
			continue
		}
		if a.StartsAt.Before(from) || a.StartsAt.After(to) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sortAppointments(matched)
	return matched, nil
}

func (r *AppointmentRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]*appointment.Appointment, error) {
	r.mu.RLock()
	var matched []*appointment.Appointment
	for _, a := range r.appts {
		if a.StartsAt.Before(from) || !a.StartsAt.Before(to) {
			continue
		}
		cp := *a
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	sortAppointments(matched)
	return matched, nil
}

func sortAppointments(appts []*appointment.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].StartsAt.Equal(appts[j].StartsAt) {
			return appts[i].StartsAt.Before(appts[j].StartsAt)
		}
		return bytes.Compare(appts[i].ID[:], appts[j].ID[:]) < 0
	})
}

type PetRepository struct {
	mu   sync.RWMutex
	pets map[uuid.UUID]*pet.Pet
}

func NewPetRepository() *PetRepository {
	return &PetRepository{pets: make(map[uuid.UUID]*pet.Pet)}
}

func (r *PetRepository) Create(_ context.Context, p *pet.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.pets[p.ID] = &cp
	return nil
}

func (r *PetRepository) GetByID(_ context.Context, id uuid.UUID) (*pet.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pets[id]
	if !ok {
		return nil, pet.ErrPetNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PetRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*pet.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*pet.Pet
	for _, p := range r.pets {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type CatalogRepository struct {
	mu       sync.RWMutex
	services map[uuid.UUID]*catalog.Service
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{services: make(map[uuid.UUID]*catalog.Service)}
}

func (r *CatalogRepository) Create(_ context.Context, s *catalog.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *CatalogRepository) GetByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *CatalogRepository) List(_ context.Context, activeOnly bool) ([]*catalog.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*catalog.Service
	for _, s := range r.services {
		if activeOnly && !s.Active {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type RosterRepository struct {
	mu        sync.RWMutex
	hours     map[uuid.UUID]*roster.WorkingHours
	overrides map[uuid.UUID]*roster.Override
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{
		hours:     make(map[uuid.UUID]*roster.WorkingHours),
		overrides: make(map[uuid.UUID]*roster.Override),
	}
}

func (r *RosterRepository) CreateWorkingHours(_ context.Context, wh *roster.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wh.ID == uuid.Nil {
		wh.ID = uuid.New()
	}
	cp := *wh
	r.hours[wh.ID] = &cp
	return nil
}

func (r *RosterRepository) DeleteWorkingHours(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hours, id)
	return nil
}

func (r *RosterRepository) ListByProviderWeekday(_ context.Context, providerID uuid.UUID, weekday time.Weekday) ([]*roster.WorkingHours, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*roster.WorkingHours
	for _, wh := range r.hours {
		if wh.ProviderID == providerID && wh.Weekday == weekday {
			cp := *wh
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *RosterRepository) CreateOverride(_ context.Context, o *roster.Override) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	r.overrides[o.ID] = &cp
	return nil
}

func (r *RosterRepository) GetOverride(_ context.Context, providerID uuid.UUID, date time.Time) (*roster.Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.overrides {
		if o.ProviderID == providerID && timegrid.SameDay(o.Date, date) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

type AuditRepository struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

// Entries returns a snapshot of everything written so far.
func (r *AuditRepository) Entries() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}
