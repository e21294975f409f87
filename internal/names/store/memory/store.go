// Package memory keeps the registry state in process. A transaction works on
// a private copy of the state that replaces the live one only when the
// transaction function succeeds.
package memory

import (
	"context"
	"sync"

	"pns/internal/names/models"
	"pns/internal/names/ports"
	id "pns/pkg/domain"
	"pns/pkg/platform/sentinel"
)

// Store implements ports.Store. Transactions are serialized; View runs
// concurrently with other views.
type Store struct {
	mu      sync.RWMutex
	current *state
}

// Option configures the store.
type Option func(*Store)

// WithSettings seeds the admin-mutable settings.
func WithSettings(settings models.Settings) Option {
	return func(s *Store) {
		s.current.settings = settings
	}
}

// New returns an empty store holding models.DefaultSettings.
func New(opts ...Option) *Store {
	s := &Store{current: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunInTx runs fn against a copy of the state and publishes the copy when fn
// returns nil. Calling RunInTx or View from inside fn deadlocks.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, st ports.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.current.clone()
	if err := fn(ctx, working); err != nil {
		return err
	}
	s.current = working
	return nil
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, st ports.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, s.current)
}

type state struct {
	domains    map[string]*models.Domain
	records    map[string]map[models.RecordClass]*models.Record
	custom     map[string]int
	whitelist  map[id.Address]struct{}
	mintCounts map[id.Address]uint32
	settings   models.Settings
	payments   map[string]*models.PendingPayment
}

func newState() *state {
	return &state{
		domains:    make(map[string]*models.Domain),
		records:    make(map[string]map[models.RecordClass]*models.Record),
		custom:     make(map[string]int),
		whitelist:  make(map[id.Address]struct{}),
		mintCounts: make(map[id.Address]uint32),
		settings:   models.DefaultSettings(),
		payments:   make(map[string]*models.PendingPayment),
	}
}

// clone copies the maps; stored values are never mutated in place, so the
// pointers can be shared.
func (st *state) clone() *state {
	c := &state{
		domains:    make(map[string]*models.Domain, len(st.domains)),
		records:    make(map[string]map[models.RecordClass]*models.Record, len(st.records)),
		custom:     make(map[string]int, len(st.custom)),
		whitelist:  make(map[id.Address]struct{}, len(st.whitelist)),
		mintCounts: make(map[id.Address]uint32, len(st.mintCounts)),
		settings:   st.settings,
		payments:   make(map[string]*models.PendingPayment, len(st.payments)),
	}
	for k, v := range st.domains {
		c.domains[k] = v
	}
	for name, byClass := range st.records {
		m := make(map[models.RecordClass]*models.Record, len(byClass))
		for class, r := range byClass {
			m[class] = r
		}
		c.records[name] = m
	}
	for k, v := range st.custom {
		c.custom[k] = v
	}
	for k := range st.whitelist {
		c.whitelist[k] = struct{}{}
	}
	for k, v := range st.mintCounts {
		c.mintCounts[k] = v
	}
	for k, v := range st.payments {
		c.payments[k] = v
	}
	return c
}

func (st *state) FindDomain(_ context.Context, name string) (*models.Domain, error) {
	d, ok := st.domains[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (st *state) SaveDomain(_ context.Context, d *models.Domain) error {
	st.domains[d.Name] = d.Clone()
	return nil
}

func (st *state) CountDomains(_ context.Context) (int, error) {
	return len(st.domains), nil
}

func (st *state) FindRecord(_ context.Context, name string, class models.RecordClass) (*models.Record, error) {
	r, ok := st.records[name][class]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

func (st *state) SaveRecord(_ context.Context, r *models.Record) error {
	byClass, ok := st.records[r.Domain]
	if !ok {
		byClass = make(map[models.RecordClass]*models.Record)
		st.records[r.Domain] = byClass
	}
	if _, exists := byClass[r.Class]; !exists && r.Class.IsCustom() {
		st.custom[r.Domain]++
	}
	byClass[r.Class] = r.Clone()
	return nil
}

func (st *state) DeleteRecord(_ context.Context, name string, class models.RecordClass) error {
	byClass := st.records[name]
	if _, ok := byClass[class]; !ok {
		return sentinel.ErrNotFound
	}
	delete(byClass, class)
	if len(byClass) == 0 {
		delete(st.records, name)
	}
	if class.IsCustom() {
		st.custom[name]--
		if st.custom[name] <= 0 {
			delete(st.custom, name)
		}
	}
	return nil
}

func (st *state) DeleteRecords(_ context.Context, name string) error {
	delete(st.records, name)
	delete(st.custom, name)
	return nil
}

func (st *state) CountCustomRecords(_ context.Context, name string) (int, error) {
	return st.custom[name], nil
}

func (st *state) IsWhitelisted(_ context.Context, addr id.Address) (bool, error) {
	_, ok := st.whitelist[addr]
	return ok, nil
}

func (st *state) AddToWhitelist(_ context.Context, addrs ...id.Address) error {
	for _, a := range addrs {
		st.whitelist[a] = struct{}{}
	}
	return nil
}

func (st *state) RemoveFromWhitelist(_ context.Context, addr id.Address) error {
	delete(st.whitelist, addr)
	return nil
}

func (st *state) MintCount(_ context.Context, addr id.Address) (uint32, error) {
	return st.mintCounts[addr], nil
}

func (st *state) IncrementMintCount(_ context.Context, addr id.Address) (uint32, error) {
	st.mintCounts[addr]++
	return st.mintCounts[addr], nil
}

func (st *state) LoadSettings(_ context.Context) (models.Settings, error) {
	return st.settings, nil
}

func (st *state) SaveSettings(_ context.Context, settings models.Settings) error {
	st.settings = settings
	return nil
}

func (st *state) SavePayment(_ context.Context, p *models.PendingPayment) error {
	if _, exists := st.payments[p.ID]; exists {
		return sentinel.ErrConflict
	}
	c := *p
	st.payments[p.ID] = &c
	return nil
}

func (st *state) FindPayment(_ context.Context, paymentID string) (*models.PendingPayment, error) {
	p, ok := st.payments[paymentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (st *state) DeletePayment(_ context.Context, paymentID string) error {
	if _, ok := st.payments[paymentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(st.payments, paymentID)
	return nil
}

func (st *state) CountPayments(_ context.Context) (int, error) {
	return len(st.payments), nil
}
