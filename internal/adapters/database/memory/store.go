package memory

import (
	"context"
	"errors"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// errReadOnly is returned when a write is attempted inside WithinSnapshot.
var errReadOnly = apperrors.NewAppError(500, "write attempted in a read-only snapshot", errors.New("read-only snapshot"))

type recordKey struct {
	tenantID string
	id       string
}

// state is an immutable version of the whole store once published.
type state struct {
	accounts map[recordKey]domain.Account
	periods  map[recordKey]domain.FiscalPeriod
	tiers    map[recordKey]domain.Tier
	entries  map[recordKey]domain.JournalEntry
	audit    map[string][]domain.AuditRecord
}

func newState() *state {
	return &state{
		accounts: make(map[recordKey]domain.Account),
		periods:  make(map[recordKey]domain.FiscalPeriod),
		tiers:    make(map[recordKey]domain.Tier),
		entries:  make(map[recordKey]domain.JournalEntry),
		audit:    make(map[string][]domain.AuditRecord),
	}
}

// clone returns a working copy. Entry line slices are shared and must be replaced, never mutated.
// Audit slices may share a backing array with published versions: appends only write past
// the published length, which no published version can see.
func (s *state) clone() *state {
	return &state{
		accounts: maps.Clone(s.accounts),
		periods:  maps.Clone(s.periods),
		tiers:    maps.Clone(s.tiers),
		entries:  maps.Clone(s.entries),
		audit:    maps.Clone(s.audit),
	}
}

type txKey struct{ store *Store }
type snapshotKey struct{ store *Store }

// Store is an in-memory ledger store. Writers are serialized and work on a private
// copy that is published atomically on success. Readers never block.
type Store struct {
	writer  sync.Mutex
	current atomic.Pointer[state]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(newState())
	return s
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn against a private copy of the store and publishes it when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{s}).(*state); ok {
		return fn(ctx)
	}
	if _, ok := ctx.Value(snapshotKey{s}).(*state); ok {
		return errReadOnly
	}

	s.writer.Lock()
	defer s.writer.Unlock()

	working := s.current.Load().clone()
	if err := fn(context.WithValue(ctx, txKey{s}, working)); err != nil {
		return err
	}
	s.current.Store(working)
	return nil
}

// WithinSnapshot runs fn against the currently published state.
func (s *Store) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{s}).(*state); ok {
		return fn(ctx)
	}
	if _, ok := ctx.Value(snapshotKey{s}).(*state); ok {
		return fn(ctx)
	}
	return fn(context.WithValue(ctx, snapshotKey{s}, s.current.Load()))
}

func (s *Store) read(ctx context.Context) *state {
	if st, ok := ctx.Value(txKey{s}).(*state); ok {
		return st
	}
	if st, ok := ctx.Value(snapshotKey{s}).(*state); ok {
		return st
	}
	return s.current.Load()
}

// write runs fn on the transaction's working copy, opening a transaction when none is active.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{s}).(*state); ok {
		return fn(st)
	}
	return s.WithinTx(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{s}).(*state))
	})
}

// NewRepositoryProvider wires every repository to a single store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: &AccountRepository{store: store},
		PeriodRepo:  &FiscalPeriodRepository{store: store},
		TierRepo:    &TierRepository{store: store},
		JournalRepo: &JournalRepository{store: store},
		AuditRepo:   &AuditRepository{store: store},
		TxManager:   store,
	}
}
