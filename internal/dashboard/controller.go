package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/database/repository"
	"github.com/jask/accountdeck/internal/query"
)

// Store is the record store the dashboard reads and mutates.
type Store interface {
	List(ctx context.Context) ([]repository.Account, error)
	Upsert(ctx context.Context, a repository.Account) error
	DeleteByID(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	UpdateStatusMany(ctx context.Context, ids []string, status repository.Status) error
}

// Options configures a Controller.
type Options struct {
	PageSize int
	Periods  query.Periods
	Logger   *zap.Logger
}

// Controller is the single writer of dashboard state. Every event runs under
// one lock and the view is derived from the records read during that event,
// so callers on other goroutines never see a half-applied mutation.
type Controller struct {
	mu      sync.Mutex
	store   Store
	periods query.Periods
	log     *zap.Logger
	state   State
	records []repository.Account
	stale   bool // records were patched locally after a failed reload
}

// NewController loads the store and returns a controller on page 1.
func NewController(ctx context.Context, store Store, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Periods == (query.Periods{}) {
		opts.Periods = query.PeriodsFor(query.DefaultCutoffYear)
	}
	c := &Controller{
		store:   store,
		periods: opts.Periods,
		log:     opts.Logger,
		state:   NewState(opts.PageSize),
	}
	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	c.records = records
	return c, nil
}

// View returns the current frame.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Derive(c.state, c.records, c.periods)
}

// Periods returns the creation-year bounds in use.
func (c *Controller) Periods() query.Periods { return c.periods }

// Account returns the last loaded copy of an account.
func (c *Controller) Account(id string) (repository.Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.records {
		if a.ID == id {
			return a, true
		}
	}
	return repository.Account{}, false
}

// Dispatch applies ev and returns the resulting frame. When the store
// rejects a mutation the state is left as it was and the error is returned
// with the unchanged frame.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale {
		if err := c.reload(ctx); err != nil {
			c.log.Warn("dashboard reload still failing", zap.Error(err))
		}
	}

	var err error
	switch e := ev.(type) {
	case Confirmed:
		err = c.confirm(ctx)
	case StatusRequested:
		err = c.applyStatus(ctx, e.Status)
	case Edited:
		err = c.edit(ctx, e.ID, e.Edits)
	case Upserted:
		err = c.mutate(ctx, func() error { return c.store.Upsert(ctx, e.Account) }, upsertLocal(e.Account))
	case Refreshed:
		if err = c.reload(ctx); err != nil {
			err = fmt.Errorf("reload accounts: %w", err)
		}
	default:
		c.state = Reduce(c.state, ev, c.records, c.periods)
	}
	if err != nil {
		c.log.Warn("dashboard event failed", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
	}
	return Derive(c.state, c.records, c.periods), err
}

func (c *Controller) confirm(ctx context.Context) error {
	pending := c.state.Pending
	if pending == nil {
		return nil
	}
	err := c.mutate(ctx, func() error {
		if len(pending.IDs) == 1 {
			return c.store.DeleteByID(ctx, pending.IDs[0])
		}
		return c.store.DeleteMany(ctx, pending.IDs)
	}, deleteLocal(pending.IDs))
	if !committed(err) {
		return err
	}
	c.state.Pending = nil
	if pending.Bulk {
		c.state.Selection = Selection{}
	}
	c.log.Info("accounts deleted", zap.Int("count", len(pending.IDs)), zap.Bool("bulk", pending.Bulk))
	return err
}

func (c *Controller) applyStatus(ctx context.Context, status repository.Status) error {
	if c.state.Selection.Len() == 0 {
		return nil
	}
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	ids := c.state.Selection.IDs()
	err := c.mutate(ctx, func() error { return c.store.UpdateStatusMany(ctx, ids, status) }, statusLocal(ids, status))
	if !committed(err) {
		return err
	}
	c.state.Selection = Selection{}
	c.log.Info("bulk status applied", zap.Int("count", len(ids)), zap.String("status", string(status)))
	return err
}

func (c *Controller) edit(ctx context.Context, id string, edits []repository.Edit) error {
	var current *repository.Account
	for i := range c.records {
		if c.records[i].ID == id {
			current = &c.records[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("edit %s: %w", id, repository.ErrNotFound)
	}
	updated := repository.Apply(*current, edits...)
	return c.mutate(ctx, func() error { return c.store.Upsert(ctx, updated) }, upsertLocal(updated))
}

// reloadError reports a write that reached the store but whose reload
// failed.
type reloadError struct{ err error }

func (e *reloadError) Error() string { return "reload accounts: " + e.err.Error() }
func (e *reloadError) Unwrap() error { return e.err }

// committed reports whether the store accepted the write behind err.
func committed(err error) bool {
	var re *reloadError
	return err == nil || errors.As(err, &re)
}

// mutate runs op, reloads the store and reconciles. A failed op leaves
// state untouched. When op succeeds but the reload fails, local is applied
// to the cached records instead and the controller reloads before the next
// event.
func (c *Controller) mutate(ctx context.Context, op func() error, local func([]repository.Account) []repository.Account) error {
	if err := op(); err != nil {
		return err
	}
	if err := c.reload(ctx); err != nil {
		c.records = local(c.records)
		c.state = Reconcile(c.state, c.records, c.periods)
		c.stale = true
		return &reloadError{err: err}
	}
	return nil
}

func (c *Controller) reload(ctx context.Context) error {
	records, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.records = records
	c.state = Reconcile(c.state, records, c.periods)
	c.stale = false
	return nil
}

func deleteLocal(ids []string) func([]repository.Account) []repository.Account {
	return func(records []repository.Account) []repository.Account {
		return slices.DeleteFunc(slices.Clone(records), func(a repository.Account) bool {
			return slices.Contains(ids, a.ID)
		})
	}
}

func statusLocal(ids []string, status repository.Status) func([]repository.Account) []repository.Account {
	return func(records []repository.Account) []repository.Account {
		out := slices.Clone(records)
		for i := range out {
			if slices.Contains(ids, out[i].ID) {
				out[i].Status = status
			}
		}
		return out
	}
}

func upsertLocal(a repository.Account) func([]repository.Account) []repository.Account {
	return func(records []repository.Account) []repository.Account {
		out := slices.Clone(records)
		for i := range out {
			if out[i].ID == a.ID {
				out[i] = a
				return out
			}
		}
		return append(out, a)
	}
}
