package banker

import (
	"context"
	"fmt"

	"github.com/allocsafe/banker/internal/clock"
	"github.com/allocsafe/banker/model"
	"github.com/allocsafe/banker/safety"
	"github.com/allocsafe/banker/service/dao"
	"github.com/allocsafe/banker/service/decision"
	"github.com/allocsafe/banker/service/event"
	"github.com/allocsafe/banker/service/loader"
)

// Runtime bundles the loaded state, the arbiter and the snapshot store
// behind a single entry point.
type Runtime struct {
	loader    *loader.Service
	decider   *decision.Service
	snapshots dao.Service[string, Snapshot]
	listener  *event.Listener[decision.Notification]
}

// LoadState reads the state at URL, commits it as the arbiter's current
// state and returns a copy.
func (r *Runtime) LoadState(ctx context.Context, URL string) (*model.State, error) {
	state, err := r.loader.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	r.decider.SetState(state)
	return state, nil
}

// SetState commits the supplied state as the arbiter's current state.
func (r *Runtime) SetState(state *model.State) {
	r.decider.SetState(state)
}

// State returns a clone of the committed state, or nil when none was loaded.
func (r *Runtime) State() *model.State {
	return r.decider.State()
}

// Evaluate runs the safety check against the committed state.
func (r *Runtime) Evaluate() (safety.Result, error) {
	state := r.decider.State()
	if state == nil {
		return safety.Result{}, decision.ErrNoState
	}
	return safety.Evaluate(state), nil
}

// EvaluateState runs the safety check against an arbitrary state snapshot.
func (r *Runtime) EvaluateState(state *model.State) safety.Result {
	return safety.Evaluate(state)
}

// Submit enqueues a request for the arbiter loop started via Start.
func (r *Runtime) Submit(ctx context.Context, request *decision.Request) error {
	return r.decider.Submit(ctx, request)
}

// Decide arbitrates a single request synchronously.
func (r *Runtime) Decide(ctx context.Context, request *decision.Request) (*decision.Decision, error) {
	return r.decider.Decide(ctx, request)
}

// Pending lists submitted requests that have no decision yet.
func (r *Runtime) Pending(ctx context.Context) ([]*decision.Request, error) {
	return r.decider.Pending(ctx)
}

// RunScenario loads a YAML scenario and decides its requests in order.
func (r *Runtime) RunScenario(ctx context.Context, URL string) ([]*decision.Decision, error) {
	return r.decider.RunScenario(ctx, URL)
}

// Start runs the arbiter queue loop until ctx is cancelled or Shutdown is
// called.
func (r *Runtime) Start(ctx context.Context) error {
	return r.decider.Start(ctx)
}

// Shutdown stops the arbiter loop and any event listener.
func (r *Runtime) Shutdown() {
	r.decider.Shutdown()
	if r.listener != nil {
		r.listener.Stop()
	}
}

// Snapshot stores a named copy of the committed state.
func (r *Runtime) Snapshot(ctx context.Context, name string) error {
	if name == "" {
		return dao.ErrInvalidID
	}
	state := r.decider.State()
	if state == nil {
		return decision.ErrNoState
	}
	return r.snapshots.Save(ctx, &Snapshot{
		Name:    name,
		State:   state,
		TakenAt: clock.Now(),
	})
}

// RestoreSnapshot replaces the committed state with the named snapshot.
func (r *Runtime) RestoreSnapshot(ctx context.Context, name string) error {
	snapshot, err := r.snapshots.Load(ctx, name)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot %q", dao.ErrNotFound, name)
	}
	r.decider.SetState(snapshot.State)
	return nil
}
