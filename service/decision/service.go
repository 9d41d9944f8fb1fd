package decision

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"

	"github.com/allocsafe/banker/internal/clock"
	"github.com/allocsafe/banker/model"
	"github.com/allocsafe/banker/policy"
	"github.com/allocsafe/banker/safety"
	"github.com/allocsafe/banker/service/dao"
	"github.com/allocsafe/banker/service/dao/store"
	"github.com/allocsafe/banker/service/event"
	"github.com/allocsafe/banker/service/loader"
	"github.com/allocsafe/banker/service/messaging"
	"github.com/allocsafe/banker/service/messaging/memory"
	"github.com/allocsafe/banker/tracing"
)

// ErrNoState is returned when a request arrives before any state was set.
var ErrNoState = errors.New("decision: no state loaded")

func requestKey(r *Request) string   { return r.ID }
func decisionKey(d *Decision) string { return d.ID }

// Service arbitrates resource requests against the current state.  All
// mutation of the committed state is serialised by the service; the safety
// evaluation itself runs on a private clone.
type Service struct {
	mu    sync.RWMutex
	state *model.State

	queue     messaging.Queue[Request]
	requests  dao.Service[string, Request]
	decisions dao.Service[string, Decision]
	events    *event.Publisher[Notification]
	policy    *policy.Policy
	loader    *loader.Service

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// Option customises a Service.
type Option func(s *Service)

// WithQueue sets the request queue.
func WithQueue(queue messaging.Queue[Request]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithRequestDAO sets the request store.
func WithRequestDAO(dao dao.Service[string, Request]) Option {
	return func(s *Service) { s.requests = dao }
}

// WithDecisionDAO sets the decision store.
func WithDecisionDAO(dao dao.Service[string, Decision]) Option {
	return func(s *Service) { s.decisions = dao }
}

// WithEventQueue sets the queue carrying request/decision notifications.
func WithEventQueue(queue messaging.Queue[event.Event[Notification]]) Option {
	return func(s *Service) { s.events = event.NewPublisher[Notification](queue) }
}

// WithPolicy sets the default grant policy; a policy attached to the request
// context takes precedence.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLoader sets the loader used to resolve scenario state URLs.
func WithLoader(svc *loader.Service) Option {
	return func(s *Service) { s.loader = svc }
}

// WithState sets the initial committed state (cloned).
func WithState(state *model.State) Option {
	return func(s *Service) {
		if state != nil {
			s.state = state.Clone()
		}
	}
}

// New creates an arbiter service with in-memory defaults for every collaborator
// that was not supplied.
func New(options ...Option) *Service {
	ret := &Service{shutdownCh: make(chan struct{})}
	for _, option := range options {
		option(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Request](memory.DefaultConfig())
	}
	if ret.requests == nil {
		ret.requests = store.NewMemory[string, Request](requestKey)
	}
	if ret.decisions == nil {
		ret.decisions = store.NewMemory[string, Decision](decisionKey)
	}
	if ret.events == nil {
		ret.events = event.NewPublisher[Notification](
			memory.NewQueue[event.Event[Notification]](memory.DefaultConfig()))
	}
	if ret.loader == nil {
		ret.loader = loader.New(nil, "", model.DefaultCapacity())
	}
	return ret
}

// Events exposes the notification publisher for listeners.
func (s *Service) Events() *event.Publisher[Notification] {
	return s.events
}

// SetState replaces the committed state with a clone of the supplied one.
func (s *Service) SetState(state *model.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
}

// State returns a clone of the committed state, or nil when none was set.
func (s *Service) State() *model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}

// record persists the request and publishes its creation notification.
// Missing IDs and timestamps are filled in.
func (s *Service) record(ctx context.Context, request *Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = clock.Now()
	}
	if err := s.requests.Save(ctx, request); err != nil {
		return err
	}
	_ = s.events.Publish(ctx, TopicRequestCreated, Notification{Request: request})
	return nil
}

// Submit records the request and enqueues it for the arbiter loop.
func (s *Service) Submit(ctx context.Context, request *Request) error {
	if request == nil {
		return dao.ErrNilEntity
	}
	if err := s.record(ctx, request); err != nil {
		return err
	}
	return s.queue.Publish(ctx, request)
}

// SubmitMap converts a loose map (for example decoded from JSON or YAML) to
// a Request and submits it.
func (s *Service) SubmitMap(ctx context.Context, input map[string]interface{}) (*Request, error) {
	request := &Request{}
	if err := toolbox.DefaultConverter.AssignConverted(request, input); err != nil {
		return nil, fmt.Errorf("decision: invalid request input: %w", err)
	}
	if err := s.Submit(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Decide runs the request/grant protocol for a single request: policy gate,
// hypothetical application on a clone, safety evaluation, and commit or
// rollback.  The decision is persisted and published before returning.
func (s *Service) Decide(ctx context.Context, request *Request) (*Decision, error) {
	if request == nil {
		return nil, dao.ErrNilEntity
	}
	ctx, span := tracing.StartSpan(ctx, "decision.decide", "INTERNAL")
	span.WithAttributes(map[string]string{
		"request.id":      request.ID,
		"request.process": strconv.Itoa(request.Process),
	})

	decision, err := s.decide(ctx, request)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	if decision.ID != "" {
		if err := s.decisions.Save(ctx, decision); err != nil {
			return nil, err
		}
	}
	_ = s.events.Publish(ctx, TopicDecisionCreated, Notification{Request: request, Decision: decision})
	return decision, nil
}

func (s *Service) decide(ctx context.Context, request *Request) (*Decision, error) {
	denied := func(reason string) *Decision {
		return &Decision{
			ID:        request.ID,
			Process:   request.Process,
			Reason:    reason,
			DecidedAt: clock.Now(),
		}
	}

	gate := s.policy
	if ctxPolicy := policy.FromContext(ctx); ctxPolicy != nil {
		gate = ctxPolicy
	}
	if !gate.IsAllowed(request.Process) {
		return denied(ReasonPolicyBlocked), nil
	}
	if gate != nil {
		switch gate.Mode {
		case policy.ModeDeny:
			return denied(ReasonPolicyDenied), nil
		case policy.ModeAsk:
			if gate.Ask == nil || !gate.Ask(ctx, request.Process, request.Amounts, gate) {
				return denied(ReasonPolicyDenied), nil
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, ErrNoState
	}

	trial := s.state.Clone()
	if err := trial.Apply(request.Process, model.Vector(request.Amounts)); err != nil {
		return denied(err.Error()), nil
	}
	result := safety.Evaluate(trial)
	if !result.Safe {
		return denied(ReasonUnsafe), nil
	}

	s.state = trial
	return &Decision{
		ID:        request.ID,
		Process:   request.Process,
		Granted:   true,
		Order:     result.Order,
		DecidedAt: clock.Now(),
	}, nil
}

// Start consumes the request queue until ctx is cancelled or Shutdown is
// called.  Failed decisions are nacked back to the queue.
func (s *Service) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.shutdownCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	for {
		message, err := s.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				select {
				case <-s.shutdownCh:
					return nil
				default:
				}
				return err
			}
			log.Printf("decision: consume failed: %v", err)
			continue
		}
		if _, err = s.Decide(ctx, message.T()); err != nil {
			log.Printf("decision: request %v failed: %v", message.T().ID, err)
			_ = message.Nack(err)
			continue
		}
		_ = message.Ack()
	}
}

// Shutdown stops the Start loop.  Safe to call multiple times.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

// Pending lists submitted requests that have no recorded decision yet.
func (s *Service) Pending(ctx context.Context) ([]*Request, error) {
	all, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*Request, 0, len(all))
	for _, request := range all {
		if decision, _ := s.decisions.Load(ctx, request.ID); decision == nil {
			pending = append(pending, request)
		}
	}
	return pending, nil
}

// RunScenario loads a YAML scenario from URL, optionally replaces the
// committed state with the one the scenario names, and decides its requests
// in order.  Decisions are returned in request order.
func (s *Service) RunScenario(ctx context.Context, URL string) ([]*Decision, error) {
	data, err := s.loader.Download(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("decision: failed to load scenario from %s: %w", URL, err)
	}
	var scenario Scenario
	if err = yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("decision: failed to parse scenario from %s: %w", URL, err)
	}
	if scenario.StateURL != "" {
		state, err := s.loader.Load(ctx, scenario.StateURL)
		if err != nil {
			return nil, err
		}
		s.SetState(state)
	}

	decisions := make([]*Decision, 0, len(scenario.Requests))
	for i, request := range scenario.Requests {
		if request.ID == "" {
			request.ID = fmt.Sprintf("%s#%d", URL, i)
		}
		if err = s.record(ctx, request); err != nil {
			return nil, err
		}
		decision, err := s.Decide(ctx, request)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}
