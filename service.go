package banker

import (
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/allocsafe/banker/model"
	"github.com/allocsafe/banker/policy"
	"github.com/allocsafe/banker/service/dao"
	"github.com/allocsafe/banker/service/dao/store"
	"github.com/allocsafe/banker/service/decision"
	"github.com/allocsafe/banker/service/event"
	"github.com/allocsafe/banker/service/loader"
	"github.com/allocsafe/banker/service/messaging"
	"github.com/allocsafe/banker/service/messaging/memory"
)

// Snapshot is a named copy of a committed state.
type Snapshot struct {
	Name    string       `json:"name"`
	State   *model.State `json:"-"`
	TakenAt time.Time    `json:"takenAt"`
}

func snapshotKey(s *Snapshot) string { return s.Name }

// Service is the engine façade: it wires the loader, the request arbiter and
// their stores, and exposes the assembled Runtime.
type Service struct {
	config  *Config
	runtime *Runtime

	fs              afs.Service
	loaderBaseURL   string
	loaderFsOptions []storage.Option
	queue           messaging.Queue[decision.Request]
	requestDAO      dao.Service[string, decision.Request]
	decisionDAO     dao.Service[string, decision.Decision]
	snapshotDAO     dao.Service[string, Snapshot]
	grantPolicy     *policy.Policy
	listenerHandler func(*event.Event[decision.Notification])
}

// New assembles an engine Service, filling in in-memory defaults for every
// collaborator that was not supplied via options.
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig(), runtime: &Runtime{}}
	ret.init(options)
	return ret
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	decider := decision.New(
		decision.WithQueue(s.queue),
		decision.WithRequestDAO(s.requestDAO),
		decision.WithDecisionDAO(s.decisionDAO),
		decision.WithPolicy(s.grantPolicy),
		decision.WithLoader(s.runtime.loader),
	)
	s.runtime.decider = decider
	s.runtime.snapshots = s.snapshotDAO

	if s.listenerHandler != nil {
		s.runtime.listener = event.NewListener(decider.Events(), s.listenerHandler)
		s.runtime.listener.Start()
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.runtime.loader == nil {
		s.runtime.loader = loader.New(s.fs, s.loaderBaseURL, s.config.Capacity, s.loaderFsOptions...)
	}
	if s.queue == nil {
		queueConfig := memory.DefaultConfig()
		if s.config.QueueBuffer > 0 {
			queueConfig.QueueBuffer = s.config.QueueBuffer
		}
		s.queue = memory.NewQueue[decision.Request](queueConfig)
	}
	if s.requestDAO == nil {
		s.requestDAO = store.NewMemory[string, decision.Request](
			func(r *decision.Request) string { return r.ID })
	}
	if s.decisionDAO == nil {
		s.decisionDAO = store.NewMemory[string, decision.Decision](
			func(d *decision.Decision) string { return d.ID })
	}
	if s.snapshotDAO == nil {
		s.snapshotDAO = store.NewMemory[string, Snapshot](snapshotKey)
	}
}

// Config returns the engine configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Runtime returns the assembled runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}
