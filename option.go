package banker

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/allocsafe/banker/model"
	"github.com/allocsafe/banker/policy"
	"github.com/allocsafe/banker/service/dao"
	"github.com/allocsafe/banker/service/decision"
	"github.com/allocsafe/banker/service/event"
	"github.com/allocsafe/banker/service/messaging"
	"github.com/allocsafe/banker/tracing"
)

// Option customises the engine Service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithCapacity sets the dimension bounds for loaded states.
func WithCapacity(capacity model.Capacity) Option {
	return func(s *Service) { s.config.Capacity = capacity }
}

// WithFs sets the file-storage service used by the loader.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLoaderBaseURL sets the base location state and scenario URLs resolve
// against.
func WithLoaderBaseURL(URL string) Option {
	return func(s *Service) { s.loaderBaseURL = URL }
}

// WithLoaderFsOptions sets storage options passed to the loader downloads.
func WithLoaderFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.loaderFsOptions = options }
}

// WithQueue sets the request queue.
func WithQueue(queue messaging.Queue[decision.Request]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithRequestDAO sets the request store.
func WithRequestDAO(store dao.Service[string, decision.Request]) Option {
	return func(s *Service) { s.requestDAO = store }
}

// WithDecisionDAO sets the decision store.
func WithDecisionDAO(store dao.Service[string, decision.Decision]) Option {
	return func(s *Service) { s.decisionDAO = store }
}

// WithSnapshotDAO sets the snapshot store.
func WithSnapshotDAO(store dao.Service[string, Snapshot]) Option {
	return func(s *Service) { s.snapshotDAO = store }
}

// WithPolicy sets the default grant policy applied by the arbiter.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.grantPolicy = p }
}

// WithEventListener registers a handler for request/decision notifications.
func WithEventListener(handler func(*event.Event[decision.Notification])) Option {
	return func(s *Service) { s.listenerHandler = handler }
}

// WithTracing configures OpenTelemetry tracing for the engine.  If
// outputFile is empty the stdout exporter is used; otherwise traces are
// written to the supplied file path.  Safe to call multiple times - the
// first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, enabling integrations beyond the built-in stdout exporter
// (OTLP, Jaeger, Zipkin).  Safe to call multiple times - the first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
