package decision

import (
	"time"
)

// Standard event topics.
const (
	TopicRequestCreated  = "request.created"
	TopicDecisionCreated = "decision.created"
)

// Deny reasons reported on decisions that never reached, or failed, the
// safety evaluation.
const (
	ReasonPolicyBlocked = "blocked by policy"
	ReasonPolicyDenied  = "denied by policy"
	ReasonUnsafe        = "grant would leave the system unsafe"
)

// Request asks the arbiter to grant additional resources to a process.
type Request struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Process   int       `json:"process" yaml:"process"`
	Amounts   []int     `json:"amounts" yaml:"amounts"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Decision records the arbiter's verdict for a single request.  ID matches
// the request ID.
type Decision struct {
	ID        string    `json:"id"`
	Process   int       `json:"process"`
	Granted   bool      `json:"granted"`
	Reason    string    `json:"reason,omitempty"`
	Order     []int     `json:"order,omitempty"` // completion order backing a grant
	DecidedAt time.Time `json:"decidedAt"`
}

// Notification is the event payload published on every request and decision.
type Notification struct {
	Request  *Request  `json:"request,omitempty"`
	Decision *Decision `json:"decision,omitempty"`
}

// Scenario is a declarative request sequence evaluated against a state.
type Scenario struct {
	// StateURL locates the initial state; resolved by the loader service
	// when relative.
	StateURL string `yaml:"state,omitempty" json:"state,omitempty"`

	Requests []*Request `yaml:"requests" json:"requests"`
}
