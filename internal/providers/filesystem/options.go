package filesystem

import (
	"time"

	"github.com/nyxos/backend/internal/infrastructure/logging"
)

// ParentPolicy decides what happens when a write targets a path whose parent
// is missing or is not a folder
type ParentPolicy int

const (
	// ParentsSilent drops the write without reporting it
	ParentsSilent ParentPolicy = iota
	// ParentsStrict returns ErrParentMissing
	ParentsStrict
)

// String returns the policy name used in config and logs
func (p ParentPolicy) String() string {
	if p == ParentsStrict {
		return "strict"
	}
	return "silent"
}

// Observer receives one call per completed operation
type Observer interface {
	RecordFSOperation(op string, err error, duration time.Duration)
}

// Options configures a Provider
type Options struct {
	Parents ParentPolicy
	// PreserveMetadataOnMove carries tags, preview and assocApp to the
	// destination of a move. By default they are dropped.
	PreserveMetadataOnMove bool
	// ListConcurrency bounds concurrent child lookups in List.
	ListConcurrency int
	Clock           func() time.Time
	Logger          *logging.Logger
	Observer        Observer
}

const defaultListConcurrency = 16

func (o Options) withDefaults() Options {
	if o.ListConcurrency <= 0 {
		o.ListConcurrency = defaultListConcurrency
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	o.Logger = logging.OrNop(o.Logger).Named("filesystem")
	return o
}
