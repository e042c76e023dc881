package codecable

import "github.com/pwnedgod/codecable/logger"

type Option = func(*config)

// WithFailOnDuplicate makes a repeated element (sets), value (bimaps) or key
// (map codecs with duplicate key checks) a failure instead of a dropped entry.
func WithFailOnDuplicate(fail bool) Option {
	return func(c *config) {
		c.failOnDuplicate = fail
	}
}

// WithStopOnFirstFailure stops decoding at the first failed entry. The
// remaining entries are reported as unread.
func WithStopOnFirstFailure(stop bool) Option {
	return func(c *config) {
		c.stopOnFirstFailure = stop
	}
}

// WithDuplicateKeyCheck makes map codecs detect entries whose keys decode to
// an already accepted key. Without it the later entry overwrites the earlier.
// Only keys that differ in the input but decode equal, or keys the format
// itself keeps repeated (yaml), can be caught; json.Parse already merges
// repeated member names.
func WithDuplicateKeyCheck(check bool) Option {
	return func(c *config) {
		c.checkDuplicateKeys = check
	}
}

func WithLogger(l logger.Logger) Option {
	if l == nil {
		panic("logger can't be nil")
	}
	return func(c *config) {
		c.logger = l
	}
}

type config struct {
	failOnDuplicate    bool
	stopOnFirstFailure bool
	checkDuplicateKeys bool
	logger             logger.Logger
}

func newConfig(options ...Option) config {
	options = append([]Option{
		WithLogger(logger.Nop()),
	}, options...)

	cfg := config{}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}
