package codecable

// tally is the working state of a single decode pass over the raw entries R
// of a collection. It is created per call and never shared.
type tally[R any] struct {
	stopOnFirstFailure bool

	failed     []R
	duplicates []R
	unread     []R
	stopped    bool
	errs       error
}

func newTally[R any](cfg config) *tally[R] {
	return &tally[R]{stopOnFirstFailure: cfg.stopOnFirstFailure}
}

// skip records raw as unread once decoding has stopped.
func (t *tally[R]) skip(raw R) bool {
	if t.stopped {
		t.unread = append(t.unread, raw)
		return true
	}
	return false
}

func (t *tally[R]) fail(raw R, err error) {
	t.failed = append(t.failed, raw)
	t.errs = mergeErrors(t.errs, err)
	if t.stopOnFirstFailure {
		t.stopped = true
	}
}

// duplicate records raw as a repeated entry. A fatal duplicate also counts as
// a failure.
func (t *tally[R]) duplicate(raw R, err error, fatal bool) {
	t.duplicates = append(t.duplicates, raw)
	if fatal {
		t.fail(raw, err)
		return
	}
	t.note(err)
}

// note keeps a non-fatal error.
func (t *tally[R]) note(err error) {
	t.errs = mergeErrors(t.errs, err)
}

func (t *tally[R]) failures() bool {
	return len(t.failed) > 0
}

// conclude classifies a finished pass. Without diagnostics or notes the
// decode fully succeeded; with failures the accepted entries become the
// partial of a failure; otherwise they are a success with a non-fatal error.
func conclude[A, T any](cfg config, collection string, accepted A, failed bool, d *Diagnostics[T], errs error) Result[A] {
	if d.Empty() && errs == nil {
		return Success(accepted)
	}

	err := &CollectionError[T]{
		Collection:  collection,
		Diagnostics: d,
		entryErr:    errs,
	}

	if failed {
		cfg.logger.Debug("decode failed", collection, d.Names())
		return FailureWithPartial(accepted, error(err))
	}

	cfg.logger.Debug("decode degraded", collection, d.Names())
	return SuccessWithError(accepted, error(err))
}
