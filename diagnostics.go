package codecable

import (
	"strings"

	"github.com/pwnedgod/codecable/ops"
)

// Bucket names used by the collection codecs.
const (
	BucketFailed          = "failed inputs"
	BucketDuplicates      = "duplicates"
	BucketDuplicateKeys   = "duplicate keys"
	BucketDuplicateValues = "duplicate values"
	BucketUnread          = "unread inputs"
)

type (
	// Diagnostics collects named buckets of raw, undecoded entries and
	// renders them either as a native value of the format or as text.
	// Buckets keep the order they were added in, and empty buckets are
	// omitted.
	Diagnostics[T any] struct {
		ops     ops.Ops[T]
		buckets []bucket[T]
	}

	bucket[T any] struct {
		name  string
		value T
	}
)

func NewDiagnostics[T any](o ops.Ops[T]) *Diagnostics[T] {
	return &Diagnostics[T]{ops: o}
}

// AddList adds raw as a list-shaped bucket.
func (d *Diagnostics[T]) AddList(name string, raw []T) *Diagnostics[T] {
	if len(raw) > 0 {
		d.buckets = append(d.buckets, bucket[T]{name: name, value: d.ops.CreateList(raw)})
	}
	return d
}

// AddMap adds raw as a map-shaped bucket.
func (d *Diagnostics[T]) AddMap(name string, raw []ops.Pair[T]) *Diagnostics[T] {
	if len(raw) > 0 {
		d.buckets = append(d.buckets, bucket[T]{name: name, value: d.ops.CreateMap(raw)})
	}
	return d
}

func (d *Diagnostics[T]) Empty() bool {
	return d == nil || len(d.buckets) == 0
}

func (d *Diagnostics[T]) Names() []string {
	if d == nil {
		return nil
	}

	names := make([]string, len(d.buckets))
	for i, b := range d.buckets {
		names[i] = b.name
	}
	return names
}

func (d *Diagnostics[T]) Get(name string) (T, bool) {
	if d != nil {
		for _, b := range d.buckets {
			if b.name == name {
				return b.value, true
			}
		}
	}

	var zero T
	return zero, false
}

// Value returns all buckets as one map of the format, keyed by bucket name.
// A nil Diagnostics has no format to build a map with and returns the zero T.
func (d *Diagnostics[T]) Value() T {
	if d == nil {
		var zero T
		return zero
	}

	pairs := make([]ops.Pair[T], len(d.buckets))
	for i, b := range d.buckets {
		pairs[i] = ops.Pair[T]{Key: d.ops.CreateString(b.name), Value: b.value}
	}
	return d.ops.CreateMap(pairs)
}

// String renders the buckets as " name: value, name: value".
func (d *Diagnostics[T]) String() string {
	if d.Empty() {
		return ""
	}

	var sb strings.Builder
	for i, b := range d.buckets {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(b.name)
		sb.WriteString(": ")
		sb.WriteString(d.ops.Stringify(b.value))
	}
	return sb.String()
}
