package sense

// Snapshot is an immutable view of a feature's state. It is always handed
// out by value.
type Snapshot[T any] struct {
	Support bool `json:"support" yaml:"support"`
	Value   T    `json:"value" yaml:"value"`
}

// DefaultSnapshot is the snapshot of an unsupported feature.
func DefaultSnapshot[T any](defaults T) Snapshot[T] {
	return Snapshot[T]{Support: false, Value: defaults}
}

// Merge returns a new supported snapshot carrying next. The receiver is not
// modified.
func (s Snapshot[T]) Merge(next T) Snapshot[T] {
	return Snapshot[T]{Support: true, Value: next}
}

// Extractor reads a live handle into a feature value. It receives the
// previously published value so fields it does not read carry over. An error
// (or a panic) drops the refresh.
type Extractor[T any] func(handle any, prev T) (T, error)
