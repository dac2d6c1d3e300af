package worklist

// Worklist is a FIFO queue of pending elements.
type Worklist[T any] struct {
	list []T
}

// Start worklist execution with provided `starting` element and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func Start[T any](start T, do func(next T, add func(el T))) {
	StartV([]T{start}, do)
}

// Start worklist execution with a preloaded queue and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func StartV[T any](start []T, do func(next T, add func(el T))) {
	W := Empty[T]()
	for _, e := range start {
		W.Add(e)
	}

	W.Process(do)
}

func Empty[T any]() Worklist[T] {
	return Worklist[T]{}
}

func (w *Worklist[T]) GetNext() (ret T) {
	if len(w.list) == 0 {
		return
	}
	next := w.list[0]
	w.list = w.list[1:]
	return next
}

func (w *Worklist[T]) IsEmpty() bool {
	return len(w.list) == 0
}

func (w *Worklist[T]) Len() int {
	return len(w.list)
}

func (w *Worklist[T]) Process(
	do func(
		next T,
		add func(element T))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}

func (w *Worklist[T]) Add(el T) {
	w.list = append(w.list, el)
}

// Unique is a FIFO worklist that never holds the same element twice.
// Adding an element that is already pending is a no-op; once an element
// has been dequeued it may be added again.
type Unique[T comparable] struct {
	Worklist[T]
	pending map[T]struct{}
}

func EmptyUnique[T comparable]() *Unique[T] {
	return &Unique[T]{pending: make(map[T]struct{})}
}

func (w *Unique[T]) Add(el T) {
	if _, found := w.pending[el]; found {
		return
	}
	w.pending[el] = struct{}{}
	w.Worklist.Add(el)
}

func (w *Unique[T]) GetNext() T {
	next := w.Worklist.GetNext()
	delete(w.pending, next)
	return next
}

// Contains checks whether el is currently pending.
func (w *Unique[T]) Contains(el T) bool {
	_, found := w.pending[el]
	return found
}

func (w *Unique[T]) Process(do func(next T, add func(el T))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}
