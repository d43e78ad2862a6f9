package trackers

import "iter"

// For wraps a finite sequence, re-yielding its elements while printing one
// progress line per step. The sequence length is unknown unless announced via
// WithTotal, in which case lines render as (i/total); otherwise as (i).
//
//	for v := range trackers.For("lazy loop", seq) { ... }
//
// The line for step k is written after the loop body for step k returns, so
// the reported elapsed time covers the work done so far. Breaking out of the
// loop stops output; the returned sequence is single-use, matching the usual
// iterator exhaustion semantics.
func For[T any](label string, seq iter.Seq[T], opts ...Option) iter.Seq[T] {
	return func(yield func(T) bool) {
		l := newLoop(label, opts)
		l.begin()
		for v := range seq {
			if !yield(v) {
				l.finish(true)
				return
			}
			l.step()
		}
		l.finish(false)
	}
}

// ForSlice wraps a slice, deriving the total from len(s).
//
//	for v := range trackers.ForSlice("lazy loop", items) { ... }
func ForSlice[S ~[]E, E any](label string, s S, opts ...Option) iter.Seq[E] {
	opts = append(opts, WithTotal(len(s)))
	return For(label, func(yield func(E) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}, opts...)
}

// Enumerate is For with a 0-based position alongside each element, for loops
// that need the index as well as the value.
//
//	for i, v := range trackers.Enumerate("lazy loop", seq) { ... }
func Enumerate[T any](label string, seq iter.Seq[T], opts ...Option) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		l := newLoop(label, opts)
		l.begin()
		pos := 0
		for v := range seq {
			if !yield(pos, v) {
				l.finish(true)
				return
			}
			pos++
			l.step()
		}
		l.finish(false)
	}
}
