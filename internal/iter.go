// Package internal holds helpers shared by the intcode commands.
package internal

import (
	"iter"
)

// IterSeqConcat yields the values of each sequence in turn. A sequence is
// only started once the ones before it are exhausted, so a lazily read
// stream can follow fixed values.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for value := range seq {
				if !yield(value) {
					return
				}
			}
		}
	}
}
