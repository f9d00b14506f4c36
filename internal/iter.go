// Package internal holds helpers shared by the uvm packages.
package internal

import (
	"iter"
)

// Concat2 yields the pairs of each sequence in turn, stopping early when the
// consumer does.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
