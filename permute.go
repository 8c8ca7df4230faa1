package qc

import (
	"fmt"
)

// AdjacentTranspositions decomposes the move of a qubit from position
// `from` to position `to` into adjacent swaps {i, i+1}, in application
// order. Applying the returned swaps in reverse order undoes the move.
func AdjacentTranspositions(from, to int) [][2]int {
	ts := make([][2]int, 0)
	switch {
	case from > to:
		for i := from - 1; i >= to; i-- {
			ts = append(ts, [2]int{i, i + 1})
		}
	default:
		for i := from; i < to; i++ {
			ts = append(ts, [2]int{i, i + 1})
		}
	}
	return ts
}

// PermuteIndex relabels the qubits of a big-endian basis index: bit q of
// index becomes bit perm[q] of the result.
func PermuteIndex(index, n int, perm []int) int {
	out := 0
	for q := 0; q < n; q++ {
		bit := (index >> (n - 1 - q)) & 1
		out |= bit << (n - 1 - perm[q])
	}
	return out
}

// PermuteAmplitudes relabels the qubits of a state vector: dst under the
// new labels perm holds the same amplitudes as src. dst and src must not
// overlap.
func PermuteAmplitudes(dst, src []complex128, n int, perm []int) {
	if len(dst) != len(src) || len(src) != 1<<n {
		panic(fmt.Sprintf("%d %d %d", len(dst), len(src), 1<<n))
	}
	for i, a := range src {
		dst[PermuteIndex(i, n, perm)] = a
	}
}

// InvertPermutation returns the inverse of perm.
func InvertPermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}
