package qc

import (
	"strconv"
)

// BitString expands a big-endian basis index into its n bits.
func BitString(index, n int) []byte {
	bits := make([]byte, n)
	for q := 0; q < n; q++ {
		bits[q] = byte((index >> (n - 1 - q)) & 1)
	}
	return bits
}

// BitIndex folds big-endian bits back into a basis index.
func BitIndex(bits []byte) int {
	idx := 0
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] == 1 {
			idx += 1 << (len(bits) - 1 - i)
		}
	}
	return idx
}

// FormatBits renders bits as a string such as "0110".
func FormatBits(bits []byte) string {
	s := make([]byte, len(bits))
	for i, b := range bits {
		s[i] = '0' + b
	}
	return string(s)
}

// Bits iterates over all basis states of n qubits, yielding the index and
// its big-endian bits. The bit slice is reused between iterations.
func Bits(n int) func(yield func(int, []byte) bool) {
	state := make([]byte, n)
	return func(yield func(int, []byte) bool) {
		numStates := 1 << n
		for i := range numStates {
			s := strconv.FormatInt(int64(i), 2)
			for j := 0; j < n-len(s); j++ {
				state[j] = 0
			}
			for j, bit := range []byte(s) {
				state[n-len(s)+j] = bit - '0'
			}
			if !yield(i, state) {
				return
			}
		}
	}
}
