package scope

import (
	"math"
	"math/cmplx"
)

// radix-2 FFT with precomputed bit-reverse and twiddle tables.
type fft struct {
	bitReverseTable []int
	wTable          []complex128
	inverse         bool
}

func newFFT(length int, inverse bool) *fft {
	return &fft{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		inverse:         inverse,
	}
}

func makeBitReverseTable(n int) []int {
	table := make([]int, n)
	for i := 0; i < n; i++ {
		table[i] = bitReverse(i, n)
	}
	return table
}

func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}

func makeWTable(n int) []complex128 {
	table := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		table[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return table
}

// calc transforms x in place. len(x) must match the table length.
func (f *fft) calc(x []complex128) {
	n := len(x)
	if n != len(f.bitReverseTable) {
		panic("fft: length mismatch")
	}
	for i := 0; i < n; i++ {
		rev := f.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			if f.inverse {
				idx = (n - idx) % n
			}
			w := f.wTable[idx]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
	if f.inverse {
		for i := 0; i < n; i++ {
			x[i] /= complex(float64(n), 0)
		}
	}
}

func nextPow2(n int) int {
	m := 1
	for m < n {
		m = m << 1
	}
	return m
}
