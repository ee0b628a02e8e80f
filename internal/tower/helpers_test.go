package tower

// stubSource — детерминированный источник: возвращает fn(n), обрезанное до [0, n).
type stubSource struct {
	fn func(n int) int
}

func (s stubSource) Intn(n int) int {
	v := s.fn(n)
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// maxSource всегда выдаёт максимум диапазона: трение 10, бросок = стабильность.
func maxSource() RandomSource { return stubSource{fn: func(n int) int { return n - 1 }} }

// minSource всегда выдаёт минимум диапазона: трение 1, бросок = 1.
func minSource() RandomSource { return stubSource{fn: func(int) int { return 0 }} }

func fill[E any](t *Tower[E], values ...E) {
	for _, v := range values {
		t.Add(v)
	}
}

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
