package spatial

// linear tests every box on every query
type linear struct {
	*boxSet
}

func (l *linear) Kind() Kind { return Linear }

func (l *linear) Query(x []float64, dst []int) []int {
	dst = dst[:0]
	p := l.point(x)
	for i, b := range l.boxes {
		if b.Holds(p) {
			dst = append(dst, i)
		}
	}
	l.rank(p, dst)
	return dst
}
