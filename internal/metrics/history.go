package metrics

// Series keeps the most recent values of a scalar for charting.
type Series struct {
	Name     string
	capacity int
	values   []float64
}

func NewSeries(name string, capacity int) *Series {
	if capacity < 1 {
		capacity = 1
	}
	return &Series{Name: name, capacity: capacity, values: make([]float64, 0, capacity)}
}

func (s *Series) Push(v float64) {
	if len(s.values) == s.capacity {
		copy(s.values, s.values[1:])
		s.values = s.values[:len(s.values)-1]
	}
	s.values = append(s.values, v)
}

// Values returns the buffered values, oldest first. The slice is shared.
func (s *Series) Values() []float64 { return s.values }
func (s *Series) Len() int          { return len(s.values) }
func (s *Series) Reset()            { s.values = s.values[:0] }

func (s *Series) Last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}
