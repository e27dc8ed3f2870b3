package coexist

import "sync"

// Recorder keeps every iteration it observes.
type Recorder struct {
	mu    sync.Mutex
	iters []Iteration
}

func NewRecorder() *Recorder {
	return &Recorder{iters: make([]Iteration, 0, 64)}
}

func (r *Recorder) OnIteration(it Iteration) {
	r.mu.Lock()
	r.iters = append(r.iters, it)
	r.mu.Unlock()
}

func (r *Recorder) Iterations() []Iteration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Iteration, len(r.iters))
	copy(out, r.iters)
	return out
}

// Pressures returns the trial pressure of each recorded iteration.
func (r *Recorder) Pressures() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.iters))
	for i, it := range r.iters {
		out[i] = it.Pressure
	}
	return out
}

// PressuresAt is Pressures restricted to the isotherm at temperature t.
func (r *Recorder) PressuresAt(t float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []float64
	for _, it := range r.iters {
		if it.Temperature == t {
			out = append(out, it.Pressure)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.iters = r.iters[:0]
	r.mu.Unlock()
}
