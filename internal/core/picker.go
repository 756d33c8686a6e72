package core

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses one of n candidate responses.  Implementations must return
// a value in [0, n); out-of-range values are treated as 0.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(n int) int

// Pick calls f(n).
func (f PickerFunc) Pick(n int) int { return f(n) }

type globalPicker struct{}

func (globalPicker) Pick(n int) int { return rand.IntN(n) }

// DefaultPicker draws from the process-wide math/rand source.
var DefaultPicker Picker = globalPicker{}

// seededPicker is a reproducible picker.  rand.Rand is not safe for
// concurrent use, hence the mutex.
type seededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPicker returns a Picker whose sequence of choices is fixed by seed.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *seededPicker) Pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// choose returns one element of options using p.  It never panics: an empty
// slice yields "", a misbehaving picker yields the first option.
func choose(p Picker, options []string) (out string) {
	if len(options) == 0 {
		return ""
	}
	defer func() {
		if recover() != nil {
			out = options[0]
		}
	}()
	i := p.Pick(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}
