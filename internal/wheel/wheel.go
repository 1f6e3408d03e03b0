// Package wheel provides uniform random outcomes, either immediately or
// behind an animated spin that resolves after a fixed delay.
package wheel

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Source is the randomness used by the game. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// NewSeed returns a high-entropy seed, falling back to the clock if
// crypto/rand is unavailable
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		log.Printf("wheel: crypto seed unavailable, using clock: %v", err)
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NewSource returns a seeded Source
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock tells the time and schedules callbacks. RealClock uses the time package.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is the wall clock
type RealClock struct{}

// Now returns the current local time
func (RealClock) Now() time.Time { return time.Now() }

// AfterFunc runs f in its own goroutine after d
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Spinner resolves a choice among labels. done is called exactly once.
type Spinner interface {
	Spin(labels []string, done func(index int))
}

// Immediate picks synchronously without any animation
type Immediate struct {
	Source Source
}

// Pick returns a uniform index in [0, n)
func (p Immediate) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	return p.Source.Intn(n)
}

// Spin resolves before returning
func (p Immediate) Spin(labels []string, done func(index int)) {
	done(p.Pick(len(labels)))
}

// Surface draws the wheel. Animate must not block for the animation's length.
type Surface interface {
	Animate(labels []string, target int, d time.Duration) error
}

// Animated chooses the outcome up front, lets the surface animate towards it
// and resolves once the animation time has elapsed.
type Animated struct {
	Picker   Immediate
	Surface  Surface
	Clock    Clock
	Duration time.Duration
}

// Spin starts a spin. With no usable surface the spin resolves at once with
// index 0 so game logic never waits on the visual layer.
func (a *Animated) Spin(labels []string, done func(index int)) {
	var once sync.Once
	resolve := func(i int) {
		once.Do(func() { done(i) })
	}

	if len(labels) == 0 {
		resolve(0)
		return
	}
	if a.Surface == nil {
		log.Warn("wheel: no surface attached, resolving with default outcome")
		resolve(0)
		return
	}

	target := a.Picker.Pick(len(labels))
	if err := a.Surface.Animate(labels, target, a.Duration); err != nil {
		log.WithError(err).Warn("wheel: surface unavailable, resolving with default outcome")
		resolve(0)
		return
	}

	clock := a.Clock
	if clock == nil {
		clock = RealClock{}
	}
	clock.AfterFunc(a.Duration, func() { resolve(target) })
}

// TeamLabels builds wheel labels for a team roster
func TeamLabels(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// deltas is the inclusive score delta range offered by the delta wheel
var deltas = []int{-2, -1, 0, 1, 2, 3}

// DeltaLabels returns the labels of the score delta wheel
func DeltaLabels() []string {
	out := make([]string, len(deltas))
	for i, d := range deltas {
		if d > 0 {
			out[i] = "+" + strconv.Itoa(d)
		} else {
			out[i] = strconv.Itoa(d)
		}
	}
	return out
}

// DeltaAt maps a delta wheel index to its score delta
func DeltaAt(i int) int {
	if i < 0 || i >= len(deltas) {
		return 0
	}
	return deltas[i]
}
