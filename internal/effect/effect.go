// Package effect decides and applies the bonus effects layered on top of
// mine encounters: before a quiz (in lieu of it) and after a successful one.
package effect

import (
	"fmt"
	"strings"

	"github.com/aaronzipp/minequiz/internal/board"
	"github.com/aaronzipp/minequiz/internal/score"
	"github.com/aaronzipp/minequiz/internal/wheel"
)

// Path tells when an effect was rolled
type Path int

const (
	PreQuiz Path = iota
	PostQuiz
)

func (p Path) String() string {
	if p == PostQuiz {
		return "post-quiz"
	}
	return "pre-quiz"
}

// Kind is the mechanical variant of an effect
type Kind int

const (
	Penalty Kind = iota // a spun team loses 1 point
	Bonus               // acting team gains 2 points
	Swap                // acting team swaps scores with a spun team
	Reveal              // a few safe cells are opened
	Delta               // acting team gets a spun delta in -2..+3
)

func (k Kind) String() string {
	switch k {
	case Penalty:
		return "penalty"
	case Bonus:
		return "bonus"
	case Swap:
		return "swap"
	case Reveal:
		return "reveal"
	case Delta:
		return "delta"
	default:
		return "unknown"
	}
}

var (
	preQuizKinds  = []Kind{Penalty, Bonus, Swap}
	postQuizKinds = []Kind{Reveal, Delta}
)

// Effect is a chosen but not yet applied bonus outcome
type Effect struct {
	Kind   Kind
	Path   Path
	Actor  int
	Prompt string
	Labels []string // wheel labels; empty when no wheel is needed
}

// NeedsSpin reports whether the effect must go through the wheel
func (e Effect) NeedsSpin() bool {
	return len(e.Labels) > 0
}

// Report is the applied consequence of an effect
type Report struct {
	Kind     Kind
	Message  string
	Changes  []score.Change
	Revealed []board.Point
}

// Resolver rolls and applies effects
type Resolver struct {
	PreQuizRate  float64
	PostQuizRate float64

	// PenaltyTargetsActor lets the penalty wheel land on the acting team.
	// When false a hit on the actor moves to the next team.
	PenaltyTargetsActor bool

	// SwapRedraw redraws once when the swap wheel lands on the actor before
	// falling back to the next team.
	SwapRedraw bool

	RevealCount int
	Source      wheel.Source
}

// RollPreQuiz runs the pre-quiz Bernoulli trial and picks a variant
func (r *Resolver) RollPreQuiz(actor int, teams []string) (Effect, bool) {
	if !r.trigger(r.PreQuizRate) {
		return Effect{}, false
	}
	kind := preQuizKinds[r.Source.Intn(len(preQuizKinds))]
	return Build(PreQuiz, kind, actor, teams), true
}

// RollPostQuiz runs the post-quiz Bernoulli trial and picks a variant
func (r *Resolver) RollPostQuiz(actor int, teams []string) (Effect, bool) {
	if !r.trigger(r.PostQuizRate) {
		return Effect{}, false
	}
	kind := postQuizKinds[r.Source.Intn(len(postQuizKinds))]
	return Build(PostQuiz, kind, actor, teams), true
}

func (r *Resolver) trigger(rate float64) bool {
	if rate <= 0 {
		return false
	}
	return r.Source.Float64() < rate
}

// Build describes an effect of the given kind for the acting team
func Build(path Path, kind Kind, actor int, teams []string) Effect {
	e := Effect{Kind: kind, Path: path, Actor: actor}
	switch kind {
	case Penalty:
		e.Prompt = "Pick a team to lose 1 point"
		e.Labels = wheel.TeamLabels(teams)
	case Swap:
		e.Prompt = fmt.Sprintf("Pick a team to swap scores with %s", teams[actor])
		e.Labels = wheel.TeamLabels(teams)
	case Delta:
		e.Prompt = "Draw a score change (-2 .. +3)"
		e.Labels = wheel.DeltaLabels()
	case Bonus:
		e.Prompt = fmt.Sprintf("%s earns 2 points", teams[actor])
	case Reveal:
		e.Prompt = "Reveal safe cells"
	}
	return e
}

// Apply performs the effect. spin is the wheel outcome for effects that need
// one and is ignored otherwise.
func (r *Resolver) Apply(e Effect, spin int, roster *score.Roster, b *board.Board) Report {
	rep := Report{Kind: e.Kind}
	actor := e.Actor
	n := roster.Len()

	switch e.Kind {
	case Penalty:
		target := spin
		if !r.PenaltyTargetsActor && target == actor && n > 1 {
			target = (actor + 1) % n
		}
		ch := roster.Add(target, -1)
		rep.Changes = []score.Change{ch}
		rep.Message = fmt.Sprintf("Hot potato: %s loses 1 point (%d → %d)",
			roster.Name(target), ch.Before, ch.After)

	case Bonus:
		ch := roster.Add(actor, 2)
		rep.Changes = []score.Change{ch}
		rep.Message = fmt.Sprintf("Two birds, one stone: %s +2 points (%d → %d)",
			roster.Name(actor), ch.Before, ch.After)

	case Swap:
		other := spin
		if other == actor && r.SwapRedraw && n > 1 {
			other = r.Source.Intn(n)
		}
		if other == actor && n > 1 {
			other = (actor + 1) % n
		}
		a, o := roster.Swap(actor, other)
		rep.Changes = []score.Change{a, o}
		aName, oName := roster.Name(actor), roster.Name(other)
		rep.Message = fmt.Sprintf("Lost your way: %s and %s swap scores (before: %s=%d, %s=%d; after: %s=%d, %s=%d)",
			aName, oName, aName, a.Before, oName, o.Before, aName, a.After, oName, o.After)

	case Delta:
		delta := wheel.DeltaAt(spin)
		ch := roster.Add(actor, delta)
		rep.Changes = []score.Change{ch}
		rep.Message = fmt.Sprintf("All or nothing: %s gets %+d points (%d → %d)",
			roster.Name(actor), delta, ch.Before, ch.After)

	case Reveal:
		rep.Revealed = r.reveal(b)
		labels := make([]string, len(rep.Revealed))
		for i, p := range rep.Revealed {
			labels[i] = p.Label()
		}
		rep.Message = fmt.Sprintf("Secret revealed: %d safe cells opened: %s",
			len(rep.Revealed), strings.Join(labels, ", "))
	}
	return rep
}

// reveal opens up to RevealCount random safe cells, drawn without replacement
func (r *Resolver) reveal(b *board.Board) []board.Point {
	safe := b.SafeClosed()
	count := min(r.RevealCount, len(safe))
	picked := make([]board.Point, 0, count)
	for range count {
		k := r.Source.Intn(len(safe))
		p := safe[k]
		safe = append(safe[:k], safe[k+1:]...)
		b.Flood(p.X, p.Y)
		picked = append(picked, p)
	}
	return picked
}
