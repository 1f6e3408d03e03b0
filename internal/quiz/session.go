// Package quiz holds the question bank format and the per-mine quiz session.
package quiz

import "strings"

// Source shuffles option display order
type Source interface {
	Intn(n int) int
}

// State of a quiz session
type State int

const (
	Presenting State = iota
	Answered
	TimedOut
	Resolved
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Answered:
		return "answered"
	case TimedOut:
		return "timed_out"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is the locked-in result of a session
type Outcome struct {
	Success     bool
	TimedOut    bool
	Selected    int // display index, -1 on timeout
	Correct     int // display index of the correct option, -1 if not displayed
	Explanation string
}

// Session is one question instance for one triggered mine
type Session struct {
	question Question
	options  []Option
	state    State
	outcome  Outcome
}

// New presents q with empty options dropped and the rest in random order
func New(q Question, rng Source) *Session {
	opts := make([]Option, 0, len(Keys))
	for _, k := range Keys {
		text := strings.TrimSpace(q.Options[k])
		if text == "" {
			continue
		}
		opts = append(opts, Option{Key: k, Text: text, Correct: k == q.Correct})
	}
	for i := len(opts) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		opts[i], opts[j] = opts[j], opts[i]
	}
	return &Session{question: q, options: opts, state: Presenting}
}

// Question returns the bank entry being asked
func (s *Session) Question() Question { return s.question }

// Options returns the options in display order
func (s *Session) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// State returns the current state
func (s *Session) State() State { return s.state }

// Outcome returns the result once the session has left Presenting
func (s *Session) Outcome() (Outcome, bool) {
	if s.state == Presenting {
		return Outcome{}, false
	}
	return s.outcome, true
}

// Answer locks in the option at display index i. Only the first answer or
// timeout counts; later calls report false and change nothing.
func (s *Session) Answer(i int) (Outcome, bool) {
	if s.state != Presenting || i < 0 || i >= len(s.options) {
		return Outcome{}, false
	}
	s.state = Answered
	s.outcome = s.lock(i)
	return s.outcome, true
}

// Expire ends the countdown. It counts as a wrong answer but still exposes
// the correct option.
func (s *Session) Expire() (Outcome, bool) {
	if s.state != Presenting {
		return Outcome{}, false
	}
	s.state = TimedOut
	s.outcome = s.lock(-1)
	s.outcome.TimedOut = true
	return s.outcome, true
}

// Resolve marks the session's consequences as applied
func (s *Session) Resolve() {
	if s.state == Answered || s.state == TimedOut {
		s.state = Resolved
	}
}

func (s *Session) lock(selected int) Outcome {
	o := Outcome{Selected: selected, Correct: -1, Explanation: strings.TrimSpace(s.question.Explanation)}
	if o.Explanation == "" {
		o.Explanation = NoExplanation
	}
	for i, opt := range s.options {
		if opt.Correct {
			o.Correct = i
		}
	}
	o.Success = selected >= 0 && s.options[selected].Correct
	return o
}
