package quiz

import "errors"

// Key identifies an answer option
type Key string

const (
	KeyA Key = "A"
	KeyB Key = "B"
	KeyC Key = "C"
	KeyD Key = "D"
)

// Keys lists the option keys in bank order
var Keys = []Key{KeyA, KeyB, KeyC, KeyD}

// NoExplanation is shown when a question carries no explanation
const NoExplanation = "No explanation provided."

// ErrEmptyBank is returned when a question bank holds no questions
var ErrEmptyBank = errors.New("question bank is empty")

// Question is one immutable bank entry
type Question struct {
	ID          string
	Prompt      string
	Options     map[Key]string // unused keys hold ""
	Correct     Key
	Explanation string
}

// Option is an answer as displayed to players
type Option struct {
	Key     Key
	Text    string
	Correct bool
}
