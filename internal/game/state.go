package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/aaronzipp/minequiz/internal/board"
	"github.com/aaronzipp/minequiz/internal/quiz"
	"github.com/aaronzipp/minequiz/internal/score"
)

// Phase is the externally visible state of a game
type Phase string

const (
	PhaseWaiting  Phase = "waiting"  // not started
	PhasePlaying  Phase = "playing"  // board accepts input
	PhaseQuiz     Phase = "quiz"     // quiz dialog open
	PhaseEffect   Phase = "effect"   // wheel effect waiting to be claimed
	PhaseSpinning Phase = "spinning" // wheel in motion
	PhaseNotice   Phase = "notice"   // blocking message waiting for dismissal
	PhaseFinished Phase = "finished"
)

// Outcome classifies what a player action did
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"  // game not running or busy
	OutcomeNoOp      Outcome = "noop"      // nothing changed, turn kept
	OutcomeOpened    Outcome = "opened"    // cells opened, turn ended
	OutcomeEffect    Outcome = "effect"    // pre-quiz effect defused the mine, turn ended
	OutcomeQuiz      Outcome = "quiz"      // quiz started, turn pending
	OutcomeExhausted Outcome = "exhausted" // no question left for the mine
	OutcomeFlagged   Outcome = "flagged"   // flag changed, turn kept
	OutcomeResolved  Outcome = "resolved"  // quiz or effect resolved
	OutcomeSpinning  Outcome = "spinning"  // wheel started
	OutcomeDismissed Outcome = "dismissed" // dialog closed
	OutcomeFinished  Outcome = "finished"  // dismissal ended the game
)

// NoticeKind tags a user-facing message
type NoticeKind string

const (
	NoticeEffect    NoticeKind = "effect"
	NoticeCleared   NoticeKind = "cleared"
	NoticeExhausted NoticeKind = "exhausted"
	NoticeForfeit   NoticeKind = "forfeit"
	NoticeGameOver  NoticeKind = "game_over"
)

// Notice is a message for the notification surface
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Observer receives every state change. It is called outside the game lock.
type Observer interface {
	Changed(s Snapshot)
	Announce(n Notice)
}

type nopObserver struct{}

func (nopObserver) Changed(Snapshot) {}
func (nopObserver) Announce(Notice)  {}

// QuizView is the quiz dialog as players see it. Correctness is only
// exposed once the quiz is over.
type QuizView struct {
	Cell     board.Point
	Team     int
	Number   int // 1-based position in the bank
	Prompt   string
	Options  []string
	Deadline time.Time
	State    quiz.State
	Outcome  *quiz.Outcome
}

// EffectView describes a pending wheel effect
type EffectView struct {
	Kind     string
	Path     string
	Team     int
	Prompt   string
	Labels   []string
	Spinning bool
}

// Snapshot is a read-only copy of a game
type Snapshot struct {
	Version     uint64
	Phase       Phase
	Size        int
	Cells       [][]board.Cell
	Mines       int
	Defused     int
	Teams       []score.Team
	Turn        int
	Cursor      int
	BankSize    int
	Quiz        *QuizView
	Effect      *EffectView
	LastMessage string
	EndPending  bool
	Winners     []int
}

// Remaining returns the number of mines not yet defused
func (s Snapshot) Remaining() int {
	return s.Mines - s.Defused
}

// WinnerMessage announces the top team, or every team sharing the top score
func WinnerMessage(teams []score.Team, winners []int) string {
	if len(winners) == 0 {
		return "Out of questions!"
	}
	best := teams[winners[0]].Score
	if len(winners) == 1 {
		return fmt.Sprintf("Out of questions! %s wins with %d points.", teams[winners[0]].Name, best)
	}
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = teams[w].Name
	}
	return fmt.Sprintf("Out of questions! Tie between %s with %d points.", strings.Join(names, ", "), best)
}
