// Package game is the turn and round controller. It owns the board, the
// roster, the question cursor and every pending quiz or effect, and processes
// one action at a time under a single lock.
package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/board"
	"github.com/aaronzipp/minequiz/internal/effect"
	"github.com/aaronzipp/minequiz/internal/quiz"
	"github.com/aaronzipp/minequiz/internal/score"
	"github.com/aaronzipp/minequiz/internal/wheel"
)

var (
	// ErrAlreadyRunning is returned when starting a game that is in progress
	ErrAlreadyRunning = errors.New("game already running")
)

// Config holds the rules of a game
type Config struct {
	Teams      []string
	BoardSize  int
	MineCount  int
	DefuseTime time.Duration
	ResetDelay time.Duration

	PreQuizRate         float64
	PostQuizRate        float64
	PenaltyTargetsActor bool
	SwapRedraw          bool
	RevealCount         int
}

// DefaultConfig returns the standard 16×16, 40 mine rules for five teams
func DefaultConfig() Config {
	teams := make([]string, len(DefaultTeams))
	copy(teams, DefaultTeams)
	return Config{
		Teams:               teams,
		BoardSize:           DefaultBoardSize,
		MineCount:           DefaultMineCount,
		DefuseTime:          DefaultDefuseTime,
		ResetDelay:          DefaultResetDelay,
		PreQuizRate:         DefaultEffectRate,
		PostQuizRate:        DefaultEffectRate,
		PenaltyTargetsActor: true,
		RevealCount:         DefaultRevealCount,
	}
}

// Deps are the collaborators of a game. Nil fields get defaults.
type Deps struct {
	Source   wheel.Source
	Clock    wheel.Clock
	Spinner  wheel.Spinner
	Observer Observer
	Effects  *effect.Resolver
	Generate func(size, mines int, rng board.Source) *board.Board
}

// Game is one running party game
type Game struct {
	ID string

	mu       sync.Mutex
	cfg      Config
	src      wheel.Source
	clock    wheel.Clock
	spinner  wheel.Spinner
	observer Observer
	effects  *effect.Resolver
	generate func(size, mines int, rng board.Source) *board.Board

	running  bool
	finished bool
	board    *board.Board
	roster   *score.Roster
	bank     []quiz.Question
	cursor   int
	turn     int
	defused  int
	version  uint64
	seq      uint64

	session   *quiz.Session
	quizCell  board.Point
	quizActor int
	quizToken uint64
	quizTimer wheel.Timer
	deadline  time.Time

	pending   *effect.Effect
	spinning  bool
	spinToken uint64

	resetPending bool
	resetToken   uint64
	resetTimer   wheel.Timer

	suppressed  bool // pre-quiz effect fired this turn
	endPending  bool
	noticeOpen  bool
	lastMessage string
	winners     []int
	notices     []Notice
}

// New creates a game in the waiting phase with a fresh board
func New(cfg Config, deps Deps) *Game {
	if len(cfg.Teams) == 0 {
		cfg.Teams = DefaultConfig().Teams
	}
	g := &Game{
		ID:       uuid.New().String(),
		cfg:      cfg,
		src:      deps.Source,
		clock:    deps.Clock,
		spinner:  deps.Spinner,
		observer: deps.Observer,
		effects:  deps.Effects,
		generate: deps.Generate,
	}
	if g.src == nil {
		g.src = wheel.NewSource(wheel.NewSeed())
	}
	if g.clock == nil {
		g.clock = wheel.RealClock{}
	}
	if g.spinner == nil {
		g.spinner = wheel.Immediate{Source: g.src}
	}
	if g.observer == nil {
		g.observer = nopObserver{}
	}
	if g.effects == nil {
		g.effects = &effect.Resolver{
			PreQuizRate:         cfg.PreQuizRate,
			PostQuizRate:        cfg.PostQuizRate,
			PenaltyTargetsActor: cfg.PenaltyTargetsActor,
			SwapRedraw:          cfg.SwapRedraw,
			RevealCount:         cfg.RevealCount,
			Source:              g.src,
		}
	}
	if g.generate == nil {
		g.generate = board.Generate
	}
	g.roster = score.NewRoster(cfg.Teams)
	g.newBoard()
	return g
}

func (g *Game) logger() *log.Entry {
	return log.WithFields(log.Fields{"game": g.ID, "turn": g.turn, "cursor": g.cursor})
}

// Start resets scores, turn, cursor and board and begins a game with bank
func (g *Game) Start(bank []quiz.Question) error {
	if len(bank) == 0 {
		return fmt.Errorf("starting game: %w", quiz.ErrEmptyBank)
	}

	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return ErrAlreadyRunning
	}
	g.bank = append([]quiz.Question(nil), bank...)
	g.restart()
	g.running = true

	g.logger().WithField("questions", len(bank)).Info("game started")
	g.unlockAndPublish(true)
	return nil
}

// busy reports whether board input must be rejected
func (g *Game) busy() bool {
	return g.session != nil || g.pending != nil || g.spinning || g.resetPending || g.noticeOpen
}

// Busy reports whether the game is waiting on a quiz, wheel, notice or reset
func (g *Game) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy()
}

// OpenCell opens (x, y) for the team whose turn it is
func (g *Game) OpenCell(x, y int) Outcome {
	g.mu.Lock()
	if !g.running || g.busy() || !g.board.InRange(x, y) {
		g.mu.Unlock()
		return OutcomeRejected
	}

	switch g.board.Open(x, y) {
	case board.NoOp:
		g.mu.Unlock()
		return OutcomeNoOp

	case board.Opened:
		g.advanceTurn()
		g.unlockAndPublish(true)
		return OutcomeOpened
	}

	// un-defused mine
	actor := g.turn
	if e, ok := g.effects.RollPreQuiz(actor, g.roster.Names()); ok {
		g.suppressed = true
		g.board.MarkDefused(x, y)
		g.defused++
		g.logger().WithFields(log.Fields{"effect": e.Kind, "cell": board.Point{X: x, Y: y}.Label()}).Info("pre-quiz effect")
		if e.NeedsSpin() {
			g.pending = &e
		} else {
			g.applyEffect(e, -1)
		}
		g.advanceTurn()
		g.checkCleared()
		g.unlockAndPublish(true)
		return OutcomeEffect
	}

	if g.cursor >= len(g.bank) {
		g.endPending = true
		g.noticeOpen = true
		g.lastMessage = "No questions left for this mine."
		g.announce(NoticeExhausted, g.lastMessage)
		g.unlockAndPublish(true)
		return OutcomeExhausted
	}

	g.startQuiz(board.Point{X: x, Y: y}, actor)
	g.unlockAndPublish(true)
	return OutcomeQuiz
}

func (g *Game) startQuiz(cell board.Point, actor int) {
	g.session = quiz.New(g.bank[g.cursor], g.src)
	g.quizCell = cell
	g.quizActor = actor
	g.seq++
	token := g.seq
	g.quizToken = token
	g.deadline = g.clock.Now().Add(g.cfg.DefuseTime)
	g.quizTimer = g.clock.AfterFunc(g.cfg.DefuseTime, func() { g.expire(token) })
	g.logger().WithField("cell", cell.Label()).Debug("quiz started")
}

// SetFlag sets or clears the flag on a closed cell. The turn never changes.
func (g *Game) SetFlag(x, y int, value bool) Outcome {
	return g.flag(x, y, func(b *board.Board) bool { return b.SetFlag(x, y, value) })
}

// ToggleFlag flips the flag on a closed cell. The turn never changes.
func (g *Game) ToggleFlag(x, y int) Outcome {
	return g.flag(x, y, func(b *board.Board) bool { return b.ToggleFlag(x, y) })
}

func (g *Game) flag(x, y int, apply func(b *board.Board) bool) Outcome {
	g.mu.Lock()
	if !g.running || g.busy() || !g.board.InRange(x, y) {
		g.mu.Unlock()
		return OutcomeRejected
	}
	if !apply(g.board) {
		g.mu.Unlock()
		return OutcomeNoOp
	}
	g.unlockAndPublish(true)
	return OutcomeFlagged
}

// Answer selects the option at display index i of the open quiz
func (g *Game) Answer(i int) Outcome {
	g.mu.Lock()
	if g.session == nil {
		g.mu.Unlock()
		return OutcomeRejected
	}
	out, ok := g.session.Answer(i)
	if !ok {
		g.mu.Unlock()
		return OutcomeRejected
	}
	g.resolveQuiz(out)
	g.unlockAndPublish(true)
	return OutcomeResolved
}

// expire is the quiz timer callback. Stale tokens are ignored.
func (g *Game) expire(token uint64) {
	g.mu.Lock()
	if g.session == nil || token != g.quizToken {
		g.mu.Unlock()
		return
	}
	out, ok := g.session.Expire()
	if !ok {
		g.mu.Unlock()
		return
	}
	g.logger().Info("quiz timed out")
	g.resolveQuiz(out)
	g.unlockAndPublish(true)
}

func (g *Game) resolveQuiz(out quiz.Outcome) {
	if g.quizTimer != nil {
		g.quizTimer.Stop()
		g.quizTimer = nil
	}
	cell, actor := g.quizCell, g.quizActor

	if out.Success {
		g.board.MarkDefused(cell.X, cell.Y)
		g.defused++
		g.roster.Add(actor, 1)
		if !g.suppressed {
			if e, ok := g.effects.RollPostQuiz(actor, g.roster.Names()); ok {
				g.logger().WithField("effect", e.Kind).Info("post-quiz effect")
				if e.NeedsSpin() {
					g.pending = &e
				} else {
					g.applyEffect(e, -1)
				}
			}
		}
		g.advanceTurn()
		g.checkCleared()
	} else {
		g.board.MarkDetonated(cell.X, cell.Y)
		g.scheduleReset()
		g.advanceTurn()
	}

	g.session.Resolve()
	g.cursor++
	if g.cursor >= len(g.bank) {
		g.endPending = true
	}
	g.logger().WithFields(log.Fields{"success": out.Success, "timed_out": out.TimedOut}).Info("quiz resolved")
}

// ClaimEffect spins the wheel for the pending effect
func (g *Game) ClaimEffect() Outcome {
	g.mu.Lock()
	if g.pending == nil || g.spinning {
		g.mu.Unlock()
		return OutcomeRejected
	}
	g.spinning = true
	g.seq++
	token := g.seq
	g.spinToken = token
	labels := g.pending.Labels
	g.unlockAndPublish(true)

	g.spinner.Spin(labels, func(i int) { g.spinResolved(token, i) })
	return OutcomeSpinning
}

func (g *Game) spinResolved(token uint64, index int) {
	g.mu.Lock()
	if !g.spinning || token != g.spinToken || g.pending == nil {
		g.mu.Unlock()
		return
	}
	e := *g.pending
	g.pending = nil
	g.spinning = false
	g.applyEffect(e, index)
	g.unlockAndPublish(true)
}

func (g *Game) applyEffect(e effect.Effect, spin int) {
	rep := g.effects.Apply(e, spin, g.roster, g.board)
	g.lastMessage = rep.Message
	g.announce(NoticeEffect, rep.Message)
	g.logger().WithFields(log.Fields{"effect": e.Kind, "path": e.Path}).Info(rep.Message)
}

// Dismiss closes the quiz dialog or a blocking notice. An unclaimed
// post-quiz effect is forfeited. A pending end of game is announced here.
func (g *Game) Dismiss() Outcome {
	g.mu.Lock()
	if g.spinning {
		g.mu.Unlock()
		return OutcomeRejected
	}

	switch {
	case g.session != nil && g.session.State() == quiz.Resolved:
		g.session = nil
		if g.pending != nil && g.pending.Path == effect.PostQuiz {
			g.announce(NoticeForfeit, fmt.Sprintf("%s left the bonus wheel unclaimed.", g.roster.Name(g.pending.Actor)))
			g.pending = nil
		}
	case g.noticeOpen:
		g.noticeOpen = false
	default:
		g.mu.Unlock()
		return OutcomeNoOp
	}

	if g.endPending {
		g.endGame()
		g.unlockAndPublish(true)
		return OutcomeFinished
	}
	g.unlockAndPublish(true)
	return OutcomeDismissed
}

// NewBoard restarts play on the loaded bank with a fresh board, zeroed
// scores, turn and cursor
func (g *Game) NewBoard() Outcome {
	g.mu.Lock()
	if len(g.bank) == 0 || (g.running && g.busy()) {
		g.mu.Unlock()
		return OutcomeRejected
	}
	g.restart()
	g.running = true
	g.logger().Info("new board")
	g.unlockAndPublish(true)
	return OutcomeOpened
}

// Close stops the game for good. Pending timers and spins are cancelled and
// later actions are rejected. Observers are not notified.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopTimers()
	g.seq++
	g.running = false
	g.session = nil
	g.pending = nil
	g.spinning = false
	g.resetPending = false
	g.noticeOpen = false
	g.endPending = false
	g.notices = nil
	g.logger().Info("game closed")
}

// restart clears all round state and deals a new board
func (g *Game) restart() {
	g.stopTimers()
	g.seq++ // invalidates callbacks from earlier rounds

	g.roster.Reset()
	g.turn, g.cursor = 0, 0
	g.session = nil
	g.pending = nil
	g.spinning = false
	g.resetPending = false
	g.suppressed = false
	g.endPending = false
	g.noticeOpen = false
	g.finished = false
	g.winners = nil
	g.lastMessage = ""
	g.newBoard()
}

// Snapshot returns a copy of the current state
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) advanceTurn() {
	g.turn = (g.turn + 1) % g.roster.Len()
	g.suppressed = false
}

func (g *Game) newBoard() {
	g.board = g.generate(g.cfg.BoardSize, g.cfg.MineCount, g.src)
	g.defused = 0
}

func (g *Game) checkCleared() {
	if g.board.IsFullyCleared(g.defused) {
		g.announce(NoticeCleared, "All mines defused! Generating a new board.")
		g.newBoard()
	}
}

func (g *Game) scheduleReset() {
	g.resetPending = true
	g.seq++
	token := g.seq
	g.resetToken = token
	g.resetTimer = g.clock.AfterFunc(g.cfg.ResetDelay, func() { g.finishReset(token) })
}

func (g *Game) finishReset(token uint64) {
	g.mu.Lock()
	if !g.resetPending || token != g.resetToken {
		g.mu.Unlock()
		return
	}
	g.resetPending = false
	g.resetTimer = nil
	g.newBoard()
	g.logger().Info("board reset after detonation")
	g.unlockAndPublish(true)
}

func (g *Game) endGame() {
	g.stopTimers()
	g.running = false
	g.finished = true
	g.endPending = false
	g.session = nil
	g.pending = nil
	g.resetPending = false
	g.noticeOpen = false
	g.winners = g.roster.Leaders()
	msg := WinnerMessage(g.roster.Snapshot(), g.winners)
	g.lastMessage = msg
	g.announce(NoticeGameOver, msg)
	g.logger().WithField("winners", g.winners).Info("game over")
}

func (g *Game) stopTimers() {
	if g.quizTimer != nil {
		g.quizTimer.Stop()
		g.quizTimer = nil
	}
	if g.resetTimer != nil {
		g.resetTimer.Stop()
		g.resetTimer = nil
	}
}

func (g *Game) announce(kind NoticeKind, msg string) {
	g.notices = append(g.notices, Notice{Kind: kind, Message: msg})
}

// unlockAndPublish releases the lock and then hands the new state and any
// queued notices to the observer
func (g *Game) unlockAndPublish(changed bool) {
	var snap Snapshot
	if changed {
		g.version++
		snap = g.snapshot()
	}
	notices := g.notices
	g.notices = nil
	obs := g.observer
	g.mu.Unlock()

	for _, n := range notices {
		obs.Announce(n)
	}
	if changed {
		obs.Changed(snap)
	}
}

func (g *Game) phase() Phase {
	switch {
	case g.finished:
		return PhaseFinished
	case !g.running:
		return PhaseWaiting
	case g.spinning:
		return PhaseSpinning
	case g.session != nil:
		return PhaseQuiz
	case g.pending != nil:
		return PhaseEffect
	case g.noticeOpen:
		return PhaseNotice
	default:
		return PhasePlaying
	}
}

func (g *Game) snapshot() Snapshot {
	s := Snapshot{
		Version:     g.version,
		Phase:       g.phase(),
		Size:        g.board.Size(),
		Cells:       g.board.Cells(),
		Mines:       g.board.MineCount(),
		Defused:     g.defused,
		Teams:       g.roster.Snapshot(),
		Turn:        g.turn,
		Cursor:      g.cursor,
		BankSize:    len(g.bank),
		LastMessage: g.lastMessage,
		EndPending:  g.endPending,
		Winners:     append([]int(nil), g.winners...),
	}

	if g.session != nil {
		q := g.session.Question()
		opts := g.session.Options()
		view := &QuizView{
			Cell:     g.quizCell,
			Team:     g.quizActor,
			Number:   g.cursor + 1,
			Prompt:   q.Prompt,
			Options:  make([]string, len(opts)),
			Deadline: g.deadline,
			State:    g.session.State(),
		}
		for i, o := range opts {
			view.Options[i] = o.Text
		}
		if out, ok := g.session.Outcome(); ok {
			view.Outcome = &out
			// the cursor already moved past this question
			view.Number = g.cursor
		}
		s.Quiz = view
	}

	if g.pending != nil {
		s.Effect = &EffectView{
			Kind:     g.pending.Kind.String(),
			Path:     g.pending.Path.String(),
			Team:     g.pending.Actor,
			Prompt:   g.pending.Prompt,
			Labels:   append([]string(nil), g.pending.Labels...),
			Spinning: g.spinning,
		}
	}
	return s
}
