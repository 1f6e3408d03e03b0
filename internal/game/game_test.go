package game

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/aaronzipp/minequiz/internal/board"
	"github.com/aaronzipp/minequiz/internal/effect"
	"github.com/aaronzipp/minequiz/internal/quiz"
	"github.com/aaronzipp/minequiz/internal/wheel"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) wheel.Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs the most recent timer regardless of whether it was stopped
func (c *fakeClock) fire() {
	c.timers[len(c.timers)-1].f()
}

// scripted replays fixed draws and then returns zero
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// fixedSpinner resolves every spin at once with the same index
type fixedSpinner struct {
	index int
	calls int
}

func (f *fixedSpinner) Spin(labels []string, done func(int)) {
	f.calls++
	done(f.index)
}

// heldSpinner keeps the callback so tests decide when the wheel stops
type heldSpinner struct {
	done func(int)
}

func (h *heldSpinner) Spin(labels []string, done func(int)) {
	h.done = done
}

type recorder struct {
	mu      sync.Mutex
	changed []Snapshot
	notices []Notice
}

func (r *recorder) Changed(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, s)
}

func (r *recorder) Announce(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) kinds() []NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NoticeKind, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Kind
	}
	return out
}

// topRow puts a mine in every cell of row 0 of a 4×4 board
var topRow = []board.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}

type harness struct {
	game      *Game
	clock     *fakeClock
	obs       *recorder
	generated int
}

func newHarness(t *testing.T, mines []board.Point, deps Deps) *harness {
	t.Helper()
	h := &harness{clock: &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}, obs: &recorder{}}
	cfg := DefaultConfig()
	cfg.BoardSize = 4
	cfg.MineCount = len(mines)
	cfg.PreQuizRate = 0
	cfg.PostQuizRate = 0

	if deps.Source == nil {
		deps.Source = rand.New(rand.NewSource(7))
	}
	deps.Clock = h.clock
	deps.Observer = h.obs
	deps.Generate = func(size, count int, _ board.Source) *board.Board {
		h.generated++
		return board.FromMines(size, mines)
	}
	h.game = New(cfg, deps)
	return h
}

func bank(n int) []quiz.Question {
	out := make([]quiz.Question, n)
	for i := range out {
		out[i] = quiz.Question{
			ID:      string(rune('1' + i)),
			Prompt:  "pick B",
			Options: map[quiz.Key]string{quiz.KeyA: "no", quiz.KeyB: "yes", quiz.KeyC: "nope"},
			Correct: quiz.KeyB,
		}
	}
	return out
}

func (h *harness) correct(t *testing.T) int {
	t.Helper()
	if h.game.session == nil {
		t.Fatal("no quiz open")
	}
	for i, o := range h.game.session.Options() {
		if o.Correct {
			return i
		}
	}
	t.Fatal("no correct option displayed")
	return -1
}

func (h *harness) wrong(t *testing.T) int {
	return (h.correct(t) + 1) % len(h.game.session.Options())
}

func expect(t *testing.T, action string, got, want Outcome) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %s, want %s", action, got, want)
	}
}

func TestStartRequiresQuestions(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(nil); !errors.Is(err, quiz.ErrEmptyBank) {
		t.Fatalf("Start(nil) = %v, want ErrEmptyBank", err)
	}
	if err := h.game.Start(bank(1)); err != nil {
		t.Fatal(err)
	}
	if err := h.game.Start(bank(1)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestActionsRejectedBeforeStart(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	expect(t, "OpenCell", h.game.OpenCell(0, 3), OutcomeRejected)
	expect(t, "ToggleFlag", h.game.ToggleFlag(0, 3), OutcomeRejected)
	if p := h.game.Snapshot().Phase; p != PhaseWaiting {
		t.Errorf("phase = %s, want waiting", p)
	}
}

func TestFullGameAllCorrect(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}

	for i := range 3 {
		expect(t, "OpenCell", h.game.OpenCell(i, 0), OutcomeQuiz)
		expect(t, "Answer", h.game.Answer(h.correct(t)), OutcomeResolved)
		if i < 2 {
			expect(t, "Dismiss", h.game.Dismiss(), OutcomeDismissed)
		}
	}

	s := h.game.Snapshot()
	if s.Defused != 3 {
		t.Errorf("defused = %d, want 3", s.Defused)
	}
	wantScores := []int{1, 1, 1, 0, 0}
	for i, team := range s.Teams {
		if team.Score != wantScores[i] {
			t.Errorf("team %d score = %d, want %d", i, team.Score, wantScores[i])
		}
	}
	if s.Turn != 3 || s.Cursor != 3 || !s.EndPending {
		t.Errorf("turn=%d cursor=%d endPending=%v, want 3, 3, true", s.Turn, s.Cursor, s.EndPending)
	}

	expect(t, "Dismiss", h.game.Dismiss(), OutcomeFinished)
	s = h.game.Snapshot()
	if s.Phase != PhaseFinished {
		t.Errorf("phase = %s, want finished", s.Phase)
	}
	if len(s.Winners) != 3 || s.Winners[0] != 0 || s.Winners[1] != 1 || s.Winners[2] != 2 {
		t.Errorf("winners = %v, want [0 1 2]", s.Winners)
	}
	if s.LastMessage != "Out of questions! Tie between Group 1, Group 2, Group 3 with 1 points." {
		t.Errorf("message = %q", s.LastMessage)
	}
	expect(t, "OpenCell after finish", h.game.OpenCell(3, 0), OutcomeRejected)
}

func TestSwapPreQuizEffect(t *testing.T) {
	src := &scripted{floats: []float64{0}, ints: []int{2}} // trigger, then Swap
	spinner := &fixedSpinner{index: 2}
	h := newHarness(t, topRow, Deps{
		Spinner: spinner,
		Effects: &effect.Resolver{PreQuizRate: 1, Source: src},
	})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}
	h.game.roster.Set(0, 5)
	h.game.roster.Set(2, 2)

	expect(t, "OpenCell", h.game.OpenCell(1, 0), OutcomeEffect)
	s := h.game.Snapshot()
	if s.Phase != PhaseEffect || s.Effect == nil || s.Effect.Kind != "swap" || s.Effect.Team != 0 {
		t.Fatalf("pending effect = %+v in phase %s", s.Effect, s.Phase)
	}
	if !s.Cells[0][1].IsDefused || s.Defused != 1 {
		t.Errorf("mine not defused by effect")
	}
	expect(t, "OpenCell while effect pending", h.game.OpenCell(0, 0), OutcomeRejected)
	expect(t, "Dismiss while effect pending", h.game.Dismiss(), OutcomeNoOp)

	expect(t, "ClaimEffect", h.game.ClaimEffect(), OutcomeSpinning)
	s = h.game.Snapshot()
	if s.Teams[0].Score != 2 || s.Teams[2].Score != 5 {
		t.Errorf("scores = %d/%d, want 2/5", s.Teams[0].Score, s.Teams[2].Score)
	}
	if s.Turn != 1 || s.Cursor != 0 {
		t.Errorf("turn=%d cursor=%d, want 1, 0", s.Turn, s.Cursor)
	}
	if s.Phase != PhasePlaying || s.Effect != nil {
		t.Errorf("phase = %s effect = %+v after spin", s.Phase, s.Effect)
	}
	if spinner.calls != 1 {
		t.Errorf("spinner called %d times", spinner.calls)
	}
	if s.LastMessage == "" {
		t.Error("no effect message")
	}
}

func TestBonusEffectSkipsQuizAndKeepsCursor(t *testing.T) {
	src := &scripted{floats: []float64{0}, ints: []int{1}} // trigger, then Bonus
	h := newHarness(t, topRow, Deps{Effects: &effect.Resolver{PreQuizRate: 1, PostQuizRate: 1, Source: src}})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	expect(t, "OpenCell", h.game.OpenCell(0, 0), OutcomeEffect)
	s := h.game.Snapshot()
	if s.Teams[0].Score != 2 || s.Cursor != 0 || s.Turn != 1 || s.Quiz != nil {
		t.Errorf("score=%d cursor=%d turn=%d quiz=%v", s.Teams[0].Score, s.Cursor, s.Turn, s.Quiz)
	}
	if got := h.obs.kinds(); len(got) != 1 || got[0] != NoticeEffect {
		t.Errorf("notices = %v, want one effect notice", got)
	}
}

func TestCursorMovesOncePerQuiz(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(4)); err != nil {
		t.Fatal(err)
	}
	last := h.game.Snapshot().Cursor
	for i := range 3 {
		h.game.OpenCell(i, 0)
		if c := h.game.Snapshot().Cursor; c != last {
			t.Fatalf("cursor moved on quiz start: %d -> %d", last, c)
		}
		if i%2 == 0 {
			h.game.Answer(h.correct(t))
		} else {
			h.game.Answer(h.wrong(t))
			h.clock.fire() // board reset
		}
		c := h.game.Snapshot().Cursor
		if c != last+1 {
			t.Fatalf("cursor = %d, want %d", c, last+1)
		}
		last = c
		h.game.Dismiss()
	}
}

func TestFlagsAndNoOpsKeepTurn(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(1)); err != nil {
		t.Fatal(err)
	}
	expect(t, "ToggleFlag", h.game.ToggleFlag(2, 0), OutcomeFlagged)
	expect(t, "OpenCell flagged", h.game.OpenCell(2, 0), OutcomeNoOp)
	expect(t, "SetFlag same", h.game.SetFlag(2, 0, true), OutcomeNoOp)
	expect(t, "SetFlag clear", h.game.SetFlag(2, 0, false), OutcomeFlagged)
	if turn := h.game.Snapshot().Turn; turn != 0 {
		t.Fatalf("turn = %d after flags, want 0", turn)
	}

	expect(t, "OpenCell safe", h.game.OpenCell(0, 3), OutcomeOpened)
	expect(t, "OpenCell again", h.game.OpenCell(0, 3), OutcomeNoOp)
	expect(t, "ToggleFlag open cell", h.game.ToggleFlag(0, 3), OutcomeNoOp)
	expect(t, "OpenCell off board", h.game.OpenCell(9, 9), OutcomeRejected)
	if turn := h.game.Snapshot().Turn; turn != 1 {
		t.Errorf("turn = %d, want 1", turn)
	}
}

func TestBusyDuringQuiz(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	expect(t, "OpenCell", h.game.OpenCell(0, 0), OutcomeQuiz)
	if !h.game.Busy() {
		t.Error("not busy during quiz")
	}
	expect(t, "OpenCell during quiz", h.game.OpenCell(0, 3), OutcomeRejected)
	expect(t, "ToggleFlag during quiz", h.game.ToggleFlag(0, 3), OutcomeRejected)
	expect(t, "NewBoard during quiz", h.game.NewBoard(), OutcomeRejected)
	expect(t, "Dismiss unresolved quiz", h.game.Dismiss(), OutcomeNoOp)
	expect(t, "ClaimEffect without effect", h.game.ClaimEffect(), OutcomeRejected)

	q := h.game.Snapshot().Quiz
	if q == nil || q.Number != 1 || q.Team != 0 || len(q.Options) != 3 || q.Outcome != nil {
		t.Fatalf("quiz view = %+v", q)
	}
}

func TestQuizDeadlineFollowsClock(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(1)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(1, 0)
	q := h.game.Snapshot().Quiz
	if q == nil {
		t.Fatal("no quiz open")
	}
	if want := h.clock.now.Add(DefaultDefuseTime); !q.Deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", q.Deadline, want)
	}
	if d := h.clock.timers[len(h.clock.timers)-1].d; d != DefaultDefuseTime {
		t.Errorf("timer delay = %v", d)
	}
}

func TestCloseCancelsQuizTimer(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	expect(t, "OpenCell", h.game.OpenCell(0, 0), OutcomeQuiz)
	timer := h.clock.timers[len(h.clock.timers)-1]
	published := len(h.obs.changed)

	h.game.Close()
	if !timer.stopped {
		t.Error("quiz timer still armed after Close")
	}
	h.clock.fire()
	if len(h.obs.changed) != published {
		t.Errorf("closed game published %d more snapshots", len(h.obs.changed)-published)
	}

	expect(t, "OpenCell after Close", h.game.OpenCell(0, 3), OutcomeRejected)
	expect(t, "Answer after Close", h.game.Answer(0), OutcomeRejected)
	expect(t, "Dismiss after Close", h.game.Dismiss(), OutcomeNoOp)
	if h.game.Busy() {
		t.Error("closed game still busy")
	}
	if s := h.game.Snapshot(); s.Phase != PhaseWaiting || s.Quiz != nil {
		t.Errorf("phase=%s quiz=%v", s.Phase, s.Quiz)
	}
}

func TestAnswerThenTimerResolvesOnce(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	expect(t, "Answer", h.game.Answer(h.correct(t)), OutcomeResolved)
	timer := h.clock.timers[0]
	if !timer.stopped {
		t.Error("quiz timer not stopped on answer")
	}
	timer.f()
	expect(t, "second Answer", h.game.Answer(0), OutcomeRejected)

	s := h.game.Snapshot()
	if s.Teams[0].Score != 1 || s.Cursor != 1 || s.Turn != 1 {
		t.Errorf("score=%d cursor=%d turn=%d, want 1, 1, 1", s.Teams[0].Score, s.Cursor, s.Turn)
	}
	if s.Quiz == nil || s.Quiz.Outcome == nil || !s.Quiz.Outcome.Success {
		t.Errorf("quiz outcome = %+v", s.Quiz)
	}
}

func TestTimerThenAnswerResolvesOnce(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	idx := h.correct(t)
	h.clock.timers[0].f()
	expect(t, "late Answer", h.game.Answer(idx), OutcomeRejected)

	s := h.game.Snapshot()
	if s.Teams[0].Score != 0 || s.Cursor != 1 || s.Turn != 1 {
		t.Errorf("score=%d cursor=%d turn=%d, want 0, 1, 1", s.Teams[0].Score, s.Cursor, s.Turn)
	}
	if s.Quiz == nil || s.Quiz.Outcome == nil || !s.Quiz.Outcome.TimedOut {
		t.Fatalf("quiz outcome = %+v", s.Quiz)
	}
	if s.Quiz.Outcome.Explanation != quiz.NoExplanation {
		t.Errorf("explanation = %q", s.Quiz.Outcome.Explanation)
	}
}

func TestFailedQuizResetsBoard(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 3)
	h.game.OpenCell(0, 0)
	before := h.generated
	expect(t, "Answer", h.game.Answer(h.wrong(t)), OutcomeResolved)

	s := h.game.Snapshot()
	if !s.Cells[0][0].Detonated() {
		t.Error("mine not shown as detonated")
	}
	expect(t, "Dismiss", h.game.Dismiss(), OutcomeDismissed)
	expect(t, "OpenCell before reset", h.game.OpenCell(3, 3), OutcomeRejected)

	reset := h.clock.timers[len(h.clock.timers)-1]
	if reset.d != DefaultResetDelay {
		t.Errorf("reset delay = %v", reset.d)
	}
	reset.f()
	if h.generated != before+1 {
		t.Errorf("board generated %d times, want once", h.generated-before)
	}
	s = h.game.Snapshot()
	if s.Defused != 0 || s.Cells[3][0].IsOpen || s.Turn != 2 {
		t.Errorf("defused=%d open=%v turn=%d after reset", s.Defused, s.Cells[3][0].IsOpen, s.Turn)
	}
	if s.Teams[1].Score != 0 || s.Cursor != 1 {
		t.Errorf("score or cursor changed by failure: %+v cursor=%d", s.Teams, s.Cursor)
	}
}

func TestFullClearDealsNewBoard(t *testing.T) {
	h := newHarness(t, []board.Point{{X: 0, Y: 0}}, Deps{})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}
	before := h.generated
	h.game.OpenCell(0, 0)
	h.game.Answer(h.correct(t))

	if h.generated != before+1 {
		t.Errorf("generated %d boards, want 1", h.generated-before)
	}
	s := h.game.Snapshot()
	if s.Defused != 0 || s.Cells[0][0].IsOpen {
		t.Error("board not replaced after full clear")
	}
	if s.Turn != 1 || s.Teams[0].Score != 1 {
		t.Errorf("turn=%d score=%d", s.Turn, s.Teams[0].Score)
	}
	found := false
	for _, k := range h.obs.kinds() {
		found = found || k == NoticeCleared
	}
	if !found {
		t.Error("no cleared notice")
	}
}

func TestStaleQuizTimerIgnored(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	h.game.Answer(h.correct(t))
	h.game.Dismiss()
	first := h.clock.timers[0]

	h.game.OpenCell(1, 0)
	first.f()
	if s := h.game.Snapshot(); s.Quiz == nil || s.Quiz.Outcome != nil {
		t.Fatalf("stale timer resolved the second quiz: %+v", s.Quiz)
	}
	expect(t, "Answer", h.game.Answer(h.correct(t)), OutcomeResolved)
}

func TestPostQuizEffectForfeitedOnDismiss(t *testing.T) {
	src := &scripted{floats: []float64{0}, ints: []int{1}} // trigger, then Delta
	h := newHarness(t, topRow, Deps{Effects: &effect.Resolver{PostQuizRate: 1, Source: src}})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	h.game.Answer(h.correct(t))

	s := h.game.Snapshot()
	if s.Effect == nil || s.Effect.Kind != "delta" || s.Effect.Path != "post-quiz" {
		t.Fatalf("effect = %+v", s.Effect)
	}
	expect(t, "Dismiss", h.game.Dismiss(), OutcomeDismissed)
	s = h.game.Snapshot()
	if s.Effect != nil || s.Phase != PhasePlaying || s.Teams[0].Score != 1 {
		t.Errorf("effect=%+v phase=%s score=%d", s.Effect, s.Phase, s.Teams[0].Score)
	}
	kinds := h.obs.kinds()
	if len(kinds) == 0 || kinds[len(kinds)-1] != NoticeForfeit {
		t.Errorf("notices = %v, want forfeit last", kinds)
	}
}

func TestPostQuizDeltaClaimed(t *testing.T) {
	src := &scripted{floats: []float64{0}, ints: []int{1}}
	spinner := &heldSpinner{}
	h := newHarness(t, topRow, Deps{Spinner: spinner, Effects: &effect.Resolver{PostQuizRate: 1, Source: src}})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	h.game.Answer(h.correct(t))
	expect(t, "ClaimEffect", h.game.ClaimEffect(), OutcomeSpinning)
	expect(t, "ClaimEffect twice", h.game.ClaimEffect(), OutcomeRejected)
	expect(t, "Dismiss while spinning", h.game.Dismiss(), OutcomeRejected)
	if p := h.game.Snapshot().Phase; p != PhaseSpinning {
		t.Fatalf("phase = %s, want spinning", p)
	}

	spinner.done(5) // +3
	spinner.done(0) // ignored
	if s := h.game.Snapshot(); s.Teams[0].Score != 4 {
		t.Errorf("score = %d, want 4", s.Teams[0].Score)
	}
	expect(t, "Dismiss", h.game.Dismiss(), OutcomeDismissed)
}

func TestPreQuizEffectSuppressesPostQuiz(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	h.game.suppressed = true
	h.game.effects.PostQuizRate = 1
	h.game.Answer(h.correct(t))
	if s := h.game.Snapshot(); s.Effect != nil {
		t.Errorf("post-quiz effect fired in a suppressed turn: %+v", s.Effect)
	}
}

func TestExhaustedBankEndsOnDismiss(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(1)); err != nil {
		t.Fatal(err)
	}
	h.game.cursor = 1
	expect(t, "OpenCell", h.game.OpenCell(0, 0), OutcomeExhausted)
	s := h.game.Snapshot()
	if s.Phase != PhaseNotice || !s.EndPending || s.Teams[0].Score != 0 {
		t.Fatalf("phase=%s endPending=%v", s.Phase, s.EndPending)
	}
	expect(t, "Dismiss", h.game.Dismiss(), OutcomeFinished)
	kinds := h.obs.kinds()
	if kinds[len(kinds)-1] != NoticeGameOver {
		t.Errorf("notices = %v", kinds)
	}
}

func TestNewBoardRestartsRound(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(3)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 0)
	h.game.Answer(h.correct(t))
	h.game.Dismiss()

	expect(t, "NewBoard", h.game.NewBoard(), OutcomeOpened)
	s := h.game.Snapshot()
	if s.Turn != 0 || s.Cursor != 0 || s.Teams[0].Score != 0 || s.Defused != 0 {
		t.Errorf("turn=%d cursor=%d score=%d defused=%d", s.Turn, s.Cursor, s.Teams[0].Score, s.Defused)
	}
	if s.Phase != PhasePlaying {
		t.Errorf("phase = %s", s.Phase)
	}
}

func TestObserverSeesIncreasingVersions(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	if err := h.game.Start(bank(2)); err != nil {
		t.Fatal(err)
	}
	h.game.OpenCell(0, 3)
	h.game.ToggleFlag(0, 0)
	h.game.OpenCell(0, 3) // noop, no publish

	if len(h.obs.changed) != 3 {
		t.Fatalf("changed %d times, want 3", len(h.obs.changed))
	}
	for i := 1; i < len(h.obs.changed); i++ {
		if h.obs.changed[i].Version <= h.obs.changed[i-1].Version {
			t.Errorf("versions not increasing: %d then %d", h.obs.changed[i-1].Version, h.obs.changed[i].Version)
		}
	}
}

func TestWinnerMessage(t *testing.T) {
	h := newHarness(t, topRow, Deps{})
	h.game.roster.Set(3, 4)
	got := WinnerMessage(h.game.roster.Snapshot(), h.game.roster.Leaders())
	if got != "Out of questions! Group 4 wins with 4 points." {
		t.Errorf("WinnerMessage = %q", got)
	}
}
