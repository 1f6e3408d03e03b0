package render

import (
	"fmt"
	htmlpkg "html"
	"strconv"
	"strings"
	"time"

	"github.com/aaronzipp/minequiz/internal/board"
	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/quiz"
)

// Board generates the grid with column letters and row numbers
func Board(roomCode string, s game.Snapshot) string {
	playable := s.Phase == game.PhasePlaying
	var b strings.Builder
	b.WriteString(`<table class="board" data-version="`)
	b.WriteString(strconv.FormatUint(s.Version, 10))
	b.WriteString(`"><thead><tr><th></th>`)
	for x := range s.Size {
		b.WriteString(`<th>`)
		b.WriteByte(byte('A' + x))
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for y, row := range s.Cells {
		b.WriteString(`<tr><th>`)
		b.WriteString(strconv.Itoa(y + 1))
		b.WriteString(`</th>`)
		for x, c := range row {
			cell(&b, roomCode, board.Point{X: x, Y: y}, c, playable)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func cell(b *strings.Builder, roomCode string, p board.Point, c board.Cell, playable bool) {
	label := p.Label()
	switch {
	case c.IsDefused:
		b.WriteString(`<td class="cell defused" title="` + label + `">✔</td>`)
	case c.Detonated():
		b.WriteString(`<td class="cell detonated" title="` + label + `">✹</td>`)
	case c.IsOpen:
		b.WriteString(`<td class="cell open n`)
		b.WriteString(strconv.Itoa(int(c.Adjacent)))
		b.WriteString(`" title="` + label + `">`)
		if c.Adjacent > 0 {
			b.WriteString(strconv.Itoa(int(c.Adjacent)))
		}
		b.WriteString(`</td>`)
	default:
		class := "cell closed"
		text := ""
		if c.IsFlagged {
			class += " flagged"
			text = "⚑"
		}
		b.WriteString(`<td class="` + class + `"><button type="button" title="` + label + `"`)
		if playable {
			vals := fmt.Sprintf(`{"x":"%d","y":"%d"}`, p.X, p.Y)
			b.WriteString(` hx-post="/room/` + roomCode + `/open" hx-vals='` + vals + `' hx-swap="none"`)
			b.WriteString(` data-flag-url="/room/` + roomCode + `/toggle-flag" data-x="` + strconv.Itoa(p.X) + `" data-y="` + strconv.Itoa(p.Y) + `"`)
		} else {
			b.WriteString(` disabled`)
		}
		b.WriteString(`>` + text + `</button></td>`)
	}
}

// Scoreboard generates the team table with the current turn highlighted
func Scoreboard(s game.Snapshot) string {
	var b strings.Builder
	b.WriteString(`<h2>Scores</h2><table class="score-table"><thead><tr><th>Team</th><th>Points</th></tr></thead><tbody>`)
	for i, t := range s.Teams {
		class := "score-row"
		if i == s.Turn && s.Phase != game.PhaseWaiting && s.Phase != game.PhaseFinished {
			class += " current-turn"
		}
		for _, w := range s.Winners {
			if w == i {
				class += " winner"
			}
		}
		b.WriteString(`<tr class="` + class + `"><td class="score-team">`)
		b.WriteString(htmlpkg.EscapeString(t.Name))
		b.WriteString(`</td><td><span class="badge-pill">`)
		b.WriteString(strconv.Itoa(t.Score))
		b.WriteString(`</span></td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// Status generates the turn line, mine counter and question progress. A
// blocking notice gets a button to continue.
func Status(roomCode string, s game.Snapshot) string {
	var b strings.Builder
	b.WriteString(`<div class="status" data-phase="` + string(s.Phase) + `">`)
	switch s.Phase {
	case game.PhaseWaiting:
		b.WriteString(`<p>Waiting for the host to start the game...</p>`)
	case game.PhaseFinished:
		b.WriteString(`<p class="game-over">Game over</p>`)
	default:
		b.WriteString(`<p>Turn: <strong>`)
		b.WriteString(htmlpkg.EscapeString(s.Teams[s.Turn].Name))
		b.WriteString(`</strong></p>`)
	}
	b.WriteString(`<p class="text-muted">Mines left: `)
	b.WriteString(strconv.Itoa(s.Remaining()))
	b.WriteString(`/`)
	b.WriteString(strconv.Itoa(s.Mines))
	b.WriteString(` · Questions used: `)
	b.WriteString(strconv.Itoa(s.Cursor))
	b.WriteString(`/`)
	b.WriteString(strconv.Itoa(s.BankSize))
	b.WriteString(`</p>`)
	if s.LastMessage != "" {
		b.WriteString(`<p class="last-message">`)
		b.WriteString(htmlpkg.EscapeString(s.LastMessage))
		b.WriteString(`</p>`)
	}
	if s.Phase == game.PhaseNotice {
		b.WriteString(`<button class="btn btn-primary" hx-post="/room/` + roomCode + `/dismiss" hx-swap="none">Continue</button>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// Quiz generates the quiz dialog, or nothing when no quiz is open
func Quiz(roomCode string, s game.Snapshot) string {
	q := s.Quiz
	if q == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="dialog quiz" role="dialog">`)
	b.WriteString(`<h2>`)
	b.WriteString(htmlpkg.EscapeString(s.Teams[q.Team].Name))
	b.WriteString(` hit a mine at `)
	b.WriteString(q.Cell.Label())
	b.WriteString(`</h2><p class="text-muted">Question `)
	b.WriteString(strconv.Itoa(q.Number))
	b.WriteString(` of `)
	b.WriteString(strconv.Itoa(s.BankSize))
	b.WriteString(`</p><p class="prompt">`)
	b.WriteString(multiline(q.Prompt))
	b.WriteString(`</p>`)

	if q.Outcome == nil {
		b.WriteString(`<p class="countdown" data-deadline="`)
		b.WriteString(strconv.FormatInt(q.Deadline.UnixMilli(), 10))
		b.WriteString(`">`)
		b.WriteString(strconv.Itoa(secondsLeft(q.Deadline)))
		b.WriteString(`s</p><div class="button-stack">`)
		for i, opt := range q.Options {
			b.WriteString(`<button class="btn option" hx-post="/room/` + roomCode + `/answer" hx-vals='{"option":"` + strconv.Itoa(i) + `"}' hx-swap="none">`)
			b.WriteString(optionLetter(i))
			b.WriteString(`. `)
			b.WriteString(htmlpkg.EscapeString(opt))
			b.WriteString(`</button>`)
		}
		b.WriteString(`</div></div>`)
		return b.String()
	}

	out := q.Outcome
	b.WriteString(`<ul class="options resolved">`)
	for i, opt := range q.Options {
		class := "option"
		if i == out.Correct {
			class += " correct"
		} else if i == out.Selected {
			class += " wrong"
		}
		b.WriteString(`<li class="` + class + `">`)
		b.WriteString(optionLetter(i))
		b.WriteString(`. `)
		b.WriteString(htmlpkg.EscapeString(opt))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	b.WriteString(`<p class="verdict">`)
	b.WriteString(verdict(*out))
	b.WriteString(`</p><p class="explanation">`)
	b.WriteString(multiline(out.Explanation))
	b.WriteString(`</p>`)
	if q.State == quiz.Resolved {
		b.WriteString(`<button class="btn btn-secondary" hx-post="/room/` + roomCode + `/dismiss" hx-swap="none">Close</button>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func verdict(out quiz.Outcome) string {
	switch {
	case out.Success:
		return "Defused! +1 point."
	case out.TimedOut:
		return "Time's up! The mine exploded."
	default:
		return "Wrong answer! The mine exploded."
	}
}

// Effect generates the pending wheel effect panel, or nothing
func Effect(roomCode string, s game.Snapshot) string {
	e := s.Effect
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="dialog effect" data-kind="` + e.Kind + `" data-path="` + e.Path + `"><h2>Lucky wheel for `)
	b.WriteString(htmlpkg.EscapeString(s.Teams[e.Team].Name))
	b.WriteString(`</h2><p>`)
	b.WriteString(htmlpkg.EscapeString(e.Prompt))
	b.WriteString(`</p><ol class="wheel-labels">`)
	for _, l := range e.Labels {
		b.WriteString(`<li>`)
		b.WriteString(htmlpkg.EscapeString(l))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol>`)
	if e.Spinning {
		b.WriteString(`<p class="text-muted">Spinning...</p>`)
	} else {
		b.WriteString(`<button class="btn btn-primary" hx-post="/room/` + roomCode + `/claim" hx-swap="none">Spin the wheel</button>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// Wheel generates the animation instruction for a spin. The browser rotates
// the wheel so that target ends under the pointer after d.
func Wheel(labels []string, target int, d time.Duration) string {
	var b strings.Builder
	b.WriteString(`<div class="wheel spinning" data-target="`)
	b.WriteString(strconv.Itoa(target))
	b.WriteString(`" data-duration-ms="`)
	b.WriteString(strconv.FormatInt(d.Milliseconds(), 10))
	b.WriteString(`"><ol>`)
	for i, l := range labels {
		b.WriteString(`<li data-index="` + strconv.Itoa(i) + `">`)
		b.WriteString(htmlpkg.EscapeString(l))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ol></div>`)
	return b.String()
}

// Notice generates a notification toast
func Notice(n game.Notice) string {
	var b strings.Builder
	b.WriteString(`<div class="notice notice-` + string(n.Kind) + `" role="status">`)
	b.WriteString(htmlpkg.EscapeString(n.Message))
	b.WriteString(`</div>`)
	return b.String()
}

// Controls generates the host panel for the given viewer
func Controls(roomCode string, isHost bool, s game.Snapshot, bankSize int, bankSource string) string {
	if !isHost {
		if s.Phase == game.PhaseWaiting {
			return `<p>Waiting for host to start the game...</p>`
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="button-stack">`)
	if bankSize > 0 {
		b.WriteString(`<p class="text-muted">Question bank: `)
		b.WriteString(htmlpkg.EscapeString(bankSource))
		b.WriteString(` (`)
		b.WriteString(strconv.Itoa(bankSize))
		b.WriteString(` questions)</p>`)
	} else {
		b.WriteString(`<p class="text-muted">No question bank loaded</p>`)
	}

	switch s.Phase {
	case game.PhaseWaiting, game.PhaseFinished:
		if bankSize > 0 {
			b.WriteString(`<form hx-post="/room/` + roomCode + `/start" hx-swap="none"><button type="submit" class="btn btn-primary">Start Game</button></form>`)
		}
		b.WriteString(`<form hx-post="/room/` + roomCode + `/questions" hx-encoding="multipart/form-data" hx-swap="none"><input type="file" name="questions" accept=".txt"><button type="submit" class="btn btn-secondary">Load questions</button></form>`)
	case game.PhasePlaying:
		b.WriteString(`<form hx-post="/room/` + roomCode + `/new-board" hx-swap="none" hx-confirm="Restart with a new board? Scores will be reset."><button type="submit" class="btn btn-secondary">New board</button></form>`)
	}
	b.WriteString(`<form hx-post="/room/` + roomCode + `/close" hx-swap="none" hx-confirm="Close the room for everyone?"><button type="submit" class="btn btn-danger">Close room</button></form>`)
	b.WriteString(`</div>`)
	return b.String()
}

// Results generates the final standings, best team first
func Results(s game.Snapshot) string {
	order := make([]int, len(s.Teams))
	for i := range order {
		order[i] = i
	}
	// insertion sort keeps roster order among equal scores
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && s.Teams[order[j]].Score > s.Teams[order[j-1]].Score; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	var b strings.Builder
	b.WriteString(`<h2>Final standings</h2><ol class="standings">`)
	for _, i := range order {
		t := s.Teams[i]
		b.WriteString(`<li>`)
		b.WriteString(htmlpkg.EscapeString(t.Name))
		b.WriteString(` <span class="badge-pill">`)
		b.WriteString(strconv.Itoa(t.Score))
		b.WriteString(`</span></li>`)
	}
	b.WriteString(`</ol>`)
	if s.LastMessage != "" {
		b.WriteString(`<p class="game-over">`)
		b.WriteString(htmlpkg.EscapeString(s.LastMessage))
		b.WriteString(`</p>`)
	}
	return b.String()
}

// RedirectSnippet returns an HTMX snippet that triggers a client-side redirect
func RedirectSnippet(to string) string {
	var b strings.Builder
	b.WriteString(`<div hx-get="`)
	b.WriteString(htmlpkg.EscapeString(to))
	b.WriteString(`" hx-trigger="load" hx-target="body" hx-push-url="true"></div>`)
	return b.String()
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

func multiline(s string) string {
	return strings.ReplaceAll(htmlpkg.EscapeString(s), "\n", "<br>")
}

func secondsLeft(deadline time.Time) int {
	left := time.Until(deadline)
	if left < 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}
