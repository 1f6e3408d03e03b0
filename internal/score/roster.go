// Package score keeps the team roster and its never-negative scores.
package score

// Team is one entry of the roster
type Team struct {
	Name  string
	Score int
}

// Change records a single score update
type Change struct {
	Team   int
	Before int
	After  int
}

// Roster is an ordered list of teams with stable indices
type Roster struct {
	teams []Team
}

// NewRoster creates a roster with every team at zero
func NewRoster(names []string) *Roster {
	r := &Roster{teams: make([]Team, len(names))}
	for i, n := range names {
		r.teams[i] = Team{Name: n}
	}
	return r
}

// Len returns the number of teams
func (r *Roster) Len() int { return len(r.teams) }

// Name returns the display name of team i
func (r *Roster) Name(i int) string { return r.teams[i].Name }

// Names returns all team names in roster order
func (r *Roster) Names() []string {
	out := make([]string, len(r.teams))
	for i, t := range r.teams {
		out[i] = t.Name
	}
	return out
}

// Score returns the score of team i
func (r *Roster) Score(i int) int { return r.teams[i].Score }

// Add applies delta to team i, flooring the result at zero
func (r *Roster) Add(i, delta int) Change {
	before := r.teams[i].Score
	after := max(before+delta, 0)
	r.teams[i].Score = after
	return Change{Team: i, Before: before, After: after}
}

// Swap exchanges the scores of teams i and j
func (r *Roster) Swap(i, j int) (Change, Change) {
	a, b := r.teams[i].Score, r.teams[j].Score
	r.teams[i].Score, r.teams[j].Score = b, a
	return Change{Team: i, Before: a, After: b}, Change{Team: j, Before: b, After: a}
}

// Set overwrites the score of team i, flooring at zero
func (r *Roster) Set(i, value int) {
	r.teams[i].Score = max(value, 0)
}

// Reset zeroes every score
func (r *Roster) Reset() {
	for i := range r.teams {
		r.teams[i].Score = 0
	}
}

// Leaders returns the indices of the teams holding the top score. Ties are
// all returned.
func (r *Roster) Leaders() []int {
	if len(r.teams) == 0 {
		return nil
	}
	best := r.teams[0].Score
	for _, t := range r.teams[1:] {
		best = max(best, t.Score)
	}
	var out []int
	for i, t := range r.teams {
		if t.Score == best {
			out = append(out, i)
		}
	}
	return out
}

// Snapshot returns a copy of the teams
func (r *Roster) Snapshot() []Team {
	out := make([]Team, len(r.teams))
	copy(out, r.teams)
	return out
}
