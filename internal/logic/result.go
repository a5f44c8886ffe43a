package logic

import "sort"

// MoveResult collects the moves a team's logic chooses in one tick.
// It is filled by exactly one goroutine and then published as a whole.
type MoveResult struct {
	team  Team
	moves map[UnitID]MoveInfo
}

// NewMoveResult creates an empty result for team.
func NewMoveResult(team Team) *MoveResult {
	return &MoveResult{
		team:  team,
		moves: make(map[UnitID]MoveInfo),
	}
}

// Team returns the team this result belongs to.
func (r *MoveResult) Team() Team {
	return r.team
}

// Set records move for the unit described by state. Moves for dead units or
// units of another team are dropped silently. A later Set for the same unit
// replaces the earlier one.
func (r *MoveResult) Set(state UnitState, move MoveInfo) {
	if !state.Alive || state.Team != r.team {
		return
	}
	r.moves[state.ID] = move
}

// Get returns the move recorded for id.
func (r *MoveResult) Get(id UnitID) (MoveInfo, bool) {
	m, ok := r.moves[id]
	return m, ok
}

// Len returns the number of recorded moves.
func (r *MoveResult) Len() int {
	return len(r.moves)
}

// IDs returns the IDs with a recorded move in ascending order.
func (r *MoveResult) IDs() []UnitID {
	ids := make([]UnitID, 0, len(r.moves))
	for id := range r.moves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Moves returns a copy of the recorded moves.
func (r *MoveResult) Moves() map[UnitID]MoveInfo {
	out := make(map[UnitID]MoveInfo, len(r.moves))
	for id, m := range r.moves {
		out[id] = m
	}
	return out
}
