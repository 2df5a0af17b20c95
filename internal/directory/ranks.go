package directory

import (
	"sort"

	"infinite-experiment/calllist/internal/constants"
)

// Ranked is the minimal view of a phone the rank reconciler works on.
type Ranked struct {
	ID   string
	Rank int
}

// RankChange is one row write needed to reach a valid assignment.
type RankChange struct {
	ID   string
	From int
	To   int
}

// CheckAdd rejects adding a phone to a station that already has count phones.
func CheckAdd(count int) error {
	if count >= constants.MaxPhonesPerStation {
		return ErrTooManyPhones
	}
	return nil
}

// CheckRemove rejects removing a phone when it would leave the station with none.
func CheckRemove(count int) error {
	if count <= 1 {
		return ErrLastPhone
	}
	return nil
}

// NextRank is max(existing ranks, 0) + 1.
func NextRank(phones []Ranked) int {
	highest := 0
	for _, p := range phones {
		if p.Rank > highest {
			highest = p.Rank
		}
	}
	return highest + 1
}

// Contiguous reports whether ranks are exactly 1..n with no duplicates.
func Contiguous(phones []Ranked) bool {
	seen := make(map[int]bool, len(phones))
	for _, p := range phones {
		if p.Rank < 1 || p.Rank > len(phones) || seen[p.Rank] {
			return false
		}
		seen[p.Rank] = true
	}
	return true
}

// ordered returns the ids sorted by current rank. Ties (which only exist in
// already-corrupt data) fall back to id order so results are deterministic.
func ordered(phones []Ranked) []string {
	sorted := make([]Ranked, len(phones))
	copy(sorted, phones)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].ID < sorted[j].ID
	})
	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	return ids
}

// diffRanks reports the writes needed to move from phones to the order in ids.
func diffRanks(phones []Ranked, ids []string) []RankChange {
	current := make(map[string]int, len(phones))
	for _, p := range phones {
		current[p.ID] = p.Rank
	}
	var changes []RankChange
	for i, id := range ids {
		if from, ok := current[id]; !ok || from != i+1 {
			changes = append(changes, RankChange{ID: id, From: current[id], To: i + 1})
		}
	}
	return changes
}

// Compact closes any gaps left by a removal. Relative order is preserved.
func Compact(phones []Ranked) []RankChange {
	return diffRanks(phones, ordered(phones))
}

// Insert places newID at rank (clamped to 1..n+1), shifting everything at or
// below that rank down by one. A rank of 0 appends. The returned changes
// include the new phone with From == 0.
func Insert(phones []Ranked, newID string, rank int) ([]RankChange, error) {
	if err := CheckAdd(len(phones)); err != nil {
		return nil, err
	}
	ids := ordered(phones)
	pos := len(ids)
	if rank > 0 && rank <= len(ids) {
		pos = rank - 1
	}
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = newID
	return diffRanks(phones, ids), nil
}

// Move relocates id to rank (clamped to 1..n). Phones between the old and new
// positions shift by one; everything else keeps its rank.
func Move(phones []Ranked, id string, rank int) ([]RankChange, error) {
	ids := ordered(phones)
	from := -1
	for i, candidate := range ids {
		if candidate == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, ErrPhoneNotInStation
	}
	to := rank - 1
	if to < 0 {
		to = 0
	}
	if to > len(ids)-1 {
		to = len(ids) - 1
	}

	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids, "")
	copy(ids[to+1:], ids[to:])
	ids[to] = id
	return diffRanks(phones, ids), nil
}

// Promote makes target the primary (rank 1). A target that already holds
// rank 1 is a no-op. Otherwise phones ranked above the target shift down by
// one and phones ranked below it are untouched.
func Promote(phones []Ranked, targetID string) ([]RankChange, error) {
	for _, p := range phones {
		if p.ID == targetID {
			if p.Rank == 1 {
				return nil, nil
			}
			return Move(phones, targetID, 1)
		}
	}
	return nil, ErrPhoneNotInStation
}

// FeedOrder assigns contiguous ranks to the phones of a wholesale replacement,
// in the order given.
func FeedOrder(count int) []int {
	if count > constants.MaxPhonesPerStation {
		count = constants.MaxPhonesPerStation
	}
	ranks := make([]int, count)
	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}

// Apply returns phones with changes applied. Used to check results and to
// keep in-memory views in step with the writes.
func Apply(phones []Ranked, changes []RankChange) []Ranked {
	to := make(map[string]int, len(changes))
	for _, c := range changes {
		to[c.ID] = c.To
	}
	out := make([]Ranked, 0, len(phones)+1)
	seen := make(map[string]bool, len(phones))
	for _, p := range phones {
		if r, ok := to[p.ID]; ok {
			p.Rank = r
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, c := range changes {
		if !seen[c.ID] {
			out = append(out, Ranked{ID: c.ID, Rank: c.To})
		}
	}
	return out
}
