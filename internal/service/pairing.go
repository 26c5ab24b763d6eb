package service

import (
	"sort"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

// sortByRating orders queue entries ascending by rating snapshot, with
// enqueue time then player id breaking ties so pairing is deterministic
// for a given queue snapshot.
func sortByRating(entries []models.QueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating < entries[j].Rating
		}
		if !entries[i].QueuedAt.Equal(entries[j].QueuedAt) {
			return entries[i].QueuedAt.Before(entries[j].QueuedAt)
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}

// pairEntries greedily pairs a rating-sorted snapshot. The lowest-rated
// unmatched player is paired first, with the first unmatched player found
// scanning upward whose rating is within maxRange. Players left over stay
// queued for the next tick.
func pairEntries(sorted []models.QueueEntry, maxRange int) [][2]models.QueueEntry {
	matched := make([]bool, len(sorted))
	var pairs [][2]models.QueueEntry

	for i := range sorted {
		if matched[i] {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if matched[j] {
				continue
			}
			// Sorted ascending, so once the gap exceeds the range no
			// later candidate can close it.
			if sorted[j].Rating-sorted[i].Rating > maxRange {
				break
			}
			pairs = append(pairs, [2]models.QueueEntry{sorted[i], sorted[j]})
			matched[i] = true
			matched[j] = true
			break
		}
	}

	return pairs
}
