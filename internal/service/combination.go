package service

import (
	"sort"

	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// comboCandidate is one pool entry for the combination search: a ranked
// match restricted to the shifts still needing coverage.
type comboCandidate struct {
	match    models.SubMatch
	coverage map[string]struct{}
}

// bestCombinations enumerates candidate subsets of size 1..maxSize drawn from
// the top poolSize individually-ranked candidates and returns the topN
// combinations. Ranking: distinct shifts covered (desc), candidates used
// (asc), summed individual coverage percent (desc). Within one combination a
// shift is allocated to exactly one member, so no candidate is double-counted
// for the same shift.
func bestCombinations(matches []models.SubMatch, remaining []models.CoverageRequestShift, poolSize, maxSize, topN int) []models.Combination {
	if len(remaining) == 0 {
		return nil
	}

	remainingIDs := make(map[string]struct{}, len(remaining))
	for _, shift := range remaining {
		remainingIDs[shift.ID] = struct{}{}
	}

	pool := make([]comboCandidate, 0, poolSize)
	for _, match := range matches {
		coverage := make(map[string]struct{})
		for _, verdict := range match.CanCover {
			if _, ok := remainingIDs[verdict.ShiftID]; ok {
				coverage[verdict.ShiftID] = struct{}{}
			}
		}
		if len(coverage) == 0 {
			continue
		}
		pool = append(pool, comboCandidate{match: match, coverage: coverage})
		if len(pool) == poolSize {
			break
		}
	}
	if len(pool) == 0 {
		return nil
	}
	if maxSize > len(pool) {
		maxSize = len(pool)
	}

	var combinations []models.Combination
	indexes := make([]int, 0, maxSize)
	for size := 1; size <= maxSize; size++ {
		enumerateSubsets(len(pool), size, indexes, func(subset []int) {
			if combo, ok := buildCombination(pool, subset, remaining); ok {
				combinations = append(combinations, combo)
			}
		})
	}

	sort.SliceStable(combinations, func(i, j int) bool {
		if combinations[i].ShiftsCovered != combinations[j].ShiftsCovered {
			return combinations[i].ShiftsCovered > combinations[j].ShiftsCovered
		}
		if len(combinations[i].Members) != len(combinations[j].Members) {
			return len(combinations[i].Members) < len(combinations[j].Members)
		}
		return summedPercent(combinations[i]) > summedPercent(combinations[j])
	})

	if len(combinations) > topN {
		combinations = combinations[:topN]
	}
	return combinations
}

// enumerateSubsets visits every index subset of the given size in
// lexicographic order, which follows the pool's individual ranking.
func enumerateSubsets(n, size int, prefix []int, visit func([]int)) {
	if size == 0 {
		visit(prefix)
		return
	}
	start := 0
	if len(prefix) > 0 {
		start = prefix[len(prefix)-1] + 1
	}
	for i := start; i <= n-size; i++ {
		enumerateSubsets(n, size-1, append(prefix, i), visit)
	}
}

// buildCombination allocates each remaining shift to the first subset member
// able to cover it. Subsets where some member contributes nothing are
// rejected; the smaller subset is enumerated separately and dominates.
func buildCombination(pool []comboCandidate, subset []int, remaining []models.CoverageRequestShift) (models.Combination, bool) {
	allocated := make(map[int][]string, len(subset))
	covered := 0
	for _, shift := range remaining {
		for _, idx := range subset {
			if _, ok := pool[idx].coverage[shift.ID]; ok {
				allocated[idx] = append(allocated[idx], shift.ID)
				covered++
				break
			}
		}
	}
	if covered == 0 || len(allocated) < len(subset) {
		return models.Combination{}, false
	}

	combo := models.Combination{
		ShiftsCovered:   covered,
		TotalShifts:     len(remaining),
		CoveragePercent: coveragePercent(covered, len(remaining)),
	}
	for _, idx := range subset {
		combo.Members = append(combo.Members, models.CombinationMember{
			StaffID:         pool[idx].match.StaffID,
			FullName:        pool[idx].match.FullName,
			CoveragePercent: pool[idx].match.CoveragePercent,
			ShiftIDs:        allocated[idx],
		})
	}
	return combo, true
}

func summedPercent(combo models.Combination) int {
	sum := 0
	for _, member := range combo.Members {
		sum += member.CoveragePercent
	}
	return sum
}
