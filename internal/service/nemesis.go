package service

import (
	"math/rand"
	"sort"

	"github.com/conlit/backend/internal/domain"
)

// NemesisPolicy controls nemesis selection.
// Rand, when set, randomizes the order of problems tied on attempts.
type NemesisPolicy struct {
	Threshold int
	TopK      int
	Rand      *rand.Rand
}

// DefaultNemesisPolicy flags anything needing more than one attempt and keeps the top 10
func DefaultNemesisPolicy() NemesisPolicy {
	return NemesisPolicy{Threshold: 1, TopK: 10}
}

// NemesisCandidates returns every slug with attempts > threshold or no
// accepted submission, sorted by attempts descending then slug ascending.
func NemesisCandidates(states map[string]domain.AttemptState, threshold int) domain.NemesisSet {
	candidates := make(domain.NemesisSet, 0)
	for slug, st := range states {
		if st.Attempts > threshold || !st.Accepted {
			candidates = append(candidates, domain.NemesisProblem{
				Slug:     slug,
				Attempts: st.Attempts,
				Accepted: st.Accepted,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Attempts != candidates[j].Attempts {
			return candidates[i].Attempts > candidates[j].Attempts
		}
		return candidates[i].Slug < candidates[j].Slug
	})
	return candidates
}

// SelectNemesis returns the strict top-K nemesis problems by attempt count
func SelectNemesis(states map[string]domain.AttemptState, policy NemesisPolicy) domain.NemesisSet {
	candidates := NemesisCandidates(states, policy.Threshold)

	if policy.Rand != nil {
		policy.Rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Attempts > candidates[j].Attempts
		})
	}

	if policy.TopK > 0 && len(candidates) > policy.TopK {
		candidates = candidates[:policy.TopK]
	}
	return candidates
}
