package service

import (
	"github.com/conlit/backend/internal/domain"
)

// ClassifySubmissions folds a submissions feed into per-slug attempt state.
// Every submission counts as an attempt; a slug is accepted if any of its
// submissions was accepted. An empty feed is a fetch failure, not zero attempts.
func ClassifySubmissions(records []domain.SubmissionRecord) (map[string]domain.AttemptState, error) {
	if len(records) == 0 {
		return nil, domain.NewFetchError("submissions", domain.ErrNoSubmissions)
	}

	states := make(map[string]domain.AttemptState)
	for _, r := range records {
		slug := r.Slug()
		if slug == "" {
			continue
		}
		st := states[slug]
		st.Attempts++
		if r.IsAccepted() {
			st.Accepted = true
		}
		states[slug] = st
	}
	return states, nil
}

// AcceptedSlugs returns every slug with at least one accepted submission
func AcceptedSlugs(states map[string]domain.AttemptState) domain.SlugSet {
	solved := make(domain.SlugSet)
	for slug, st := range states {
		if st.Accepted {
			solved.Add(slug)
		}
	}
	return solved
}
