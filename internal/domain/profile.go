package domain

import "regexp"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidUsername reports whether username is a plausible LeetCode handle
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Profile represents a LeetCode user's public profile
type Profile struct {
	Username    string      `json:"username"`
	Profile     ProfileInfo `json:"profile"`
	SubmitStats SubmitStats `json:"submitStats"`
}

// ProfileInfo holds the public profile fields
type ProfileInfo struct {
	RealName    string   `json:"realName"`
	Websites    []string `json:"websites"`
	CountryName string   `json:"countryName"`
	Company     string   `json:"company"`
	School      string   `json:"school"`
	AboutMe     string   `json:"aboutMe"`
	Reputation  int      `json:"reputation"`
	Ranking     int      `json:"ranking"`
}

// SubmitStats holds accepted and total submission counters per difficulty
type SubmitStats struct {
	AcSubmissionNum    []DifficultyCount `json:"acSubmissionNum"`
	TotalSubmissionNum []DifficultyCount `json:"totalSubmissionNum"`
}

// DifficultyCount is a per-difficulty counter. Difficulty is "All" for the total row.
type DifficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

// TotalSubmissions returns the "All" submissions counter, if present
func (s SubmitStats) TotalSubmissions() (int, bool) {
	for _, c := range s.TotalSubmissionNum {
		if c.Difficulty == "All" {
			return c.Submissions, true
		}
	}
	return 0, false
}

// PerformanceSummary is the profile facet of a full analysis
type PerformanceSummary struct {
	Ranking         int         `json:"ranking"`
	SubmissionStats SubmitStats `json:"submission_stats"`
}

// ToSummary converts a Profile into its performance summary
func (p *Profile) ToSummary() PerformanceSummary {
	return PerformanceSummary{
		Ranking:         p.Profile.Ranking,
		SubmissionStats: p.SubmitStats,
	}
}
