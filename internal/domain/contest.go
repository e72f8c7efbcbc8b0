package domain

import (
	"time"
)

// ContestRanking is the user's aggregate contest standing
type ContestRanking struct {
	AttendedContestsCount int     `json:"attendedContestsCount"`
	Rating                float64 `json:"rating"`
	GlobalRanking         int     `json:"globalRanking"`
	TotalParticipants     int     `json:"totalParticipants"`
	TopPercentage         float64 `json:"topPercentage"`
}

// ContestInfo identifies a contest
type ContestInfo struct {
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug,omitempty"`
	StartTime int64  `json:"startTime"`
}

// StartedAt returns the contest start as a time
func (c ContestInfo) StartedAt() time.Time {
	return time.Unix(c.StartTime, 0).UTC()
}

// ContestParticipation is one row of a user's contest history
type ContestParticipation struct {
	Attended            bool        `json:"attended"`
	TrendDirection      string      `json:"trendDirection"`
	ProblemsSolved      int         `json:"problemsSolved"`
	TotalProblems       int         `json:"totalProblems"`
	FinishTimeInSeconds int         `json:"finishTimeInSeconds"`
	Rating              float64     `json:"rating"`
	Ranking             int         `json:"ranking"`
	Contest             ContestInfo `json:"contest"`
}

// IsUnfinished reports whether the user attended but left problems unsolved
func (p ContestParticipation) IsUnfinished() bool {
	return p.Attended && p.ProblemsSolved < p.TotalProblems
}

// ContestHistory is the user's contest ranking plus per-contest history
type ContestHistory struct {
	Ranking *ContestRanking        `json:"userContestRanking"`
	History []ContestParticipation `json:"userContestRankingHistory"`
}

// UnsolvedContests lists attended contests where the user left problems unsolved
type UnsolvedContests struct {
	Contests []string `json:"unsolved_contests"`
}

// Contest is a corpus contest with its questions, used when crawling the corpus
type Contest struct {
	Title     string     `json:"title"`
	TitleSlug string     `json:"titleSlug"`
	StartTime int64      `json:"startTime"`
	Questions []Question `json:"-"`
}
