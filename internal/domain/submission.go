package domain

import (
	"context"
	"time"

	"github.com/lib/pq"
)

// SubmissionStatus is the judged outcome of a single submission
type SubmissionStatus string

const (
	StatusAccepted            SubmissionStatus = "Accepted"
	StatusWrongAnswer         SubmissionStatus = "Wrong Answer"
	StatusTimeLimitExceeded   SubmissionStatus = "Time Limit Exceeded"
	StatusMemoryLimitExceeded SubmissionStatus = "Memory Limit Exceeded"
	StatusOutputLimitExceeded SubmissionStatus = "Output Limit Exceeded"
	StatusRuntimeError        SubmissionStatus = "Runtime Error"
	StatusCompileError        SubmissionStatus = "Compile Error"
	StatusOther               SubmissionStatus = "Other"
)

// ParseSubmissionStatus maps LeetCode's statusDisplay string to a status.
// Unknown values map to StatusOther so new judge outcomes never count as accepted.
func ParseSubmissionStatus(display string) SubmissionStatus {
	switch s := SubmissionStatus(display); s {
	case StatusAccepted, StatusWrongAnswer, StatusTimeLimitExceeded,
		StatusMemoryLimitExceeded, StatusOutputLimitExceeded,
		StatusRuntimeError, StatusCompileError:
		return s
	default:
		return StatusOther
	}
}

// SubmissionRecord is one entry of a user's recent submissions feed
type SubmissionRecord struct {
	Title     string           `json:"title"`
	TitleSlug string           `json:"title_slug,omitempty"`
	Status    SubmissionStatus `json:"status"`
	Lang      string           `json:"lang,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Slug returns the corpus join key for the submission
func (s SubmissionRecord) Slug() string {
	return Slugify(s.Title)
}

// IsAccepted reports whether the submission was accepted
func (s SubmissionRecord) IsAccepted() bool {
	return s.Status == StatusAccepted
}

// AttemptState is the fold of every submission made for one question
type AttemptState struct {
	Accepted bool `json:"accepted"`
	Attempts int  `json:"attempts"`
}

// SolvedSource records where a solved set came from
type SolvedSource string

const (
	SolvedFromRecentSubmissions SolvedSource = "recent_submissions"
	SolvedFromAuthoritative     SolvedSource = "authoritative"
	SolvedFromCache             SolvedSource = "cache"
)

// SolvedSet is the set of slugs considered solved for a user along with its provenance.
// Warning is set when a higher-fidelity source was requested but could not be used.
type SolvedSet struct {
	Slugs   SlugSet
	Source  SolvedSource
	Warning string
}

// SolvedCacheEntry is the cached authoritative solved list for a user.
// It is valid only while SubmissionCount matches the live count.
type SolvedCacheEntry struct {
	Username        string         `json:"username" gorm:"primaryKey;size:64"`
	SubmissionCount int            `json:"submission_count" gorm:"not null"`
	SolvedSlugs     pq.StringArray `json:"solved_slugs" gorm:"type:text"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SolvedCacheEntry) TableName() string {
	return "solved_cache_entries"
}

// SolvedCacheRepository stores solved lists keyed by username.
// Writes are last-writer-wins and advisory.
type SolvedCacheRepository interface {
	Get(ctx context.Context, username string) (*SolvedCacheEntry, error)
	Put(ctx context.Context, entry *SolvedCacheEntry) error
}
