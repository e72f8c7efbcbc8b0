package data

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conlit/backend/internal/domain"
)

// EmbeddedCorpus is the CorpusPath value that selects the bundled sample corpus
const EmbeddedCorpus = "embedded"

//go:embed sample_contests.json
var sampleCorpus []byte

// TagRef is a named tag as returned by LeetCode
type TagRef struct {
	Name string `json:"name"`
}

// RawQuestion is a question as stored in the corpus file
type RawQuestion struct {
	QuestionID         string   `json:"questionId,omitempty"`
	QuestionFrontendID string   `json:"questionFrontendId,omitempty"`
	Title              string   `json:"title"`
	TitleSlug          string   `json:"titleSlug,omitempty"`
	Difficulty         string   `json:"difficulty"`
	IsPaidOnly         bool     `json:"isPaidOnly"`
	TopicTags          []TagRef `json:"topicTags"`
	CompanyTags        []TagRef `json:"companyTags"`
}

// ToQuestion converts the stored form into a domain question owned by contestSlug
func (r RawQuestion) ToQuestion(contestSlug string) domain.Question {
	return domain.Question{
		Slug:        domain.Slugify(r.Title),
		Title:       r.Title,
		TitleSlug:   r.TitleSlug,
		QuestionID:  r.QuestionID,
		FrontendID:  r.QuestionFrontendID,
		Difficulty:  domain.Difficulty(r.Difficulty),
		TopicTags:   tagNames(r.TopicTags),
		CompanyTags: tagNames(r.CompanyTags),
		IsPaidOnly:  r.IsPaidOnly,
		ContestSlug: contestSlug,
	}
}

// RawFromQuestion converts a domain question into its stored form
func RawFromQuestion(q domain.Question) RawQuestion {
	return RawQuestion{
		QuestionID:         q.QuestionID,
		QuestionFrontendID: q.FrontendID,
		Title:              q.Title,
		TitleSlug:          q.TitleSlug,
		Difficulty:         string(q.Difficulty),
		IsPaidOnly:         q.IsPaidOnly,
		TopicTags:          tagRefs(q.TopicTags),
		CompanyTags:        tagRefs(q.CompanyTags),
	}
}

func tagNames(tags []TagRef) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

func tagRefs(names []string) []TagRef {
	refs := make([]TagRef, len(names))
	for i, n := range names {
		refs[i] = TagRef{Name: n}
	}
	return refs
}

// CorpusContest is one contest entry of the corpus file
type CorpusContest struct {
	Title     string         `json:"title"`
	TitleSlug string         `json:"titleSlug"`
	StartTime int64          `json:"startTime"`
	Questions []*RawQuestion `json:"questions"`
}

// Corpus is the nested contestSlug → contest document, kept in file order
type Corpus struct {
	order    []string
	contests map[string]*CorpusContest
}

// NewCorpus creates an empty corpus
func NewCorpus() *Corpus {
	return &Corpus{contests: make(map[string]*CorpusContest)}
}

// Has reports whether the contest is already stored
func (c *Corpus) Has(contestSlug string) bool {
	_, ok := c.contests[contestSlug]
	return ok
}

// Put stores a contest, keeping the original position when it already exists
func (c *Corpus) Put(contestSlug string, contest *CorpusContest) {
	if !c.Has(contestSlug) {
		c.order = append(c.order, contestSlug)
	}
	c.contests[contestSlug] = contest
}

// Contests returns the contest slugs in file order
func (c *Corpus) Contests() []string {
	return c.order
}

// Contest returns the stored contest
func (c *Corpus) Contest(contestSlug string) (*CorpusContest, bool) {
	contest, ok := c.contests[contestSlug]
	return contest, ok
}

// Len returns the number of contests
func (c *Corpus) Len() int {
	return len(c.order)
}

// Questions flattens the corpus into domain questions in file order.
// Null entries and entries without a title are skipped.
func (c *Corpus) Questions() []domain.Question {
	var out []domain.Question
	for _, slug := range c.order {
		for _, q := range c.contests[slug].Questions {
			if q == nil || q.Title == "" {
				continue
			}
			out = append(out, q.ToQuestion(slug))
		}
	}
	return out
}

// ReadCorpus decodes a corpus document. Contests are streamed one at a time
// so that the file order of the top-level object is preserved.
func ReadCorpus(r io.Reader) (*Corpus, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("read corpus: expected object, got %v", tok)
	}

	corpus := NewCorpus()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read corpus key: %w", err)
		}
		slug, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("read corpus: unexpected token %v", tok)
		}

		var contest CorpusContest
		if err := dec.Decode(&contest); err != nil {
			return nil, fmt.Errorf("read contest %s: %w", slug, err)
		}
		corpus.Put(slug, &contest)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return corpus, nil
}

// LoadCorpusFile reads the corpus at path. EmbeddedCorpus selects the bundled sample.
func LoadCorpusFile(path string) (*Corpus, error) {
	if path == EmbeddedCorpus {
		return ReadCorpus(bytes.NewReader(sampleCorpus))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return ReadCorpus(bufio.NewReader(f))
}

// LoadCorpusFileOrEmpty is LoadCorpusFile that treats a missing file as an empty corpus
func LoadCorpusFileOrEmpty(path string) (*Corpus, error) {
	corpus, err := LoadCorpusFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewCorpus(), nil
	}
	return corpus, err
}

// WriteCorpus encodes the corpus as an indented object in contest order
func WriteCorpus(w io.Writer, c *Corpus) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("{"); err != nil {
		return err
	}

	for i, slug := range c.order {
		if i > 0 {
			bw.WriteString(",")
		}
		key, err := json.Marshal(slug)
		if err != nil {
			return err
		}
		value, err := json.MarshalIndent(c.contests[slug], "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode contest %s: %w", slug, err)
		}
		bw.WriteString("\n  ")
		bw.Write(key)
		bw.WriteString(": ")
		bw.Write(value)
	}

	if len(c.order) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// WriteCorpusFile atomically replaces the corpus file at path
func WriteCorpusFile(path string, c *Corpus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("create temp corpus: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCorpus(tmp, c); err != nil {
		tmp.Close()
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close corpus: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
