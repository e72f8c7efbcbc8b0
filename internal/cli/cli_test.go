package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/conlit/backend/internal/app"
	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/service"
)

// isolateEnv pins the configuration to the embedded corpus and no cache
func isolateEnv(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"CONFIG_FILE":         "",
		"DB_DRIVER":           "",
		"CACHE_BACKEND":       "none",
		"CORPUS_PATH":         "embedded",
		"LEETCODE_SESSION":    "",
		"LEETCODE_CSRF_TOKEN": "",
		"ADMIN_PASSWORD_HASH": "",
		"JWT_SECRET":          "cli-test-secret",
	} {
		t.Setenv(key, value)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCorpusStats(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, "", "corpus", "stats")
	require.NoError(t, err)

	var stats domain.CorpusStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 24, stats.Total)
	assert.NotEmpty(t, stats.ByDifficulty)
}

func TestCorpusStats_MissingFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CORPUS_PATH", filepath.Join(t.TempDir(), "missing.json"))

	_, err := runCLI(t, "", "corpus", "stats")
	assert.ErrorIs(t, err, domain.ErrCorpusLoad)
}

func TestCorpusQuestion(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, "", "corpus", "question", "Decode the Message")
	require.NoError(t, err)

	var q domain.Question
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, "decode-the-message", q.Slug)
	assert.Equal(t, "Decode the Message", q.Title)

	_, err = runCLI(t, "", "corpus", "question", "no-such-question")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestCorpusFetch_RejectsEmbedded(t *testing.T) {
	isolateEnv(t)

	_, err := runCLI(t, "", "corpus", "fetch")
	assert.ErrorContains(t, err, "read-only")
}

func TestHashPassword(t *testing.T) {
	out, err := runCLI(t, "", "admin", "hash-password", "--password", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))

	out, err = runCLI(t, "from-stdin\n", "admin", "hash-password")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-stdin")))

	_, err = runCLI(t, "", "admin", "hash-password")
	assert.ErrorContains(t, err, "password is required")
}

func TestAdminLogin(t *testing.T) {
	isolateEnv(t)
	hashed, err := service.HashPassword("letmein")
	require.NoError(t, err)
	t.Setenv("ADMIN_PASSWORD_HASH", hashed)

	out, err := runCLI(t, "", "admin", "login", "--password", "letmein")
	require.NoError(t, err)

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal([]byte(out), &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = runCLI(t, "", "admin", "login", "--password", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUsernameValidation(t *testing.T) {
	for _, args := range [][]string{
		{"profile", "bad name"},
		{"analyze", "a/b"},
		{"nemesis"},
	} {
		_, err := runCLI(t, "", args...)
		assert.Error(t, err, args)
	}
}

func TestProfile(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		if req.Variables["username"] != "alice" {
			io.WriteString(w, `{"data":{"matchedUser":null}}`)
			return
		}
		io.WriteString(w, `{"data":{"matchedUser":{"username":"alice","profile":{"ranking":42},`+
			`"submitStats":{"acSubmissionNum":[],"totalSubmissionNum":[]}}}}`)
	}))
	defer server.Close()
	t.Setenv("LEETCODE_GRAPHQL_URL", server.URL)

	out, err := runCLI(t, "", "profile", "alice")
	require.NoError(t, err)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, 42, profile.Profile.Ranking)

	_, err = runCLI(t, "", "profile", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAnalysisOptions_Request(t *testing.T) {
	cfg := infrastructure.DefaultConfig()
	cfg.LeetCode.Session = "env-session"
	cfg.LeetCode.CSRFToken = "env-csrf"
	a := &app.App{Config: cfg}

	parse := func(args ...string) (*cobra.Command, *analysisOptions) {
		opts := &analysisOptions{}
		cmd := &cobra.Command{Use: "test"}
		opts.bind(cmd)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd, opts
	}

	cmd, opts := parse()
	req := opts.request(cmd, a, "alice")
	assert.Equal(t, "env-session", req.Auth.Session)
	assert.Equal(t, domain.CredentialFromEnv, req.Auth.Source)
	assert.Equal(t, "env-csrf", req.Auth.CSRFToken)
	assert.Nil(t, req.Seed)
	assert.False(t, req.Coach)

	cmd, opts = parse("--session", "flag-session", "--csrf", "flag-csrf", "--seed", "0", "--coach")
	req = opts.request(cmd, a, "alice")
	assert.Equal(t, "flag-session", req.Auth.Session)
	assert.Equal(t, domain.CredentialFromFlag, req.Auth.Source)
	assert.Equal(t, "flag-csrf", req.Auth.CSRFToken)
	require.NotNil(t, req.Seed)
	assert.Equal(t, int64(0), *req.Seed)
	assert.True(t, req.Coach)

	cfg.LeetCode.Session = ""
	cmd, opts = parse()
	req = opts.request(cmd, a, "alice")
	assert.False(t, req.Auth.HasSession())
}

func TestAnalysisFailureIsJSON(t *testing.T) {
	isolateEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"recentSubmissionList":[]}}`)
	}))
	defer server.Close()
	t.Setenv("LEETCODE_GRAPHQL_URL", server.URL)

	for _, command := range []string{"topic-gaps", "nemesis"} {
		out, err := runCLI(t, "", command, "quiet")
		require.Error(t, err, command)
		assert.ErrorIs(t, err, domain.ErrNoSubmissions)

		var reported *reportedError
		assert.ErrorAs(t, err, &reported, "failure was already printed")

		var body map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &body), command)
		assert.Equal(t, err.Error(), body["error"])
		assert.Contains(t, body["error"], "no submissions")
	}
}
