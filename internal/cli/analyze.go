package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conlit/backend/internal/app"
	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/service"
)

// analysisOptions holds the flags of the per-user analysis commands
type analysisOptions struct {
	session string
	csrf    string
	coach   bool
	seed    int64
}

func (o *analysisOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.session, "session", "", "LeetCode session cookie (default $LEETCODE_SESSION)")
	cmd.Flags().StringVar(&o.csrf, "csrf", "", "LeetCode csrftoken cookie (default $LEETCODE_CSRF_TOKEN)")
	cmd.Flags().BoolVar(&o.coach, "coach", false, "attach an LLM coaching plan")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "randomize suggestion order reproducibly")
}

// request builds the analysis request, falling back to configured credentials
func (o *analysisOptions) request(cmd *cobra.Command, a *app.App, username string) service.AnalysisRequest {
	auth := domain.AuthContext{CSRFToken: o.csrf}
	if auth.CSRFToken == "" {
		auth.CSRFToken = a.Config.LeetCode.CSRFToken
	}
	switch {
	case o.session != "":
		auth.Session, auth.Source = o.session, domain.CredentialFromFlag
	case a.Config.LeetCode.Session != "":
		auth.Session, auth.Source = a.Config.LeetCode.Session, domain.CredentialFromEnv
	}

	req := service.AnalysisRequest{Username: username, Auth: auth, Coach: o.coach}
	if cmd.Flags().Changed("seed") {
		seed := o.seed
		req.Seed = &seed
	}
	return req
}

// usernameArg accepts exactly one well-formed username
func usernameArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !domain.ValidUsername(args[0]) {
		return fmt.Errorf("invalid username %q", args[0])
	}
	return nil
}

func newProfileCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user's public profile and submission stats",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.GetProfile(ctx, args[0])
			})
		},
	}
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <username>",
		Short: "Show ranking and submission totals",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.PerformanceSummary(ctx, args[0])
			})
		},
	}
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	aopts := &analysisOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <username>",
		Short: "Run every analysis facet for a user",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.FullAnalysis(ctx, aopts.request(cmd, a, args[0]))
			})
		},
	}
	aopts.bind(cmd)
	return cmd
}

func newTopicGapsCmd(opts *globalOptions) *cobra.Command {
	aopts := &analysisOptions{}
	cmd := &cobra.Command{
		Use:   "topic-gaps <username>",
		Short: "Suggest unattempted questions for the weakest topics",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.TopicGaps(ctx, aopts.request(cmd, a, args[0]))
			})
		},
	}
	aopts.bind(cmd)
	return cmd
}

func newNemesisCmd(opts *globalOptions) *cobra.Command {
	aopts := &analysisOptions{}
	cmd := &cobra.Command{
		Use:   "nemesis <username>",
		Short: "List repeatedly failed problems and related practice",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.NemesisProblems(ctx, aopts.request(cmd, a, args[0]))
			})
		},
	}
	aopts.bind(cmd)
	return cmd
}

func newContestsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contests <username>",
		Short: "List attended contests with unsolved problems",
		Args:  usernameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, opts, func(ctx context.Context, a *app.App) (any, error) {
				return a.Analysis.UnsolvedContests(ctx, args[0])
			})
		},
	}
}
