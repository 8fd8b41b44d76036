// Package main provides the entry point for the auto-ops CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sgaunet/auto-ops/internal/logger"
	"github.com/sgaunet/auto-ops/internal/orchestrator"
	"github.com/sgaunet/auto-ops/internal/schedule"
	"github.com/sgaunet/auto-ops/internal/ui"
	"github.com/sgaunet/auto-ops/pkg/config"
	"github.com/sgaunet/auto-ops/pkg/git"
	"github.com/sgaunet/auto-ops/pkg/hostapi"
	"github.com/spf13/cobra"
)

var errUnknownIdentity = errors.New("identity must be \"bot\" or \"user\"")

var (
	logLevel     string
	interactive  bool
	count        int
	identityFlag string
	maxPairs     int
)

var rootCmd = &cobra.Command{
	Use:   "auto-ops",
	Short: "Scheduled repository activity automation for GitLab and GitHub",
	Long: `auto-ops simulates organic development activity on a repository: it creates
issues and pull requests under bot and user identities on a day-of-year-driven
schedule, links them to each other, and advances linked pull requests through
approval and merge.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full daily recipe",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.Run(ctx)
	}),
}

var createIssuesCmd = &cobra.Command{
	Use:   "create-issues",
	Short: "Create issues under the given identity",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		id, err := parseIdentity(identityFlag)
		if err != nil {
			return err
		}
		_, err = o.CreateIssues(ctx, count, id, schedule.DayOfYear(time.Now()))
		return err
	}),
}

var createPRsCmd = &cobra.Command{
	Use:   "create-prs",
	Short: "Create pull requests under the given identity",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		id, err := parseIdentity(identityFlag)
		if err != nil {
			return err
		}
		_, err = o.CreatePullRequests(ctx, count, id, schedule.DayOfYear(time.Now()))
		return err
	}),
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Pair open unlinked issues with open unlinked pull requests",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		_, err := o.LinkPairs(ctx, maxPairs)
		return err
	}),
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve linked bot pull requests",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		_, err := o.ApproveBotPRs(ctx, count)
		return err
	}),
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge eligible linked pull requests of the given identity",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		id, err := parseIdentity(identityFlag)
		if err != nil {
			return err
		}
		_, err = o.MergeLinked(ctx, id)
		return err
	}),
}

var closeIssuesCmd = &cobra.Command{
	Use:   "close-issues",
	Short: "Close linked issues whose paired pull request is gone",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		_, err := o.CloseLinkedIssues(ctx)
		return err
	}),
}

var initLabelsCmd = &cobra.Command{
	Use:   "init-labels",
	Short: "Ensure the linking labels exist",
	Run: runWith(func(ctx context.Context, o *orchestrator.Orchestrator) error {
		return o.EnsureLabels(ctx)
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Set log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&interactive, "interactive", false,
		"Ask for confirmation before merging and closing")

	createIssuesCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of issues to create")
	createIssuesCmd.Flags().StringVar(&identityFlag, "identity", "bot", "Identity to create as (bot or user)")
	createPRsCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of pull requests to create")
	createPRsCmd.Flags().StringVar(&identityFlag, "identity", "bot", "Identity to create as (bot or user)")
	linkCmd.Flags().IntVar(&maxPairs, "max", 0, "Maximum pairs to link (0 means no cap)")
	approveCmd.Flags().IntVarP(&count, "count", "n", 1, "Maximum pull requests to approve")
	mergeCmd.Flags().StringVar(&identityFlag, "identity", "bot", "Identity class to merge (bot or user)")

	rootCmd.AddCommand(runCmd, createIssuesCmd, createPRsCmd, linkCmd,
		approveCmd, mergeCmd, closeIssuesCmd, initLabelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runWith wraps an orchestrator action with setup and error reporting.
func runWith(action func(context.Context, *orchestrator.Orchestrator) error) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		o, err := setup(ctx)
		if err == nil {
			err = action(ctx, o)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// setup loads configuration, opens the local repository, and wires the
// platform providers into an orchestrator.
func setup(ctx context.Context) (*orchestrator.Orchestrator, error) {
	log := logger.NewLogger(logLevel)
	log.Info("auto-ops starting...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Debug("Configuration loaded", "repository", cfg.Repository, "run_id", cfg.RunID)

	repo, err := git.OpenRepository(".")
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	if err := repo.FetchAndPrune(); err != nil {
		log.Warn("Failed to fetch from origin", "error", err.Error())
	}

	if cfg.DefaultBranch == "" {
		branch, err := repo.GetDefaultBranch()
		if err != nil {
			return nil, fmt.Errorf("failed to determine default branch: %w", err)
		}
		cfg.DefaultBranch = branch
	}
	log.Debug("Using default branch", "branch", cfg.DefaultBranch)

	if current, err := repo.GetCurrentBranch(); err == nil && current != cfg.DefaultBranch {
		log.Warn("Worktree is not on the default branch", "current", current)
	}

	platform, err := resolvePlatform(cfg, repo)
	if err != nil {
		return nil, err
	}
	log.Info("Platform detected", "platform", string(platform))

	bot, err := hostapi.NewProvider(ctx, platform, cfg.Repository, cfg.BotToken, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot provider: %w", err)
	}
	user, err := hostapi.NewProvider(ctx, platform, cfg.Repository, cfg.UserToken, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user provider: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 - schedule jitter, not crypto
	o := orchestrator.New(bot, user, repo, cfg, rng, log)
	if interactive {
		o.SetConfirm(ui.NewConfirmer().Confirm)
	}
	return o, nil
}

// resolvePlatform honors a configured platform override, falling back to
// detection from the origin remote.
func resolvePlatform(cfg *config.Config, repo *git.Repository) (git.Platform, error) {
	switch cfg.Platform {
	case "github":
		return git.PlatformGitHub, nil
	case "gitlab":
		return git.PlatformGitLab, nil
	}

	platform, err := repo.DetectPlatform()
	if err != nil {
		return "", fmt.Errorf("failed to detect platform: %w", err)
	}
	return platform, nil
}

// parseIdentity validates the --identity flag value.
func parseIdentity(s string) (hostapi.Identity, error) {
	switch s {
	case "bot":
		return hostapi.IdentityBot, nil
	case "user":
		return hostapi.IdentityUser, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownIdentity, s)
	}
}
