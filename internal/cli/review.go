package cli

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/ariel-frischer/changelog/internal/output"
	"github.com/ariel-frischer/changelog/internal/review"
	"github.com/spf13/cobra"
)

func newReviewCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Turn git commits into changelog entries",
		Long: `Review the commits made since the latest release and add the ones worth
mentioning to the changelog.

First pick commits from a list (feat and fix commits start selected), then
an editor opens with one line per picked commit:

  <type> <commit> <text>

Change the type or text, or delete a line to skip that commit. Saving an
empty file cancels the review and leaves the changelog untouched.

With --version the commits between that release's tag and the tag before it
are reviewed and the entries go into that release.`,
		Example: `  changelog review
  changelog review --fetch
  changelog review -v 1.2.0`,
		GroupID: shared.GroupEntries,
		Args:    argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, deps)
		},
	}
	cmd.Flags().StringP("version", "v", "", "Release to review (default: Unreleased)")
	cmd.Flags().Bool("fetch", false, "Fetch tags from the remote first")
	return cmd
}

func runReview(cmd *cobra.Command, deps Deps) error {
	var target *semver.Version
	if versionFlag, _ := cmd.Flags().GetString("version"); versionFlag != "" {
		v, err := changelog.ParseVersion(versionFlag)
		if err != nil {
			return err
		}
		target = v
	}
	fetch, _ := cmd.Flags().GetBool("fetch")

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}
	section, err := changelog.ResolveSection(doc, target)
	if err != nil {
		return err
	}
	if !git.IsGitRepository(e.projectDir) {
		return clierrors.GitNotRepository(e.projectDir)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if fetch {
		e.fetchTags(ctx)
	}

	rng, err := changelog.GitRange(doc, target)
	if err != nil {
		return err
	}
	commits, err := e.collectCommits(ctx, rng)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		e.printer.Info("No commits in %s", rng)
		return nil
	}

	before := changelog.RenderSection(doc, section)
	result, err := review.Run(ctx, doc, commits, e.selector(deps, section.Label), e.editor(deps), review.RunOptions{
		Target:    target,
		Preselect: e.cfg.Review.Preselect,
		Logger:    e.logger,
	})
	if err != nil {
		return err
	}
	if result.Cancelled {
		e.printer.Info("Review cancelled; %s unchanged", e.displayPath())
		return nil
	}

	e.syncLinks(doc)
	if err := e.writeDocument(doc); err != nil {
		return err
	}
	e.printer.Success("Added %d %s to %s", len(result.Entries), plural(len(result.Entries), "entry", "entries"), section.Label)

	section, err = changelog.ResolveSection(doc, target)
	if err != nil {
		return err
	}
	return e.showDiff(before, changelog.RenderSection(doc, section))
}

// fetchTags refreshes tags from the configured remote. A failed fetch is
// reported and the review continues with the local tags.
func (e *env) fetchTags(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, git.DefaultFetchTimeout)
	defer cancel()

	sp := output.StartSpinner(e.out, e.caps, fmt.Sprintf("Fetching tags from %s", e.cfg.Remote))
	if err := git.FetchTags(ctx, e.projectDir, e.cfg.Remote); err != nil {
		sp.Stop(false, "Fetching tags failed")
		e.logger.Warn("fetching tags failed; using local tags", "remote", e.cfg.Remote, "err", err)
		return
	}
	tags, err := git.Tags(e.projectDir)
	if err != nil {
		sp.Stop(true, "Fetched tags")
		e.logger.Debug("listing tags failed", "err", err)
		return
	}
	sp.Stop(true, fmt.Sprintf("Fetched tags (%d known)", len(tags)))
	e.logger.Debug("fetched tags", "remote", e.cfg.Remote, "count", len(tags))
}

// collectCommits lists the commits in rng for review.
func (e *env) collectCommits(ctx context.Context, rng changelog.RevisionRange) ([]review.Commit, error) {
	if !git.RevisionExists(e.projectDir, rng.To) {
		if rng.To == "HEAD" {
			return nil, nil
		}
		return nil, clierrors.NewPrerequisiteError(
			fmt.Sprintf("tag %s not found", rng.To),
			"Create the tag: git tag "+rng.To,
			"Or fetch tags first: changelog review --fetch",
		)
	}
	if rng.From != "" && !git.RevisionExists(e.projectDir, rng.From) {
		e.logger.Warn("tag not found; reviewing the full history", "tag", rng.From)
	}

	sp := output.StartSpinner(e.out, e.caps, "Reading commits")
	history, err := git.Commits(ctx, e.projectDir, rng.From, rng.To, e.cfg.CommitOrder())
	if err != nil {
		sp.Stop(false, "Reading commits failed")
		return nil, fmt.Errorf("listing commits in %s: %w", rng, err)
	}
	sp.Stop(true, fmt.Sprintf("Found %d %s", len(history), plural(len(history), "commit", "commits")))

	commits := make([]review.Commit, len(history))
	for i, c := range history {
		commits[i] = review.Commit{ID: c.Hash, Summary: c.Summary}
	}
	return commits, nil
}

func (e *env) selector(deps Deps, label string) review.Selector {
	if deps.Selector != nil {
		return deps.Selector
	}
	return review.HuhSelector{Title: fmt.Sprintf("Select commits for %s", label)}
}

func (e *env) editor(deps Deps) review.Editor {
	if deps.Editor != nil {
		return deps.Editor
	}
	return &review.ExternalEditor{Command: e.cfg.Editor}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
