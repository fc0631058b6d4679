// Package git reads the repository a changelog lives in: remote URLs for
// compare links, tags, and the commits between two revisions. It uses the
// go-git library so no git CLI is required.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNotRepository is returned when no repository contains the given path.
var ErrNotRepository = errors.New("not a git repository")

// openRepo opens the repository containing path, walking up to find .git.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository(%s): %v", path, result)
	return result
}

// RepositoryRoot returns the absolute path of the work tree containing path.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// RemoteURL returns the first URL configured for the named remote.
func RemoteURL(path, remoteName string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("looking up remote %q: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remoteName)
	}
	return urls[0], nil
}

// RemoteBaseURL returns the browsable https base URL of the named remote,
// e.g. "https://github.com/owner/repo".
func RemoteBaseURL(path, remoteName string) (string, error) {
	raw, err := RemoteURL(path, remoteName)
	if err != nil {
		return "", err
	}
	base, ok := NormalizeRemoteURL(raw)
	if !ok {
		return "", fmt.Errorf("remote %q URL %q is not a host/owner/repo URL", remoteName, raw)
	}
	logDebug("[git] RemoteBaseURL(%s): %s", remoteName, base)
	return base, nil
}

// NormalizeRemoteURL converts a clone URL into an https base URL.
//
//   - "git@github.com:owner/repo.git" → "https://github.com/owner/repo"
//   - "ssh://git@github.com/owner/repo.git" → "https://github.com/owner/repo"
//   - "https://github.com/owner/repo.git" → "https://github.com/owner/repo"
//
// Local paths and file:// URLs have no browsable form and return false.
func NormalizeRemoteURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	var host, path string
	switch {
	case strings.Contains(raw, "://"):
		scheme, rest, _ := strings.Cut(raw, "://")
		switch scheme {
		case "https", "http", "ssh", "git", "git+ssh":
		default:
			return "", false
		}
		hostPart, p, ok := strings.Cut(rest, "/")
		if !ok {
			return "", false
		}
		if _, h, found := strings.Cut(hostPart, "@"); found {
			hostPart = h
		}
		// Drop an explicit port; ssh ports are not the web port.
		if h, _, found := strings.Cut(hostPart, ":"); found && scheme != "https" && scheme != "http" {
			hostPart = h
		}
		host, path = hostPart, p
	case isSCPLike(raw):
		userHost, p, _ := strings.Cut(raw, ":")
		if _, h, found := strings.Cut(userHost, "@"); found {
			userHost = h
		}
		host, path = userHost, p
	default:
		return "", false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if host == "" || strings.Count(path, "/") < 1 {
		return "", false
	}
	return "https://" + host + "/" + path, true
}

// isSCPLike reports "user@host:path" style URLs.
func isSCPLike(raw string) bool {
	userHost, _, ok := strings.Cut(raw, ":")
	return ok && strings.Contains(userHost, "@") && !strings.Contains(userHost, "/")
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return isSCPLike(url) ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// Tags returns every tag name in the repository, sorted.
func Tags(path string) ([]string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.Strings(tags)
	return tags, nil
}

// Order is the order commits are returned in.
type Order int

const (
	NewestFirst Order = iota
	NewestLast
)

// ParseOrder accepts "newest-first" or "newest-last".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "newest-first":
		return NewestFirst, nil
	case "newest-last":
		return NewestLast, nil
	}
	return 0, fmt.Errorf("unknown commit order %q (expected newest-first or newest-last)", s)
}

// Commit is a commit with its one-line summary.
type Commit struct {
	Hash    string
	Summary string
	Author  string
	When    time.Time
}

// Commits lists the commits reachable from to but not from from, like
// "git log from..to". An empty from lists the full history of to. A from
// revision that does not exist is ignored, so the full history is returned.
func Commits(ctx context.Context, path, from, to string, order Order) ([]Commit, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	if to == "" {
		to = "HEAD"
	}
	head, err := repo.ResolveRevision(plumbing.Revision(to))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", to, err)
	}

	hidden, err := ancestors(ctx, repo, from)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Log(&git.LogOptions{From: *head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", to, err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hidden[c.Hash] {
			return nil
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits: %w", err)
	}

	if order == NewestLast {
		for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
			commits[i], commits[j] = commits[j], commits[i]
		}
	}
	logDebug("[git] Commits(%s..%s): %d commits", from, to, len(commits))
	return commits, nil
}

// ancestors returns the set of commits reachable from rev, or an empty set
// when rev is empty or cannot be resolved.
func ancestors(ctx context.Context, repo *git.Repository, rev string) (map[plumbing.Hash]bool, error) {
	hidden := make(map[plumbing.Hash]bool)
	if rev == "" {
		return hidden, nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		logDebug("[git] revision %s not found, listing full history: %v", rev, err)
		return hidden, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: *hash})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", rev, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hidden[c.Hash] {
			return storer.ErrStop
		}
		hidden[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking commits from %s: %w", rev, err)
	}
	return hidden, nil
}

func toCommit(c *object.Commit) Commit {
	summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return Commit{
		Hash:    c.Hash.String(),
		Summary: strings.TrimSpace(summary),
		Author:  c.Author.Name,
		When:    c.Author.When,
	}
}

// RevisionExists reports whether rev resolves to a commit.
func RevisionExists(path, rev string) bool {
	repo, err := openRepo(path)
	if err != nil {
		return false
	}
	_, err = repo.ResolveRevision(plumbing.Revision(rev))
	return err == nil
}

// DefaultFetchTimeout bounds FetchTags when the caller's context has no deadline.
const DefaultFetchTimeout = 60 * time.Second

// FetchTags fetches tags from the named remote so release boundaries resolve.
// SSH remotes are skipped when no SSH agent is available.
func FetchTags(ctx context.Context, path, remoteName string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchTimeout)
		defer cancel()
	}

	repo, err := openRepo(path)
	if err != nil {
		return err
	}
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("looking up remote %q: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil
	}

	url := urls[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteName)
		return nil
	}

	logDebug("[git] fetching tags from remote '%s' (%s)", remoteName, url)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		Auth:       getAuthForURL(url),
		RefSpecs:   []config.RefSpec{"+refs/tags/*:refs/tags/*"},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching tags from %s: %w", remoteName, err)
	}
	return nil
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use environment credentials.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = "" // GitHub token can be used as username with empty password
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}
	return nil
}

// isSSHAgentAvailable checks if an SSH agent is available.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
