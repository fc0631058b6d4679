package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo is a throwaway repository for tests. Commits get strictly
// increasing timestamps so log order is deterministic.
type GitRepo struct {
	t    *testing.T
	Dir  string
	repo *git.Repository
	when time.Time
	n    int
}

// NewGitRepo initializes a repository in a fresh temp directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	return NewGitRepoAt(t, t.TempDir())
}

// NewGitRepoAt initializes a repository in dir.
func NewGitRepoAt(t *testing.T, dir string) *GitRepo {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init %s: %v", dir, err)
	}
	return &GitRepo{
		t:    t,
		Dir:  dir,
		repo: repo,
		when: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit records a commit with message and returns its hash.
func (r *GitRepo) Commit(message string) string {
	r.t.Helper()

	r.n++
	name := "history.txt"
	f, err := os.OpenFile(filepath.Join(r.Dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.t.Fatalf("opening %s: %v", name, err)
	}
	if _, err := f.WriteString(message + "\n"); err != nil {
		f.Close()
		r.t.Fatalf("writing %s: %v", name, err)
	}
	if err := f.Close(); err != nil {
		r.t.Fatalf("closing %s: %v", name, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("git add: %v", err)
	}

	r.when = r.when.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: r.when},
	})
	if err != nil {
		r.t.Fatalf("git commit: %v", err)
	}
	return hash.String()
}

// Tag creates a lightweight tag at HEAD.
func (r *GitRepo) Tag(name string) {
	r.t.Helper()

	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("resolving HEAD: %v", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		r.t.Fatalf("git tag %s: %v", name, err)
	}
}

// AddRemote configures a remote with a single URL.
func (r *GitRepo) AddRemote(name, url string) {
	r.t.Helper()

	_, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		r.t.Fatalf("git remote add %s: %v", name, err)
	}
}
