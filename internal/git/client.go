package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

const remoteName = "origin"

// SyncResult describes the checkout after a sync.
type SyncResult struct {
	Path     string
	Commit   string
	Cloned   bool
	Changed  bool
	Duration time.Duration
}

// Client syncs one source repository.
type Client struct {
	src    config.SourceConfig
	logger *slog.Logger
}

// NewClient returns a client for src.
func NewClient(src config.SourceConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{src: src, logger: logger}
}

// SyncBranch makes path a checkout of the configured branch at the remote
// head. A missing checkout, or one whose origin points elsewhere, is cloned
// fresh. An existing checkout is fetched, switched to the branch and hard
// reset to the remote head, discarding local changes.
func (c *Client) SyncBranch(ctx context.Context, path string) (SyncResult, error) {
	start := time.Now()
	res, err := c.sync(ctx, path)
	res.Duration = time.Since(start)
	if err != nil {
		return res, toClassified(err, c.src.Branch)
	}
	return res, nil
}

func (c *Client) sync(ctx context.Context, path string) (SyncResult, error) {
	repo, err := git.PlainOpen(path)
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		return c.clone(ctx, path)
	case err != nil:
		c.logger.Warn("Existing checkout unreadable, recloning", logfields.Path(path), logfields.Error(err))
		return c.clone(ctx, path)
	}
	if !c.originMatches(repo) {
		c.logger.Warn("Checkout origin differs from configured URL, recloning", logfields.Path(path), logfields.URL(c.src.URL))
		return c.clone(ctx, path)
	}
	return c.update(ctx, repo, path)
}

func (c *Client) originMatches(repo *git.Repository) bool {
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return false
	}
	for _, u := range remote.Config().URLs {
		if u == c.src.URL {
			return true
		}
	}
	return false
}

func (c *Client) clone(ctx context.Context, path string) (SyncResult, error) {
	res := SyncResult{Path: path, Cloned: true, Changed: true}
	c.logger.Info("Cloning repository", logfields.URL(c.src.URL), logfields.Branch(c.src.Branch), logfields.Path(path))
	if err := os.RemoveAll(path); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove stale checkout").
			WithContext("path", path).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create workspace").
			WithContext("path", filepath.Dir(path)).
			Build()
	}

	auth, err := authMethod(c.src.Auth)
	if err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryAuth, "failed to setup authentication").Build()
	}
	opts := &git.CloneOptions{
		URL:           c.src.URL,
		RemoteName:    remoteName,
		ReferenceName: plumbing.NewBranchReferenceName(c.src.Branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
		Depth:         c.src.ShallowDepth,
		Auth:          auth,
	}
	repo, err := git.PlainCloneContext(ctx, path, false, opts)
	if err != nil {
		_ = os.RemoveAll(path)
		return res, classify("clone", c.src.URL, err)
	}
	head, err := repo.Head()
	if err != nil {
		return res, fmt.Errorf("read head after clone: %w", err)
	}
	res.Commit = head.Hash().String()
	c.logger.Info("Repository cloned", logfields.Repository(c.src.Name), logfields.Commit(res.Commit))
	return res, nil
}

func (c *Client) update(ctx context.Context, repo *git.Repository, path string) (SyncResult, error) {
	res := SyncResult{Path: path}
	c.logger.Info("Updating repository", logfields.Repository(c.src.Name), logfields.Branch(c.src.Branch), logfields.Path(path))

	if err := c.fetch(ctx, repo); err != nil {
		return res, classify("fetch", c.src.URL, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return res, fmt.Errorf("worktree: %w", err)
	}
	previous, _ := repo.Head()

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, c.src.Branch), true)
	if err != nil {
		return res, classify("update", c.src.URL, fmt.Errorf("remote branch %s not found: %w", c.src.Branch, err))
	}
	if err := checkoutBranch(repo, wt, c.src.Branch, remoteRef.Hash()); err != nil {
		return res, err
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return res, fmt.Errorf("hard reset: %w", err)
	}
	if c.src.CleanUntracked {
		if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
			return res, fmt.Errorf("clean untracked: %w", err)
		}
	}

	res.Commit = remoteRef.Hash().String()
	res.Changed = previous == nil || previous.Hash() != remoteRef.Hash()
	if res.Changed {
		from := ""
		if previous != nil {
			from = previous.Hash().String()
		}
		c.logger.Info("Repository updated", logfields.Repository(c.src.Name), slog.String("from", shortHash(from)), logfields.Commit(res.Commit))
	} else {
		c.logger.Info("Repository already up-to-date", logfields.Repository(c.src.Name), logfields.Commit(res.Commit))
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, repo *git.Repository) error {
	auth, err := authMethod(c.src.Auth)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryAuth, "failed to setup authentication").Build()
	}
	spec := ggitcfg.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", c.src.Branch, remoteName, c.src.Branch))
	opts := &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Tags:       git.NoTags,
		Depth:      c.src.ShallowDepth,
		Auth:       auth,
		Force:      true,
	}
	if err := repo.FetchContext(ctx, opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// checkoutBranch switches the worktree to branch, creating it at hash when
// the local branch does not exist yet.
func checkoutBranch(repo *git.Repository, wt *git.Worktree, branch string, hash plumbing.Hash) error {
	local := plumbing.NewBranchReferenceName(branch)
	if _, err := repo.Reference(local, true); err != nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: local, Hash: hash, Create: true, Force: true}); err != nil {
			return fmt.Errorf("checkout new branch %s: %w", branch, err)
		}
		return nil
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: local, Force: true}); err != nil {
		return fmt.Errorf("checkout branch %s: %w", branch, err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
