// Package localclone implements the Provider contract for the LocalClone
// dialect (spec §4.1.d): each repository is shallow-cloned into a scoped
// temporary directory with libgit2 (pkg/gitlib) and walked locally, rather
// than queried through a hosted REST API. Grounded on
// original_source/src/providers/generic_git.py.
package localclone

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/devpulse/devpulse/pkg/gitlib"
	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/provider"
)

// DefaultCloneDepth bounds history fetched per repository when the caller
// supplies no override (generic_git.py's `--depth N` shallow clone).
const DefaultCloneDepth = 1000

// Provider implements provider.Provider by cloning repositories to a local
// scratch directory and reading them with libgit2.
type Provider struct {
	token     string
	depth     int
	workDir   string
	filter    provider.Filter
	repos     []model.Repository // pre-registered repositories; LocalClone has no discovery API.
	mu        sync.Mutex
	clonePath map[string]string // repoID -> clone directory, populated lazily.
}

// Config configures a Provider.
type Config struct {
	// Token is injected into HTTPS clone URLs as basic auth (generic_git.py's
	// _get_auth_url); SSH URLs are left untouched.
	Token string
	// Depth bounds the shallow clone history; zero means DefaultCloneDepth.
	Depth int
	// WorkDir is the parent scratch directory; a process-unique subdirectory
	// is created under it per Provider. Empty uses os.MkdirTemp's default.
	WorkDir string
	// Repositories is the statically configured repository list (spec §6
	// repositories[]); LocalClone has no remote enumeration endpoint.
	Repositories []model.Repository
	Filter       provider.Filter
}

// New constructs a Provider. The scratch root is created immediately so
// Cleanup always has a well-defined directory to remove.
func New(cfg Config) (*Provider, error) {
	depth := cfg.Depth
	if depth <= 0 {
		depth = DefaultCloneDepth
	}

	root, err := os.MkdirTemp(cfg.WorkDir, "devpulse-clone-*")
	if err != nil {
		return nil, model.NewError(model.KindFilesystem, "localclone.New", err)
	}

	return &Provider{
		token:     cfg.Token,
		depth:     depth,
		workDir:   root,
		filter:    cfg.Filter,
		repos:     cfg.Repositories,
		clonePath: make(map[string]string),
	}, nil
}

// ListRepositories returns the statically configured repository list,
// applying the shared allow-list Filter. LocalClone has no remote discovery
// endpoint to page through.
func (p *Provider) ListRepositories(_ context.Context) ([]model.Repository, error) {
	return provider.ApplyFilter(p.repos, p.filter, func(r model.Repository) provider.Candidate {
		return provider.Candidate{ID: r.ID, Name: r.DisplayName, Path: r.ID, URL: r.CloneURL}
	}), nil
}

// authURL injects "oauth2:{token}@" into an HTTPS clone URL's netloc,
// mirroring generic_git.py's _get_auth_url; SSH URLs (git@host:...) are
// returned unchanged since they authenticate via the local SSH agent.
func (p *Provider) authURL(cloneURL string) string {
	if p.token == "" || !strings.HasPrefix(cloneURL, "http") {
		return cloneURL
	}

	u, err := url.Parse(cloneURL)
	if err != nil {
		return cloneURL
	}

	u.User = url.UserPassword("oauth2", p.token)

	return u.String()
}

// ensureClone returns the local working directory for repoID, shallow-
// cloning it on first use. Repeated calls for the same repository within a
// run reuse the existing clone.
func (p *Provider) ensureClone(repoID, cloneURL string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dir, ok := p.clonePath[repoID]; ok {
		return dir, nil
	}

	dir := filepath.Join(p.workDir, sanitizeDirName(repoID))

	opts := &git2go.CloneOptions{
		FetchOptions: &git2go.FetchOptions{
			DownloadTags: git2go.DownloadTagsNone,
			Depth:        p.depth,
		},
	}

	if _, err := git2go.Clone(p.authURL(cloneURL), dir, opts); err != nil {
		return "", model.NewRepoError(model.KindTransport, repoID, "localclone.clone", err)
	}

	p.clonePath[repoID] = dir

	return dir, nil
}

func sanitizeDirName(repoID string) string {
	b := []byte(repoID)
	for i, c := range b {
		if c == '/' || c == ':' || c == '\\' {
			b[i] = '_'
		}
	}

	return string(b)
}

// GetCommits walks the repository's commit graph (HEAD, or every branch
// tip when branch is "" or "all"), keeping commits in [since, until),
// computing per-file numstat via gitlib.CommitNumstat.
func (p *Provider) GetCommits(_ context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error) {
	dir, ok := p.clonePath[repoID]
	if !ok {
		return nil, model.NewRepoError(model.KindConfiguration, repoID, "localclone.GetCommits", fmt.Errorf("repository %s not cloned; call RegisterClone first", repoID))
	}

	repo, err := gitlib.OpenRepository(dir)
	if err != nil {
		return nil, model.NewRepoError(model.KindTransport, repoID, "localclone.GetCommits.open", err)
	}
	defer repo.Free()

	logOpts := &gitlib.LogOptions{Since: &since}

	allBranches := branch == "" || branch == "all"
	logOpts.AllBranches = allBranches

	iter, err := repo.Log(logOpts)
	if err != nil {
		return nil, model.NewRepoError(model.KindTransport, repoID, "localclone.GetCommits.log", err)
	}
	defer iter.Close()

	var commits []model.Commit

	walkErr := iter.ForEach(func(c *gitlib.Commit) error {
		author := c.Author()

		if !until.IsZero() && !author.When.Before(until) {
			return nil
		}

		stats, numstatErr := gitlib.CommitNumstat(repo, c)
		if numstatErr != nil {
			return nil // a single unreadable commit diff is a data error, not fatal.
		}

		commits = append(commits, model.Commit{
			Hash:        c.Hash().String(),
			AuthorName:  author.Name,
			AuthorEmail: author.Email,
			Timestamp:   author.When,
			Message:     firstLine(c.Message()),
			Files:       toFileChanges(stats),
		})

		return nil
	})
	if walkErr != nil {
		return nil, model.NewRepoError(model.KindTransport, repoID, "localclone.GetCommits.walk", walkErr)
	}

	if allBranches {
		commits = provider.DedupeByHash(commits)
	}

	return provider.SortDescByTimestamp(commits), nil
}

func toFileChanges(stats []gitlib.FileNumstat) []model.FileChange {
	if len(stats) == 0 {
		return []model.FileChange{{Path: model.UnknownFilePath}}
	}

	out := make([]model.FileChange, 0, len(stats))
	for _, s := range stats {
		out = append(out, model.FileChange{Path: s.Path, Added: s.Added, Deleted: s.Deleted})
	}

	return out
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}

// RegisterClone shallow-clones repoID from cloneURL if not already cloned.
// The CLI entry point calls this once per repository before the first
// GetCommits/GetFileContent call, since LocalClone's repository list
// (spec §6) supplies the URL that GetCommits alone does not receive.
func (p *Provider) RegisterClone(repoID, cloneURL string) error {
	_, err := p.ensureClone(repoID, cloneURL)

	return err
}

// GetFileContent reads path as stored in the commit at ref (HEAD when ref
// is empty); the clone's working tree is not read.
func (p *Provider) GetFileContent(_ context.Context, repoID, path, ref string) (string, bool, error) {
	dir, ok := p.clonePath[repoID]
	if !ok {
		return "", false, nil
	}

	repo, err := gitlib.OpenRepository(dir)
	if err != nil {
		return "", false, nil
	}
	defer repo.Free()

	hash, err := resolveRef(repo, ref)
	if err != nil {
		return "", false, nil
	}

	commit, err := repo.LookupCommit(context.Background(), hash)
	if err != nil {
		return "", false, nil
	}
	defer commit.Free()

	file, err := commit.File(path)
	if err != nil {
		return "", false, nil
	}

	blob, err := repo.LookupBlob(context.Background(), file.Hash)
	if err != nil {
		return "", false, nil
	}
	defer blob.Free()

	return string(blob.Contents()), true, nil
}

func resolveRef(repo *gitlib.Repository, ref string) (gitlib.Hash, error) {
	if ref == "" || ref == "HEAD" {
		return repo.Head()
	}

	return gitlib.NewHash(ref), nil
}

// GetFileLineCount uses the Provider default.
func (p *Provider) GetFileLineCount(ctx context.Context, repoID, path, ref string) (int, error) {
	return provider.DefaultFileLineCount(ctx, p, repoID, path, ref)
}

// GetFileHistory uses the Provider default (filter GetCommits by path);
// LocalClone has no cheaper path-scoped log in the current wrapper.
func (p *Provider) GetFileHistory(ctx context.Context, repoID, path string, since, until time.Time) ([]model.Commit, error) {
	return provider.DefaultFileHistory(ctx, p, repoID, path, since, until)
}

// Cleanup removes the scratch directory tree holding every clone made by
// this Provider (generic_git.py's cleanup()).
func (p *Provider) Cleanup() error {
	if p.workDir == "" {
		return nil
	}

	if err := os.RemoveAll(p.workDir); err != nil {
		return model.NewError(model.KindFilesystem, "localclone.Cleanup", err)
	}

	return nil
}
