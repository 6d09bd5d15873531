// Package hostedapi_a implements the Provider contract for GitHub-like
// hosted APIs: bearer-token auth, offset pagination capped at 10 pages of
// 100, and a two-request-per-commit detail fetch for per-file stats (spec
// §4.1.a).
package hostedapi_a

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v27/github"
	"golang.org/x/oauth2"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/provider"
)

// maxPages bounds commit-listing pagination at 10 pages of 100 per spec
// §4.1.a (cap 10 pages per repo).
const maxPages = 10

// perPage is the page size used for every paginated list call.
const perPage = 100

// languageToRepoType maps GitHub's repository "language" field to a
// model.RepoType, per spec §4.1.a "fixed map".
var languageToRepoType = map[string]model.RepoType{
	"java":       model.RepoTypeJava,
	"python":     model.RepoTypePython,
	"javascript": model.RepoTypeWebFrontend,
	"typescript": model.RepoTypeWebFrontend,
	"vue":        model.RepoTypeWebFrontend,
	"html":       model.RepoTypeWebFrontend,
	"css":        model.RepoTypeWebFrontend,
	"dart":       model.RepoTypeMobile,
	"kotlin":     model.RepoTypeMobile,
	"swift":      model.RepoTypeMobile,
	"objective-c": model.RepoTypeMobile,
	"hcl":        model.RepoTypeInfra,
	"dockerfile": model.RepoTypeInfra,
	"shell":      model.RepoTypeInfra,
}

// Provider implements provider.Provider against the GitHub REST API v3.
type Provider struct {
	client *github.Client
	org    string
	filter provider.Filter
}

// Config configures a Provider.
type Config struct {
	Token  string
	Org    string // organization to enumerate; empty enumerates the authenticated user's repos.
	Filter provider.Filter
}

// New constructs a Provider. Authentication failures are not possible at
// construction time for a bearer token (GitHub validates lazily on first
// call); malformed configuration is caught by internal/config.Validate
// before this constructor runs.
func New(cfg Config) *Provider {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), ts)

	return &Provider{
		client: github.NewClient(httpClient),
		org:    cfg.Org,
		filter: cfg.Filter,
	}
}

// ListRepositories enumerates the configured organization's repositories
// (or the authenticated user's, if Org is empty), applying the shared
// allow-list Filter.
func (p *Provider) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	var raw []*github.Repository

	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	for page := 1; page <= maxPages; page++ {
		opts.Page = page

		var (
			batch []*github.Repository
			resp  *github.Response
			err   error
		)

		if p.org != "" {
			batch, resp, err = p.client.Repositories.ListByOrg(ctx, p.org, opts)
		} else {
			batch, resp, err = p.client.Repositories.List(ctx, "", &github.RepositoryListOptions{ListOptions: opts.ListOptions})
		}

		if err != nil {
			return nil, model.NewError(model.KindTransport, "hostedapi_a.ListRepositories", err)
		}

		raw = append(raw, batch...)

		if resp.NextPage == 0 {
			break
		}
	}

	repos := make([]model.Repository, 0, len(raw))

	for _, r := range raw {
		repos = append(repos, toRepository(r))
	}

	return provider.ApplyFilter(repos, p.filter, repoCandidate), nil
}

func repoCandidate(r model.Repository) provider.Candidate {
	return provider.Candidate{ID: r.ID, Name: r.DisplayName, Path: r.ID, URL: r.CloneURL, Archived: r.Archived}
}

func toRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:            r.GetFullName(),
		DisplayName:   r.GetName(),
		CloneURL:      r.GetCloneURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Type:          inferRepoType(r.GetLanguage()),
		Archived:      r.GetArchived(),
	}
}

func inferRepoType(language string) model.RepoType {
	if t, ok := languageToRepoType[lower(language)]; ok {
		return t
	}

	return model.RepoTypeUnknown
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}

// GetCommits lists commits in [since, until) on branch (owner/repo split
// from repoID), fetching per-commit detail for per-file additions/deletions
// (spec §4.1.a: "two requests per commit"), then deduplicating by hash and
// sorting descending by timestamp.
func (p *Provider) GetCommits(ctx context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error) {
	owner, name, err := splitRepoID(repoID)
	if err != nil {
		return nil, model.NewRepoError(model.KindData, repoID, "hostedapi_a.GetCommits", err)
	}

	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	if !until.IsZero() {
		opts.Until = until
	}

	if branch != "" && branch != "all" {
		opts.SHA = branch
	}

	var refs []*github.RepositoryCommit

	for page := 1; page <= maxPages; page++ {
		opts.Page = page

		batch, resp, listErr := p.client.Repositories.ListCommits(ctx, owner, name, opts)
		if listErr != nil {
			return nil, model.NewRepoError(model.KindTransport, repoID, "hostedapi_a.GetCommits.list", listErr)
		}

		refs = append(refs, batch...)

		if resp.NextPage == 0 {
			break
		}
	}

	seen := make(map[string]struct{}, len(refs))
	commits := make([]model.Commit, 0, len(refs))

	for _, ref := range refs {
		hash := ref.GetSHA()
		if hash == "" {
			continue
		}

		if _, dup := seen[hash]; dup {
			continue
		}

		seen[hash] = struct{}{}

		detail, _, detailErr := p.client.Repositories.GetCommit(ctx, owner, name, hash)
		if detailErr != nil {
			// A single unreadable commit detail is a data error, not fatal
			// to the rest of the window (spec §7 kind 3).
			continue
		}

		commits = append(commits, toCommit(detail))
	}

	return provider.SortDescByTimestamp(commits), nil
}

func toCommit(rc *github.RepositoryCommit) model.Commit {
	ci := rc.GetCommit()
	author := ci.GetAuthor()

	files := make([]model.FileChange, 0, len(rc.Files))
	for _, f := range rc.Files {
		files = append(files, model.FileChange{
			Path:    f.GetFilename(),
			Added:   f.GetAdditions(),
			Deleted: f.GetDeletions(),
		})
	}

	if len(files) == 0 {
		added, deleted := 0, 0
		if stats := rc.GetStats(); stats != nil {
			added, deleted = stats.GetAdditions(), stats.GetDeletions()
		}

		files = []model.FileChange{{Path: model.UnknownFilePath, Added: added, Deleted: deleted}}
	}

	return model.Commit{
		Hash:        rc.GetSHA(),
		AuthorName:  author.GetName(),
		AuthorEmail: author.GetEmail(),
		Timestamp:   author.GetDate(),
		Message:     firstLine(ci.GetMessage()),
		Files:       files,
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}

func splitRepoID(repoID string) (owner, name string, err error) {
	for i := 0; i < len(repoID); i++ {
		if repoID[i] == '/' {
			return repoID[:i], repoID[i+1:], nil
		}
	}

	return "", "", fmt.Errorf("repo id %q is not in owner/repo form", repoID)
}

// GetFileContent fetches path at ref via the contents API.
func (p *Provider) GetFileContent(ctx context.Context, repoID, path, ref string) (string, bool, error) {
	owner, name, err := splitRepoID(repoID)
	if err != nil {
		return "", false, model.NewRepoError(model.KindData, repoID, "hostedapi_a.GetFileContent", err)
	}

	opts := &github.RepositoryContentGetOptions{}
	if ref != "" && ref != "HEAD" {
		opts.Ref = ref
	}

	content, _, _, err := p.client.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		return "", false, nil // 4xx/5xx becomes an empty result, not fatal (spec §4.1 failure semantics).
	}

	if content == nil {
		return "", false, nil
	}

	text, err := content.GetContent()
	if err != nil {
		return "", false, nil
	}

	return text, true, nil
}

// GetFileLineCount uses the Provider default (split GetFileContent on
// newlines); GitHub exposes no cheaper endpoint.
func (p *Provider) GetFileLineCount(ctx context.Context, repoID, path, ref string) (int, error) {
	return provider.DefaultFileLineCount(ctx, p, repoID, path, ref)
}

// GetFileHistory uses the Provider default (filter GetCommits by path).
func (p *Provider) GetFileHistory(ctx context.Context, repoID, path string, since, until time.Time) ([]model.Commit, error) {
	return provider.DefaultFileHistory(ctx, p, repoID, path, since, until)
}

// Cleanup is a no-op: the Provider holds no scoped resources beyond the
// shared HTTP client.
func (p *Provider) Cleanup() error { return nil }
