// Package enterprise implements the Provider contract for the custom
// token-header EnterpriseApi dialect (spec §4.1.c), grounded on
// original_source/src/providers/codeup.py: a fixed X-Yunxiao-Token header, a
// branch-listing prerequisite for "all branches" mode, and a four-level
// fallback when fetching a commit's per-file diff.
package enterprise

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/provider"
)

const (
	headerToken = "x-yunxiao-token"

	branchPageSize = 100
	maxBranchPages = 5
	maxBranches    = 500

	commitPageSize = 100
	maxCommitPages = 20
)

// Provider implements provider.Provider against an enterprise codeup-style
// API.
type Provider struct {
	token      string
	baseURL    string
	orgID      string
	project    string
	client      *http.Client
	filter      provider.Filter
	fallbackLog *slog.Logger
}

// Config configures a Provider.
type Config struct {
	Token   string
	BaseURL string
	OrgID   string
	Project string
	Filter  provider.Filter
	Client  *http.Client
	Logger  *slog.Logger
}

// New constructs a Provider.
func New(cfg Config) *Provider {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		token:       cfg.Token,
		baseURL:     cfg.BaseURL,
		orgID:       cfg.OrgID,
		project:     cfg.Project,
		client:      client,
		filter:      cfg.Filter,
		fallbackLog: cfg.Logger,
	}
}

type epRepo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	WebURL        string `json:"webUrl"`
	CloneURL      string `json:"httpUrlToRepo"`
	DefaultBranch string `json:"defaultBranch"`
}

type epBranch struct {
	Name string `json:"name"`
}

type epCommit struct {
	Sha         string    `json:"sha"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	CommitDate  string    `json:"commitDate"`
	Message     string    `json:"shortMessage"`
	ParentIds   []string  `json:"parentIds"`
	Diffs       []epDiff  `json:"diffs"`
	Stats       *epStats  `json:"stats"`
}

type epDiff struct {
	NewPath      string `json:"newPath"`
	OldPath      string `json:"oldPath"`
	AddedLines   int    `json:"addedLines"`
	DeletedLines int    `json:"deletedLines"`
}

type epStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// ListRepositories enumerates the project's repositories, applying the
// shared allow-list Filter.
func (p *Provider) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	path := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/projects/%s/repositories", p.orgID, p.project)

	var raw []epRepo

	if err := p.getJSON(ctx, path, nil, &raw); err != nil {
		return nil, model.NewError(model.KindTransport, "enterprise.ListRepositories", err)
	}

	repos := make([]model.Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, model.Repository{
			ID:            r.ID,
			DisplayName:   r.Name,
			CloneURL:      r.CloneURL,
			DefaultBranch: r.DefaultBranch,
			Type:          model.RepoTypeUnknown,
		})
	}

	return provider.ApplyFilter(repos, p.filter, repoCandidate), nil
}

func repoCandidate(r model.Repository) provider.Candidate {
	return provider.Candidate{ID: r.ID, Name: r.DisplayName, Path: r.ID, URL: r.CloneURL}
}

// listBranches pages through up to maxBranchPages pages (maxBranches total)
// of repository branches, per spec §4.1.c's bounded "all branches" mode.
func (p *Provider) listBranches(ctx context.Context, repoID string) ([]string, error) {
	path := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/repositories/%s/branches", p.orgID, repoID)

	names := make([]string, 0, branchPageSize)

	for page := 1; page <= maxBranchPages && len(names) < maxBranches; page++ {
		params := url.Values{"page": {strconv.Itoa(page)}, "perPage": {strconv.Itoa(branchPageSize)}}

		var batch []epBranch

		if err := p.getJSON(ctx, path, params, &batch); err != nil {
			return nil, err
		}

		if len(batch) == 0 {
			break
		}

		for _, b := range batch {
			names = append(names, b.Name)
		}

		if len(batch) < branchPageSize {
			break
		}
	}

	if len(names) > maxBranches {
		names = names[:maxBranches]
	}

	return names, nil
}

// GetCommits fetches commits on branch, or fuses commits across every
// branch (deduplicated by hash) when branch is "" or "all" — mirroring
// codeup.py's _get_commits_all_branches / _get_commits_single_branch split.
func (p *Provider) GetCommits(ctx context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error) {
	if branch != "" && branch != "all" {
		commits, err := p.getCommitsOnBranch(ctx, repoID, branch, since, until)
		if err != nil {
			return nil, err
		}

		return provider.SortDescByTimestamp(commits), nil
	}

	branches, err := p.listBranches(ctx, repoID)
	if err != nil {
		return nil, model.NewRepoError(model.KindTransport, repoID, "enterprise.GetCommits.listBranches", err)
	}

	var all []model.Commit

	for _, b := range branches {
		batch, err := p.getCommitsOnBranch(ctx, repoID, b, since, until)
		if err != nil {
			continue // one unreachable branch should not fail the whole repo window.
		}

		all = append(all, batch...)
	}

	return provider.SortDescByTimestamp(provider.DedupeByHash(all)), nil
}

// getCommitsOnBranch pages through commits newest-first, stopping early
// once a page's oldest commit predates since (codeup.py's early-stop
// optimization — later pages can only be older).
func (p *Provider) getCommitsOnBranch(ctx context.Context, repoID, branch string, since, until time.Time) ([]model.Commit, error) {
	path := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/repositories/%s/commits", p.orgID, repoID)

	var commits []model.Commit

	for page := 1; page <= maxCommitPages; page++ {
		params := url.Values{
			"branch":  {branch},
			"page":    {strconv.Itoa(page)},
			"perPage": {strconv.Itoa(commitPageSize)},
		}

		var batch []epCommit

		if err := p.getJSON(ctx, path, params, &batch); err != nil {
			return nil, model.NewRepoError(model.KindTransport, repoID, "enterprise.GetCommits", err)
		}

		if len(batch) == 0 {
			break
		}

		stop := false

		for _, rc := range batch {
			ts := parseCodeupDate(rc.CommitDate)

			if ts.Before(since) {
				stop = true
				continue
			}

			if !until.IsZero() && !ts.Before(until) {
				continue
			}

			commits = append(commits, p.toCommit(ctx, repoID, rc, ts))
		}

		if stop || len(batch) < commitPageSize {
			break
		}
	}

	return commits, nil
}

func (p *Provider) toCommit(ctx context.Context, repoID string, rc epCommit, ts time.Time) model.Commit {
	files, fallback := p.resolveFiles(ctx, repoID, rc)

	if p.fallbackLog != nil {
		p.fallbackLog.DebugContext(ctx, "enterprise commit diff resolved", "repo", repoID, "commit", rc.Sha, "fallback", fallback)
	}

	return model.Commit{
		Hash:        rc.Sha,
		AuthorName:  rc.AuthorName,
		AuthorEmail: rc.AuthorEmail,
		Timestamp:   ts,
		Message:     rc.Message,
		Files:       files,
	}
}

// resolveFiles implements the four-level fallback codeup.py uses to obtain
// a commit's per-file change list: the commit payload's own diffs field,
// then a dedicated /diff endpoint, then a /compare against the first
// parent, then a synthetic stats-only file. fallback names which level
// fired, for the debug log line.
func (p *Provider) resolveFiles(ctx context.Context, repoID string, rc epCommit) ([]model.FileChange, string) {
	if len(rc.Diffs) > 0 {
		return diffsToFiles(rc.Diffs), "diffs"
	}

	if files, ok := p.fetchDiffEndpoint(ctx, repoID, rc.Sha); ok {
		return files, "diff_api"
	}

	if len(rc.ParentIds) > 0 {
		if files, ok := p.fetchCompare(ctx, repoID, rc.ParentIds[0], rc.Sha); ok {
			return files, "compare"
		}
	}

	added, deleted := 0, 0
	if rc.Stats != nil {
		added, deleted = rc.Stats.Additions, rc.Stats.Deletions
	}

	return []model.FileChange{{Path: model.UnknownFilePath, Added: added, Deleted: deleted}}, "stats_only"
}

func diffsToFiles(diffs []epDiff) []model.FileChange {
	out := make([]model.FileChange, 0, len(diffs))

	for _, d := range diffs {
		path := d.NewPath
		if path == "" {
			path = d.OldPath
		}

		out = append(out, model.FileChange{Path: path, Added: d.AddedLines, Deleted: d.DeletedLines})
	}

	return out
}

func (p *Provider) fetchDiffEndpoint(ctx context.Context, repoID, sha string) ([]model.FileChange, bool) {
	path := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/repositories/%s/commits/%s/diff", p.orgID, repoID, sha)

	var diffs []epDiff

	if err := p.getJSON(ctx, path, nil, &diffs); err != nil || len(diffs) == 0 {
		return nil, false
	}

	return diffsToFiles(diffs), true
}

func (p *Provider) fetchCompare(ctx context.Context, repoID, fromSha, toSha string) ([]model.FileChange, bool) {
	path := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/repositories/%s/compare", p.orgID, repoID)
	params := url.Values{"from": {fromSha}, "to": {toSha}}

	var diffs []epDiff

	if err := p.getJSON(ctx, path, params, &diffs); err != nil || len(diffs) == 0 {
		return nil, false
	}

	return diffsToFiles(diffs), true
}

func parseCodeupDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}

	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}

	return time.Time{}
}

// GetFileContent fetches path at ref via the repository file-content API.
func (p *Provider) GetFileContent(ctx context.Context, repoID, path, ref string) (string, bool, error) {
	apiPath := fmt.Sprintf("/oapi/v1/codeup/organizations/%s/repositories/%s/files", p.orgID, repoID)
	params := url.Values{"filePath": {path}}

	if ref != "" {
		params.Set("ref", ref)
	}

	body, err := p.getRaw(ctx, apiPath, params)
	if err != nil {
		return "", false, nil
	}

	var payload struct {
		Content string `json:"content"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false, nil
	}

	return payload.Content, true, nil
}

// GetFileLineCount uses the Provider default.
func (p *Provider) GetFileLineCount(ctx context.Context, repoID, path, ref string) (int, error) {
	return provider.DefaultFileLineCount(ctx, p, repoID, path, ref)
}

// GetFileHistory uses the Provider default.
func (p *Provider) GetFileHistory(ctx context.Context, repoID, path string, since, until time.Time) ([]model.Commit, error) {
	return provider.DefaultFileHistory(ctx, p, repoID, path, since, until)
}

// Cleanup is a no-op: the Provider holds no scoped resources beyond the
// shared HTTP client.
func (p *Provider) Cleanup() error { return nil }

func (p *Provider) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := p.getRaw(ctx, path, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func (p *Provider) getRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := p.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set(headerToken, p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enterprise request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("enterprise %s returned status %d", path, resp.StatusCode)
	}

	buf := make([]byte, 0, 4096)
	readBuf := make([]byte, 4096)

	for {
		n, readErr := resp.Body.Read(readBuf)
		if n > 0 {
			buf = append(buf, readBuf[:n]...)
		}

		if readErr != nil {
			break
		}
	}

	return buf, nil
}
