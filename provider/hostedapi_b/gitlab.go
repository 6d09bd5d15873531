// Package hostedapi_b implements the Provider contract for GitLab-like
// hosted APIs: private-token header auth, `all=true`/`with_stats=true`
// commit listing that yields only totals (not a per-file split), and a
// second `commits/{id}/diff` request that supplies the file list the totals
// are then distributed across (spec §4.1.b).
package hostedapi_b

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/provider"
)

const defaultBaseURL = "https://gitlab.com"

const (
	perPage  = 100
	maxPages = 10
)

// Provider implements provider.Provider against the GitLab REST API v4.
type Provider struct {
	token   string
	baseURL string
	group   string
	client  *http.Client
	filter  provider.Filter
}

// Config configures a Provider.
type Config struct {
	Token   string
	BaseURL string // defaults to https://gitlab.com when empty.
	Group   string // group/namespace to enumerate; empty enumerates memberships.
	Filter  provider.Filter
	Client  *http.Client
}

// New constructs a Provider.
func New(cfg Config) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		token:   cfg.Token,
		baseURL: strings.TrimSuffix(base, "/"),
		group:   cfg.Group,
		client:  client,
		filter:  cfg.Filter,
	}
}

type glProject struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	PathWithNamespace string `json:"path_with_namespace"`
	HTTPURLToRepo     string `json:"http_url_to_repo"`
	DefaultBranch     string `json:"default_branch"`
	Archived          bool   `json:"archived"`
}

type glCommit struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	AuthorName     string      `json:"author_name"`
	AuthorEmail    string      `json:"author_email"`
	AuthoredDate   string      `json:"authored_date"`
	Stats          *glStats    `json:"stats"`
}

type glStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

type glDiff struct {
	NewPath string `json:"new_path"`
	OldPath string `json:"old_path"`
}

// ListRepositories enumerates the configured group's projects (with
// subgroups fused), applying the shared allow-list Filter. Repository type
// cannot be inferred from a language field (GitLab's list endpoint exposes
// none), so it is inferred from the name/path per spec §4.1.b.
func (p *Provider) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	path := "/projects"
	params := url.Values{"membership": {"true"}}

	if p.group != "" {
		path = fmt.Sprintf("/groups/%s/projects", url.PathEscape(p.group))
		params = url.Values{"include_subgroups": {"true"}}
	}

	var raw []glProject

	if err := p.getPaged(ctx, path, params, &raw); err != nil {
		return nil, model.NewError(model.KindTransport, "hostedapi_b.ListRepositories", err)
	}

	repos := make([]model.Repository, 0, len(raw))
	for _, pr := range raw {
		repos = append(repos, toRepository(pr))
	}

	return provider.ApplyFilter(repos, p.filter, repoCandidate), nil
}

func repoCandidate(r model.Repository) provider.Candidate {
	return provider.Candidate{ID: r.ID, Name: r.DisplayName, Path: r.ID, URL: r.CloneURL, Archived: r.Archived}
}

func toRepository(pr glProject) model.Repository {
	return model.Repository{
		ID:            strconv.Itoa(pr.ID),
		DisplayName:   pr.Name,
		CloneURL:      pr.HTTPURLToRepo,
		DefaultBranch: pr.DefaultBranch,
		Type:          inferRepoType(pr.Name, pr.Path),
		Archived:      pr.Archived,
	}
}

func inferRepoType(name, path string) model.RepoType {
	needle := strings.ToLower(name + " " + path)

	switch {
	case containsAny(needle, "java", "spring", "backend"):
		return model.RepoTypeJava
	case containsAny(needle, "python", "django", "flask"):
		return model.RepoTypePython
	case containsAny(needle, "vue", "react", "frontend", "web"):
		return model.RepoTypeWebFrontend
	case containsAny(needle, "flutter", "mobile", "android", "ios"):
		return model.RepoTypeMobile
	case containsAny(needle, "infra", "terraform", "ansible"):
		return model.RepoTypeInfra
	default:
		return model.RepoTypeUnknown
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}

	return false
}

// GetCommits lists commits via `all=true&with_stats=true`, then for each
// fetches `commits/{id}/diff` for the file list and distributes the
// commit-level stats total evenly across the files (spec §4.1.b). With no
// files, a synthetic `(unknown)` file carries the total.
func (p *Provider) GetCommits(ctx context.Context, repoID string, since, until time.Time, branch string) ([]model.Commit, error) {
	params := url.Values{
		"since":       {since.UTC().Format(time.RFC3339)},
		"with_stats":  {"true"},
		"per_page":    {strconv.Itoa(perPage)},
	}

	if !until.IsZero() {
		params.Set("until", until.UTC().Format(time.RFC3339))
	}

	if branch != "" && branch != "all" {
		params.Set("ref_name", branch)
	} else {
		params.Set("all", "true")
	}

	projPath := fmt.Sprintf("/projects/%s/repository/commits", url.PathEscape(repoID))

	var raw []glCommit

	if err := p.getPaged(ctx, projPath, params, &raw); err != nil {
		return nil, model.NewRepoError(model.KindTransport, repoID, "hostedapi_b.GetCommits", err)
	}

	commits := make([]model.Commit, 0, len(raw))

	for _, rc := range raw {
		commits = append(commits, p.toCommit(ctx, repoID, rc))
	}

	return provider.SortDescByTimestamp(provider.DedupeByHash(commits)), nil
}

func (p *Provider) toCommit(ctx context.Context, repoID string, rc glCommit) model.Commit {
	files := p.fetchDiffFiles(ctx, repoID, rc.ID)

	added, deleted := 0, 0
	if rc.Stats != nil {
		added, deleted = rc.Stats.Additions, rc.Stats.Deletions
	}

	fileChanges := distributeStats(files, added, deleted)

	return model.Commit{
		Hash:        rc.ID,
		AuthorName:  rc.AuthorName,
		AuthorEmail: rc.AuthorEmail,
		Timestamp:   parseGitLabDate(rc.AuthoredDate),
		Message:     firstLine(rc.Title),
		Files:       fileChanges,
	}
}

func (p *Provider) fetchDiffFiles(ctx context.Context, repoID, commitID string) []string {
	path := fmt.Sprintf("/projects/%s/repository/commits/%s/diff", url.PathEscape(repoID), commitID)

	var diffs []glDiff

	if err := p.getJSON(ctx, path, nil, &diffs); err != nil {
		return nil
	}

	names := make([]string, 0, len(diffs))

	for _, d := range diffs {
		path := d.NewPath
		if path == "" {
			path = d.OldPath
		}

		if path != "" {
			names = append(names, path)
		}
	}

	return names
}

// distributeStats splits totalAdded/totalDeleted evenly across files
// (integer division, per spec §4.1.b), or emits the synthetic unknown file
// when the diff endpoint returned no paths.
func distributeStats(files []string, totalAdded, totalDeleted int) []model.FileChange {
	if len(files) == 0 {
		return []model.FileChange{{Path: model.UnknownFilePath, Added: totalAdded, Deleted: totalDeleted}}
	}

	perFileAdded := totalAdded / len(files)
	perFileDeleted := totalDeleted / len(files)

	out := make([]model.FileChange, 0, len(files))
	for _, f := range files {
		out = append(out, model.FileChange{Path: f, Added: perFileAdded, Deleted: perFileDeleted})
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

func parseGitLabDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}

	if t, err := time.Parse("2006-01-02T15:04:05.000Z07:00", s); err == nil {
		return t
	}

	return time.Time{}
}

// GetFileContent fetches path at ref via the repository files API.
func (p *Provider) GetFileContent(ctx context.Context, repoID, path, ref string) (string, bool, error) {
	params := url.Values{}
	if ref != "" && ref != "HEAD" {
		params.Set("ref", ref)
	} else {
		params.Set("ref", "HEAD")
	}

	apiPath := fmt.Sprintf("/projects/%s/repository/files/%s/raw", url.PathEscape(repoID), url.PathEscape(path))

	body, err := p.getRaw(ctx, apiPath, params)
	if err != nil {
		return "", false, nil
	}

	return string(body), true, nil
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

func (p *Provider) getPaged(ctx context.Context, path string, params url.Values, out any) error {
	// Each call overwrites out's backing slice via json.Unmarshal into a
	// fresh page, then appends; out must be a *[]T.
	allRaw := make([]json.RawMessage, 0)

	for page := 1; page <= maxPages; page++ {
		pageParams := cloneValues(params)
		pageParams.Set("per_page", strconv.Itoa(perPage))
		pageParams.Set("page", strconv.Itoa(page))

		body, err := p.getRaw(ctx, path, pageParams)
		if err != nil {
			return err
		}

		var pageItems []json.RawMessage
		if err := json.Unmarshal(body, &pageItems); err != nil {
			return fmt.Errorf("decode page %d: %w", page, err)
		}

		allRaw = append(allRaw, pageItems...)

		if len(pageItems) < perPage {
			break
		}
	}

	combined, err := json.Marshal(allRaw)
	if err != nil {
		return fmt.Errorf("re-marshal pages: %w", err)
	}

	if err := json.Unmarshal(combined, out); err != nil {
		return fmt.Errorf("decode combined pages: %w", err)
	}

	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}

	return out
}

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
	reqURL := p.baseURL + "/api/v4" + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gitlab request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gitlab %s returned status %d", path, resp.StatusCode)
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
