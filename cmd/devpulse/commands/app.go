// Package commands implements the seven devpulse CLI verbs (spec §6): each
// file holds one cobra subcommand, sharing construction of the engine
// (config, observability, provider, reporter.Base) through App. The CLI
// itself — argument parsing, help text — is a thin collaborator over the
// core analysis engine (spec §1 "out of scope"); this package is that
// collaborator, grounded on the teacher's cmd/codefang/commands layout of
// one file per verb plus a shared run configuration.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/devpulse/devpulse/internal/config"
	"github.com/devpulse/devpulse/pkg/observability"
	"github.com/devpulse/devpulse/provider"
	"github.com/devpulse/devpulse/provider/enterprise"
	"github.com/devpulse/devpulse/provider/hostedapi_a"
	"github.com/devpulse/devpulse/provider/hostedapi_b"
	"github.com/devpulse/devpulse/provider/localclone"
	"github.com/devpulse/devpulse/pkg/model"
	"github.com/devpulse/devpulse/pkg/version"
	"github.com/devpulse/devpulse/reporter"
)

func versionString() string {
	return version.Version
}

// defaultConfigPath is tried when --config is not given.
const defaultConfigPath = "devpulse.yaml"

// App is the shared engine every subcommand builds from a loaded Config:
// one Provider (wrapped in an LRU commit cache) serving every configured
// repository, an observability.Providers bundle, and a reporter.Base ready
// to hand to Daily/Weekly/Monthly.
type App struct {
	Cfg        *config.Config
	Obs        observability.Providers
	Metrics    *observability.AnalysisMetrics
	Provider   provider.Provider
	Cache      *provider.Cache
	Base       *reporter.Base
	OutputRoot string
}

// NewApp loads configPath (falling back to defaultConfigPath, then to pure
// defaults when that file does not exist), constructs the configured Provider, and wires the
// observability stack. Configuration and provider-construction failures
// are fatal (spec §7 kind 1) and returned as-is; the caller decides the
// process exit code.
func NewApp(configPath, outputRoot string) (*App, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Load("")
	}

	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = versionString()
	obsCfg.Mode = observability.ModeCLI

	obs, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewAnalysisMetrics(obs.Meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("construct provider for platform %s: %w", cfg.Git.Platform, err)
	}

	cached := provider.NewCache(prov, provider.DefaultCacheEntries)

	cacheName := string(cfg.Git.Platform)
	if err := observability.RegisterCacheMetrics(obs.Meter, map[string]observability.CacheStatsProvider{cacheName: cached}); err != nil {
		return nil, fmt.Errorf("register cache metrics: %w", err)
	}

	base := &reporter.Base{
		ProjectName:  cfg.Project.Name,
		Sources:      buildSources(cfg, cached),
		Thresholds:   cfg.Thresholds,
		WorkingHours: cfg.WorkingHours,
		Logger:       obs.Logger,
		Tracer:       obs.Tracer,
		Metrics:      metrics,
	}

	if outputRoot == "" {
		outputRoot = "."
	}

	return &App{
		Cfg:        cfg,
		Obs:        obs,
		Metrics:    metrics,
		Provider:   cached,
		Cache:      cached,
		Base:       base,
		OutputRoot: outputRoot,
	}, nil
}

// cacheStats returns the provider commit-cache's cumulative hit/miss
// counts, or (0, 0) if the App has no cache (should not happen outside of
// tests that construct an App by hand).
func (a *App) cacheStats() (hits, misses int64) {
	if a.Cache == nil {
		return 0, 0
	}

	return a.Cache.CacheHits(), a.Cache.CacheMisses()
}

// recordRun records run-level metrics for one completed report-generation
// pass: commits ingested, repositories fetched, the provider cache's
// hit/miss delta since (hitsBefore, missBefore), and total bytes written.
func (a *App) recordRun(ctx context.Context, stats reporter.Stats, hitsBefore, missBefore, reportBytes int64) {
	hitsAfter, missAfter := a.cacheStats()

	a.Metrics.RecordRun(ctx, observability.RunStats{
		Commits:          int64(stats.Commits),
		ReposFetched:     stats.Repos,
		ProviderCacheHit: hitsAfter - hitsBefore,
		ProviderCacheMis: missAfter - missBefore,
		ReportBytes:      reportBytes,
	})
}

// Close releases the provider's scoped resources and flushes the
// observability stack. Always call via defer right after NewApp succeeds.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cleanupErr := a.Provider.Cleanup()
	shutdownErr := a.Obs.Shutdown(ctx)

	if cleanupErr != nil {
		return fmt.Errorf("provider cleanup: %w", cleanupErr)
	}

	if shutdownErr != nil {
		return fmt.Errorf("observability shutdown: %w", shutdownErr)
	}

	return nil
}

// Logger is a convenience accessor for the run's structured logger.
func (a *App) Logger() *slog.Logger {
	return a.Obs.Logger
}

// buildProvider constructs the single Provider instance matching
// cfg.Git.Platform (spec §6 git.platform). internal/config.Validate has
// already rejected an unknown platform or missing credentials before this
// runs, so the default case here is unreachable in a validated Config.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Git.Platform {
	case config.PlatformHostedA:
		return hostedapi_a.New(hostedapi_a.Config{
			Token: cfg.Git.Token,
			Org:   cfg.Git.Org,
		}), nil

	case config.PlatformHostedB:
		return hostedapi_b.New(hostedapi_b.Config{
			Token:   cfg.Git.Token,
			BaseURL: cfg.Git.BaseURL,
			Group:   cfg.Git.Org,
		}), nil

	case config.PlatformEnterprise:
		return enterprise.New(enterprise.Config{
			Token:   cfg.Git.Token,
			BaseURL: cfg.Git.BaseURL,
			OrgID:   cfg.Git.EnterpriseOrgID,
			Project: cfg.Git.EnterpriseProject,
		}), nil

	case config.PlatformLocalClone:
		return localclone.New(localclone.Config{
			Token:        cfg.Git.Token,
			Repositories: modelRepositories(cfg.Repositories),
		})

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPlatform, cfg.Git.Platform)
	}
}

// buildSources binds every configured repository (spec §6 repositories[])
// to prov, the explicit scope every platform fetches against — LocalClone
// has no remote enumeration endpoint at all, and the hosted dialects' own
// ListRepositories is reserved for interactive discovery rather than the
// report-generation path.
func buildSources(cfg *config.Config, prov provider.Provider) []reporter.RepoSource {
	sources := make([]reporter.RepoSource, 0, len(cfg.Repositories))

	for _, repo := range modelRepositories(cfg.Repositories) {
		sources = append(sources, reporter.RepoSource{Repo: repo, Provider: prov})
	}

	return sources
}

func modelRepositories(cfgRepos []config.RepositoryConfig) []model.Repository {
	repos := make([]model.Repository, 0, len(cfgRepos))

	for _, r := range cfgRepos {
		id := r.ID
		if id == "" {
			id = r.Name
		}

		repos = append(repos, model.Repository{
			ID:            id,
			DisplayName:   r.Name,
			CloneURL:      r.URL,
			DefaultBranch: r.MainBranch,
			Type:          parseRepoType(r.Type),
		})
	}

	return repos
}

func parseRepoType(s string) model.RepoType {
	switch model.RepoType(s) {
	case model.RepoTypeJava, model.RepoTypePython, model.RepoTypeWebFrontend,
		model.RepoTypeMobile, model.RepoTypeInfra:
		return model.RepoType(s)
	default:
		return model.RepoTypeUnknown
	}
}
