// Package config loads the devpulse run configuration: project identity,
// provider credentials/scope, analyzer thresholds, working-hours windows,
// hotspot exclusion rules, the repository list, and the web base URL used
// in notification deep-links (spec §6).
package config

// Config is the root configuration, decoded by viper from a YAML/JSON/TOML
// file, environment variable aliases, and defaults; an environment value
// overrides the file's value, which overrides the default.
type Config struct {
	Project      ProjectConfig      `mapstructure:"project"`
	Git          GitConfig          `mapstructure:"git"`
	Thresholds   ThresholdsConfig   `mapstructure:"thresholds"`
	WorkingHours WorkingHoursConfig `mapstructure:"working_hours"`
	Analysis     AnalysisConfig     `mapstructure:"analysis"`
	Repositories []RepositoryConfig `mapstructure:"repositories"`
	Web          WebConfig          `mapstructure:"web"`
}

// ProjectConfig identifies the project for report titles and notification
// banners.
type ProjectConfig struct {
	Name string `mapstructure:"name"`
}

// Platform selects a Provider implementation.
type Platform string

const (
	PlatformHostedA    Platform = "hostedA"
	PlatformHostedB    Platform = "hostedB"
	PlatformEnterprise Platform = "enterprise"
	PlatformLocalClone Platform = "localClone"
)

// GitConfig carries the credentials and scope needed to construct whichever
// Provider Platform selects. Not every field applies to every platform; see
// provider/{hostedapi_a,hostedapi_b,enterprise,localclone} for which fields
// each dialect reads.
type GitConfig struct {
	Platform          Platform `mapstructure:"platform"`
	Token             string   `mapstructure:"token"`
	Org               string   `mapstructure:"org"`
	BaseURL           string   `mapstructure:"base_url"`
	EnterpriseOrgID   string   `mapstructure:"enterprise_org_id"`
	EnterpriseProject string   `mapstructure:"enterprise_project"`
}

// ThresholdsConfig holds every numeric constant the analyzers read (spec §6
// thresholds.*).
type ThresholdsConfig struct {
	LargeCommit           int     `mapstructure:"large_commit"`
	TinyCommit            int     `mapstructure:"tiny_commit"`
	ChurnDays             int     `mapstructure:"churn_days"`
	ChurnCount            int     `mapstructure:"churn_count"`
	ChurnRateWarning      float64 `mapstructure:"churn_rate_warning"`
	ChurnRateDanger       float64 `mapstructure:"churn_rate_danger"`
	ReworkAddDays         int     `mapstructure:"rework_add_days"`
	ReworkDeleteDays      int     `mapstructure:"rework_delete_days"`
	ReworkRateWarning     float64 `mapstructure:"rework_rate_warning"`
	ReworkRateDanger      float64 `mapstructure:"rework_rate_danger"`
	HotspotDays           int     `mapstructure:"hotspot_days"`
	HotspotCount          int     `mapstructure:"hotspot_count"`
	LargeFile             int     `mapstructure:"large_file"`
	MultiAuthorCount      int     `mapstructure:"multi_author_count"`
	HealthScoreExcellent  int     `mapstructure:"health_score_excellent"`
	HealthScoreGood       int     `mapstructure:"health_score_good"`
	HealthScoreWarning    int     `mapstructure:"health_score_warning"`
}

// WorkingHoursConfig holds the hour-of-day windows used by the work-time
// classifier. Values are "HH:MM" strings; LateNightStart/End may cross
// midnight (spec §4.2.f, §9).
type WorkingHoursConfig struct {
	NormalStart    string `mapstructure:"normal_start"`
	NormalEnd      string `mapstructure:"normal_end"`
	OvertimeStart  string `mapstructure:"overtime_start"`
	OvertimeEnd    string `mapstructure:"overtime_end"`
	LateNightStart string `mapstructure:"late_night_start"`
	LateNightEnd   string `mapstructure:"late_night_end"`
}

// AnalysisConfig holds the glob-like path filters HotspotAnalyzer applies
// before scoring.
type AnalysisConfig struct {
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	ExcludeDirs     []string `mapstructure:"exclude_dirs"`
}

// RepositoryConfig is one statically configured repository (spec §6
// repositories[]).
type RepositoryConfig struct {
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
	Type        string `mapstructure:"type"`
	MainBranch  string `mapstructure:"main_branch"`
	ID          string `mapstructure:"id"`
}

// WebConfig holds the absolute URL prefix used in notification deep-links.
type WebConfig struct {
	BaseURL string `mapstructure:"base_url"`
}
