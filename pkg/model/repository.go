package model

// RepoType classifies a repository's primary technology, inferred by each
// provider from whatever signal it has available (upstream language field,
// name/path heuristics, or file extensions for LocalClone).
type RepoType string

const (
	RepoTypeJava        RepoType = "java"
	RepoTypePython      RepoType = "python"
	RepoTypeWebFrontend RepoType = "web-frontend"
	RepoTypeMobile      RepoType = "mobile"
	RepoTypeInfra       RepoType = "infra"
	RepoTypeUnknown     RepoType = "unknown"
)

// Repository describes one repository as enumerated by a provider. Id is
// opaque and unique only within that provider; it is not comparable across
// providers.
type Repository struct {
	ID            string
	DisplayName   string
	CloneURL      string
	DefaultBranch string
	Type          RepoType
	Archived      bool
}
