package provider

import "strings"

// Filter is the allow-list shared by every Provider's ListRepositories: a
// repository is kept when it matches any non-empty rule, or when no rule is
// configured at all. Archived repositories are always dropped unless
// IncludeArchived is set.
type Filter struct {
	Names           []string // exact match, case-sensitive.
	URLs            []string // exact match after stripping a trailing ".git".
	IDs             []string // exact match.
	NamespacePrefix string   // case-insensitive substring of "/{prefix}/" in the path.
	IncludeArchived bool
}

// Candidate is the subset of repository identity Filter needs to decide
// membership, independent of any single provider's wire format.
type Candidate struct {
	ID       string
	Name     string
	Path     string
	URL      string
	Archived bool
}

// Allows reports whether c passes f. An empty Filter allows everything
// non-archived.
func (f Filter) Allows(c Candidate) bool {
	if c.Archived && !f.IncludeArchived {
		return false
	}

	if len(f.Names) == 0 && len(f.URLs) == 0 && len(f.IDs) == 0 && f.NamespacePrefix == "" {
		return true
	}

	for _, id := range f.IDs {
		if id == c.ID {
			return true
		}
	}

	for _, name := range f.Names {
		if name == c.Name || name == c.Path {
			return true
		}
	}

	normalizedURL := strings.TrimSuffix(c.URL, ".git")

	for _, u := range f.URLs {
		if strings.TrimSuffix(u, ".git") == normalizedURL {
			return true
		}
	}

	if f.NamespacePrefix != "" {
		needle := "/" + strings.ToLower(f.NamespacePrefix) + "/"
		if strings.Contains("/"+strings.ToLower(c.Path)+"/", needle) {
			return true
		}
	}

	return false
}

// ApplyFilter keeps only the candidates f.Allows, preserving order.
func ApplyFilter[T any](items []T, f Filter, toCandidate func(T) Candidate) []T {
	var kept []T

	for _, item := range items {
		if f.Allows(toCandidate(item)) {
			kept = append(kept, item)
		}
	}

	return kept
}
