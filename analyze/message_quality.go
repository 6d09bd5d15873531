package analyze

import (
	"regexp"

	"github.com/devpulse/devpulse/pkg/model"
)

// conventionalPrefix matches a conventional-commit type, an optional
// parenthesized scope, then a colon, e.g. "feat(parser): add support".
var conventionalPrefix = regexp.MustCompile(`^(feat|fix|refactor|docs|test|chore|style|perf)(\([^)]*\))?:`)

const minGoodMessageLength = 10

// MessageQuality is the percentage of commits whose message is "good": it
// either matches conventionalPrefix or is at least minGoodMessageLength
// characters. An empty commit set yields 100.
func MessageQuality(commits []model.Commit) float64 {
	if len(commits) == 0 {
		return 100
	}

	good := 0

	for _, c := range commits {
		if isGoodMessage(c.Message) {
			good++
		}
	}

	return float64(good) / float64(len(commits)) * 100
}

func isGoodMessage(msg string) bool {
	if conventionalPrefix.MatchString(msg) {
		return true
	}

	return len(msg) >= minGoodMessageLength
}
