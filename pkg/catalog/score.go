package catalog

import (
	"regexp"
	"strings"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// Scoring policy. The weights, the rule order and the confidence threshold
// are fixed constants deliberately kept identical to the operator-tuned
// values; do not re-tune.
const (
	HardExclusionScore  = -10000
	ConfidenceThreshold = 90
)

var (
	yearHalfPattern   = regexp.MustCompile(`\b\d{2}h[12]\b`)
	buildMajorPattern = regexp.MustCompile(`\(\s*(\d{5})\.`)
)

// scoreRule evaluates one constraint against a lowercased candidate title.
// Rules run in declaration order; a rule reporting exclude stops evaluation
// with a hard exclusion. Later rules rely on earlier ones having filtered
// obviously-wrong rows, so the order is load-bearing.
type scoreRule struct {
	name  string
	apply func(title, kbID string, c types.Constraints) (delta int, exclude bool)
}

var scoreRules = []scoreRule{
	{
		name: "kb in title",
		apply: func(title, kbID string, _ types.Constraints) (int, bool) {
			if !strings.Contains(title, kbID) {
				return 0, true
			}
			return 50, false
		},
	},
	{
		name: "windows generation",
		apply: func(title, _ string, c types.Constraints) (int, bool) {
			if c.WindowsGen == types.WindowsGenUnknown {
				return 0, false
			}

			other := types.WindowsGen11
			if c.WindowsGen == types.WindowsGen11 {
				other = types.WindowsGen10
			}
			if strings.Contains(title, string(other)) {
				return 0, true
			}

			if strings.Contains(title, string(c.WindowsGen)) {
				return 40, false
			}
			return 0, false
		},
	},
	{
		name: "server edition",
		apply: func(title, _ string, c types.Constraints) (int, bool) {
			if c.WindowsGen != types.WindowsGenUnknown && strings.Contains(title, "server") {
				return 0, true
			}
			return 0, false
		},
	},
	{
		name: "architecture",
		apply: func(title, _ string, c types.Constraints) (int, bool) {
			var competing, matching []string
			switch c.CatalogArch {
			case types.CatalogArchX64:
				competing = []string{"arm64-based", "x86-based", "32-bit"}
				matching = []string{"x64-based"}
			case types.CatalogArchARM64:
				competing = []string{"x64-based", "x86-based", "32-bit"}
				matching = []string{"arm64-based"}
			case types.CatalogArchX86:
				competing = []string{"x64-based", "arm64-based"}
				matching = []string{"x86-based", "32-bit"}
			}

			for _, marker := range competing {
				if strings.Contains(title, marker) {
					return 0, true
				}
			}
			for _, marker := range matching {
				if strings.Contains(title, marker) {
					return 25, false
				}
			}
			return 0, false
		},
	},
	{
		name: "display version",
		apply: func(title, _ string, c types.Constraints) (int, bool) {
			dv := strings.ToLower(c.DisplayVersion)
			if dv == "" {
				return 0, false
			}

			delta := 0
			if strings.Contains(title, dv) {
				delta += 25
			} else if yearHalfPattern.MatchString(title) {
				// A year+half token that disagrees with the known display
				// version is weak evidence, so penalize instead of excluding.
				delta -= 15
			}
			return delta, false
		},
	},
	{
		name: "build major",
		apply: func(title, _ string, c types.Constraints) (int, bool) {
			if c.BuildMajor == "" {
				return 0, false
			}

			m := buildMajorPattern.FindStringSubmatch(title)
			if m == nil {
				return 0, false
			}
			if m[1] == c.BuildMajor {
				return 10, false
			}
			return -5, false
		},
	},
}

// Score rates one catalog candidate against the host constraints. Any value
// below zero means the candidate is excluded and never selectable.
func Score(candidate Candidate, kbID string, c types.Constraints) int {
	title := strings.ToLower(candidate.Title)
	kb := strings.ToLower(kbID)

	score := 0
	for _, rule := range scoreRules {
		delta, exclude := rule.apply(title, kb, c)
		if exclude {
			return HardExclusionScore
		}
		score += delta
	}
	return score
}
