package correlate

import (
	"slices"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// Resolve expands the installed KB set into the logical presence set by
// walking the supersedes relation from every installed root. The second
// return value maps each transitively superseded KB to the sorted installed
// roots that satisfy it.
//
// The relation may contain cycles; traversal uses an explicit stack with a
// per-root visited set, so it terminates on arbitrary input. The walk never
// raises: callers interpret the returned sets.
func Resolve(entries []types.KBEntry, installed []string) (map[string]struct{}, map[string][]string) {
	supersedes := make(map[string][]string, len(entries))
	for _, entry := range entries {
		if entry.KB == "" {
			continue
		}
		supersedes[entry.KB] = append(supersedes[entry.KB], entry.Supersedes...)
	}

	logicalPresent := make(map[string]struct{}, len(installed))
	for _, kb := range installed {
		logicalPresent[kb] = struct{}{}
	}

	supersededBy := map[string][]string{}

	for _, root := range installed {
		stack := []string{root}
		seen := map[string]struct{}{root: {}}

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, old := range supersedes[current] {
				logicalPresent[old] = struct{}{}
				if !slices.Contains(supersededBy[old], root) {
					supersededBy[old] = append(supersededBy[old], root)
				}
				if _, ok := seen[old]; !ok {
					seen[old] = struct{}{}
					stack = append(stack, old)
				}
			}
		}
	}

	for kb := range supersededBy {
		slices.Sort(supersededBy[kb])
	}

	return logicalPresent, supersededBy
}

// Missing returns the sorted KBs known to the catalog but not logically
// present on the host.
func Missing(entries []types.KBEntry, logicalPresent map[string]struct{}) []string {
	var missing []string
	for _, entry := range entries {
		if _, ok := logicalPresent[entry.KB]; !ok {
			missing = append(missing, entry.KB)
		}
	}
	slices.Sort(missing)
	return missing
}
