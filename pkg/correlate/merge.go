package correlate

import (
	"slices"
	"strings"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// Merge folds a batch of partial KB records into the accumulator. Each of the
// three array fields is unioned with set semantics; nothing is ever removed.
// Incoming records are not modified.
func Merge(acc map[string]*types.KBEntry, incoming []types.KBEntry) {
	for _, entry := range incoming {
		if entry.KB == "" {
			continue
		}

		target, ok := acc[entry.KB]
		if !ok {
			target = &types.KBEntry{KB: entry.KB}
			acc[entry.KB] = target
		}

		target.Months = union(target.Months, entry.Months)
		target.CVEs = union(target.CVEs, entry.CVEs)
		target.Supersedes = union(target.Supersedes, entry.Supersedes)
	}
}

// Finalize sorts each record's sets, assigns the classification and returns
// the canonical records ordered by KB. The accumulator must not be merged
// into afterwards.
func Finalize(acc map[string]*types.KBEntry) []types.KBEntry {
	entries := make([]types.KBEntry, 0, len(acc))
	for _, e := range acc {
		entry := *e
		slices.Sort(entry.Months)
		slices.Sort(entry.CVEs)
		slices.Sort(entry.Supersedes)

		entry.UpdateType = types.UpdateTypeStandalone
		if len(entry.Supersedes) > 0 {
			entry.UpdateType = types.UpdateTypeSuperseding
		}

		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b types.KBEntry) int {
		return strings.Compare(a.KB, b.KB)
	})

	return entries
}

func union(dst, src []string) []string {
	for _, v := range src {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
