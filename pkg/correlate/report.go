package correlate

import (
	"slices"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

type Status string

const (
	StatusInstalled  Status = "Installed"
	StatusSuperseded Status = "Superseded"
	StatusMissing    Status = "Missing"
)

// Row is one correlation report line. KBs that appear only in the installed
// or logical presence sets carry no catalog record and are typed Unmapped.
type Row struct {
	KB           string
	UpdateType   types.UpdateType
	Status       Status
	SupersededBy []string
	Months       []string
	CVEs         []string
}

// Report classifies every KB known to this scan, ordered by KB. Status
// precedence: Installed, then Superseded, then Missing.
func Report(entries []types.KBEntry, installed []string, logicalPresent map[string]struct{}, supersededBy map[string][]string) []Row {
	index := make(map[string]types.KBEntry, len(entries))
	for _, entry := range entries {
		if entry.KB != "" {
			index[entry.KB] = entry
		}
	}

	all := make(map[string]struct{}, len(index)+len(installed)+len(logicalPresent))
	for kb := range index {
		all[kb] = struct{}{}
	}
	for _, kb := range installed {
		all[kb] = struct{}{}
	}
	for kb := range logicalPresent {
		all[kb] = struct{}{}
	}

	kbs := make([]string, 0, len(all))
	for kb := range all {
		kbs = append(kbs, kb)
	}
	slices.Sort(kbs)

	rows := make([]Row, 0, len(kbs))
	for _, kb := range kbs {
		row := Row{KB: kb, UpdateType: types.UpdateTypeUnmapped}
		if entry, ok := index[kb]; ok {
			row.UpdateType = entry.UpdateType
			row.Months = entry.Months
			row.CVEs = entry.CVEs
		}

		switch {
		case slices.Contains(installed, kb):
			row.Status = StatusInstalled
		default:
			if _, ok := logicalPresent[kb]; ok {
				row.Status = StatusSuperseded
				row.SupersededBy = supersededBy[kb]
			} else {
				row.Status = StatusMissing
			}
		}

		rows = append(rows, row)
	}

	return rows
}
