package correlate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/correlate"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

func TestReport(t *testing.T) {
	type args struct {
		entries        []types.KBEntry
		installed      []string
		logicalPresent map[string]struct{}
		supersededBy   map[string][]string
	}
	tests := []struct {
		name string
		args args
		want []correlate.Row
	}{
		{
			name: "installed wins over superseded, superseded wins over missing",
			args: args{
				entries: []types.KBEntry{
					{KB: "KB1", UpdateType: types.UpdateTypeStandalone, Months: []string{"2024-Jan"}, CVEs: []string{"CVE-2024-0001"}},
					{KB: "KB2", UpdateType: types.UpdateTypeSuperseding, Months: []string{"2024-Feb"}},
					{KB: "KB3", UpdateType: types.UpdateTypeStandalone, Months: []string{"2024-Mar"}},
				},
				installed:      []string{"KB2"},
				logicalPresent: map[string]struct{}{"KB1": {}, "KB2": {}},
				supersededBy:   map[string][]string{"KB1": {"KB2"}},
			},
			want: []correlate.Row{
				{KB: "KB1", UpdateType: types.UpdateTypeStandalone, Status: correlate.StatusSuperseded, SupersededBy: []string{"KB2"}, Months: []string{"2024-Jan"}, CVEs: []string{"CVE-2024-0001"}},
				{KB: "KB2", UpdateType: types.UpdateTypeSuperseding, Status: correlate.StatusInstalled, Months: []string{"2024-Feb"}},
				{KB: "KB3", UpdateType: types.UpdateTypeStandalone, Status: correlate.StatusMissing, Months: []string{"2024-Mar"}},
			},
		},
		{
			name: "identifier without catalog record is unmapped",
			args: args{
				entries:        []types.KBEntry{{KB: "KB1", UpdateType: types.UpdateTypeStandalone}},
				installed:      []string{"KB9"},
				logicalPresent: map[string]struct{}{"KB9": {}},
				supersededBy:   map[string][]string{},
			},
			want: []correlate.Row{
				{KB: "KB1", UpdateType: types.UpdateTypeStandalone, Status: correlate.StatusMissing},
				{KB: "KB9", UpdateType: types.UpdateTypeUnmapped, Status: correlate.StatusInstalled},
			},
		},
		{
			name: "superseded without recorded roots keeps empty label",
			args: args{
				entries:        []types.KBEntry{{KB: "KB1", UpdateType: types.UpdateTypeStandalone}},
				installed:      nil,
				logicalPresent: map[string]struct{}{"KB1": {}},
				supersededBy:   map[string][]string{},
			},
			want: []correlate.Row{
				{KB: "KB1", UpdateType: types.UpdateTypeStandalone, Status: correlate.StatusSuperseded},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := correlate.Report(tt.args.entries, tt.args.installed, tt.args.logicalPresent, tt.args.supersededBy)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Report() (-expected +got):\n%s", diff)
			}
		})
	}
}
