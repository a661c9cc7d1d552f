package catalog_test

import (
	"testing"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/catalog"
	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

func TestScore(t *testing.T) {
	constraints := types.Constraints{
		WindowsGen:     types.WindowsGen11,
		DisplayVersion: "23H2",
		BuildMajor:     "22631",
		CatalogArch:    types.CatalogArchX64,
	}

	type args struct {
		candidate catalog.Candidate
		kbID      string
		c         types.Constraints
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{
			name: "title without the target KB is hard excluded",
			args: args{
				candidate: catalog.Candidate{Title: "2024-01 Cumulative Update for Windows 11 Version 23H2 for x64-based Systems (KB5033999)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: catalog.HardExclusionScore,
		},
		{
			name: "kb, generation and architecture match",
			args: args{
				candidate: catalog.Candidate{Title: "Cumulative Update for Windows 11 for x64-based Systems (KB5034123)"},
				kbID:      "KB5034123",
				c: types.Constraints{
					WindowsGen:  types.WindowsGen11,
					CatalogArch: types.CatalogArchX64,
				},
			},
			want: 115,
		},
		{
			name: "opposite generation is hard excluded",
			args: args{
				candidate: catalog.Candidate{Title: "2024-01 Cumulative Update for Windows 10 Version 22H2 for x64-based Systems (KB5034123)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: catalog.HardExclusionScore,
		},
		{
			name: "server edition is hard excluded for a desktop generation",
			args: args{
				candidate: catalog.Candidate{Title: "2024-01 Cumulative Update for Microsoft server operating system (KB5034123)"},
				kbID:      "KB5034123",
				c: types.Constraints{
					WindowsGen:  types.WindowsGen10,
					CatalogArch: types.CatalogArchX64,
				},
			},
			want: catalog.HardExclusionScore,
		},
		{
			name: "competing architecture is hard excluded",
			args: args{
				candidate: catalog.Candidate{Title: "Cumulative Update for Windows 11 Version 23H2 for arm64-based Systems (KB5034123)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: catalog.HardExclusionScore,
		},
		{
			name: "full match with display version and build major",
			args: args{
				candidate: catalog.Candidate{Title: "2024-01 Cumulative Update for Windows 11 Version 23H2 for x64-based Systems (KB5034123) (22631.3007)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: 50 + 40 + 25 + 25 + 10,
		},
		{
			name: "mismatching year half pattern is a soft penalty",
			args: args{
				candidate: catalog.Candidate{Title: "Cumulative Update for Windows 11 Version 22H2 for x64-based Systems (KB5034123)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: 50 + 40 + 25 - 15,
		},
		{
			name: "mismatching build major is a soft penalty",
			args: args{
				candidate: catalog.Candidate{Title: "Cumulative Update for Windows 11 Version 23H2 for x64-based Systems (KB5034123) (22621.3007)"},
				kbID:      "KB5034123",
				c:         constraints,
			},
			want: 50 + 40 + 25 + 25 - 5,
		},
		{
			name: "x86 constraint matches 32-bit marker",
			args: args{
				candidate: catalog.Candidate{Title: "Cumulative Update for Windows 10 for 32-bit Systems (KB5034123)"},
				kbID:      "KB5034123",
				c: types.Constraints{
					WindowsGen:  types.WindowsGen10,
					CatalogArch: types.CatalogArchX86,
				},
			},
			want: 115,
		},
		{
			name: "unknown generation scores architecture only",
			args: args{
				candidate: catalog.Candidate{Title: "Some Update for x64-based Systems (KB5034123)"},
				kbID:      "KB5034123",
				c: types.Constraints{
					CatalogArch: types.CatalogArchX64,
				},
			},
			want: 75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := catalog.Score(tt.args.candidate, tt.args.kbID, tt.args.c); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}
