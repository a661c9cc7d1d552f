package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewConstraints(t *testing.T) {
	tests := []struct {
		name     string
		baseline Baseline
		want     Constraints
	}{
		{
			name: "windows 11 x64",
			baseline: Baseline{
				OsName:         "Microsoft Windows 11 Pro",
				DisplayVersion: "23H2",
				Build:          "22631.3007",
				Architecture:   "x64",
			},
			want: Constraints{
				WindowsGen:     WindowsGen11,
				DisplayVersion: "23H2",
				BuildMajor:     "22631",
				CatalogArch:    CatalogArchX64,
			},
		},
		{
			name: "windows 10 amd64",
			baseline: Baseline{
				OsName:         "Microsoft Windows 10 Enterprise",
				DisplayVersion: "22H2",
				Build:          "19045.3930",
				Architecture:   "AMD64",
			},
			want: Constraints{
				WindowsGen:     WindowsGen10,
				DisplayVersion: "22H2",
				BuildMajor:     "19045",
				CatalogArch:    CatalogArchX64,
			},
		},
		{
			name: "arm64",
			baseline: Baseline{
				OsName:         "Microsoft Windows 11 Home",
				DisplayVersion: "23H2",
				Build:          "22631.3007",
				Architecture:   "ARM64-based PC",
			},
			want: Constraints{
				WindowsGen:     WindowsGen11,
				DisplayVersion: "23H2",
				BuildMajor:     "22631",
				CatalogArch:    CatalogArchARM64,
			},
		},
		{
			name: "32-bit",
			baseline: Baseline{
				OsName:         "Microsoft Windows 10 Pro",
				DisplayVersion: "22H2",
				Build:          "19045.3930",
				Architecture:   "32-bit",
			},
			want: Constraints{
				WindowsGen:     WindowsGen10,
				DisplayVersion: "22H2",
				BuildMajor:     "19045",
				CatalogArch:    CatalogArchX86,
			},
		},
		{
			name: "server os falls back to unknown generation and x64",
			baseline: Baseline{
				OsName:         "Microsoft Windows Server 2022 Standard",
				DisplayVersion: "21H2",
				Build:          "20348.2227",
				Architecture:   "",
			},
			want: Constraints{
				WindowsGen:     WindowsGenUnknown,
				DisplayVersion: "21H2",
				BuildMajor:     "20348",
				CatalogArch:    CatalogArchX64,
			},
		},
		{
			name: "display version trimmed",
			baseline: Baseline{
				OsName:         "Microsoft Windows 11 Pro",
				DisplayVersion: " 23H2 ",
				Build:          "22631.3007",
				Architecture:   "x64",
			},
			want: Constraints{
				WindowsGen:     WindowsGen11,
				DisplayVersion: "23H2",
				BuildMajor:     "22631",
				CatalogArch:    CatalogArchX64,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NewConstraints(tt.baseline)); diff != "" {
				t.Errorf("NewConstraints(). (-expected +got):\n%s", diff)
			}
		})
	}
}
