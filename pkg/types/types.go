package types

import "strings"

// Baseline is the host metadata emitted by the baseline collector. JSON field
// names follow the collector's PowerShell output.
type Baseline struct {
	OsName            string `json:"OsName"`
	DisplayVersion    string `json:"DisplayVersion"`
	Build             string `json:"Build"`
	Architecture      string `json:"Architecture"`
	IsAdmin           bool   `json:"IsAdmin"`
	LcuMonthID        string `json:"LcuMonthId"`
	MsrcLatestMonthID string `json:"MsrcLatestMonthId"`
	ProductNameHint   string `json:"ProductNameHint"`
}

type UpdateType string

const (
	UpdateTypeStandalone  UpdateType = "Standalone"
	UpdateTypeSuperseding UpdateType = "Superseding"
	UpdateTypeUnmapped    UpdateType = "Unmapped"
)

// KBEntry is the canonical record for one update package. Months, CVEs and
// Supersedes behave as sets: merging never introduces duplicates and never
// removes elements.
type KBEntry struct {
	KB         string     `json:"KB"`
	Months     []string   `json:"Months"`
	CVEs       []string   `json:"Cves"`
	Supersedes []string   `json:"Supersedes"`
	UpdateType UpdateType `json:"UpdateType,omitempty"`
}

type WindowsGen string

const (
	WindowsGenUnknown WindowsGen = ""
	WindowsGen10      WindowsGen = "windows 10"
	WindowsGen11      WindowsGen = "windows 11"
)

type CatalogArch string

const (
	CatalogArchX64   CatalogArch = "x64"
	CatalogArchARM64 CatalogArch = "arm64"
	CatalogArchX86   CatalogArch = "x86"
)

// Constraints are the catalog matching constraints derived once from the
// baseline. They are immutable for the lifetime of one resolution run.
type Constraints struct {
	WindowsGen     WindowsGen
	DisplayVersion string
	BuildMajor     string
	CatalogArch    CatalogArch
}

func NewConstraints(baseline Baseline) Constraints {
	osName := strings.ToLower(baseline.OsName)
	arch := strings.ToLower(baseline.Architecture)

	buildMajor, _, _ := strings.Cut(baseline.Build, ".")

	gen := WindowsGenUnknown
	switch {
	case strings.Contains(osName, "windows 11"):
		gen = WindowsGen11
	case strings.Contains(osName, "windows 10"):
		gen = WindowsGen10
	}

	catalogArch := CatalogArchX64
	switch {
	case arch == "x64" || arch == "amd64":
		catalogArch = CatalogArchX64
	case strings.Contains(arch, "arm64"):
		catalogArch = CatalogArchARM64
	case arch == "x86" || arch == "32-bit":
		catalogArch = CatalogArchX86
	}

	return Constraints{
		WindowsGen:     gen,
		DisplayVersion: strings.TrimSpace(baseline.DisplayVersion),
		BuildMajor:     buildMajor,
		CatalogArch:    catalogArch,
	}
}
