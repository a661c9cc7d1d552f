package types

import "time"

// ScanResult is the persisted contract between the scan stage and the
// download stage.
type ScanResult struct {
	JSONVersion int    `json:"JsonVersion"`
	ScanID      string `json:"ScanId"`

	Baseline          Baseline  `json:"Baseline"`
	InstalledKBs      []string  `json:"InstalledKbs"`
	MonthsRequested   []string  `json:"MonthsRequested"`
	MonthsWithEntries []string  `json:"MonthsWithEntries"`
	KBEntries         []KBEntry `json:"KbEntries"`
	MissingKBs        []string  `json:"MissingKbs"`

	ScannedAt time.Time `json:"ScannedAt"`
	ScannedBy string    `json:"ScannedBy"`
}
