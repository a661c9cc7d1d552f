package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const searchResultsHTML = `
<html><body>
<table id="ctl00_catalogBody_updateMatches">
<tr id="headerRow">
<td></td><td>Title</td><td>Products</td><td>Classification</td><td>Last Updated</td><td>Version</td><td>Size</td><td></td>
</tr>
<tr id="8b14e4f0-48d6-446e-ac6a-d03a2a087e75_R1">
<td></td>
<td>2024-01 Cumulative Update for Windows 11 Version 23H2 for x64-based Systems (KB5034123)</td>
<td>Windows 11</td>
<td>Security Updates</td>
<td>1/9/2024</td>
<td>n/a</td>
<td>633.5 MB</td>
<td><input type="button"/></td>
</tr>
<tr id="not-an-update-id_R2">
<td></td><td>bogus</td><td></td><td></td><td></td><td></td><td></td><td></td>
</tr>
<tr id="5d4f24a4-2a36-4c08-aa6b-54b5729c2c29_R3">
<td></td>
<td>2024-01 Cumulative Update for Windows 10 Version 22H2 for x86-based Systems (KB5034122)</td>
<td>Windows 10</td>
<td>Security Updates</td>
<td>1/9/2024</td>
<td>n/a</td>
<td>330.1 MB</td>
<td><input type="button"/></td>
</tr>
</table>
</body></html>`

func TestClient_Search(t *testing.T) {
	type args struct {
		kbID string
	}
	tests := []struct {
		name    string
		args    args
		handler http.HandlerFunc
		want    []Candidate
		wantErr bool
	}{
		{
			name: "happy",
			args: args{kbID: "KB5034123"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("q"); got != "KB5034123" {
					http.Error(w, fmt.Sprintf("unexpected query: %s", got), http.StatusBadRequest)
					return
				}
				fmt.Fprint(w, searchResultsHTML)
			},
			want: []Candidate{
				{
					UpdateID:       "8b14e4f0-48d6-446e-ac6a-d03a2a087e75",
					Title:          "2024-01 Cumulative Update for Windows 11 Version 23H2 for x64-based Systems (KB5034123)",
					Products:       "Windows 11",
					Classification: "Security Updates",
					LastUpdated:    "1/9/2024",
					Version:        "n/a",
					Size:           "633.5 MB",
				},
				{
					UpdateID:       "5d4f24a4-2a36-4c08-aa6b-54b5729c2c29",
					Title:          "2024-01 Cumulative Update for Windows 10 Version 22H2 for x86-based Systems (KB5034122)",
					Products:       "Windows 10",
					Classification: "Security Updates",
					LastUpdated:    "1/9/2024",
					Version:        "n/a",
					Size:           "330.1 MB",
				},
			},
		},
		{
			name: "no results table",
			args: args{kbID: "KB0000000"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html><body>We did not find any results</body></html>")
			},
			want: nil,
		},
		{
			name: "server error",
			args: args{kbID: "KB5034123"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "catalog down", http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got, err := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).Search(context.Background(), tt.args.kbID)
			if (err != nil) != tt.wantErr {
				t.Errorf("Search() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search(). (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestClient_DownloadURLs(t *testing.T) {
	type args struct {
		updateID string
	}
	tests := []struct {
		name    string
		args    args
		body    string
		want    []string
		wantErr bool
	}{
		{
			name: "happy",
			args: args{updateID: "8b14e4f0-48d6-446e-ac6a-d03a2a087e75"},
			body: strings.Join([]string{
				`downloadInformation[0].files[0].url = "https://catalog.s.download.windowsupdate.com/d/msdownload/update/software/secu/2024/01/windows11.0-kb5034123-x64_abc.msu";`,
				`downloadInformation[0].files[0].url = "https://catalog.s.download.windowsupdate.com/d/msdownload/update/software/secu/2024/01/windows11.0-kb5034123-x64_abc.msu";`,
				`downloadInformation[0].files[1].url = "https://catalog.s.download.windowsupdate.com/c/upgr/2024/01/ssu-22621.1_def.cab";`,
			}, "\n"),
			want: []string{
				"https://catalog.s.download.windowsupdate.com/d/msdownload/update/software/secu/2024/01/windows11.0-kb5034123-x64_abc.msu",
				"https://catalog.s.download.windowsupdate.com/c/upgr/2024/01/ssu-22621.1_def.cab",
			},
		},
		{
			name: "no package urls",
			args: args{updateID: "8b14e4f0-48d6-446e-ac6a-d03a2a087e75"},
			body: `<html><body>no files</body></html>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Query().Get("updateIDs"), tt.args.updateID) {
					http.Error(w, "unexpected updateIDs", http.StatusBadRequest)
					return
				}
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			got, err := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).DownloadURLs(context.Background(), tt.args.updateID)
			if (err != nil) != tt.wantErr {
				t.Errorf("DownloadURLs() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DownloadURLs(). (-expected +got):\n%s", diff)
			}
		})
	}
}

func Test_validUpdateID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "uuid", id: "8b14e4f0-48d6-446e-ac6a-d03a2a087e75", want: true},
		{name: "too short", id: "8b14e4f0", want: false},
		{name: "not hex", id: "zz14e4f0-48d6-446e-ac6a-d03a2a087e75", want: false},
		{name: "misplaced hyphens", id: "8b14e4f04-8d6-446e-ac6a-d03a2a087e75", want: false},
		{name: "empty", id: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validUpdateID(tt.id); got != tt.want {
				t.Errorf("validUpdateID() = %v, want %v", got, tt.want)
			}
		})
	}
}
