package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://www.catalog.update.microsoft.com"

	searchPath         = "/Search.aspx"
	downloadDialogPath = "/DownloadDialog.aspx"

	resultsTableID = "ctl00_catalogBody_updateMatches"

	defaultTimeout = 30 * time.Second
)

var packageURLPattern = regexp.MustCompile(`(?i)https?://[^"]+\.(?:msu|cab)(?:\?[^"]*)?`)

// Candidate is one Update Catalog search result row, before disambiguation.
type Candidate struct {
	UpdateID       string
	Title          string
	Products       string
	Classification string
	LastUpdated    string
	Version        string
	Size           string
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

type Option interface {
	apply(*options)
}

type baseURLOption string

func (o baseURLOption) apply(opts *options) {
	opts.baseURL = string(o)
}

func WithBaseURL(baseURL string) Option {
	return baseURLOption(baseURL)
}

type httpClientOption struct {
	client *http.Client
}

func (o httpClientOption) apply(opts *options) {
	opts.httpClient = o.client
}

func WithHTTPClient(client *http.Client) Option {
	return httpClientOption{client: client}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(opts ...Option) *Client {
	options := &options{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(options)
	}

	return &Client{
		baseURL:    options.baseURL,
		httpClient: options.httpClient,
	}
}

// Search queries the Update Catalog for the given KB and parses the result
// table into candidates. Rows that do not carry a well-formed update
// identifier are skipped, not errored.
func (c *Client) Search(ctx context.Context, kbID string) ([]Candidate, error) {
	body, err := c.fetch(ctx, searchPath, url.Values{"q": []string{kbID}})
	if err != nil {
		return nil, errors.Wrapf(err, "search catalog for %s", kbID)
	}
	defer body.Close()

	candidates, err := parseSearchResults(body)
	if err != nil {
		return nil, errors.Wrap(err, "parse search results")
	}
	return candidates, nil
}

// DownloadURLs resolves the direct .msu/.cab package URLs for a selected
// candidate, deduplicated preserving first-seen order.
func (c *Client) DownloadURLs(ctx context.Context, updateID string) ([]string, error) {
	payload := fmt.Sprintf(`[{"size":0,"languages":"all","uidInfo":%q,"updateID":%q}]`, updateID, updateID)

	body, err := c.fetch(ctx, downloadDialogPath, url.Values{"updateIDs": []string{payload}})
	if err != nil {
		return nil, errors.Wrapf(err, "fetch download dialog for %s", updateID)
	}
	defer body.Close()

	bs, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, "read download dialog")
	}

	return extractDownloadURLs(string(bs)), nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode()), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("User-Agent", "winshield-downloader")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, errors.Errorf("unexpected response from %s. expected: %d, actual: %d", path, http.StatusOK, resp.StatusCode)
	}

	return resp.Body, nil
}

func parseSearchResults(r io.Reader) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "new document")
	}

	var candidates []Candidate
	doc.Find(fmt.Sprintf("table#%s tr", resultsTableID)).Each(func(_ int, tr *goquery.Selection) {
		id, _ := tr.Attr("id")
		updateID, _, found := strings.Cut(strings.TrimSpace(id), "_R")
		if !found || !validUpdateID(updateID) {
			return
		}

		cells := tr.Find("td")
		if cells.Length() < 8 {
			return
		}

		candidates = append(candidates, Candidate{
			UpdateID:       updateID,
			Title:          cellText(cells.Eq(1)),
			Products:       cellText(cells.Eq(2)),
			Classification: cellText(cells.Eq(3)),
			LastUpdated:    cellText(cells.Eq(4)),
			Version:        cellText(cells.Eq(5)),
			Size:           cellText(cells.Eq(6)),
		})
	})

	return candidates, nil
}

// validUpdateID checks the 36-character update identifier the catalog embeds
// in result row ids. Row ids carry canonical 8-4-4-4-12 UUIDs, so uuid.Parse
// is used rather than a loose hex-and-hyphen match.
func validUpdateID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func extractDownloadURLs(html string) []string {
	var urls []string
	for _, u := range packageURLPattern.FindAllString(html, -1) {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}
	return urls
}
