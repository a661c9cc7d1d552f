package window

import (
	"time"

	"github.com/pkg/errors"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// Layout is the MonthID format used by MSRC monthly buckets, e.g. "2024-Jan".
const Layout = "2006-Jan"

const DefaultMaxMonths = 48

var (
	ErrMissingAnchor   = errors.New("baseline did not provide an installed cumulative update anchor")
	ErrInvalidBaseline = errors.New("baseline collected without administrative privileges")
)

type options struct {
	maxMonths int
	now       time.Time
}

type Option interface {
	apply(*options)
}

type maxMonthsOption int

func (o maxMonthsOption) apply(opts *options) {
	opts.maxMonths = int(o)
}

func WithMaxMonths(maxMonths int) Option {
	return maxMonthsOption(maxMonths)
}

type nowOption time.Time

func (o nowOption) apply(opts *options) {
	opts.now = time.Time(o)
}

func WithNow(now time.Time) Option {
	return nowOption(now)
}

// Build derives the ordered, strictly increasing MonthID sequence from the
// baseline's installed cumulative update anchor up to the latest known MSRC
// month, inclusive, truncated to at most maxMonths entries. A start anchor
// after the end clamps the window to the single end month. maxMonths below 1
// is rejected, so a built window always contains at least the end month.
func Build(baseline types.Baseline, opts ...Option) ([]string, error) {
	options := &options{
		maxMonths: DefaultMaxMonths,
		now:       time.Now().UTC(),
	}
	for _, o := range opts {
		o.apply(options)
	}

	if options.maxMonths < 1 {
		return nil, errors.Errorf("unexpected max months. expected: >= 1, actual: %d", options.maxMonths)
	}

	if !baseline.IsAdmin {
		return nil, ErrInvalidBaseline
	}
	if baseline.LcuMonthID == "" {
		return nil, ErrMissingAnchor
	}

	start, err := time.Parse(Layout, baseline.LcuMonthID)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", baseline.LcuMonthID)
	}

	end := time.Date(options.now.Year(), options.now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if baseline.MsrcLatestMonthID != "" {
		end, err = time.Parse(Layout, baseline.MsrcLatestMonthID)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", baseline.MsrcLatestMonthID)
		}
	}

	if start.After(end) {
		start = end
	}

	var months []string
	for current := start; !current.After(end) && len(months) < options.maxMonths; current = current.AddDate(0, 1, 0) {
		months = append(months, current.Format(Layout))
	}

	return months, nil
}
