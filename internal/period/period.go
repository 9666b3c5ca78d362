// Package period validates a named reporting period against a date range
// and turns it into the bounds used to filter transactions.
package period

import (
	"fmt"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
)

type Label string

const (
	Year           Label = "year"
	Month          Label = "month"
	Day            Label = "day"
	Quarter        Label = "quarter"
	SpecifiedDates Label = "specifiedDates"
)

// Bucket selects the grouping predicate the aggregation applies.
type Bucket int

const (
	BucketYear Bucket = iota
	BucketMonth
	BucketDay
	BucketRange
)

func (b Bucket) String() string {
	switch b {
	case BucketYear:
		return "year"
	case BucketMonth:
		return "month"
	case BucketDay:
		return "day"
	}
	return "range"
}

type length struct{ years, months, days int }

var canonical = map[Label]length{
	Year:    {1, 0, 0},
	Month:   {0, 1, 0},
	Day:     {0, 0, 1},
	Quarter: {0, 3, 0},
}

// Normalized is a classified period with a resolved end.
type Normalized struct {
	Label  Label
	Bucket Bucket
	Start  time.Time
	End    time.Time
}

// Bounds returns the transaction-date window [From, To) or [From, To]
// depending on inclusive. Calendar buckets are anchored on the start date.
func (n Normalized) Bounds() (from, to time.Time, inclusive bool) {
	s := n.Start
	midnight := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
	switch n.Bucket {
	case BucketYear:
		from = time.Date(s.Year(), time.January, 1, 0, 0, 0, 0, s.Location())
		return from, from.AddDate(1, 0, 0), false
	case BucketMonth:
		from = time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, s.Location())
		return from, from.AddDate(0, 1, 0), false
	case BucketDay:
		return midnight, midnight.AddDate(0, 0, 1), false
	}
	return n.Start, n.End, true
}

// Classify checks that start and end form the named period. A missing end
// is derived from the label where that is possible.
func Classify(label string, start, end *time.Time) (Normalized, error) {
	if start == nil {
		return Normalized{}, incorrect("start date is required")
	}

	l := Label(label)
	want, known := canonical[l]
	if !known && l != SpecifiedDates {
		return Normalized{}, incorrect("incorrect period: %s", label)
	}

	var e time.Time
	switch {
	case end != nil:
		e = *end
	case l == Quarter:
		return Normalized{}, incorrect("if period is quarter, then end date is required")
	case l == SpecifiedDates:
		e = start.AddDate(0, 0, 1)
	default:
		e = addClamped(*start, want)
	}

	n := Normalized{Label: l, Bucket: bucketOf(l), Start: *start, End: e}
	if l == SpecifiedDates {
		return n, nil
	}
	if between(*start, e) != want {
		return Normalized{}, incorrect("incorrect period: %s. start date: %s. end date: %s",
			label, start.Format(time.RFC3339), e.Format(time.RFC3339))
	}
	return n, nil
}

func bucketOf(l Label) Bucket {
	switch l {
	case Year:
		return BucketYear
	case Month:
		return BucketMonth
	case Day:
		return BucketDay
	}
	return BucketRange
}

// addClamped adds a calendar length, clamping the day to the end of the
// target month (Jan 31 + 1 month is Feb 28 or 29).
func addClamped(t time.Time, l length) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + l.months + 12*l.years
	y += total / 12
	m = time.Month(total%12 + 1)
	if last := daysIn(y, m); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), t.Location()).AddDate(0, 0, l.days)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// between returns the calendar distance between the dates of a and b as
// whole years, months and days. The months are counted first and the
// remainder in days is measured from a plus those months, so Jan 31 to
// Feb 29 is 29 days and not one month.
func between(a, b time.Time) length {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	months := (by*12 + int(bm)) - (ay*12 + int(am))
	days := bd - ad
	switch {
	case months > 0 && days < 0:
		months--
		from := addClamped(time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC), length{months: months})
		to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
		days = int(to.Sub(from).Hours() / 24)
	case months < 0 && days > 0:
		months++
		days -= daysIn(by, bm)
	}
	return length{years: months / 12, months: months % 12, days: days}
}

func incorrect(format string, args ...any) error {
	return model.NewError(model.KindIncorrectPeriod, nil, "%s", fmt.Sprintf(format, args...))
}
