package period

import (
	"testing"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &t
}

func TestClassify_MatchingIntervals(t *testing.T) {
	cases := []struct {
		label  string
		start  *time.Time
		end    *time.Time
		bucket Bucket
	}{
		{"year", at(2024, 1, 1, 0, 0), at(2025, 1, 1, 0, 0), BucketYear},
		{"year", at(2024, 6, 15, 8, 0), at(2025, 6, 15, 23, 59), BucketYear},
		{"month", at(2024, 3, 10, 0, 0), at(2024, 4, 10, 0, 0), BucketMonth},
		{"month", at(2024, 12, 5, 0, 0), at(2025, 1, 5, 0, 0), BucketMonth},
		{"month", at(2024, 2, 29, 0, 0), at(2024, 3, 29, 0, 0), BucketMonth},
		{"day", at(2024, 2, 28, 7, 44), at(2024, 2, 29, 1, 0), BucketDay},
		{"day", at(2024, 12, 31, 0, 0), at(2025, 1, 1, 0, 0), BucketDay},
		{"quarter", at(2024, 1, 1, 0, 0), at(2024, 4, 1, 0, 0), BucketRange},
		{"quarter", at(2024, 10, 31, 0, 0), at(2025, 1, 31, 0, 0), BucketRange},
		{"specifiedDates", at(2022, 10, 19, 7, 44), at(2024, 10, 30, 7, 55), BucketRange},
	}

	for _, tc := range cases {
		t.Run(tc.label+" "+tc.start.Format("2006-01-02"), func(t *testing.T) {
			n, err := Classify(tc.label, tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, Label(tc.label), n.Label)
			assert.Equal(t, tc.bucket, n.Bucket)
			assert.Equal(t, *tc.start, n.Start)
			assert.Equal(t, *tc.end, n.End)
		})
	}
}

func TestClassify_MismatchedIntervals(t *testing.T) {
	cases := []struct {
		label string
		start *time.Time
		end   *time.Time
	}{
		{"year", at(2024, 1, 1, 0, 0), at(2024, 12, 31, 0, 0)},
		{"year", at(2024, 1, 1, 0, 0), at(2025, 1, 2, 0, 0)},
		{"month", at(2024, 3, 10, 0, 0), at(2024, 4, 11, 0, 0)},
		{"month", at(2024, 1, 31, 0, 0), at(2024, 3, 1, 0, 0)},
		{"month", at(2024, 1, 31, 0, 0), at(2024, 2, 29, 0, 0)},
		{"month", at(2023, 3, 31, 0, 0), at(2023, 4, 30, 0, 0)},
		{"day", at(2024, 3, 10, 0, 0), at(2024, 3, 10, 23, 59)},
		{"day", at(2024, 3, 10, 0, 0), at(2024, 3, 12, 0, 0)},
		{"quarter", at(2024, 1, 1, 0, 0), at(2024, 3, 31, 0, 0)},
		{"quarter", at(2024, 1, 1, 0, 0), at(2025, 4, 1, 0, 0)},
		{"quarter", at(2024, 11, 30, 0, 0), at(2025, 2, 28, 0, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.label+" "+tc.end.Format("2006-01-02"), func(t *testing.T) {
			_, err := Classify(tc.label, tc.start, tc.end)
			require.Error(t, err)
			assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
			assert.Contains(t, err.Error(), tc.label)
		})
	}
}

func TestClassify_OmittedEnd(t *testing.T) {
	start := at(2024, 1, 31, 10, 0)

	t.Run("year", func(t *testing.T) {
		n, err := Classify("year", start, nil)
		require.NoError(t, err)
		assert.Equal(t, *at(2025, 1, 31, 10, 0), n.End)
	})

	t.Run("month", func(t *testing.T) {
		n, err := Classify("month", at(2024, 1, 15, 10, 0), nil)
		require.NoError(t, err)
		assert.Equal(t, *at(2024, 2, 15, 10, 0), n.End)
	})

	t.Run("month from a month end is shorter than a month", func(t *testing.T) {
		_, err := Classify("month", start, nil)
		require.Error(t, err)
		assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
	})

	t.Run("day", func(t *testing.T) {
		n, err := Classify("day", start, nil)
		require.NoError(t, err)
		assert.Equal(t, *at(2024, 2, 1, 10, 0), n.End)
	})

	t.Run("leap day plus one year is shorter than a year", func(t *testing.T) {
		_, err := Classify("year", at(2024, 2, 29, 0, 0), nil)
		require.Error(t, err)
		assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
	})

	t.Run("specified dates default to next day", func(t *testing.T) {
		n, err := Classify("specifiedDates", start, nil)
		require.NoError(t, err)
		assert.Equal(t, *at(2024, 2, 1, 10, 0), n.End)
	})

	t.Run("quarter requires end", func(t *testing.T) {
		_, err := Classify("quarter", start, nil)
		require.Error(t, err)
		assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
		assert.Contains(t, err.Error(), "quarter")
	})
}

func TestClassify_InvalidInput(t *testing.T) {
	t.Run("missing start", func(t *testing.T) {
		_, err := Classify("year", nil, at(2025, 1, 1, 0, 0))
		require.Error(t, err)
		assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
		assert.Contains(t, err.Error(), "start date")
	})

	t.Run("unknown label with end", func(t *testing.T) {
		_, err := Classify("week", at(2024, 1, 1, 0, 0), at(2024, 1, 8, 0, 0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "week")
	})

	t.Run("unknown label without end is rejected", func(t *testing.T) {
		_, err := Classify("fortnight", at(2024, 1, 1, 0, 0), nil)
		require.Error(t, err)
		assert.Equal(t, model.KindIncorrectPeriod, model.KindOf(err))
	})

	t.Run("labels are case sensitive", func(t *testing.T) {
		_, err := Classify("Year", at(2024, 1, 1, 0, 0), nil)
		assert.Error(t, err)
	})
}

func TestNormalized_Bounds(t *testing.T) {
	start := at(2024, 5, 17, 13, 30)

	cases := []struct {
		bucket    Bucket
		from, to  time.Time
		inclusive bool
	}{
		{BucketYear, *at(2024, 1, 1, 0, 0), *at(2025, 1, 1, 0, 0), false},
		{BucketMonth, *at(2024, 5, 1, 0, 0), *at(2024, 6, 1, 0, 0), false},
		{BucketDay, *at(2024, 5, 17, 0, 0), *at(2024, 5, 18, 0, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.bucket.String(), func(t *testing.T) {
			from, to, inclusive := Normalized{Bucket: tc.bucket, Start: *start}.Bounds()
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
			assert.Equal(t, tc.inclusive, inclusive)
		})
	}

	t.Run("range", func(t *testing.T) {
		end := at(2024, 8, 17, 13, 30)
		from, to, inclusive := Normalized{Bucket: BucketRange, Start: *start, End: *end}.Bounds()
		assert.Equal(t, *start, from)
		assert.Equal(t, *end, to)
		assert.True(t, inclusive)
	})
}

func TestBetween(t *testing.T) {
	cases := []struct {
		start, end *time.Time
		want       length
	}{
		{at(2024, 1, 1, 0, 0), at(2025, 1, 1, 0, 0), length{1, 0, 0}},
		{at(2024, 1, 31, 0, 0), at(2024, 2, 29, 0, 0), length{0, 0, 29}},
		{at(2023, 3, 31, 0, 0), at(2023, 4, 30, 0, 0), length{0, 0, 30}},
		{at(2024, 1, 31, 0, 0), at(2024, 3, 1, 0, 0), length{0, 1, 1}},
		{at(2024, 2, 29, 0, 0), at(2025, 2, 28, 0, 0), length{0, 11, 30}},
		{at(2024, 12, 31, 23, 0), at(2025, 1, 1, 1, 0), length{0, 0, 1}},
		{at(2024, 3, 10, 0, 0), at(2024, 2, 15, 0, 0), length{0, 0, -24}},
	}

	for _, tc := range cases {
		t.Run(tc.start.Format("2006-01-02")+"_"+tc.end.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tc.want, between(*tc.start, *tc.end))
		})
	}
}

func TestNormalized_BoundsKeepOffset(t *testing.T) {
	zone := time.FixedZone("", 3*3600)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, zone)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, zone)

	n, err := Classify("month", &start, &end)
	require.NoError(t, err)

	from, to, inclusive := n.Bounds()
	assert.True(t, from.Equal(time.Date(2023, time.December, 31, 21, 0, 0, 0, time.UTC)), "from %s", from)
	assert.True(t, to.Equal(time.Date(2024, time.January, 31, 21, 0, 0, 0, time.UTC)), "to %s", to)
	assert.False(t, inclusive)
}
