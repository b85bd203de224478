package dateformat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Run("US dates via second component above 12", func(t *testing.T) {
		d := Detect([]string{
			"01/15/2024 10:00:00",
			"02/20/2024 11:30:00",
			"03/25/2024 09:15:00",
			"12/31/2024 23:59:59",
		}, 0)

		assert.Equal(t, FormatUS, d.Format)
		assert.Greater(t, d.Confidence, 0.8)
		assert.Equal(t, 4, d.TotalDatesAnalyzed)
		assert.Equal(t, 0, d.AmbiguousCount)
	})

	t.Run("international dates via first component above 12", func(t *testing.T) {
		d := Detect([]string{"25/12/2024", "13/01/2024", "31/07/2024"}, 0)

		assert.Equal(t, FormatInternational, d.Format)
		assert.Equal(t, 1.0, d.Confidence)
	})

	t.Run("ISO short-circuit", func(t *testing.T) {
		d := Detect([]string{
			"2024-01-15T10:00:00Z",
			"2024-02-20T11:30:00.123Z",
			"2024-03-25 09:15:00",
		}, 0)

		assert.Equal(t, FormatISO, d.Format)
		assert.Greater(t, d.Confidence, 0.9)
		assert.Equal(t, 3, d.TotalDatesAnalyzed)
	})

	t.Run("ISO dominance keeps high confidence in a diluted sample", func(t *testing.T) {
		d := Detect([]string{
			"2024-01-15T10:00:00Z",
			"2024-02-20T11:30:00Z",
			"2024-03-25T09:15:00Z",
			"01/02/2024",
			"03/04/2024",
		}, 0)

		assert.Equal(t, FormatISO, d.Format)
		assert.Greater(t, d.Confidence, 0.9)
		assert.Equal(t, 5, d.TotalDatesAnalyzed)
	})

	t.Run("all ambiguous defaults to international with low confidence", func(t *testing.T) {
		d := Detect([]string{"01/02/2024", "03/04/2024", "05/06/2024"}, 0)

		assert.Equal(t, FormatInternational, d.Format)
		assert.Less(t, d.Confidence, 0.5)
		assert.Equal(t, 3, d.AmbiguousCount)
	})

	t.Run("majority vote wins", func(t *testing.T) {
		d := Detect([]string{"01/15/2024", "01/16/2024", "25/01/2024"}, 0)
		assert.Equal(t, FormatUS, d.Format)
	})

	t.Run("empty input", func(t *testing.T) {
		d := Detect(nil, 0)
		assert.Equal(t, FormatUnknown, d.Format)
		assert.Zero(t, d.Confidence)
		assert.Zero(t, d.TotalDatesAnalyzed)
	})

	t.Run("maxSamples caps analysis", func(t *testing.T) {
		dates := make([]string, 50)
		for i := range dates {
			dates[i] = "01/15/2024"
		}
		d := Detect(dates, 10)
		assert.Equal(t, 10, d.TotalDatesAnalyzed)
	})
}

func TestParse(t *testing.T) {
	t.Run("ISO always parses as ISO regardless of hint", func(t *testing.T) {
		for _, hint := range []Format{FormatUS, FormatInternational, FormatUnknown} {
			got, ok := Parse("2024-03-04T12:30:00Z", hint)
			require.True(t, ok)
			assert.Equal(t, time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC), got)
		}
	})

	t.Run("US hint reads month first", func(t *testing.T) {
		got, ok := Parse("03/04/2024 10:15:30", FormatUS)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 4, 10, 15, 30, 0, time.UTC), got)
	})

	t.Run("international hint reads day first", func(t *testing.T) {
		got, ok := Parse("03/04/2024 10:15:30", FormatInternational)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 4, 3, 10, 15, 30, 0, time.UTC), got)
	})

	t.Run("date-only defaults to midnight", func(t *testing.T) {
		got, ok := Parse("15/01/2024", FormatInternational)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("component above 12 overrides a wrong hint", func(t *testing.T) {
		got, ok := Parse("25/12/2024", FormatUS)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("dash separated", func(t *testing.T) {
		got, ok := Parse("15-01-2024", FormatInternational)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("fractional seconds", func(t *testing.T) {
		got, ok := Parse("2024-01-15T10:00:00.250Z", FormatISO)
		require.True(t, ok)
		assert.Equal(t, 250*int(time.Millisecond), got.Nanosecond())
	})

	t.Run("unparseable input", func(t *testing.T) {
		for _, s := range []string{"", "not-a-date", "2024-13-40T25:61:00Z", "2024/99/99", "30/02/2024", "1/2", "a/b/2024"} {
			_, ok := Parse(s, FormatInternational)
			assert.False(t, ok, "input %q", s)
		}
	})
}
