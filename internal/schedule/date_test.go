// AngelaMos | 2026
// date_test.go

package schedule

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Due *Date `json:"due"`
	}

	out, err := json.Marshal(wrapper{Due: &Date{Year: 2026, Month: time.July, Day: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-07-04"}`, string(out))

	out, err = json.Marshal(wrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":null}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-12-31"}`), &w))
	require.NotNil(t, w.Due)
	assert.Equal(t, "2025-12-31", w.Due.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"31/12/2025"}`), &w))
}

func TestDateScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, time.May, 3, 23, 30, 0, 0, time.UTC)))
	assert.Equal(t, Date{Year: 2026, Month: time.May, Day: 3}, d)

	require.NoError(t, d.Scan("2026-05-04"))
	assert.Equal(t, 4, d.Day)

	require.NoError(t, d.Scan([]byte("2026-05-05T00:00:00Z")))
	assert.Equal(t, 5, d.Day)

	assert.Error(t, d.Scan(42))
}

func TestDateValueIsUTCMidnight(t *testing.T) {
	v, err := Date{Year: 2026, Month: time.January, Day: 2}.Value()
	require.NoError(t, err)

	ts, ok := v.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), ts)
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	morning := DateOf(time.Date(2026, time.June, 1, 0, 5, 0, 0, time.UTC))
	evening := DateOf(time.Date(2026, time.June, 2, 23, 55, 0, 0, time.UTC))

	assert.Equal(t, 1, morning.DaysUntil(evening))
	assert.Equal(t, -1, evening.DaysUntil(morning))
}

func TestSystemClockUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	c := NewClock(loc)
	c.now = func() time.Time {
		return time.Date(2026, time.August, 31, 20, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, Date{Year: 2026, Month: time.September, Day: 1}, c.Today())
}

func TestFixedClock(t *testing.T) {
	d := Date{Year: 2026, Month: time.October, Day: 14}
	assert.Equal(t, d, FixedClock(d).Today())
}
