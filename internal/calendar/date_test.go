package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BothLayouts(t *testing.T) {
	iso, err := Parse("2023-04-05")
	require.NoError(t, err)
	upstream, err := Parse("05-04-2023")
	require.NoError(t, err)

	assert.True(t, iso.Equal(upstream))
	assert.Equal(t, 2023, iso.Year)
	assert.Equal(t, time.April, iso.Month)
	assert.Equal(t, 5, iso.Day)
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "2023/04/05", "31-02-2023", "yesterday"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestDaysUntil(t *testing.T) {
	a := MustParse("2023-01-01")
	b := MustParse("2024-01-01")

	assert.Equal(t, 365, a.DaysUntil(b))
	assert.Equal(t, -365, b.DaysUntil(a))
	assert.Equal(t, 365, AbsDays(b, a))
	assert.Equal(t, 366, MustParse("2024-01-01").DaysUntil(MustParse("2025-01-01")))
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		in     string
		months int
		want   string
	}{
		{"2024-03-31", -1, "2024-02-29"},
		{"2023-03-31", -1, "2023-02-28"},
		{"2024-01-15", -3, "2023-10-15"},
		{"2024-08-31", -6, "2024-02-29"},
		{"2023-12-31", 2, "2024-02-29"},
		{"2024-02-29", -12, "2023-02-28"},
	}
	for _, tt := range tests {
		got := MustParse(tt.in).AddMonths(tt.months)
		assert.Equal(t, tt.want, got.String(), "%s %+d months", tt.in, tt.months)
	}
}

func TestYearsBetween(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2020-01-01", "2022-12-31", 2},
		{"2020-01-01", "2023-01-01", 3},
		{"2020-02-29", "2021-02-28", 0},
		{"2023-06-15", "2023-06-14", 0},
		{"2023-06-15", "2021-06-15", -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YearsBetween(MustParse(tt.from), MustParse(tt.to)), "%s..%s", tt.from, tt.to)
	}
}

func TestMonthStarts(t *testing.T) {
	got := MonthStarts(MustParse("2023-01-20"), MustParse("2023-04-02"))
	require.Len(t, got, 4)
	assert.Equal(t, "2023-01-01", got[0].String())
	assert.Equal(t, "2023-04-01", got[3].String())

	assert.Len(t, MonthStarts(MustParse("2022-01-01"), MustParse("2023-12-31")), 24)
	assert.Len(t, MonthStarts(MustParse("2023-05-31"), MustParse("2023-05-31")), 1)
	assert.Nil(t, MonthStarts(MustParse("2023-05-02"), MustParse("2023-05-01")))
}

func TestDate_JSON(t *testing.T) {
	var v struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"07-11-2022"}`), &v))
	assert.Equal(t, "2022-11-07", v.D.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2022-11-07"}`, string(out))
}
