package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
)

func d(s string) calendar.Date { return calendar.MustParse(s) }

func obs(date string, price float64) model.PriceObservation {
	return model.PriceObservation{Date: d(date), Price: price}
}

func TestResolve_Nearest(t *testing.T) {
	series := model.PriceSeries{
		obs("2023-01-10", 12),
		obs("2023-01-02", 10),
		obs("2023-01-06", 11),
	}
	got, err := Resolve(d("2023-01-07"), series)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.Price)

	got, err = Resolve(d("2030-01-01"), series)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-10", got.Date.String(), "no distance cap")
}

func TestResolve_TieKeepsFirstInSeriesOrder(t *testing.T) {
	a := obs("2023-01-01", 10)
	b := obs("2023-01-03", 11)

	got, err := Resolve(d("2023-01-02"), model.PriceSeries{a, b})
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = Resolve(d("2023-01-02"), model.PriceSeries{b, a})
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestResolve_EmptySeries(t *testing.T) {
	_, err := Resolve(d("2023-01-01"), nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestResolve_NeverBeatenByAnotherObservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := d("2020-01-01")
	for round := 0; round < 200; round++ {
		series := make(model.PriceSeries, 1+rng.Intn(40))
		for i := range series {
			series[i] = model.PriceObservation{Date: base.AddDays(rng.Intn(1500)), Price: 1 + rng.Float64()}
		}
		target := base.AddDays(rng.Intn(1800) - 150)

		got, err := Resolve(target, series)
		require.NoError(t, err)
		best := calendar.AbsDays(target, got.Date)
		for _, o := range series {
			assert.LessOrEqual(t, best, calendar.AbsDays(target, o.Date))
		}
	}
}

func TestComputeReturn_OneYearScenario(t *testing.T) {
	series := model.PriceSeries{obs("2023-01-01", 10), obs("2024-01-01", 12)}

	res, err := ComputeReturn(series, d("2023-01-01"), d("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.SimpleReturnPct)
	assert.Equal(t, 20.0, res.AnnualizedReturnPct)
	assert.Equal(t, 10.0, res.StartPrice)
	assert.Equal(t, 12.0, res.EndPrice)
}

func TestComputeReturn_AnnualizationBoundary(t *testing.T) {
	// 366 days is past one Julian year: geometric annualization applies.
	long := model.PriceSeries{obs("2024-01-01", 10), obs("2025-01-01", 12)}
	res, err := ComputeReturn(long, d("2024-01-01"), d("2025-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.SimpleReturnPct)
	assert.InDelta(t, 19.96, res.AnnualizedReturnPct, 0.0001)

	// 180 days: annualized equals simple exactly.
	short := model.PriceSeries{obs("2023-01-01", 10), obs("2023-06-30", 10.75)}
	res, err = ComputeReturn(short, d("2023-01-01"), d("2023-06-30"))
	require.NoError(t, err)
	assert.Equal(t, 7.5, res.SimpleReturnPct)
	assert.Equal(t, res.SimpleReturnPct, res.AnnualizedReturnPct)
}

func TestComputeReturn_ReportsResolvedDates(t *testing.T) {
	series := model.PriceSeries{
		obs("2023-03-03", 100), // Friday
		obs("2023-03-06", 101), // Monday
		obs("2023-04-14", 110),
	}
	res, err := ComputeReturn(series, d("2023-03-05"), d("2023-04-16"))
	require.NoError(t, err)
	assert.Equal(t, "2023-03-06", res.StartDate.String())
	assert.Equal(t, "2023-04-14", res.EndDate.String())
	assert.Equal(t, 8.91, res.SimpleReturnPct)
}

func TestComputeReturn_SingleObservation(t *testing.T) {
	series := model.PriceSeries{obs("2023-05-05", 42.5)}
	res, err := ComputeReturn(series, d("2020-01-01"), d("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SimpleReturnPct)
	assert.Equal(t, 0.0, res.AnnualizedReturnPct)
}

func TestComputeReturn_SignConsistency(t *testing.T) {
	up := model.PriceSeries{obs("2021-01-01", 50), obs("2023-01-01", 60)}
	res, err := ComputeReturn(up, d("2021-01-01"), d("2023-01-01"))
	require.NoError(t, err)
	assert.Greater(t, res.SimpleReturnPct, 0.0)
	assert.Greater(t, res.AnnualizedReturnPct, 0.0)

	down := model.PriceSeries{obs("2021-01-01", 60), obs("2023-01-01", 50)}
	res, err = ComputeReturn(down, d("2021-01-01"), d("2023-01-01"))
	require.NoError(t, err)
	assert.Less(t, res.SimpleReturnPct, 0.0)
	assert.Less(t, res.AnnualizedReturnPct, 0.0)
}

func TestComputeReturn_InvertedRange(t *testing.T) {
	series := model.PriceSeries{obs("2021-01-01", 10), obs("2023-01-01", 20)}
	res, err := ComputeReturn(series, d("2023-01-01"), d("2021-01-01"))
	require.NoError(t, err)
	assert.Equal(t, -50.0, res.SimpleReturnPct)
	assert.Equal(t, res.SimpleReturnPct, res.AnnualizedReturnPct)
}

func TestComputeReturn_Failures(t *testing.T) {
	_, err := ComputeReturn(nil, d("2023-01-01"), d("2024-01-01"))
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, ErrNotFound)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.SeriesLen)
	assert.Equal(t, "2023-01-01", ce.From.String())

	zero := model.PriceSeries{obs("2023-01-01", 0), obs("2024-01-01", 12)}
	_, err = ComputeReturn(zero, d("2023-01-01"), d("2024-01-01"))
	require.ErrorIs(t, err, ErrDivisionHazard)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "startPrice", ce.Field)
}

func TestComputeReturn_Idempotent(t *testing.T) {
	series := model.PriceSeries{obs("2019-04-01", 31.7), obs("2022-09-15", 47.3), obs("2024-02-29", 52.1)}
	a, err := ComputeReturn(series, d("2019-04-01"), d("2024-03-01"))
	require.NoError(t, err)
	b, err := ComputeReturn(series, d("2019-04-01"), d("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func flatSeries(from, to string, price float64) model.PriceSeries {
	var s model.PriceSeries
	for day := d(from); !day.After(d(to)); day = day.AddDays(1) {
		s = append(s, model.PriceObservation{Date: day, Price: price})
	}
	return s
}

func TestComputeSip_FlatSeries(t *testing.T) {
	series := flatSeries("2022-01-01", "2023-12-31", 20)

	res, err := ComputeSip(series, 1000, d("2022-01-01"), d("2023-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 24000.0, res.TotalInvested)
	assert.Equal(t, 1200.0, res.TotalUnits)
	assert.Equal(t, 24000.0, res.CurrentValue)
	assert.Equal(t, 0.0, res.AbsoluteReturnPct)
	assert.Equal(t, 0.0, res.AnnualizedReturnPct)
}

func TestComputeSip_InvestedMatchesMonthCount(t *testing.T) {
	series := flatSeries("2021-03-01", "2021-12-31", 13.37)
	from, to := d("2021-03-17"), d("2021-11-02")

	res, err := ComputeSip(series, 2500, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2500*float64(len(calendar.MonthStarts(from, to))), res.TotalInvested)
	assert.Equal(t, 22500.0, res.TotalInvested)
}

func TestComputeSip_SubYearUsesAbsoluteReturn(t *testing.T) {
	series := model.PriceSeries{obs("2023-01-01", 10), obs("2023-02-01", 20)}

	res, err := ComputeSip(series, 100, d("2023-01-01"), d("2023-02-01"))
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.TotalInvested)
	assert.Equal(t, 15.0, res.TotalUnits)
	assert.Equal(t, 300.0, res.CurrentValue)
	assert.Equal(t, 50.0, res.AbsoluteReturnPct)
	assert.Equal(t, 50.0, res.AnnualizedReturnPct)
}

func TestComputeSip_WholeYearAnnualization(t *testing.T) {
	// Months up to 2022-01 resolve to the 2021 NAV (2022-01-01 is a tie and
	// keeps the first element), the rest to the 2023 NAV.
	series := model.PriceSeries{obs("2021-01-01", 10), obs("2023-01-01", 40)}

	res, err := ComputeSip(series, 100, d("2021-01-01"), d("2023-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 2500.0, res.TotalInvested)
	assert.Equal(t, 160.0, res.TotalUnits)
	assert.Equal(t, 6400.0, res.CurrentValue)
	assert.Equal(t, 156.0, res.AbsoluteReturnPct)
	assert.Equal(t, 60.0, res.AnnualizedReturnPct)
}

func TestComputeSip_Failures(t *testing.T) {
	series := model.PriceSeries{obs("2023-01-01", 10)}

	_, err := ComputeSip(nil, 1000, d("2023-01-01"), d("2023-06-01"))
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, amount := range []float64{0, -100} {
		_, err = ComputeSip(series, amount, d("2023-01-01"), d("2023-06-01"))
		require.ErrorIs(t, err, ErrInvalidInput)
		var ce *Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "monthlyAmount", ce.Field)
	}

	_, err = ComputeSip(series, 1000, d("2023-06-01"), d("2023-01-01"))
	require.ErrorIs(t, err, ErrInvalidInput)

	zero := model.PriceSeries{obs("2023-01-01", 0)}
	_, err = ComputeSip(zero, 1000, d("2023-01-01"), d("2023-03-01"))
	require.ErrorIs(t, err, ErrDivisionHazard)
}

func TestComputeSip_Idempotent(t *testing.T) {
	series := model.PriceSeries{obs("2020-01-01", 11.1), obs("2021-07-01", 14.2), obs("2023-03-01", 17.9)}
	a, err := ComputeSip(series, 3000, d("2020-01-15"), d("2023-03-01"))
	require.NoError(t, err)
	b, err := ComputeSip(series, 3000, d("2020-01-15"), d("2023-03-01"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValuationPrice_NearestToEndDate(t *testing.T) {
	series := model.PriceSeries{obs("2023-05-01", 9), obs("2020-01-01", 3)}
	assert.Equal(t, 9.0, valuationPrice(series, d("2023-04-30")))
	assert.Equal(t, 3.0, valuationPrice(series, d("2019-12-01")))
}

func TestEstimateFixedRateSip(t *testing.T) {
	res, err := EstimateFixedRateSip(5000, 10, 12)
	require.NoError(t, err)
	assert.Equal(t, 600000.0, res.TotalInvestment)
	assert.InDelta(t, 1161695, res.FutureValue, 1)
	assert.InDelta(t, res.FutureValue-res.TotalInvestment, res.EstimatedReturns, 1)

	res, err = EstimateFixedRateSip(1000, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, res.TotalInvestment)
	assert.Equal(t, 12809.0, res.FutureValue)
	assert.Equal(t, 809.0, res.EstimatedReturns)
}

func TestEstimateFixedRateSip_InvalidInput(t *testing.T) {
	tests := []struct {
		amount, years, rate float64
		field               string
	}{
		{0, 10, 12, "amount"},
		{-1, 10, 12, "amount"},
		{5000, 0, 12, "period"},
		{5000, -3, 12, "period"},
		{5000, 10, 0, "rate"},
		{5000, 10, -2, "rate"},
	}
	for _, tt := range tests {
		_, err := EstimateFixedRateSip(tt.amount, tt.years, tt.rate)
		require.ErrorIs(t, err, ErrInvalidInput)
		var ce *Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, tt.field, ce.Field)
	}
}

func TestRangeBetween(t *testing.T) {
	series := model.PriceSeries{
		obs("2023-01-02", 10),
		obs("2023-03-01", 14),
		obs("2023-02-01", 8),
		obs("2023-04-03", 12),
		obs("2024-01-01", 99),
	}
	r, err := RangeBetween(series, d("2023-01-01"), d("2023-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Points)
	assert.Equal(t, 14.0, r.High)
	assert.Equal(t, "2023-03-01", r.HighDate.String())
	assert.Equal(t, 8.0, r.Low)
	assert.Equal(t, 12.0, r.Latest)
	assert.Equal(t, "2023-04-03", r.LatestDate.String())
	assert.Equal(t, 0.6667, r.Position)

	_, err = RangeBetween(series, d("2022-01-01"), d("2022-12-31"))
	require.ErrorIs(t, err, ErrDataUnavailable)

	_, err = RangeBetween(series, d("2023-12-31"), d("2023-01-01"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPosition(t *testing.T) {
	pos, err := Position(50, 50, 50)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	pos, err = Position(120, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos)

	_, err = Position(5, 1, 10)
	assert.Error(t, err)
}
