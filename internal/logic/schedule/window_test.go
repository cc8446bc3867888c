package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/demikl/tarnfui/internal/logic/schedule"
)

func weekdaysSet(t *testing.T, days string) map[time.Weekday]bool {
	t.Helper()

	parsed, err := schedule.ParseWeekdays(days)
	require.NoError(t, err)

	return parsed
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		tod, err := schedule.ParseTimeOfDay("07:30")
		require.NoError(t, err)
		require.Equal(t, schedule.TimeOfDay{Hour: 7, Minute: 30}, tod)
		require.Equal(t, "07:30", tod.String())
	})

	t.Run("midnight", func(t *testing.T) {
		t.Parallel()

		tod, err := schedule.ParseTimeOfDay("00:00")
		require.NoError(t, err)
		require.Equal(t, schedule.TimeOfDay{}, tod)
	})

	t.Run("missing separator", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseTimeOfDay("0730")
		require.Error(t, err)
	})

	t.Run("out of range hour", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseTimeOfDay("24:00")
		require.Error(t, err)
	})

	t.Run("out of range minute", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseTimeOfDay("12:60")
		require.Error(t, err)
	})

	t.Run("not numeric", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseTimeOfDay("ab:cd")
		require.Error(t, err)
	})
}

func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	t.Run("names", func(t *testing.T) {
		t.Parallel()

		days, err := schedule.ParseWeekdays("mon,tue,wed,thu,fri")
		require.NoError(t, err)
		require.True(t, days[time.Monday])
		require.True(t, days[time.Friday])
		require.False(t, days[time.Saturday])
		require.False(t, days[time.Sunday])
	})

	t.Run("digits are monday based", func(t *testing.T) {
		t.Parallel()

		days, err := schedule.ParseWeekdays("0,6")
		require.NoError(t, err)
		require.True(t, days[time.Monday])
		require.True(t, days[time.Sunday])
		require.False(t, days[time.Tuesday])
	})

	t.Run("case and whitespace tolerant", func(t *testing.T) {
		t.Parallel()

		days, err := schedule.ParseWeekdays(" Mon , FRI ")
		require.NoError(t, err)
		require.True(t, days[time.Monday])
		require.True(t, days[time.Friday])
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseWeekdays("mon,funday")
		require.Error(t, err)
	})

	t.Run("digit out of range", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseWeekdays("7")
		require.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		_, err := schedule.ParseWeekdays("")
		require.Error(t, err)
	})
}

func TestWindow_ShouldBeActive(t *testing.T) {
	t.Parallel()

	window := schedule.Window{
		Startup:    schedule.TimeOfDay{Hour: 7},
		Shutdown:   schedule.TimeOfDay{Hour: 19},
		ActiveDays: weekdaysSet(t, "mon,tue,wed,thu,fri"),
		Location:   time.UTC,
	}

	// 2026-08-26 is a Wednesday, 2026-08-29 a Saturday.
	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"startup boundary is inclusive", time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC), true},
		{"just before shutdown", time.Date(2026, 8, 26, 18, 59, 59, 0, time.UTC), true},
		{"shutdown boundary is exclusive", time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC), false},
		{"just before startup", time.Date(2026, 8, 26, 6, 59, 59, 0, time.UTC), false},
		{"midday", time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC), true},
		{"weekend midday", time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.active, window.ShouldBeActive(tc.now))
		})
	}
}

func TestWindow_ShouldBeActive_Wraparound(t *testing.T) {
	t.Parallel()

	// Night shift: active from 19:00 through 07:00 the next morning.
	window := schedule.Window{
		Startup:    schedule.TimeOfDay{Hour: 19},
		Shutdown:   schedule.TimeOfDay{Hour: 7},
		ActiveDays: weekdaysSet(t, "mon,tue,wed,thu,fri,sat,sun"),
		Location:   time.UTC,
	}

	tests := []struct {
		name   string
		now    time.Time
		active bool
	}{
		{"evening after startup", time.Date(2026, 8, 26, 22, 0, 0, 0, time.UTC), true},
		{"startup boundary", time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC), true},
		{"just before midnight", time.Date(2026, 8, 26, 23, 59, 59, 0, time.UTC), true},
		{"just after midnight", time.Date(2026, 8, 27, 0, 0, 1, 0, time.UTC), true},
		{"early morning", time.Date(2026, 8, 27, 6, 59, 59, 0, time.UTC), true},
		{"shutdown boundary", time.Date(2026, 8, 27, 7, 0, 0, 0, time.UTC), false},
		{"midday", time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.active, window.ShouldBeActive(tc.now))
		})
	}
}

func TestWindow_ShouldBeActive_ZeroLength(t *testing.T) {
	t.Parallel()

	window := schedule.Window{
		Startup:    schedule.TimeOfDay{Hour: 9},
		Shutdown:   schedule.TimeOfDay{Hour: 9},
		ActiveDays: weekdaysSet(t, "mon,tue,wed,thu,fri,sat,sun"),
		Location:   time.UTC,
	}

	require.False(t, window.ShouldBeActive(time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)))
	require.False(t, window.ShouldBeActive(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)))
}

func TestWindow_ShouldBeActive_Timezone(t *testing.T) {
	t.Parallel()

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	window := schedule.Window{
		Startup:    schedule.TimeOfDay{Hour: 7},
		Shutdown:   schedule.TimeOfDay{Hour: 19},
		ActiveDays: weekdaysSet(t, "mon,tue,wed,thu,fri"),
		Location:   paris,
	}

	// 06:00 UTC is 08:00 in Paris during summer time.
	require.True(t, window.ShouldBeActive(time.Date(2026, 8, 26, 6, 0, 0, 0, time.UTC)))
	// 18:00 UTC is 20:00 in Paris, past shutdown.
	require.False(t, window.ShouldBeActive(time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)))
}

func TestWindow_NextTransitions(t *testing.T) {
	t.Parallel()

	window := schedule.Window{
		Startup:    schedule.TimeOfDay{Hour: 7},
		Shutdown:   schedule.TimeOfDay{Hour: 19},
		ActiveDays: weekdaysSet(t, "mon,tue,wed,thu,fri"),
		Location:   time.UTC,
	}

	t.Run("next startup same day", func(t *testing.T) {
		t.Parallel()

		next, err := window.NextStartup(time.Date(2026, 8, 26, 5, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(t, time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC), next)
	})

	t.Run("next startup skips weekend", func(t *testing.T) {
		t.Parallel()

		// Friday evening: next startup is Monday morning.
		next, err := window.NextStartup(time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(t, time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC), next)
	})

	t.Run("next shutdown same day", func(t *testing.T) {
		t.Parallel()

		next, err := window.NextShutdown(time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Equal(t, time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC), next)
	})
}
