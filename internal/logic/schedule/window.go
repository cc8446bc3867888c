package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	cron "github.com/netresearch/go-cron"
)

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24-hour format.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hourStr, minuteStr, ok := strings.Cut(s, ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("time %q must be in HH:MM format", s)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time %q must be in HH:MM format: %w", s, err)
	}

	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time %q must be in HH:MM format: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time %q must be in range 00:00-23:59", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// daySeconds returns the offset of this time within a day, in seconds.
func (t TimeOfDay) daySeconds() int {
	return t.Hour*3600 + t.Minute*60
}

// Window is the active-hours schedule: the cluster should be up between
// Startup and Shutdown, on active days, in Location. Immutable after startup.
type Window struct {
	Startup    TimeOfDay
	Shutdown   TimeOfDay
	ActiveDays map[time.Weekday]bool
	Location   *time.Location
}

// ShouldBeActive reports whether the cluster should be up at the given
// instant. The decision is pure: localize, check the weekday, then compare
// the time of day against the window with the startup boundary inclusive and
// the shutdown boundary exclusive. A window whose shutdown precedes its
// startup wraps around midnight.
func (w Window) ShouldBeActive(now time.Time) bool {
	local := now.In(w.Location)
	if !w.ActiveDays[local.Weekday()] {
		return false
	}

	t := local.Hour()*3600 + local.Minute()*60 + local.Second()
	startup := w.Startup.daySeconds()
	shutdown := w.Shutdown.daySeconds()

	switch {
	case shutdown > startup:
		return t >= startup && t < shutdown
	case shutdown < startup:
		return t >= startup || t < shutdown
	default:
		// Zero-length window: never active.
		return false
	}
}

// NextStartup returns the next instant the cluster transitions to active,
// strictly after the given instant.
func (w Window) NextStartup(after time.Time) (time.Time, error) {
	return w.nextOccurrence(w.Startup, after)
}

// NextShutdown returns the next instant the cluster transitions to inactive,
// strictly after the given instant.
func (w Window) NextShutdown(after time.Time) (time.Time, error) {
	return w.nextOccurrence(w.Shutdown, after)
}

// nextOccurrence computes the next occurrence of a time of day on an active
// day, through a cron expression evaluated in the window's timezone.
func (w Window) nextOccurrence(tod TimeOfDay, after time.Time) (time.Time, error) {
	spec := fmt.Sprintf("CRON_TZ=%s %d %d * * %s",
		w.Location.String(),
		tod.Minute,
		tod.Hour,
		w.cronDays(),
	)

	sched, err := _parser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule spec %q: %w", spec, err)
	}

	return sched.Next(after), nil
}

func (w Window) cronDays() string {
	if len(w.ActiveDays) == 0 {
		return "*"
	}

	days := make([]int, 0, len(w.ActiveDays))

	for day, active := range w.ActiveDays {
		if active {
			days = append(days, int(day))
		}
	}

	sort.Ints(days)

	tokens := make([]string, len(days))
	for i, d := range days {
		tokens[i] = strconv.Itoa(d)
	}

	return strings.Join(tokens, ",")
}

// weekdayTokens maps configuration day tokens to weekdays. Numeric tokens use
// 0 for Monday through 6 for Sunday.
var weekdayTokens = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseWeekdays parses a comma-separated active-day list. Tokens are
// three-letter day names (mon..sun, case-insensitive) or digits 0-6 where 0
// is Monday.
func ParseWeekdays(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)

	for _, token := range strings.Split(s, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}

		if day, ok := weekdayTokens[token]; ok {
			days[day] = true

			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid day token %q: expected mon..sun or 0-6", token)
		}

		// 0=Monday .. 6=Sunday, shifted onto time.Weekday's Sunday=0.
		days[time.Weekday((n+1)%7)] = true
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("active days list %q is empty", s)
	}

	return days, nil
}
