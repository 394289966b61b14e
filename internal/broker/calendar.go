package broker

import "time"

// IsTradingDay returns true if date is an NSE/BSE trading day: a weekday that
// is not one of the fixed national market holidays or Good Friday.
//
// The sync CLI uses this to skip pointless tradebook pulls on days the
// exchanges were closed; --force overrides it. The list covers the fixed
// holidays only; movable festival holidays (Diwali, Holi, Eid) change yearly
// and are not modeled here.
func IsTradingDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	fixed := map[string]struct{}{
		"01-26": {}, // Republic Day
		"05-01": {}, // Maharashtra Day
		"08-15": {}, // Independence Day
		"10-02": {}, // Gandhi Jayanti
		"12-25": {}, // Christmas
	}
	if _, ok := fixed[d.Format("01-02")]; ok {
		return false
	}

	goodFriday := easterSunday(d.Year()).AddDate(0, 0, -2)
	return !sameDate(d, goodFriday)
}

// LastTradingDay walks backwards from the given day (exclusive of weekends
// and holidays) to the most recent trading day, including the day itself.
func LastTradingDay(from time.Time) time.Time {
	d := truncateToDate(from)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm); Good Friday is two days earlier.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}
