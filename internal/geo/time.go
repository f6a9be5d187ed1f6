package geo

import "time"

// ToLocal shifts a UTC instant by a fixed Tz offset (hours) to produce the
// "local" wall-clock instant the formatter displays. Conversion only ever
// happens at this I/O boundary; every Value in the system stores UTC
// (spec §3 invariant).
func ToLocal(utc time.Time, tzHours float64) time.Time {
	return utc.Add(time.Duration(tzHours * float64(time.Hour)))
}

// ToUTC is the inverse of ToLocal.
func ToUTC(local time.Time, tzHours float64) time.Time {
	return local.Add(-time.Duration(tzHours * float64(time.Hour)))
}

// LocalMidnight returns the UTC instant such that, once shifted by
// tzHours, it reads 00:00:00 on the calendar day of observerDateUTC shifted
// by tzHours (spec §4.4's "Local midnight").
func LocalMidnight(observerDateUTC time.Time, tzHours float64) time.Time {
	local := ToLocal(observerDateUTC, tzHours)
	midnightLocal := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return ToUTC(midnightLocal, tzHours)
}

// LocalNoonInUTC returns local_midnight + 12h − Tz·3600s, the instant spec
// §4.4 uses for the noon-lunar-age calculation.
func LocalNoonInUTC(observerDateUTC time.Time, tzHours float64) time.Time {
	midnight := LocalMidnight(observerDateUTC, tzHours)
	return midnight.Add(12*time.Hour - time.Duration(tzHours*float64(time.Hour)))
}
