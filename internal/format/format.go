// Package format implements the observation/event/eclipse renderer (spec
// §4.9, C10): column-aligned text with compass-direction labels, the
// AlwaysUp/NeverUp sentinels, and the long/short date renderings spec §3
// of SPEC_FULL.md adds on top of the distilled spec.
//
// Grounded on original_source/sso/classes.py's SSOCalculator.observe
// string-building and SSOTime.__repr__'s localized date format; the
// terminal coloring for sentinels, compass labels, and eclipse
// classification is grounded on github.com/fatih/color, present in the
// pack via other_examples/manifests/furan917-go-solar-system/go.mod (the
// closest domain match among the retrieved Go solar-system tools).
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/tendosso/sso/internal/calculator"
	"github.com/tendosso/sso/internal/geo"
	"github.com/tendosso/sso/internal/value"
)

var (
	sentinelColor  = color.New(color.FgYellow, color.Bold)
	labelColor     = color.New(color.FgCyan)
	totalColor     = color.New(color.FgRed, color.Bold)
	partialColor   = color.New(color.FgMagenta)
	penumbralColor = color.New(color.FgHiBlack)
)

// LongDate renders t (UTC) shifted by tzHours in the localized long form
// SSOTime.__repr__ uses, e.g. "2026年08月01日09時00分00秒 (+9)".
func LongDate(t time.Time, tzHours float64) string {
	local := geo.ToLocal(t, tzHours)
	return fmt.Sprintf("%04d年%02d月%02d日%02d時%02d分%02d秒 (%+g)",
		local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), tzHours)
}

// ShortDate renders t (UTC) shifted by tzHours as "YYYY/MM/DD HH:MM:SS
// [+Tz]", the compact form used inline in eclipse listings.
func ShortDate(t time.Time, tzHours float64) string {
	local := geo.ToLocal(t, tzHours)
	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d [%+g]",
		local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), tzHours)
}

func compass(azimuthDeg float64, direction int) string {
	label, err := geo.CompassLabel(azimuthDeg, direction)
	if err != nil {
		label = "?"
	}
	return labelColor.Sprint(label)
}

// Position renders the observation header and position block for a single
// Observer -> Body dispatch.
func Position(w io.Writer, observer value.Observer, body value.Body, tzHours float64, direction int) {
	fmt.Fprintf(w, "%s  %s  %s\n", observer.Name, ShortDate(observer.Date, tzHours), LongDate(observer.Date, tzHours))
	fmt.Fprintf(w, "  lat=%.4frad lon=%.4frad elev=%.1fm\n", observer.Lat, observer.Lon, observer.Elevation)

	st := body.State
	fmt.Fprintf(w, "  %-10s azimuth=%7.2f° (%s)  altitude=%7.2f°  distance=%.6f AU\n",
		body.String(), st.Azimuth, compass(st.Azimuth, direction), st.Altitude, st.EarthDistance)

	switch body.Kind {
	case value.BodyMoon:
		fmt.Fprintf(w, "  phase=%.1f%%  age=%.2fd  illumination=%.3f  diameter=%.2f'\n",
			st.Phase, st.Age, st.Illumination, st.DiameterArcmin)
	case value.BodySun:
		fmt.Fprintf(w, "  diameter=%.4f°\n", st.DiameterDeg)
	default:
		if st.Constellation != "" {
			fmt.Fprintf(w, "  magnitude=%.2f  constellation=%s\n", st.Magnitude, st.Constellation)
		}
	}
}

// Events renders the rise/transit/set block, with sentinel text for
// AlwaysUp/NeverUp and a "--:-- (none)" placeholder for lookups that hard
// failed rather than hitting a sentinel.
func Events(w io.Writer, label string, r calculator.EventResult, err error, tzHours float64, direction int) {
	switch {
	case err != nil, r.Time.IsZero() && !r.AlwaysUp && !r.NeverUp:
		fmt.Fprintf(w, "  %-8s --:-- (none)\n", label+":")
	case r.AlwaysUp:
		fmt.Fprintf(w, "  %-8s %s\n", label+":", sentinelColor.Sprint("always up"))
	case r.NeverUp:
		fmt.Fprintf(w, "  %-8s %s\n", label+":", sentinelColor.Sprint("never up"))
	default:
		fmt.Fprintf(w, "  %-8s %s  azimuth=%7.2f° (%s)  altitude=%7.2f°\n",
			label+":", ShortDate(r.Time, tzHours), r.Azimuth, compass(r.Azimuth, direction), r.Altitude)
	}
}

// InterLocation renders the §4.5 inter-observer geometry block.
func InterLocation(w io.Writer, a, b value.Observer, loc geo.InterLocation, direction int) {
	fmt.Fprintf(w, "%s -> %s\n", a.Name, b.Name)
	fmt.Fprintf(w, "  distance=%.3f km  azimuth=%7.2f° (%s)  elevation=%6.2f°\n",
		loc.DistanceKm, loc.AzimuthDeg, compass(loc.AzimuthDeg, direction), loc.AltitudeDeg)
}

// Separation renders the Body -> Body angular-separation result as a
// single formatted string, the value spec §4.7 has the dispatcher return.
func Separation(a, b value.Body, sepRad float64) string {
	return fmt.Sprintf("%s <-> %s: separation=%.4f°", a.String(), b.String(), sepRad*180/3.141592653589793)
}

func classificationLabel(c value.EclipseClass) string {
	switch c {
	case value.EclipseTotal:
		return totalColor.Sprint("🔴 total")
	case value.EclipsePartial:
		return partialColor.Sprint("🌓 partial")
	default:
		return penumbralColor.Sprint("🌑 penumbral")
	}
}

// Eclipse renders one line per eclipse event, per spec §4.9's eclipse
// output contract.
func Eclipse(w io.Writer, observer value.Observer, result value.EclipseResult, tzHours float64) {
	for _, ev := range result.Events {
		maxStr, beginStr, endStr := "--:--", "--:--", "--:--"
		if ev.Max != nil {
			maxStr = ShortDate(*ev.Max, tzHours)
		}
		if ev.Begin != nil {
			beginStr = ShortDate(*ev.Begin, tzHours)
		}
		if ev.End != nil {
			endStr = ShortDate(*ev.End, tzHours)
		}
		fmt.Fprintf(w, "%s  %s  begin=%s max=%s end=%s  %s  mag=%.3f  alt=%6.2f°  sep=%.5frad\n",
			ShortDate(ev.CandidateDate, tzHours), observer.Name, beginStr, maxStr, endStr,
			classificationLabel(ev.Class), ev.Magnitude, ev.AltitudeAtFull, ev.Separation)
	}
}
