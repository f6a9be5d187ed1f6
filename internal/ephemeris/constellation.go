package ephemeris

// zodiacJapanese mirrors original_source/sso/calculation.py's constellation
// dict: the twelve zodiacal constellations the ecliptic passes through,
// translated to Japanese. The low-precision engine only ever needs a point
// on the ecliptic (no boundary-polygon catalogue), so zodiac sign -> name is
// the full fidelity the reference implementation itself offers.
var zodiacJapanese = map[string]string{
	"Aries":       "おひつじ座",
	"Taurus":      "おうし座",
	"Gemini":      "ふたご座",
	"Cancer":      "かに座",
	"Leo":         "しし座",
	"Virgo":       "おとめ座",
	"Libra":       "てんびん座",
	"Scorpius":    "さそり座",
	"Sagittarius": "いて座",
	"Capricornus": "やぎ座",
	"Aquarius":    "みずがめ座",
	"Pisces":      "うお座",
}

var zodiacOrder = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpius", "Sagittarius", "Capricornus", "Aquarius", "Pisces",
}

// constellationFor maps an ecliptic longitude (degrees) onto the zodiacal
// constellation it falls in and returns the Japanese name used throughout
// the original tool's output.
func constellationFor(eclipticLonDeg float64) string {
	lon := normDeg(eclipticLonDeg)
	idx := int(lon/30.0) % 12
	name := zodiacOrder[idx]
	return zodiacJapanese[name]
}
