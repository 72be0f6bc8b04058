// Package dms converts between angles in degrees and the textual
// degrees/minutes/seconds notation used on the command line, e.g.
// 40d38'23"N or 73:46:44W.
package dms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Flag records the hemisphere designator found by Decode, or selects the
// output form for Encode.
type Flag int

const (
	// None means no designator; Encode writes a signed value.
	None Flag = iota
	// Latitude means N or S; Encode pads degrees to two digits.
	Latitude
	// Longitude means E or W; Encode pads degrees to three digits.
	Longitude
	// Azimuth has no designator; Encode reduces to [0,360) and pads degrees
	// to three digits.
	Azimuth
)

func (f Flag) String() string {
	switch f {
	case Latitude:
		return "latitude"
	case Longitude:
		return "longitude"
	case Azimuth:
		return "azimuth"
	default:
		return "none"
	}
}

var (
	// ErrSyntax is returned for text that is not a valid angle.
	ErrSyntax = errors.New("dms: invalid syntax")
	// ErrRange is returned for a well-formed angle outside its permitted
	// range, or with the wrong kind of hemisphere designator.
	ErrRange = errors.New("dms: out of range")
)

func syntaxError(s, msg string) error {
	return fmt.Errorf("%w: %q %s", ErrSyntax, s, msg)
}

func rangeError(s, msg string) error {
	return fmt.Errorf("%w: %q %s", ErrRange, s, msg)
}

// component slots
const (
	degree = iota
	minute
	second
)

func designator(r rune) (int, bool) {
	switch r {
	case 'd', 'D', '°', 'º':
		return degree, true
	case '\'', '′', '’':
		return minute, true
	case '"', '″', '”':
		return second, true
	}
	return 0, false
}

func hemisphere(r rune) (Flag, bool, bool) {
	switch r {
	case 'N', 'n':
		return Latitude, false, true
	case 'S', 's':
		return Latitude, true, true
	case 'E', 'e':
		return Longitude, false, true
	case 'W', 'w':
		return Longitude, true, true
	}
	return None, false, false
}

// Decode parses an angle in degrees. The input is a sequence of up to three
// components (degrees, minutes, seconds), each terminated by d, ' or "
// (the last designator may be omitted), or separated by colons as in
// d:m:s. An optional leading sign and an optional hemisphere letter N, S,
// E or W, at either end, may be given; S and W negate the value. Minutes
// and seconds must be less than 60.
func Decode(s string) (float64, Flag, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, None, syntaxError(s, "is empty")
	}
	flag := None
	neg := false
	if r, n := utf8.DecodeRuneInString(str); n > 0 {
		if f, south, ok := hemisphere(r); ok {
			flag, neg = f, south
			str = str[n:]
		}
	}
	if r, n := utf8.DecodeLastRuneInString(str); n > 0 {
		if f, south, ok := hemisphere(r); ok {
			if flag != None {
				return 0, None, syntaxError(s, "has two hemisphere designators")
			}
			flag, neg = f, south
			str = str[:len(str)-n]
		}
	}
	str = strings.TrimSpace(str)
	if str != "" && (str[0] == '-' || str[0] == '+') {
		if str[0] == '-' {
			neg = !neg
		}
		str = str[1:]
	}
	if str == "" {
		return 0, None, syntaxError(s, "has no digits")
	}

	var (
		vals    [3]float64
		last    = -1
		colon   = false
		desig   = false
		pending strings.Builder
	)
	store := func(slot int) error {
		if pending.Len() == 0 {
			return syntaxError(s, "has a missing component")
		}
		if slot <= last || slot > second {
			return syntaxError(s, "has components out of order")
		}
		v, err := strconv.ParseFloat(pending.String(), 64)
		if err != nil {
			return syntaxError(s, "has a malformed number")
		}
		vals[slot] = v
		last = slot
		pending.Reset()
		return nil
	}
	for _, r := range str {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			pending.WriteRune(r)
		case r == ':':
			if desig {
				return 0, None, syntaxError(s, "mixes colons and designators")
			}
			colon = true
			if err := store(last + 1); err != nil {
				return 0, None, err
			}
		default:
			slot, ok := designator(r)
			if !ok {
				return 0, None, syntaxError(s, fmt.Sprintf("has an illegal character %q", r))
			}
			if colon {
				return 0, None, syntaxError(s, "mixes colons and designators")
			}
			desig = true
			if err := store(slot); err != nil {
				return 0, None, err
			}
		}
	}
	if pending.Len() > 0 {
		if err := store(last + 1); err != nil {
			return 0, None, err
		}
	} else if colon {
		return 0, None, syntaxError(s, "ends with a colon")
	}
	if vals[minute] >= 60 {
		return 0, None, rangeError(s, "has minutes not in [0,60)")
	}
	if vals[second] >= 60 {
		return 0, None, rangeError(s, "has seconds not in [0,60)")
	}
	v := vals[degree] + (vals[minute]+vals[second]/60)/60
	if neg {
		v = -v
	}
	return v, flag, nil
}

// DecodeLatLon parses a latitude and longitude pair. By default a is the
// latitude and b the longitude, but the order is swapped when the
// hemisphere designators say so (e.g. "73W 40N").
func DecodeLatLon(a, b string) (lat, lon float64, err error) {
	va, fa, err := Decode(a)
	if err != nil {
		return 0, 0, err
	}
	vb, fb, err := Decode(b)
	if err != nil {
		return 0, 0, err
	}
	if fa != None && fa == fb {
		return 0, 0, rangeError(a+" "+b, "has both coordinates in "+fa.String())
	}
	if fa == Longitude || fb == Latitude {
		va, vb = vb, va
		a, b = b, a
	}
	if !(va >= -90 && va <= 90) {
		return 0, 0, rangeError(a, "latitude not in [-90,90]")
	}
	if !(vb >= -540 && vb <= 540) {
		return 0, 0, rangeError(b, "longitude not in [-540,540]")
	}
	return va, vb, nil
}

// DecodeAzimuth parses an azimuth in [-180,360], reduced to [-180,180). A
// latitude hemisphere designator is rejected.
func DecodeAzimuth(s string) (float64, error) {
	azi, flag, err := Decode(s)
	if err != nil {
		return 0, err
	}
	if flag == Latitude {
		return 0, rangeError(s, "azimuth has a latitude hemisphere, N/S")
	}
	if !(azi >= -180 && azi <= 360) {
		return 0, rangeError(s, "azimuth not in [-180,360]")
	}
	if azi >= 180 {
		azi -= 360
	}
	return azi, nil
}

var (
	sixty = decimal.NewFromInt(60)
	scale = [3]decimal.Decimal{
		decimal.NewFromInt(1),
		sixty,
		decimal.NewFromInt(3600),
	}
)

// Encode formats angle (degrees) with prec digits after the decimal point
// of a degree. Precisions 0 and 1 print degrees only, 2 and 3 add minutes,
// and larger values add seconds with prec-4 decimals. Rounding carries into
// the more significant components, so 59.99999" never appears as 60".
func Encode(angle float64, prec int, flag Flag) string {
	if math.IsNaN(angle) {
		return "nan"
	}
	if math.IsInf(angle, 0) {
		if angle < 0 {
			return "-inf"
		}
		return "inf"
	}
	if prec < 0 {
		prec = 0
	}
	trailing, places := degree, prec
	switch {
	case prec >= 4:
		trailing, places = second, prec-4
	case prec >= 2:
		trailing, places = minute, prec-2
	}

	neg := false
	if flag == Azimuth {
		angle = math.Mod(angle, 360)
		if angle < 0 {
			angle += 360
		}
	} else {
		neg = math.Signbit(angle) && angle != 0
		angle = math.Abs(angle)
	}

	// The angle in units of the trailing component, rounded once.
	v := decimal.NewFromFloat(angle).Mul(scale[trailing]).Round(int32(places))
	neg = neg && !v.IsZero()
	var parts [3]decimal.Decimal
	for slot := degree; slot < trailing; slot++ {
		q, r := v.QuoRem(scale[trailing-slot], 0)
		parts[slot], v = q, r
	}
	parts[trailing] = v
	if flag == Azimuth && parts[degree].IntPart() >= 360 {
		parts[degree] = parts[degree].Sub(decimal.NewFromInt(360))
	}

	var b strings.Builder
	if neg && flag == None {
		b.WriteByte('-')
	}
	width := 0
	switch flag {
	case Latitude:
		width = 2
	case Longitude, Azimuth:
		width = 3
	}
	for slot := degree; slot <= trailing; slot++ {
		w, n := width, 0
		if slot != degree {
			w = 2
		}
		if slot == trailing {
			n = places
		}
		writePadded(&b, parts[slot].StringFixed(int32(n)), w)
		// A bare signed number needs no degree designator.
		if trailing != degree || flag != None {
			b.WriteString(designators[slot])
		}
	}
	switch {
	case flag == Latitude && neg:
		b.WriteByte('S')
	case flag == Latitude:
		b.WriteByte('N')
	case flag == Longitude && neg:
		b.WriteByte('W')
	case flag == Longitude:
		b.WriteByte('E')
	}
	return b.String()
}

var designators = [3]string{"d", "'", `"`}

// writePadded writes s zero-padded so that its integer part has at least
// width digits.
func writePadded(b *strings.Builder, s string, width int) {
	intLen := len(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intLen = i
	}
	for ; intLen < width; intLen++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}
