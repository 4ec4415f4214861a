package perfui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatFloat right-aligns v in a field wide enough for digits integer
// digits plus precision fractional digits. Values that do not fit are
// clamped to all nines (99.999 for digits=2, precision=3).
func FormatFloat(digits, precision uint8, v float64) string {
	digits = max(digits, 1)
	limit := math.Pow10(int(digits))
	if v >= limit {
		v = limit - math.Pow10(-int(precision))
	}
	width := int(digits)
	if precision > 0 {
		width += int(precision) + 1
	}
	return fmt.Sprintf("%*.*f", width, precision, v)
}

// FormatInt right-aligns v in a digits-wide field, clamping to all nines.
// Negative values reserve one column for the sign.
func FormatInt(digits uint8, v int64) string {
	var width int
	if v < 0 {
		d := max(digits, 2) - 1
		limit := pow10i(d)
		if v <= -limit {
			v = -(limit - 1)
		}
		width = int(d) + 1
	} else {
		d := max(digits, 1)
		limit := pow10i(d)
		if v >= limit {
			v = limit - 1
		}
		width = int(d)
	}
	return fmt.Sprintf("%*d", width, v)
}

func pow10i(n uint8) int64 {
	r := int64(1)
	for range min(n, 18) {
		r *= 10
	}
	return r
}

const maxPrettySeconds = 99*3600 + 59*60 + 59

// FormatDuration renders d as HH:MM:SS.fff, dropping leading zero hours
// and minutes while keeping the field width constant. Durations past
// 99:59:59 are clamped.
func FormatDuration(precision uint8, d time.Duration) string {
	precision = min(precision, 9)
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	if secs > maxPrettySeconds {
		if precision > 0 {
			return "99:59:59." + strings.Repeat("9", int(precision))
		}
		return "99:59:59"
	}
	nanos := uint32(d % time.Second)
	return FormatHMS(precision, uint32(secs/3600), uint32(secs/60), uint32(secs), nanos)
}

// FormatHMS formats a wall-clock style time. Minutes and seconds are taken
// modulo 60 and hours modulo 100.
func FormatHMS(precision uint8, h, m, s, nanos uint32) string {
	precision = min(precision, 9)
	hrs := h % 100
	mins := m % 60
	secs := s % 60
	frac := nanos / uint32(pow10i(9-precision))

	switch {
	case precision > 0 && hrs > 0:
		return fmt.Sprintf("%2d:%02d:%02d.%0*d", hrs, mins, secs, precision, frac)
	case precision > 0 && mins > 0:
		return fmt.Sprintf("%5d:%02d.%0*d", mins, secs, precision, frac)
	case precision > 0:
		return fmt.Sprintf("%8d.%0*d", secs, precision, frac)
	case hrs > 0:
		return fmt.Sprintf("%2d:%02d:%02d", hrs, mins, secs)
	case mins > 0:
		return fmt.Sprintf("%5d:%02d", mins, secs)
	default:
		return fmt.Sprintf("%8d", secs)
	}
}
