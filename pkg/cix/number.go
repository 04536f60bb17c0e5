package cix

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a CIX numeric value tolerantly: a plain decimal, or
// the composite "a.-b" literal, defaulting to 0 on anything else.
func ParseNumber(s string) float64 {
	v, _ := ParseCoordinate(s)
	return v
}

// ParseCoordinate parses a CIX coordinate value. It returns the numeric
// value and whether the value was a composite subtraction literal of the
// form "<number>.-<number>" (e.g. "1550.-305.96", meaning 1550 - 305.96).
// Composite values are already expressed in bottom-origin terms and must
// bypass the Y flip.
//
// The composite form requires more than one decimal point overall and an
// embedded minus sign; any other unparseable shape yields 0, never an
// error. There is deliberately no general expression evaluation here.
func ParseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, false
	}
	if strings.Count(s, ".") > 1 {
		if i := strings.IndexByte(s, '-'); i > 0 {
			left, errL := strconv.ParseFloat(s[:i], 64)
			right, errR := strconv.ParseFloat(s[i+1:], 64)
			if errL == nil && errR == nil {
				return left - right, true
			}
		}
	}
	return 0, false
}

// FlipY converts a Y coordinate from top-left-origin to bottom-left-origin
// convention. An unknown (non-positive or non-finite) sheet height makes
// the flip a no-op.
func FlipY(y, sheetHeight float64) float64 {
	if sheetHeight <= 0 || math.IsNaN(sheetHeight) || math.IsInf(sheetHeight, 0) {
		return y
	}
	return sheetHeight - y
}
