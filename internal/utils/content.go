package utils

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

const sizeStep = 1024

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// IsBinary reports whether data holds a NUL byte or is not valid UTF-8.
// Empty input is text.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}

// FormatFileSize renders a byte count for log fields: whole bytes below one
// kilobyte, one decimal below ten of a larger unit, whole units above.
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unitIndex := 0
	for scaled >= sizeStep && unitIndex < len(sizeUnits)-1 {
		scaled /= sizeStep
		unitIndex++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	formatted := strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0")
	return formatted + sizeUnits[unitIndex]
}
