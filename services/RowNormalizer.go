package services

import "strings"

const fieldCount = 6

// NormalizeLine turns one raw log line into a Record. Blank lines, comments
// and lines with fewer than six fields are rejected with ok == false.
func NormalizeLine(line string) (record Record, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return record, false
	}
	parts := strings.Split(line, ";")
	if len(parts) < fieldCount {
		return record, false
	}
	record[0] = StripLeadingZeros(parts[0])
	for i := 1; i <= 3; i++ {
		record[i] = StripLeadingZerosDecimal(strings.ReplaceAll(parts[i], ".", ","))
	}
	record[4] = parts[4]
	record[5] = parts[5]
	return record, true
}

// StripLeadingZeros drops leading zeros from an integer field, keeping at
// least one character and leaving "0." prefixes alone.
func StripLeadingZeros(value string) string {
	for len(value) > 1 && value[0] == '0' && !strings.HasPrefix(value, "0.") {
		value = value[1:]
	}
	return value
}

// StripLeadingZerosDecimal drops leading zeros from the integer part of a
// signed decimal. Values without a separator are returned unchanged.
func StripLeadingZerosDecimal(value string) string {
	negative := strings.HasPrefix(value, "-")
	if negative {
		value = value[1:]
	}
	separator := ","
	if strings.Contains(value, ".") {
		separator = "."
	}
	integerPart, fraction, found := strings.Cut(value, separator)
	if found {
		for len(integerPart) > 1 && integerPart[0] == '0' {
			integerPart = integerPart[1:]
		}
		value = integerPart + separator + fraction
	}
	if negative {
		value = "-" + value
	}
	return value
}
