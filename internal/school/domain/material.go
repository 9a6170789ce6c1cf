package domain

import "strings"

// MaterialType is the kind of content a material points at.
type MaterialType string

const (
	MaterialTypeVideo MaterialType = "video"
	MaterialTypeURL   MaterialType = "url"
)

// Valid reports whether t is a known material type.
func (t MaterialType) Valid() bool {
	return t == MaterialTypeVideo || t == MaterialTypeURL
}

// TargetRange is a success bucket of course averages, e.g. "40-60".
type TargetRange string

const (
	Range0To20   TargetRange = "0-20"
	Range20To40  TargetRange = "20-40"
	Range40To60  TargetRange = "40-60"
	Range60To80  TargetRange = "60-80"
	Range80To100 TargetRange = "80-100"
)

// TargetRanges lists the buckets in ascending order.
var TargetRanges = []TargetRange{Range0To20, Range20To40, Range40To60, Range60To80, Range80To100}

// Valid reports whether r is one of TargetRanges.
func (r TargetRange) Valid() bool {
	for _, v := range TargetRanges {
		if r == v {
			return true
		}
	}
	return false
}

// TargetRangeFor buckets a course average. Upper bounds are inclusive so every
// average falls in exactly one bucket. An ungraded course has no average and
// lands in the top bucket, as no lower bucket claims it.
func TargetRangeFor(average *float64) TargetRange {
	if average == nil {
		return Range80To100
	}
	switch avg := *average; {
	case avg <= 20:
		return Range0To20
	case avg <= 40:
		return Range20To40
	case avg <= 60:
		return Range40To60
	case avg <= 80:
		return Range60To80
	default:
		return Range80To100
	}
}

// ClassLevels are the grade levels materials can target.
var ClassLevels = []string{"9", "10", "11", "12"}

// MatchesClass reports whether a material for level applies to className. Class
// names start with their level ("10-B"), so "1" must not match "10-B".
func MatchesClass(level, className string) bool {
	if level == "" || !strings.HasPrefix(className, level) {
		return false
	}
	rest := className[len(level):]
	return rest == "" || rest[0] < '0' || rest[0] > '9'
}
