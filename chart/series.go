package chart

import (
	"fmt"
	"strings"
)

// Series identifies one of the counters recorded for every sample.
type Series uint8

const (
	Total Series = iota
	Valid
	Unverified
	// NumSeries is the number of known series. It is not itself a series.
	NumSeries
)

// DrawOrder is the order in which series are painted. Later series are drawn
// on top of earlier ones.
var DrawOrder = [NumSeries]Series{Unverified, Valid, Total}

func (s Series) String() string {
	switch s {
	case Total:
		return "total"
	case Valid:
		return "valid"
	case Unverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// ParseSeries maps a case-insensitive series name to its Series.
func ParseSeries(name string) (Series, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "total":
		return Total, nil
	case "valid":
		return Valid, nil
	case "unverified":
		return Unverified, nil
	}
	return 0, fmt.Errorf("unknown series %q", name)
}
