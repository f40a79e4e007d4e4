package playbook

import (
	"regexp"
	"strconv"
	"strings"
)

// UsageLevel buckets how hard a fleet runs each day. It drives the
// equipment, power, charging, and service recommendations.
type UsageLevel int

const (
	UsageUnknown UsageLevel = iota
	UsageLight               // a few hours daily
	UsageMedium              // about one shift
	UsageTwoShift            // often two shifts
	UsageHeavy               // multiple shifts or long runtime
)

// Usage pairs the classified level with the plain-English phrase shown
// in the brief.
type Usage struct {
	Level  UsageLevel
	Phrase string
}

var hoursRe = regexp.MustCompile(`(?i)(\d{1,2})\s*(?:hr|hrs|hour|hours)\b`)

// maxHours returns the largest "<N> hours" figure mentioned in notes.
func maxHours(notes string) int {
	hours := 0
	for _, m := range hoursRe.FindAllStringSubmatch(notes, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > hours {
			hours = n
		}
	}
	return hours
}

var multiShiftKeywords = []string{"24/7", "24x7", "three shift", "3 shift", "triple shift"}
var twoShiftKeywords = []string{"two shift", "2 shift", "double shift"}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// classifyUsage converts note hints into a daily-usage bucket. Shift
// keywords are checked first and short-circuit the hour thresholds.
func classifyUsage(notes string) Usage {
	n := strings.ToLower(notes)

	if containsAny(n, multiShiftKeywords) {
		return Usage{UsageHeavy, "Heavy (multiple shifts / long hours)"}
	}
	if containsAny(n, twoShiftKeywords) {
		return Usage{UsageTwoShift, "Medium to heavy (often two shifts)"}
	}

	switch h := maxHours(n); {
	case h >= 12:
		return Usage{UsageHeavy, "Heavy (long daily runtime)"}
	case h >= 8:
		return Usage{UsageMedium, "Medium (about one shift)"}
	case h >= 1:
		return Usage{UsageLight, "Light to medium (a few hours daily)"}
	}
	return Usage{UsageUnknown, "Unknown"}
}

// environment captures independent operating-context flags derived from
// notes and industry text. Flags are not mutually exclusive.
type environment struct {
	cold    bool
	dusty   bool
	ramps   bool
	outdoor bool
	indoor  bool
}

func detectEnvironment(notes, industry string) environment {
	n := strings.ToLower(notes)
	i := strings.ToLower(industry)

	return environment{
		cold:  containsAny(n, []string{"cold", "freezer", "refrigerated", "cold storage"}),
		dusty: containsAny(n, []string{"dust", "sawdust", "grain", "powder"}),
		ramps: containsAny(n, []string{"ramp", "grade", "slope"}),
		outdoor: containsAny(n, []string{"outdoor", "yard", "lot"}) ||
			containsAny(i, []string{"construction", "yard", "lumber"}),
		indoor: strings.Contains(n, "indoor") ||
			strings.Contains(i, "warehouse") || strings.Contains(i, "distribution"),
	}
}
