package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hoopsight/prospects/internal/table"
)

// PositionGroup is the coarse position bucket assigned to every reconciled
// player.
type PositionGroup string

const (
	PositionGuard   PositionGroup = "Guard"
	PositionForward PositionGroup = "Forward"
	PositionCenter  PositionGroup = "Center"
	PositionOther   PositionGroup = "Other"
)

// ColPositionGroup is the derived position column on the reconciled table.
const ColPositionGroup = "position_group"

// position-code columns probed in priority order
var positionColumns = []string{"pos", "POS", "position"}

// explicit position codes; matching is case-sensitive
var positionCodes = map[string]PositionGroup{
	"PG": PositionGuard, "SG": PositionGuard, "G": PositionGuard,
	"SF": PositionForward, "PF": PositionForward, "F": PositionForward,
	"C": PositionCenter,
}

var (
	feetInchesPattern = regexp.MustCompile(`^(\d)'(\d{1,2})"?$`)
	dayMonthPattern   = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})$`)
	monthDayPattern   = regexp.MustCompile(`^([A-Za-z]{3})-(\d{1,2})$`)
)

// spreadsheet date mangling turns a feet'inches height into day-month text;
// the month ordinal is the feet figure ("10-Jun" was 6'10")
var monthFeet = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// ClassifyPosition assigns a position group to one player row. An explicit
// position code wins; otherwise the height field decides; anything
// unreadable is Other, never an error.
func ClassifyPosition(r table.Row) PositionGroup {
	if v, _, ok := r.Probe(positionColumns...); ok {
		if g, known := positionCodes[v.String()]; known {
			return g
		}
		return PositionOther
	}
	if inches, ok := ParseHeightInches(r.Get("ht").String()); ok {
		return groupFromHeight(inches)
	}
	return PositionOther
}

// ClassifyPositions adds the position-group column to the table in place.
func ClassifyPositions(t *table.Table) {
	t.AddColumn(ColPositionGroup)
	for _, r := range t.Rows() {
		r[ColPositionGroup] = table.Str(string(ClassifyPosition(r)))
	}
}

// ParseHeightInches recovers a height in inches from the source's height
// text. Accepted forms, tried in order:
//
//	6'10"  or 6'10      feet and inches
//	10-Jun or Jun-10    the same height after spreadsheet date mangling
//	82                  plain inches
func ParseHeightInches(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if m := feetInchesPattern.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches, _ := strconv.Atoi(m[2])
		if inches < 12 {
			return feet*12 + inches, true
		}
		return 0, false
	}

	if m := dayMonthPattern.FindStringSubmatch(s); m != nil {
		return manglerHeight(m[2], m[1])
	}
	if m := monthDayPattern.FindStringSubmatch(s); m != nil {
		return manglerHeight(m[1], m[2])
	}

	if inches, err := strconv.Atoi(s); err == nil && inches > 0 {
		return inches, true
	}
	return 0, false
}

func manglerHeight(month, day string) (int, bool) {
	feet, ok := monthFeet[normalizeMonth(month)]
	if !ok {
		return 0, false
	}
	inches, err := strconv.Atoi(day)
	if err != nil || inches >= 12 {
		return 0, false
	}
	return feet*12 + inches, true
}

func normalizeMonth(m string) string {
	if len(m) != 3 {
		return m
	}
	return strings.ToUpper(m[:1]) + strings.ToLower(m[1:])
}

func groupFromHeight(inches int) PositionGroup {
	switch {
	case inches <= 74:
		return PositionGuard
	case inches <= 79:
		return PositionForward
	default:
		return PositionCenter
	}
}
