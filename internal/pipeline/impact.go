package pipeline

import (
	"fmt"
	"strings"

	"github.com/hoopsight/prospects/internal/table"
)

// Per-game source columns required before any impact score is computed.
// Rebounds are checked separately: either the split pair or the combined
// column qualifies.
var requiredPerGame = []string{
	"pts_per_g", "fg_per_g", "fga_per_g", "ft_per_g", "fta_per_g",
	"ast_per_g", "stl_per_g", "blk_per_g", "tov_per_g", "pf_per_g", "g",
}

// per-game column -> season-total column produced from it
var perGameTotals = map[string]string{
	"pts_per_g": "pts", "fg_per_g": "fg", "fga_per_g": "fga",
	"ft_per_g": "ft", "fta_per_g": "fta", "ast_per_g": "ast",
	"stl_per_g": "stl", "blk_per_g": "blk", "tov_per_g": "tov",
	"pf_per_g": "pf",
}

// Derived impact columns. Null means the team denominator was non-positive
// for that team-season; those rows are preserved, not dropped.
const (
	colPIEScore       = "pie_score"
	colPIENumerator   = "pie_numerator"
	colPIEDenominator = "pie_denominator"
)

// share of a combined rebound total attributed to the offensive glass when
// the source has no split
const combinedReboundOffensiveShare = 0.25

// SeasonImpacts converts a professional per-game statistics table into one
// row per (player, season, team) carrying season totals and the player's
// normalized share of team box-score events.
//
// Missing required columns fail the whole computation: an impact table built
// from an incomplete stat set would be garbage, so the caller gets an empty
// table and an error instead of partial scores. Missing values inside a
// present column degrade to zero totals.
func SeasonImpacts(stats *table.Table, startYear, endYear int) (*table.Table, error) {
	if stats == nil || stats.Len() == 0 {
		return table.Empty(), nil
	}

	stats = dedupeSeasons(stats)
	stats = filterSeasonRange(stats, startYear, endYear)
	if stats.Len() == 0 {
		return table.Empty(), nil
	}

	if missing := missingRequiredStats(stats); len(missing) > 0 {
		return table.Empty(), fmt.Errorf("professional stats missing required columns: %s", strings.Join(missing, ", "))
	}

	totals := seasonTotals(stats)
	return scoreTeamSeasons(totals), nil
}

// CareerImpact rolls per-season impact shares into one career summary per
// player: summed numerators over summed denominators (seasons with more team
// event volume weigh more than a per-season average would), peak win shares,
// peak box plus-minus, and a display-formatted career score. The output is
// sorted by the numeric score before formatting so the string column
// preserves numeric order.
func CareerImpact(stats *table.Table, startYear, endYear int) (*table.Table, error) {
	seasons, err := SeasonImpacts(stats, startYear, endYear)
	if err != nil {
		return table.Empty(), err
	}
	if seasons.Len() == 0 {
		return table.Empty(), nil
	}

	career := careerRollup(seasons)

	sorted := career.SortBy(func(a, b table.Row) bool {
		af, aok := a.Get("all_time_pie").Float()
		bf, bok := b.Get("all_time_pie").Float()
		if aok != bok {
			return aok // defined scores before undefined
		}
		return af > bf
	})

	out := table.New(ColPlayer)
	hasWS := sorted.HasColumn(ColHighestWS)
	hasBPM := sorted.HasColumn(ColHighestBPM)
	if hasWS {
		out.AddColumn(ColHighestWS)
	}
	if hasBPM {
		out.AddColumn(ColHighestBPM)
	}
	out.AddColumn(ColOverallPIE)

	for _, r := range sorted.Rows() {
		nr := table.Row{ColPlayer: r.Get(ColPlayer)}
		if hasWS {
			nr[ColHighestWS] = r.Get(ColHighestWS)
		}
		if hasBPM {
			nr[ColHighestBPM] = r.Get(ColHighestBPM)
		}
		if f, ok := r.Get("all_time_pie").Float(); ok {
			nr[ColOverallPIE] = table.Str(fmt.Sprintf("%.4f", f))
		} else {
			nr[ColOverallPIE] = table.Str("N/A")
		}
		out.Append(nr)
	}
	return out, nil
}

// dedupeSeasons collapses duplicate (player, season, team) rows, keeping the
// first occurrence.
func dedupeSeasons(stats *table.Table) *table.Table {
	seen := make(map[string]bool)
	return stats.Filter(func(r table.Row) bool {
		key := r.Get(colProPlayer).String() + "\x00" + r.Get(colProSeason).String() + "\x00" + r.Get(colProTeam).String()
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// filterSeasonRange keeps rows whose season parses numerically inside the
// inclusive range. A table without a season column passes through whole.
func filterSeasonRange(stats *table.Table, startYear, endYear int) *table.Table {
	if !stats.HasColumn(colProSeason) {
		return stats
	}
	return stats.Filter(func(r table.Row) bool {
		season, ok := r.Get(colProSeason).Float()
		return ok && season >= float64(startYear) && season <= float64(endYear)
	})
}

func missingRequiredStats(stats *table.Table) []string {
	var missing []string
	for _, col := range []string{colProPlayer, colProSeason, colProTeam} {
		if !stats.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	for _, col := range requiredPerGame {
		if !stats.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	splitRebounds := stats.HasColumn("orb_per_g") && stats.HasColumn("drb_per_g")
	if !splitRebounds && !stats.HasColumn("trb_per_g") {
		missing = append(missing, "rebounds (orb_per_g/drb_per_g or trb_per_g)")
	}
	return missing
}

// seasonTotals converts every per-game figure to a season total. Split
// offensive/defensive rebounds convert independently; a combined-only
// rebound column is split 25/75 offensive/defensive as an explicit modeling
// approximation.
func seasonTotals(stats *table.Table) *table.Table {
	out := table.New(stats.Columns()...)
	splitRebounds := stats.HasColumn("orb_per_g") && stats.HasColumn("drb_per_g")
	combinedRebounds := stats.HasColumn("trb_per_g")

	for _, r := range stats.Rows() {
		nr := r.Clone()
		games := r.Get("g").FloatOr(0)
		for perGame, total := range perGameTotals {
			nr[total] = table.Num(r.Get(perGame).FloatOr(0) * games)
		}
		switch {
		case splitRebounds:
			nr["oreb"] = table.Num(r.Get("orb_per_g").FloatOr(0) * games)
			nr["dreb"] = table.Num(r.Get("drb_per_g").FloatOr(0) * games)
		case combinedRebounds:
			trb := r.Get("trb_per_g").FloatOr(0) * games
			nr["oreb"] = table.Num(trb * combinedReboundOffensiveShare)
			nr["dreb"] = table.Num(trb * (1 - combinedReboundOffensiveShare))
		default:
			nr["oreb"] = table.Num(0)
			nr["dreb"] = table.Num(0)
		}
		out.Append(nr)
	}
	return out
}

// eventShare is the weighted box-score event formula applied both to a
// single player's totals (numerator) and to a whole team-season (the sum of
// its players' numerators, the denominator).
func eventShare(g func(string) float64) float64 {
	return g("pts") + g("fg") + g("ft") - g("fga") - g("fta") +
		g("dreb") + 0.5*g("oreb") + g("ast") + g("stl") + 0.5*g("blk") -
		g("pf") - g("tov")
}

// scoreTeamSeasons groups totals by (team, season), computes each group's
// denominator, and scores every player against it. A non-positive
// denominator makes the whole group's scores undefined; those rows keep
// null score, numerator, and denominator.
func scoreTeamSeasons(totals *table.Table) *table.Table {
	out := table.New(totals.Columns()...)
	out.AddColumn(colPIEScore)
	out.AddColumn(colPIENumerator)
	out.AddColumn(colPIEDenominator)

	groups := totals.GroupBy(func(r table.Row) string {
		return r.Get(colProTeam).String() + "\x00" + r.Get(colProSeason).String()
	})
	for _, g := range groups {
		den := 0.0
		for _, r := range g.Rows {
			den += eventShare(func(col string) float64 { return r.Get(col).FloatOr(0) })
		}
		for _, r := range g.Rows {
			nr := r.Clone()
			if den <= 0 {
				nr[colPIEScore] = table.Null()
				nr[colPIENumerator] = table.Null()
				nr[colPIEDenominator] = table.Null()
			} else {
				num := eventShare(func(col string) float64 { return r.Get(col).FloatOr(0) })
				nr[colPIEScore] = table.Num(num / den * 100)
				nr[colPIENumerator] = table.Num(num)
				nr[colPIEDenominator] = table.Num(den)
			}
			out.Append(nr)
		}
	}
	return out
}

// careerRollup aggregates season rows per player. Null seasons contribute
// nothing to the sums; they do not invalidate the career aggregate.
func careerRollup(seasons *table.Table) *table.Table {
	hasWS := seasons.HasColumn("ws")
	hasBPM := seasons.HasColumn("bpm")

	out := table.New(ColPlayer, "career_numerator", "career_denominator", "total_games",
		"first_season", "last_season", "all_time_pie")
	if hasWS {
		out.AddColumn(ColHighestWS)
	}
	if hasBPM {
		out.AddColumn(ColHighestBPM)
	}

	for _, g := range seasons.GroupBy(func(r table.Row) string {
		return r.Get(colProPlayer).String()
	}) {
		var num, den, games float64
		var maxWS, maxBPM, firstSeason, lastSeason table.Value
		maxWS, maxBPM, firstSeason, lastSeason = table.Null(), table.Null(), table.Null(), table.Null()

		for _, r := range g.Rows {
			if n, ok := r.Get(colPIENumerator).Float(); ok {
				num += n
			}
			if d, ok := r.Get(colPIEDenominator).Float(); ok {
				den += d
			}
			games += r.Get("g").FloatOr(0)
			if hasWS {
				maxWS = maxValue(maxWS, r.Get("ws"))
			}
			if hasBPM {
				maxBPM = maxValue(maxBPM, r.Get("bpm"))
			}
			if s, ok := r.Get(colProSeason).Float(); ok {
				firstSeason = minValue(firstSeason, table.Num(s))
				lastSeason = maxValue(lastSeason, table.Num(s))
			}
		}

		row := table.Row{
			ColPlayer:            table.Str(g.Key),
			"career_numerator":   table.Num(num),
			"career_denominator": table.Num(den),
			"total_games":        table.Num(games),
			"first_season":       firstSeason,
			"last_season":        lastSeason,
		}
		if den > 0 {
			row["all_time_pie"] = table.Num(num / den * 100)
		} else {
			row["all_time_pie"] = table.Null()
		}
		if hasWS {
			row[ColHighestWS] = maxWS
		}
		if hasBPM {
			row[ColHighestBPM] = maxBPM
		}
		out.Append(row)
	}
	return out
}

func maxValue(a, b table.Value) table.Value {
	bf, ok := b.Float()
	if !ok {
		return a
	}
	if af, ok := a.Float(); !ok || bf > af {
		return b
	}
	return a
}

func minValue(a, b table.Value) table.Value {
	bf, ok := b.Float()
	if !ok {
		return a
	}
	if af, ok := a.Float(); !ok || bf < af {
		return b
	}
	return a
}
