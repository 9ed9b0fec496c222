package pipeline

import (
	"github.com/hoopsight/prospects/internal/table"
)

// AllStarAppearances reduces a season-by-season selection table to one
// appearance count per player, restricted to NBA selections inside the
// closed year range. Players with zero qualifying selections are absent
// from the output, not present with a zero; the reconciler backfills zero.
// Malformed or empty input yields an empty table, never an error.
func AllStarAppearances(selections *table.Table, startYear, endYear int) *table.Table {
	if selections == nil {
		return table.Empty()
	}

	qualifying := selections.Filter(func(r table.Row) bool {
		if r.Get(colSelectionLeague).String() != qualifyingLeague {
			return false
		}
		season, ok := r.Get(colSelectionSeason).Float()
		return ok && season >= float64(startYear) && season <= float64(endYear)
	})

	out := table.New(ColPlayer, ColAllStarApps)
	for _, g := range qualifying.GroupBy(func(r table.Row) string {
		return r.Get(colSelectionPlayer).String()
	}) {
		if g.Key == "" {
			continue
		}
		out.Append(table.Row{
			ColPlayer:      table.Str(g.Key),
			ColAllStarApps: table.Num(float64(len(g.Rows))),
		})
	}
	return out.DropDuplicates(ColPlayer)
}
