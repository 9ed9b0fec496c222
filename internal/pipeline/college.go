package pipeline

import (
	"github.com/hoopsight/prospects/internal/table"
)

// CollegeRecords reduces a college per-season table to the single best
// season per player and joins it against draft outcomes. Only players who
// both played college ball inside the year range and were drafted inside it
// survive; undrafted players are dropped, never defaulted.
//
// features, when non-empty, projects the college side to the named columns
// before the draft join (the join key is always kept).
func CollegeRecords(college, draft *table.Table, startYear, endYear int, features []string) *table.Table {
	if college == nil || draft == nil {
		return table.Empty()
	}

	draft = draft.Filter(yearInRange(colDraftYear, startYear, endYear))
	college = college.Filter(yearInRange(colCollegeYear, startYear, endYear))

	best := bestSeason(college)

	best = best.Rename(colCollegePlayer, ColPlayer)
	if len(features) > 0 {
		cols := append([]string{ColPlayer}, features...)
		best = best.Select(cols).DropDuplicates(ColPlayer)
	}

	merged := best.InnerJoin(draft, ColPlayer)
	return merged.DropNull().DropDuplicates(ColPlayer)
}

// bestSeason keeps, for each player, the row with the maximum bpm. Seasons
// without a bpm rank below every scored season, even negative ones. Ties
// break toward the most recent season so repeated runs agree; beyond that
// the incoming row order decides.
func bestSeason(college *table.Table) *table.Table {
	sorted := college.SortBy(func(a, b table.Row) bool {
		ab, aok := a.Get(colCollegeBPM).Float()
		bb, bok := b.Get(colCollegeBPM).Float()
		if aok != bok {
			return aok
		}
		if aok && ab != bb {
			return ab > bb
		}
		return a.Get(colCollegeYear).FloatOr(0) > b.Get(colCollegeYear).FloatOr(0)
	})
	return sorted.DropDuplicates(colCollegePlayer)
}

func yearInRange(col string, start, end int) func(table.Row) bool {
	return func(r table.Row) bool {
		y, ok := r.Get(col).Float()
		return ok && y >= float64(start) && y <= float64(end)
	}
}
