package pipeline

import (
	"math"

	"github.com/hoopsight/prospects/internal/table"
)

// Derived composite feature column names.
const (
	ColEfficientUsage   = "Efficient usage"
	ColPointsPerMinute  = "points per minute"
	ColImpactPerUsage   = "impact per usage"
	ColTwoWayImpact     = "two way impact"
	ColVersatilityScore = "versatility score"
)

// derivedFeature computes one composite column from existing columns. A
// feature is skipped entirely when its column already exists or any input
// column is absent from the table; a null input in a single row yields a
// null cell (scrubbed to zero at the end of reconciliation).
type derivedFeature struct {
	name    string
	inputs  []string
	compute func(in []float64) float64
}

var derivedFeatures = []derivedFeature{
	{
		name:   ColEfficientUsage,
		inputs: []string{"usg", "TS_per"},
		compute: func(in []float64) float64 { return in[0] * in[1] / 100 },
	},
	{
		name:   ColPointsPerMinute,
		inputs: []string{"pts", "Min_per"},
		// epsilon keeps zero-minute seasons finite
		compute: func(in []float64) float64 { return in[0] / (in[1] + 0.1) },
	},
	{
		name:   ColImpactPerUsage,
		inputs: []string{"bpm", "usg"},
		compute: func(in []float64) float64 { return in[0] / (in[1] + 0.1) },
	},
	{
		name:   ColTwoWayImpact,
		inputs: []string{"obpm", "dbpm"},
		compute: func(in []float64) float64 { return in[0] + in[1] },
	},
	{
		name:   ColVersatilityScore,
		inputs: []string{"AST_per", "ORB_per", "blk_per"},
		compute: func(in []float64) float64 { return in[0] + in[1] + in[2] },
	},
}

// Reconcile joins the per-source tables into the final one-row-per-player
// feature table:
//
//   - all-star counts left-join onto college records, absent counts become 0
//   - career impact inner-joins: a player missing either side is dropped
//     entirely, there is no partial record
//   - attributes (position/physical) left-join when provided; pass nil to
//     omit the source
//
// then derives the composite features and scrubs infinities and remaining
// nulls to zero.
func Reconcile(college, allstar, career, attributes *table.Table) *table.Table {
	if college == nil || career == nil {
		return table.Empty()
	}

	if allstar == nil {
		allstar = table.New(ColPlayer, ColAllStarApps)
	}
	// LeftJoin clones every row, so the in-place fills below never touch the
	// caller's source tables.
	merged := college.LeftJoin(allstar, ColPlayer)
	fillColumn(merged, ColAllStarApps, table.Num(0))

	merged = merged.InnerJoin(career, ColPlayer)

	if attributes != nil && attributes.Len() > 0 {
		merged = merged.LeftJoin(attributes, ColPlayer)
	}

	deriveFeatures(merged)
	scrub(merged)
	return merged.DropDuplicates(ColPlayer)
}

func deriveFeatures(t *table.Table) {
	for _, f := range derivedFeatures {
		if t.HasColumn(f.name) {
			continue
		}
		present := true
		for _, in := range f.inputs {
			if !t.HasColumn(in) {
				present = false
				break
			}
		}
		if !present {
			continue
		}
		t.AddColumn(f.name)
		for _, r := range t.Rows() {
			in := make([]float64, len(f.inputs))
			ok := true
			for i, col := range f.inputs {
				v, isNum := r.Get(col).Float()
				if !isNum {
					ok = false
					break
				}
				in[i] = v
			}
			if ok {
				r[f.name] = table.Num(f.compute(in))
			} else {
				r[f.name] = table.Null()
			}
		}
	}
}

// fillColumn replaces null cells of one column with def.
func fillColumn(t *table.Table, col string, def table.Value) {
	if !t.HasColumn(col) {
		return
	}
	for _, r := range t.Rows() {
		if r.Get(col).IsNull() {
			r[col] = def
		}
	}
}

// scrub replaces every ±Inf and every remaining null with 0 so the table is
// directly consumable by the estimator.
func scrub(t *table.Table) {
	for _, r := range t.Rows() {
		for _, col := range t.Columns() {
			v := r.Get(col)
			if v.IsNull() {
				r[col] = table.Num(0)
				continue
			}
			if f, ok := v.Float(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				r[col] = table.Num(0)
			}
		}
	}
}
