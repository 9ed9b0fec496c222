package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsight/prospects/internal/table"
)

func reconcileCollege() *table.Table {
	t := table.New(ColPlayer, "usg", "TS_per", "pts", "Min_per", "bpm",
		"obpm", "dbpm", "AST_per", "ORB_per", "blk_per")
	return t
}

func reconcileCollegeRow(player string, vals map[string]float64) table.Row {
	r := table.Row{ColPlayer: table.Str(player)}
	for k, v := range vals {
		r[k] = table.Num(v)
	}
	return r
}

func reconcileCareer(players ...string) *table.Table {
	t := table.New(ColPlayer, ColOverallPIE)
	for _, p := range players {
		t.Append(table.Row{ColPlayer: table.Str(p), ColOverallPIE: table.Str("10.0000")})
	}
	return t
}

func TestReconcileInnerJoinDropsUnmatched(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("Kept", nil))
	college.Append(reconcileCollegeRow("Dropped", nil))

	out := Reconcile(college, nil, reconcileCareer("Kept"), nil)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Kept", out.Row(0).Get(ColPlayer).String())
}

func TestReconcileBackfillsAllStarZero(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("Star", nil))
	college.Append(reconcileCollegeRow("Bench", nil))

	allstar := table.New(ColPlayer, ColAllStarApps)
	allstar.Append(table.Row{ColPlayer: table.Str("Star"), ColAllStarApps: table.Num(3)})

	out := Reconcile(college, allstar, reconcileCareer("Star", "Bench"), nil)
	require.Equal(t, 2, out.Len())

	apps := map[string]float64{}
	for _, r := range out.Rows() {
		apps[r.Get(ColPlayer).String()] = r.Get(ColAllStarApps).FloatOr(-1)
	}
	assert.Equal(t, 3.0, apps["Star"])
	assert.Equal(t, 0.0, apps["Bench"], "never selected means zero appearances, not missing")
}

func TestReconcileDerivedFeatures(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("A", map[string]float64{
		"usg": 25, "TS_per": 60,
		"pts": 10, "Min_per": 0,
		"bpm": 8, "obpm": 5, "dbpm": 3,
		"AST_per": 20, "ORB_per": 5, "blk_per": 2,
	}))

	out := Reconcile(college, nil, reconcileCareer("A"), nil)
	require.Equal(t, 1, out.Len())
	r := out.Row(0)

	assert.InDelta(t, 15.0, r.Get(ColEfficientUsage).FloatOr(0), 1e-9)
	// zero minutes stays finite through the epsilon: 10 / 0.1
	assert.InDelta(t, 100.0, r.Get(ColPointsPerMinute).FloatOr(0), 1e-9)
	assert.InDelta(t, 8.0/25.1, r.Get(ColImpactPerUsage).FloatOr(0), 1e-9)
	assert.InDelta(t, 8.0, r.Get(ColTwoWayImpact).FloatOr(0), 1e-9)
	assert.InDelta(t, 27.0, r.Get(ColVersatilityScore).FloatOr(0), 1e-9)
}

func TestReconcileNullInputsScrubToZero(t *testing.T) {
	college := reconcileCollege()
	row := reconcileCollegeRow("A", map[string]float64{"TS_per": 60})
	row["usg"] = table.Null()
	college.Append(row)

	out := Reconcile(college, nil, reconcileCareer("A"), nil)
	require.Equal(t, 1, out.Len())

	r := out.Row(0)
	// a null input makes the derived cell null, and the scrub makes it zero
	assert.Equal(t, 0.0, r.Get(ColEfficientUsage).FloatOr(-1))
	assert.Equal(t, 0.0, r.Get("usg").FloatOr(-1))
}

func TestReconcileSkipsFeatureWhenInputAbsent(t *testing.T) {
	college := table.New(ColPlayer, "usg") // no TS_per column at all
	college.Append(table.Row{ColPlayer: table.Str("A"), "usg": table.Num(25)})

	out := Reconcile(college, nil, reconcileCareer("A"), nil)
	require.Equal(t, 1, out.Len())
	assert.False(t, out.HasColumn(ColEfficientUsage))
}

func TestReconcileAttributesOptional(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("A", nil))

	attrs := table.New(ColPlayer, "pos")
	attrs.Append(table.Row{ColPlayer: table.Str("A"), "pos": table.Str("PG")})

	withAttrs := Reconcile(college, nil, reconcileCareer("A"), attrs)
	require.Equal(t, 1, withAttrs.Len())
	assert.Equal(t, "PG", withAttrs.Row(0).Get("pos").String())

	withoutAttrs := Reconcile(college, nil, reconcileCareer("A"), nil)
	assert.False(t, withoutAttrs.HasColumn("pos"))

	empty := Reconcile(college, nil, reconcileCareer("A"), table.Empty())
	assert.False(t, empty.HasColumn("pos"))
}

func TestReconcileDoesNotMutateSources(t *testing.T) {
	college := reconcileCollege()
	row := reconcileCollegeRow("A", nil)
	row["usg"] = table.Null()
	college.Append(row)
	career := reconcileCareer("A")

	Reconcile(college, nil, career, nil)

	assert.True(t, college.Row(0).Get("usg").IsNull(), "source table must stay untouched")
	assert.False(t, college.HasColumn(ColAllStarApps))
}

func TestReconcileNilMandatorySources(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("A", nil))

	assert.Equal(t, 0, Reconcile(nil, nil, reconcileCareer("A"), nil).Len())
	assert.Equal(t, 0, Reconcile(college, nil, nil, nil).Len())
}

func TestReconcileDeduplicatesPlayers(t *testing.T) {
	college := reconcileCollege()
	college.Append(reconcileCollegeRow("A", map[string]float64{"usg": 25}))
	college.Append(reconcileCollegeRow("A", map[string]float64{"usg": 30}))

	out := Reconcile(college, nil, reconcileCareer("A"), nil)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, 25.0, out.Row(0).Get("usg").FloatOr(0))
}
