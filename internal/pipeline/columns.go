package pipeline

// Canonical column names shared by the pipeline stages. Player name is the
// join key throughout; no surrogate ID exists, so identical names across
// sources merge. All cross-source matching goes through these constants and
// the table join methods so a future composite key localizes here.
const (
	ColPlayer = "PLAYER"

	// All-star source columns.
	colSelectionPlayer = "player"
	colSelectionSeason = "season"
	colSelectionLeague = "lg"

	// College source columns.
	colCollegePlayer = "player_name"
	colCollegeYear   = "year"
	colCollegeBPM    = "bpm"

	// Draft source columns.
	colDraftYear = "YEAR"

	// Professional stats source columns.
	colProPlayer = "player"
	colProSeason = "season"
	colProTeam   = "team_id"

	// Output columns.
	ColAllStarApps = "allstar_apps"
	ColHighestWS   = "Highest_WS"
	ColHighestBPM  = "Highest_BPM"
	ColOverallPIE  = "Overall PIE"
)

// league whose selections qualify as all-star appearances
const qualifyingLeague = "NBA"
