package classify

import "emergency-call-analysis/internal/models"

// keywordSet holds the two scoring tiers for one emergency type.
// Strong hits score 3, weak hits score 1.
type keywordSet struct {
	Strong []string
	Weak   []string
}

// emergencyTypeOrder is the deterministic enumeration order for scoring
// and for breaking ties between equally scored types.
var emergencyTypeOrder = []string{
	models.TypeAmbulance,
	models.TypeFire,
	models.TypePolice,
}

var emergencyKeywords = map[string]keywordSet{
	models.TypeAmbulance: {
		Strong: []string{
			"bleeding", "unconscious", "heart attack", "breathless",
			"accident", "collapsed", "seizure", "injured", "burn", "dying",
		},
		Weak: []string{
			"pain", "hurt", "fell", "fever", "vomiting", "blood",
		},
	},
	models.TypeFire: {
		Strong: []string{
			"fire", "smoke", "blast", "explosion", "burning",
		},
		Weak: []string{
			"gas", "leak", "short circuit",
		},
	},
	models.TypePolice: {
		Strong: []string{
			"theft", "robbery", "murder", "attack", "knife",
			"gun", "assault", "threat",
		},
		Weak: []string{
			"fight", "stolen", "missing", "argument",
		},
	},
}

// priorityTier maps a priority level to its trigger keywords. Tiers are
// scanned in order; the first tier with any keyword present wins.
type priorityTier struct {
	Level    string
	Keywords []string
}

var priorityTiers = []priorityTier{
	{models.PriorityCritical, []string{
		"bleeding", "unconscious", "not breathing",
		"heart attack", "fire", "explosion", "gun",
	}},
	{models.PriorityHigh, []string{
		"accident", "injured", "burn", "attack",
	}},
	{models.PriorityMedium, []string{
		"pain", "fell", "fight", "stolen",
	}},
}
