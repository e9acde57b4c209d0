package achievement

import "github.com/sandeepkv93/lifeboard/internal/model"

// Progress is one achievement's state for a user.
type Progress struct {
	Definition
	Count    int
	Percent  int
	Unlocked bool
	Claimed  bool
}

// ClaimedSet is the set of achievements the user has claimed.
type ClaimedSet map[model.AchievementID]bool

// Compute maps counters to progress for every catalog entry. It has no side
// effects and never fails: negative counts are treated as zero and Percent is
// always within [0, 100].
func Compute(c Counters, claimed ClaimedSet) []Progress {
	out := make([]Progress, 0, len(catalog))
	for _, def := range catalog {
		count := c.For(def.ID)
		if count < 0 {
			count = 0
		}
		p := Progress{
			Definition: def,
			Count:      count,
			Unlocked:   count >= def.Target,
			Claimed:    claimed[def.ID],
		}
		p.Percent = percent(count, def.Target)
		if p.Unlocked || p.Claimed {
			p.Percent = 100
		}
		out = append(out, p)
	}
	return out
}

func percent(count, target int) int {
	if target <= 0 {
		return 100
	}
	v := count * 100 / target
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

// Find returns the progress entry for id.
func Find(progress []Progress, id model.AchievementID) (Progress, bool) {
	for _, p := range progress {
		if p.ID == id {
			return p, true
		}
	}
	return Progress{}, false
}
