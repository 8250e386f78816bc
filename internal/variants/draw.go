package variants

// drawVariant picks one candidate with probability weight/total. rnd must
// return a value in [0, 1).
//
// Candidates with a non-positive weight never win while some weight is
// positive. When no candidate has positive weight the pick is uniform.
func drawVariant(candidates []*ContentVariant, rnd func() float64) *ContentVariant {
	weighted := make([]*ContentVariant, 0, len(candidates))
	all := make([]*ContentVariant, 0, len(candidates))
	total := 0.0

	for _, c := range candidates {
		if c == nil {
			continue
		}
		all = append(all, c)
		if c.Weight > 0 {
			weighted = append(weighted, c)
			total += c.Weight
		}
	}

	if len(all) == 0 {
		return nil
	}

	if total <= 0 {
		idx := int(rnd() * float64(len(all)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(all) {
			idx = len(all) - 1
		}
		return all[idx]
	}

	return pickWeighted(weighted, rnd()*total)
}

// pickWeighted walks candidates in order subtracting each weight from r and
// returns the first one at which r drops to zero or below. r is expected in
// [0, total). Rounding that leaves r positive falls back to the last candidate.
func pickWeighted(candidates []*ContentVariant, r float64) *ContentVariant {
	if len(candidates) == 0 {
		return nil
	}
	for _, c := range candidates {
		r -= c.Weight
		if r <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
