package houses

// Aggregate averages each field across the submissions that carry it, with
// candy counted as 0 or 1. The no-candy reason is not averaged. An empty set
// yields nil.
func Aggregate(set SubmissionSet) *Stats {
	if len(set) == 0 {
		return nil
	}

	var candy, candyType, candyCount float64
	var rated int
	for _, s := range set {
		if !s.Candy {
			continue
		}
		candy++
		candyType += s.CandyType
		candyCount += s.CandyCount
		rated++
	}

	stats := &Stats{Candy: candy / float64(len(set))}
	if rated > 0 {
		meanType := candyType / float64(rated)
		meanCount := candyCount / float64(rated)
		stats.CandyType = &meanType
		stats.CandyCount = &meanCount
	}
	return stats
}
