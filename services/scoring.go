package services

import "math"

// Score berechnet den Evaluations-Score 0–100 aus Aggregat-Zählern und der
// Gewichtungstabelle. Pro Kategorie: weight × min(count, cap)/cap; cap 0
// trägt nichts bei. Monoton nicht-fallend bis zum Cap, darüber konstant.
// Never cached — always recomputed from current aggregates.
func Score(counts Counts, table WeightTable) int {
	total := 0.0
	for cat, wc := range table {
		if wc.Cap <= 0 || wc.Weight <= 0 {
			continue
		}
		n := counts[cat]
		if n <= 0 {
			continue
		}
		if n > wc.Cap {
			n = wc.Cap
		}
		total += wc.Weight * float64(n) / float64(wc.Cap)
	}
	score := int(math.Round(total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// PointEstimate schätzt den Punktwert eines einzelnen zusätzlichen Records
// einer Kategorie: round(weight/cap).
func PointEstimate(wc WeightCap) int {
	if wc.Cap <= 0 {
		return 0
	}
	return int(math.Round(wc.Weight / float64(wc.Cap)))
}
