package research

// sourcePriority ranks analysis input sources. Lower is better: a merged
// multi-source dataset beats a single CSV, which beats a single file, which
// beats an externally linked record.
var sourcePriority = map[AnalysisSource]int{
	SourceMerged: 0,
	SourceCSV:    1,
	SourceFile:   2,
	SourceLinked: 3,
}

// SelectPreferred picks exactly one analysis from rows of the same type by
// source priority. Ties resolve to the first-encountered row, so the result
// is stable for identical inputs. Returns nil for an empty slice.
func SelectPreferred(rows []Analysis) *Analysis {
	var best *Analysis
	bestRank := len(sourcePriority) + 1
	for i := range rows {
		rank, ok := sourcePriority[rows[i].Source]
		if !ok {
			rank = len(sourcePriority)
		}
		if rank < bestRank {
			best = &rows[i]
			bestRank = rank
		}
	}
	return best
}

// SelectPreferredByType groups mixed-type rows and picks one analysis per
// type using SelectPreferred.
func SelectPreferredByType(rows []Analysis) map[AnalysisType]*Analysis {
	grouped := make(map[AnalysisType][]Analysis)
	order := make([]AnalysisType, 0, len(rows))
	for _, row := range rows {
		if _, seen := grouped[row.Type]; !seen {
			order = append(order, row.Type)
		}
		grouped[row.Type] = append(grouped[row.Type], row)
	}

	selected := make(map[AnalysisType]*Analysis, len(order))
	for _, analysisType := range order {
		selected[analysisType] = SelectPreferred(grouped[analysisType])
	}
	return selected
}
