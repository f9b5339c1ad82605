package remedies

import "strings"

// Search matches a health issue against the dataset using a widening
// cascade: exact issue match first, then substring match, then individual
// query words longer than two characters. The first stage that produces any
// hits wins, so precise queries never pick up loose matches.
func Search(records []Record, disease string) []Record {
	query := strings.ToLower(strings.TrimSpace(disease))
	if query == "" {
		return nil
	}

	var exact []Record
	for _, record := range records {
		if strings.ToLower(strings.TrimSpace(record.HealthIssue)) == query {
			exact = append(exact, record)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var contains []Record
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.HealthIssue), query) {
			contains = append(contains, record)
		}
	}
	if len(contains) > 0 {
		return contains
	}

	// Per-word stage: the first word that finds anything decides the result,
	// so leading words dominate queries like "severe migraine".
	for _, word := range strings.Fields(query) {
		if len(word) <= 2 {
			continue
		}
		var byWord []Record
		for _, record := range records {
			if strings.Contains(strings.ToLower(record.HealthIssue), word) {
				byWord = append(byWord, record)
			}
		}
		if len(byWord) > 0 {
			return byWord
		}
	}
	return nil
}
