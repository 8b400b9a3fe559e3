package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadRoster reads a single-column CSV of team names. A first row reading
// "team" is treated as a header. Blank lines are skipped; duplicates are
// kept in file order since roster matching is set-like anyway.
func LoadRoster(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var teams []string
	for i, row := range rows {
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if i == 0 && strings.EqualFold(name, "team") {
			continue
		}
		teams = append(teams, name)
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("roster file %s lists no teams", path)
	}
	return teams, nil
}
