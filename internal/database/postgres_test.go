package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"numbered migration", "001_initial_schema.sql", 1},
		{"later migration", "014_add_streaks.sql", 14},
		{"no numeric prefix", "initial_schema.sql", 0},
		{"not a sql file", "001_notes.md", 0},
		{"no underscore", "001.sql", 0},
		{"zero version", "000_empty.sql", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.filename); got != tc.expected {
				t.Errorf("migrationVersion(%q): expected %d, got %d", tc.filename, tc.expected, got)
			}
		})
	}
}
