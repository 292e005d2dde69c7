package database

import (
	"strings"
	"testing"
)

func TestMigrationTaskForeignKeys(t *testing.T) {
	raw, err := migrations.ReadFile("migrations/00001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	want := map[string]string{
		"user_id":    "ON DELETE CASCADE",
		"created_by": "ON DELETE RESTRICT",
	}
	found := map[string]bool{}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.Contains(line, "REFERENCES users(id)") {
			continue
		}
		rule, ok := want[fields[0]]
		if !ok {
			continue
		}
		found[fields[0]] = true
		if !strings.Contains(line, rule) {
			t.Errorf("%s: %q, want %s", fields[0], strings.TrimSpace(line), rule)
		}
	}
	for column := range want {
		if !found[column] {
			t.Errorf("no foreign key for tasks.%s", column)
		}
	}
}
