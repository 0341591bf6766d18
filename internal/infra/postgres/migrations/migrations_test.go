package migrations

import (
	"strings"
	"testing"
)

func TestQuizStoreMigrationIsRegistered(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) != 1 {
		t.Fatalf("expected one migration, got %d", len(sorted))
	}
	m := sorted[0]
	if m.Name != "20241122010000" || m.Comment != "party_quiz_store" {
		t.Fatalf("unexpected migration %s_%s", m.Name, m.Comment)
	}
	if m.Up == nil || m.Down == nil {
		t.Fatalf("migration needs both directions")
	}
}

func TestQuizStoreSQLTargetsQuizzes(t *testing.T) {
	if !strings.Contains(quizStoreUp, "CREATE TABLE IF NOT EXISTS quizzes") {
		t.Fatalf("up migration does not create the quizzes table:\n%s", quizStoreUp)
	}
	if !strings.Contains(quizStoreDown, "DROP TABLE IF EXISTS quizzes") {
		t.Fatalf("down migration does not drop the quizzes table:\n%s", quizStoreDown)
	}
}
