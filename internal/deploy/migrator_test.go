package deploy

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFixture(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestMigrateCopiesByteForByte(t *testing.T) {
	root := t.TempDir()
	content := "order:\n  status: v2\n# trailing comment\n"
	writeFixture(t, root, "models/order_v2.yaml", content)
	writeFixture(t, root, "models/order.yaml", "order:\n  status: v1\n")

	res, err := Migrate(root)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0] != "models/order_v2.yaml" {
		t.Errorf("Applied = %v", res.Applied)
	}
	if got := readFixture(t, root, "models/order.yaml"); got != content {
		t.Errorf("target = %q, want candidate bytes", got)
	}
	// The candidate itself is left in place.
	if got := readFixture(t, root, "models/order_v2.yaml"); got != content {
		t.Errorf("candidate modified: %q", got)
	}
}

func TestMigrateCreatesMissingTarget(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "schemas/common_v2.yaml", "shared: true\n")

	if _, err := Migrate(root); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if got := readFixture(t, root, "schemas/common.yaml"); got != "shared: true\n" {
		t.Errorf("target = %q", got)
	}
}

func TestMigrateSkipsAbsentCandidates(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "models/order.yaml", "order: v1\n")

	res, err := Migrate(root)
	if err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if len(res.Applied) != 0 {
		t.Errorf("Applied = %v, want none", res.Applied)
	}
	if len(res.Skipped) != 3 {
		t.Errorf("Skipped = %v, want all three pairs", res.Skipped)
	}
	// Existing targets are untouched when no candidate is present.
	if got := readFixture(t, root, "models/order.yaml"); got != "order: v1\n" {
		t.Errorf("target = %q", got)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "models/order_v2.yaml", "a\n")
	writeFixture(t, root, "schemas/common_v2.yaml", "b\n")
	writeFixture(t, root, "schemas/order_v2.yaml", "c\n")

	if _, err := Migrate(root); err != nil {
		t.Fatalf("first Migrate() error: %v", err)
	}
	first := []string{
		readFixture(t, root, "models/order.yaml"),
		readFixture(t, root, "schemas/common.yaml"),
		readFixture(t, root, "schemas/order.yaml"),
	}

	if _, err := Migrate(root); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}
	second := []string{
		readFixture(t, root, "models/order.yaml"),
		readFixture(t, root, "schemas/common.yaml"),
		readFixture(t, root, "schemas/order.yaml"),
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("pair %d changed on second run: %q != %q", i, first[i], second[i])
		}
	}
}

func TestPairsAreFixed(t *testing.T) {
	pairs := Pairs()
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	want := map[string]string{
		"models/order_v2.yaml":   "models/order.yaml",
		"schemas/common_v2.yaml": "schemas/common.yaml",
		"schemas/order_v2.yaml":  "schemas/order.yaml",
	}
	for _, p := range pairs {
		if want[p.Candidate] != p.Target {
			t.Errorf("unexpected pair %s -> %s", p.Candidate, p.Target)
		}
	}
}
