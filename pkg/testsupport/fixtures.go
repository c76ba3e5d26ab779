package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// Fixture reads a file under the calling package, failing the test when it
// is missing.
func Fixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// FixtureJSON decodes a JSON fixture into v.
func FixtureJSON(t testing.TB, path string, v any) {
	t.Helper()
	if err := json.Unmarshal(Fixture(t, path), v); err != nil {
		t.Fatalf("decode fixture %s: %v", path, err)
	}
}
