package balance

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadRoutePairs(t *testing.T) {
	content := "# demand file\n1 2 3\n\n4 5 1\n"
	path := filepath.Join(t.TempDir(), "pairs.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	pairs, err := ReadRoutePairs(path)
	if err != nil {
		t.Fatalf("ReadRoutePairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0] != (RoutePair{SrcID: 1, DstID: 2, Count: 3}) {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}
	if pairs[1] != (RoutePair{SrcID: 4, DstID: 5, Count: 1}) {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
}

func TestReadRoutePairsRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")
	if err := os.WriteFile(path, []byte("1 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadRoutePairs(path); err == nil {
		t.Fatal("expected ErrMalformedRoutePair")
	}
}
