package common

import (
	"strings"
	"testing"
)

func TestNewVideoID(t *testing.T) {
	id := NewVideoID()
	if len(id) != 8 {
		t.Errorf("NewVideoID() length = %d, want 8", len(id))
	}
	if id == NewVideoID() {
		t.Error("NewVideoID() returned duplicate IDs")
	}
}

func TestCollectionName(t *testing.T) {
	if got := CollectionName("abcd1234"); got != "video_abcd1234" {
		t.Errorf("CollectionName() = %q, want %q", got, "video_abcd1234")
	}
}

func TestChunkID(t *testing.T) {
	a := ChunkID("https://youtu.be/x", 0, "hello world")
	b := ChunkID("https://youtu.be/x", 0, "hello world")
	if a != b {
		t.Error("ChunkID not deterministic for identical inputs")
	}
	if len(a) != 32 {
		t.Errorf("ChunkID length = %d, want 32 hex chars", len(a))
	}

	if a == ChunkID("https://youtu.be/x", 1, "hello world") {
		t.Error("ChunkID should differ when chunk index differs")
	}
	if a == ChunkID("https://youtu.be/y", 0, "hello world") {
		t.Error("ChunkID should differ when URL differs")
	}

	// Only the first 50 runes of text participate in the ID
	long := strings.Repeat("a", 50)
	if ChunkID("u", 0, long+"tail") != ChunkID("u", 0, long+"other") {
		t.Error("ChunkID should ignore text beyond the 50-rune prefix")
	}
	if ChunkID("u", 0, long+"tail") == ChunkID("u", 0, strings.Repeat("b", 50)) {
		t.Error("ChunkID should depend on the text prefix")
	}
}
