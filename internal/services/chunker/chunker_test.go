package chunker

import (
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/common"
	"github.com/ternarybob/verba/internal/models"
)

func testTranscript() *models.Transcript {
	segments := []models.Segment{
		{StartSeconds: 0, EndSeconds: 10, Text: "welcome to the deep dive on launch vehicles and their design"},
		{StartSeconds: 10, EndSeconds: 20, Text: "first stage engines burn kerosene and liquid oxygen together"},
		{StartSeconds: 20, EndSeconds: 30, Text: "the second stage takes over once the first stage separates"},
		{StartSeconds: 30, EndSeconds: 40, Text: "finally the payload deploys into its target orbit and the mission ends"},
	}
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	return &models.Transcript{
		FullText: strings.Join(texts, " "),
		Segments: segments,
	}
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(&common.ChunkingConfig{WindowChars: 120, OverlapChars: 30}, arbor.NewLogger())
}

func TestChunkBounds(t *testing.T) {
	svc := testService(t)
	transcript := testTranscript()
	video := &models.Video{ID: "abcd1234", URL: "https://youtu.be/x", Title: "Launch Vehicles", Collection: "video_abcd1234"}

	chunks := svc.Chunk(transcript, video)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}

	first := transcript.Segments[0].StartSeconds
	last := transcript.Segments[len(transcript.Segments)-1].EndSeconds
	for i, c := range chunks {
		if c.StartSeconds < 0 || c.StartSeconds > c.EndSeconds {
			t.Errorf("chunk %d has invalid range [%v, %v]", i, c.StartSeconds, c.EndSeconds)
		}
		if c.StartSeconds < first || c.EndSeconds > last {
			t.Errorf("chunk %d range [%v, %v] outside segment bounds [%v, %v]", i, c.StartSeconds, c.EndSeconds, first, last)
		}
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.Collection != "video_abcd1234" {
			t.Errorf("chunk %d collection = %q", i, c.Collection)
		}
		if !c.Pending {
			t.Errorf("chunk %d should be pending before embedding", i)
		}
		if c.Duration != c.EndSeconds-c.StartSeconds {
			t.Errorf("chunk %d duration mismatch", i)
		}
		if c.WordCount != len(strings.Fields(c.Text)) {
			t.Errorf("chunk %d word count mismatch", i)
		}
	}
}

func TestChunkDeterministic(t *testing.T) {
	svc := testService(t)
	transcript := testTranscript()
	video := &models.Video{ID: "abcd1234", URL: "https://youtu.be/x", Collection: "video_abcd1234"}

	a := svc.Chunk(transcript, video)
	b := svc.Chunk(transcript, video)
	if len(a) != len(b) {
		t.Fatalf("chunk count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Text != b[i].Text ||
			a[i].StartSeconds != b[i].StartSeconds || a[i].EndSeconds != b[i].EndSeconds {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkEmptyTranscript(t *testing.T) {
	svc := testService(t)
	video := &models.Video{ID: "abcd1234", Collection: "video_abcd1234"}

	chunks := svc.Chunk(&models.Transcript{}, video)
	if len(chunks) != 0 {
		t.Errorf("empty transcript produced %d chunks", len(chunks))
	}
}

func TestChunkTimecodes(t *testing.T) {
	svc := testService(t)
	transcript := &models.Transcript{
		FullText: "a single short transcript about nothing in particular",
		Segments: []models.Segment{{StartSeconds: 65, EndSeconds: 3661, Text: "a single short transcript about nothing in particular"}},
	}
	video := &models.Video{ID: "abcd1234", Collection: "video_abcd1234"}

	chunks := svc.Chunk(transcript, video)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].StartTime != "0:01:05" || chunks[0].EndTime != "1:01:01" {
		t.Errorf("timecodes = %q - %q", chunks[0].StartTime, chunks[0].EndTime)
	}
}
