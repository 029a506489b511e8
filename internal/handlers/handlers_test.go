package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
)

// mockVideoService implements interfaces.VideoService for testing
type mockVideoService struct {
	processFunc func(ctx context.Context, url string) (*models.Video, error)
	askFunc     func(ctx context.Context, question, videoID string) (string, error)
	listFunc    func(ctx context.Context) ([]*models.Video, error)
}

func (m *mockVideoService) Process(ctx context.Context, url string) (*models.Video, error) {
	if m.processFunc != nil {
		return m.processFunc(ctx, url)
	}
	return nil, nil
}

func (m *mockVideoService) Ask(ctx context.Context, question, videoID string) (string, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, question, videoID)
	}
	return "", nil
}

func (m *mockVideoService) List(ctx context.Context) ([]*models.Video, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

// mockVideoStorage implements interfaces.VideoStorage for testing
type mockVideoStorage struct {
	getVideoFunc func(id string) (*models.Video, error)
	listFunc     func() ([]*models.Video, error)
}

func (m *mockVideoStorage) SaveVideo(video *models.Video) error { return nil }

func (m *mockVideoStorage) GetVideo(id string) (*models.Video, error) {
	if m.getVideoFunc != nil {
		return m.getVideoFunc(id)
	}
	return nil, interfaces.ErrVideoNotFound
}

func (m *mockVideoStorage) GetVideoByURL(url string) (*models.Video, error) { return nil, nil }

func (m *mockVideoStorage) ListVideos() ([]*models.Video, error) {
	if m.listFunc != nil {
		return m.listFunc()
	}
	return nil, nil
}

// mockRetrievalService implements interfaces.RetrievalService for testing
type mockRetrievalService struct {
	searchFunc func(ctx context.Context, collection, query string, k int) ([]*models.SearchResult, error)
}

func (m *mockRetrievalService) Search(ctx context.Context, collection, query string, k int) ([]*models.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, collection, query, k)
	}
	return nil, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestProcessHandler_Success(t *testing.T) {
	svc := &mockVideoService{
		processFunc: func(ctx context.Context, url string) (*models.Video, error) {
			return &models.Video{ID: "abcd1234", URL: url, Title: "Rockets", ChunkCount: 7}, nil
		},
	}
	handler := NewVideoHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/videos", strings.NewReader(`{"url":"https://www.youtube.com/watch?v=abc"}`))
	rec := httptest.NewRecorder()
	handler.ProcessHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["id"] != "abcd1234" {
		t.Errorf("id = %v", body["id"])
	}
	if body["chunk_count"] != float64(7) {
		t.Errorf("chunk_count = %v", body["chunk_count"])
	}
}

func TestProcessHandler_MissingURL(t *testing.T) {
	handler := NewVideoHandler(&mockVideoService{}, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/videos", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ProcessHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessHandler_NotYouTube(t *testing.T) {
	svc := &mockVideoService{
		processFunc: func(ctx context.Context, url string) (*models.Video, error) {
			return nil, interfaces.ErrInvalidURL
		},
	}
	handler := NewVideoHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/videos", strings.NewReader(`{"url":"https://vimeo.com/123"}`))
	rec := httptest.NewRecorder()
	handler.ProcessHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessHandler_NoTranscript(t *testing.T) {
	svc := &mockVideoService{
		processFunc: func(ctx context.Context, url string) (*models.Video, error) {
			return nil, interfaces.ErrNoTranscript
		},
	}
	handler := NewVideoHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/videos", strings.NewReader(`{"url":"https://youtu.be/abc"}`))
	rec := httptest.NewRecorder()
	handler.ProcessHandler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestProcessHandler_MethodGuard(t *testing.T) {
	handler := NewVideoHandler(&mockVideoService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/videos", nil)
	rec := httptest.NewRecorder()
	handler.ProcessHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestListHandler(t *testing.T) {
	svc := &mockVideoService{
		listFunc: func(ctx context.Context) ([]*models.Video, error) {
			return []*models.Video{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	handler := NewVideoHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/videos", nil)
	rec := httptest.NewRecorder()
	handler.ListHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestAskHandler_Success(t *testing.T) {
	svc := &mockVideoService{
		askFunc: func(ctx context.Context, question, videoID string) (string, error) {
			if videoID != "abcd1234" {
				t.Errorf("video_id = %q", videoID)
			}
			return "the answer", nil
		},
	}
	handler := NewAskHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"question":"how?","video_id":"abcd1234"}`))
	rec := httptest.NewRecorder()
	handler.AskHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["answer"] != "the answer" {
		t.Errorf("answer = %v", body["answer"])
	}
}

func TestAskHandler_MissingQuestion(t *testing.T) {
	handler := NewAskHandler(&mockVideoService{}, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"video_id":"abcd1234"}`))
	rec := httptest.NewRecorder()
	handler.AskHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskHandler_VideoNotFound(t *testing.T) {
	svc := &mockVideoService{
		askFunc: func(ctx context.Context, question, videoID string) (string, error) {
			return "", interfaces.ErrVideoNotFound
		},
	}
	handler := NewAskHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"question":"how?","video_id":"missing"}`))
	rec := httptest.NewRecorder()
	handler.AskHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSearchHandler_Success(t *testing.T) {
	storage := &mockVideoStorage{
		getVideoFunc: func(id string) (*models.Video, error) {
			return &models.Video{ID: id, Collection: "video_" + id}, nil
		},
	}
	retrieval := &mockRetrievalService{
		searchFunc: func(ctx context.Context, collection, query string, k int) ([]*models.SearchResult, error) {
			if collection != "video_abcd1234" {
				t.Errorf("collection = %q", collection)
			}
			if k != 3 {
				t.Errorf("k = %d, want default 3", k)
			}
			return []*models.SearchResult{
				{
					Chunk:        &models.Chunk{ID: "c1", Text: "rocket engines", StartTime: "0:01:00", EndTime: "0:01:30", VideoTitle: "Rockets"},
					Score:        1.2,
					DenseScore:   0.7,
					LexicalMatch: true,
				},
			}, nil
		},
	}
	handler := NewSearchHandler(retrieval, storage, 3, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/search?q=engines&video_id=abcd1234", nil)
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
	results := body["results"].([]interface{})
	first := results[0].(map[string]interface{})
	if first["chunk_id"] != "c1" || first["lexical_match"] != true {
		t.Errorf("result = %v", first)
	}
}

func TestSearchHandler_MissingParams(t *testing.T) {
	handler := NewSearchHandler(&mockRetrievalService{}, &mockVideoStorage{}, 3, arbor.NewLogger())

	for _, url := range []string{"/api/search", "/api/search?q=x", "/api/search?video_id=abcd1234"} {
		req := httptest.NewRequest("GET", url, nil)
		rec := httptest.NewRecorder()
		handler.SearchHandler(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, rec.Code)
		}
	}
}

func TestSearchHandler_VideoNotFound(t *testing.T) {
	handler := NewSearchHandler(&mockRetrievalService{}, &mockVideoStorage{}, 3, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/search?q=engines&video_id=missing", nil)
	rec := httptest.NewRecorder()
	handler.SearchHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
