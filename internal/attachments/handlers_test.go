package attachments_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/attachments"
	"github.com/yairmaster/mastercode-api/internal/store"
)

func newFixture(t *testing.T) (*chi.Mux, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "data.json"), store.Settings{BusinessName: "עסק"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Update(func(d *store.Dataset) error {
		d.Projects = append(d.Projects, store.Project{ID: 1, ClientID: 1, Files: []store.Attachment{}})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uploadDir := filepath.Join(dir, "uploads")
	svc := &attachments.Service{
		Store:     s,
		UploadDir: uploadDir,
		Now:       func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) },
		Log:       zerolog.Nop(),
	}
	handler := &attachments.Handler{Svc: svc, MaxFiles: 2, MaxBytes: 1 << 20}

	r := chi.NewRouter()
	r.Post("/api/projects/{id}/upload", handler.Upload)
	r.Get("/api/projects/{id}/files", handler.List)
	r.Delete("/api/projects/{projectID}/files/{fileID}", handler.Delete)
	r.Get("/api/projects/{projectID}/files/{fileID}/content", handler.GetContent)
	r.Put("/api/projects/{projectID}/files/{fileID}/content", handler.PutContent)
	return r, s, uploadDir
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

type uploadResponse struct {
	Success bool               `json:"success"`
	Files   []store.Attachment `json:"files"`
	Message string             `json:"message"`
}

func upload(t *testing.T, r *chi.Mux, files map[string]string) uploadResponse {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", rr.Code, rr.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestUploadStoresFilesAndRecords(t *testing.T) {
	r, s, uploadDir := newFixture(t)

	resp := upload(t, r, map[string]string{"index.html": "<html></html>"})
	if !resp.Success || len(resp.Files) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	att := resp.Files[0]
	if att.ID == "" || att.Name != "index.html" {
		t.Fatalf("unexpected attachment %+v", att)
	}
	if !att.IsCode || att.Extension != ".html" {
		t.Fatalf("code detection failed: %+v", att)
	}
	if !strings.Contains(resp.Message, "1 קבצים") {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	onDisk := filepath.Join(uploadDir, "projects", "1")
	entries, err := os.ReadDir(onDisk)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 stored file in %s: %v", onDisk, err)
	}

	if err := s.View(func(d *store.Dataset) error {
		if len(d.Projects[0].Files) != 1 {
			t.Fatalf("attachment not recorded: %+v", d.Projects[0].Files)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestUploadRejections(t *testing.T) {
	r, _, _ := newFixture(t)

	body, contentType := multipartBody(t, map[string]string{
		"a.txt": "1", "b.txt": "2", "c.txt": "3",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/projects/1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over the file limit, got %d", rr.Code)
	}

	body, contentType = multipartBody(t, map[string]string{"a.txt": "1"})
	req = httptest.NewRequest(http.MethodPost, "/api/projects/9/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for absent project, got %d", rr.Code)
	}
}

func TestFileContentRoundTrip(t *testing.T) {
	r, _, _ := newFixture(t)
	resp := upload(t, r, map[string]string{"app.js": "console.log(1)"})
	fileID := resp.Files[0].ID

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects/1/files/"+fileID+"/content", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get content status %d: %s", rr.Code, rr.Body.String())
	}
	var got struct {
		Content  string `json:"content"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Content != "console.log(1)" || got.FileName != "app.js" {
		t.Fatalf("unexpected content %+v", got)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/projects/1/files/"+fileID+"/content",
		strings.NewReader(`{"content": "console.log(2);"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("put content status %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects/1/files/"+fileID+"/content", nil))
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Content != "console.log(2);" {
		t.Fatalf("content not updated: %q", got.Content)
	}
}

func TestDeleteFileRemovesDiskAndRecord(t *testing.T) {
	r, s, uploadDir := newFixture(t)
	resp := upload(t, r, map[string]string{"style.css": "body{}"})
	fileID := resp.Files[0].ID

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/1/files/"+fileID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status %d: %s", rr.Code, rr.Body.String())
	}

	entries, err := os.ReadDir(filepath.Join(uploadDir, "projects", "1"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatal("file should be removed from disk")
	}
	if err := s.View(func(d *store.Dataset) error {
		if len(d.Projects[0].Files) != 0 {
			t.Fatal("record should be removed")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/projects/1/files/"+fileID, nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeated delete, got %d", rr.Code)
	}
}

func TestListFiles(t *testing.T) {
	r, _, _ := newFixture(t)
	upload(t, r, map[string]string{"readme.md": "hi"})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/projects/1/files", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status %d", rr.Code)
	}
	var files []store.Attachment
	if err := json.Unmarshal(rr.Body.Bytes(), &files); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(files) != 1 || files[0].IsCode {
		t.Fatalf("unexpected files %+v", files)
	}
}
