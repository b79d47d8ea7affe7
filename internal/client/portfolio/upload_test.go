package portfolio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUploadFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func newUploadClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, NewPasswordCache(filepath.Join(t.TempDir(), "pw.json")))
}

func TestUploadImage(t *testing.T) {
	var gotPath, gotName, gotType string
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotType = header.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"url":     "http://storage.local/project-images/uploads/1-shot.png",
		})
	})

	url, err := client.UploadImage(writeUploadFixture(t, "shot.png", "pngbytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://storage.local/project-images/uploads/1-shot.png" {
		t.Errorf("unexpected url %q", url)
	}
	if gotPath != "/api/upload/image" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotName != "shot.png" || gotType != "image/png" {
		t.Errorf("unexpected part metadata: name=%q type=%q", gotName, gotType)
	}
}

func TestUploadImage_ServerRejection(t *testing.T) {
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "validation failed: unsupported image type", http.StatusBadRequest)
	})

	_, err := client.UploadImage(writeUploadFixture(t, "doc.pdf", "%PDF"))
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected the 400 to surface, got %v", err)
	}
}

func TestUploadFile_UnknownTypeFallsBack(t *testing.T) {
	var gotType string
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file provided", http.StatusBadRequest)
			return
		}
		gotType = header.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UploadedFile{
			URL:          "http://storage.local/project-files/1-abc-tool.bin0",
			FileName:     "1-abc-tool.bin0",
			OriginalName: "tool.bin0",
			FileSize:     4,
		})
	})

	uploaded, err := client.UploadFile(writeUploadFixture(t, "tool.bin0", "zipb"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotType != "application/octet-stream" {
		t.Errorf("unknown extensions must fall back to octet-stream, got %q", gotType)
	}
	if uploaded.OriginalName != "tool.bin0" || uploaded.FileSize != 4 {
		t.Errorf("unexpected response: %+v", uploaded)
	}
}

func TestUploadFile_MissingLocalFile(t *testing.T) {
	client := newUploadClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a missing local file")
	})

	_, err := client.UploadFile(filepath.Join(t.TempDir(), "absent.zip"))
	if err == nil {
		t.Fatal("expected an error for a missing local file")
	}
}
