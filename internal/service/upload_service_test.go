package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trackswift/internal/config"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "My cool movie.mov", want: "My_cool_movie.mov"},
		{in: "../../../etc/passwd", want: "etc_passwd"},
		{in: "i contain cool ümläuts.txt", want: "i_contain_cool_umlauts.txt"},
		{in: "  box  photo .png", want: "box_photo_.png"},
		{in: "..", want: ""},
		{in: "файл.jpg", want: "jpg"},
	}
	for _, tc := range cases {
		if got := SecureFilename(tc.in); got != tc.want {
			t.Fatalf("SecureFilename(%q) want %q got %q", tc.in, tc.want, got)
		}
	}
}

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart failed: %v", err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestUploadServiceSaveImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(&config.Config{Upload: config.UploadConfig{Dir: dir, URLPrefix: "uploads"}})

	rel, err := svc.SaveImage(multipartFileHeader(t, "parcel box.png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("save image failed: %v", err)
	}
	if rel != "uploads/parcel_box.png" {
		t.Fatalf("unexpected relative path %s", rel)
	}
	data, err := os.ReadFile(filepath.Join(dir, "parcel_box.png"))
	if err != nil {
		t.Fatalf("read saved file failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected saved content %q", data)
	}

	rel, err = svc.SaveImage(multipartFileHeader(t, "..", []byte("x")))
	if err != nil {
		t.Fatalf("save image failed: %v", err)
	}
	if !strings.HasPrefix(rel, "uploads/") || len(rel) <= len("uploads/") {
		t.Fatalf("fallback name should be generated, got %s", rel)
	}

	rel, err = svc.SaveImage(nil)
	if err != nil || rel != "" {
		t.Fatalf("missing file should yield empty path, got %q err=%v", rel, err)
	}
}

func TestUploadServiceKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(&config.Config{Upload: config.UploadConfig{Dir: dir, URLPrefix: "uploads"}})

	first, err := svc.SaveImage(multipartFileHeader(t, "box.png", []byte("first")))
	if err != nil {
		t.Fatalf("save first image failed: %v", err)
	}
	second, err := svc.SaveImage(multipartFileHeader(t, "box.png", []byte("second")))
	if err != nil {
		t.Fatalf("save second image failed: %v", err)
	}
	if first != "uploads/box.png" || second == first {
		t.Fatalf("second upload should get a new name, first=%s second=%s", first, second)
	}
	if !strings.HasPrefix(second, "uploads/box_") || !strings.HasSuffix(second, ".png") {
		t.Fatalf("unexpected renamed path %s", second)
	}
	data, err := os.ReadFile(filepath.Join(dir, "box.png"))
	if err != nil || string(data) != "first" {
		t.Fatalf("existing image overwritten: %q err=%v", data, err)
	}

	svc.Discard(second)
	svc.Discard(second)
	svc.Discard("")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "box.png" {
		t.Fatalf("discard should remove only the second file, got %v", entries)
	}
}
