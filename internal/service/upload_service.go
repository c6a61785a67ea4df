package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/trackswift/internal/config"
	"github.com/trackswift/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

const uploadNameAttempts = 5

// UploadService 包裹图片上传服务
type UploadService struct {
	cfg *config.Config
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SecureFilename 清理上传文件名：折叠为 ASCII，空白替换为下划线，只保留字母数字与 "_.-"
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	for _, sep := range []string{"/", "\\"} {
		cleaned = strings.ReplaceAll(cleaned, sep, " ")
	}
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	cleaned = unsafeFilenameChars.ReplaceAllString(cleaned, "")
	return strings.Trim(cleaned, "._")
}

// SaveImage 保存上传图片，返回相对静态目录的路径；未选择文件时返回空串
func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", nil
	}
	filename := SecureFilename(file.Filename)
	if filename == "" {
		filename = uuid.NewString()
		if ext := SecureFilename(filepath.Ext(file.Filename)); ext != "" {
			filename += "." + strings.ToLower(ext)
		}
	}

	dir := s.cfg.Upload.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	dst, filename, err := createUniqueFile(dir, filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	prefix := strings.Trim(s.cfg.Upload.URLPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	rel := path.Join(prefix, filename)
	logger.Infow("upload_saved", "file", rel, "size", file.Size)
	return rel, nil
}

// Discard 删除 SaveImage 写入的文件，用于包裹未能入库时回收
func (s *UploadService) Discard(rel string) {
	if rel == "" {
		return
	}
	name := path.Base(rel)
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(s.cfg.Upload.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnw("upload_discard_failed", "file", rel, "error", err)
		return
	}
	logger.Infow("upload_discarded", "file", rel)
}

// createUniqueFile 以独占方式创建文件，同名文件已存在时追加随机后缀，不覆盖已有图片
func createUniqueFile(dir, filename string) (*os.File, string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	name := filename
	for attempt := 0; attempt < uploadNameAttempts; attempt++ {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
		name = stem + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext
	}
	return nil, "", fmt.Errorf("no free filename for %s", filename)
}
