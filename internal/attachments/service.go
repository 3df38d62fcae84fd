package attachments

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yairmaster/mastercode-api/internal/common"
	"github.com/yairmaster/mastercode-api/internal/store"
)

// codeExtensions marks the file types the dashboard opens in its code
// editor.
var codeExtensions = map[string]bool{
	".js": true, ".html": true, ".css": true, ".json": true,
	".py": true, ".php": true, ".java": true, ".cpp": true, ".c": true,
	".ts": true, ".jsx": true, ".tsx": true, ".vue": true, ".sql": true,
}

// Service stores project attachments on disk and tracks them inside the
// project records.
type Service struct {
	Store     *store.Store
	UploadDir string
	Now       func() time.Time
	Log       zerolog.Logger
}

// SaveUploads writes the uploaded files under the project's directory
// and records them on the project. The project must exist.
func (s *Service) SaveUploads(ctx context.Context, projectID int64, headers []*multipart.FileHeader) ([]store.Attachment, error) {
	if err := s.projectExists(projectID); err != nil {
		return nil, err
	}

	dir := s.projectDir(projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, common.Storage(fmt.Errorf("create upload dir: %w", err))
	}

	now := s.now()
	saved := make([]store.Attachment, 0, len(headers))
	for _, fh := range headers {
		att, err := s.saveOne(dir, fh, now)
		if err != nil {
			s.cleanup(saved)
			return nil, err
		}
		saved = append(saved, att)
	}

	err := s.Store.Update(func(d *store.Dataset) error {
		project := findProject(d, projectID)
		if project == nil {
			return common.NotFound("project not found")
		}
		project.Files = append(project.Files, saved...)
		return nil
	})
	if err != nil {
		s.cleanup(saved)
		return nil, err
	}
	return saved, nil
}

// ListFiles returns the attachments recorded on a project.
func (s *Service) ListFiles(ctx context.Context, projectID int64) ([]store.Attachment, error) {
	var out []store.Attachment
	err := s.Store.View(func(d *store.Dataset) error {
		project := findProject(d, projectID)
		if project == nil {
			return common.NotFound("project not found")
		}
		out = append([]store.Attachment{}, project.Files...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFile removes the attachment record and the file on disk.
func (s *Service) DeleteFile(ctx context.Context, projectID int64, fileID string) error {
	var removed store.Attachment
	err := s.Store.Update(func(d *store.Dataset) error {
		project := findProject(d, projectID)
		if project == nil {
			return common.NotFound("project not found")
		}
		for i := range project.Files {
			if project.Files[i].ID == fileID {
				removed = project.Files[i]
				project.Files = append(project.Files[:i], project.Files[i+1:]...)
				return nil
			}
		}
		return common.NotFound("file not found")
	})
	if err != nil {
		return err
	}

	path, err := s.resolve(removed.Path)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.Log.Error().Err(err).Str("path", path).Msg("remove attachment file")
	}
	return nil
}

// ReadContent returns the attachment's on-disk content for editing.
func (s *Service) ReadContent(ctx context.Context, projectID int64, fileID string) (string, store.Attachment, error) {
	att, err := s.lookup(projectID, fileID)
	if err != nil {
		return "", store.Attachment{}, err
	}
	path, err := s.resolve(att.Path)
	if err != nil {
		return "", store.Attachment{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", att, nil
		}
		return "", store.Attachment{}, common.Storage(fmt.Errorf("read attachment: %w", err))
	}
	return string(raw), att, nil
}

// WriteContent replaces the attachment's on-disk content and refreshes
// the recorded size.
func (s *Service) WriteContent(ctx context.Context, projectID int64, fileID, content string) (int64, error) {
	att, err := s.lookup(projectID, fileID)
	if err != nil {
		return 0, err
	}
	path, err := s.resolve(att.Path)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, common.Storage(fmt.Errorf("write attachment: %w", err))
	}
	size := int64(len(content))

	err = s.Store.Update(func(d *store.Dataset) error {
		project := findProject(d, projectID)
		if project == nil {
			return common.NotFound("project not found")
		}
		for i := range project.Files {
			if project.Files[i].ID == fileID {
				project.Files[i].Size = size
				return nil
			}
		}
		return common.NotFound("file not found")
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (s *Service) saveOne(dir string, fh *multipart.FileHeader, now time.Time) (store.Attachment, error) {
	name := filepath.Base(fh.Filename)
	if name == "" || name == "." || name == string(os.PathSeparator) {
		return store.Attachment{}, common.Validation("invalid file name", nil)
	}

	src, err := fh.Open()
	if err != nil {
		return store.Attachment{}, common.Storage(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	path := filepath.Join(dir, fmt.Sprintf("%d-%s", now.UnixMilli(), name))
	dst, err := os.Create(path)
	if err != nil {
		return store.Attachment{}, common.Storage(fmt.Errorf("create attachment: %w", err))
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return store.Attachment{}, common.Storage(fmt.Errorf("store attachment: %w", err))
	}

	ext := strings.ToLower(filepath.Ext(name))
	return store.Attachment{
		ID:         uuid.NewString(),
		Name:       name,
		Path:       filepath.ToSlash(path),
		Size:       size,
		MimeType:   fh.Header.Get("Content-Type"),
		Extension:  ext,
		IsCode:     codeExtensions[ext],
		UploadDate: store.Timestamp(now),
	}, nil
}

func (s *Service) lookup(projectID int64, fileID string) (store.Attachment, error) {
	var out *store.Attachment
	err := s.Store.View(func(d *store.Dataset) error {
		project := findProject(d, projectID)
		if project == nil {
			return common.NotFound("project not found")
		}
		for i := range project.Files {
			if project.Files[i].ID == fileID {
				att := project.Files[i]
				out = &att
				return nil
			}
		}
		return common.NotFound("file not found")
	})
	if err != nil {
		return store.Attachment{}, err
	}
	return *out, nil
}

func (s *Service) projectExists(projectID int64) error {
	return s.Store.View(func(d *store.Dataset) error {
		if findProject(d, projectID) == nil {
			return common.NotFound("project not found")
		}
		return nil
	})
}

// resolve rejects recorded paths that escape the upload directory.
func (s *Service) resolve(recorded string) (string, error) {
	path := filepath.Clean(filepath.FromSlash(recorded))
	root := filepath.Clean(s.UploadDir)
	if path != root && !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", common.Validation("file path outside upload directory", nil)
	}
	return path, nil
}

func (s *Service) projectDir(projectID int64) string {
	return filepath.Join(s.UploadDir, "projects", strconv.FormatInt(projectID, 10))
}

func (s *Service) cleanup(saved []store.Attachment) {
	for _, att := range saved {
		if path, err := s.resolve(att.Path); err == nil {
			_ = os.Remove(path)
		}
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func findProject(d *store.Dataset, id int64) *store.Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}
