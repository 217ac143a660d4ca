package service

import (
	"context"
	"edu_center_backend/internal/config"
	"edu_center_backend/internal/util"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where lesson media lives.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return fmt.Sprintf("http://%s/%s/%s", p.Config.MinioEndpoint, p.Config.MinioBucket, filename)
}

type StorageService struct {
	Provider StorageProvider
	Cfg      *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			// Fall back to local disk rather than refusing to start.
			provider = &LocalStorageProvider{Config: &cfg.Storage}
		} else {
			provider = p
		}
	default:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}
	return &StorageService{Provider: provider, Cfg: cfg}
}

type UploadResult struct {
	URL      string  `json:"url"`
	Filename string  `json:"filename"`
	Size     int64   `json:"size"`
	Duration float64 `json:"duration,omitempty"`
}

// UploadLessonMedia stores the file and, for videos, probes the duration so
// the structure editor can show it.
func (s *StorageService) UploadLessonMedia(ctx context.Context, originalName string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("lessons/%s/%s%s", time.Now().Format("2006-01"), uuid.New().String(), ext)

	isVideo := false
	for _, allowed := range util.AllowedVideoExtensions {
		if ext == allowed {
			isVideo = true
			break
		}
	}
	if !isVideo {
		allowedDoc := false
		for _, allowed := range util.AllowedDocumentExtensions {
			if ext == allowed {
				allowedDoc = true
				break
			}
		}
		if !allowedDoc {
			return nil, fmt.Errorf("unsupported file type: %s", ext)
		}
	}

	result := &UploadResult{Filename: filename, Size: size}

	if isVideo {
		// Spool to disk first so ffprobe can read it.
		tmp, err := os.CreateTemp("", "lesson-upload-*"+ext)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, reader); err != nil {
			tmp.Close()
			return nil, err
		}
		tmp.Close()

		if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
			result.Duration = info.Duration
		}

		f, err := os.Open(tmp.Name())
		if err != nil {
			return nil, err
		}
		defer f.Close()

		url, err := s.Provider.Upload(ctx, filename, f, size, contentType)
		if err != nil {
			return nil, err
		}
		result.URL = url
		return result, nil
	}

	url, err := s.Provider.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return nil, err
	}
	result.URL = url
	return result, nil
}
