package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/publica-project/publica/internal"
	mediaDatamodel "github.com/publica-project/publica/internal/core/datamodel/media"
	"github.com/publica-project/publica/internal/media/storage"
)

var ErrNotFound = errors.New("media object not found")

const (
	thumbnailEdge   = 80
	thumbnailPrefix = "thumbnail_"
)

type Repository interface {
	List() ([]mediaDatamodel.MediaObject, error)
	GetByID(id int64) (*mediaDatamodel.MediaObject, error)
	Create(m *mediaDatamodel.MediaObject) error
	Update(m *mediaDatamodel.MediaObject) error
	Delete(id int64) error
}

// Upload is one file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadMeta carries the optional metadata fields of an upload request.
type UploadMeta struct {
	Name            string `json:"name"`
	AlternativeText string `json:"alternative_text"`
	Caption         string `json:"caption"`
}

// UpdateMediaDTO updates metadata only; file content is immutable.
type UpdateMediaDTO struct {
	Name            *string `json:"name"`
	AlternativeText *string `json:"alternative_text"`
	Caption         *string `json:"caption"`
}

// Media is the API view of a stored media object.
type Media struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	AlternativeText string    `json:"alternative_text"`
	Caption         string    `json:"caption"`
	Width           int       `json:"width,omitempty"`
	Height          int       `json:"height,omitempty"`
	Hash            string    `json:"hash"`
	Ext             string    `json:"ext"`
	Mime            string    `json:"mime"`
	Size            int64     `json:"size"`
	URL             string    `json:"url"`
	Provider        string    `json:"provider"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	ThumbnailWidth  int       `json:"thumbnail_width,omitempty"`
	ThumbnailHeight int       `json:"thumbnail_height,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Service struct {
	repo     Repository
	provider storage.Provider
	logger   *slog.Logger
}

func NewService(repo Repository, provider storage.Provider, logger *slog.Logger) *Service {
	return &Service{repo: repo, provider: provider, logger: logger}
}

// Store uploads one file, generates a thumbnail for decodable images and
// records the result. Non-image files are stored without dimensions or
// thumbnail.
func (s *Service) Store(ctx context.Context, up Upload, meta UploadMeta) (*Media, error) {
	if len(up.Data) == 0 {
		return nil, internal.NewValidationError("No file provided.", internal.ErrCodeMissingFile)
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	hash, err := objectHash(up.Filename)
	if err != nil {
		return nil, internal.NewInternalError("Error when hashing file name.", err)
	}
	objectName := hash + ext

	url, err := s.provider.Store(ctx, objectName, up.ContentType, up.Data)
	if err != nil {
		return nil, internal.NewUpstreamError("Error when storing file.", err)
	}

	record := &mediaDatamodel.MediaObject{
		Name:            up.Filename,
		AlternativeText: meta.AlternativeText,
		Caption:         meta.Caption,
		Hash:            hash,
		Ext:             ext,
		Mime:            up.ContentType,
		Size:            int64(len(up.Data)),
		URL:             url,
		Path:            objectName,
		Provider:        s.provider.Name(),
	}
	if meta.Name != "" {
		record.Name = meta.Name
	}

	if img, err := imaging.Decode(bytes.NewReader(up.Data)); err == nil {
		bounds := img.Bounds()
		record.Width = bounds.Dx()
		record.Height = bounds.Dy()

		if err := s.storeThumbnail(ctx, record, img, up.ContentType); err != nil {
			// the original upload already succeeded, keep it
			s.logger.Warn("thumbnail generation failed", "file", up.Filename, "error", err)
		}
	}

	if err := s.repo.Create(record); err != nil {
		return nil, internal.NewUpstreamError("Error when creating media object.", err)
	}

	s.logger.Info("media stored", "media_id", record.ID, "name", record.Name, "provider", record.Provider)
	view := fromDataModel(record)
	return &view, nil
}

// storeThumbnail scales the image to fit a square, uploads it and fills the
// thumbnail columns on the record.
func (s *Service) storeThumbnail(ctx context.Context, record *mediaDatamodel.MediaObject, img image.Image, contentType string) error {
	thumb := imaging.Fit(img, thumbnailEdge, thumbnailEdge, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(record.Ext)
	if err != nil {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	name := thumbnailPrefix + record.Hash + record.Ext
	url, err := s.provider.Store(ctx, name, contentType, buf.Bytes())
	if err != nil {
		return fmt.Errorf("store thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	record.ThumbnailHash = thumbnailPrefix + record.Hash
	record.ThumbnailWidth = bounds.Dx()
	record.ThumbnailHeight = bounds.Dy()
	record.ThumbnailSize = int64(buf.Len())
	record.ThumbnailURL = url
	record.ThumbnailPath = name
	return nil
}

func (s *Service) List() ([]Media, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting media objects.", err)
	}
	views := make([]Media, 0, len(records))
	for i := range records {
		views = append(views, fromDataModel(&records[i]))
	}
	return views, nil
}

func (s *Service) Get(id int64) (*Media, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such media object.", internal.ErrCodeMediaNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting media object.", err)
	}
	view := fromDataModel(record)
	return &view, nil
}

func (s *Service) Update(id int64, dto UpdateMediaDTO) (*Media, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such media object.", internal.ErrCodeMediaNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting media object.", err)
	}

	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.AlternativeText != nil {
		record.AlternativeText = *dto.AlternativeText
	}
	if dto.Caption != nil {
		record.Caption = *dto.Caption
	}

	if err := s.repo.Update(record); err != nil {
		return nil, internal.NewUpstreamError("Error when updating media object.", err)
	}
	view := fromDataModel(record)
	return &view, nil
}

// Delete removes the record and then the stored files. A provider failure
// after the record is gone is logged, not surfaced; the file becomes an
// orphan rather than the API reporting a delete that did happen.
func (s *Service) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such media object.", internal.ErrCodeMediaNotFound)
		}
		return internal.NewUpstreamError("Error when getting media object.", err)
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting media object.", err)
	}

	if err := s.provider.Remove(ctx, record.Path); err != nil {
		s.logger.Warn("failed to remove stored file", "path", record.Path, "error", err)
	}
	if record.ThumbnailPath != "" {
		if err := s.provider.Remove(ctx, record.ThumbnailPath); err != nil {
			s.logger.Warn("failed to remove thumbnail", "path", record.ThumbnailPath, "error", err)
		}
	}
	return nil
}

// objectHash builds the stored object base name: the sanitized original base
// name plus a short random suffix, so repeated uploads of the same file never
// collide.
func objectHash(filename string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = sanitize(base)

	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	return base + "_" + hex.EncodeToString(suffix), nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

func fromDataModel(m *mediaDatamodel.MediaObject) Media {
	return Media{
		ID:              m.ID,
		Name:            m.Name,
		AlternativeText: m.AlternativeText,
		Caption:         m.Caption,
		Width:           m.Width,
		Height:          m.Height,
		Hash:            m.Hash,
		Ext:             m.Ext,
		Mime:            m.Mime,
		Size:            m.Size,
		URL:             m.URL,
		Provider:        m.Provider,
		ThumbnailURL:    m.ThumbnailURL,
		ThumbnailWidth:  m.ThumbnailWidth,
		ThumbnailHeight: m.ThumbnailHeight,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
