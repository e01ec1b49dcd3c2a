package book

import (
	"errors"
	"log/slog"
	"time"

	"github.com/publica-project/publica/internal"
	bookDatamodel "github.com/publica-project/publica/internal/core/datamodel/book"
	mediaDatamodel "github.com/publica-project/publica/internal/core/datamodel/media"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
)

var ErrNotFound = errors.New("book not found")

type Repository interface {
	List() ([]bookDatamodel.Book, error)
	GetByID(id int64) (*bookDatamodel.Book, error)
	Create(b *bookDatamodel.Book) error
	Update(b *bookDatamodel.Book) error
	Delete(id int64) error
}

// AuthorGetter resolves the author embedded in book views.
type AuthorGetter interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

// CoverGetter resolves the optional cover media object.
type CoverGetter interface {
	GetByID(id int64) (*mediaDatamodel.MediaObject, error)
}

type AuthorView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CoverView struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Book is the API view, assembled from the record plus its author and cover.
type Book struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	AuthorID    int64       `json:"author_id"`
	Author      *AuthorView `json:"author,omitempty"`
	CoverID     *int64      `json:"cover_id,omitempty"`
	Cover       *CoverView  `json:"cover,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Service struct {
	repo    Repository
	authors AuthorGetter
	covers  CoverGetter
	logger  *slog.Logger
}

func NewService(repo Repository, authors AuthorGetter, covers CoverGetter, logger *slog.Logger) *Service {
	return &Service{repo: repo, authors: authors, covers: covers, logger: logger}
}

func (s *Service) List() ([]Book, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting books.", err)
	}
	books := make([]Book, 0, len(records))
	for i := range records {
		books = append(books, s.assemble(&records[i]))
	}
	return books, nil
}

func (s *Service) Get(id int64) (*Book, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such book.", internal.ErrCodeEntryNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting book.", err)
	}
	book := s.assemble(record)
	return &book, nil
}

// Create stores a book owned by the calling identity.
func (s *Service) Create(authorID int64, dto CreateBookDTO) (*Book, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record := &bookDatamodel.Book{
		Title:       dto.Title,
		Description: dto.Description,
		Content:     dto.Content,
		AuthorID:    authorID,
		CoverID:     dto.CoverID,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, internal.NewUpstreamError("Error when creating book.", err)
	}

	s.logger.Info("book created", "book_id", record.ID, "author_id", authorID)
	book := s.assemble(record)
	return &book, nil
}

func (s *Service) Update(id int64, dto UpdateBookDTO) (*Book, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such book.", internal.ErrCodeEntryNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting book.", err)
	}

	if dto.Title != nil {
		record.Title = *dto.Title
	}
	if dto.Description != nil {
		record.Description = *dto.Description
	}
	if dto.Content != nil {
		record.Content = *dto.Content
	}
	if dto.CoverID != nil {
		record.CoverID = dto.CoverID
	}

	if err := s.repo.Update(record); err != nil {
		return nil, internal.NewUpstreamError("Error when updating book.", err)
	}
	book := s.assemble(record)
	return &book, nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such book.", internal.ErrCodeEntryNotFound)
		}
		return internal.NewUpstreamError("Error when getting book.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting book.", err)
	}
	return nil
}

// assemble fetches author and cover in explicit follow-up reads. Dangling
// references just leave the embedded views empty.
func (s *Service) assemble(record *bookDatamodel.Book) Book {
	book := Book{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Content:     record.Content,
		AuthorID:    record.AuthorID,
		CoverID:     record.CoverID,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if author, err := s.authors.GetByID(record.AuthorID); err == nil {
		book.Author = &AuthorView{ID: author.ID, Name: author.Name, Email: author.Email}
	}
	if record.CoverID != nil {
		if cover, err := s.covers.GetByID(*record.CoverID); err == nil {
			book.Cover = &CoverView{ID: cover.ID, URL: cover.URL, ThumbnailURL: cover.ThumbnailURL}
		}
	}
	return book
}
