package article

import (
	"errors"
	"log/slog"
	"time"

	"github.com/publica-project/publica/internal"
	articleDatamodel "github.com/publica-project/publica/internal/core/datamodel/article"
	userDatamodel "github.com/publica-project/publica/internal/core/datamodel/user"
)

var ErrNotFound = errors.New("article not found")

type Repository interface {
	List() ([]articleDatamodel.Article, error)
	GetByID(id int64) (*articleDatamodel.Article, error)
	Create(a *articleDatamodel.Article) error
	Update(a *articleDatamodel.Article) error
	Delete(id int64) error
}

// AuthorGetter resolves the author embedded in article views.
type AuthorGetter interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type AuthorView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Article struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	AuthorID    int64       `json:"author_id"`
	Author      *AuthorView `json:"author,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Service struct {
	repo    Repository
	authors AuthorGetter
	logger  *slog.Logger
}

func NewService(repo Repository, authors AuthorGetter, logger *slog.Logger) *Service {
	return &Service{repo: repo, authors: authors, logger: logger}
}

func (s *Service) List() ([]Article, error) {
	records, err := s.repo.List()
	if err != nil {
		return nil, internal.NewUpstreamError("Error when getting articles.", err)
	}
	articles := make([]Article, 0, len(records))
	for i := range records {
		articles = append(articles, s.assemble(&records[i]))
	}
	return articles, nil
}

func (s *Service) Get(id int64) (*Article, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such article.", internal.ErrCodeEntryNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting article.", err)
	}
	article := s.assemble(record)
	return &article, nil
}

// Create stores an article owned by the calling identity.
func (s *Service) Create(authorID int64, dto CreateArticleDTO) (*Article, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	record := &articleDatamodel.Article{
		Title:       dto.Title,
		Description: dto.Description,
		Content:     dto.Content,
		AuthorID:    authorID,
	}
	if err := s.repo.Create(record); err != nil {
		return nil, internal.NewUpstreamError("Error when creating article.", err)
	}

	s.logger.Info("article created", "article_id", record.ID, "author_id", authorID)
	article := s.assemble(record)
	return &article, nil
}

func (s *Service) Update(id int64, dto UpdateArticleDTO) (*Article, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("No such article.", internal.ErrCodeEntryNotFound)
		}
		return nil, internal.NewUpstreamError("Error when getting article.", err)
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

	if err := s.repo.Update(record); err != nil {
		return nil, internal.NewUpstreamError("Error when updating article.", err)
	}
	article := s.assemble(record)
	return &article, nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.NewNotFoundError("No such article.", internal.ErrCodeEntryNotFound)
		}
		return internal.NewUpstreamError("Error when getting article.", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewUpstreamError("Error when deleting article.", err)
	}
	return nil
}

func (s *Service) assemble(record *articleDatamodel.Article) Article {
	article := Article{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Content:     record.Content,
		AuthorID:    record.AuthorID,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if author, err := s.authors.GetByID(record.AuthorID); err == nil {
		article.Author = &AuthorView{ID: author.ID, Name: author.Name, Email: author.Email}
	}
	return article
}
