package article

import "fmt"

type CreateArticleDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (d CreateArticleDTO) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// UpdateArticleDTO carries optional fields; nil means leave unchanged.
type UpdateArticleDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}
