package book

import "fmt"

type CreateBookDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	CoverID     *int64 `json:"cover_id"`
}

func (d CreateBookDTO) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// UpdateBookDTO carries optional fields; nil means leave unchanged.
type UpdateBookDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	CoverID     *int64  `json:"cover_id"`
}
