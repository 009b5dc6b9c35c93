package templaterepo

import (
	"time"

	"github.com/bbrhub/mailblast/pkg/render"
)

// Template is a stored message template. Subject and Body carry {placeholder}
// markers resolved at send time.
type Template struct {
	ID        int64     `json:"id" db:"id" validate:"-"` // primary key
	Name      string    `json:"name" db:"name" validate:"required"`
	Subject   string    `json:"subject" db:"subject" validate:"required"`
	Body      string    `json:"body" db:"body" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"-"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" validate:"-"`
}

// Definition strips the storage fields down to what the renderer needs.
func (t Template) Definition() render.Template {
	return render.Template{
		Name:    t.Name,
		Subject: t.Subject,
		Body:    t.Body,
	}
}
