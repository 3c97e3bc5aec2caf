// AngelaMos | 2026
// dto.go

package character

import (
	"time"
)

type CreateRequest struct {
	Name     string   `json:"name"     validate:"required,max=100"`
	Series   string   `json:"series"   validate:"max=100"`
	ImageURL string   `json:"imageUrl" validate:"max=2048"`
	Tags     []string `json:"tags"     validate:"max=20,dive,max=50"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Series    string    `json:"series"`
	ImageURL  string    `json:"imageUrl"`
	Tags      []string  `json:"tags"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToResponse(c *CatalogCharacter) Response {
	tags := []string(c.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Response{
		ID:        c.ID,
		Name:      c.Name,
		Series:    c.Series,
		ImageURL:  c.ImageURL,
		Tags:      tags,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func ToListResponse(chars []CatalogCharacter) []Response {
	out := make([]Response, 0, len(chars))
	for i := range chars {
		out = append(out, ToResponse(&chars[i]))
	}
	return out
}
