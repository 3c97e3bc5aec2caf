// AngelaMos | 2026
// service.go

package character

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/tierboard/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, series string) ([]CatalogCharacter, error) {
	return s.repo.List(ctx, strings.TrimSpace(series))
}

func (s *Service) Create(
	ctx context.Context,
	actor string,
	req CreateRequest,
) (*CatalogCharacter, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, core.Invalid("name is required")
	}

	c := &CatalogCharacter{
		ID:        uuid.New().String(),
		Name:      name,
		Series:    strings.TrimSpace(req.Series),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		Tags:      core.NormalizeTags(req.Tags),
		CreatedBy: actor,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "catalog character added",
		"character_id", c.ID,
		"username", actor,
	)

	return c, nil
}
