// AngelaMos | 2026
// repository.go

package character

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/carterperez-dev/tierboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *CatalogCharacter) error
	List(ctx context.Context, series string) ([]CatalogCharacter, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *CatalogCharacter) error {
	query := `
		INSERT INTO catalog_characters (id, name, series, image_url, tags, created_by)
		VALUES ($1, $2, $3, $4, $5::text[], $6)
		RETURNING created_at`

	tags := c.Tags
	if tags == nil {
		tags = pq.StringArray{}
	}

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.Name,
		c.Series,
		c.ImageURL,
		tags,
		c.CreatedBy,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create catalog character: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create catalog character: %w", err)
	}

	return nil
}

// List returns catalog entries ordered by name. An empty series matches
// every entry.
func (r *repository) List(ctx context.Context, series string) ([]CatalogCharacter, error) {
	query := `
		SELECT id, name, series, image_url, tags, created_by, created_at
		FROM catalog_characters
		WHERE $1 = '' OR series = $1
		ORDER BY name, id`

	chars := []CatalogCharacter{}
	if err := r.db.SelectContext(ctx, &chars, query, series); err != nil {
		return nil, fmt.Errorf("list catalog characters: %w", err)
	}

	return chars, nil
}
