// AngelaMos | 2026
// entity.go

package character

import (
	"time"

	"github.com/lib/pq"
)

// CatalogCharacter is a reusable character definition that is not bound to
// any board.
type CatalogCharacter struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Series    string         `db:"series"`
	ImageURL  string         `db:"image_url"`
	Tags      pq.StringArray `db:"tags"`
	CreatedBy string         `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
}
