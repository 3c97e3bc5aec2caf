// AngelaMos | 2026
// repository.go

package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/carterperez-dev/tierboard/internal/core"
)

const accessKeyConstraint = "boards_access_key_key"

// ErrAccessKeyTaken is returned by Create when the generated access key
// collides with an existing board.
var ErrAccessKeyTaken = fmt.Errorf("access key taken: %w", core.ErrDuplicateKey)

type Repository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id string) (*Board, error)
	GetByAccessKey(ctx context.Context, key string) (*Board, error)
	ListForUser(ctx context.Context, username string) ([]Board, error)
	Rename(ctx context.Context, id, name string) (*Board, error)
	Delete(ctx context.Context, id string) error
	AddTag(ctx context.Context, id, tag string) ([]string, error)
	AddAllowedUser(ctx context.Context, id, username string) ([]string, error)
	AddCharacter(ctx context.Context, c *Character) error
	GetCharacter(ctx context.Context, boardID, characterID string) (*Character, error)
	UpsertRanking(ctx context.Context, boardID string, r *Ranking) error
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const boardColumns = `
	id, name, access_key, creator_username, tag_list, allowed_users,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, b *Board) error {
	query := `
		INSERT INTO boards (id, name, access_key, creator_username, tag_list)
		VALUES ($1, $2, $3, $4, $5::text[])
		RETURNING allowed_users, created_at, updated_at`

	err := r.db.GetContext(ctx, b, query,
		b.ID,
		b.Name,
		b.AccessKey,
		b.CreatorUsername,
		pq.StringArray(nonNil(b.TagList)),
	)
	if err != nil {
		if core.DuplicateConstraint(err) == accessKeyConstraint {
			return ErrAccessKeyTaken
		}
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create board: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create board: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Board, error) {
	return r.getOne(ctx, "id", id)
}

func (r *repository) GetByAccessKey(ctx context.Context, key string) (*Board, error) {
	return r.getOne(ctx, "access_key", key)
}

func (r *repository) getOne(ctx context.Context, column, value string) (*Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE ` + column + ` = $1`

	var b Board
	if err := r.db.GetContext(ctx, &b, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get board: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get board: %w", err)
	}

	boards := []Board{b}
	if err := r.loadCharacters(ctx, boards); err != nil {
		return nil, err
	}

	return &boards[0], nil
}

// ListForUser returns every board the user created or is allowed on. Each
// row matches at most once, so the result has no duplicate ids.
func (r *repository) ListForUser(ctx context.Context, username string) ([]Board, error) {
	query := `SELECT ` + boardColumns + `
		FROM boards
		WHERE creator_username = $1 OR $1 = ANY(allowed_users)
		ORDER BY updated_at DESC, id`

	var boards []Board
	if err := r.db.SelectContext(ctx, &boards, query, username); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	if err := r.loadCharacters(ctx, boards); err != nil {
		return nil, err
	}

	return boards, nil
}

func (r *repository) loadCharacters(ctx context.Context, boards []Board) error {
	if len(boards) == 0 {
		return nil
	}

	ids := make(pq.StringArray, 0, len(boards))
	index := make(map[string]int, len(boards))
	for i := range boards {
		ids = append(ids, boards[i].ID)
		index[boards[i].ID] = i
		boards[i].Characters = []Character{}
	}

	var chars []Character
	err := r.db.SelectContext(ctx, &chars, `
		SELECT id, board_id, name, series, image_url, tags, created_at
		FROM board_characters
		WHERE board_id = ANY($1::text[])
		ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("load characters: %w", err)
	}

	var rankings []Ranking
	err = r.db.SelectContext(ctx, &rankings, `
		SELECT r.character_id, r.username, r.tier, r.ranked_at
		FROM character_rankings r
		JOIN board_characters c ON c.id = r.character_id
		WHERE c.board_id = ANY($1::text[])
		ORDER BY r.ranked_at, r.username`, ids)
	if err != nil {
		return fmt.Errorf("load rankings: %w", err)
	}

	byChar := make(map[string][]Ranking, len(chars))
	for _, rk := range rankings {
		byChar[rk.CharacterID] = append(byChar[rk.CharacterID], rk)
	}

	for _, c := range chars {
		c.Rankings = byChar[c.ID]
		if c.Rankings == nil {
			c.Rankings = []Ranking{}
		}
		i := index[c.BoardID]
		boards[i].Characters = append(boards[i].Characters, c)
	}

	return nil
}

func (r *repository) Rename(ctx context.Context, id, name string) (*Board, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE boards
		SET name = $2, updated_at = NOW()
		WHERE id = $1`, id, name)
	if err != nil {
		return nil, fmt.Errorf("rename board: %w", err)
	}

	if err := requireRow(res, "rename board"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}

	return requireRow(res, "delete board")
}

// AddTag appends tag unless it is already present. The check and the write
// happen in one statement, so concurrent adds of the same tag store it once.
func (r *repository) AddTag(ctx context.Context, id, tag string) ([]string, error) {
	query := `
		UPDATE boards
		SET tag_list = CASE
				WHEN $2 = ANY(tag_list) THEN tag_list
				ELSE array_append(tag_list, $2)
			END,
			updated_at = CASE
				WHEN $2 = ANY(tag_list) THEN updated_at
				ELSE NOW()
			END
		WHERE id = $1
		RETURNING tag_list`

	var tags pq.StringArray
	if err := r.db.GetContext(ctx, &tags, query, id, tag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("add tag: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("add tag: %w", err)
	}

	return nonNil(tags), nil
}

// AddAllowedUser unions username into the allow-list. The creator is never
// stored there.
func (r *repository) AddAllowedUser(
	ctx context.Context,
	id, username string,
) ([]string, error) {
	query := `
		UPDATE boards
		SET allowed_users = CASE
				WHEN $2 = creator_username OR $2 = ANY(allowed_users) THEN allowed_users
				ELSE array_append(allowed_users, $2)
			END
		WHERE id = $1
		RETURNING allowed_users`

	var users pq.StringArray
	if err := r.db.GetContext(ctx, &users, query, id, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("add allowed user: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("add allowed user: %w", err)
	}

	return nonNil(users), nil
}

// AddCharacter stores c and merges its tags into the board's tag list in
// the same transaction.
func (r *repository) AddCharacter(ctx context.Context, c *Character) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE boards
			SET tag_list = tag_list || ARRAY(
					SELECT t
					FROM unnest($2::text[]) WITH ORDINALITY AS u(t, ord)
					WHERE NOT (t = ANY(tag_list))
					ORDER BY ord
				),
				updated_at = NOW()
			WHERE id = $1`, c.BoardID, pq.StringArray(nonNil(c.Tags)))
		if err != nil {
			return fmt.Errorf("merge character tags: %w", err)
		}

		if err := requireRow(res, "add character"); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &c.CreatedAt, `
			INSERT INTO board_characters (id, board_id, name, series, image_url, tags)
			VALUES ($1, $2, $3, $4, $5, $6::text[])
			RETURNING created_at`,
			c.ID,
			c.BoardID,
			c.Name,
			c.Series,
			c.ImageURL,
			pq.StringArray(nonNil(c.Tags)),
		)
		if err != nil {
			return fmt.Errorf("insert character: %w", err)
		}

		return nil
	})
}

func (r *repository) GetCharacter(
	ctx context.Context,
	boardID, characterID string,
) (*Character, error) {
	var c Character
	err := r.db.GetContext(ctx, &c, `
		SELECT id, board_id, name, series, image_url, tags, created_at
		FROM board_characters
		WHERE board_id = $1 AND id = $2`, boardID, characterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get character: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get character: %w", err)
	}

	c.Rankings = []Ranking{}
	err = r.db.SelectContext(ctx, &c.Rankings, `
		SELECT character_id, username, tier, ranked_at
		FROM character_rankings
		WHERE character_id = $1
		ORDER BY ranked_at, username`, characterID)
	if err != nil {
		return nil, fmt.Errorf("get character rankings: %w", err)
	}

	return &c, nil
}

// UpsertRanking writes the (character, user) row and bumps the board's
// updated_at together. Other users' rows are never touched.
func (r *repository) UpsertRanking(ctx context.Context, boardID string, rk *Ranking) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &rk.RankedAt, `
			INSERT INTO character_rankings (character_id, username, tier, ranked_at)
			SELECT $2, $3, $4, NOW()
			WHERE EXISTS (
				SELECT 1 FROM board_characters WHERE id = $2 AND board_id = $1
			)
			ON CONFLICT (character_id, username)
			DO UPDATE SET tier = EXCLUDED.tier, ranked_at = EXCLUDED.ranked_at
			RETURNING ranked_at`,
			boardID,
			rk.CharacterID,
			rk.Username,
			string(rk.Tier),
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("upsert ranking: %w", core.ErrNotFound)
			}
			return fmt.Errorf("upsert ranking: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE boards SET updated_at = NOW() WHERE id = $1`, boardID)
		if err != nil {
			return fmt.Errorf("touch board: %w", err)
		}

		return requireRow(res, "touch board")
	})
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM boards)             AS boards,
			(SELECT COUNT(*) FROM board_characters)   AS characters,
			(SELECT COUNT(*) FROM character_rankings) AS rankings`)
	if err != nil {
		return nil, fmt.Errorf("board stats: %w", err)
	}
	return &s, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
