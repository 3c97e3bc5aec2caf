// AngelaMos | 2026
// service.go

package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/tierboard/internal/core"
)

const maxAccessKeyAttempts = 3

var (
	ErrBoardNotFound     = fmt.Errorf("board: %w", core.ErrNotFound)
	ErrCharacterNotFound = fmt.Errorf("character: %w", core.ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user: %w", core.ErrNotFound)
	ErrNoAccess          = fmt.Errorf("no access to board: %w", core.ErrForbidden)
	ErrNotCreator        = fmt.Errorf("not the board creator: %w", core.ErrForbidden)
)

// UserDirectory answers whether a username is registered.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}

type Service struct {
	repo      Repository
	users     UserDirectory
	accessKey func() (string, error)
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		accessKey: core.GenerateAccessKey,
	}
}

func (s *Service) CreateBoard(
	ctx context.Context,
	actor string,
	req CreateBoardRequest,
) (b *Board, err error) {
	ctx, span := core.StartSpan(ctx, "board.Create",
		attribute.String("username", actor))
	defer func() { core.EndSpan(span, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, core.Invalid("name is required")
	}

	b = &Board{
		ID:              uuid.New().String(),
		Name:            name,
		CreatorUsername: actor,
		TagList:         core.NormalizeTags(req.InitialTags),
		AllowedUsers:    []string{},
		Characters:      []Character{},
	}

	for attempt := 1; ; attempt++ {
		b.AccessKey, err = s.accessKey()
		if err != nil {
			return nil, fmt.Errorf("generate access key: %w", err)
		}

		err = s.repo.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrAccessKeyTaken) || attempt >= maxAccessKeyAttempts {
			return nil, err
		}
		slog.WarnContext(ctx, "access key collision, retrying", "attempt", attempt)
	}

	slog.InfoContext(ctx, "board created",
		"board_id", b.ID,
		"username", actor,
	)

	return b, nil
}

func (s *Service) ListBoards(ctx context.Context, actor string) ([]Board, error) {
	boards, err := s.repo.ListForUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(boards))
	out := boards[:0]
	for _, b := range boards {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}

	return out, nil
}

func (s *Service) GetBoard(ctx context.Context, actor, id string) (*Board, error) {
	return s.viewable(ctx, actor, id)
}

// JoinByAccessKey returns the board behind key, adding actor to its
// allow-list first when they are not already a member.
func (s *Service) JoinByAccessKey(
	ctx context.Context,
	actor, key string,
) (b *Board, err error) {
	ctx, span := core.StartSpan(ctx, "board.JoinByAccessKey",
		attribute.String("username", actor))
	defer func() { core.EndSpan(span, err) }()

	b, err = s.repo.GetByAccessKey(ctx, key)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}

	if b.CanView(actor) {
		return b, nil
	}

	users, err := s.repo.AddAllowedUser(ctx, b.ID, actor)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}
	b.AllowedUsers = users

	slog.InfoContext(ctx, "board joined via access key",
		"board_id", b.ID,
		"username", actor,
	)

	return b, nil
}

func (s *Service) RenameBoard(
	ctx context.Context,
	actor, id string,
	req UpdateBoardRequest,
) (*Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, core.Invalid("name is required")
	}

	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	b, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}

	return b, nil
}

func (s *Service) DeleteBoard(ctx context.Context, actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrBoardNotFound)
	}

	slog.InfoContext(ctx, "board deleted", "board_id", id, "username", actor)
	return nil
}

func (s *Service) AddTag(ctx context.Context, actor, id, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, core.Invalid("tag is required")
	}

	if _, err := s.viewable(ctx, actor, id); err != nil {
		return nil, err
	}

	tags, err := s.repo.AddTag(ctx, id, tag)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}

	return tags, nil
}

func (s *Service) AddCharacter(
	ctx context.Context,
	actor, boardID string,
	in CharacterInput,
) (c *Character, err error) {
	ctx, span := core.StartSpan(ctx, "board.AddCharacter",
		attribute.String("board_id", boardID))
	defer func() { core.EndSpan(span, err) }()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, core.Invalid("character name is required")
	}

	if _, err = s.viewable(ctx, actor, boardID); err != nil {
		return nil, err
	}

	c = &Character{
		ID:       uuid.New().String(),
		BoardID:  boardID,
		Name:     name,
		Series:   strings.TrimSpace(in.Series),
		ImageURL: strings.TrimSpace(in.ImageURL),
		Tags:     core.NormalizeTags(in.Tags),
		Rankings: []Ranking{},
	}

	if err = s.repo.AddCharacter(ctx, c); err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}

	return c, nil
}

// UpdateRanking sets actor's tier for one character, replacing any tier
// actor gave it before. Rankings by other users are left as they are.
func (s *Service) UpdateRanking(
	ctx context.Context,
	actor, boardID, characterID, tier string,
) (c *Character, err error) {
	ctx, span := core.StartSpan(ctx, "board.UpdateRanking",
		attribute.String("board_id", boardID),
		attribute.String("character_id", characterID),
	)
	defer func() { core.EndSpan(span, err) }()

	b, err := s.viewable(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}

	if b.Character(characterID) == nil {
		return nil, ErrCharacterNotFound
	}

	t, err := ParseTier(tier)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpsertRanking(ctx, boardID, &Ranking{
		CharacterID: characterID,
		Username:    actor,
		Tier:        t,
	})
	if err != nil {
		return nil, notFoundAs(err, ErrCharacterNotFound)
	}

	c, err = s.repo.GetCharacter(ctx, boardID, characterID)
	if err != nil {
		return nil, notFoundAs(err, ErrCharacterNotFound)
	}
	c.sortRankings()

	return c, nil
}

func (s *Service) AddUser(
	ctx context.Context,
	actor, boardID, username string,
) ([]string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, core.Invalid("username is required")
	}

	if _, err := s.owned(ctx, actor, boardID); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	users, err := s.repo.AddAllowedUser(ctx, boardID, username)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}

	slog.InfoContext(ctx, "user added to board",
		"board_id", boardID,
		"username", username,
		"by", actor,
	)

	return users, nil
}

// TierGrid groups the board's characters by actor's tiers. When tag is set
// only characters carrying it are included.
func (s *Service) TierGrid(
	ctx context.Context,
	actor, boardID, tag string,
) (*TierGrid, error) {
	b, err := s.viewable(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}

	tag = strings.TrimSpace(tag)
	grid := &TierGrid{
		BoardID:  b.ID,
		Tag:      tag,
		S:        []CharacterResponse{},
		A:        []CharacterResponse{},
		B:        []CharacterResponse{},
		C:        []CharacterResponse{},
		D:        []CharacterResponse{},
		Unranked: []CharacterResponse{},
	}

	for i := range b.Characters {
		c := &b.Characters[i]
		if tag != "" && !c.HasTag(tag) {
			continue
		}
		resp := ToCharacterResponse(c, actor)
		bucket := grid.bucket(resp.ViewerTier)
		*bucket = append(*bucket, resp)
	}

	for _, bucket := range []*[]CharacterResponse{
		&grid.S, &grid.A, &grid.B, &grid.C, &grid.D, &grid.Unranked,
	} {
		sort.SliceStable(*bucket, func(i, j int) bool {
			return (*bucket)[i].Name < (*bucket)[j].Name
		})
	}

	return grid, nil
}

// Authorize fails unless actor may view the board.
func (s *Service) Authorize(ctx context.Context, actor, boardID string) error {
	_, err := s.viewable(ctx, actor, boardID)
	return err
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) viewable(ctx context.Context, actor, id string) (*Board, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}
	if !b.CanView(actor) {
		return nil, ErrNoAccess
	}
	return b, nil
}

func (s *Service) owned(ctx context.Context, actor, id string) (*Board, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrBoardNotFound)
	}
	if !b.IsCreator(actor) {
		return nil, ErrNotCreator
	}
	return b, nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, core.ErrNotFound) {
		return target
	}
	return err
}
