// AngelaMos | 2026
// fake_test.go

package board

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/tierboard/internal/core"
)

// memRepo is an in-memory Repository with the same add-to-set and upsert
// semantics as the Postgres implementation.
type memRepo struct {
	mu       sync.Mutex
	boards   map[string]*Board
	order    []string
	clock    time.Time
	failNext int
}

func newMemRepo() *memRepo {
	return &memRepo{
		boards: make(map[string]*Board),
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) Create(_ context.Context, b *Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext > 0 {
		m.failNext--
		return ErrAccessKeyTaken
	}
	for _, existing := range m.boards {
		if existing.AccessKey == b.AccessKey {
			return ErrAccessKeyTaken
		}
	}

	now := m.tick()
	b.CreatedAt, b.UpdatedAt = now, now
	if b.AllowedUsers == nil {
		b.AllowedUsers = []string{}
	}
	m.boards[b.ID] = cloneBoard(b)
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[id]
	if !ok {
		return nil, fmt.Errorf("get board: %w", core.ErrNotFound)
	}
	return cloneBoard(b), nil
}

func (m *memRepo) GetByAccessKey(_ context.Context, key string) (*Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.boards {
		if b.AccessKey == key {
			return cloneBoard(b), nil
		}
	}
	return nil, fmt.Errorf("get board: %w", core.ErrNotFound)
}

func (m *memRepo) ListForUser(_ context.Context, username string) ([]Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Board
	for _, id := range m.order {
		b, ok := m.boards[id]
		if ok && b.CanView(username) {
			out = append(out, *cloneBoard(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *memRepo) Rename(_ context.Context, id, name string) (*Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[id]
	if !ok {
		return nil, fmt.Errorf("rename board: %w", core.ErrNotFound)
	}
	b.Name = name
	b.UpdatedAt = m.tick()
	return cloneBoard(b), nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[id]; !ok {
		return fmt.Errorf("delete board: %w", core.ErrNotFound)
	}
	delete(m.boards, id)
	return nil
}

func (m *memRepo) AddTag(_ context.Context, id, tag string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[id]
	if !ok {
		return nil, fmt.Errorf("add tag: %w", core.ErrNotFound)
	}
	if !contains(b.TagList, tag) {
		b.TagList = append(b.TagList, tag)
		b.UpdatedAt = m.tick()
	}
	return append([]string{}, b.TagList...), nil
}

func (m *memRepo) AddAllowedUser(_ context.Context, id, username string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[id]
	if !ok {
		return nil, fmt.Errorf("add allowed user: %w", core.ErrNotFound)
	}
	if username != b.CreatorUsername && !contains(b.AllowedUsers, username) {
		b.AllowedUsers = append(b.AllowedUsers, username)
	}
	return append([]string{}, b.AllowedUsers...), nil
}

func (m *memRepo) AddCharacter(_ context.Context, c *Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[c.BoardID]
	if !ok {
		return fmt.Errorf("add character: %w", core.ErrNotFound)
	}
	for _, t := range c.Tags {
		if !contains(b.TagList, t) {
			b.TagList = append(b.TagList, t)
		}
	}
	now := m.tick()
	c.CreatedAt = now
	b.UpdatedAt = now
	b.Characters = append(b.Characters, cloneCharacter(c))
	return nil
}

func (m *memRepo) GetCharacter(_ context.Context, boardID, characterID string) (*Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[boardID]
	if !ok {
		return nil, fmt.Errorf("get character: %w", core.ErrNotFound)
	}
	c := b.Character(characterID)
	if c == nil {
		return nil, fmt.Errorf("get character: %w", core.ErrNotFound)
	}
	out := cloneCharacter(c)
	return &out, nil
}

func (m *memRepo) UpsertRanking(_ context.Context, boardID string, rk *Ranking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[boardID]
	if !ok {
		return fmt.Errorf("upsert ranking: %w", core.ErrNotFound)
	}
	c := b.Character(rk.CharacterID)
	if c == nil {
		return fmt.Errorf("upsert ranking: %w", core.ErrNotFound)
	}

	now := m.tick()
	rk.RankedAt = now
	b.UpdatedAt = now

	if existing := c.RankingFor(rk.Username); existing != nil {
		existing.Tier = rk.Tier
		existing.RankedAt = now
		return nil
	}
	c.Rankings = append(c.Rankings, *rk)
	return nil
}

func (m *memRepo) Stats(_ context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Stats
	for _, b := range m.boards {
		s.Boards++
		s.Characters += len(b.Characters)
		for _, c := range b.Characters {
			s.Rankings += len(c.Rankings)
		}
	}
	return &s, nil
}

func cloneBoard(b *Board) *Board {
	out := *b
	out.TagList = append([]string{}, b.TagList...)
	out.AllowedUsers = append([]string{}, b.AllowedUsers...)
	out.Characters = make([]Character, 0, len(b.Characters))
	for i := range b.Characters {
		out.Characters = append(out.Characters, cloneCharacter(&b.Characters[i]))
	}
	return &out
}

func cloneCharacter(c *Character) Character {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	out.Rankings = append([]Ranking{}, c.Rankings...)
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type userSet map[string]bool

func (u userSet) Exists(_ context.Context, username string) (bool, error) {
	return u[username], nil
}
