// AngelaMos | 2026
// entity.go

package board

import (
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/tierboard/internal/core"
)

type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierS, TierA, TierB, TierC, TierD}

func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierS, TierA, TierB, TierC, TierD:
		return t, nil
	default:
		return "", core.Invalid("tier must be one of S, A, B, C, D")
	}
}

type Board struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	AccessKey       string         `db:"access_key"`
	CreatorUsername string         `db:"creator_username"`
	TagList         pq.StringArray `db:"tag_list"`
	AllowedUsers    pq.StringArray `db:"allowed_users"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`

	Characters []Character `db:"-"`
}

func (b *Board) IsCreator(username string) bool {
	return username != "" && b.CreatorUsername == username
}

// CanView reports whether username is the creator or on the allow-list.
func (b *Board) CanView(username string) bool {
	if b.IsCreator(username) {
		return true
	}
	for _, u := range b.AllowedUsers {
		if u == username {
			return true
		}
	}
	return false
}

func (b *Board) Character(id string) *Character {
	for i := range b.Characters {
		if b.Characters[i].ID == id {
			return &b.Characters[i]
		}
	}
	return nil
}

type Character struct {
	ID        string         `db:"id"`
	BoardID   string         `db:"board_id"`
	Name      string         `db:"name"`
	Series    string         `db:"series"`
	ImageURL  string         `db:"image_url"`
	Tags      pq.StringArray `db:"tags"`
	CreatedAt time.Time      `db:"created_at"`

	Rankings []Ranking `db:"-"`
}

// RankingFor returns username's ranking of the character, or nil when the
// user has not ranked it.
func (c *Character) RankingFor(username string) *Ranking {
	for i := range c.Rankings {
		if c.Rankings[i].Username == username {
			return &c.Rankings[i]
		}
	}
	return nil
}

func (c *Character) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// sortRankings orders rankings by time, oldest first.
func (c *Character) sortRankings() {
	sort.SliceStable(c.Rankings, func(i, j int) bool {
		if c.Rankings[i].RankedAt.Equal(c.Rankings[j].RankedAt) {
			return c.Rankings[i].Username < c.Rankings[j].Username
		}
		return c.Rankings[i].RankedAt.Before(c.Rankings[j].RankedAt)
	})
}

type Ranking struct {
	CharacterID string    `db:"character_id"`
	Username    string    `db:"username"`
	Tier        Tier      `db:"tier"`
	RankedAt    time.Time `db:"ranked_at"`
}

type Stats struct {
	Boards     int `db:"boards"     json:"boards"`
	Characters int `db:"characters" json:"characters"`
	Rankings   int `db:"rankings"   json:"rankings"`
}
