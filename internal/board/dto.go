// AngelaMos | 2026
// dto.go

package board

import (
	"time"
)

type CreateBoardRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	InitialTags []string `json:"initialTags" validate:"max=50,dive,max=50"`
}

type UpdateBoardRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AddTagRequest struct {
	Tag string `json:"tag" validate:"required,max=50"`
}

type CharacterInput struct {
	Name     string   `json:"name"     validate:"required,max=100"`
	Series   string   `json:"series"   validate:"max=100"`
	ImageURL string   `json:"imageUrl" validate:"max=2048"`
	Tags     []string `json:"tags"     validate:"max=20,dive,max=50"`
}

type AddCharacterRequest struct {
	Character CharacterInput `json:"character" validate:"required"`
}

// RankingRequest carries only the tier; the ranking user is always the
// session principal.
type RankingRequest struct {
	Tier string `json:"tier" validate:"required"`
}

type AddUserRequest struct {
	Username string `json:"username" validate:"required,max=32"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

type RankingResponse struct {
	UserID    string    `json:"userId"`
	Tier      Tier      `json:"tier"`
	Timestamp time.Time `json:"timestamp"`
}

type CharacterResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Series     string            `json:"series"`
	ImageURL   string            `json:"imageUrl"`
	Tags       []string          `json:"tags"`
	Rankings   []RankingResponse `json:"rankings"`
	ViewerTier *Tier             `json:"viewerTier"`
}

type BoardResponse struct {
	ID              string                       `json:"id"`
	Name            string                       `json:"name"`
	AccessKey       string                       `json:"accessKey"`
	CreatorUsername string                       `json:"creatorUsername"`
	TagList         []string                     `json:"tagList"`
	Characters      map[string]CharacterResponse `json:"characters"`
	AllowedUsers    []string                     `json:"allowedUsers"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

type TagListResponse struct {
	TagList []string `json:"tagList"`
}

type AllowedUsersResponse struct {
	AllowedUsers []string `json:"allowedUsers"`
}

// TierGrid buckets a board's characters by the viewer's tiers.
type TierGrid struct {
	BoardID  string              `json:"boardId"`
	Tag      string              `json:"tag,omitempty"`
	S        []CharacterResponse `json:"S"`
	A        []CharacterResponse `json:"A"`
	B        []CharacterResponse `json:"B"`
	C        []CharacterResponse `json:"C"`
	D        []CharacterResponse `json:"D"`
	Unranked []CharacterResponse `json:"unranked"`
}

func (g *TierGrid) bucket(t *Tier) *[]CharacterResponse {
	if t == nil {
		return &g.Unranked
	}
	switch *t {
	case TierS:
		return &g.S
	case TierA:
		return &g.A
	case TierB:
		return &g.B
	case TierC:
		return &g.C
	default:
		return &g.D
	}
}

func ToCharacterResponse(c *Character, viewer string) CharacterResponse {
	rankings := make([]RankingResponse, 0, len(c.Rankings))
	for _, r := range c.Rankings {
		rankings = append(rankings, RankingResponse{
			UserID:    r.Username,
			Tier:      r.Tier,
			Timestamp: r.RankedAt,
		})
	}

	resp := CharacterResponse{
		ID:       c.ID,
		Name:     c.Name,
		Series:   c.Series,
		ImageURL: c.ImageURL,
		Tags:     nonNil(c.Tags),
		Rankings: rankings,
	}

	if r := c.RankingFor(viewer); r != nil {
		tier := r.Tier
		resp.ViewerTier = &tier
	}

	return resp
}

func ToBoardResponse(b *Board, viewer string) BoardResponse {
	chars := make(map[string]CharacterResponse, len(b.Characters))
	for i := range b.Characters {
		chars[b.Characters[i].ID] = ToCharacterResponse(&b.Characters[i], viewer)
	}

	return BoardResponse{
		ID:              b.ID,
		Name:            b.Name,
		AccessKey:       b.AccessKey,
		CreatorUsername: b.CreatorUsername,
		TagList:         nonNil(b.TagList),
		Characters:      chars,
		AllowedUsers:    nonNil(b.AllowedUsers),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToBoardListResponse(boards []Board, viewer string) []BoardResponse {
	out := make([]BoardResponse, 0, len(boards))
	for i := range boards {
		out = append(out, ToBoardResponse(&boards[i], viewer))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
