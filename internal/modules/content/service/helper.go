package service

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"anoa.com/qaforum/internal/entity"
	contentDto "anoa.com/qaforum/internal/modules/content/dto"
)

const (
	slugAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength = 6
	timeLayout       = "2006-01-02 15:04:05"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug lowercases title, collapses everything outside [a-z0-9] to single hyphens
// and appends a random base36 suffix. fallback replaces a title with no usable characters.
func generateSlug(title, fallback string) string {
	base := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = fallback
	}
	return base + "-" + randomSuffix(slugSuffixLength)
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = slugAlphabet[rand.IntN(len(slugAlphabet))]
	}
	return string(b)
}

// normalizeTags lowercases, trims and de-duplicates tag names, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func buildAuthor(u entity.User) contentDto.AuthorResponse {
	return contentDto.AuthorResponse{ID: u.ID, Name: u.Name, Image: u.Image}
}

func tagNames(tags []entity.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func buildComment(c entity.Comment) contentDto.ReplyResponse {
	return contentDto.ReplyResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    buildAuthor(c.Author),
		CreatedAt: c.CreatedAt.Format(timeLayout),
	}
}

func buildAnswer(a entity.Answer) contentDto.ReplyResponse {
	return contentDto.ReplyResponse{
		ID:        a.ID,
		Content:   a.Content,
		Author:    buildAuthor(a.Author),
		CreatedAt: a.CreatedAt.Format(timeLayout),
	}
}

func buildPostResponse(p *entity.Post) *contentDto.PostResponse {
	comments := make([]contentDto.ReplyResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, buildComment(c))
	}
	return &contentDto.PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Tags:        tagNames(p.Tags),
		Author:      buildAuthor(p.Author),
		Comments:    comments,
		CreatedAt:   p.CreatedAt.Format(timeLayout),
	}
}

func buildQuestionResponse(q *entity.Question) *contentDto.QuestionResponse {
	answers := make([]contentDto.ReplyResponse, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, buildAnswer(a))
	}
	return &contentDto.QuestionResponse{
		ID:        q.ID,
		Title:     q.Title,
		Slug:      q.Slug,
		Content:   q.Content,
		Tags:      tagNames(q.Tags),
		Author:    buildAuthor(q.Author),
		Answers:   answers,
		CreatedAt: q.CreatedAt.Format(timeLayout),
	}
}
