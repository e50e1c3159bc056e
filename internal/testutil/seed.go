//go:build integration

package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"anoa.com/qaforum/internal/entity"
)

func SeedUser(t *testing.T, db *gorm.DB, name string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedPost(t *testing.T, db *gorm.DB, author *entity.User, title, slug string) *entity.Post {
	t.Helper()
	p := &entity.Post{AuthorID: author.ID, Title: title, Slug: slug, Description: "body"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedComment(t *testing.T, db *gorm.DB, post *entity.Post, author *entity.User) *entity.Comment {
	t.Helper()
	c := &entity.Comment{PostID: post.ID, AuthorID: author.ID, Content: "comment"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedQuestion(t *testing.T, db *gorm.DB, author *entity.User, title, slug string) *entity.Question {
	t.Helper()
	q := &entity.Question{AuthorID: author.ID, Title: title, Slug: slug, Content: "body"}
	require.NoError(t, db.Create(q).Error)
	return q
}

func SeedAnswer(t *testing.T, db *gorm.DB, question *entity.Question, author *entity.User) *entity.Answer {
	t.Helper()
	a := &entity.Answer{QuestionID: question.ID, AuthorID: author.ID, Content: "answer"}
	require.NoError(t, db.Create(a).Error)
	return a
}
