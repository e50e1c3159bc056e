package dto

import "github.com/google/uuid"

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=20000"`
	Tags        []string `json:"tags" binding:"max=5,dive,max=50"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title" binding:"required,max=255"`
	Content string   `json:"content" binding:"required,max=20000"`
	Tags    []string `json:"tags" binding:"max=5,dive,max=50"`
}

// ReplyRequest is the body of both a comment and an answer.
type ReplyRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

type AuthorResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

type ReplyResponse struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt string         `json:"created_at"`
}

type PostResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Author      AuthorResponse  `json:"author"`
	Comments    []ReplyResponse `json:"comments"`
	CreatedAt   string          `json:"created_at"`
}

type QuestionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	Content   string          `json:"content"`
	Tags      []string        `json:"tags"`
	Author    AuthorResponse  `json:"author"`
	Answers   []ReplyResponse `json:"answers"`
	CreatedAt string          `json:"created_at"`
}

type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
