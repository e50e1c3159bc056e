package dto

import "github.com/google/uuid"

// CastVoteRequest is discriminated on TargetKind. Any voter id in the body is ignored;
// the voter is always the authenticated caller.
type CastVoteRequest struct {
	TargetID   string `json:"target_id" binding:"required,uuid"`
	TargetKind string `json:"target_kind" binding:"required,oneof=comment answer"`
	Value      *int   `json:"value" binding:"required,oneof=-1 0 1"`
}

// MyVotesQuery selects the caller's votes under one post (comment votes) or one
// question (answer votes).
type MyVotesQuery struct {
	ParentKind string `form:"parent_kind" binding:"required,oneof=post question"`
	Slug       string `form:"slug" binding:"required,max=255"`
}

type TallyRequest struct {
	TargetKind string `uri:"target_kind" binding:"required,oneof=comment answer"`
	TargetID   string `uri:"target_id" binding:"required,uuid"`
}

type MyVoteResponse struct {
	TargetID uuid.UUID `json:"target_id"`
	Value    int       `json:"value"`
}

type TallyResponse struct {
	TargetID uuid.UUID `json:"target_id"`
	Up       int64     `json:"up"`
	Down     int64     `json:"down"`
	Score    int64     `json:"score"`
}
