package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteTargetKind string

const (
	VoteTargetComment VoteTargetKind = "comment"
	VoteTargetAnswer  VoteTargetKind = "answer"
)

// Vote is keyed by (VoterID, TargetID). A missing row means the voter has no vote on the target.
type Vote struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	VoterID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_votes_voter_target,priority:1" json:"voter_id"`
	Voter      User           `gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE" json:"-"`
	TargetID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_votes_voter_target,priority:2;index:idx_votes_target" json:"target_id"`
	TargetKind VoteTargetKind `gorm:"size:16;not null" json:"target_kind"`
	Value      int8           `gorm:"type:smallint;not null;check:chk_votes_value,value IN (-1, 1)" json:"value"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vote) TableName() string {
	return "votes"
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}
