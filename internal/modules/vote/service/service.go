package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/internal/modules/vote"
	voteDto "anoa.com/qaforum/internal/modules/vote/dto"
	voteRepo "anoa.com/qaforum/internal/modules/vote/repository"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
	"anoa.com/qaforum/pkg/metrics"
)

// TargetFinder reports whether a comment or answer exists. The content repository implements it.
type TargetFinder interface {
	TargetExists(ctx context.Context, kind entity.VoteTargetKind, id uuid.UUID) (bool, error)
}

type VoteService interface {
	CastVote(ctx context.Context, caller identity.Identity, req voteDto.CastVoteRequest) error
	ReadMyVotes(ctx context.Context, caller identity.Identity, query voteDto.MyVotesQuery) ([]voteDto.MyVoteResponse, error)
	GetTally(ctx context.Context, kind string, targetID uuid.UUID) (*voteDto.TallyResponse, error)
}

type voteService struct {
	repo        voteRepo.VoteRepository
	targets     TargetFinder
	redisClient *redis.Client
	tallyTTL    time.Duration
	metrics     *metrics.VoteMetrics
	logger      *zap.Logger
}

func NewVoteService(repo voteRepo.VoteRepository, targets TargetFinder, redisClient *redis.Client, tallyTTL time.Duration, m *metrics.VoteMetrics, logger *zap.Logger) VoteService {
	return &voteService{
		repo:        repo,
		targets:     targets,
		redisClient: redisClient,
		tallyTTL:    tallyTTL,
		metrics:     m,
		logger:      logger,
	}
}

func (s *voteService) CastVote(ctx context.Context, caller identity.Identity, req voteDto.CastVoteRequest) error {
	if err := caller.Require(); err != nil {
		s.reject("unauthorized")
		return err
	}

	kind, targetID, requested, err := parseCast(req)
	if err != nil {
		s.reject("invalid")
		return err
	}

	exists, err := s.targets.TargetExists(ctx, kind, targetID)
	if err != nil {
		s.reject("storage")
		return err
	}
	if !exists {
		s.reject("not_found")
		return apperror.NotFound(string(kind))
	}

	key := voteRepo.Key{VoterID: caller.UserID, TargetID: targetID}
	transition, err := s.repo.Apply(ctx, key, kind, requested)
	if err != nil {
		s.reject("storage")
		return err
	}

	if s.metrics != nil {
		s.metrics.Cast.WithLabelValues(string(kind), string(transition)).Inc()
	}
	s.logger.Debug("vote cast",
		zap.String("voter_id", caller.UserID.String()),
		zap.String("target_id", targetID.String()),
		zap.String("target_kind", string(kind)),
		zap.String("requested", requested.String()),
		zap.String("transition", string(transition)),
	)

	if transition != vote.TransitionNoop {
		s.invalidateTally(ctx, kind, targetID)
	}
	return nil
}

func (s *voteService) ReadMyVotes(ctx context.Context, caller identity.Identity, query voteDto.MyVotesQuery) ([]voteDto.MyVoteResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	votes, err := s.repo.FindByParent(ctx, caller.UserID, query.ParentKind, query.Slug)
	if err != nil {
		return nil, err
	}

	result := make([]voteDto.MyVoteResponse, 0, len(votes))
	for _, v := range votes {
		result = append(result, voteDto.MyVoteResponse{
			TargetID: v.TargetID,
			Value:    int(v.Value),
		})
	}
	return result, nil
}

func (s *voteService) GetTally(ctx context.Context, kind string, targetID uuid.UUID) (*voteDto.TallyResponse, error) {
	targetKind, err := vote.ParseTargetKind(kind)
	if err != nil {
		return nil, err
	}

	redisKey := tallyKey(targetKind, targetID)

	// 1. Try Redis
	if s.redisClient != nil {
		val, err := s.redisClient.HGetAll(ctx, redisKey).Result()
		if err == nil && len(val) > 0 {
			up, _ := strconv.ParseInt(val["up"], 10, 64)
			down, _ := strconv.ParseInt(val["down"], 10, 64)
			return newTally(targetID, up, down), nil
		}
		if err != nil {
			s.logger.Warn("vote tally cache read failed", zap.String("key", redisKey), zap.Error(err))
		}
	}

	// 2. Cache miss, rebuild from DB
	if s.redisClient == nil {
		up, down, err := s.repo.CountByTarget(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return newTally(targetID, up, down), nil
	}

	// The count and the fill happen under WATCH on the version key. A cast that commits in
	// between bumps the version, EXEC aborts and the stale counts are never cached.
	var (
		up, down int64
		countErr error
	)
	fill := func(tx *redis.Tx) error {
		up, down, countErr = s.repo.CountByTarget(ctx, targetID)
		if countErr != nil {
			return countErr
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, redisKey, "up", up, "down", down)
			pipe.Expire(ctx, redisKey, s.tallyTTL)
			return nil
		})
		return err
	}
	err = s.redisClient.Watch(ctx, fill, tallyVersionKey(targetKind, targetID))
	switch {
	case countErr != nil:
		return nil, countErr
	case errors.Is(err, redis.TxFailedErr):
		s.logger.Debug("vote tally changed during fill, not cached", zap.String("key", redisKey))
	case err != nil:
		s.logger.Warn("vote tally cache fill failed", zap.String("key", redisKey), zap.Error(err))
	}

	return newTally(targetID, up, down), nil
}

func (s *voteService) invalidateTally(ctx context.Context, kind entity.VoteTargetKind, targetID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	// The DB write already succeeded. Bumping the version aborts any fill that counted
	// before this commit; a failed invalidation expires with the TTL.
	versionKey := tallyVersionKey(kind, targetID)
	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, s.tallyTTL)
	pipe.Del(ctx, tallyKey(kind, targetID))
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("vote tally cache invalidation failed", zap.String("target_id", targetID.String()), zap.Error(err))
	}
}

func (s *voteService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.Rejected.WithLabelValues(reason).Inc()
	}
}

func parseCast(req voteDto.CastVoteRequest) (entity.VoteTargetKind, uuid.UUID, vote.Value, error) {
	kind, err := vote.ParseTargetKind(req.TargetKind)
	if err != nil {
		return "", uuid.Nil, vote.ValueNone, err
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil || targetID == uuid.Nil {
		return "", uuid.Nil, vote.ValueNone, apperror.Validation("target_id must be a valid UUID")
	}

	if req.Value == nil {
		return "", uuid.Nil, vote.ValueNone, apperror.Validation("value is required")
	}
	value, err := vote.ParseValue(*req.Value)
	if err != nil {
		return "", uuid.Nil, vote.ValueNone, err
	}

	return kind, targetID, value, nil
}

func tallyKey(kind entity.VoteTargetKind, targetID uuid.UUID) string {
	return fmt.Sprintf("vote_tally:%s:%s", kind, targetID.String())
}

func tallyVersionKey(kind entity.VoteTargetKind, targetID uuid.UUID) string {
	return fmt.Sprintf("vote_tally_ver:%s:%s", kind, targetID.String())
}

func newTally(targetID uuid.UUID, up, down int64) *voteDto.TallyResponse {
	return &voteDto.TallyResponse{
		TargetID: targetID,
		Up:       up,
		Down:     down,
		Score:    up - down,
	}
}
