package reaction

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"anoa.com/kgscp/internal/entity"
	postRepo "anoa.com/kgscp/internal/modules/post/repository"
	reactionDto "anoa.com/kgscp/internal/modules/reaction/dto"
	reactionRepo "anoa.com/kgscp/internal/modules/reaction/repository"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const countsTTL = 7 * 24 * time.Hour

type ReactionService interface {
	// ToggleReaction applies the requested reaction and returns the user's reaction afterwards.
	ToggleReaction(ctx context.Context, userID, postID uuid.UUID, requested string) (*Kind, error)
	GetReactions(ctx context.Context, userID, postID uuid.UUID) (*reactionDto.ReactionsResponse, error)
	// InvalidateCounts drops the cached count hash of a post.
	InvalidateCounts(ctx context.Context, postID uuid.UUID)
}

type reactionService struct {
	repo        reactionRepo.ReactionRepository
	postRepo    postRepo.PostRepository
	redisClient *redis.Client
}

func NewReactionService(repo reactionRepo.ReactionRepository, postRepo postRepo.PostRepository, redisClient *redis.Client) ReactionService {
	return &reactionService{
		repo:        repo,
		postRepo:    postRepo,
		redisClient: redisClient,
	}
}

func countsKey(postID uuid.UUID) string {
	return fmt.Sprintf("counts:post:%s", postID.String())
}

func (s *reactionService) ToggleReaction(ctx context.Context, userID, postID uuid.UUID, requested string) (*Kind, error) {
	kind, err := ParseKind(requested)
	if err != nil {
		return nil, err
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrNotFound
	}

	existing, err := s.repo.FindOne(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	var current *Kind
	if existing != nil {
		k := Kind(existing.Reaction)
		current = &k
	}

	decision := Decide(current, kind)
	row := &entity.Reaction{PostID: postID, UserID: userID, Reaction: string(decision.Reaction)}

	switch decision.Action {
	case ActionInsert:
		err = s.repo.Insert(ctx, row)
	case ActionUpdate:
		err = s.repo.Upsert(ctx, row)
	case ActionDelete:
		err = s.repo.Delete(ctx, postID, userID)
	}
	if err != nil {
		return nil, err
	}

	s.adjustCounts(ctx, postID, current, decision)

	if decision.Action == ActionDelete {
		return nil, nil
	}
	return &decision.Reaction, nil
}

// adjustCountsScript applies field/delta pairs only while the hash exists, so an expired
// hash is never recreated with a single field.
const adjustCountsScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
for i = 1, #ARGV, 2 do
	redis.call("HINCRBY", KEYS[1], ARGV[i], ARGV[i + 1])
end
return 1
`

// adjustCounts keeps a cached count hash in step with the write. A missing hash is left
// for the next read to rebuild from the database.
func (s *reactionService) adjustCounts(ctx context.Context, postID uuid.UUID, current *Kind, decision Decision) {
	if s.redisClient == nil {
		return
	}

	var args []interface{}
	if current != nil {
		args = append(args, string(*current), -1)
	}
	if decision.Action != ActionDelete {
		args = append(args, string(decision.Reaction), 1)
	}

	key := countsKey(postID)
	if err := s.redisClient.Eval(ctx, adjustCountsScript, []string{key}, args...).Err(); err != nil {
		// the database already holds the truth; drop the hash so it gets rebuilt
		logger.L.Warn("redis reaction count update failed", zap.String("post_id", postID.String()), zap.Error(err))
		_ = s.redisClient.Del(ctx, key).Err()
	}
}

func (s *reactionService) InvalidateCounts(ctx context.Context, postID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, countsKey(postID)).Err(); err != nil {
		logger.L.Warn("failed to drop reaction counts", zap.String("post_id", postID.String()), zap.Error(err))
	}
}

func (s *reactionService) counts(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.HGetAll(ctx, countsKey(postID)).Result()
		if err == nil && len(val) > 0 {
			counts := make(map[string]int64)
			for k, v := range val {
				count, _ := strconv.ParseInt(v, 10, 64)
				if count > 0 {
					counts[k] = count
				}
			}
			return counts, nil
		}
	}

	counts, err := s.repo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		key := countsKey(postID)
		pipe := s.redisClient.Pipeline()
		pipe.Del(ctx, key)
		// both fields are written so an empty post still caches as a hit
		pipe.HSet(ctx, key, entity.ReactionLike, counts[entity.ReactionLike], entity.ReactionDislike, counts[entity.ReactionDislike])
		pipe.Expire(ctx, key, countsTTL)
		_, _ = pipe.Exec(ctx)
	}
	return counts, nil
}

func (s *reactionService) GetReactions(ctx context.Context, userID, postID uuid.UUID) (*reactionDto.ReactionsResponse, error) {
	counts, err := s.counts(ctx, postID)
	if err != nil {
		return nil, err
	}

	resp := &reactionDto.ReactionsResponse{
		Likes:    counts[entity.ReactionLike],
		Dislikes: counts[entity.ReactionDislike],
	}

	mine, err := s.repo.FindOne(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if mine != nil {
		resp.UserReacted = &mine.Reaction
	}
	return resp, nil
}
