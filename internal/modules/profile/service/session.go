package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/kgscp/internal/entity"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	profileRepo "anoa.com/kgscp/internal/modules/profile/repository"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

// SessionCache resolves the signed-in user's profile, creating it on first access.
type SessionCache interface {
	Current(ctx context.Context, identity profileDto.Identity) (*entity.Profile, error)
	// Refresh reloads the profile from the database and replaces the cached copy.
	Refresh(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Clear(ctx context.Context, userID uuid.UUID)
}

type sessionCache struct {
	repo        profileRepo.ProfileRepository
	redisClient *redis.Client
}

// NewSessionCache returns a cache backed by Redis. With a nil client every call reads
// the database.
func NewSessionCache(repo profileRepo.ProfileRepository, redisClient *redis.Client) SessionCache {
	return &sessionCache{repo: repo, redisClient: redisClient}
}

func sessionKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:profile:%s", userID.String())
}

// fallbackProfile builds the row inserted for a principal that has no profile yet.
func fallbackProfile(identity profileDto.Identity) *entity.Profile {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.TrimSpace(identity.Email)
	}
	if name == "" {
		name = "User"
	}

	p := &entity.Profile{
		ID:        identity.ID,
		Name:      name,
		Role:      entity.RoleUser,
		Interests: entity.Interests(nil),
	}
	if username := strings.TrimSpace(identity.Username); username != "" {
		p.Username = &username
	}
	return p
}

func (s *sessionCache) Current(ctx context.Context, identity profileDto.Identity) (*entity.Profile, error) {
	if cached := s.cached(ctx, identity.ID); cached != nil {
		return cached, nil
	}

	profile, err := s.repo.FindByID(ctx, identity.ID)
	if errors.Is(err, apperror.ErrNotFound) {
		profile, err = s.repo.Ensure(ctx, fallbackProfile(identity))
	}
	if err != nil {
		return nil, err
	}

	profile.Role = entity.NormalizeRole(profile.Role)
	s.store(ctx, profile)
	return profile, nil
}

func (s *sessionCache) Refresh(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Role = entity.NormalizeRole(profile.Role)
	s.store(ctx, profile)
	return profile, nil
}

func (s *sessionCache) Clear(ctx context.Context, userID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, sessionKey(userID)).Err(); err != nil {
		logger.L.Warn("failed to clear session cache", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *sessionCache) cached(ctx context.Context, userID uuid.UUID) *entity.Profile {
	if s.redisClient == nil {
		return nil
	}
	val, err := s.redisClient.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L.Warn("session cache read failed", zap.Error(err))
		}
		return nil
	}
	var profile entity.Profile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil
	}
	return &profile
}

func (s *sessionCache) store(ctx context.Context, profile *entity.Profile) {
	if s.redisClient == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, sessionKey(profile.ID), data, sessionTTL).Err(); err != nil {
		logger.L.Warn("session cache write failed", zap.Error(err))
	}
}
