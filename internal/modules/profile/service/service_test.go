package profile

import (
	"context"
	"errors"
	"testing"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/internal/mocks"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	me     = uuid.MustParse("018f0000-0000-7000-8000-000000000b01")
	minji  = uuid.MustParse("018f0000-0000-7000-8000-000000000b02")
	junho  = uuid.MustParse("018f0000-0000-7000-8000-000000000b03")
	nobody = uuid.MustParse("018f0000-0000-7000-8000-000000000b99")
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func seededRepo() *mocks.MockProfileRepository {
	return mocks.NewMockProfileRepository(
		entity.Profile{ID: me, Name: "Me", Grade: intPtr(10), Role: entity.RoleUser, Interests: entity.Interests([]string{"robotics"})},
		entity.Profile{ID: minji, Name: "Minji", Grade: intPtr(10), Role: entity.RoleUser},
		entity.Profile{ID: junho, Name: "Junho", Grade: intPtr(11), Role: entity.RoleUser},
	)
}

func TestUpdateProfile(t *testing.T) {
	repo := seededRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, me, profileDto.UpdateProfileInput{
		Name:     "  Kim Me ",
		Username: strPtr("kim me"),
		Grade:    intPtr(11),
		Bio:      strPtr("   "),
		MBTI:     strPtr("intj"),
	})
	require.NoError(t, err)

	p, err := repo.FindByID(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, "Kim Me", p.Name)
	require.NotNil(t, p.Username)
	assert.Equal(t, "kim_me", *p.Username)
	assert.Equal(t, 11, *p.Grade)
	assert.Nil(t, p.Bio)
	assert.Equal(t, "INTJ", *p.MBTI)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := NewProfileService(seededRepo())
	ctx := context.Background()

	err := svc.UpdateProfile(ctx, me, profileDto.UpdateProfileInput{Name: " "})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	err = svc.UpdateProfile(ctx, me, profileDto.UpdateProfileInput{Name: "Me", Username: strPtr("ab")})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	// length is counted in characters, not bytes
	err = svc.UpdateProfile(ctx, me, profileDto.UpdateProfileInput{Name: "Me", Username: strPtr("김")})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	require.NoError(t, svc.UpdateProfile(ctx, me, profileDto.UpdateProfileInput{Name: "Me", Username: strPtr("김민수")}))

	err = svc.UpdateProfile(ctx, nobody, profileDto.UpdateProfileInput{Name: "Ghost"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestInterests(t *testing.T) {
	repo := seededRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	require.NoError(t, svc.AddInterest(ctx, me, " chess "))
	require.NoError(t, svc.AddInterest(ctx, me, "chess"))

	p, _ := repo.FindByID(ctx, me)
	assert.Equal(t, []string{"robotics", "chess"}, []string(p.Interests))

	require.NoError(t, svc.RemoveInterest(ctx, me, "robotics"))
	require.NoError(t, svc.RemoveInterest(ctx, me, "unknown"))

	p, _ = repo.FindByID(ctx, me)
	assert.Equal(t, []string{"chess"}, []string(p.Interests))

	err := svc.AddInterest(ctx, me, "  ")
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestDirectory(t *testing.T) {
	svc := NewProfileService(seededRepo())
	ctx := context.Background()

	all, err := svc.Directory(ctx, me, profileDto.DirectoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Junho", all[0].Name)
	assert.Equal(t, "Minji", all[1].Name)

	grade10, err := svc.Directory(ctx, me, profileDto.DirectoryFilter{Grade: intPtr(10)})
	require.NoError(t, err)
	require.Len(t, grade10, 1)
	assert.Equal(t, minji, grade10[0].ID)

	byName, err := svc.Directory(ctx, me, profileDto.DirectoryFilter{Search: "jun"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, junho, byName[0].ID)
}

func TestSessionCache_CreatesFallbackProfile(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		identity profileDto.Identity
		wantName string
		wantUser *string
	}{
		{"name claim", profileDto.Identity{ID: uuid.New(), Name: "Seoyeon", Username: "seo"}, "Seoyeon", strPtr("seo")},
		{"email fallback", profileDto.Identity{ID: uuid.New(), Email: "a@school.kr"}, "a@school.kr", nil},
		{"default name", profileDto.Identity{ID: uuid.New()}, "User", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockProfileRepository()
			session := NewSessionCache(repo, nil)

			p, err := session.Current(ctx, tc.identity)
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, p.Name)
			assert.Equal(t, tc.wantUser, p.Username)
			assert.Equal(t, entity.RoleUser, p.Role)

			stored, err := repo.FindByID(ctx, tc.identity.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, stored.Name)
		})
	}
}

func TestSessionCache_ExistingProfile(t *testing.T) {
	repo := mocks.NewMockProfileRepository(entity.Profile{ID: me, Name: "Me", Role: "moderator"})
	session := NewSessionCache(repo, nil)
	ctx := context.Background()

	p, err := session.Current(ctx, profileDto.Identity{ID: me, Name: "Claim Name"})
	require.NoError(t, err)
	assert.Equal(t, "Me", p.Name)
	assert.Equal(t, entity.RoleUser, p.Role)

	_, err = session.Refresh(ctx, nobody)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
