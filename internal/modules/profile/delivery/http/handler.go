package handler

import (
	"context"
	"net/http"

	"anoa.com/kgscp/internal/middleware"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	profile "anoa.com/kgscp/internal/modules/profile/service"
	view "anoa.com/kgscp/internal/modules/view/service"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService profile.ProfileService
	session        profile.SessionCache
	views          view.ViewService
}

func NewProfileHandler(profileService profile.ProfileService, session profile.SessionCache, views view.ViewService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		session:        session,
		views:          views,
	}
}

func (h *ProfileHandler) profileView(c *gin.Context, m view.Mutation) {
	viewer, err := middleware.CurrentProfile(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	vm, err := h.views.Profile(c.Request.Context(), viewer, m)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vm})
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	h.profileView(c, nil)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	h.profileView(c, func(ctx context.Context) error {
		return h.profileService.UpdateProfile(ctx, userID, input)
	})
}

func (h *ProfileHandler) AddInterest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req profileDto.AddInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.profileView(c, func(ctx context.Context) error {
		return h.profileService.AddInterest(ctx, userID, req.Interest)
	})
}

func (h *ProfileHandler) RemoveInterest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	interest := c.Param("interest")
	h.profileView(c, func(ctx context.Context) error {
		return h.profileService.RemoveInterest(ctx, userID, interest)
	})
}

func (h *ProfileHandler) Directory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter profileDto.DirectoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	profiles, err := h.profileService.Directory(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profileDto.ToPublicList(profiles)})
}

func (h *ProfileHandler) GetProfileByID(c *gin.Context) {
	id, err := response.ParseIDParam(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	p, err := h.profileService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profileDto.ToPublic(*p)})
}

// SignOut forgets the cached session and every committed view of the caller. The token
// itself is revoked by the identity provider.
func (h *ProfileHandler) SignOut(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.session.Clear(c.Request.Context(), userID)
	h.views.Clear(userID)

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
