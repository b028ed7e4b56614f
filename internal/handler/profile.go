package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeremyha1/cherry/internal/model"
	"github.com/jeremyha1/cherry/internal/repository"
	"github.com/jeremyha1/cherry/internal/storage"
)

// ProfileHandler serves the user's own profile and the public view
// of other users.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
	Avatars  *storage.AvatarStore
}

func NewProfileHandler(p *repository.ProfileRepo, a *storage.AvatarStore) *ProfileHandler {
	return &ProfileHandler{Profiles: p, Avatars: a}
}

type profileResp struct {
	ID          uint64 `json:"id"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Bio         string `json:"bio,omitempty"`
	Age         string `json:"age,omitempty"`
	Interests   string `json:"interests,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func profileView(p model.Profile) profileResp {
	return profileResp{
		ID:          p.ID,
		FullName:    p.FullName,
		DisplayName: p.DisplayName(),
		Role:        p.Role,
		Bio:         p.Bio,
		Age:         p.Age,
		Interests:   p.Interests,
		LinkedinURL: p.LinkedinURL,
		AvatarURL:   p.AvatarURL,
	}
}

type updateProfileReq struct {
	FullName    *string `json:"full_name"`
	Bio         *string `json:"bio"`
	Age         *string `json:"age"`
	Interests   *string `json:"interests"`
	LinkedinURL *string `json:"linkedin_url"`
	// AvatarImage carries a base64-encoded image (optionally a data
	// URI). It is uploaded to the storage provider and the resulting
	// URL replaces avatar_url.
	AvatarImage *string `json:"avatar_image"`
}

// GetMine returns the caller's profile.
func (h *ProfileHandler) GetMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, profileView(p))
}

// UpdateMine patches the caller's profile. Only fields present in
// the body change; an avatar image, when given, is pushed to the
// storage provider first.
func (h *ProfileHandler) UpdateMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}

	if req.FullName != nil {
		p.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Age != nil {
		p.Age = strings.TrimSpace(*req.Age)
	}
	if req.Interests != nil {
		p.Interests = strings.TrimSpace(*req.Interests)
	}
	if req.LinkedinURL != nil {
		p.LinkedinURL = strings.TrimSpace(*req.LinkedinURL)
	}
	if req.AvatarImage != nil && *req.AvatarImage != "" {
		if h.Avatars == nil || !h.Avatars.Configured() {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "avatar upload unavailable"})
		}
		// Upload uses the request context, not the DB-bounded one;
		// the provider is slower than MySQL.
		url, err := h.Avatars.Upload(c.Request().Context(), *req.AvatarImage, fmt.Sprintf("user_%d", uid))
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "avatar upload failed"})
		}
		p.AvatarURL = url
	}

	if err := h.Profiles.Update(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	return c.JSON(http.StatusOK, profileView(p))
}

// GetPublic returns another user's profile by id. Public: browse
// pages show host profiles to anonymous visitors.
func (h *ProfileHandler) GetPublic(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, profileView(p))
}
