package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/config"
	"github.com/openvid/vidshare/internal/media"
	"github.com/openvid/vidshare/internal/model"
	"github.com/openvid/vidshare/internal/repository"
	"github.com/openvid/vidshare/internal/utils"
)

// UserHandler bundles dependencies for account and subscription endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users repository.UserStore
	Media media.Resolver
}

func NewUserHandler(cfg config.Config, users repository.UserStore, m media.Resolver) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Media: m}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type subscribeReq struct {
	ChannelID string `json:"channelId"`
}

// Signup handles POST /api/v1/user/signup. The body is multipart form data:
// channelName, email, phone, password and a `logo` profile image. All
// fields are required; nothing is persisted unless the image upload and the
// insert both succeed.
func (h *UserHandler) Signup(c echo.Context) error {
	channelName := strings.TrimSpace(c.FormValue("channelName"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	password := c.FormValue("password")
	if channelName == "" || email == "" || phone == "" || password == "" {
		return fail(c, http.StatusBadRequest, errValidation, "channelName, email, phone and password are required")
	}

	logoPath, cleanup, err := saveUpload(c, "logo")
	if err != nil {
		return fail(c, http.StatusBadRequest, errValidation, "profile image is required")
	}
	defer cleanup()

	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, errInternal, "could not process password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	logo, err := h.Media.Upload(ctx, logoPath, media.KindImage)
	if err != nil {
		log.Printf("signup: logo upload failed: %v", err)
		return fail(c, http.StatusInternalServerError, errExternal, "profile image upload failed")
	}

	user := model.User{
		ChannelName:  channelName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		LogoURL:      logo.URL,
		LogoID:       logo.PublicID,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		// The account was not persisted; release the orphaned image.
		if delErr := h.Media.Delete(ctx, logo.PublicID, media.KindImage); delErr != nil {
			log.Printf("signup: orphan logo cleanup failed: %v", delErr)
		}
		return storeFail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "signup successful",
		"user":    user,
	})
}

// Login handles POST /api/v1/user/login. On success the response carries
// the public profile and a bearer token whose claims snapshot the profile.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, errValidation, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, errValidation, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return fail(c, http.StatusUnauthorized, errUnauthenticated, "invalid credentials")
		}
		return storeFail(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "invalid credentials")
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, errInternal, "could not issue token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"user":    u,
		"token":   token.Token,
		"expires": token.Exp,
	})
}

// UpdateProfile handles PUT /api/v1/user/update-profile. Multipart form;
// channelName and phone are optional, as is a replacement `logo` image.
// Unsupplied fields retain their prior value. A replaced image releases the
// old asset after the profile update succeeds.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}

	upd := repository.ProfileUpdate{}
	if v := strings.TrimSpace(c.FormValue("channelName")); v != "" {
		upd.ChannelName = &v
	}
	if v := strings.TrimSpace(c.FormValue("phone")); v != "" {
		upd.Phone = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	var oldLogoID string
	if hasUpload(c, "logo") {
		current, err := h.Users.GetByID(ctx, claims.UserID())
		if err != nil {
			return storeFail(c, err)
		}
		oldLogoID = current.LogoID

		logoPath, cleanup, err := saveUpload(c, "logo")
		if err != nil {
			return fail(c, http.StatusBadRequest, errValidation, "could not read profile image")
		}
		defer cleanup()

		logo, err := h.Media.Upload(ctx, logoPath, media.KindImage)
		if err != nil {
			log.Printf("update-profile: logo upload failed: %v", err)
			return fail(c, http.StatusInternalServerError, errExternal, "profile image upload failed")
		}
		upd.LogoURL = &logo.URL
		upd.LogoID = &logo.PublicID
	}

	user, err := h.Users.UpdateProfile(ctx, claims.UserID(), upd)
	if err != nil {
		return storeFail(c, err)
	}

	if oldLogoID != "" && upd.LogoID != nil && oldLogoID != *upd.LogoID {
		if err := h.Media.Delete(ctx, oldLogoID, media.KindImage); err != nil {
			log.Printf("update-profile: old logo release failed: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user":    user,
	})
}

// Subscribe handles POST /api/v1/user/subscribed. Subscribing to yourself
// is rejected; subscribing twice is a no-op and the target's subscriber
// count moves only when the edge is newly added.
func (h *UserHandler) Subscribe(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	var req subscribeReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ChannelID) == "" {
		return fail(c, http.StatusBadRequest, errValidation, "channelId is required")
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == claims.UserID() {
		return fail(c, http.StatusBadRequest, errInvalidOp, "you cannot subscribe to your own channel")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Subscribe(ctx, claims.UserID(), channelID); err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "subscribed successfully",
		"channelId": channelID,
	})
}
