package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/authz"
	"github.com/openvid/vidshare/internal/model"
	"github.com/openvid/vidshare/internal/repository"
)

// CommentHandler bundles dependencies for comment endpoints. The video
// store validates the parent on creation; the user store resolves author
// profiles for the listing join.
type CommentHandler struct {
	Comments repository.CommentStore
	Videos   repository.VideoStore
	Users    repository.UserStore
}

func NewCommentHandler(comments repository.CommentStore, videos repository.VideoStore, users repository.UserStore) *CommentHandler {
	return &CommentHandler{Comments: comments, Videos: videos, Users: users}
}

type commentCreateReq struct {
	VideoID string `json:"videoId"`
	Text    string `json:"commentText"`
}

type commentUpdateReq struct {
	Text string `json:"commentText"`
}

// Create handles POST /api/v1/comment/new. Any authenticated user may
// comment on an existing video; the persisted owner is always the caller.
func (h *CommentHandler) Create(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	var req commentCreateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, errValidation, "invalid body")
	}
	req.VideoID = strings.TrimSpace(req.VideoID)
	req.Text = strings.TrimSpace(req.Text)
	if req.VideoID == "" || req.Text == "" {
		return fail(c, http.StatusBadRequest, errValidation, "videoId and commentText are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Videos.GetByID(ctx, req.VideoID); err != nil {
		return storeFail(c, err)
	}

	comment := model.Comment{
		VideoID: req.VideoID,
		UserID:  claims.UserID(),
		Text:    req.Text,
	}
	if err := h.Comments.Create(ctx, &comment); err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "comment added successfully",
		"comment": comment,
	})
}

// Update handles PUT /api/v1/comment/:commentId. Owner only.
func (h *CommentHandler) Update(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	var req commentUpdateReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return fail(c, http.StatusBadRequest, errValidation, "commentText is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Comments.GetByID(ctx, c.Param("commentId"))
	if err != nil {
		return storeFail(c, err)
	}
	if err := authz.RequireOwner(claims.UserID(), comment.UserID); err != nil {
		return storeFail(c, err)
	}

	updated, err := h.Comments.UpdateText(ctx, comment.ID, strings.TrimSpace(req.Text))
	if err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "comment updated successfully",
		"comment": updated,
	})
}

// Delete handles DELETE /api/v1/comment/:commentId. Owner only; a missing
// comment is 404 regardless of who asks.
func (h *CommentHandler) Delete(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comment, err := h.Comments.GetByID(ctx, c.Param("commentId"))
	if err != nil {
		return storeFail(c, err)
	}
	if err := authz.RequireOwner(claims.UserID(), comment.UserID); err != nil {
		return storeFail(c, err)
	}
	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted successfully"})
}

// ListByVideo handles GET /api/v1/comment/comment/:videoId. Each comment is
// enriched with the commenting user's public fields (channel name, profile
// image) rather than just the raw owner id.
func (h *CommentHandler) ListByVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByVideo(ctx, c.Param("videoId"))
	if err != nil {
		return storeFail(c, err)
	}

	ids := make([]string, 0, len(comments))
	seen := map[string]bool{}
	for _, cm := range comments {
		if !seen[cm.UserID] {
			seen[cm.UserID] = true
			ids = append(ids, cm.UserID)
		}
	}
	profiles, err := h.Users.PublicProfiles(ctx, ids)
	if err != nil {
		return storeFail(c, err)
	}

	out := make([]model.CommentWithAuthor, 0, len(comments))
	for _, cm := range comments {
		out = append(out, model.CommentWithAuthor{Comment: cm, Author: profiles[cm.UserID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": out})
}
