package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/authz"
	"github.com/openvid/vidshare/internal/config"
	"github.com/openvid/vidshare/internal/media"
	"github.com/openvid/vidshare/internal/model"
	"github.com/openvid/vidshare/internal/queue"
	"github.com/openvid/vidshare/internal/repository"
)

// VideoHandler bundles dependencies for video CRUD and engagement
// endpoints. Publish is optional; when nil no upload events are emitted.
type VideoHandler struct {
	Cfg     config.Config
	Videos  repository.VideoStore
	Media   media.Resolver
	Publish func(ctx context.Context, ev queue.VideoUploadedEvent) error
}

func NewVideoHandler(cfg config.Config, videos repository.VideoStore, m media.Resolver) *VideoHandler {
	return &VideoHandler{Cfg: cfg, Videos: videos, Media: m}
}

type engageReq struct {
	VideoID string `json:"videoId"`
}

// parseTags splits the comma-separated tags form field.
func parseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Create handles POST /api/v1/video/update. Multipart form with title,
// description, category, comma-separated tags plus the `video` and
// `thumbnail` files. Both assets are required. The persisted record's owner
// is always the caller, never client-supplied.
func (h *VideoHandler) Create(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return fail(c, http.StatusBadRequest, errValidation, "title is required")
	}
	if !hasUpload(c, "video") || !hasUpload(c, "thumbnail") {
		return fail(c, http.StatusBadRequest, errValidation, "video and thumbnail are required")
	}

	videoPath, videoCleanup, err := saveUpload(c, "video")
	if err != nil {
		return fail(c, http.StatusBadRequest, errValidation, "could not read video file")
	}
	defer videoCleanup()
	thumbPath, thumbCleanup, err := saveUpload(c, "thumbnail")
	if err != nil {
		return fail(c, http.StatusBadRequest, errValidation, "could not read thumbnail file")
	}
	defer thumbCleanup()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	videoAsset, err := h.Media.Upload(ctx, videoPath, media.KindVideo)
	if err != nil {
		log.Printf("video create: video upload failed: %v", err)
		return fail(c, http.StatusInternalServerError, errExternal, "video upload failed")
	}
	thumbAsset, err := h.Media.Upload(ctx, thumbPath, media.KindImage)
	if err != nil {
		log.Printf("video create: thumbnail upload failed: %v", err)
		// Release the already uploaded video so no orphan asset remains.
		if delErr := h.Media.Delete(ctx, videoAsset.PublicID, media.KindVideo); delErr != nil {
			log.Printf("video create: orphan video cleanup failed: %v", delErr)
		}
		return fail(c, http.StatusInternalServerError, errExternal, "thumbnail upload failed")
	}

	video := model.Video{
		UserID:       claims.UserID(),
		Title:        title,
		Description:  strings.TrimSpace(c.FormValue("description")),
		Category:     strings.TrimSpace(c.FormValue("category")),
		Tags:         parseTags(c.FormValue("tags")),
		VideoURL:     videoAsset.URL,
		VideoID:      videoAsset.PublicID,
		ThumbnailURL: thumbAsset.URL,
		ThumbnailID:  thumbAsset.PublicID,
	}
	if err := h.Videos.Create(ctx, &video); err != nil {
		if delErr := h.Media.Delete(ctx, videoAsset.PublicID, media.KindVideo); delErr != nil {
			log.Printf("video create: orphan video cleanup failed: %v", delErr)
		}
		if delErr := h.Media.Delete(ctx, thumbAsset.PublicID, media.KindImage); delErr != nil {
			log.Printf("video create: orphan thumbnail cleanup failed: %v", delErr)
		}
		return storeFail(c, err)
	}

	if h.Publish != nil {
		ev := queue.VideoUploadedEvent{
			VideoID:     video.ID,
			UserID:      video.UserID,
			ChannelName: claims.ChannelName,
			Title:       video.Title,
			Category:    video.Category,
			UploadedAt:  video.CreatedAt.Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(ctx, ev); err != nil {
				log.Printf("video create: publish upload event failed: %v", err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "video uploaded successfully",
		"video":   video,
	})
}

// Update handles PUT /api/v1/video/update/:id. Only the owner may update;
// metadata fields are partial and an optional `thumbnail` file replaces the
// old asset, which is released from the media host first.
func (h *VideoHandler) Update(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Minute)
	defer cancel()

	video, err := h.Videos.GetByID(ctx, id)
	if err != nil {
		return storeFail(c, err)
	}
	if err := authz.RequireOwner(claims.UserID(), video.UserID); err != nil {
		return storeFail(c, err)
	}

	upd := repository.VideoUpdate{}
	if v := strings.TrimSpace(c.FormValue("title")); v != "" {
		upd.Title = &v
	}
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		upd.Description = &v
	}
	if v := strings.TrimSpace(c.FormValue("category")); v != "" {
		upd.Category = &v
	}
	if v := c.FormValue("tags"); strings.TrimSpace(v) != "" {
		tags := parseTags(v)
		upd.Tags = &tags
	}

	if hasUpload(c, "thumbnail") {
		thumbPath, cleanup, err := saveUpload(c, "thumbnail")
		if err != nil {
			return fail(c, http.StatusBadRequest, errValidation, "could not read thumbnail file")
		}
		defer cleanup()

		if err := h.Media.Delete(ctx, video.ThumbnailID, media.KindImage); err != nil {
			log.Printf("video update: old thumbnail release failed: %v", err)
			return fail(c, http.StatusInternalServerError, errExternal, "could not replace thumbnail")
		}
		thumbAsset, err := h.Media.Upload(ctx, thumbPath, media.KindImage)
		if err != nil {
			log.Printf("video update: thumbnail upload failed: %v", err)
			return fail(c, http.StatusInternalServerError, errExternal, "thumbnail upload failed")
		}
		upd.ThumbnailURL = &thumbAsset.URL
		upd.ThumbnailID = &thumbAsset.PublicID
	}

	updated, err := h.Videos.UpdateMeta(ctx, id, upd)
	if err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "video updated successfully",
		"video":   updated,
	})
}

// Delete handles DELETE /api/v1/video/:id. Only the owner may delete; both
// media assets are released as part of the operation.
func (h *VideoHandler) Delete(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Minute)
	defer cancel()

	video, err := h.Videos.GetByID(ctx, id)
	if err != nil {
		return storeFail(c, err)
	}
	if err := authz.RequireOwner(claims.UserID(), video.UserID); err != nil {
		return storeFail(c, err)
	}

	if err := h.Media.Delete(ctx, video.VideoID, media.KindVideo); err != nil {
		log.Printf("video delete: asset release failed: %v", err)
		return fail(c, http.StatusInternalServerError, errExternal, "could not release video asset")
	}
	if err := h.Media.Delete(ctx, video.ThumbnailID, media.KindImage); err != nil {
		log.Printf("video delete: thumbnail release failed: %v", err)
		return fail(c, http.StatusInternalServerError, errExternal, "could not release thumbnail asset")
	}
	if err := h.Videos.Delete(ctx, id); err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "video deleted successfully"})
}

// GetByID handles GET /api/v1/video/:id. Reading a video counts as viewing
// it: the caller is added to the viewed set in the same atomic read.
func (h *VideoHandler) GetByID(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	video, err := h.Videos.ViewAndGet(ctx, c.Param("id"), claims.UserID())
	if err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, video)
}

// ListAll handles GET /api/v1/video/all.
func (h *VideoHandler) ListAll(c echo.Context) error {
	return h.list(c, repository.VideoFilter{})
}

// ListMine handles GET /api/v1/video/my-video.
func (h *VideoHandler) ListMine(c echo.Context) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	return h.list(c, repository.VideoFilter{OwnerID: claims.UserID()})
}

// ListByCategory handles GET /api/v1/video/category/:category.
func (h *VideoHandler) ListByCategory(c echo.Context) error {
	return h.list(c, repository.VideoFilter{Category: c.Param("category")})
}

// ListByTag handles GET /api/v1/video/tags/:tag.
func (h *VideoHandler) ListByTag(c echo.Context) error {
	return h.list(c, repository.VideoFilter{Tag: c.Param("tag")})
}

func (h *VideoHandler) list(c echo.Context, f repository.VideoFilter) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	videos, err := h.Videos.List(ctx, f)
	if err != nil {
		return storeFail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"videos": videos})
}

// Like handles POST /api/v1/video/like. The caller lands in the liked set
// and leaves the disliked set in one atomic update; liking twice has no
// additional effect.
func (h *VideoHandler) Like(c echo.Context) error {
	return h.engage(c, true)
}

// Dislike handles POST /api/v1/video/dislike, the symmetric inverse of Like.
func (h *VideoHandler) Dislike(c echo.Context) error {
	return h.engage(c, false)
}

func (h *VideoHandler) engage(c echo.Context, like bool) error {
	claims, err := caller(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, errUnauthenticated, "authentication required")
	}
	var req engageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.VideoID) == "" {
		return fail(c, http.StatusBadRequest, errValidation, "videoId is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var video model.Video
	if like {
		video, err = h.Videos.Like(ctx, req.VideoID, claims.UserID())
	} else {
		video, err = h.Videos.Dislike(ctx, req.VideoID, claims.UserID())
	}
	if err != nil {
		return storeFail(c, err)
	}

	message := "liked the video"
	if !like {
		message = "disliked the video"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "video": video})
}
