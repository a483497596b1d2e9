package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/domain/horse"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/media"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/storage"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

const msgHorseNotFound = "Horse not found"

// ======================================================
// HANDLER
// ======================================================

type HorseHandler struct {
	repo   horse.Repository
	photos storage.Store
	audit  *audit.Dispatcher
	log    zerolog.Logger
}

// NewHorseHandler accepts a nil store; photo routes then answer 503.
func NewHorseHandler(
	repo horse.Repository,
	photos storage.Store,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *HorseHandler {
	return &HorseHandler{
		repo:   repo,
		photos: photos,
		audit:  audit,
		log:    log.With().Str("handler", "horses").Logger(),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateHorseRequest struct {
	OwnerID     string `json:"ownerId" binding:"required,min=1"`
	Name        string `json:"name" binding:"omitempty,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Color       string `json:"color" binding:"omitempty,max=50"`
	Discipline  string `json:"discipline" binding:"omitempty,max=50"`
	AgeYears    *int   `json:"ageYears" binding:"omitempty,gte=0,lte=60"`
	HeightCm    *int   `json:"heightCm" binding:"omitempty,gte=0,lte=250"`
	WeightKg    *int   `json:"weightKg" binding:"omitempty,gte=0,lte=2000"`
}

type UpdateHorseRequest struct {
	ID          string  `json:"id" binding:"required,uuid"`
	OwnerID     *string `json:"ownerId" binding:"omitempty,min=1"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Color       *string `json:"color" binding:"omitempty,max=50"`
	Discipline  *string `json:"discipline" binding:"omitempty,max=50"`
	AgeYears    *int    `json:"ageYears" binding:"omitempty,gte=0,lte=60"`
	HeightCm    *int    `json:"heightCm" binding:"omitempty,gte=0,lte=250"`
	WeightKg    *int    `json:"weightKg" binding:"omitempty,gte=0,lte=2000"`
}

type DeleteHorseRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// bindHorse answers validation failures with the {success, errors} shape.
func bindHorse(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Fields(c, validators.Details(err))
		return false
	}
	return true
}

// horseIDField checks an id read from the query or a form field.
func horseIDField(c *gin.Context, id string) bool {
	fields := validators.FieldErrors{}
	switch {
	case id == "":
		fields.Add("id", "id is required")
	case !validators.IsUUID(id):
		fields.Add("id", "id must be a valid UUID")
	default:
		return true
	}
	httperr.Fields(c, fields)
	return false
}

// ======================================================
// GET /api/horse
// ======================================================

func (h *HorseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		if !horseIDField(c, id) {
			return
		}
		found, err := h.repo.GetHorseByID(ctx, id)
		if err != nil {
			respondError(c, h.log, "get_horse", err, msgHorseNotFound)
			return
		}
		if found == nil {
			httperr.NotFound(c, msgHorseNotFound)
			return
		}
		httpresp.OK(c, found)
		return
	}

	ownerID := c.Query("ownerId")
	if ownerID == "" {
		fields := validators.FieldErrors{}
		fields.Add("ownerId", "ownerId is required")
		httperr.Fields(c, fields)
		return
	}

	horses, err := h.repo.ListHorsesByOwner(ctx, ownerID)
	if err != nil {
		respondError(c, h.log, "list_horses", err, msgHorseNotFound)
		return
	}
	if horses == nil {
		horses = []models.Horse{}
	}

	httpresp.OK(c, horses)
}

// ======================================================
// POST|PUT /api/horse
// ======================================================

func (h *HorseHandler) Create(c *gin.Context) {
	var req CreateHorseRequest
	if !bindHorse(c, &req) {
		return
	}

	created, err := h.repo.CreateHorse(c.Request.Context(), &models.Horse{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Discipline:  req.Discipline,
		AgeYears:    req.AgeYears,
		HeightCm:    req.HeightCm,
		WeightKg:    req.WeightKg,
	})
	if err != nil {
		respondError(c, h.log, "create_horse", err, msgHorseNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "horse_created",
		Entity:   "horse",
		EntityID: audit.Ref(created.ID),
	})

	httpresp.OK(c, created)
}

// ======================================================
// PATCH /api/horse
// ======================================================

func (h *HorseHandler) Update(c *gin.Context) {
	var req UpdateHorseRequest
	if !bindHorse(c, &req) {
		return
	}

	updated, err := h.repo.UpdateHorse(c.Request.Context(), req.ID, horse.Patch{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Discipline:  req.Discipline,
		AgeYears:    req.AgeYears,
		HeightCm:    req.HeightCm,
		WeightKg:    req.WeightKg,
	})
	if err != nil {
		respondError(c, h.log, "update_horse", err, msgHorseNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "horse_updated",
		Entity:   "horse",
		EntityID: audit.Ref(updated.ID),
	})

	httpresp.OK(c, updated)
}

// ======================================================
// DELETE /api/horse
// ======================================================

func (h *HorseHandler) Delete(c *gin.Context) {
	var req DeleteHorseRequest
	if !bindHorse(c, &req) {
		return
	}

	deleted, err := h.repo.DeleteHorse(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, h.log, "delete_horse", err, msgHorseNotFound)
		return
	}

	if deleted.PhotoKey != "" && h.photos != nil {
		h.removePhoto(c.Request.Context(), deleted.PhotoKey)
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "horse_deleted",
		Entity:   "horse",
		EntityID: audit.Ref(req.ID),
	})

	httpresp.OK(c, deleted)
}

// ======================================================
// PHOTO
// ======================================================

// UploadPhoto stores a resized WebP copy of the multipart "file" for the
// horse named by the "id" form field.
func (h *HorseHandler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		httperr.Unavailable(c, httperr.MsgNoStorage)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1<<20)

	id := c.PostForm("id")
	if !horseIDField(c, id) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fields := validators.FieldErrors{}
		fields.Add("file", "file is required")
		httperr.Fields(c, fields)
		return
	}
	if header.Size > media.MaxUploadBytes {
		httperr.BadRequest(c, media.ErrTooLarge.Error(), nil)
		return
	}

	ctx := c.Request.Context()

	existing, err := h.repo.GetHorseByID(ctx, id)
	if err != nil {
		respondError(c, h.log, "get_horse", err, msgHorseNotFound)
		return
	}
	if existing == nil {
		httperr.NotFound(c, msgHorseNotFound)
		return
	}

	file, err := header.Open()
	if err != nil {
		httperr.BadRequest(c, httperr.MsgInvalidData, nil)
		return
	}
	defer file.Close()

	processed, err := media.ProcessPhoto(file)
	switch {
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupported):
		httperr.BadRequest(c, err.Error(), nil)
		return
	case err != nil:
		respondError(c, h.log, "process_photo", err, msgHorseNotFound)
		return
	}

	key := media.HorsePhotoKey(id)
	if err := h.photos.Put(ctx, key, processed.Data, media.ContentType); err != nil {
		respondError(c, h.log, "store_photo", err, msgHorseNotFound)
		return
	}

	updated, err := h.repo.SetHorsePhoto(ctx, id, key)
	if err != nil {
		h.removePhoto(ctx, key)
		respondError(c, h.log, "set_horse_photo", err, msgHorseNotFound)
		return
	}

	if existing.PhotoKey != "" {
		h.removePhoto(ctx, existing.PhotoKey)
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "horse_photo_updated",
		Entity:   "horse",
		EntityID: audit.Ref(id),
		Metadata: map[string]any{"width": processed.Width, "height": processed.Height},
	})

	httpresp.OK(c, updated)
}

// Photo redirects to a short-lived URL of the horse photo.
func (h *HorseHandler) Photo(c *gin.Context) {
	if h.photos == nil {
		httperr.Unavailable(c, httperr.MsgNoStorage)
		return
	}

	id := c.Query("id")
	if !horseIDField(c, id) {
		return
	}

	found, err := h.repo.GetHorseByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "get_horse", err, msgHorseNotFound)
		return
	}
	if found == nil || found.PhotoKey == "" {
		httperr.NotFound(c, "Photo not found")
		return
	}

	url, err := h.photos.PresignGet(c.Request.Context(), found.PhotoKey)
	if err != nil {
		respondError(c, h.log, "presign_photo", err, msgHorseNotFound)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *HorseHandler) removePhoto(ctx context.Context, key string) {
	if err := h.photos.Delete(ctx, key); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("photo cleanup failed")
	}
}
