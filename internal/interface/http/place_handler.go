package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
	"github.com/oksasatya/go-places-api/pkg/response"
)

type PlaceHandler struct {
	Svc    *application.PlaceService
	Logger *logrus.Logger
}

func NewPlaceHandler(svc *application.PlaceService, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{Svc: svc, Logger: logger}
}

type createPlaceRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,min=5"`
	Address     string `form:"address" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
}

func (h *PlaceHandler) fail(c *gin.Context, err error) {
	if apperror.KindOf(err) == apperror.KindUnavailable && h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).WithField("path", c.FullPath()).Warn("request failed")
	}
	response.Fail(c, err)
}

// requester returns the authenticated user id; Auth guarantees it on protected routes.
func requester(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		response.Fail(c, application.ErrAuthFailure)
		return "", false
	}
	return id.UserID, true
}

func (h *PlaceHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetPlace(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaceDTO(p), "place", nil)
}

func (h *PlaceHandler) ByUser(c *gin.Context) {
	list, err := h.Svc.PlacesByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaceDTOs(list), "places", nil)
}

func (h *PlaceHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	list, err := h.Svc.SearchPlaces(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaceDTOs(list), "places", map[string]any{"count": len(list)})
}

// Create expects multipart fields title, description, address and an image file.
// The creator is always the authenticated caller.
func (h *PlaceHandler) Create(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var req createPlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidInput(c, err)
		return
	}
	p, err := h.Svc.CreatePlace(c.Request.Context(), application.CreatePlaceInput{
		CreatorID:   uid,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       middleware.PendingFileFrom(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toPlaceDTO(p), "place created", nil)
}

func (h *PlaceHandler) Update(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	p, err := h.Svc.UpdatePlace(c.Request.Context(), c.Param("placeId"), uid, application.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPlaceDTO(p), "place updated", nil)
}

func (h *PlaceHandler) Delete(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	if err := h.Svc.DeletePlace(c.Request.Context(), c.Param("placeId"), uid); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "place deleted", nil)
}
