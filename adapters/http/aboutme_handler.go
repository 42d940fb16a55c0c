package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	aboutmeUC "github.com/khoahotran/portfolio-api/internal/application/usecase/aboutme"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type AboutMeHandler struct {
	useCase *aboutmeUC.UseCase
}

func NewAboutMeHandler(uc *aboutmeUC.UseCase) *AboutMeHandler {
	return &AboutMeHandler{useCase: uc}
}

func (h *AboutMeHandler) GetPublic(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid user ID", err))
		return
	}

	section, err := h.useCase.Get(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToAboutMeDTO(section))
}

func (h *AboutMeHandler) GetMine(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	section, err := h.useCase.Get(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToAboutMeDTO(section))
}

func (h *AboutMeHandler) Upsert(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req UpsertAboutMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	section, err := h.useCase.Upsert(c.Request.Context(), aboutmeUC.UpsertInput{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToAboutMeDTO(section))
}
