package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	experienceUC "github.com/khoahotran/portfolio-api/internal/application/usecase/experience"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type ExperienceHandler struct {
	useCase *experienceUC.UseCase
}

func NewExperienceHandler(uc *experienceUC.UseCase) *ExperienceHandler {
	return &ExperienceHandler{useCase: uc}
}

func (h *ExperienceHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	exp, err := h.useCase.Create(c.Request.Context(), experienceUC.CreateInput{
		UserID:      ownerID,
		CompanyName: req.CompanyName,
		Position:    req.Position,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid experience ID", err))
		return
	}

	exp, err := h.useCase.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	h.list(c, ownerID)
}

func (h *ExperienceHandler) ListPublic(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid user ID", err))
		return
	}
	h.list(c, userID)
}

func (h *ExperienceHandler) list(c *gin.Context, ownerID int64) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.useCase.List(c.Request.Context(), experienceUC.ListInput{
		OwnerID:   ownerID,
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTOs(items))
}

func (h *ExperienceHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid experience ID", err))
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	exp, err := h.useCase.Update(c.Request.Context(), experienceUC.UpdateInput{
		ID:          id,
		OwnerID:     ownerID,
		CompanyName: req.CompanyName,
		Position:    req.Position,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(exp))
}

func (h *ExperienceHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid experience ID", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
