package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	educationUC "github.com/khoahotran/portfolio-api/internal/application/usecase/education"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type EducationHandler struct {
	useCase *educationUC.UseCase
}

func NewEducationHandler(uc *educationUC.UseCase) *EducationHandler {
	return &EducationHandler{useCase: uc}
}

func (h *EducationHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	edu, err := h.useCase.Create(c.Request.Context(), educationUC.CreateInput{
		UserID:      ownerID,
		School:      req.School,
		Degree:      req.Degree,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToEducationDTO(edu))
}

func (h *EducationHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education ID", err))
		return
	}

	edu, err := h.useCase.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationDTO(edu))
}

func (h *EducationHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	h.list(c, ownerID)
}

func (h *EducationHandler) ListPublic(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid user ID", err))
		return
	}
	h.list(c, userID)
}

func (h *EducationHandler) list(c *gin.Context, ownerID int64) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.useCase.List(c.Request.Context(), educationUC.ListInput{
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
	c.JSON(http.StatusOK, ToEducationDTOs(items))
}

func (h *EducationHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education ID", err))
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	edu, err := h.useCase.Update(c.Request.Context(), educationUC.UpdateInput{
		ID:          id,
		OwnerID:     ownerID,
		School:      req.School,
		Degree:      req.Degree,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationDTO(edu))
}

func (h *EducationHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education ID", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
