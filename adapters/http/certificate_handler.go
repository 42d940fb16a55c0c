package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	certificateUC "github.com/khoahotran/portfolio-api/internal/application/usecase/certificate"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type CertificateHandler struct {
	useCase *certificateUC.UseCase
}

func NewCertificateHandler(uc *certificateUC.UseCase) *CertificateHandler {
	return &CertificateHandler{useCase: uc}
}

func (h *CertificateHandler) Create(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	cert, err := h.useCase.Create(c.Request.Context(), certificateUC.CreateInput{
		UserID:      ownerID,
		Name:        req.Name,
		Issuer:      req.Issuer,
		Description: req.Description,
		IssuedAt:    req.IssuedAt,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToCertificateDTO(cert))
}

func (h *CertificateHandler) Get(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}

	cert, err := h.useCase.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(cert))
}

func (h *CertificateHandler) List(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	h.list(c, ownerID)
}

func (h *CertificateHandler) ListPublic(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid user ID", err))
		return
	}
	h.list(c, userID)
}

func (h *CertificateHandler) list(c *gin.Context, ownerID int64) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.useCase.List(c.Request.Context(), certificateUC.ListInput{
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
	c.JSON(http.StatusOK, ToCertificateDTOs(items))
}

func (h *CertificateHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}

	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	cert, err := h.useCase.Update(c.Request.Context(), certificateUC.UpdateInput{
		ID:          id,
		OwnerID:     ownerID,
		Name:        req.Name,
		Issuer:      req.Issuer,
		Description: req.Description,
		IssuedAt:    req.IssuedAt,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(cert))
}

func (h *CertificateHandler) Delete(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id, ownerID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetEducationLinks replaces the certificate's education links with the
// posted set.
func (h *CertificateHandler) SetEducationLinks(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}

	var req SetEducationLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	cert, err := h.useCase.SetEducationLinks(c.Request.Context(), id, ownerID, req.EducationIDs)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(cert))
}

func (h *CertificateHandler) LinkEducation(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}
	eduID, err := strconv.ParseInt(c.Param("educationID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education ID", err))
		return
	}

	cert, err := h.useCase.LinkEducation(c.Request.Context(), id, ownerID, eduID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(cert))
}

func (h *CertificateHandler) UnlinkEducation(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid certificate ID", err))
		return
	}
	eduID, err := strconv.ParseInt(c.Param("educationID"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid education ID", err))
		return
	}

	cert, err := h.useCase.UnlinkEducation(c.Request.Context(), id, ownerID, eduID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCertificateDTO(cert))
}
