package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appUC "github.com/khoahotran/portfolio-api/internal/application/usecase/application"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/keys"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type ApplicationHandler struct {
	crudUC  *appUC.CrudUseCase
	imageUC *appUC.ImageUseCase
	logger  logger.Logger
}

func NewApplicationHandler(crudUC *appUC.CrudUseCase, imageUC *appUC.ImageUseCase, log logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		crudUC:  crudUC,
		imageUC: imageUC,
		logger:  log,
	}
}

func (h *ApplicationHandler) GetPublic(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	app, err := h.crudUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

func (h *ApplicationHandler) GetMine(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	app, err := h.crudUC.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	app, err := h.crudUC.Update(c.Request.Context(), appUC.UpdateApplicationInput{
		ID:          id,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

// AddGalleryImages accepts a multipart form with one or more "files" parts
// and appends them to the gallery in upload order.
func (h *ApplicationHandler) AddGalleryImages(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.Error(apperror.NewInvalidInput("multipart form is required", err))
		return
	}

	uploads := make([]appUC.ImageUpload, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		file, err := fh.Open()
		if err != nil {
			c.Error(apperror.NewInternal("failed to open uploaded file", err))
			return
		}
		defer file.Close()
		uploads = append(uploads, appUC.ImageUpload{Filename: fh.Filename, Content: file})
	}

	app, err := h.imageUC.AddGalleryImages(c.Request.Context(), appUC.AddGalleryImagesInput{
		ApplicationID: id,
		OwnerID:       ownerID,
		Files:         uploads,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToApplicationDTO(app))
}

func (h *ApplicationHandler) DeleteGalleryImage(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	app, err := h.imageUC.DeleteGalleryImage(c.Request.Context(), appUC.DeleteGalleryImageInput{
		ApplicationID: id,
		OwnerID:       ownerID,
		Filename:      c.Param("filename"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

func (h *ApplicationHandler) SetProfileImage(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	app, err := h.imageUC.SetProfileImage(c.Request.Context(), appUC.SetProfileImageInput{
		ApplicationID: id,
		OwnerID:       ownerID,
		File:          appUC.ImageUpload{Filename: fileHeader.Filename, Content: file},
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

func (h *ApplicationHandler) DeleteProfileImage(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	app, err := h.imageUC.DeleteProfileImage(c.Request.Context(), appUC.DeleteProfileImageInput{
		ApplicationID: id,
		OwnerID:       ownerID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToApplicationDTO(app))
}

// GetAssetPath resolves the storage path of an image without touching the
// store. The "slot" query defaults to the gallery.
func (h *ApplicationHandler) GetAssetPath(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid application ID", err))
		return
	}

	path, err := h.imageUC.GetAssetPath(c.Request.Context(), appUC.GetAssetPathInput{
		ApplicationID: id,
		OwnerID:       ownerID,
		Filename:      c.Param("filename"),
		Slot:          c.DefaultQuery("slot", keys.SlotGallery),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}
