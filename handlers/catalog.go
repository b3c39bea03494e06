package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	catalogRepo "safarihub/database/repository/catalog"
	"safarihub/models"
	"safarihub/services/storage"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogHandler exposes the bookable services catalog.
type CatalogHandler struct {
	Repo    catalogRepo.CatalogRepository
	Storage storage.StorageService
}

// ListServicesHandler handles GET /api/services. Supports ?category= filter.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Repo.List(c.Query("category"))
	if err != nil {
		utils.GetLogger().Error("Failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetServiceHandler handles GET /api/services/:id.
func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	id := c.Param("id")
	svc, err := h.Repo.GetByID(id)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch service", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}
	if svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// CreateServiceHandler handles POST /api/services (admin only).
func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var svc models.TourService
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if svc.Name == "" || svc.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a positive price are required"})
		return
	}

	now := time.Now()
	svc.ID = uuid.New().String()
	if svc.Status == "" {
		svc.Status = models.ServiceStatusActive
	}
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if err := h.Repo.Create(&svc); err != nil {
		utils.GetLogger().Error("Failed to create service", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateServiceHandler handles PUT /api/services/:id (admin only).
func (h *CatalogHandler) UpdateServiceHandler(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var svc models.TourService
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	svc.ID = id
	svc.CreatedAt = existing.CreatedAt
	svc.UpdatedAt = time.Now()

	if err := h.Repo.Update(&svc); err != nil {
		utils.GetLogger().Error("Failed to update service", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// UploadServiceImageHandler handles POST /api/services/:id/image (admin only).
// The multipart file is staged to disk and pushed to Cloudinary.
func (h *CatalogHandler) UploadServiceImageHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	svc, err := h.Repo.GetByID(id)
	if err != nil || svc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("svc_%s_%s", id, filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		logger.Error("Failed to stage upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process upload"})
		return
	}
	defer os.Remove(tmpPath)

	publicID, err := h.Storage.UploadFile(c.Request.Context(), tmpPath, "services")
	if err != nil {
		logger.Error("Failed to upload service image", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if err := h.Repo.SetImage(id, publicID); err != nil {
		logger.Error("Failed to record image id", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_id": publicID})
}
