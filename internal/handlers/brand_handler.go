package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/middleware"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/repository"
)

type BrandHandler struct {
	brandRepo  *repository.BrandRepository
	reviewRepo *repository.ReviewRepository
}

func NewBrandHandler(brandRepo *repository.BrandRepository, reviewRepo *repository.ReviewRepository) *BrandHandler {
	return &BrandHandler{brandRepo: brandRepo, reviewRepo: reviewRepo}
}

// CreateBrand adds a brand to the directory. Admin only.
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req models.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	brand := &models.Brand{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Website:     req.Website,
	}

	if err := h.brandRepo.Create(brand); err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// ListBrands returns the directory ranked by Z-Score
func (h *BrandHandler) ListBrands(c *gin.Context) {
	limit, offset := pagination(c)

	brands, total, err := h.brandRepo.List(c.Query("search"), c.Query("category"), limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetBrand returns one brand by slug
func (h *BrandHandler) GetBrand(c *gin.Context) {
	brand, err := h.brandRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, brand)
}

// GetBrandReviews returns a brand's published reviews
func (h *BrandHandler) GetBrandReviews(c *gin.Context) {
	brand, err := h.brandRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	limit, offset := pagination(c)
	reviews, total, err := h.reviewRepo.ListApprovedByBrand(brand.ID, limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetBrandWords returns a brand's most frequent review terms
func (h *BrandHandler) GetBrandWords(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	words, err := h.brandRepo.TopWords(brandID, limit)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list words")
		return
	}

	c.JSON(http.StatusOK, gin.H{"words": words})
}

// MyBrands lists the brands the authenticated claim holder manages
func (h *BrandHandler) MyBrands(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	brands, err := h.brandRepo.ListClaimedBy(ownerID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
