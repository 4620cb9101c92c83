package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/middleware"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/moderation"
	"github.com/zeeverify/backend/internal/repository"
)

type ReviewHandler struct {
	service    *moderation.Service
	reviewRepo *repository.ReviewRepository
	brandRepo  *repository.BrandRepository
	userRepo   *repository.UserRepository
}

func NewReviewHandler(
	service *moderation.Service,
	reviewRepo *repository.ReviewRepository,
	brandRepo *repository.BrandRepository,
	userRepo *repository.UserRepository,
) *ReviewHandler {
	return &ReviewHandler{
		service:    service,
		reviewRepo: reviewRepo,
		brandRepo:  brandRepo,
		userRepo:   userRepo,
	}
}

// CreateReview submits a review for moderation
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	review, err := h.service.Submit(c.Request.Context(), userID, user.IsVerified, &req)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetReview returns one review. Pending and rejected reviews are only
// visible to their author and to admins.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	review, err := h.reviewRepo.GetByID(reviewID)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	if review.Status != models.ReviewStatusApproved {
		userID, ok := middleware.UserID(c)
		if !ok || (review.AuthorID != userID && c.GetString("role") != models.RoleAdmin) {
			ErrorResponse(c, http.StatusNotFound, "review not found")
			return
		}
	}

	c.JSON(http.StatusOK, review)
}

// MyReviews lists the caller's own reviews, any status
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reviews, err := h.reviewRepo.ListByAuthor(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ReportReview files a report against a review and flags it for the
// moderation queue
func (h *ReviewHandler) ReportReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.ReportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report := &models.ReviewReport{
		ReviewID:    reviewID,
		ReporterID:  userID,
		Reason:      req.Reason,
		Description: req.Description,
	}

	if err := h.reviewRepo.CreateReport(report); err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// RespondToReview lets a brand's claim holder reply to a published
// review
func (h *ReviewHandler) RespondToReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	review, err := h.reviewRepo.GetByID(reviewID)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	if review.Status != models.ReviewStatusApproved {
		ErrorResponse(c, http.StatusConflict, "only published reviews can be responded to")
		return
	}

	brand, err := h.brandRepo.GetByID(review.BrandID)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}
	if brand.ClaimedByID == nil || *brand.ClaimedByID != userID {
		ErrorResponse(c, http.StatusForbidden, "only the brand's claim holder can respond")
		return
	}

	response := &models.ReviewResponse{
		ReviewID:    reviewID,
		ResponderID: userID,
		Content:     req.Content,
	}
	if err := h.reviewRepo.CreateResponse(response); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create response")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetReviewResponses lists the replies attached to a review
func (h *ReviewHandler) GetReviewResponses(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	responses, err := h.reviewRepo.ListResponses(reviewID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list responses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"responses": responses})
}
