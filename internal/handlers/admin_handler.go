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

// AdminHandler exposes the moderation queue and user administration.
// Every route behind it requires the admin role.
type AdminHandler struct {
	service    *moderation.Service
	reviewRepo *repository.ReviewRepository
	userRepo   *repository.UserRepository
	statsRepo  *repository.StatsRepository
}

func NewAdminHandler(
	service *moderation.Service,
	reviewRepo *repository.ReviewRepository,
	userRepo *repository.UserRepository,
	statsRepo *repository.StatsRepository,
) *AdminHandler {
	return &AdminHandler{
		service:    service,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		statsRepo:  statsRepo,
	}
}

// ModerationQueue lists reviews awaiting a decision. ?status= narrows
// by lifecycle status, ?flagged=true narrows to reported reviews.
func (h *AdminHandler) ModerationQueue(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReviewStatusPending)
	if status == "all" {
		status = ""
	}
	flaggedOnly := c.Query("flagged") == "true"

	limit, offset := pagination(c)
	reviews, total, err := h.reviewRepo.ListForModeration(status, flaggedOnly, limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list moderation queue")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ModerateReview approves or rejects a pending review
func (h *AdminHandler) ModerateReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req models.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	moderatorID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	review, err := h.service.Moderate(c.Request.Context(), reviewID, moderatorID, req.Action, req.Notes)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ModerationLogs returns the decision history for a review
func (h *AdminHandler) ModerationLogs(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	logs, err := h.service.Logs(reviewID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list moderation logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ListReports lists abuse reports filed against reviews. ?status=
// narrows by resolution status, "all" lifts the default pending filter.
func (h *AdminHandler) ListReports(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReportStatusPending)
	if status == "all" {
		status = ""
	}

	limit, offset := pagination(c)
	reports, total, err := h.reviewRepo.ListReports(status, limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ResolveReport closes out a report as resolved or dismissed
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.reviewRepo.ResolveReport(reportID, req.Status)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stats returns the platform counter set for the admin dashboard
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsRepo.Collect()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers lists platform users with optional search
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	users, total, err := h.userRepo.List(c.Query("search"), limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateUserRole changes a user's role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		ErrorResponse(c, http.StatusBadRequest, "Unknown role")
		return
	}

	user, err := h.userRepo.UpdateRole(userID, req.Role)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
