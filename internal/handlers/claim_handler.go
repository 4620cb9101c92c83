package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/middleware"
	"github.com/zeeverify/backend/internal/payments"
	"github.com/zeeverify/backend/internal/repository"
)

type ClaimHandler struct {
	processor   *payments.Processor
	paymentRepo *repository.PaymentRepository
}

func NewClaimHandler(processor *payments.Processor, paymentRepo *repository.PaymentRepository) *ClaimHandler {
	return &ClaimHandler{processor: processor, paymentRepo: paymentRepo}
}

// CreateCheckout opens a checkout session for claiming a brand
func (h *ClaimHandler) CreateCheckout(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	session, err := h.processor.CreateClaimCheckout(c.Request.Context(), brandID, userID, c.GetString("role"))
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	})
}

// MyPayments lists the caller's completed payments
func (h *ClaimHandler) MyPayments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	paymentList, err := h.paymentRepo.ListByUser(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": paymentList})
}
