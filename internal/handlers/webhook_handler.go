package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeeverify/backend/internal/payments"
)

// Stripe keeps webhook payloads under 64KB; anything larger is noise.
const maxWebhookBody = 1 << 16

type WebhookHandler struct {
	processor *payments.Processor
}

func NewWebhookHandler(processor *payments.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// HandleStripeWebhook receives raw gateway deliveries. The response
// status steers the gateway's retry behavior: 2xx acknowledges, 4xx
// tells it to stop redelivering a payload that can never succeed, and
// 5xx invites another attempt.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Failed to read payload")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.processor.HandleWebhook(payload, signature); err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
