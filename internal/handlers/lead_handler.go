package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zeeverify/backend/internal/middleware"
	"github.com/zeeverify/backend/internal/models"
	"github.com/zeeverify/backend/internal/notify"
	"github.com/zeeverify/backend/internal/repository"
)

// LeadNotifier forwards a new inquiry to the brand's claim holder.
type LeadNotifier interface {
	LeadCreated(payload notify.LeadCreatedPayload)
}

type LeadHandler struct {
	leadRepo  *repository.LeadRepository
	brandRepo *repository.BrandRepository
	userRepo  *repository.UserRepository
	notifier  LeadNotifier
}

func NewLeadHandler(
	leadRepo *repository.LeadRepository,
	brandRepo *repository.BrandRepository,
	userRepo *repository.UserRepository,
	notifier LeadNotifier,
) *LeadHandler {
	return &LeadHandler{
		leadRepo:  leadRepo,
		brandRepo: brandRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// CreateLead records a prospective-franchisee inquiry. Public route;
// prospects are usually not account holders.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid brand ID")
		return
	}

	brand, err := h.brandRepo.GetByID(brandID)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	lead := &models.Lead{
		BrandID:         brandID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		InvestmentRange: req.InvestmentRange,
		Message:         req.Message,
	}

	if err := h.leadRepo.Create(lead); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	if lead.RoutedTo != nil {
		if owner, err := h.userRepo.GetByID(*lead.RoutedTo); err == nil {
			h.notifier.LeadCreated(notify.LeadCreatedPayload{
				LeadID:          lead.ID,
				BrandName:       brand.Name,
				OwnerEmail:      owner.Email,
				ProspectName:    lead.FirstName + " " + lead.LastName,
				ProspectEmail:   lead.Email,
				InvestmentRange: lead.InvestmentRange,
				Message:         lead.Message,
			})
		}
	}

	c.JSON(http.StatusCreated, lead)
}

// MyLeads lists inquiries routed to the calling claim holder
func (h *LeadHandler) MyLeads(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	leads, err := h.leadRepo.ListForOwner(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// UpdateLeadStatus moves a lead through the contact pipeline. Only the
// claim holder the lead is routed to (or an admin) may move it.
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	callerID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=new contacted closed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if c.GetString("role") == models.RoleAdmin {
		err = h.leadRepo.UpdateStatus(leadID, req.Status)
	} else {
		err = h.leadRepo.UpdateStatusForOwner(leadID, callerID, req.Status)
	}
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
