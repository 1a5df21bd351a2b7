package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vxronica/mechanic-shop/internal/models"
	"github.com/vxronica/mechanic-shop/internal/notifier"
)

type TicketHandler struct {
	DB  *gorm.DB
	Log *logrus.Logger

	// Notify toggles the post-commit confirmation messages so tests can run
	// without hitting external providers.
	Notify bool
}

type CreateTicketRequest struct {
	VIN         string `json:"VIN"`
	ServiceDate string `json:"service_date"`
	ServiceDesc string `json:"service_desc"`
	CustomerID  uint   `json:"customer_id"`
	MechanicIDs []uint `json:"mechanic_ids"`
}

type UpdateTicketRequest struct {
	VIN         *string `json:"VIN"`
	ServiceDate *string `json:"service_date"`
	ServiceDesc *string `json:"service_desc"`
	CustomerID  *uint   `json:"customer_id"`
	MechanicIDs *[]uint `json:"mechanic_ids"`
}

type EditMechanicsRequest struct {
	AddIDs    []uint `json:"add_ids"`
	RemoveIDs []uint `json:"remove_ids"`
}

type AddPartRequest struct {
	PartID uint `json:"part_id"`
}

// resolveMechanics loads every requested mechanic. A partial match is a full
// rejection: the resolved count must equal the requested count.
func resolveMechanics(tx *gorm.DB, ids []uint) ([]models.Mechanic, bool) {
	var mechanics []models.Mechanic
	if err := tx.Where("id IN ?", ids).Find(&mechanics).Error; err != nil {
		return nil, false
	}
	if len(mechanics) == 0 || len(mechanics) != len(ids) {
		return nil, false
	}
	return mechanics, true
}

func (h *TicketHandler) loadTicket(c *gin.Context) (*models.ServiceTicket, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return nil, false
	}

	var ticket models.ServiceTicket
	err = h.DB.
		Preload("Customer").
		Preload("Mechanics").
		Preload("Parts").
		First(&ticket, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return nil, false
	}
	return &ticket, true
}

func (h *TicketHandler) reload(c *gin.Context, ticketID uint, status int) {
	var ticket models.ServiceTicket
	err := h.DB.
		Preload("Customer").
		Preload("Mechanics").
		Preload("Parts").
		First(&ticket, ticketID).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve ticket with details"})
		return
	}
	c.JSON(status, ticket)
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return
	}

	// Check for required fields
	var missing []string
	if req.VIN == "" {
		missing = append(missing, "VIN")
	}
	if req.ServiceDate == "" {
		missing = append(missing, "service_date")
	}
	if req.ServiceDesc == "" {
		missing = append(missing, "service_desc")
	}
	if req.CustomerID == 0 {
		missing = append(missing, "customer_id")
	}
	if len(req.MechanicIDs) == 0 {
		missing = append(missing, "mechanic_ids")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: " + strings.Join(missing, ", ")})
		return
	}

	if len(req.VIN) > 17 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VIN must be at most 17 characters"})
		return
	}

	// validate customer ID
	var customer models.Customer
	if err := h.DB.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	// validate mechanic IDs
	mechanics, ok := resolveMechanics(h.DB, req.MechanicIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mechanic IDs"})
		return
	}

	serviceDate, err := models.ParseDate(req.ServiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_date must be an ISO date (YYYY-MM-DD)"})
		return
	}

	ticket := models.ServiceTicket{
		VIN:         req.VIN,
		ServiceDate: serviceDate,
		ServiceDesc: req.ServiceDesc,
		CustomerID:  req.CustomerID,
		Mechanics:   mechanics,
	}

	// Ticket and its mechanic associations persist as one unit.
	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}

	if err := tx.Create(&ticket).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tx.Commit()

	if h.Notify {
		go func(customer models.Customer, ticketID uint, desc string) {
			if err := notifier.SendSMS(customer.Phone, ticketID, desc); err != nil {
				h.Log.WithError(err).Warnf("Failed to send SMS for ticket %d to %s", ticketID, customer.Phone)
			}
		}(customer, ticket.ID, ticket.ServiceDesc)

		go func(customer models.Customer, ticketID uint, desc string) {
			if err := notifier.SendEmail(customer.Email, customer.Name, ticketID, desc); err != nil {
				h.Log.WithError(err).Warnf("Failed to send email for ticket %d to %s", ticketID, customer.Email)
			}
		}(customer, ticket.ID, ticket.ServiceDesc)
	}

	h.reload(c, ticket.ID, http.StatusCreated)
}

func (h *TicketHandler) List(c *gin.Context) {
	var tickets []models.ServiceTicket

	err := h.DB.
		Preload("Customer").
		Preload("Mechanics").
		Preload("Parts").
		Find(&tickets).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Get(c *gin.Context) {
	ticket, ok := h.loadTicket(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Update mutates only the supplied fields. Each present field is validated
// with the same rule as in Create; absent fields are untouched, so a full
// body behaves as a wholesale replace.
func (h *TicketHandler) Update(c *gin.Context) {
	ticket, ok := h.loadTicket(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return
	}

	if req.VIN != nil {
		if *req.VIN == "" || len(*req.VIN) > 17 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "VIN must be at most 17 characters"})
			return
		}
		ticket.VIN = *req.VIN
	}

	if req.ServiceDate != nil {
		serviceDate, err := models.ParseDate(*req.ServiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "service_date must be an ISO date (YYYY-MM-DD)"})
			return
		}
		ticket.ServiceDate = serviceDate
	}

	if req.ServiceDesc != nil {
		ticket.ServiceDesc = *req.ServiceDesc
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := h.DB.First(&customer, *req.CustomerID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}
		ticket.CustomerID = *req.CustomerID
	}

	var mechanics []models.Mechanic
	if req.MechanicIDs != nil {
		resolved, ok := resolveMechanics(h.DB, *req.MechanicIDs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mechanic IDs"})
			return
		}
		mechanics = resolved
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}

	err := tx.Model(ticket).Updates(map[string]interface{}{
		"vin":          ticket.VIN,
		"service_date": ticket.ServiceDate,
		"service_desc": ticket.ServiceDesc,
		"customer_id":  ticket.CustomerID,
	}).Error
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	if req.MechanicIDs != nil {
		if err := tx.Model(ticket).Association("Mechanics").Replace(&mechanics); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
			return
		}
	}

	tx.Commit()

	h.reload(c, ticket.ID, http.StatusOK)
}

// EditMechanics attaches every add_ids mechanic that exists and is not
// already on the ticket, and detaches every remove_ids mechanic that is.
// Nonexistent, already-attached and absent ids are skipped silently.
func (h *TicketHandler) EditMechanics(c *gin.Context) {
	ticket, ok := h.loadTicket(c)
	if !ok {
		return
	}

	var req EditMechanicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return
	}

	attached := make(map[uint]bool, len(ticket.Mechanics))
	for _, m := range ticket.Mechanics {
		attached[m.ID] = true
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start transaction"})
		return
	}

	for _, id := range req.AddIDs {
		if attached[id] {
			continue
		}
		var mechanic models.Mechanic
		if err := tx.First(&mechanic, id).Error; err != nil {
			continue
		}
		if err := tx.Model(ticket).Association("Mechanics").Append(&mechanic); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
			return
		}
		attached[id] = true
	}

	for _, id := range req.RemoveIDs {
		if !attached[id] {
			continue
		}
		if err := tx.Model(ticket).Association("Mechanics").Delete(&models.Mechanic{ID: id}); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
			return
		}
		delete(attached, id)
	}

	tx.Commit()

	h.reload(c, ticket.ID, http.StatusOK)
}

// AddPart attaches a single inventory part. Attaching a part that is already
// on the ticket reports success without duplicating the pair.
func (h *TicketHandler) AddPart(c *gin.Context) {
	ticket, ok := h.loadTicket(c)
	if !ok {
		return
	}

	var req AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PartID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part_id is required"})
		return
	}

	var part models.Inventory
	if err := h.DB.First(&part, req.PartID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	for _, attached := range ticket.Parts {
		if attached.ID == part.ID {
			h.reload(c, ticket.ID, http.StatusOK)
			return
		}
	}

	if err := h.DB.Model(ticket).Association("Parts").Append(&part); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	h.reload(c, ticket.ID, http.StatusOK)
}
