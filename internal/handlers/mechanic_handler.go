package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vxronica/mechanic-shop/internal/models"
	"github.com/vxronica/mechanic-shop/internal/utils"
)

type MechanicHandler struct {
	DB *gorm.DB
}

type CreateMechanicRequest struct {
	Name   string   `json:"name" binding:"required"`
	Email  string   `json:"email" binding:"required,email"`
	Phone  string   `json:"phone" binding:"required"`
	Salary *float64 `json:"salary" binding:"required"`
}

type UpdateMechanicRequest struct {
	Name   *string  `json:"name"`
	Email  *string  `json:"email"`
	Phone  *string  `json:"phone"`
	Salary *float64 `json:"salary"`
}

func (h *MechanicHandler) Create(c *gin.Context) {
	var req CreateMechanicRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if email already exists
	var existing models.Mechanic
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists."})
		return
	}

	mechanic := models.Mechanic{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Salary: *req.Salary,
	}

	if err := h.DB.Create(&mechanic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, mechanic)
}

func (h *MechanicHandler) List(c *gin.Context) {
	var mechanics []models.Mechanic

	if err := utils.Paginate(c, h.DB).Find(&mechanics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, mechanics)
}

func (h *MechanicHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	var mechanic models.Mechanic
	if err := h.DB.First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	c.JSON(http.StatusOK, mechanic)
}

// Update only allows name, email, phone and salary to change; anything else
// in the body is ignored.
func (h *MechanicHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	var mechanic models.Mechanic
	if err := h.DB.First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	var req UpdateMechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return
	}

	if req.Email != nil && *req.Email != mechanic.Email {
		var existing models.Mechanic
		if err := h.DB.Where("email = ? AND id <> ?", *req.Email, mechanic.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists."})
			return
		}
	}

	if req.Name != nil {
		mechanic.Name = *req.Name
	}
	if req.Email != nil {
		mechanic.Email = *req.Email
	}
	if req.Phone != nil {
		mechanic.Phone = *req.Phone
	}
	if req.Salary != nil {
		mechanic.Salary = *req.Salary
	}

	if err := h.DB.Save(&mechanic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	c.JSON(http.StatusOK, mechanic)
}

func (h *MechanicHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	var mechanic models.Mechanic
	if err := h.DB.First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mechanic not found"})
		return
	}

	if err := h.DB.Delete(&mechanic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Mechanic %d deleted", id)})
}
