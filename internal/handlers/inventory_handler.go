package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vxronica/mechanic-shop/internal/models"
	"github.com/vxronica/mechanic-shop/internal/utils"
)

type InventoryHandler struct {
	DB *gorm.DB
}

type CreatePartRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

type UpdatePartRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req CreatePartRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part := models.Inventory{
		Name:  req.Name,
		Price: *req.Price,
	}

	if err := h.DB.Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, part)
}

func (h *InventoryHandler) List(c *gin.Context) {
	var parts []models.Inventory

	if err := utils.Paginate(c, h.DB).Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, parts)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	var part models.Inventory
	if err := h.DB.First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	var part models.Inventory
	if err := h.DB.First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	var req UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing JSON in request"})
		return
	}

	if req.Name != nil {
		part.Name = *req.Name
	}
	if req.Price != nil {
		part.Price = *req.Price
	}

	if err := h.DB.Save(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	var part models.Inventory
	if err := h.DB.First(&part, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid part ID"})
		return
	}

	if err := h.DB.Delete(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully deleted part %d", id)})
}
