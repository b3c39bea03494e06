package handlers

import (
	"net/http"
	"time"

	cartSvc "safarihub/services/cart"
	"safarihub/utils"

	"github.com/gin-gonic/gin"
)

// CartHandler exposes the shopping cart endpoints.
type CartHandler struct {
	CartService cartSvc.CartService
}

type cartItemRequest struct {
	ServiceID       string     `json:"service_id" binding:"required"`
	Quantity        int        `json:"quantity"`
	Guests          int        `json:"guests"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	SpecialRequests string     `json:"special_requests"`
}

// GetCartHandler handles GET /api/cart.
func (h *CartHandler) GetCartHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetActive(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItemHandler handles POST /api/cart/items.
func (h *CartHandler) AddItemHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Guests == 0 {
		req.Guests = 1
	}

	cart, err := h.CartService.AddItem(userID, cartSvc.AddItemInput{
		ServiceID:       req.ServiceID,
		Quantity:        req.Quantity,
		Guests:          req.Guests,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItemHandler handles PUT /api/cart/items/:itemID.
func (h *CartHandler) UpdateItemHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity        *int       `json:"quantity"`
		Guests          *int       `json:"guests"`
		StartDate       *time.Time `json:"start_date"`
		EndDate         *time.Time `json:"end_date"`
		SpecialRequests *string    `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cart, err := h.CartService.UpdateItem(userID, c.Param("itemID"), cartSvc.UpdateItemInput{
		Quantity:        req.Quantity,
		Guests:          req.Guests,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItemHandler handles DELETE /api/cart/items/:itemID.
func (h *CartHandler) RemoveItemHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveItem(userID, c.Param("itemID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCartHandler handles DELETE /api/cart.
func (h *CartHandler) ClearCartHandler(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
