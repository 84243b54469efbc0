package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline-io/threadline/internal/services"
	"github.com/threadline-io/threadline/pkg/models"
)

type orderHandler struct {
	svc *services.OrderService
}

func (h *orderHandler) create(c *gin.Context) {
	var req models.OrderCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, err)
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.APIOrder(*order))
}

func (h *orderHandler) get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.APIOrder(*order))
}

func (h *orderHandler) list(c *gin.Context) {
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		renderBindingError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), filter, pageParams(c))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *orderHandler) update(c *gin.Context) {
	var req models.OrderUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, err)
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("order_id"), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.APIOrder(*order))
}

func (h *orderHandler) cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Param("order_id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Order cancelled successfully"})
}
