package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/threadline-io/threadline/internal/pagination"
	"github.com/threadline-io/threadline/internal/services"
	"github.com/threadline-io/threadline/pkg/models"
)

type productHandler struct {
	svc *services.ProductService
}

func (h *productHandler) create(c *gin.Context) {
	var req models.ProductCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, err)
		return
	}
	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.APIProduct(*product))
}

func (h *productHandler) get(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.APIProduct(*product))
}

func (h *productHandler) update(c *gin.Context) {
	var req models.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		renderBindingError(c, err)
		return
	}
	product, err := h.svc.Update(c.Request.Context(), c.Param("product_id"), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.APIProduct(*product))
}

func (h *productHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("product_id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Product deleted successfully"})
}

func (h *productHandler) list(c *gin.Context) {
	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		renderBindingError(c, err)
		return
	}

	page := pageParams(c)
	list, err := h.svc.List(c.Request.Context(), filter, page, c.Query("cursor"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// pageParams reads page/page_size query values, falling back to the
// defaults on absent or malformed input.
func pageParams(c *gin.Context) pagination.PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(pagination.DefaultPageSize)))
	if err != nil {
		size = pagination.DefaultPageSize
	}
	return pagination.NewPageParams(page, size)
}
