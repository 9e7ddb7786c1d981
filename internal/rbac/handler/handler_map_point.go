package handler

import (
	"net/http"

	"journal/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetMapPoints handles GET /map_points
func (h *Handler) GetMapPoints(c echo.Context) error {
	points, err := h.Service.ListMapPoints(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, points)
}

// GetMapPoint handles GET /map_points/:id
func (h *Handler) GetMapPoint(c echo.Context) error {
	var req model.MapPointIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	point, err := h.Service.GetMapPoint(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, point)
}

// PostMapPoint handles POST /map_points
func (h *Handler) PostMapPoint(c echo.Context) error {
	var req model.CreateMapPointReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	point, err := h.Service.CreateMapPoint(c.Request().Context(), callerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, point)
}

// PutMapPoint handles PUT /map_points/:id
func (h *Handler) PutMapPoint(c echo.Context) error {
	var req model.UpdateMapPointReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	point, err := h.Service.UpdateMapPoint(c.Request().Context(), callerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, point)
}

// DeleteMapPoint handles DELETE /map_points/:id
func (h *Handler) DeleteMapPoint(c echo.Context) error {
	var req model.MapPointIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	if err := h.Service.DeleteMapPoint(c.Request().Context(), callerID(c), req.ID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
