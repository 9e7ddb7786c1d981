package handler

import (
	"net/http"

	"journal/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// GetPosts handles GET /posts
func (h *Handler) GetPosts(c echo.Context) error {
	var req model.ListPostsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	result, err := h.Service.ListPosts(c.Request().Context(), callerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// PostPost handles POST /posts
func (h *Handler) PostPost(c echo.Context) error {
	var req model.CreatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	post, err := h.Service.CreatePost(c.Request().Context(), callerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost handles GET /posts/:id
func (h *Handler) GetPost(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.GetPost(c.Request().Context(), callerID(c), id)
	})
}

// GetPostBySlug handles GET /posts/slug/:slug
func (h *Handler) GetPostBySlug(c echo.Context) error {
	var req model.PostSlugReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	post, err := h.Service.GetPostBySlug(c.Request().Context(), callerID(c), req.Slug)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// PutPost handles PUT /posts/:id
func (h *Handler) PutPost(c echo.Context) error {
	var req model.UpdatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	post, err := h.Service.UpdatePost(c.Request().Context(), callerID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /posts/:id
func (h *Handler) DeletePost(c echo.Context) error {
	var req model.PostIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	if err := h.Service.DeletePost(c.Request().Context(), callerID(c), req.ID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PostPublish handles POST /posts/:id/publish
func (h *Handler) PostPublish(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.PublishPost(c.Request().Context(), id, callerID(c))
	})
}

// PostUnpublish handles POST /posts/:id/unpublish
func (h *Handler) PostUnpublish(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.UnpublishPost(c.Request().Context(), id, callerID(c))
	})
}

// PostToggleLike handles POST /posts/:id/like
func (h *Handler) PostToggleLike(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.ToggleLike(c.Request().Context(), callerID(c), id)
	})
}

// PutLike handles PUT /posts/:id/like
func (h *Handler) PutLike(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.LikePost(c.Request().Context(), callerID(c), id)
	})
}

// DeleteLike handles DELETE /posts/:id/like
func (h *Handler) DeleteLike(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.UnlikePost(c.Request().Context(), callerID(c), id)
	})
}

// GetLikes handles GET /posts/:id/likes
func (h *Handler) GetLikes(c echo.Context) error {
	return h.withPostID(c, func(id string) (any, error) {
		return h.Service.LikeStatus(c.Request().Context(), callerID(c), id)
	})
}

// withPostID validates :id, runs fn and writes its result as 200 JSON.
func (h *Handler) withPostID(c echo.Context, fn func(id string) (any, error)) error {
	var req model.PostIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	result, err := fn(req.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
