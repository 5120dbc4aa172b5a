package handler

import (
	"github.com/gin-gonic/gin"

	"library-api/internal/domains/author/model"
	"library-api/internal/domains/author/service"
	"library-api/internal/shared/pagination"
	"library-api/internal/shared/response"
	"library-api/internal/shared/validator"
)

// AuthorHandler reports failures through c.Error; the error middleware
// writes the envelope.
type AuthorHandler struct {
	service service.ServiceInterface
	bounds  pagination.Bounds
}

func NewAuthorHandler(svc service.ServiceInterface, bounds pagination.Bounds) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
		bounds:  bounds,
	}
}

// RegisterRoutes mounts the author endpoints on rg
func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/authors")
	{
		authors.POST("", h.Create)
		authors.GET("", h.List)
		authors.GET("/:id", h.GetByID)
		authors.PATCH("/:id", h.Update)
		authors.DELETE("/:id", h.Delete)
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Created(c, created.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, a.ToDetailResponse())
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /authors?page=1&limit=10&firstName=&lastName=
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) List(c *gin.Context) {
	req := model.ListAuthorsRequest{
		Query:     pagination.NewQuery(c.Query("page"), c.Query("limit"), h.bounds),
		FirstName: c.Query("firstName"),
		LastName:  c.Query("lastName"),
	}
	if err := req.Validate(); err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, pagination.MapPage(page, func(a model.Author) model.AuthorResponse {
		return a.ToResponse()
	}))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateAuthorRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, updated.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	response.NoContent(c)
}
