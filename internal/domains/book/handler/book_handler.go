package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/service"
	"library-api/internal/shared/pagination"
	"library-api/internal/shared/response"
	"library-api/internal/shared/validator"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "books.xlsx"
)

type BookHandler struct {
	service service.ServiceInterface
	bounds  pagination.Bounds
}

func NewBookHandler(svc service.ServiceInterface, bounds pagination.Bounds) *BookHandler {
	return &BookHandler{
		service: svc,
		bounds:  bounds,
	}
}

// RegisterRoutes mounts the book endpoints on rg
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.Create)
		books.GET("", h.List)
		books.GET("/export", h.Export)
		books.GET("/:id", h.GetByID)
		books.PATCH("/:id", h.Update)
		books.DELETE("/:id", h.Delete)
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /books
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Created(c, b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /books?page=1&limit=10&title=&isbn=&authorId=
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) List(c *gin.Context) {
	req, ok := h.listRequest(c)
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, pagination.MapPage(page, func(b model.BookWithAuthor) model.BookResponse {
		return b.ToResponse()
	}))
}

// ════════════════════════════════════════════════════════════════
// EXPORT: GET /books/export?title=&isbn=&authorId=
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Export(c *gin.Context) {
	req, ok := h.listRequest(c)
	if !ok {
		return
	}

	f, err := h.service.Export(c.Request.Context(), req.ToFilter())
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close export workbook")
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *BookHandler) listRequest(c *gin.Context) (model.ListBooksRequest, bool) {
	req := model.ListBooksRequest{
		Query:    pagination.NewQuery(c.Query("page"), c.Query("limit"), h.bounds),
		Title:    c.Query("title"),
		ISBN:     c.Query("isbn"),
		AuthorID: c.Query("authorId"),
	}
	if err := req.Validate(); err != nil {
		_ = c.Error(err)
		return req, false
	}
	return req, true
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Update(c *gin.Context) {
	id, err := validator.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateBookRequest
	if err := validator.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, b.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /books/:id
// ════════════════════════════════════════════════════════════════

func (h *BookHandler) Delete(c *gin.Context) {
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
