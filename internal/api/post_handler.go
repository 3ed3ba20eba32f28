package api

import (
	"net/http"

	"github.com/blogify-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostHandler handles the post aggregate endpoints: CRUD, like toggle
// and comments
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

type postRequest struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body", Code: "validation_error"})
		return
	}

	post, err := h.services.Post.Create(c.Request.Context(), currentUserID(c), req.Heading, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.services.Post.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Mine handles GET /api/posts/mine
func (h *PostHandler) Mine(c *gin.Context) {
	posts, err := h.services.Post.ListByAuthor(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.services.Post.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body", Code: "validation_error"})
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), c.Param("id"), currentUserID(c), req.Heading, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.services.Post.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike handles POST /api/posts/:id/like. The response carries the
// new authoritative likesCount and liked flag; clients must not compute
// them locally.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	post, err := h.services.Post.ToggleLike(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// AddComment handles POST /api/posts/:id/comments
func (h *PostHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body", Code: "validation_error"})
		return
	}

	comment, err := h.services.Post.AddComment(c.Request.Context(), c.Param("id"), currentUserID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /api/posts/:id/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Post.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (h *PostHandler) DeleteComment(c *gin.Context) {
	err := h.services.Post.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
