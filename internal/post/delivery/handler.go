package delivery

import (
	"errors"
	"net/http"

	authDelivery "agristock-backend/internal/auth/delivery"
	"agristock-backend/internal/post/domain"
	"agristock-backend/internal/post/usecase"
	"agristock-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// PostHandler handles the edit post screen
type PostHandler struct {
	postUsecase   usecase.PostUsecase
	maxImageBytes int64
}

func NewPostHandler(postUsecase usecase.PostUsecase, maxImageBytes int64) *PostHandler {
	return &PostHandler{postUsecase: postUsecase, maxImageBytes: maxImageBytes}
}

// EditPost updates a post's fields and optionally replaces its image
// PUT /api/posts/:id (multipart: title, price, description, image)
func (h *PostHandler) EditPost(c *gin.Context) {
	inst, ok := authDelivery.InstanceFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": session.ErrNoSession.Error()})
		return
	}
	s, _ := authDelivery.SessionFrom(c)

	// Leave room for the text fields around the image part.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes+1<<20)

	var fields domain.Fields
	if err := c.ShouldBind(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var image *domain.Image
	fh, err := c.FormFile("image")
	switch {
	case err == nil:
		if fh.Size > h.maxImageBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		defer f.Close()
		image = &domain.Image{Body: f, ContentType: fh.Header.Get("Content-Type")}
	case errors.Is(err, http.ErrMissingFile):
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The edit is abandoned if the user signs out while it is in flight.
	ctx, cancel := inst.Bind(c.Request.Context())
	defer cancel()

	post, err := h.postUsecase.EditPost(ctx, s.UserID, c.Param("id"), fields, image)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPost):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUploadFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.Is(err, session.ErrNoSession):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}
