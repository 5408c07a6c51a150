package delivery

import (
	"net/http"
	"strconv"

	authDelivery "agristock-backend/internal/auth/delivery"
	"agristock-backend/internal/purchase/domain"
	"agristock-backend/internal/purchase/usecase"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles the My Purchases screen
type PurchaseHandler struct {
	purchaseUsecase usecase.PurchaseUsecase
}

func NewPurchaseHandler(purchaseUsecase usecase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{purchaseUsecase: purchaseUsecase}
}

// GetPurchases returns one tab of the user's purchase history
// GET /api/purchases?tab=ongoing&order=desc&limit=50&q=maize
func (h *PurchaseHandler) GetPurchases(c *gin.Context) {
	s, _ := authDelivery.SessionFrom(c)

	tab, err := domain.ParseTab(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultLimit)))
	opts := usecase.ListOptions{
		OldestFirst: c.Query("order") == "asc",
		Limit:       limit,
		Search:      c.Query("q"),
	}

	items, err := h.purchaseUsecase.ListTab(c.Request.Context(), s.UserID, tab, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tab":       tab,
		"purchases": items,
		"total":     len(items),
	})
}
