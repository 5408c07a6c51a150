package repository

import (
	"context"
	"fmt"

	"agristock-backend/internal/purchase/domain"
	"agristock-backend/pkg/docstore"
)

const purchasesCollection = "purchases"

// PurchaseRepository defines the interface for purchase history reads
type PurchaseRepository interface {
	// FindByBuyer returns the buyer's purchases with the given status, newest first. A limit of 0 returns all of them.
	FindByBuyer(ctx context.Context, buyerID string, status domain.Tab, limit int) ([]*domain.Purchase, error)
}

type purchaseRepository struct {
	store docstore.Store
}

func NewPurchaseRepository(store docstore.Store) PurchaseRepository {
	return &purchaseRepository{store: store}
}

func (r *purchaseRepository) FindByBuyer(ctx context.Context, buyerID string, status domain.Tab, limit int) ([]*domain.Purchase, error) {
	docs, err := r.store.Query(ctx, docstore.Query{
		Collection: purchasesCollection,
		Filters: []docstore.Filter{
			{Field: "buyerId", Op: "==", Value: buyerID},
			{Field: "status", Op: "==", Value: string(status)},
		},
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find purchases for %s: %w", buyerID, err)
	}

	purchases := make([]*domain.Purchase, 0, len(docs))
	for _, d := range docs {
		purchases = append(purchases, &domain.Purchase{
			ID:        d.ID,
			BuyerID:   docstore.String(d.Data, "buyerId"),
			PostID:    docstore.String(d.Data, "postId"),
			Title:     docstore.String(d.Data, "title"),
			Price:     docstore.String(d.Data, "price"),
			ImageURL:  docstore.String(d.Data, "imageUrl"),
			Status:    domain.Tab(docstore.String(d.Data, "status")),
			CreatedAt: docstore.Time(d.Data, "createdAt"),
		})
	}
	return purchases, nil
}
