package usecase

import (
	"context"
	"slices"

	"agristock-backend/internal/purchase/domain"
	"agristock-backend/internal/purchase/repository"
	"agristock-backend/pkg/fuzzy"
)

const DefaultLimit = 50

// ListOptions controls one rendering of a purchases tab.
type ListOptions struct {
	// OldestFirst reverses the default newest-first order.
	OldestFirst bool
	Limit       int
	// Search keeps only purchases whose title fuzzy-matches it.
	Search string
}

// PurchaseUsecase defines the interface for the My Purchases screen
type PurchaseUsecase interface {
	ListTab(ctx context.Context, buyerID string, tab domain.Tab, opts ListOptions) ([]*domain.Purchase, error)
}

type purchaseUsecase struct {
	repo repository.PurchaseRepository
}

func NewPurchaseUsecase(repo repository.PurchaseRepository) PurchaseUsecase {
	return &purchaseUsecase{repo: repo}
}

func (u *purchaseUsecase) ListTab(ctx context.Context, buyerID string, tab domain.Tab, opts ListOptions) ([]*domain.Purchase, error) {
	limit := opts.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	// A search scans the whole tab so older matches are not cut off by the cap.
	fetch := limit
	if opts.Search != "" {
		fetch = 0
	}
	items, err := u.repo.FindByBuyer(ctx, buyerID, tab, fetch)
	if err != nil {
		return nil, err
	}
	if opts.Search != "" {
		items = slices.DeleteFunc(items, func(p *domain.Purchase) bool {
			return !fuzzy.Match(opts.Search, p.Title)
		})
		if len(items) > limit {
			items = items[:limit]
		}
	}
	if opts.OldestFirst {
		slices.Reverse(items)
	}
	return items, nil
}
