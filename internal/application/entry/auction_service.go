package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// AuctionService handles the per-item auctioning workflow. Every item save
// rewrites the owning entry's full item list; the optimistic lock on the
// entry turns concurrent saves of sibling items into a retryable conflict
// instead of a silent lost update.
type AuctionService struct {
	entryRepo entry.Repository
	auditor   audit.Recorder
}

// NewAuctionService creates a new AuctionService
func NewAuctionService(entryRepo entry.Repository, auditor audit.Recorder) *AuctionService {
	return &AuctionService{entryRepo: entryRepo, auditor: auditor}
}

// SaveItem validates and persists one auctioned item. A nil ItemID appends a
// new item; otherwise the matching item is replaced in place.
func (s *AuctionService) SaveItem(ctx context.Context, actor audit.Actor, entryID uuid.UUID, req SaveAuctionItemRequest) (*EntryResponse, error) {
	e, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if e.Status == entry.StatusInvoiced || e.Status == entry.StatusCancelled {
		return nil, shared.ErrInvalidState
	}

	item := entry.EntryItem{
		ID:              uuid.New(),
		EntryID:         e.ID,
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		WeightTracked:   req.WeightTracked,
		GrossWeight:     req.GrossWeight,
		ShuteWeight:     req.ShuteWeight,
		RatePerQuantity: req.RatePerQuantity,
		BuyerID:         req.BuyerID,
		CreatedAt:       time.Now(),
	}
	if req.ItemID != nil {
		item.ID = *req.ItemID
	}
	item.Recalculate()

	if fieldErrors := item.ValidateForAuction(); fieldErrors.HasErrors() {
		err := shared.NewDomainError("VALIDATION_ERROR", "Item is missing required auction fields")
		for field, message := range fieldErrors {
			err = err.WithDetail(field, message)
		}
		return nil, err
	}

	incoming := make([]entry.EntryItem, 0, len(e.Items)+1)
	replaced := false
	for _, existing := range e.Items {
		if existing.ID == item.ID {
			incoming = append(incoming, item)
			replaced = true
			continue
		}
		incoming = append(incoming, existing)
	}
	if !replaced {
		incoming = append(incoming, item)
	}
	e.ReplaceItems(incoming)

	if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "save_item", fmt.Sprintf("Saved auction item on entry %s", e.SerialNumber))
	response := ToEntryResponse(e)
	return &response, nil
}

// RemoveItem deletes one item and rewrites the entry
func (s *AuctionService) RemoveItem(ctx context.Context, actor audit.Actor, entryID, itemID uuid.UUID) (*EntryResponse, error) {
	e, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if e.Status == entry.StatusInvoiced || e.Status == entry.StatusCancelled {
		return nil, shared.ErrInvalidState
	}

	if err := e.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "remove_item", fmt.Sprintf("Removed auction item from entry %s", e.SerialNumber))
	response := ToEntryResponse(e)
	return &response, nil
}

func (s *AuctionService) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "auction", description))
}
