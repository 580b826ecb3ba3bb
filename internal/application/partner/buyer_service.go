package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// BuyerService handles buyer master-data operations
type BuyerService struct {
	buyerRepo partner.BuyerRepository
	auditor   audit.Recorder
}

// NewBuyerService creates a new BuyerService
func NewBuyerService(buyerRepo partner.BuyerRepository, auditor audit.Recorder) *BuyerService {
	return &BuyerService{buyerRepo: buyerRepo, auditor: auditor}
}

// Create registers a new buyer
func (s *BuyerService) Create(ctx context.Context, actor audit.Actor, req CreatePartnerRequest) (*BuyerResponse, error) {
	buyer, err := partner.NewBuyer(req.Name, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.buyerRepo.Save(ctx, buyer); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "create", fmt.Sprintf("Created buyer %s", buyer.BuyerName))
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// Update changes a buyer's contact details
func (s *BuyerService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdatePartnerRequest) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := buyer.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.buyerRepo.SaveWithLock(ctx, buyer); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "update", fmt.Sprintf("Updated buyer %s", buyer.BuyerName))
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// Delete removes a buyer. A non-zero outstanding balance blocks deletion.
func (s *BuyerService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	buyer, err := s.buyerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if buyer.HasOutstanding() {
		return shared.NewDomainError("CONFLICT", "Buyer has an outstanding balance and cannot be deleted").
			WithDetail("outstanding", buyer.Outstanding.String())
	}
	if err := s.buyerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted buyer %s", buyer.BuyerName))
	return nil
}

// GetByID retrieves a buyer
func (s *BuyerService) GetByID(ctx context.Context, id uuid.UUID) (*BuyerResponse, error) {
	buyer, err := s.buyerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBuyerResponse(buyer)
	return &response, nil
}

// List retrieves buyers with filtering and pagination
func (s *BuyerService) List(ctx context.Context, filter PartnerListFilter) ([]BuyerResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	buyers, err := s.buyerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.buyerRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BuyerResponse, len(buyers))
	for i := range buyers {
		responses[i] = ToBuyerResponse(&buyers[i])
	}
	return responses, total, nil
}

func (s *BuyerService) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "buyers", description))
}
