package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// SupplierService handles supplier master-data operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	auditor      audit.Recorder
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, auditor audit.Recorder) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, auditor: auditor}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, actor audit.Actor, req CreatePartnerRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "create", fmt.Sprintf("Created supplier %s", supplier.SupplierName))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update changes a supplier's contact details
func (s *SupplierService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdatePartnerRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, supplier); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "update", fmt.Sprintf("Updated supplier %s", supplier.SupplierName))
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier. A non-zero outstanding balance blocks deletion.
func (s *SupplierService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier.HasOutstanding() {
		return shared.NewDomainError("CONFLICT", "Supplier has an outstanding balance and cannot be deleted").
			WithDetail("outstanding", supplier.Outstanding.String())
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted supplier %s", supplier.SupplierName))
	return nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter PartnerListFilter) ([]SupplierResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	suppliers, err := s.supplierRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

func (s *SupplierService) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "suppliers", description))
}
