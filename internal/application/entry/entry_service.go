package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/audit"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Service handles entry lifecycle operations
type Service struct {
	entryRepo entry.Repository
	auditor   audit.Recorder
}

// NewService creates a new entry Service
func NewService(entryRepo entry.Repository, auditor audit.Recorder) *Service {
	return &Service{entryRepo: entryRepo, auditor: auditor}
}

// Create creates the supplier's entry for a calendar day. A supplier can have
// at most one entry per day; a duplicate attempt returns the existing entry's
// id so the caller can redirect to editing instead.
func (s *Service) Create(ctx context.Context, actor audit.Actor, req CreateEntryRequest) (*EntryResponse, error) {
	date := time.Now()
	if req.EntryDate != nil {
		date = *req.EntryDate
	}
	day := entry.DayOf(date)

	existing, err := s.entryRepo.FindBySupplierAndDate(ctx, req.SupplierID, day)
	if err == nil {
		return nil, shared.NewDomainError("DUPLICATE_ENTRY", "An entry already exists for this supplier today").
			WithDetail("existing_entry_id", existing.ID.String())
	}
	if !isNotFound(err) {
		return nil, err
	}

	count, err := s.entryRepo.CountByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	serialNumber := entry.FormatSerialNumber(day, int(count)+1)

	e, err := entry.NewEntry(req.SupplierID, serialNumber, day, toDomainItems(uuid.Nil, req.Items))
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "create", fmt.Sprintf("Created entry %s", e.SerialNumber))
	response := ToEntryResponse(e)
	return &response, nil
}

// Update replaces the entry's items, applying the sub-serial numbering rules
func (s *Service) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	e, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.ReplaceItems(toDomainItems(e.ID, req.Items))

	if err := s.entryRepo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}

	s.record(ctx, actor, "update", fmt.Sprintf("Updated entry %s", e.SerialNumber))
	response := ToEntryResponse(e)
	return &response, nil
}

// Delete removes an entry. Items consumed by a buyer invoice block deletion.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	e, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Only buyer invoice links are checked here; items settled by a
	// supplier invoice do not block deletion (see DESIGN.md).
	if e.HasBuyerInvoiceLinks() {
		return shared.NewDomainError("CONFLICT", "Entry has invoiced items and cannot be deleted")
	}

	if err := s.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "delete", fmt.Sprintf("Deleted entry %s", e.SerialNumber))
	return nil
}

// GetByID retrieves an entry with its items
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	e, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(e)
	return &response, nil
}

// List retrieves entries with filtering and pagination
func (s *Service) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	entries, err := s.entryRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, total, nil
}

func (s *Service) record(ctx context.Context, actor audit.Actor, action, description string) {
	s.auditor.Record(ctx, audit.NewRecord(actor.ID, actor.Name, action, "entries", description))
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
