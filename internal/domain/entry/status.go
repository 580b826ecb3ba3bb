package entry

// EntryStatus represents the lifecycle state of an entry.
//
// The labels are kept as the wire contract expects them, but note the
// historical naming: "Draft" means every item has been auctioned (buyer and
// rate assigned) and is awaiting a buyer invoice, while "Auctioned" means
// every item has been consumed by a buyer invoice.
type EntryStatus string

const (
	StatusPending   EntryStatus = "Pending"
	StatusDraft     EntryStatus = "Draft"
	StatusAuctioned EntryStatus = "Auctioned"
	StatusInvoiced  EntryStatus = "Invoiced"
	StatusCancelled EntryStatus = "Cancelled"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusDraft, StatusAuctioned, StatusInvoiced, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// ComputeStatus derives the entry status from its items. It is a pure
// function and must be re-evaluated after every mutation to the item list.
//
// Rules, in priority order:
//  1. no items -> Pending
//  2. supplier invoice linkage (flag or any item link) -> Invoiced (terminal)
//  3. every item buyer-invoiced -> Auctioned
//  4. every item has buyer and positive rate -> Draft
//  5. otherwise -> Pending
func ComputeStatus(items []EntryItem, hasSupplierInvoiceLinkage bool) EntryStatus {
	if len(items) == 0 {
		return StatusPending
	}

	if hasSupplierInvoiceLinkage {
		return StatusInvoiced
	}
	for _, item := range items {
		if item.SupplierInvoiceID != nil {
			return StatusInvoiced
		}
	}

	allInvoiced := true
	for _, item := range items {
		if item.InvoiceID == nil {
			allInvoiced = false
			break
		}
	}
	if allInvoiced {
		return StatusAuctioned
	}

	allAuctioned := true
	for _, item := range items {
		if item.BuyerID == nil || !item.RatePerQuantity.IsPositive() {
			allAuctioned = false
			break
		}
	}
	if allAuctioned {
		return StatusDraft
	}

	return StatusPending
}
