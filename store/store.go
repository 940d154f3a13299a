/*
Package store defines persistence for network snapshots.

PURPOSE:
  The computation core is storage-agnostic: it runs over an
  already-materialized Snapshot and must produce identical results
  regardless of where the rows came from. This package defines the
  loading and write-back contract; implementations live in memory/
  (tests, dev) and sqlite/ (production).

WRITE-BACK:
  The lifecycle sweep mutates statuses (sales settled or cancelled,
  investments likewise, member activation flips). Callers persist those
  through PutSale/PutInvestment/PutMember, which replace the stored
  record wholesale.

APPEND-ONLY TABLES:
  Rate-history entries and commission payouts are append-only: no
  Update, no Delete. A rates change appends a new versioned entry so
  past commission computations stay reproducible.

SEE ALSO:
  - memory/: in-memory implementation
  - sqlite/: SQLite implementation
*/
package store

import (
	"context"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
)

// Snapshot is the fully-materialized input of one computation run.
type Snapshot struct {
	Members     []network.Member
	Sales       []lifecycle.Sale
	Investments []lifecycle.Investment
	RateEntries []rates.Entry
	Payouts     []commission.Payout
}

// Store is the persistence contract for snapshots and status write-back.
type Store interface {
	// LoadSnapshot materializes the whole dataset in input order.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// PutMember inserts or replaces a member record.
	PutMember(ctx context.Context, m network.Member) error

	// PutSale inserts or replaces a sale with its payments.
	PutSale(ctx context.Context, s lifecycle.Sale) error

	// PutInvestment inserts or replaces an investment with its payments.
	PutInvestment(ctx context.Context, inv lifecycle.Investment) error

	// AppendRateEntry appends a versioned rate entry. Append-only.
	AppendRateEntry(ctx context.Context, e rates.Entry) error

	// AppendPayout appends a commission payout record. Append-only.
	AppendPayout(ctx context.Context, p commission.Payout) error
}
