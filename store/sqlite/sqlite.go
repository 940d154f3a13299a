/*
Package sqlite provides the SQLite-backed Store.

PURPOSE:
  Persists the member network, sales, investments, their installments,
  the versioned rate history and commission payouts. The same SQL
  patterns apply to PostgreSQL with minor dialect changes.

KEY TABLES:
  members:             the sponsor forest (sponsor_id is a nullable ref)
  sales:               sales with settlement state written by the sweep
  sale_payments:       installments, ordered by seq
  investments:         investments with settlement and buyback state
  investment_payments: installments, ordered by seq
  rate_history:        append-only versioned rate sets
  commission_payments: append-only payout records

APPEND-ONLY ENFORCEMENT:
  rate_history and commission_payments get INSERTs only - no UPDATE, no
  DELETE - so historical commission runs stay reproducible. Sales,
  investments and members are replaced wholesale by Put*, which is how
  the sweep writes settled statuses back.

PRECISION:
  Money and rates are stored as TEXT and parsed through decimal, never
  as REAL.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store: interface definitions
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store"
)

// Store implements store.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		sponsor_id TEXT,
		join_date TEXT NOT NULL,
		status TEXT NOT NULL,
		is_special INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_members_sponsor ON members(sponsor_id);

	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		seller_id TEXT NOT NULL,
		property_id TEXT,
		area_sq_yd TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		sale_date TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_done INTEGER NOT NULL DEFAULT 0,
		paid_amount TEXT,
		paid_date TEXT,
		cancelled_at TEXT,
		buyback_enabled INTEGER NOT NULL DEFAULT 0,
		buyback_cancelled INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sales_seller ON sales(seller_id);

	CREATE TABLE IF NOT EXISTS sale_payments (
		sale_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		amount TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		PRIMARY KEY (sale_id, seq)
	);

	CREATE TABLE IF NOT EXISTS investments (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		area_sq_yd TEXT NOT NULL,
		invested_at TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		buyback_months INTEGER NOT NULL DEFAULT 0,
		return_percent TEXT NOT NULL,
		buyback_date TEXT,
		paid_amount TEXT,
		paid_date TEXT,
		cancelled_at TEXT,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_investments_person ON investments(person_id);

	CREATE TABLE IF NOT EXISTS investment_payments (
		investment_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		amount TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		PRIMARY KEY (investment_id, seq)
	);

	-- Append-only: versioned rate sets, never updated or deleted.
	CREATE TABLE IF NOT EXISTS rate_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		level_rates TEXT NOT NULL,
		personal_rates TEXT NOT NULL
	);

	-- Append-only: payouts of already-earned commission.
	CREATE TABLE IF NOT EXISTS commission_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		paid_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_commission_payments_person
		ON commission_payments(person_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

func encodeDate(tp engine.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
}

func decodeDate(s string) engine.TimePoint {
	if s == "" {
		return engine.TimePoint{}
	}
	tp, err := engine.ParseDate(s)
	if err != nil {
		return engine.TimePoint{}
	}
	return tp
}

func encodeRates(r [rates.Levels]decimal.Decimal) (string, error) {
	vals := make([]string, rates.Levels)
	for i, d := range r {
		vals[i] = d.String()
	}
	b, err := json.Marshal(vals)
	return string(b), err
}

func decodeRates(s string) [rates.Levels]decimal.Decimal {
	var out [rates.Levels]decimal.Decimal
	var vals []string
	if err := json.Unmarshal([]byte(s), &vals); err != nil {
		return out
	}
	for i := 0; i < len(vals) && i < rates.Levels; i++ {
		if d, err := decimal.NewFromString(vals[i]); err == nil {
			out[i] = d
		}
	}
	return out
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// WRITES
// =============================================================================

func (s *Store) PutMember(ctx context.Context, m network.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sponsor sql.NullString
	if m.SponsorID != nil {
		sponsor = sql.NullString{String: string(*m.SponsorID), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, sponsor_id, join_date, status, is_special, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM members))
		ON CONFLICT(id) DO UPDATE SET
			sponsor_id = excluded.sponsor_id,
			join_date  = excluded.join_date,
			status     = excluded.status,
			is_special = excluded.is_special`,
		string(m.ID), sponsor, encodeDate(m.JoinDate), string(m.Status), boolInt(m.IsSpecial))
	return err
}

func (s *Store) PutSale(ctx context.Context, sale lifecycle.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, seller_id, property_id, area_sq_yd, total_amount,
			sale_date, status, payment_done, paid_amount, paid_date, cancelled_at,
			buyback_enabled, buyback_cancelled, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM sales))
		ON CONFLICT(id) DO UPDATE SET
			seller_id = excluded.seller_id,
			property_id = excluded.property_id,
			area_sq_yd = excluded.area_sq_yd,
			total_amount = excluded.total_amount,
			sale_date = excluded.sale_date,
			status = excluded.status,
			payment_done = excluded.payment_done,
			paid_amount = excluded.paid_amount,
			paid_date = excluded.paid_date,
			cancelled_at = excluded.cancelled_at,
			buyback_enabled = excluded.buyback_enabled,
			buyback_cancelled = excluded.buyback_cancelled`,
		sale.ID, string(sale.SellerID), sale.PropertyID, sale.AreaSqYd.String(),
		sale.TotalAmount.Value.String(), encodeDate(sale.SaleDate), string(sale.Status),
		boolInt(sale.PaymentDone), sale.PaidAmount.Value.String(), encodeDate(sale.PaidDate),
		encodeDate(sale.CancelledAt), boolInt(sale.BuybackEnabled), boolInt(sale.BuybackCancelled))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_payments WHERE sale_id = ?`, sale.ID); err != nil {
		return err
	}
	for i, p := range sale.Payments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sale_payments (sale_id, seq, amount, paid_at) VALUES (?, ?, ?, ?)`,
			sale.ID, i, p.Amount.Value.String(), encodeDate(p.Date)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) PutInvestment(ctx context.Context, inv lifecycle.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var buyback string
	if inv.BuybackDate != nil {
		buyback = encodeDate(*inv.BuybackDate)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO investments (id, person_id, amount, area_sq_yd, invested_at,
			payment_status, buyback_months, return_percent, buyback_date,
			paid_amount, paid_date, cancelled_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM investments))
		ON CONFLICT(id) DO UPDATE SET
			person_id = excluded.person_id,
			amount = excluded.amount,
			area_sq_yd = excluded.area_sq_yd,
			invested_at = excluded.invested_at,
			payment_status = excluded.payment_status,
			buyback_months = excluded.buyback_months,
			return_percent = excluded.return_percent,
			buyback_date = excluded.buyback_date,
			paid_amount = excluded.paid_amount,
			paid_date = excluded.paid_date,
			cancelled_at = excluded.cancelled_at`,
		inv.ID, string(inv.PersonID), inv.Amount.Value.String(), inv.AreaSqYd.String(),
		encodeDate(inv.Date), string(inv.PaymentStatus), inv.BuybackMonths,
		inv.ReturnPercent.String(), buyback, inv.PaidAmount.Value.String(),
		encodeDate(inv.PaidDate), encodeDate(inv.CancelledAt))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM investment_payments WHERE investment_id = ?`, inv.ID); err != nil {
		return err
	}
	for i, p := range inv.Payments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO investment_payments (investment_id, seq, amount, paid_at) VALUES (?, ?, ?, ?)`,
			inv.ID, i, p.Amount.Value.String(), encodeDate(p.Date)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) AppendRateEntry(ctx context.Context, e rates.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels, err := encodeRates(e.LevelRates)
	if err != nil {
		return err
	}
	personal, err := encodeRates(e.PersonalRates)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rate_history (created_at, level_rates, personal_rates) VALUES (?, ?, ?)`,
		encodeDate(e.CreatedAt), levels, personal)
	return err
}

func (s *Store) AppendPayout(ctx context.Context, p commission.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commission_payments (person_id, amount, paid_at) VALUES (?, ?, ?)`,
		string(p.PersonID), p.Amount.Value.String(), encodeDate(p.Date))
	return err
}

// =============================================================================
// SNAPSHOT LOAD
// =============================================================================

// LoadSnapshot reads the full dataset in insertion order.
func (s *Store) LoadSnapshot(ctx context.Context) (*store.Snapshot, error) {
	snap := &store.Snapshot{}

	if err := s.loadMembers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadSales(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadInvestments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadRates(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPayouts(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadMembers(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sponsor_id, join_date, status, is_special
		FROM members ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m network.Member
		var id string
		var sponsor sql.NullString
		var join, status string
		var special int
		if err := rows.Scan(&id, &sponsor, &join, &status, &special); err != nil {
			return err
		}
		m.ID = network.MemberID(id)
		if sponsor.Valid {
			sid := network.MemberID(sponsor.String)
			m.SponsorID = &sid
		}
		m.JoinDate = decodeDate(join)
		m.Status = network.Status(status)
		m.IsSpecial = special != 0
		snap.Members = append(snap.Members, m)
	}
	return rows.Err()
}

func (s *Store) loadSales(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seller_id, property_id, area_sq_yd, total_amount, sale_date,
			status, payment_done, paid_amount, paid_date, cancelled_at,
			buyback_enabled, buyback_cancelled
		FROM sales ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sale lifecycle.Sale
		var seller, area, total, saleDate, status string
		var property sql.NullString
		var paidAmount, paidDate, cancelledAt sql.NullString
		var done, bbEnabled, bbCancelled int
		if err := rows.Scan(&sale.ID, &seller, &property, &area, &total, &saleDate,
			&status, &done, &paidAmount, &paidDate, &cancelledAt,
			&bbEnabled, &bbCancelled); err != nil {
			return err
		}
		sale.SellerID = network.MemberID(seller)
		sale.PropertyID = property.String
		sale.AreaSqYd = parseDecimal(area)
		sale.TotalAmount = engine.Money{Value: parseDecimal(total)}
		sale.SaleDate = decodeDate(saleDate)
		sale.Status = lifecycle.SaleStatus(status)
		sale.PaymentDone = done != 0
		sale.PaidAmount = engine.Money{Value: parseDecimal(paidAmount.String)}
		sale.PaidDate = decodeDate(paidDate.String)
		sale.CancelledAt = decodeDate(cancelledAt.String)
		sale.BuybackEnabled = bbEnabled != 0
		sale.BuybackCancelled = bbCancelled != 0
		snap.Sales = append(snap.Sales, sale)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	// The parent cursor must be drained and closed before the payments
	// query: a second open statement checks out a second pooled
	// connection, which under :memory: is a separate empty database.
	rows.Close()

	payments, err := s.loadPayments(ctx,
		`SELECT sale_id, amount, paid_at FROM sale_payments ORDER BY sale_id, seq`)
	if err != nil {
		return err
	}
	for i := range snap.Sales {
		snap.Sales[i].Payments = payments[snap.Sales[i].ID]
	}
	return nil
}

func (s *Store) loadInvestments(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, amount, area_sq_yd, invested_at, payment_status,
			buyback_months, return_percent, buyback_date, paid_amount, paid_date, cancelled_at
		FROM investments ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var inv lifecycle.Investment
		var person, amount, area, date, status, ret string
		var buyback, paidAmount, paidDate, cancelledAt sql.NullString
		if err := rows.Scan(&inv.ID, &person, &amount, &area, &date, &status,
			&inv.BuybackMonths, &ret, &buyback, &paidAmount, &paidDate, &cancelledAt); err != nil {
			return err
		}
		inv.PersonID = network.MemberID(person)
		inv.Amount = engine.Money{Value: parseDecimal(amount)}
		inv.AreaSqYd = parseDecimal(area)
		inv.Date = decodeDate(date)
		inv.PaymentStatus = lifecycle.PaymentStatus(status)
		inv.ReturnPercent = parseDecimal(ret)
		if buyback.Valid && buyback.String != "" {
			bd := decodeDate(buyback.String)
			inv.BuybackDate = &bd
		}
		inv.PaidAmount = engine.Money{Value: parseDecimal(paidAmount.String)}
		inv.PaidDate = decodeDate(paidDate.String)
		inv.CancelledAt = decodeDate(cancelledAt.String)
		snap.Investments = append(snap.Investments, inv)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	payments, err := s.loadPayments(ctx,
		`SELECT investment_id, amount, paid_at FROM investment_payments ORDER BY investment_id, seq`)
	if err != nil {
		return err
	}
	for i := range snap.Investments {
		snap.Investments[i].Payments = payments[snap.Investments[i].ID]
	}
	return nil
}

// loadPayments loads a whole payments table grouped by parent id. The
// query must select (parent_id, amount, paid_at) ordered by parent, seq.
func (s *Store) loadPayments(ctx context.Context, query string) (map[string][]lifecycle.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make(map[string][]lifecycle.Payment)
	for rows.Next() {
		var parent, amount, paidAt string
		if err := rows.Scan(&parent, &amount, &paidAt); err != nil {
			return nil, err
		}
		payments[parent] = append(payments[parent], lifecycle.Payment{
			Amount: engine.Money{Value: parseDecimal(amount)},
			Date:   decodeDate(paidAt),
		})
	}
	return payments, rows.Err()
}

func (s *Store) loadRates(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at, level_rates, personal_rates FROM rate_history ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var created, levels, personal string
		if err := rows.Scan(&created, &levels, &personal); err != nil {
			return err
		}
		snap.RateEntries = append(snap.RateEntries, rates.Entry{
			CreatedAt: decodeDate(created),
			Set: rates.Set{
				LevelRates:    decodeRates(levels),
				PersonalRates: decodeRates(personal),
			},
		})
	}
	return rows.Err()
}

func (s *Store) loadPayouts(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, amount, paid_at FROM commission_payments ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var person, amount, paidAt string
		if err := rows.Scan(&person, &amount, &paidAt); err != nil {
			return err
		}
		snap.Payouts = append(snap.Payouts, commission.Payout{
			PersonID: network.MemberID(person),
			Amount:   engine.Money{Value: parseDecimal(amount)},
			Date:     decodeDate(paidAt),
		})
	}
	return rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
