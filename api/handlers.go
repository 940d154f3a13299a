/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes the network, lifecycle and commission engines via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Members:
    GET    /api/members                 Network report with stages
    POST   /api/members                 Create member
    GET    /api/members/{id}            Member detail with commission

  Sales:
    GET    /api/sales                   List sales
    POST   /api/sales                   Create sale
    POST   /api/sales/{id}/payments     Record installment

  Investments:
    GET    /api/investments             List investments
    POST   /api/investments             Create investment
    POST   /api/investments/{id}/payments Record installment

  Rates:
    GET    /api/rates                   Rate history (ascending)
    POST   /api/rates                   Append a new rate set

  Commission:
    GET    /api/commission              Full commission report
    POST   /api/payouts                 Record a payout

  Admin:
    POST   /api/admin/sweep             Run the lifecycle sweep

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/load          Load a demo scenario

REQUEST FLOW:
  Every read endpoint follows the same sequence: load the snapshot,
  build the index and rate history, run the lifecycle sweep so overdue
  items settle before anything is derived from them, persist whatever
  the sweep changed, then compute. Payments follow the same sequence
  and persist the mutated record afterwards.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 422: Policy violations (underpaid deposit, overpayment, late payment)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/stage"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.Store

	// Fallback rate set used when the stored history is empty.
	FallbackRates rates.Set

	// Now supplies the sweep clock; defaults to engine.Today.
	Now func() engine.TimePoint

	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(st store.Store) *Handler {
	return &Handler{Store: st, FallbackRates: DefaultRateSet()}
}

func (h *Handler) now() engine.TimePoint {
	if h.Now != nil {
		return h.Now()
	}
	return engine.Today()
}

// =============================================================================
// RUNTIME - one loaded, swept snapshot
// =============================================================================

// runtime is the in-memory working set of one request: the snapshot,
// the structures derived from it, and the lifecycle engine over it.
type runtime struct {
	index       *network.Index
	history     *rates.History
	sales       []*lifecycle.Sale
	investments []*lifecycle.Investment
	payouts     []commission.Payout
	engine      *lifecycle.Engine
}

// load materializes the snapshot, runs the sweep, and persists whatever
// the sweep transitioned. Every endpoint reads through this so derived
// values never see overdue-but-pending records.
func (h *Handler) load(ctx context.Context) (*runtime, error) {
	snap, err := h.Store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	rt := h.buildRuntime(snap)
	result := rt.engine.Sweep(h.now())
	if err := h.persistSweep(ctx, rt, result); err != nil {
		return nil, err
	}
	return rt, nil
}

// buildRuntime derives the working structures from a raw snapshot.
func (h *Handler) buildRuntime(snap *store.Snapshot) *runtime {
	rt := &runtime{
		index:   network.BuildIndex(snap.Members),
		history: rates.NewHistory(snap.RateEntries, h.FallbackRates),
		payouts: snap.Payouts,
	}
	for i := range snap.Sales {
		rt.sales = append(rt.sales, &snap.Sales[i])
	}
	for i := range snap.Investments {
		rt.investments = append(rt.investments, &snap.Investments[i])
	}
	rt.engine = lifecycle.NewEngine(rt.index, rt.sales, rt.investments)
	rt.engine.Now = h.now
	return rt
}

// persistSweep writes back exactly the records the sweep transitioned.
func (h *Handler) persistSweep(ctx context.Context, rt *runtime, result lifecycle.SweepResult) error {
	if result.Empty() {
		return nil
	}

	changedSales := make(map[string]bool)
	for _, id := range result.SalesSettled {
		changedSales[id] = true
	}
	for _, id := range result.SalesCancelled {
		changedSales[id] = true
	}
	for _, s := range rt.sales {
		if changedSales[s.ID] {
			if err := h.Store.PutSale(ctx, *s); err != nil {
				return err
			}
		}
	}

	changedInvs := make(map[string]bool)
	for _, id := range result.InvestmentsSettled {
		changedInvs[id] = true
	}
	for _, id := range result.InvestmentsCancelled {
		changedInvs[id] = true
	}
	for _, inv := range rt.investments {
		if changedInvs[inv.ID] {
			if err := h.Store.PutInvestment(ctx, *inv); err != nil {
				return err
			}
		}
	}

	changedMembers := make(map[network.MemberID]bool)
	for _, id := range result.MembersActivated {
		changedMembers[id] = true
	}
	for _, id := range result.MembersDeactivated {
		changedMembers[id] = true
	}
	for id := range changedMembers {
		if m, ok := rt.index.Member(id); ok {
			if err := h.Store.PutMember(ctx, *m); err != nil {
				return err
			}
		}
	}
	return nil
}

// completedSaleDates groups each member's completed sale dates for the
// stage calculator.
func (rt *runtime) completedSaleDates() map[network.MemberID][]engine.TimePoint {
	out := make(map[network.MemberID][]engine.TimePoint)
	for _, s := range rt.sales {
		if s.Completed() {
			out[s.SellerID] = append(out[s.SellerID], s.SaleDate)
		}
	}
	return out
}

// =============================================================================
// MEMBER HANDLERS
// =============================================================================

// ListMembers returns the network report: every member with their
// computed stage and progress.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load network", err)
		return
	}

	stages := stage.NewCalculator(rt.index)
	completed := rt.completedSaleDates()

	dtos := make([]MemberDTO, 0, rt.index.Len())
	for _, m := range rt.index.Members() {
		res, err := stages.Calculate(m.ID, completed[m.ID])
		if err != nil {
			continue
		}
		dtos = append(dtos, memberDTO(rt, m, res))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMember returns one member with stage, commission and upline detail.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := network.MemberID(chi.URLParam(r, "id"))

	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load network", err)
		return
	}

	m, ok := rt.index.Member(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	report := commission.NewCalculator(rt.index, rt.history).
		Run(rt.sales, rt.investments, rt.payouts)

	var row commission.Summary
	for _, s := range report.Members {
		if s.Member.ID == id {
			row = s
			break
		}
	}

	res, err := stage.NewCalculator(rt.index).Calculate(id, rt.completedSaleDates()[id])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stage", err)
		return
	}

	detail := MemberDetailDTO{
		MemberDTO:       memberDTO(rt, m, res),
		StageEntryDate:  formatDate(res.EntryDate),
		TotalCommission: row.TotalCommission.Value.String(),
		TotalPaid:       row.TotalPaid.Value.String(),
		Remaining:       row.Remaining().Value.String(),
		PersonalRate:    row.PersonalRate.String(),
		DownlineSize:    len(rt.index.DownlineIDs(id, network.MaxLevels)),
	}
	for _, hop := range rt.index.UplineChain(id, network.MaxLevels) {
		detail.Upline = append(detail.Upline, UplineHopDTO{
			Level:    hop.Level,
			MemberID: string(hop.Sponsor.ID),
		})
	}
	writeJSON(w, http.StatusOK, detail)
}

// CreateMember registers a new member under an optional sponsor.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	joined := h.now()
	if req.JoinDate != "" {
		var err error
		joined, err = engine.ParseDate(req.JoinDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid join_date", err)
			return
		}
	}

	m := network.Member{
		ID:        network.MemberID(orGeneratedID(req.ID)),
		JoinDate:  joined,
		Status:    network.StatusPending,
		IsSpecial: req.IsSpecial,
	}
	if req.SponsorID != "" {
		sid := network.MemberID(req.SponsorID)
		m.SponsorID = &sid
	}

	if err := h.Store.PutMember(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create member", err)
		return
	}
	writeJSON(w, http.StatusCreated, MemberDTO{
		ID:        string(m.ID),
		SponsorID: req.SponsorID,
		JoinDate:  formatDate(m.JoinDate),
		Status:    string(m.Status),
		IsSpecial: m.IsSpecial,
		Stage:     1,
	})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// ListSales returns all sales with their settlement state.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load sales", err)
		return
	}

	dtos := make([]SaleDTO, 0, len(rt.sales))
	for _, s := range rt.sales {
		dtos = append(dtos, saleDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSale records a new property sale.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SellerID == "" {
		writeError(w, http.StatusBadRequest, "seller_id is required", nil)
		return
	}

	area, err := decimal.NewFromString(req.AreaSqYd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid area_sq_yd", err)
		return
	}
	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
		return
	}
	saleDate := h.now()
	if req.SaleDate != "" {
		saleDate, err = engine.ParseDate(req.SaleDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid sale_date", err)
			return
		}
	}

	sale := lifecycle.Sale{
		ID:             orGeneratedID(req.ID),
		SellerID:       network.MemberID(req.SellerID),
		PropertyID:     req.PropertyID,
		AreaSqYd:       area,
		TotalAmount:    engine.Money{Value: total},
		SaleDate:       saleDate,
		Status:         lifecycle.SaleActive,
		BuybackEnabled: req.BuybackEnabled,
	}
	if err := h.Store.PutSale(r.Context(), sale); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, saleDTO(&sale))
}

// RecordSalePayment records one installment against a sale.
func (h *Handler) RecordSalePayment(w http.ResponseWriter, r *http.Request) {
	h.recordPayment(w, r, true)
}

// RecordInvestmentPayment records one installment against an investment.
func (h *Handler) RecordInvestmentPayment(w http.ResponseWriter, r *http.Request) {
	h.recordPayment(w, r, false)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request, isSale bool) {
	id := chi.URLParam(r, "id")

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	date := h.now()
	if req.Date != "" {
		date, err = engine.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	p := lifecycle.Payment{Amount: engine.Money{Value: amount}, Date: date}
	if isSale {
		err = rt.engine.RecordSalePayment(id, p)
	} else {
		err = rt.engine.RecordInvestmentPayment(id, p)
	}
	if err != nil {
		writeDomainError(w, err)
		// A rejected late payment still force-cancels the record.
		h.persistRecord(r.Context(), rt, id, isSale)
		return
	}
	if err := h.persistRecord(r.Context(), rt, id, isSale); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist payment", err)
		return
	}

	if isSale {
		writeJSON(w, http.StatusOK, saleDTO(findSale(rt, id)))
	} else {
		writeJSON(w, http.StatusOK, investmentDTO(findInvestment(rt, id)))
	}
}

// persistRecord writes back one sale or investment plus any member
// transition its settlement triggered.
func (h *Handler) persistRecord(ctx context.Context, rt *runtime, id string, isSale bool) error {
	if isSale {
		if s := findSale(rt, id); s != nil {
			return h.Store.PutSale(ctx, *s)
		}
		return nil
	}
	inv := findInvestment(rt, id)
	if inv == nil {
		return nil
	}
	if err := h.Store.PutInvestment(ctx, *inv); err != nil {
		return err
	}
	// Settlement may have flipped the member's status.
	if m, ok := rt.index.Member(inv.PersonID); ok {
		return h.Store.PutMember(ctx, *m)
	}
	return nil
}

// =============================================================================
// INVESTMENT HANDLERS
// =============================================================================

// ListInvestments returns all investments with settlement and buyback
// state.
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load investments", err)
		return
	}

	dtos := make([]InvestmentDTO, 0, len(rt.investments))
	for _, inv := range rt.investments {
		dtos = append(dtos, investmentDTO(inv))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInvestment records a new capital investment.
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PersonID == "" {
		writeError(w, http.StatusBadRequest, "person_id is required", nil)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	area, err := decimal.NewFromString(req.AreaSqYd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid area_sq_yd", err)
		return
	}
	ret := decimal.NewFromInt(100)
	if req.ReturnPercent != "" {
		ret, err = decimal.NewFromString(req.ReturnPercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid return_percent", err)
			return
		}
	}
	date := h.now()
	if req.Date != "" {
		date, err = engine.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	inv := lifecycle.Investment{
		ID:            orGeneratedID(req.ID),
		PersonID:      network.MemberID(req.PersonID),
		Amount:        engine.Money{Value: amount},
		AreaSqYd:      area,
		Date:          date,
		PaymentStatus: lifecycle.InvestmentPending,
		BuybackMonths: req.BuybackMonths,
		ReturnPercent: ret,
	}
	if err := h.Store.PutInvestment(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create investment", err)
		return
	}
	writeJSON(w, http.StatusCreated, investmentDTO(&inv))
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// ListRates returns the rate history, ascending by creation date.
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}

	entries := rt.history.Entries()
	dtos := make([]RateEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, rateEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AppendRates appends a new versioned rate set. Existing entries are
// never modified.
func (h *Handler) AppendRates(w http.ResponseWriter, r *http.Request) {
	var req AppendRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created := h.now()
	if req.CreatedAt != "" {
		var err error
		created, err = engine.ParseDate(req.CreatedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid created_at", err)
			return
		}
	}

	entry := rates.Entry{CreatedAt: created}
	if err := fillRates(&entry.LevelRates, req.LevelRates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid level_rates", err)
		return
	}
	if err := fillRates(&entry.PersonalRates, req.PersonalRates); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid personal_rates", err)
		return
	}

	if err := h.Store.AppendRateEntry(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to append rates", err)
		return
	}
	writeJSON(w, http.StatusCreated, rateEntryDTO(entry))
}

// =============================================================================
// COMMISSION HANDLERS
// =============================================================================

// GetCommissionReport returns the full per-member commission report.
func (h *Handler) GetCommissionReport(w http.ResponseWriter, r *http.Request) {
	rt, err := h.load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	report := commission.NewCalculator(rt.index, rt.history).
		Run(rt.sales, rt.investments, rt.payouts)

	dto := CommissionReportDTO{
		Members:         make([]CommissionRowDTO, 0, len(report.Members)),
		TotalCommission: report.TotalCommission.Value.String(),
	}
	for _, s := range report.Members {
		dto.Members = append(dto.Members, commissionRowDTO(s))
	}
	for _, s := range report.TopEarners {
		dto.TopEarners = append(dto.TopEarners, commissionRowDTO(s))
	}
	writeJSON(w, http.StatusOK, dto)
}

// RecordPayout records a payout of already-earned commission.
func (h *Handler) RecordPayout(w http.ResponseWriter, r *http.Request) {
	var req RecordPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PersonID == "" {
		writeError(w, http.StatusBadRequest, "person_id is required", nil)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	date := h.now()
	if req.Date != "" {
		date, err = engine.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	p := commission.Payout{
		PersonID: network.MemberID(req.PersonID),
		Amount:   engine.Money{Value: amount},
		Date:     date,
	}
	if err := h.Store.AppendPayout(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payout", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"person_id": req.PersonID,
		"amount":    amount.String(),
		"date":      formatDate(date),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerSweep runs the lifecycle sweep and reports the transitions.
// Loading already sweeps, so the explicit endpoint mostly reports an
// empty result; it exists so operators can settle overdue items without
// hitting a read endpoint.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load data", err)
		return
	}

	rt := h.buildRuntime(snap)
	result := rt.engine.Sweep(h.now())
	if err := h.persistSweep(r.Context(), rt, result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist sweep", err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResultDTO(result))
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func memberDTO(rt *runtime, m *network.Member, res stage.Result) MemberDTO {
	dto := MemberDTO{
		ID:             string(m.ID),
		JoinDate:       formatDate(m.JoinDate),
		Status:         string(m.Status),
		IsSpecial:      m.IsSpecial,
		Stage:          res.Stage,
		DirectRecruits: res.DirectRecruits,
		Progress:       res.Progress,
		NextTarget:     res.NextTarget,
		DownlineDepth:  rt.index.DownlineDepth(m.ID, network.MaxLevels),
	}
	if m.SponsorID != nil {
		dto.SponsorID = string(*m.SponsorID)
	}
	return dto
}

func saleDTO(s *lifecycle.Sale) SaleDTO {
	if s == nil {
		return SaleDTO{}
	}
	dto := SaleDTO{
		ID:          s.ID,
		SellerID:    string(s.SellerID),
		PropertyID:  s.PropertyID,
		AreaSqYd:    s.AreaSqYd.String(),
		TotalAmount: s.TotalAmount.Value.String(),
		SaleDate:    formatDate(s.SaleDate),
		DueDate:     formatDate(lifecycle.DueDate(s.SaleDate)),
		Status:      string(s.Status),
		PaymentDone: s.PaymentDone,
		PaidAmount:  s.PaidAmount.Value.String(),
		PaidDate:    formatDate(s.PaidDate),
	}
	for _, p := range s.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			Amount: p.Amount.Value.String(),
			Date:   formatDate(p.Date),
		})
	}
	return dto
}

func investmentDTO(inv *lifecycle.Investment) InvestmentDTO {
	if inv == nil {
		return InvestmentDTO{}
	}
	dto := InvestmentDTO{
		ID:            inv.ID,
		PersonID:      string(inv.PersonID),
		Amount:        inv.Amount.Value.String(),
		AreaSqYd:      inv.AreaSqYd.String(),
		Date:          formatDate(inv.Date),
		DueDate:       formatDate(lifecycle.DueDate(inv.Date)),
		PaymentStatus: string(inv.PaymentStatus),
		BuybackMonths: inv.BuybackMonths,
		ReturnPercent: inv.ReturnPercent.String(),
		PaidAmount:    inv.PaidAmount.Value.String(),
	}
	if inv.BuybackDate != nil {
		dto.BuybackDate = formatDate(*inv.BuybackDate)
	}
	for _, p := range inv.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			Amount: p.Amount.Value.String(),
			Date:   formatDate(p.Date),
		})
	}
	return dto
}

func rateEntryDTO(e rates.Entry) RateEntryDTO {
	dto := RateEntryDTO{CreatedAt: formatDate(e.CreatedAt)}
	for i := 0; i < rates.Levels; i++ {
		dto.LevelRates = append(dto.LevelRates, e.LevelRates[i].String())
		dto.PersonalRates = append(dto.PersonalRates, e.PersonalRates[i].String())
	}
	return dto
}

func commissionRowDTO(s commission.Summary) CommissionRowDTO {
	return CommissionRowDTO{
		MemberID:        string(s.Member.ID),
		Stage:           s.Stage,
		PersonalRate:    s.PersonalRate.String(),
		TotalCommission: s.TotalCommission.Value.String(),
		TotalPaid:       s.TotalPaid.Value.String(),
		Remaining:       s.Remaining().Value.String(),
		MaxLevel:        s.MaxLevel,
	}
}

func sweepResultDTO(r lifecycle.SweepResult) SweepResultDTO {
	dto := SweepResultDTO{
		SalesSettled:         emptyIfNil(r.SalesSettled),
		SalesCancelled:       emptyIfNil(r.SalesCancelled),
		InvestmentsSettled:   emptyIfNil(r.InvestmentsSettled),
		InvestmentsCancelled: emptyIfNil(r.InvestmentsCancelled),
		PropertiesReleased:   emptyIfNil(r.PropertiesReleased),
		MembersActivated:     []string{},
		MembersDeactivated:   []string{},
	}
	for _, id := range r.MembersActivated {
		dto.MembersActivated = append(dto.MembersActivated, string(id))
	}
	for _, id := range r.MembersDeactivated {
		dto.MembersDeactivated = append(dto.MembersDeactivated, string(id))
	}
	return dto
}

// =============================================================================
// HELPERS
// =============================================================================

func findSale(rt *runtime, id string) *lifecycle.Sale {
	for _, s := range rt.sales {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func findInvestment(rt *runtime, id string) *lifecycle.Investment {
	for _, inv := range rt.investments {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}

func fillRates(dst *[rates.Levels]decimal.Decimal, src []string) error {
	for i := 0; i < len(src) && i < rates.Levels; i++ {
		d, err := decimal.NewFromString(src[i])
		if err != nil {
			return err
		}
		dst[i] = d
	}
	return nil
}

func orGeneratedID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func formatDate(tp engine.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format("2006-01-02")
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP status codes: policy
// violations are 422, missing records 404, anything else 400.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Record not found", err)
	case engine.IsPolicyViolation(err):
		writeError(w, http.StatusUnprocessableEntity, "Payment rejected", err)
	default:
		writeError(w, http.StatusBadRequest, "Invalid operation", err)
	}
}
