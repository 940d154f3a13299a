/*
scenarios.go - Demo scenario definitions and loaders

PURPOSE:

	Provides preloaded demo datasets so the engine can be explored without
	hand-entering a network. Each scenario is a JSON fixture in the same
	loose format real admin dumps arrive in, parsed through the factory.

AVAILABLE SCENARIOS:

	starter-branch:   one sponsor, six recruits, completed sales - shows
	                  the stage-2 promotion and personal commission
	rate-change:      two rate versions with sales on both sides of the
	                  change - shows as-of-date rate resolution
	overdue-payments: sales and investments far past their due date - the
	                  first read after loading sweeps them

LOADING:

	Loading a scenario upserts its records into the store. IDs are stable
	per scenario. Rate entries are append-only, so reloading a scenario
	appends its rate rows again; use a fresh database for a clean demo.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "rate-change"}

ADDING NEW SCENARIOS:
 1. Add to the 'scenarios' slice with ID, name, description
 2. Write the fixture JSON in the loose dump format

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - factory/snapshot.go: the loose JSON parser
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/factory"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store"
)

// DefaultRateSet is the fallback rate table used when the stored
// history is empty: override rates taper from 10 to 1 per sq-yd by
// sponsor distance, self-sale rates climb from 25 to 65 by stage.
func DefaultRateSet() rates.Set {
	var s rates.Set
	levels := []int64{10, 8, 6, 4, 3, 2, 2, 1, 1}
	personal := []int64{25, 30, 35, 40, 45, 50, 55, 60, 65}
	for i := 0; i < rates.Levels; i++ {
		s.LevelRates[i] = decimal.NewFromInt(levels[i])
		s.PersonalRates[i] = decimal.NewFromInt(personal[i])
	}
	return s
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ID          string
	Name        string
	Description string
	Fixture     string // loose snapshot JSON
}

var scenarios = []scenario{
	{
		ID:          "starter-branch",
		Name:        "Starter Branch",
		Description: "One sponsor with six direct recruits and completed sales; the sponsor reaches stage 2.",
		Fixture: `{
			"members": [
				{"id": "alice", "joinDate": "2024-01-05", "status": "active"},
				{"id": "bob",    "sponsorId": "alice", "joinDate": "2024-01-10", "status": "active"},
				{"id": "carol",  "sponsorId": "alice", "joinDate": "2024-01-15", "status": "active"},
				{"id": "dave",   "sponsorId": "alice", "joinDate": "2024-02-01", "status": "active"},
				{"id": "erin",   "sponsorId": "alice", "joinDate": "2024-02-10", "status": "active"},
				{"id": "frank",  "sponsorId": "alice", "joinDate": "2024-02-20", "status": "active"},
				{"id": "grace",  "sponsorId": "alice", "joinDate": "2024-03-01", "status": "active"},
				{"id": "heidi",  "sponsorId": "bob",   "joinDate": "2024-03-15", "status": "active"}
			],
			"sales": [
				{"id": "sale-alice-1", "sellerId": "alice", "propertyId": "plot-101",
				 "areaSqYd": "120", "totalAmount": "600000", "saleDate": "2024-03-05",
				 "payments": [{"amount": "600000", "date": "2024-03-06"}]},
				{"id": "sale-bob-1", "sellerId": "bob", "propertyId": "plot-102",
				 "areaSqYd": "80", "totalAmount": "400000", "saleDate": "2024-03-10",
				 "payments": [{"amount": "400000", "date": "2024-03-11"}]}
			],
			"investments": [
				{"id": "inv-heidi-1", "personId": "heidi", "amount": "250000",
				 "areaSqYd": "50", "date": "2024-03-20", "buybackMonths": 12,
				 "returnPercent": "120",
				 "payments": [{"amount": "250000", "date": "2024-03-21"}]}
			],
			"rateHistory": [
				{"createdAt": "2024-01-01",
				 "levelRates":    ["10","8","6","4","3","2","2","1","1"],
				 "personalRates": ["25","30","35","40","45","50","55","60","65"]}
			]
		}`,
	},
	{
		ID:          "rate-change",
		Name:        "Rate Change",
		Description: "Two rate versions; sales before and after the change resolve to different rates.",
		Fixture: `{
			"members": [
				{"id": "root-1", "joinDate": "2023-01-01", "status": "active"},
				{"id": "seller-1", "sponsorId": "root-1", "joinDate": "2023-02-01", "status": "active"}
			],
			"sales": [
				{"id": "sale-old", "sellerId": "seller-1", "propertyId": "plot-201",
				 "areaSqYd": "100", "totalAmount": "500000", "saleDate": "2023-06-01",
				 "payments": [{"amount": "500000", "date": "2023-06-02"}]},
				{"id": "sale-new", "sellerId": "seller-1", "propertyId": "plot-202",
				 "areaSqYd": "100", "totalAmount": "500000", "saleDate": "2024-06-01",
				 "payments": [{"amount": "500000", "date": "2024-06-02"}]}
			],
			"rateHistory": [
				{"createdAt": "2023-01-01",
				 "levelRates":    ["5","3","2","1","1","1","1","1","1"],
				 "personalRates": ["10","12","14","16","18","20","22","24","26"]},
				{"createdAt": "2024-01-01",
				 "levelRates":    ["10","6","4","2","2","2","2","2","2"],
				 "personalRates": ["20","24","28","32","36","40","44","48","52"]}
			]
		}`,
	},
	{
		ID:          "overdue-payments",
		Name:        "Overdue Payments",
		Description: "Pending sales and investments far past their due dates; the first read sweeps them.",
		Fixture: `{
			"members": [
				{"id": "root-2", "joinDate": "2024-01-01", "status": "active"},
				{"id": "late-seller", "sponsorId": "root-2", "joinDate": "2024-02-01", "status": "active"},
				{"id": "late-investor", "sponsorId": "root-2", "joinDate": "2024-02-01", "status": "active"}
			],
			"sales": [
				{"id": "sale-paid-late", "sellerId": "late-seller", "propertyId": "plot-301",
				 "areaSqYd": "60", "totalAmount": "300000", "saleDate": "2024-03-01",
				 "buybackEnabled": true,
				 "payments": [{"amount": "300000", "date": "2024-03-05"}]},
				{"id": "sale-unpaid", "sellerId": "late-seller", "propertyId": "plot-302",
				 "areaSqYd": "90", "totalAmount": "450000", "saleDate": "2024-03-01",
				 "payments": [{"amount": "45000", "date": "2024-03-03"}]}
			],
			"investments": [
				{"id": "inv-unpaid", "personId": "late-investor", "amount": "200000",
				 "areaSqYd": "40", "date": "2024-03-01", "buybackMonths": 6,
				 "returnPercent": "110",
				 "payments": [{"amount": "20000", "date": "2024-03-02"}]}
			],
			"rateHistory": [
				{"createdAt": "2024-01-01",
				 "levelRates":    ["10","8","6","4","3","2","2","1","1"],
				 "personalRates": ["25","30","35","40","45","50","55","60","65"]}
			]
		}`,
	},
}

func findScenario(id string) *scenario {
	for i := range scenarios {
		if scenarios[i].ID == id {
			return &scenarios[i]
		}
	}
	return nil
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, 0, len(scenarios))
	for _, s := range scenarios {
		dtos = append(dtos, ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario parses a scenario fixture and upserts it into the store.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc := findScenario(req.ScenarioID)
	if sc == nil {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	snap, err := factory.ParseSnapshot([]byte(sc.Fixture))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to parse scenario", err)
		return
	}

	if err := h.seed(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = sc.ID
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: sc.ID, Name: sc.Name, Description: sc.Description})
}

func (h *Handler) seed(ctx context.Context, snap *store.Snapshot) error {
	for _, m := range snap.Members {
		if err := h.Store.PutMember(ctx, m); err != nil {
			return err
		}
	}
	for _, s := range snap.Sales {
		if err := h.Store.PutSale(ctx, s); err != nil {
			return err
		}
	}
	for _, inv := range snap.Investments {
		if err := h.Store.PutInvestment(ctx, inv); err != nil {
			return err
		}
	}
	for _, e := range snap.RateEntries {
		if err := h.Store.AppendRateEntry(ctx, e); err != nil {
			return err
		}
	}
	for _, p := range snap.Payouts {
		if err := h.Store.AppendPayout(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
