// Package memory provides an in-memory Store for tests and development.
package memory

import (
	"context"
	"sync"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/commission"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/network"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/rates"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/store"
)

// =============================================================================
// MEMORY STORE - Insertion-ordered, safe for concurrent use
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	members     []network.Member
	memberIdx   map[network.MemberID]int
	sales       []lifecycle.Sale
	saleIdx     map[string]int
	investments []lifecycle.Investment
	invIdx      map[string]int
	rateEntries []rates.Entry
	payouts     []commission.Payout
}

func New() *Memory {
	return &Memory{
		memberIdx: make(map[network.MemberID]int),
		saleIdx:   make(map[string]int),
		invIdx:    make(map[string]int),
	}
}

var _ store.Store = (*Memory)(nil)

// Seed loads a whole snapshot at once, replacing previous contents.
func (m *Memory) Seed(snap store.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.members, m.sales, m.investments = nil, nil, nil
	m.rateEntries = append([]rates.Entry(nil), snap.RateEntries...)
	m.payouts = append([]commission.Payout(nil), snap.Payouts...)
	m.memberIdx = make(map[network.MemberID]int)
	m.saleIdx = make(map[string]int)
	m.invIdx = make(map[string]int)

	for _, mem := range snap.Members {
		m.putMemberLocked(mem)
	}
	for _, s := range snap.Sales {
		m.putSaleLocked(s)
	}
	for _, inv := range snap.Investments {
		m.putInvestmentLocked(inv)
	}
}

func (m *Memory) LoadSnapshot(_ context.Context) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &store.Snapshot{
		Members:     append([]network.Member(nil), m.members...),
		Sales:       copySales(m.sales),
		Investments: copyInvestments(m.investments),
		RateEntries: append([]rates.Entry(nil), m.rateEntries...),
		Payouts:     append([]commission.Payout(nil), m.payouts...),
	}, nil
}

func (m *Memory) PutMember(_ context.Context, mem network.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putMemberLocked(mem)
	return nil
}

func (m *Memory) PutSale(_ context.Context, s lifecycle.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putSaleLocked(s)
	return nil
}

func (m *Memory) PutInvestment(_ context.Context, inv lifecycle.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putInvestmentLocked(inv)
	return nil
}

func (m *Memory) AppendRateEntry(_ context.Context, e rates.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateEntries = append(m.rateEntries, e)
	return nil
}

func (m *Memory) AppendPayout(_ context.Context, p commission.Payout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payouts = append(m.payouts, p)
	return nil
}

// =============================================================================
// LOCKED HELPERS - Upserts preserving insertion order
// =============================================================================

func (m *Memory) putMemberLocked(mem network.Member) {
	if i, ok := m.memberIdx[mem.ID]; ok {
		m.members[i] = mem
		return
	}
	m.memberIdx[mem.ID] = len(m.members)
	m.members = append(m.members, mem)
}

func (m *Memory) putSaleLocked(s lifecycle.Sale) {
	s.Payments = append([]lifecycle.Payment(nil), s.Payments...)
	if i, ok := m.saleIdx[s.ID]; ok {
		m.sales[i] = s
		return
	}
	m.saleIdx[s.ID] = len(m.sales)
	m.sales = append(m.sales, s)
}

func (m *Memory) putInvestmentLocked(inv lifecycle.Investment) {
	inv.Payments = append([]lifecycle.Payment(nil), inv.Payments...)
	if i, ok := m.invIdx[inv.ID]; ok {
		m.investments[i] = inv
		return
	}
	m.invIdx[inv.ID] = len(m.investments)
	m.investments = append(m.investments, inv)
}

func copySales(in []lifecycle.Sale) []lifecycle.Sale {
	out := make([]lifecycle.Sale, len(in))
	for i, s := range in {
		s.Payments = append([]lifecycle.Payment(nil), s.Payments...)
		out[i] = s
	}
	return out
}

func copyInvestments(in []lifecycle.Investment) []lifecycle.Investment {
	out := make([]lifecycle.Investment, len(in))
	for i, inv := range in {
		inv.Payments = append([]lifecycle.Payment(nil), inv.Payments...)
		out[i] = inv
	}
	return out
}
