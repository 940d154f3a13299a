package lifecycle_test

import (
	"testing"
	"time"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
	"github.com/akhileshishumaps-prog/mlm-realty-sub000/lifecycle"
)

func pay(amount int64, d engine.TimePoint) lifecycle.Payment {
	return lifecycle.Payment{Amount: engine.NewMoneyFromInt(amount), Date: d}
}

func jan(d int) engine.TimePoint {
	return engine.NewTimePoint(2024, time.January, d)
}

func TestLedger_PaidToDateSumsAllInstallments(t *testing.T) {
	l := lifecycle.NewLedger([]lifecycle.Payment{
		pay(10000, jan(1)),
		pay(25000, jan(5)),
		pay(65000, jan(9)),
	})

	if got := l.PaidToDate(); !got.Value.Equal(engine.NewMoneyFromInt(100000).Value) {
		t.Errorf("expected 100000, got %v", got)
	}
	if !l.IsFullyPaid(engine.NewMoneyFromInt(100000)) {
		t.Errorf("target exactly covered must count as fully paid")
	}
	if l.IsFullyPaid(engine.NewMoneyFromInt(100001)) {
		t.Errorf("target not covered must not count as fully paid")
	}
}

func TestLedger_PaidByDateExcludesLaterPayments(t *testing.T) {
	l := lifecycle.NewLedger([]lifecycle.Payment{
		pay(10000, jan(1)),
		pay(40000, jan(10)),
		pay(50000, jan(20)),
	})

	if got := l.PaidByDate(jan(10)); !got.Value.Equal(engine.NewMoneyFromInt(50000).Value) {
		t.Errorf("expected 50000 paid by jan 10, got %v", got)
	}
}

func TestLedger_PaidByDateBoundaryIsDayGranular(t *testing.T) {
	// A payment later in the day of the cutoff still counts.
	eveningPayment := lifecycle.Payment{
		Amount: engine.NewMoneyFromInt(5000),
		Date:   engine.At(time.Date(2024, time.January, 10, 18, 0, 0, 0, time.UTC)),
	}
	l := lifecycle.NewLedger([]lifecycle.Payment{eveningPayment})

	if got := l.PaidByDate(jan(10)); !got.Value.Equal(engine.NewMoneyFromInt(5000).Value) {
		t.Errorf("same-day payment must count toward the cutoff, got %v", got)
	}
}

func TestLedger_LatestDate(t *testing.T) {
	l := lifecycle.NewLedger([]lifecycle.Payment{
		pay(100, jan(5)),
		pay(100, jan(20)),
		pay(100, jan(10)),
	})

	if got := l.LatestDate(); !got.Equal(jan(20)) {
		t.Errorf("expected jan 20, got %v", got)
	}
	if got := l.LatestDateBy(jan(12)); !got.Equal(jan(10)) {
		t.Errorf("expected jan 10 by cutoff jan 12, got %v", got)
	}
}

func TestLedger_DoesNotMutateSource(t *testing.T) {
	src := []lifecycle.Payment{pay(100, jan(1))}
	l := lifecycle.NewLedger(src)
	l.Add(pay(200, jan(2)))

	if len(src) != 1 {
		t.Errorf("ledger mutated its source slice")
	}
	if l.Count() != 2 {
		t.Errorf("expected 2 entries, got %d", l.Count())
	}
}
