package odds

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fortuna/vantage/internal/model"
)

const tolerance = 0.1

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestImplied(t *testing.T) {
	tests := []struct {
		price   float64
		want    float64
		wantErr bool
	}{
		{1.80, 0.5556, false},
		{2.10, 0.4762, false},
		{1.01, 0.9901, false},
		{50.0, 0.02, false},
		{1.0, 0, true},
		{0.95, 0, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		got, err := Implied(d(tt.price))
		if (err != nil) != tt.wantErr {
			t.Errorf("Implied(%v) error = %v, wantErr %v", tt.price, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		f := got.InexactFloat64()
		if f <= 0 || f >= 1 {
			t.Errorf("Implied(%v) = %v, want in (0,1)", tt.price, f)
		}
		if math.Abs(f-tt.want) > 0.001 {
			t.Errorf("Implied(%v) = %v, want %v", tt.price, f, tt.want)
		}
	}
}

func TestMoneylineTwoWay(t *testing.T) {
	// home=1.80, away=2.10: raw implied 55.6/47.6 sums to 103.2, which
	// normalizes to 53.8/46.2.
	p, err := Moneyline(MoneylineQuote{Home: d(1.80), Away: d(2.10)})
	if err != nil {
		t.Fatalf("Moneyline: %v", err)
	}
	if !almostEqual(p.Home, 53.8) {
		t.Errorf("Home = %.2f, want 53.8", p.Home)
	}
	if !almostEqual(p.Away, 46.2) {
		t.Errorf("Away = %.2f, want 46.2", p.Away)
	}
	if p.Draw != nil {
		t.Error("two-way quote produced a draw probability")
	}
	if !almostEqual(p.Sum(), 100) {
		t.Errorf("sum = %.4f, want 100", p.Sum())
	}
}

func TestMoneylineThreeWay(t *testing.T) {
	draw := d(3.40)
	p, err := Moneyline(MoneylineQuote{Home: d(2.05), Away: d(3.80), Draw: &draw})
	if err != nil {
		t.Fatalf("Moneyline: %v", err)
	}
	if p.Draw == nil {
		t.Fatal("three-way quote lost its draw probability")
	}
	if !almostEqual(p.Sum(), 100) {
		t.Errorf("sum = %.4f, want 100", p.Sum())
	}
	if p.Home <= p.Away {
		t.Errorf("favourite ordering wrong: home %.2f <= away %.2f", p.Home, p.Away)
	}
}

func TestMoneylineInvalidPrice(t *testing.T) {
	if _, err := Moneyline(MoneylineQuote{Home: d(1.0), Away: d(2.0)}); err == nil {
		t.Error("expected error for home price 1.0")
	}
	if _, err := Moneyline(MoneylineQuote{Home: d(1.8), Away: d(0)}); err == nil {
		t.Error("expected error for zero away price")
	}
}

func TestSpreadAndTotal(t *testing.T) {
	sp, err := Spread(SpreadQuote{Line: -3.5, Home: d(1.91), Away: d(1.91)})
	if err != nil {
		t.Fatalf("Spread: %v", err)
	}
	if !almostEqual(sp.HomeCover, 50) || !almostEqual(sp.AwayCover, 50) {
		t.Errorf("even spread = %.2f/%.2f, want 50/50", sp.HomeCover, sp.AwayCover)
	}
	if sp.Line != -3.5 {
		t.Errorf("Line = %v, want -3.5", sp.Line)
	}

	tot, err := Total(TotalQuote{Line: 210.5, Over: d(1.87), Under: d(1.95)})
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !almostEqual(tot.Over+tot.Under, 100) {
		t.Errorf("total sum = %.4f, want 100", tot.Over+tot.Under)
	}
	if tot.Over <= tot.Under {
		t.Errorf("shorter over price should imply more: over %.2f, under %.2f", tot.Over, tot.Under)
	}
}

func TestNormalizeBookPartialMarkets(t *testing.T) {
	book := BookOdds{
		Bookmaker: "pinnacle",
		Moneyline: &MoneylineQuote{Home: d(1.80), Away: d(2.10)},
		Spread:    &SpreadQuote{Line: -2.5, Home: d(0.5), Away: d(1.91)}, // bad home price
	}
	intel, err := NormalizeBook(book)
	if err != nil {
		t.Fatalf("NormalizeBook: %v", err)
	}
	if intel.Moneyline == nil {
		t.Error("good moneyline dropped")
	}
	if intel.Spread != nil {
		t.Error("invalid spread kept")
	}
}

func TestNormalizeBookNothingUsable(t *testing.T) {
	if _, err := NormalizeBook(BookOdds{Bookmaker: "dud"}); err == nil {
		t.Error("expected error for book with no markets")
	}
}

func probPtr(home, away float64) *model.Probability {
	return &model.Probability{Home: home, Away: away}
}

func TestAggregateMoneylineWeightedMedian(t *testing.T) {
	books := []BookIntel{
		{Bookmaker: "pinnacle", Moneyline: probPtr(55, 45)},
		{Bookmaker: "softbook1", Moneyline: probPtr(60, 40)},
		{Bookmaker: "softbook2", Moneyline: probPtr(61, 39)},
	}
	sharpness := map[string]float64{"pinnacle": 10} // dominate the median

	p, ok := AggregateMoneyline(books, sharpness)
	if !ok {
		t.Fatal("expected aggregation to succeed")
	}
	if !almostEqual(p.Home, 55) {
		t.Errorf("Home = %.2f, want the sharp book's 55", p.Home)
	}
	if !almostEqual(p.Sum(), 100) {
		t.Errorf("sum = %.4f, want 100", p.Sum())
	}
}

func TestAggregateMoneylineNoBooks(t *testing.T) {
	if _, ok := AggregateMoneyline(nil, nil); ok {
		t.Error("expected ok=false with no books")
	}
	if _, ok := AggregateMoneyline([]BookIntel{{Bookmaker: "b"}}, nil); ok {
		t.Error("expected ok=false when no book quoted a moneyline")
	}
}
