package savings

import (
	"encoding/json"
	"testing"

	"github.com/etnz/savings/date"
)

func TestMetalHolding_JSON(t *testing.T) {
	in := `{"id":"g","metal":"gold","date":"03-01-2023","grams":"10","purchasePrice":5000,"currentPrice":6000,"vault":"home"}`
	var h MetalHolding
	if err := json.Unmarshal([]byte(in), &h); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if h.Date != date.MustParse("2023-01-03") || !h.Value().Equal(M(60000)) {
		t.Errorf("Unmarshal = %+v", h)
	}
	out, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"id":"g","metal":"gold","date":"2023-01-03","grams":10,"purchasePrice":5000,"currentPrice":6000,"vault":"home"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
