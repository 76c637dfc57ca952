package savings

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/etnz/savings/date"
)

func newTestAccount(txs ...SavingsTx) SavingsAccount {
	return SavingsAccount{ID: "acc-1", Title: "Salary", InterestRate: 5.4, Transactions: txs}
}

func interestOn(a SavingsAccount, on string) (SavingsTx, bool) {
	for _, tx := range a.Transactions {
		if tx.Type == Interest && tx.Date == date.MustParse(on) {
			return tx, true
		}
	}
	return SavingsTx{}, false
}

func TestSimulate_Empty(t *testing.T) {
	a := newTestAccount()
	got, changed := a.Simulate(date.MustParse("2024-01-03"))
	if changed {
		t.Errorf("Simulate() on an empty account reported a change")
	}
	if len(got.Transactions) != 0 || !got.Amount().IsZero() {
		t.Errorf("Simulate() on an empty account = %+v, want it untouched", got)
	}
}

func TestSimulate_GeneratesDailyInterest(t *testing.T) {
	a := newTestAccount(SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(100000)})

	got, changed := a.Simulate(date.MustParse("2024-01-03"))
	if !changed {
		t.Fatalf("Simulate() reported no change")
	}

	want := map[string]Money{
		"2024-01-01": M(14.79),
		"2024-01-02": M(14.80),
		"2024-01-03": M(14.80),
	}
	for on, amount := range want {
		tx, ok := interestOn(got, on)
		if !ok {
			t.Errorf("no interest on %s", on)
			continue
		}
		if !tx.Amount.Equal(amount) {
			t.Errorf("interest on %s = %v, want %v", on, tx.Amount, amount)
		}
		if tx.Remarks != AutoInterestRemark || tx.Manual {
			t.Errorf("interest on %s = %+v, want a generated transaction", on, tx)
		}
	}
	if !got.Amount().Equal(M(100044.39)) {
		t.Errorf("Amount() = %v, want 100044.39", got.Amount())
	}
	if len(got.Transactions) != 4 {
		t.Errorf("got %d transactions, want 4", len(got.Transactions))
	}
	for i := 1; i < len(got.Transactions); i++ {
		if got.Transactions[i].Date.Before(got.Transactions[i-1].Date) {
			t.Errorf("transactions are not sorted by date: %v", got.Transactions)
		}
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	a := newTestAccount(
		SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(50000)},
		SavingsTx{ID: "w1", Date: date.MustParse("2024-01-20"), Type: Withdraw, Amount: M(12000)},
		SavingsTx{ID: "m1", Date: date.MustParse("2024-02-02"), Type: MonniesRedeemed, Amount: M(250)},
	)
	today := date.MustParse("2024-03-01")

	first, _ := a.Simulate(today)
	second, changed := first.Simulate(today)
	if changed {
		t.Errorf("second Simulate() reported a change")
	}
	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Errorf("second Simulate() changed the account\nfirst:  %s\nsecond: %s", b1, b2)
	}
}

func TestSimulate_SoftDeletedInterestIsNotRegenerated(t *testing.T) {
	a := newTestAccount(SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(100000)})
	today := date.MustParse("2024-01-03")
	a, _ = a.Simulate(today)

	tx, _ := interestOn(a, "2024-01-02")
	a, err := a.DeleteTransaction(tx.ID)
	if err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	deleted, _ := interestOn(a, "2024-01-02")
	if !deleted.Amount.IsZero() || !deleted.Manual {
		t.Fatalf("soft deleted interest = %+v, want amount 0 and manual", deleted)
	}

	a, _ = a.Simulate(today)
	deleted, _ = interestOn(a, "2024-01-02")
	if !deleted.Amount.IsZero() {
		t.Errorf("Simulate() regenerated interest %v on a soft deleted day", deleted.Amount)
	}
	if !a.Amount().Equal(M(100029.59)) {
		t.Errorf("Amount() = %v, want 100029.59", a.Amount())
	}
}

func TestSimulate_Reconciliation(t *testing.T) {
	deposit := SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(100000)}

	testCases := []struct {
		name     string
		existing SavingsTx
		want     Money
		changed  bool
	}{
		{
			name:     "drifted generated interest is corrected",
			existing: SavingsTx{ID: "i1", Date: deposit.Date, Type: Interest, Amount: M(20)},
			want:     M(14.79),
			changed:  true,
		},
		{
			name:     "generated interest within tolerance is kept",
			existing: SavingsTx{ID: "i1", Date: deposit.Date, Type: Interest, Amount: M(14.794)},
			want:     M(14.794),
			changed:  false,
		},
		{
			name:     "manual interest is kept verbatim",
			existing: SavingsTx{ID: "i1", Date: deposit.Date, Type: Interest, Amount: M(99), Manual: true},
			want:     M(99),
			changed:  false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAccount(deposit, tc.existing).Recalculate()
			got, changed := a.Simulate(deposit.Date)
			if changed != tc.changed {
				t.Errorf("Simulate() changed = %v, want %v", changed, tc.changed)
			}
			tx, ok := interestOn(got, "2024-01-01")
			if !ok {
				t.Fatalf("interest transaction disappeared")
			}
			if tx.ID != "i1" {
				t.Errorf("interest id = %q, want the existing one", tx.ID)
			}
			if !tx.Amount.Equal(tc.want) {
				t.Errorf("interest = %v, want %v", tx.Amount, tc.want)
			}
		})
	}
}

func TestSimulate_NoInterestOnEmptyBalance(t *testing.T) {
	a := newTestAccount(
		SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(1000)},
		SavingsTx{ID: "w1", Date: date.MustParse("2024-01-01"), Type: Withdraw, Amount: M(1000)},
	)
	got, _ := a.Simulate(date.MustParse("2024-01-10"))
	for _, tx := range got.Transactions {
		if tx.Type == Interest {
			t.Errorf("unexpected interest %+v on an empty balance", tx)
		}
	}
}

func TestSimulate_SmallBalanceBelowTolerance(t *testing.T) {
	// 10 * 5.4% / 365 = 0.0015, rounded to 0.00.
	a := newTestAccount(SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(10)})
	got, _ := a.Simulate(date.MustParse("2024-01-05"))
	if len(got.Transactions) != 1 {
		t.Errorf("Simulate() created %d transactions for a tiny balance, want none", len(got.Transactions)-1)
	}
}

func TestSavingsAccount_BalanceInvariant(t *testing.T) {
	a := newTestAccount(
		SavingsTx{ID: "d1", Date: date.MustParse("2024-01-01"), Type: Deposit, Amount: M(5000)},
		SavingsTx{ID: "w1", Date: date.MustParse("2024-01-03"), Type: Withdraw, Amount: M(1200)},
		SavingsTx{ID: "m1", Date: date.MustParse("2024-01-04"), Type: MonniesRedeemed, Amount: M(30)},
		SavingsTx{ID: "x1", Date: date.Invalid("someday"), Type: Deposit, Amount: M(70)},
	)
	check := func(step string, a SavingsAccount) {
		t.Helper()
		var credits, debits Money
		for _, tx := range a.Transactions {
			switch tx.Type {
			case Deposit, Interest, MonniesRedeemed:
				credits = credits.Add(tx.Amount)
			case Withdraw:
				debits = debits.Add(tx.Amount)
			}
		}
		if want := credits.Sub(debits); !a.Amount().Equal(want) {
			t.Errorf("%s: Amount() = %v, want %v", step, a.Amount(), want)
		}
	}

	a, _ = a.Simulate(date.MustParse("2024-02-01"))
	check("simulate", a)
	a = a.UpsertTransaction(SavingsTx{ID: "w1", Date: date.MustParse("2024-01-03"), Type: Withdraw, Amount: M(200)})
	check("upsert", a)
	a, err := a.DeleteTransaction("m1")
	if err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	check("delete", a)
	if _, err := a.DeleteTransaction("nope"); err == nil {
		t.Errorf("DeleteTransaction() of an unknown id should fail")
	}
}

func TestSavingsAccount_UpsertInterestIsManual(t *testing.T) {
	a := newTestAccount().UpsertTransaction(SavingsTx{ID: "i1", Date: date.MustParse("2024-01-01"), Type: Interest, Amount: M(3)})
	if tx := a.Transactions[0]; !tx.Manual || tx.Origin() != ManualOverride {
		t.Errorf("edited interest = %+v, want a manual override", tx)
	}
}

func TestSavingsAccount_Rate(t *testing.T) {
	if got := (SavingsAccount{}).Rate(); got != DefaultSavingsRate {
		t.Errorf("Rate() = %v, want default %v", got, DefaultSavingsRate)
	}
}

func TestSavingsAccount_JSON(t *testing.T) {
	in := `{"id":17,"title":"Joint","interestRate":"3.5","transactions":[{"id":1,"date":"05-01-2024","type":"deposit","amount":"1000"},{"id":"i","date":"2024-01-06","type":"interest","amount":0,"isManual":true}],"amount":1000,"bank":"SBI"}`
	var a SavingsAccount
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if a.ID != "17" || a.InterestRate != 3.5 || len(a.Transactions) != 2 {
		t.Fatalf("Unmarshal = %+v", a)
	}
	if !a.Transactions[1].Manual || a.Transactions[0].Date != date.MustParse("2024-01-05") {
		t.Errorf("transactions = %+v", a.Transactions)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, want := range []string{`"id":"17"`, `"bank":"SBI"`, `"isManual":true`, `"amount":1000`, `"date":"2024-01-05"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() = %s, missing %s", out, want)
		}
	}
}

func TestSavingsAccount_JSONNestedExtras(t *testing.T) {
	in := `{"id":1,"title":"Joint","transactions":[{"id":"d","date":"2024-01-05","type":"deposit","amount":1000,"category":"salary"}],"amount":1000,"category":"household"}`
	var a SavingsAccount
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	a = a.UpsertTransaction(SavingsTx{ID: "d", Date: date.MustParse("2024-01-05"), Type: Deposit, Amount: M(1500)})

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"id":"1","title":"Joint","transactions":[{"id":"d","date":"2024-01-05","type":"deposit","amount":1500,"category":"salary"}],"amount":1500,"category":"household"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
