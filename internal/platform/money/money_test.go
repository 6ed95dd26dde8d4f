package money

import "testing"

func TestApplyBasisPoints_Escalation(t *testing.T) {
	first := FromDollars(20_000_000)

	second := ApplyBasisPoints(first, 12000)
	if second != FromDollars(24_000_000) {
		t.Fatalf("120%% of $20M: got %s", second)
	}

	third := ApplyBasisPoints(first, 14400)
	if third != FromDollars(28_800_000) {
		t.Fatalf("144%% of $20M: got %s", third)
	}
}

func TestApplyBasisPoints_HalfEven(t *testing.T) {
	// 25 * 0.5 = 12.5 -> rounds to even 12; 35 * 0.5 = 17.5 -> rounds to 18.
	if got := ApplyBasisPoints(Cents(25), 5000); got != 12 {
		t.Fatalf("half-even down: got %d", got)
	}
	if got := ApplyBasisPoints(Cents(35), 5000); got != 18 {
		t.Fatalf("half-even up: got %d", got)
	}
}

func TestSplitEven_RemainderPreserved(t *testing.T) {
	per, rem := SplitEven(Cents(1003), 4)
	if per != 250 || rem != 3 {
		t.Fatalf("split 1003/4: per=%d rem=%d", per, rem)
	}
	if per*4+rem != 1003 {
		t.Fatalf("split does not conserve total")
	}

	per, rem = SplitEven(Cents(100), 0)
	if per != 0 || rem != 100 {
		t.Fatalf("split by zero slots: per=%d rem=%d", per, rem)
	}
}

func TestString(t *testing.T) {
	if got := FromDollars(6_250_000).String(); got != "$6250000.00" {
		t.Fatalf("format: got %s", got)
	}
	if got := Cents(-150).String(); got != "-$1.50" {
		t.Fatalf("negative format: got %s", got)
	}
}
