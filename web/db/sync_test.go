package db

import "testing"

func TestDefaultPackageSeeds(t *testing.T) {
	seen := map[string]bool{}

	for _, seed := range defaultPackages {
		if seen[seed.Name] {
			t.Errorf("duplicate package name %q", seed.Name)
		}
		seen[seed.Name] = true

		if seed.Price <= 0 {
			t.Errorf("%s: price must be positive, got %d", seed.Name, seed.Price)
		}
		if seed.ActiveAmount < 0 || seed.PassiveAmount < 0 {
			t.Errorf("%s: commission amounts must be non-negative", seed.Name)
		}
		if seed.ActiveAmount+seed.PassiveAmount > seed.Price {
			t.Errorf("%s: commissions %d+%d exceed price %d",
				seed.Name, seed.ActiveAmount, seed.PassiveAmount, seed.Price)
		}
	}

	if len(defaultPackages) != 6 {
		t.Errorf("expected 6 default packages, got %d", len(defaultPackages))
	}
}

func TestReferenceCommissionTable(t *testing.T) {
	want := map[string][2]int{
		"E-LITE":    {470, 50},
		"SILVER":    {1000, 100},
		"GOLD":      {2000, 250},
		"DIAMOND":   {3400, 400},
		"PLATINUM":  {6700, 800},
		"ULTRA PRO": {10000, 1100},
	}

	for _, seed := range defaultPackages {
		amounts, ok := want[seed.Name]
		if !ok {
			t.Errorf("unexpected package %q", seed.Name)
			continue
		}
		if seed.ActiveAmount != amounts[0] || seed.PassiveAmount != amounts[1] {
			t.Errorf("%s: expected %d/%d, got %d/%d",
				seed.Name, amounts[0], amounts[1], seed.ActiveAmount, seed.PassiveAmount)
		}
	}
}
