package money

import (
	"testing"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		input   string
		want    int64
		wantErr error
	}{
		{"100.00", 10000, nil},
		{"100", 10000, nil},
		{"0.5", 50, nil},
		{"0.05", 5, nil},
		{".75", 75, nil},
		{"-12.34", -1234, nil},
		{"+3", 300, nil},
		{"", 0, ErrInvalidAmount},
		{"abc", 0, ErrInvalidAmount},
		{"1.2.3", 0, ErrTooManyDecimals},
		{"1.234", 0, ErrTooManyDecimals},
		{"1,00", 0, ErrInvalidAmount},
		{"92233720368547758.07", 9223372036854775807, nil},
		{"92233720368547758.08", 0, ErrInvalidAmount},
		{"200000000000000000.00", 0, ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.input)
		if err != tc.wantErr {
			t.Fatalf("ParseMinor(%q): expected error %v, got %v", tc.input, tc.wantErr, err)
		}
		if err == nil && got != tc.want {
			t.Fatalf("ParseMinor(%q): expected %d, got %d", tc.input, tc.want, got)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := map[int64]string{
		10000: "100.00",
		5:     "0.05",
		50:    "0.50",
		-1234: "-12.34",
		0:     "0.00",
	}
	for input, want := range cases {
		if got := FormatMinor(input); got != want {
			t.Fatalf("FormatMinor(%d): expected %q, got %q", input, want, got)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, value := range []int64{0, 1, 99, 100, 12345, 1000000} {
		parsed, err := ParseMinor(FormatMinor(value))
		if err != nil {
			t.Fatalf("round trip %d: %v", value, err)
		}
		if parsed != value {
			t.Fatalf("round trip %d: got %d", value, parsed)
		}
	}
}

func TestPercentOf(t *testing.T) {
	if got := PercentOf(100000, 5); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}
	if got := PercentOf(50000, 10); got != 5000 {
		t.Fatalf("expected 5000, got %d", got)
	}
	// 10% of 0.05 is 0.005, bankers-rounded to 0.00
	if got := PercentOf(5, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := PercentOf(15, 10); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestSplitRevenueConservesAmount(t *testing.T) {
	for amount := int64(1); amount < 10000; amount++ {
		fee, payout := SplitRevenue(amount, 10)
		if fee+payout != amount {
			t.Fatalf("split of %d leaks: fee=%d payout=%d", amount, fee, payout)
		}
		if fee < 0 || payout < 0 {
			t.Fatalf("split of %d negative: fee=%d payout=%d", amount, fee, payout)
		}
	}
}

func TestSplitRevenueTenPercent(t *testing.T) {
	fee, payout := SplitRevenue(50000, 10)
	if fee != 5000 || payout != 45000 {
		t.Fatalf("expected 5000/45000, got %d/%d", fee, payout)
	}
}
