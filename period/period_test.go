package period

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Period
	}{
		{"3M", Period{3, Months}},
		{"10Y", Period{10, Years}},
		{"2W", Period{2, Weeks}},
		{"1D", Period{1, Days}},
		{"-6M", Period{-6, Months}},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "3", "M3", "3X"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q): expected error", in)
		}
	}
}

func TestAddToClampsMonthEnd(t *testing.T) {
	t.Parallel()

	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := Period{1, Months}.AddTo(jan31)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("1M from %s = %s, want %s", jan31.Format("2006-01-02"), got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestAddToYears(t *testing.T) {
	t.Parallel()
	d := time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)
	got := Period{1, Years}.AddTo(d)
	want := time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("1Y from %s = %s, want %s", d.Format("2006-01-02"), got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestNegateAndSubtractFrom(t *testing.T) {
	t.Parallel()
	d := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	p := Period{1, Months}
	if got := p.SubtractFrom(d); !got.Equal(p.Negate().AddTo(d)) {
		t.Fatalf("SubtractFrom inconsistent with Negate().AddTo(): got %s", got.Format("2006-01-02"))
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	if got := (Period{3, Months}).String(); got != "3M" {
		t.Fatalf("String() = %q, want %q", got, "3M")
	}
}
