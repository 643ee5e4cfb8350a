package utils

import "testing"

func TestSalaryAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1000 сом", 1000},
		{"25000-30000 сом", 25000}, // 区间只取第一段数字
		{"договорная", 0},
		{"", 0},
		{"от 500 сом в час", 500},
		{"3000", 3000},
	}
	for _, tc := range cases {
		if got := SalaryAmount(tc.in); got != tc.want {
			t.Errorf("SalaryAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("ids collide")
	}
	if len(a) != 32 {
		t.Fatalf("id length = %d, want 32", len(a))
	}
}
