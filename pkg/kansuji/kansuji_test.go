package kansuji

import "testing"

func TestToInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"一", 1, true},
		{"九", 9, true},
		{"十", 10, true},
		{"十一", 11, true},
		{"二十三", 23, true},
		{"百", 100, true},
		{"百十", 110, true},
		{"三百", 300, true},
		{"五百六十六", 566, true},
		{"千", 1000, true},
		{"千二百三十四", 1234, true},
		{"九百九十九", 999, true},
		{"", 0, false},
		{"あ", 0, false},
		{"一二", 0, false},   // two digits in a row
		{"十千", 0, false},   // units out of order
		{"百百", 0, false},   // repeated unit
		{"第三条", 0, false}, // mixed non-numeral runes
	}

	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		if ok != tt.ok {
			t.Errorf("ToInt(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"90", 90, true},
		{"1050", 1050, true},
		{"九十", 90, true},
		{"90a", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseInt(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseInt(%q) = (%d,%v), want (%d,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToArticleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"三", 3, true},
		{"三の二", 3.02, true},
		{"十二の三", 12.03, true},
		{"三の二の二", 3.0202, true},
		{"の二", 0, false},
		{"三の", 0, false},
		{"三の二の二の二", 0, false},
	}

	for _, tt := range tests {
		got, ok := ToArticleNumber(tt.in)
		if ok != tt.ok {
			t.Errorf("ToArticleNumber(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ToArticleNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBranchEncodingDistinct(t *testing.T) {
	plain, _ := ToArticleNumber("三")
	branched, _ := ToArticleNumber("三の二")
	next, _ := ToArticleNumber("四")

	if plain >= branched {
		t.Errorf("三 (%v) should sort before 三の二 (%v)", plain, branched)
	}
	if branched >= next {
		t.Errorf("三の二 (%v) should sort before 四 (%v)", branched, next)
	}
}

func TestFromInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{1, "一"},
		{10, "十"},
		{11, "十一"},
		{23, "二十三"},
		{100, "百"},
		{110, "百十"},
		{566, "五百六十六"},
		{1050, "千五十"},
		{0, "〇"},
		{-1, ""},
		{10000, ""},
	}

	for _, tt := range tests {
		if got := FromInt(tt.in); got != tt.want {
			t.Errorf("FromInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 1; n <= 2000; n++ {
		s := FromInt(n)
		got, ok := ToInt(s)
		if !ok || got != n {
			t.Fatalf("round trip failed for %d: FromInt=%q ToInt=(%d,%v)", n, s, got, ok)
		}
	}
}

func TestFormatArticle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"三", "三"},
		{"三の二", "三の二"},
		{"十二の三", "十二の三"},
		{"三の二の二", "三の二の二"},
	}

	for _, tt := range tests {
		n, ok := ToArticleNumber(tt.in)
		if !ok {
			t.Fatalf("ToArticleNumber(%q) failed", tt.in)
		}
		if got := FormatArticle(n); got != tt.want {
			t.Errorf("FormatArticle(%v) = %q, want %q", n, got, tt.want)
		}
	}
}

func TestIroha(t *testing.T) {
	n, ok := IrohaToInt("イ")
	if !ok || n != 1 {
		t.Errorf("IrohaToInt(イ) = (%d,%v), want (1,true)", n, ok)
	}
	n, ok = IrohaToInt("ホ")
	if !ok || n != 5 {
		t.Errorf("IrohaToInt(ホ) = (%d,%v), want (5,true)", n, ok)
	}
	if _, ok := IrohaToInt("x"); ok {
		t.Error("IrohaToInt(x) should fail")
	}

	s, ok := IrohaFromInt(3)
	if !ok || s != "ハ" {
		t.Errorf("IrohaFromInt(3) = (%q,%v), want (ハ,true)", s, ok)
	}
}
