package kansuji

// irohaOrder is the traditional ordering used for item sub-divisions
// (イ, ロ, ハ, …) in statutory drafting.
var irohaOrder = []rune("イロハニホヘトチリヌルヲワカヨタレソツネナラムウヰノオクヤマケフコエテアサキユメミシヱヒモセス")

var irohaIndex = func() map[rune]int {
	m := make(map[rune]int, len(irohaOrder))
	for i, r := range irohaOrder {
		m[r] = i + 1
	}
	return m
}()

// IrohaToInt returns the 1-based position of an iroha letter (イ → 1).
func IrohaToInt(s string) (int, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	i, ok := irohaIndex[runes[0]]
	return i, ok
}

// IrohaFromInt returns the iroha letter at a 1-based position.
func IrohaFromInt(n int) (string, bool) {
	if n < 1 || n > len(irohaOrder) {
		return "", false
	}
	return string(irohaOrder[n-1]), true
}
