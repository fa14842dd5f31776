// Package kansuji converts the kanji numerals used in Japanese legal
// drafting (一, 二, …, 十, 百, 千) to and from integers, including the
// branch-number forms joined by の that statutes use for inserted articles
// (第三条の二 is article 3, branch 2).
package kansuji

import "strings"

var digits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

var units = map[rune]int{
	'十': 10, '百': 100, '千': 1000,
}

// ToInt parses a plain kanji numeral. It handles the positional unit rules
// of legal drafting: a unit with no preceding digit means one of that unit
// (十 = 10, 百十 = 110), a digit before a unit multiplies it (五百 = 500).
// Malformed input returns ok=false, never a panic.
func ToInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	total := 0
	current := 0  // pending digit awaiting a unit
	lastUnit := 0 // units must strictly decrease (千 before 百 before 十)

	for _, r := range s {
		if d, ok := digits[r]; ok {
			if current != 0 {
				// Two digits in a row (一二) never appears in drafting.
				return 0, false
			}
			current = d
		} else if u, ok := units[r]; ok {
			if lastUnit != 0 && u >= lastUnit {
				return 0, false
			}
			if current == 0 {
				current = 1
			}
			total += current * u
			current = 0
			lastUnit = u
		} else {
			return 0, false
		}
	}

	return total + current, true
}

// ParseInt parses a numeral in either form statutes use: ASCII digits
// (after width folding) or kanji.
func ParseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	ascii := true
	for _, r := range s {
		if r < '0' || r > '9' {
			ascii = false
			break
		}
	}
	if ascii {
		n := 0
		for _, r := range s {
			n = n*10 + int(r-'0')
			if n > 99999 {
				return 0, false
			}
		}
		return n, true
	}
	return ToInt(s)
}

// ToArticleNumber parses an article numeral that may carry branch numbers
// joined by の. The result encodes branches as fractional digits so that
// 三の二 (3.02) sorts after 三 (3.0) and before 四 without colliding with
// plain article numbers. Up to two branch levels are supported (三の二の二
// encodes as 3.0202).
func ToArticleNumber(s string) (float64, bool) {
	parts := strings.Split(s, "の")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	main, ok := ParseInt(parts[0])
	if !ok {
		return 0, false
	}
	value := float64(main)

	scale := 0.01
	for _, part := range parts[1:] {
		branch, ok := ParseInt(part)
		if !ok || branch == 0 || branch > 99 {
			return 0, false
		}
		value += float64(branch) * scale
		scale *= 0.01
	}

	return value, true
}

// Main returns the integer article number of an encoded article value,
// discarding branches.
func Main(n float64) int {
	return int(n)
}

// Branch returns the first branch number of an encoded article value, or
// zero when the value is a plain article number.
func Branch(n float64) int {
	return int(n*100+0.5) % 100
}

// FromInt renders an integer (0–9999) as a kanji numeral in drafting style:
// no digit before a lone unit multiplier of one (10 → 十, 110 → 百十).
// Out-of-range input returns the empty string.
func FromInt(n int) string {
	if n < 0 || n > 9999 {
		return ""
	}
	if n == 0 {
		return "〇"
	}

	digitRunes := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

	var b strings.Builder
	writeUnit := func(value int, unit string) int {
		d := 0
		switch unit {
		case "千":
			d = value / 1000
			value %= 1000
		case "百":
			d = value / 100
			value %= 100
		case "十":
			d = value / 10
			value %= 10
		}
		if d > 0 {
			if d > 1 {
				b.WriteString(digitRunes[d])
			}
			b.WriteString(unit)
		}
		return value
	}

	n = writeUnit(n, "千")
	n = writeUnit(n, "百")
	n = writeUnit(n, "十")
	if n > 0 {
		b.WriteString(digitRunes[n])
	}
	return b.String()
}

// FormatArticle renders an encoded article value back to its drafting form,
// e.g. 3.02 → 三の二.
func FormatArticle(n float64) string {
	main := Main(n)
	branch := Branch(n)
	second := int(n*10000+0.5) % 100

	s := FromInt(main)
	if branch > 0 {
		s += "の" + FromInt(branch)
	}
	if second > 0 {
		s += "の" + FromInt(second)
	}
	return s
}
