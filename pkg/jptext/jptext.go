// Package jptext provides the text normalization and rune-aware windowing
// helpers the matching pipeline relies on.
package jptext

import (
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Normalize folds character widths to their canonical forms: full-width
// ASCII variants (１２３, ＡＢＣ, （）) become regular ASCII and half-width
// katakana becomes full-width. Pattern rules are written against this
// canonical form, so every text must pass through here before matching.
// All spans reported by the pipeline refer to the normalized text.
func Normalize(s string) string {
	return width.Fold.String(s)
}

// Window returns the substring of text covering up to radius runes on each
// side of the byte span [start,end). Offsets are snapped to rune boundaries;
// out-of-range spans are clamped.
func Window(text string, start, end, radius int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}

	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		if size == 0 {
			break
		}
		lo -= size
	}

	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		if size == 0 {
			break
		}
		hi += size
	}

	return text[lo:hi]
}

// RuneLen counts the runes in s. Size cutoffs in the pipeline are expressed
// in runes, not bytes, so a kanji-heavy text is not penalized threefold.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
