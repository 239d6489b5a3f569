package scorer

import (
	"strings"

	"github.com/formsender/core/internal/models"
)

// kanaLikeTokens mark an element as "kana-like" regardless of which kana
// system, per SPEC_FULL.md §4.6 step 1.
var kanaLikeTokens = []string{
	"kana", "katakana", "hiragana", "furigana", "ruby",
	"ルビ", "カナ", "カタカナ", "フリガナ", "ふりがな", "ひらがな", "読み", "よみ", "ｶﾅ", "ﾌﾘｶﾞﾅ",
}

var hiraganaOnlyTokens = []string{"hiragana", "ひらがな", "せい", "めい"}
var katakanaOnlyTokens = []string{"katakana", "カタカナ", "フリガナ"}

var seiTokens = []string{"sei", "姓", "セイ"}
var meiTokens = []string{"mei", "名", "メイ"}

func attrBlob(el models.ElementDescriptor) string {
	return strings.ToLower(el.Name + " " + el.ID + " " + el.Class + " " + el.Placeholder)
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func isKanaLikeElement(el models.ElementDescriptor) bool {
	return containsAny(attrBlob(el), kanaLikeTokens)
}

func isHiraganaOnlyElement(el models.ElementDescriptor) bool {
	return containsAny(attrBlob(el), hiraganaOnlyTokens)
}

func isKatakanaOnlyElement(el models.ElementDescriptor) bool {
	return containsAny(attrBlob(el), katakanaOnlyTokens)
}

func hasSeiHint(el models.ElementDescriptor) bool {
	return containsAny(attrBlob(el), seiTokens)
}

func hasMeiHint(el models.ElementDescriptor) bool {
	return containsAny(attrBlob(el), meiTokens)
}

// applyKanaGuard implements step 1 of SPEC_FULL.md §4.6: excludes elements
// whose attributes mark them kana-like when the target field is not a kana
// field, and enforces the hiragana/katakana distinction for kana fields.
func applyKanaGuard(el models.ElementDescriptor, field models.LogicalField) (excluded bool, reason string) {
	if isKanaLikeElement(el) && !field.IsKana() {
		return true, "kana_like_element_non_kana_field"
	}
	if strings.HasSuffix(field.Name, "_kana") && isHiraganaOnlyElement(el) {
		return true, "hiragana_element_katakana_field"
	}
	if strings.HasSuffix(field.Name, "_hiragana") && isKatakanaOnlyElement(el) {
		return true, "katakana_element_hiragana_field"
	}
	return false, ""
}

// applySplitUnifiedGuard implements step 2: split sei/mei hints must not be
// claimed by a unified field, and last/first name fields must not claim the
// opposite half's hinted element.
func applySplitUnifiedGuard(el models.ElementDescriptor, field models.LogicalField) (excluded bool, reason string) {
	sei := hasSeiHint(el)
	mei := hasMeiHint(el)
	if !sei && !mei {
		return false, ""
	}

	isUnified := strings.HasPrefix(field.Name, "unified_full_name")
	if isUnified && (sei || mei) {
		return true, "split_hint_on_unified_field"
	}

	switch field.Name {
	case "last_name", "last_name_kana", "last_name_hiragana":
		if mei && !sei {
			return true, "mei_hinted_element_on_last_name_field"
		}
	case "first_name", "first_name_kana", "first_name_hiragana":
		if sei && !mei {
			return true, "sei_hinted_element_on_first_name_field"
		}
	}

	return false, ""
}
