package unmapped

import "strings"

// choicePriorityTiers implements the 3-tier checkbox/radio choice priority
// named in SPEC_FULL.md §4.8: tier 1 wins over tier 2 over tier 3.
var choicePriorityTiers = [][]string{
	{"営業", "提案", "メール", "法人"},
	{"その他"},
	{"問い合わせ", "問合"},
}

var consentTokens = []string{"同意", "agree", "承諾"}

var consentGroupTokens = []string{"consent", "policy", "privacy", "terms", "同意", "プライバシー", "個人情報", "規約"}

var contactMethodGroupTokens = []string{"連絡方法", "preferred contact", "contact method", "希望連絡方法"}

var emailOptionTokens = []string{"email", "mail", "メール"}

var maleTokens = []string{"male", "man", "男性", "男"}
var femaleTokens = []string{"female", "woman", "女性", "女"}

var corporateTokens = []string{"法人", "company", "corporate"}
var individualTokens = []string{"個人", "personal", "individual"}

var inquirySelectTokens = []string{"purpose", "inquiry", "category", "subject", "topic", "件名", "お問い合わせ種別", "お問い合わせ内容"}
var inquiryOtherTokens = []string{"その他"}
var inquiryGenericTokens = []string{"問い合わせ", "問合"}

var placeholderOptionTokens = []string{"選択してください", "please select", "---", "未選択"}

var faxTokens = []string{"fax", "ＦＡＸ", "facsimile"}

var departmentTokens = []string{"department", "div", "部署", "部署名"}
var prefectureAttrTokens = []string{"pref", "prefecture", "都道府県"}

var emailConfirmTokens = []string{"confirm", "re_email", "email2", "mail2", "確認", "再入力"}

var excludedFromRequiredRescue = []string{"email", "confirm", "auth", "captcha"}

func containsAnyFold(haystack string, tokens []string) bool {
	lower := strings.ToLower(haystack)
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// prefectureSuffixed reports whether text looks like a Japanese prefecture
// name (ends in 都/道/府/県, short).
func prefectureSuffixed(text string) bool {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) < 2 || len(runes) > 6 {
		return false
	}
	last := runes[len(runes)-1]
	return last == '都' || last == '道' || last == '府' || last == '県'
}

// choicePriorityIndex returns the tier index (0 = highest) the given option
// text matches, or -1 if it matches no tier.
func choicePriorityIndex(text string) int {
	for i, tier := range choicePriorityTiers {
		if containsAnyFold(text, tier) {
			return i
		}
	}
	return -1
}
