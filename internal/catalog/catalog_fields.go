package catalog

import "github.com/formsender/core/internal/models"

// rawFields is the declarative catalog data, representative of the ~26
// logical fields named in SPEC_FULL.md §4.2. Weights match the spec
// verbatim; patterns are the lexical signals internal/scorer consults.
//
// "unified_postal" intentionally appears twice (weights 12 and 8) to
// reproduce the source catalog's normalization collision named in
// SPEC_FULL.md §9 — catalog.build resolves it by keeping the larger weight.
func rawFields() []models.LogicalField {
	return []models.LogicalField{
		{
			Name:                "unified_full_name",
			Weight:              26,
			NamePatterns:        []string{"name", "fullname", "full_name", "お名前", "氏名", "御名前"},
			IDPatterns:          []string{"name", "fullname"},
			ClassPatterns:       []string{"name", "fullname"},
			PlaceholderPatterns: []string{"山田太郎", "お名前"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"氏名", "お名前"},
			ExcludePatterns:     []string{"kana", "カナ", "ふりがな", "company", "会社", "sei", "mei", "last", "first"},
		},
		{
			Name:                "company_name",
			Weight:              25,
			NamePatterns:        []string{"company", "corp", "organization", "会社名", "法人名", "御社名", "貴社名", "所属"},
			IDPatterns:          []string{"company", "corp"},
			ClassPatterns:       []string{"company"},
			PlaceholderPatterns: []string{"株式会社◯◯", "会社名"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"会社名", "法人名", "貴社名"},
			ExcludePatterns: []string{
				"kana", "カナ", "ふりがな", "furigana",
				"last_name", "first_name", "姓", "名前",
				"management_company", "管理会社", "竣工", "年月日",
				"email_confirm", "confirm",
			},
		},
		{
			Name:                "last_name",
			Weight:              24,
			NamePatterns:        []string{"last_name", "lastname", "sei", "family_name", "姓"},
			IDPatterns:          []string{"last_name", "sei", "family_name"},
			ClassPatterns:       []string{"last-name", "sei"},
			PlaceholderPatterns: []string{"山田", "姓"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"姓", "sei"},
			ExcludePatterns:     []string{"kana", "カナ", "ふりがな", "company", "会社名", "mei", "first_name", "名"},
		},
		{
			Name:                "first_name",
			Weight:              23,
			NamePatterns:        []string{"first_name", "firstname", "mei", "given_name", "名"},
			IDPatterns:          []string{"first_name", "mei", "given_name"},
			ClassPatterns:       []string{"first-name", "mei"},
			PlaceholderPatterns: []string{"太郎", "名"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"名", "mei"},
			ExcludePatterns:     []string{"kana", "カナ", "ふりがな", "company", "会社名", "sei", "last_name", "姓"},
		},
		{
			Name:                "message_body",
			Weight:              20,
			NamePatterns:        []string{"message", "inquiry", "body", "content", "お問い合わせ内容", "ご意見", "ご要望"},
			IDPatterns:          []string{"message", "inquiry", "content"},
			ClassPatterns:       []string{"message", "textarea"},
			PlaceholderPatterns: []string{"お問い合わせ内容をご記入ください"},
			AllowedTags:         []string{"textarea", "input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"お問い合わせ内容", "メッセージ"},
			ExcludePatterns:     []string{"subject", "件名", "confirm"},
		},
		{
			Name:                "subject",
			Weight:              19,
			NamePatterns:        []string{"subject", "title", "件名", "題名", "用件"},
			IDPatterns:          []string{"subject", "title"},
			ClassPatterns:       []string{"subject"},
			PlaceholderPatterns: []string{"件名"},
			AllowedTags:         []string{"input", "select"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"件名", "用件"},
			ExcludePatterns:     []string{"message", "body"},
		},
		{
			Name:                "last_name_kana",
			Weight:              18,
			NamePatterns:        []string{"sei_kana", "last_name_kana", "姓カナ", "セイ"},
			IDPatterns:          []string{"sei_kana"},
			ClassPatterns:       []string{"kana"},
			PlaceholderPatterns: []string{"ヤマダ"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"セイ", "姓カナ"},
			ExcludePatterns:     []string{"hiragana", "ひらがな", "mei", "first_name"},
			KanaIndicator:       []string{"kana", "カナ", "セイ"},
		},
		{
			Name:                "unified_full_name_kana",
			Weight:              18,
			NamePatterns:        []string{"kana", "furigana", "統合氏名カナ", "フリガナ", "ふりがな"},
			IDPatterns:          []string{"kana", "furigana"},
			ClassPatterns:       []string{"kana", "furigana"},
			PlaceholderPatterns: []string{"ヤマダ タロウ"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"フリガナ", "ふりがな"},
			ExcludePatterns: []string{
				"company", "会社", "postal", "郵便番号", "phone", "tel", "email", "captcha",
				"last", "first", "sei", "mei",
			},
			KanaIndicator: []string{"kana", "カナ", "フリガナ", "ふりがな", "furigana"},
		},
		{
			Name:                "unified_phone",
			Weight:              15,
			NamePatterns:        []string{"tel", "phone", "電話番号", "電話"},
			IDPatterns:          []string{"tel", "phone"},
			ClassPatterns:       []string{"tel", "phone"},
			PlaceholderPatterns: []string{"090-1234-5678"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"tel", "text", ""},
			StrictPatterns:      []string{"電話番号"},
			ExcludePatterns:     []string{"fax", "FAX"},
		},
		{
			Name:                "prefecture",
			Weight:              14,
			NamePatterns:        []string{"pref", "prefecture", "都道府県"},
			IDPatterns:          []string{"pref", "prefecture"},
			ClassPatterns:       []string{"pref"},
			AllowedTags:         []string{"select", "input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"都道府県"},
		},
		{
			Name:                "address",
			Weight:              13,
			NamePatterns:        []string{"address", "住所", "ご住所"},
			IDPatterns:          []string{"address"},
			ClassPatterns:       []string{"address"},
			PlaceholderPatterns: []string{"東京都千代田区..."},
			AllowedTags:         []string{"input", "textarea"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"住所"},
			ExcludePatterns:     []string{"email", "mail"},
		},
		{
			Name:                "phone_1",
			Weight:              12,
			NamePatterns:        []string{"tel1", "phone1", "tel_1", "電話1"},
			IDPatterns:          []string{"tel1", "phone1"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"tel", "text", ""},
		},
		{
			Name:                "phone_2",
			Weight:              12,
			NamePatterns:        []string{"tel2", "phone2", "tel_2", "電話2"},
			IDPatterns:          []string{"tel2", "phone2"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"tel", "text", ""},
		},
		{
			Name:                "phone_3",
			Weight:              12,
			NamePatterns:        []string{"tel3", "phone3", "tel_3", "電話3"},
			IDPatterns:          []string{"tel3", "phone3"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"tel", "text", ""},
		},
		{
			Name:                "postal_1",
			Weight:              12,
			NamePatterns:        []string{"zip1", "postal1", "郵便番号1", "郵便番号（上3桁）"},
			IDPatterns:          []string{"zip1", "postal1"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
		},
		{
			Name:                "postal_2",
			Weight:              12,
			NamePatterns:        []string{"zip2", "postal2", "郵便番号2", "郵便番号（下4桁）"},
			IDPatterns:          []string{"zip2", "postal2"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
		},
		{
			Name:                "company_name_kana",
			Weight:              12,
			NamePatterns:        []string{"company_kana", "会社名カナ", "会社名フリガナ"},
			IDPatterns:          []string{"company_kana"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			KanaIndicator:       []string{"kana", "カナ", "フリガナ"},
			ExcludePatterns:     []string{"last", "first", "sei", "mei"},
		},
		// Duplicate (pre-resolution) "unified_postal" — reproduces the
		// source catalog's normalization collision. The weight-8 entry is
		// dropped by catalog.build, which keeps weight 12.
		{
			Name:                "unified_postal",
			Weight:              12,
			NamePatterns:        []string{"zip", "postal", "郵便番号"},
			IDPatterns:          []string{"zip", "postal"},
			PlaceholderPatterns: []string{"123-4567"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"郵便番号"},
		},
		{
			Name:                "unified_postal",
			Weight:              8,
			NamePatterns:        []string{"postcode", "郵便番号"},
			IDPatterns:          []string{"postcode"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
		},
		{
			Name:                "email",
			Weight:              22,
			NamePatterns:        []string{"email", "mail", "メールアドレス", "Eメール"},
			IDPatterns:          []string{"email", "mail"},
			ClassPatterns:       []string{"email"},
			PlaceholderPatterns: []string{"example@example.com"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"email", "text", ""},
			StrictPatterns:      []string{"メールアドレス", "email"},
			ExcludePatterns:     []string{"confirm", "re_email", "email2", "mail2"},
		},
		{
			Name:                "position",
			Weight:              11,
			NamePatterns:        []string{"position", "title", "役職"},
			IDPatterns:          []string{"position"},
			AllowedTags:         []string{"input", "select"},
			AllowedTypes:        []string{"text", ""},
		},
		{
			Name:                "last_name_hiragana",
			Weight:              10,
			NamePatterns:        []string{"sei_hiragana", "せい", "ひらがな姓"},
			IDPatterns:          []string{"sei_hiragana"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			KanaIndicator:       []string{"hiragana", "ひらがな", "せい"},
			ExcludePatterns:     []string{"katakana", "カナ", "mei", "first_name"},
		},
		{
			Name:                "first_name_hiragana",
			Weight:              10,
			NamePatterns:        []string{"mei_hiragana", "めい", "ひらがな名"},
			IDPatterns:          []string{"mei_hiragana"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			KanaIndicator:       []string{"hiragana", "ひらがな", "めい"},
			ExcludePatterns:     []string{"katakana", "カナ", "sei", "last_name"},
		},
		{
			Name:                "gender",
			Weight:              9,
			NamePatterns:        []string{"gender", "sex", "性別"},
			IDPatterns:          []string{"gender"},
			AllowedTags:         []string{"select", "input"},
			AllowedTypes:        []string{"radio", "text", ""},
		},
		{
			Name:                "department",
			Weight:              8,
			NamePatterns:        []string{"department", "div", "部署", "部署名"},
			IDPatterns:          []string{"department"},
			AllowedTags:         []string{"input", "select"},
			AllowedTypes:        []string{"text", ""},
		},
		{
			Name:                "first_name_kana",
			Weight:              12,
			NamePatterns:        []string{"mei_kana", "first_name_kana", "名カナ", "メイ"},
			IDPatterns:          []string{"mei_kana"},
			ClassPatterns:       []string{"kana"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"text", ""},
			StrictPatterns:      []string{"メイ", "名カナ"},
			ExcludePatterns:     []string{"hiragana", "ひらがな", "sei", "last_name"},
			KanaIndicator:       []string{"kana", "カナ", "メイ"},
		},
		{
			Name:                "website_url",
			Weight:              7,
			NamePatterns:        []string{"url", "website", "homepage", "ホームページ", "URL"},
			IDPatterns:          []string{"url", "website"},
			AllowedTags:         []string{"input"},
			AllowedTypes:        []string{"url", "text", ""},
		},
	}
}
