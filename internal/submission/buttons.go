package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/formsender/core/internal/browser"
)

// ButtonKind classifies a located submit control per SPEC_FULL.md §4.10's
// "branch on button type" step.
type ButtonKind string

const (
	ButtonSubmit       ButtonKind = "submit"
	ButtonConfirmation ButtonKind = "confirmation"
)

// Keywords is the shared button/consent keyword catalog, overridable via
// internal/config for sites that use unusual vocabulary.
type Keywords struct {
	Primary      []string
	Secondary    []string
	Confirmation []string
	Exclusion    []string
	Consent      []string
}

// DefaultKeywords matches the catalog named in SPEC_FULL.md §4.10.
func DefaultKeywords() Keywords {
	return Keywords{
		Primary:      []string{"送信", "送る", "submit", "send"},
		Secondary:    []string{"完了", "確定", "実行", "登録"},
		Confirmation: []string{"確認", "次", "進む", "review"},
		Exclusion:    []string{"キャンセル", "cancel", "戻る", "back", "リセット", "reset", "クリア", "検索", "ログイン"},
		Consent:      []string{"同意", "agree", "consent", "privacy", "個人情報", "規約", "terms"},
	}
}

var buttonTags = []string{"button", "input[type=submit]", "input[type=button]", "a", "[role=button]"}

var fallbackSelectors = []string{"button[type=submit]", "input[type=submit]", "#submit", ".submit", "[name*=submit]"}

// locateButton finds the best submit control under the given keyword tiers,
// classifying it confirmation vs submit by which tier its text matched.
// narrowConfirmation disables the confirmation tier, used for the recursive
// lookup on a confirmation page per §4.10.
func locateButton(ctx context.Context, driver browser.Driver, kw Keywords, narrowConfirmation bool) (browser.Locator, ButtonKind, error) {
	tiers := []struct {
		words []string
		kind  ButtonKind
	}{
		{kw.Primary, ButtonSubmit},
		{kw.Secondary, ButtonSubmit},
	}
	if !narrowConfirmation {
		tiers = append(tiers, struct {
			words []string
			kind  ButtonKind
		}{kw.Confirmation, ButtonConfirmation})
	}

	for _, tier := range tiers {
		for _, tag := range buttonTags {
			for _, word := range tier.words {
				loc := driver.ElementByText(tag, word)
				count, err := loc.Count(ctx)
				if err != nil || count == 0 {
					continue
				}
				text, _ := loc.TextContent(ctx)
				if isExcludedButtonText(text, kw.Exclusion) {
					continue
				}
				return loc, tier.kind, nil
			}
		}
	}

	for _, sel := range fallbackSelectors {
		loc := driver.Locator(sel)
		count, err := loc.Count(ctx)
		if err != nil || count == 0 {
			continue
		}
		text, _ := loc.TextContent(ctx)
		if isExcludedButtonText(text, kw.Exclusion) {
			continue
		}
		return loc, ButtonSubmit, nil
	}

	return nil, "", fmt.Errorf("no submit button located")
}

func isExcludedButtonText(text string, exclusion []string) bool {
	lower := strings.ToLower(text)
	for _, w := range exclusion {
		if strings.Contains(lower, strings.ToLower(w)) || strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// waitClickable blocks until the button is visible and enabled, bounded by
// the element-wait budget.
func waitClickable(ctx context.Context, loc browser.Locator, timeout time.Duration) error {
	if err := loc.WaitFor(ctx, "visible", timeout); err != nil {
		return fmt.Errorf("wait visible: %w", err)
	}
	if err := loc.WaitFor(ctx, "enabled", timeout); err != nil {
		return fmt.Errorf("wait enabled: %w", err)
	}
	return nil
}
