package submission

import (
	"context"

	"github.com/formsender/core/internal/browser"
)

// consentScript implements the three recovery strategies in one atomic
// evaluation — native property check, associated-label click, and a raw JS
// click — per SPEC_FULL.md §4.10's PrivacyConsentHandler.ensure_near_button
// and §5's "native → label → JS up to 3 attempts" retry policy.
const consentScript = `
(keywords) => {
	const norm = (s) => (s || '').toLowerCase();
	const matches = (text) => keywords.some(k => norm(text).includes(norm(k)) || (text || '').includes(k));

	const boxes = Array.from(document.querySelectorAll('input[type=checkbox]'));
	for (const cb of boxes) {
		let label = '';
		if (cb.labels && cb.labels.length) {
			label = Array.from(cb.labels).map((l) => l.innerText).join(' ');
		}
		if (!label) {
			const wrapper = cb.closest('label');
			if (wrapper) label = wrapper.innerText;
		}
		if (!label && cb.parentElement) {
			label = cb.parentElement.innerText;
		}
		if (!matches(label)) continue;
		if (cb.checked) return true;

		cb.checked = true;
		cb.dispatchEvent(new Event('change', { bubbles: true }));
		if (cb.checked) return true;

		if (cb.labels && cb.labels.length) {
			cb.labels[0].click();
			if (cb.checked) return true;
		}

		cb.click();
		return cb.checked;
	}
	return false;
}
`

// ensureConsent walks the page for a consent checkbox whose label matches
// the keyword catalog and checks it if found unchecked, retrying the
// strategy chain up to maxConsentAttempts times in case the page's own JS
// needs a tick to settle between attempts.
func ensureConsent(ctx context.Context, driver browser.Driver, keywords []string) (applied bool, err error) {
	for attempt := 0; attempt < maxConsentAttempts; attempt++ {
		result, evalErr := driver.Evaluate(ctx, consentScript, keywords)
		if evalErr != nil {
			err = evalErr
			continue
		}
		if ok, _ := result.(bool); ok {
			return true, nil
		}
	}
	return false, err
}
