package submission

import (
	"context"

	"github.com/formsender/core/internal/browser"
	"github.com/formsender/core/internal/judge"
	"github.com/formsender/core/internal/models"
)

// mutationObserverScript arms a childList+subtree+attributes observer and
// buffers its count on window, read back via readMutationCountScript once
// AWAIT_RESULT's monitoring window closes. Grounded on the teacher pack's
// MutationObserver install pattern (theRebelliousNerd-codenerd's
// session_manager.go startEventStream).
const mutationObserverScript = `
() => {
	if (window.__formsenderObserver) return true;
	window.__formsenderMutationCount = 0;
	const obs = new MutationObserver((mutations) => {
		window.__formsenderMutationCount += mutations.length;
	});
	obs.observe(document.documentElement || document.body, {
		childList: true, subtree: true, attributes: true,
	});
	window.__formsenderObserver = obs;
	return true;
}
`

const readMutationCountScript = `() => window.__formsenderMutationCount || 0`

const ariaInvalidScript = `() => !!document.querySelector('[aria-invalid="true"]')`

const errorClassMarkerScript = `() => !!document.querySelector('.error, .is-invalid, .field-error, [class*="error"]')`

func armMutationObserver(ctx context.Context, driver browser.Driver) error {
	_, err := driver.Evaluate(ctx, mutationObserverScript)
	return err
}

func readMutationCount(ctx context.Context, driver browser.Driver) int {
	v, err := driver.Evaluate(ctx, readMutationCountScript)
	if err != nil || v == nil {
		return 0
	}
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}

func capturePreSnapshot(ctx context.Context, driver browser.Driver, formLoc, btnLoc browser.Locator, populated int) judge.PreSubmitSnapshot {
	title, _ := driver.Title(ctx)
	formCount, _ := formLoc.Count(ctx)
	btnVisible, _ := btnLoc.Visible(ctx)
	return judge.PreSubmitSnapshot{
		URL:                 driver.URL(),
		Title:               title,
		FormPresent:         formCount > 0,
		SubmitButtonPresent: btnVisible,
		PopulatedFieldCount: populated,
	}
}

func capturePostState(ctx context.Context, driver browser.Driver, formLoc, btnLoc browser.Locator, mapping *models.Mapping, mutationCount int) judge.PostSubmitState {
	title, _ := driver.Title(ctx)
	pageText, _ := driver.PageText(ctx)
	formCount, _ := formLoc.Count(ctx)

	btnPresent := false
	btnDisabled := false
	if btnLoc != nil {
		if count, _ := btnLoc.Count(ctx); count > 0 {
			btnPresent = true
			enabled, _ := btnLoc.Enabled(ctx)
			btnDisabled = !enabled
		}
	}

	ariaInvalid := false
	if v, err := driver.Evaluate(ctx, ariaInvalidScript); err == nil {
		ariaInvalid, _ = v.(bool)
	}
	errorMarkers := false
	if v, err := driver.Evaluate(ctx, errorClassMarkerScript); err == nil {
		errorMarkers, _ = v.(bool)
	}

	return judge.PostSubmitState{
		URL:                  driver.URL(),
		Title:                title,
		PageText:             pageText,
		FormPresent:          formCount > 0,
		SubmitButtonPresent:  btnPresent,
		SubmitButtonDisabled: btnDisabled,
		MutationCount:        mutationCount,
		ClearedFieldCount:    countCleared(ctx, driver, mapping),
		HasAriaInvalid:       ariaInvalid,
		HasErrorClassMarkers: errorMarkers,
	}
}

func countCleared(ctx context.Context, driver browser.Driver, mapping *models.Mapping) int {
	cleared := 0
	mapping.Each(func(fieldName string, fm *models.FieldMapping) {
		if fm.Selector == "" || fm.DefaultValue == "" {
			return
		}
		val, err := driver.Locator(fm.Selector).GetAttribute(ctx, "value")
		if err == nil && val == "" {
			cleared++
		}
	})
	return cleared
}
