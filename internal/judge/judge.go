// Package judge implements the Success Judge (C11): a six-stage pipeline
// that decides whether a submission succeeded from URL, text, DOM, and
// mutation signals, falling through stages until one is definitive.
package judge

import (
	"regexp"
)

// PreSubmitSnapshot captures page state immediately before the submit
// click, consumed by stages 3 and 4 for before/after comparison.
type PreSubmitSnapshot struct {
	URL                 string
	Title               string
	FormPresent         bool
	SubmitButtonPresent bool
	PopulatedFieldCount int
}

// PostSubmitState captures observed page state after the submit click and
// the configured wait window.
type PostSubmitState struct {
	URL                  string
	Title                string
	PageText             string
	FormPresent          bool
	SubmitButtonPresent  bool
	SubmitButtonDisabled bool
	MutationCount        int
	ClearedFieldCount    int
	HasAriaInvalid       bool
	HasErrorClassMarkers bool
}

// Result is one stage's (or the pipeline's) verdict contribution.
type Result struct {
	Success    bool
	Confidence float64
	Stage      int
	StageName  string
	Message    string
}

const mutationThreshold = 5

var successURLPatterns = regexp.MustCompile(`(?i)/(thanks|thank-you|complete|completed|done|submitted|success|confirm|confirmation|kanryou|uketsuke|arigatou)(/|$|\?)`)
var failureURLPatterns = regexp.MustCompile(`(?i)/(error|failed|failure|invalid)(/|$|\?)`)
var successQueryPatterns = regexp.MustCompile(`(?i)[?&](success|completed|submitted)=`)
var failureQueryPatterns = regexp.MustCompile(`(?i)[?&](error|failed|invalid)=`)

var successTextPatterns = regexp.MustCompile(`送信完了|送信されました|ありがとうございます|受付完了|受付いたしました|(?i)thank|success|submitted`)
var botOrCaptchaMarkers = regexp.MustCompile(`(?i)g-recaptcha|grecaptcha|captcha|rc-anchor`)
var strongFailureKeywords = regexp.MustCompile(`未入力|入力してください|必須項目|エラーが発生|送信できません`)

var validationErrorPatterns = regexp.MustCompile(`未入力|入力してください|必須項目`)
var failureSweepPatterns = regexp.MustCompile(`送信できません|エラーが発生|failed to submit|an error occurred`)

// Judge evaluates the six stages and returns the first definitive result.
type Judge struct{}

// New builds a Judge. It holds no state; every call is pure over its
// snapshot/state arguments.
func New() *Judge {
	return &Judge{}
}

func (j *Judge) Evaluate(pre PreSubmitSnapshot, post PostSubmitState) Result {
	if r, ok := j.stage1URLChange(pre, post); ok {
		return r
	}
	if r, ok := j.stage2SuccessText(post); ok {
		return r
	}
	if r, ok := j.stage3FormDisappearance(pre, post); ok {
		return r
	}
	if r, ok := j.stage4DOMAnalysis(pre, post); ok {
		return r
	}
	if r, ok := j.stage5ErrorPatterns(post); ok {
		return r
	}
	if r, ok := j.stage6FailurePatterns(post); ok {
		return r
	}
	return Result{Success: false, Confidence: 0.3, Stage: 6, StageName: "failure_patterns", Message: "no definitive signal observed"}
}

func (j *Judge) stage1URLChange(pre PreSubmitSnapshot, post PostSubmitState) (Result, bool) {
	if post.URL == pre.URL {
		return Result{}, false
	}
	switch {
	case successURLPatterns.MatchString(post.URL) || successQueryPatterns.MatchString(post.URL):
		return Result{Success: true, Confidence: 0.92, Stage: 1, StageName: "url_change", Message: "post-submit URL matches a success pattern"}, true
	case failureURLPatterns.MatchString(post.URL) || failureQueryPatterns.MatchString(post.URL):
		return Result{Success: false, Confidence: 0.9, Stage: 1, StageName: "url_change", Message: "post-submit URL matches a failure pattern"}, true
	}
	return Result{}, false
}

func (j *Judge) stage2SuccessText(post PostSubmitState) (Result, bool) {
	if !successTextPatterns.MatchString(post.PageText) {
		return Result{}, false
	}
	if botOrCaptchaMarkers.MatchString(post.PageText) || strongFailureKeywords.MatchString(post.PageText) {
		return Result{}, false
	}
	return Result{Success: true, Confidence: 0.87, Stage: 2, StageName: "success_text", Message: "page contains success confirmation text"}, true
}

func (j *Judge) stage3FormDisappearance(pre PreSubmitSnapshot, post PostSubmitState) (Result, bool) {
	if !pre.FormPresent {
		return Result{}, false
	}
	if !post.FormPresent || post.SubmitButtonDisabled {
		return Result{Success: true, Confidence: 0.82, Stage: 3, StageName: "form_disappearance", Message: "form or submit button no longer present"}, true
	}
	return Result{}, false
}

func (j *Judge) stage4DOMAnalysis(pre PreSubmitSnapshot, post PostSubmitState) (Result, bool) {
	if post.MutationCount >= mutationThreshold {
		return Result{Success: true, Confidence: 0.78, Stage: 4, StageName: "dom_mutation_analysis", Message: "mutation count exceeds threshold"}, true
	}
	if pre.PopulatedFieldCount > 0 {
		ratio := float64(post.ClearedFieldCount) / float64(pre.PopulatedFieldCount)
		if ratio >= 0.5 {
			return Result{Success: true, Confidence: 0.76, Stage: 4, StageName: "dom_mutation_analysis", Message: "majority of populated fields cleared"}, true
		}
	}
	return Result{}, false
}

func (j *Judge) stage5ErrorPatterns(post PostSubmitState) (Result, bool) {
	if validationErrorPatterns.MatchString(post.PageText) {
		return Result{Success: false, Confidence: 0.73, Stage: 5, StageName: "error_patterns", Message: "validation error text present"}, true
	}
	if (post.HasAriaInvalid || post.HasErrorClassMarkers) && strongFailureKeywords.MatchString(post.PageText) {
		return Result{Success: false, Confidence: 0.7, Stage: 5, StageName: "error_patterns", Message: "aria-invalid or error class present with failure keywords"}, true
	}
	return Result{}, false
}

func (j *Judge) stage6FailurePatterns(post PostSubmitState) (Result, bool) {
	if failureSweepPatterns.MatchString(post.PageText) {
		return Result{Success: false, Confidence: 0.67, Stage: 6, StageName: "failure_patterns", Message: "generic failure text present"}, true
	}
	return Result{}, false
}
