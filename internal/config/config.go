// Package config loads the external collaborator configs named in
// SPEC_FULL.md §6 (button/consent keyword catalogs, timeout matrix,
// choice-priority lists) the way the teacher loads LLMConfig: environment
// variables via godotenv, with an optional YAML override file layered on
// top. Unlike the teacher's Load, missing or malformed values fall back to
// in-code defaults instead of failing startup, per §6's "invalid types ->
// fallback to defaults" (this core has no required configuration).
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/formsender/core/internal/submission"
)

// Keywords mirrors submission.Keywords in a YAML-friendly shape.
type Keywords struct {
	Primary      []string `yaml:"primary"`
	Secondary    []string `yaml:"secondary"`
	Confirmation []string `yaml:"confirmation"`
	Exclusion    []string `yaml:"exclusion"`
	Consent      []string `yaml:"consent"`
}

// BudgetsSeconds mirrors submission.Budgets with plain integer seconds,
// since YAML has no native time.Duration decoding.
type BudgetsSeconds struct {
	PageLoadSeconds           int `yaml:"page_load_seconds"`
	ElementWaitSeconds        int `yaml:"element_wait_seconds"`
	ClickSeconds              int `yaml:"click_seconds"`
	PreProcessingSeconds      int `yaml:"pre_processing_seconds"`
	DynamicMessageWaitSeconds int `yaml:"dynamic_message_wait_seconds"`
	DOMMonitoringSeconds      int `yaml:"dom_monitoring_seconds"`
	JSExecutionSeconds        int `yaml:"js_execution_seconds"`
}

// Config is the decoded shape of an override file plus environment layer.
type Config struct {
	Keywords            Keywords       `yaml:"keywords"`
	Budgets             BudgetsSeconds `yaml:"budgets"`
	ChoicePriorityTiers [][]string     `yaml:"choice_priority_tiers"`
	NameSeparator       string         `yaml:"name_separator"`
	PhoneSeparator      string         `yaml:"phone_separator"`
	PostalSeparator     string         `yaml:"postal_separator"`
}

// Load reads ".env" via godotenv (best effort) and, if FORMSENDER_CONFIG_FILE
// names a YAML override file, layers its values over in-code defaults. Every
// failure along the way (.env absent, override file absent, malformed YAML)
// is absorbed rather than returned, matching §6.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()

	path := os.Getenv("FORMSENDER_CONFIG_FILE")
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg
	}
	mergeInto(cfg, &override)
	return cfg
}

func defaults() *Config {
	kw := submission.DefaultKeywords()
	b := submission.DefaultBudgets()
	return &Config{
		Keywords: Keywords{
			Primary:      kw.Primary,
			Secondary:    kw.Secondary,
			Confirmation: kw.Confirmation,
			Exclusion:    kw.Exclusion,
			Consent:      kw.Consent,
		},
		Budgets: BudgetsSeconds{
			PageLoadSeconds:           int(b.PageLoad.Seconds()),
			ElementWaitSeconds:        int(b.ElementWait.Seconds()),
			ClickSeconds:              int(b.Click.Seconds()),
			PreProcessingSeconds:      int(b.PreProcessing.Seconds()),
			DynamicMessageWaitSeconds: int(b.DynamicMessageWait.Seconds()),
			DOMMonitoringSeconds:      int(b.DOMMonitoring.Seconds()),
			JSExecutionSeconds:        int(b.JSExecution.Seconds()),
		},
		NameSeparator:   " ",
		PhoneSeparator:  "",
		PostalSeparator: "-",
	}
}

// mergeInto overlays every non-empty field of override onto cfg in place.
func mergeInto(cfg, override *Config) {
	if len(override.Keywords.Primary) > 0 {
		cfg.Keywords.Primary = override.Keywords.Primary
	}
	if len(override.Keywords.Secondary) > 0 {
		cfg.Keywords.Secondary = override.Keywords.Secondary
	}
	if len(override.Keywords.Confirmation) > 0 {
		cfg.Keywords.Confirmation = override.Keywords.Confirmation
	}
	if len(override.Keywords.Exclusion) > 0 {
		cfg.Keywords.Exclusion = override.Keywords.Exclusion
	}
	if len(override.Keywords.Consent) > 0 {
		cfg.Keywords.Consent = override.Keywords.Consent
	}
	if len(override.ChoicePriorityTiers) > 0 {
		cfg.ChoicePriorityTiers = override.ChoicePriorityTiers
	}
	if override.Budgets.PageLoadSeconds > 0 {
		cfg.Budgets.PageLoadSeconds = override.Budgets.PageLoadSeconds
	}
	if override.Budgets.ElementWaitSeconds > 0 {
		cfg.Budgets.ElementWaitSeconds = override.Budgets.ElementWaitSeconds
	}
	if override.Budgets.ClickSeconds > 0 {
		cfg.Budgets.ClickSeconds = override.Budgets.ClickSeconds
	}
	if override.Budgets.PreProcessingSeconds > 0 {
		cfg.Budgets.PreProcessingSeconds = override.Budgets.PreProcessingSeconds
	}
	if override.Budgets.DynamicMessageWaitSeconds > 0 {
		cfg.Budgets.DynamicMessageWaitSeconds = override.Budgets.DynamicMessageWaitSeconds
	}
	if override.Budgets.DOMMonitoringSeconds > 0 {
		cfg.Budgets.DOMMonitoringSeconds = override.Budgets.DOMMonitoringSeconds
	}
	if override.Budgets.JSExecutionSeconds > 0 {
		cfg.Budgets.JSExecutionSeconds = override.Budgets.JSExecutionSeconds
	}
	if override.NameSeparator != "" {
		cfg.NameSeparator = override.NameSeparator
	}
	if override.PhoneSeparator != "" {
		cfg.PhoneSeparator = override.PhoneSeparator
	}
	if override.PostalSeparator != "" {
		cfg.PostalSeparator = override.PostalSeparator
	}
}

// ToSubmissionKeywords converts the decoded Keywords into the type
// internal/submission consumes.
func (c *Config) ToSubmissionKeywords() submission.Keywords {
	return submission.Keywords{
		Primary:      c.Keywords.Primary,
		Secondary:    c.Keywords.Secondary,
		Confirmation: c.Keywords.Confirmation,
		Exclusion:    c.Keywords.Exclusion,
		Consent:      c.Keywords.Consent,
	}
}

// ToSubmissionBudgets converts the decoded seconds back into durations,
// falling back per-field to the submission package's own defaults for any
// value left at zero.
func (c *Config) ToSubmissionBudgets() submission.Budgets {
	d := submission.DefaultBudgets()
	b := c.Budgets
	return submission.Budgets{
		PageLoad:           secondsOr(b.PageLoadSeconds, d.PageLoad),
		ElementWait:        secondsOr(b.ElementWaitSeconds, d.ElementWait),
		Click:              secondsOr(b.ClickSeconds, d.Click),
		PreProcessing:      secondsOr(b.PreProcessingSeconds, d.PreProcessing),
		DynamicMessageWait: secondsOr(b.DynamicMessageWaitSeconds, d.DynamicMessageWait),
		DOMMonitoring:      secondsOr(b.DOMMonitoringSeconds, d.DOMMonitoring),
		JSExecution:        secondsOr(b.JSExecutionSeconds, d.JSExecution),
	}
}

func secondsOr(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
