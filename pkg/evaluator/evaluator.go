package evaluator

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/groundtruth"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// Context carries the request-scoped inputs a check may need beyond the text
// itself. SourceContent is required by hallucination-class guardrails.
type Context struct {
	FunctionID    string
	Platform      string
	SourceContent string
}

type Evaluator struct {
	logger *logrus.Logger
}

func NewEvaluator(logger *logrus.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate runs one guardrail against one piece of text. It never panics and
// never returns an error: a rule that cannot be evaluated produces a fail
// outcome with an explanatory message so batch runs keep going. Prompt
// instructions are reported as skipped; they only ever ride along as model
// context.
func (e *Evaluator) Evaluate(ctx context.Context, def *guardrail.Guardrail, text string, evalCtx *Context) (out Outcome) {
	if def == nil {
		return fail("", "no guardrail definition supplied", "")
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"guardrail": def.ID,
				"panic":     fmt.Sprintf("%v", r),
			}).Error("recovered from evaluation panic")
			out = fail(def.ID, "internal error while evaluating guardrail", "")
		}
	}()

	if def.ValidationType == guardrail.ValidationPromptInstruction {
		return skip(def.ID, "prompt instructions are injected as model context, not executed")
	}

	if evalCtx == nil {
		evalCtx = &Context{}
	}

	switch def.Category {
	case guardrail.CategoryPromptSafety:
		return e.checkPromptSafety(def, text)
	case guardrail.CategoryQueryValidation:
		return e.checkQueryValidation(def, text)
	case guardrail.CategoryOutputValidation:
		return e.checkOutputValidation(def, text)
	case guardrail.CategoryHallucinationPrevention:
		return e.checkHallucination(def, text, evalCtx)
	case guardrail.CategorySecurityContext:
		return e.checkSecurityContext(def, text)
	case guardrail.CategoryPlatformSpecific:
		return e.checkPlatformSpecific(def, text, evalCtx)
	case guardrail.CategoryDataProtection:
		return e.checkDataProtection(def, text)
	case guardrail.CategoryCompliance:
		return e.checkCompliance(def, text)
	case guardrail.CategoryQuality:
		return e.checkQuality(def, text)
	case guardrail.CategoryFormat:
		return e.checkFormat(def, text)
	case guardrail.CategoryFiltering:
		return e.checkFiltering(def, text)
	case guardrail.CategoryValidation:
		return e.checkValidation(def, text)
	default:
		return fail(def.ID, fmt.Sprintf("unsupported category: %s", def.Category), "")
	}
}

func (e *Evaluator) checkPromptSafety(def *guardrail.Guardrail, text string) Outcome {
	if name, ok := matchAny(injectionPatterns, text); ok {
		out := fail(def.ID, "prompt injection pattern detected",
			"Remove instruction-override or jailbreak phrasing from the input")
		out.Details = map[string]interface{}{"pattern": name}
		return out
	}

	var cfg promptSafetySettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}
	if term, ok := containsAnyFold(text, cfg.BlockedTerms); ok {
		out := fail(def.ID, "blocked term present in input", "")
		out.Details = map[string]interface{}{"term": term}
		return out
	}

	return pass(def.ID, "no prompt injection indicators found")
}

func (e *Evaluator) checkQueryValidation(def *guardrail.Guardrail, text string) Outcome {
	var cfg queryValidationSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	if name, ok := matchAny(destructiveQueryPatterns, text); ok {
		out := fail(def.ID, "potentially destructive query statement detected",
			"Hunt queries must be read-only; remove delete, drop, or purge commands")
		out.Details = map[string]interface{}{"pattern": name}
		return out
	}

	checkBalance := cfg.CheckBalance == nil || *cfg.CheckBalance
	if checkBalance {
		if reason, ok := unbalanced(text); ok {
			return fail(def.ID, fmt.Sprintf("query has %s", reason),
				"Close every quote and parenthesis before running the query")
		}
	}

	if cfg.MaxLength > 0 && len(text) > cfg.MaxLength {
		return fail(def.ID, fmt.Sprintf("query exceeds maximum length of %d characters", cfg.MaxLength), "")
	}

	return pass(def.ID, "query is well formed")
}

func (e *Evaluator) checkOutputValidation(def *guardrail.Guardrail, text string) Outcome {
	if name, ok := matchAny(secretPatterns, text); ok {
		out := fail(def.ID, "credential material detected in output",
			"Redact keys, tokens, and passwords before returning output")
		out.Details = map[string]interface{}{"pattern": name}
		return out
	}
	return pass(def.ID, "no credential material found")
}

func (e *Evaluator) checkHallucination(def *guardrail.Guardrail, text string, evalCtx *Context) Outcome {
	if strings.TrimSpace(evalCtx.SourceContent) == "" {
		return fail(def.ID, "hallucination check requires source content",
			"Provide the source content the answer was generated from")
	}

	source := strings.ToLower(evalCtx.SourceContent)
	var checked, missing []string
	for _, iocType := range iocOrder {
		for _, indicator := range dedupe(iocPatterns[iocType].FindAllString(text, -1)) {
			checked = append(checked, indicator)
			if !strings.Contains(source, strings.ToLower(indicator)) {
				missing = append(missing, indicator)
			}
		}
	}

	if len(checked) == 0 {
		return pass(def.ID, "no indicators referenced")
	}
	if len(missing) > 0 {
		out := fail(def.ID, fmt.Sprintf("%d indicator(s) not present in source content", len(missing)),
			"Only report indicators that appear in the analyzed source")
		out.Details = map[string]interface{}{"missing": missing}
		return out
	}
	return pass(def.ID, fmt.Sprintf("all %d referenced indicator(s) appear in source content", len(checked)))
}

func (e *Evaluator) checkSecurityContext(def *guardrail.Guardrail, text string) Outcome {
	if name, ok := matchAny(disclosurePatterns, text); ok {
		out := fail(def.ID, "internal context disclosure detected",
			"Strip system prompt and model configuration references from the response")
		out.Details = map[string]interface{}{"pattern": name}
		return out
	}
	return pass(def.ID, "no internal context disclosed")
}

func (e *Evaluator) checkPlatformSpecific(def *guardrail.Guardrail, text string, evalCtx *Context) Outcome {
	var cfg platformSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	if cfg.Platform != "" {
		if evalCtx.Platform == "" {
			return pass(def.ID, "no target platform specified; platform check not applicable")
		}
		if !strings.EqualFold(cfg.Platform, evalCtx.Platform) {
			return pass(def.ID, fmt.Sprintf("not applicable to platform %s", evalCtx.Platform))
		}
	}

	if len(cfg.RequiredAny) > 0 {
		if _, ok := containsAnyFold(text, cfg.RequiredAny); !ok {
			out := fail(def.ID, fmt.Sprintf("expected %s syntax not found", cfg.Platform),
				"Include at least one of the required platform tokens")
			out.Details = map[string]interface{}{"required_any": cfg.RequiredAny}
			return out
		}
	}
	if term, ok := containsAnyFold(text, cfg.ForbiddenTerms); ok {
		out := fail(def.ID, "forbidden platform token present", "")
		out.Details = map[string]interface{}{"term": term}
		return out
	}

	return pass(def.ID, "platform syntax checks passed")
}

func (e *Evaluator) checkDataProtection(def *guardrail.Guardrail, text string) Outcome {
	var cfg dataProtectionSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(t)] = true
	}

	for _, piiType := range sortedKeys(piiPatterns) {
		if allowed[piiType] {
			continue
		}
		if piiPatterns[piiType].MatchString(text) {
			out := fail(def.ID, "personal data detected",
				"Mask or remove personal data before sharing")
			out.Details = map[string]interface{}{"type": piiType}
			return out
		}
	}
	return pass(def.ID, "no personal data found")
}

func (e *Evaluator) checkCompliance(def *guardrail.Guardrail, text string) Outcome {
	var cfg complianceSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	var missing []string
	for _, term := range cfg.RequiredTerms {
		if !strings.Contains(strings.ToLower(text), strings.ToLower(term)) {
			missing = append(missing, term)
		}
	}
	if len(missing) > 0 {
		out := fail(def.ID, "required compliance term(s) missing", "")
		out.Details = map[string]interface{}{"missing": missing}
		return out
	}

	if term, ok := containsAnyFold(text, cfg.ForbiddenTerms); ok {
		out := fail(def.ID, "forbidden term present", "")
		out.Details = map[string]interface{}{"term": term}
		return out
	}

	return pass(def.ID, "compliance terms satisfied")
}

func (e *Evaluator) checkQuality(def *guardrail.Guardrail, text string) Outcome {
	var cfg qualitySettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	trimmed := strings.TrimSpace(text)
	words := len(strings.Fields(trimmed))

	switch {
	case cfg.MinLength > 0 && len(trimmed) < cfg.MinLength:
		return fail(def.ID, fmt.Sprintf("response is shorter than %d characters", cfg.MinLength),
			"Provide enough substance to be actionable")
	case cfg.MaxLength > 0 && len(trimmed) > cfg.MaxLength:
		return fail(def.ID, fmt.Sprintf("response exceeds %d characters", cfg.MaxLength), "")
	case cfg.MinWords > 0 && words < cfg.MinWords:
		return fail(def.ID, fmt.Sprintf("response has fewer than %d words", cfg.MinWords), "")
	case cfg.MaxWords > 0 && words > cfg.MaxWords:
		return fail(def.ID, fmt.Sprintf("response exceeds %d words", cfg.MaxWords), "")
	}
	return pass(def.ID, "within quality bounds")
}

func (e *Evaluator) checkFormat(def *guardrail.Guardrail, text string) Outcome {
	var cfg formatSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		if err := fastjson.ValidateBytes([]byte(text)); err != nil {
			return fail(def.ID, "output is not valid JSON",
				"Return a single well-formed JSON document")
		}
		return pass(def.ID, "output is valid JSON")
	case "markdown_table":
		if !hasMarkdownTable(text) {
			return fail(def.ID, "output does not contain a markdown table",
				"Format the result as a markdown table with a header separator row")
		}
		return pass(def.ID, "output contains a markdown table")
	case "csv":
		rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
		if err != nil {
			return fail(def.ID, "output is not valid CSV", "")
		}
		if len(rows) == 0 {
			return fail(def.ID, "output contains no CSV rows", "")
		}
		return pass(def.ID, "output is valid CSV")
	case "":
		return fail(def.ID, "settings.format is required for format guardrails", "")
	default:
		return fail(def.ID, fmt.Sprintf("unsupported format: %s", cfg.Format), "")
	}
}

func (e *Evaluator) checkFiltering(def *guardrail.Guardrail, text string) Outcome {
	var cfg filteringSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}
	threshold := cfg.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultFuzzyThreshold
	}

	if term, ok := containsAnyFold(text, cfg.BlockedTerms); ok {
		out := fail(def.ID, "blocked term present", "")
		out.Details = map[string]interface{}{"term": term}
		return out
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,;:!?'"()[]{}`)
		if word == "" {
			continue
		}
		for _, term := range cfg.BlockedTerms {
			if similarity := groundtruth.Similarity(word, term); similarity >= threshold {
				out := fail(def.ID, "term too similar to a blocked term", "")
				out.Details = map[string]interface{}{
					"term":       term,
					"word":       word,
					"similarity": similarity,
				}
				return out
			}
		}
	}

	return pass(def.ID, "no blocked terms found")
}

func (e *Evaluator) checkValidation(def *guardrail.Guardrail, text string) Outcome {
	var cfg validationSettings
	if err := decodeSettings(def.Settings, &cfg); err != nil {
		return fail(def.ID, err.Error(), "")
	}
	if cfg.Pattern == "" {
		return fail(def.ID, "settings.pattern is required for validation guardrails", "")
	}

	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return fail(def.ID, fmt.Sprintf("invalid pattern: %v", err), "")
	}

	switch strings.ToLower(cfg.MatchMode) {
	case "require":
		if !re.MatchString(text) {
			return fail(def.ID, "required pattern not found", "")
		}
		return pass(def.ID, "required pattern found")
	case "", "forbid":
		if match := re.FindString(text); match != "" {
			out := fail(def.ID, "forbidden pattern matched", "")
			out.Details = map[string]interface{}{"match": match}
			return out
		}
		return pass(def.ID, "forbidden pattern not found")
	default:
		return fail(def.ID, fmt.Sprintf("unsupported match_mode: %s", cfg.MatchMode), "")
	}
}

func matchAny(patterns map[string]*regexp.Regexp, text string) (string, bool) {
	for _, name := range sortedKeys(patterns) {
		if patterns[name].MatchString(text) {
			return name, true
		}
	}
	return "", false
}

func containsAnyFold(text string, terms []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}

func unbalanced(text string) (string, bool) {
	if strings.Count(text, `"`)%2 != 0 {
		return "an unbalanced double quote", true
	}
	depth := 0
	for _, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "an unmatched closing parenthesis", true
			}
		}
	}
	if depth != 0 {
		return "an unmatched opening parenthesis", true
	}
	return "", false
}

var tableSeparator = regexp.MustCompile(`^\s*\|?[\s:|-]*-{3,}[\s:|-]*\|?\s*$`)

func hasMarkdownTable(text string) bool {
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		if strings.Count(lines[i], "|") >= 2 && tableSeparator.MatchString(lines[i+1]) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedKeys(patterns map[string]*regexp.Regexp) []string {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
