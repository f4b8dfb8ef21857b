package retrieval

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ideaarena/ideaarena-go-api/pkg/search"
)

const (
	maxTerms          = 6
	maxQueries        = 6
	maxPairQueries    = 2
	perQueryLimit     = 4
	mergeKeep         = 14
	enrichCount       = 5
	bundleSize        = 5
	excerptChars      = 120
	summaryBudget     = 600
	sentenceMinChars  = 40
	maxKeptSentences  = 5
	fallbackSentences = 3
	snippetNorm       = 200.0
	repeatHostFactor  = 0.6
	snippetWeight     = 0.1
)

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "about": {}, "their": {}, "there": {},
	"which": {}, "where": {}, "when": {}, "what": {}, "your": {}, "using": {},
	"into": {}, "been": {}, "they": {}, "them": {}, "then": {}, "than": {},
	"also": {}, "make": {}, "made": {}, "more": {}, "most": {}, "some": {},
	"such": {}, "only": {}, "over": {}, "very": {}, "like": {}, "just": {},
	"need": {}, "want": {}, "idea": {}, "people": {}, "every": {}, "each": {},
	"based": {}, "through": {}, "between": {}, "because": {}, "while": {},
}

type domainRule struct {
	name    string
	markers []string
}

// Ordered: the first rule with a matching term wins.
var domainRules = []domainRule{
	{name: "health", markers: []string{"health", "medic", "hospital", "patient", "fitness", "wellness", "diagno", "therap"}},
	{name: "education", markers: []string{"educat", "learn", "student", "school", "course", "tutor", "teach"}},
	{name: "finance", markers: []string{"financ", "bank", "invest", "payment", "loan", "insur", "crypto", "budget"}},
	{name: "agriculture", markers: []string{"agri", "farm", "crop", "harvest", "soil", "irrigat"}},
	{name: "environment", markers: []string{"environment", "climat", "carbon", "recycl", "waste", "energy", "sustain"}},
	{name: "retail", markers: []string{"retail", "shop", "commerce", "store", "grocery", "delivery"}},
	{name: "social", markers: []string{"social", "community", "network", "connect", "volunteer"}},
	{name: "mobility", markers: []string{"transport", "mobility", "vehicle", "traffic", "commut", "logist", "parking"}},
}

var contextKeywords = []string{
	"market", "growth", "adoption", "cost", "revenue", "users", "competitor",
	"regulation", "technology", "demand", "feasib", "industry", "startup",
}

type scoredResult struct {
	search.Result
	Content string
	score   float64
}

// Engine turns submission text into a bounded, diverse web-context bundle.
// Every stage degrades rather than fails: the full pipeline falls back to a
// single minimal search, and that falls back to an empty bundle.
type Engine struct {
	provider search.Provider
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewEngine builds a retrieval engine over the given search provider. A nil
// provider yields an engine that always produces an empty bundle.
func NewEngine(provider search.Provider, logger zerolog.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   logger.With().Str("component", "retrieval_engine").Logger(),
		tracer:   otel.Tracer("github.com/ideaarena/ideaarena-go-api/internal/retrieval"),
	}
}

// BuildContext assembles the context bundle for one idea. It never returns an
// error; retrieval trouble produces a smaller bundle, or none.
func (e *Engine) BuildContext(parent context.Context, idea string) string {
	if e == nil || e.provider == nil {
		return ""
	}

	ctx, span := e.tracer.Start(parent, "retrieval.build_context")
	defer span.End()

	bundle, err := e.buildFull(ctx, idea)
	if err == nil {
		span.SetAttributes(attribute.Bool("retrieval.degraded", false))
		return bundle
	}
	e.logger.Warn().Err(err).Msg("context pipeline degraded to minimal search")

	bundle, err = e.buildMinimal(ctx, idea)
	if err == nil {
		span.SetAttributes(attribute.Bool("retrieval.degraded", true))
		return bundle
	}
	e.logger.Warn().Err(err).Msg("minimal search failed, continuing without web context")
	span.SetAttributes(attribute.Bool("retrieval.empty", true))

	return ""
}

func (e *Engine) buildFull(ctx context.Context, idea string) (string, error) {
	terms := extractTerms(idea)
	domain := inferDomain(terms)
	queries := buildQueries(idea, terms, domain)

	merged, err := e.fanOut(ctx, queries)
	if err != nil {
		return "", err
	}

	e.enrich(ctx, merged, domain)
	return renderBundle(merged), nil
}

func (e *Engine) buildMinimal(ctx context.Context, idea string) (string, error) {
	hits, err := e.provider.Search(ctx, baseQuery(idea), perQueryLimit)
	if err != nil {
		return "", err
	}

	merged := make([]*scoredResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Link == "" {
			continue
		}
		merged = append(merged, &scoredResult{Result: hit})
	}
	return renderBundle(merged), nil
}

// fanOut runs every query variant, merging hits and dropping links already
// seen. Individual query failures are absorbed; the fan-out only errors when
// every variant failed.
func (e *Engine) fanOut(ctx context.Context, queries []string) ([]*scoredResult, error) {
	seenLinks := make(map[string]struct{})
	seenHosts := make(map[string]struct{})
	var merged []*scoredResult
	failures := 0

	for _, query := range queries {
		hits, err := e.provider.Search(ctx, query, perQueryLimit)
		if err != nil {
			failures++
			e.logger.Debug().Err(err).Str("query", query).Msg("search variant failed")
			continue
		}

		for _, hit := range hits {
			if hit.Link == "" {
				continue
			}
			if _, dup := seenLinks[hit.Link]; dup {
				continue
			}
			seenLinks[hit.Link] = struct{}{}

			host := hostOf(hit.Link)
			_, repeat := seenHosts[host]
			if !repeat {
				seenHosts[host] = struct{}{}
			}

			merged = append(merged, &scoredResult{
				Result: hit,
				score:  scoreHit(len(merged), len(hit.Snippet), repeat),
			})
		}
	}

	if len(merged) == 0 && failures > 0 && failures == len(queries) {
		return nil, fmt.Errorf("all %d search variants failed", failures)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})
	if len(merged) > mergeKeep {
		merged = merged[:mergeKeep]
	}

	return merged, nil
}

// scoreHit combines rank decay, a host-diversity bonus and a light
// snippet-length utility term. A repeat host always scores strictly below an
// otherwise-equal first-seen host.
func scoreHit(rank, snippetLen int, repeatHost bool) float64 {
	base := 1.0 / (1.0 + 0.15*float64(rank))
	diversity := 1.0
	if repeatHost {
		diversity = repeatHostFactor
	}
	utility := math.Min(float64(snippetLen)/snippetNorm, 1.0) * snippetWeight
	return base*diversity + utility
}

func (e *Engine) enrich(ctx context.Context, merged []*scoredResult, domain string) {
	limit := enrichCount
	if len(merged) < limit {
		limit = len(merged)
	}

	for _, result := range merged[:limit] {
		raw, err := e.provider.Fetch(ctx, result.Link)
		if err != nil {
			e.logger.Debug().Err(err).Str("link", result.Link).Msg("page fetch failed")
			continue
		}
		result.Content = summarize(raw, domain)
	}
}

// summarize reduces raw page content to a short excerpt: cut at the first
// script/style marker, keep pseudo-sentences that mention domain or
// feasibility keywords, else lead sentences, within a fixed budget.
func summarize(raw, domain string) string {
	lower := strings.ToLower(raw)
	cut := len(raw)
	for _, marker := range []string{"<script", "<style"} {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	text := raw[:cut]

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncate(strings.TrimSpace(text), summaryBudget)
	}

	keywords := append(domainMarkers(domain), contextKeywords...)
	var kept []string
	for _, sentence := range sentences {
		if containsAny(strings.ToLower(sentence), keywords) {
			kept = append(kept, sentence)
			if len(kept) == maxKeptSentences {
				break
			}
		}
	}

	if len(kept) == 0 {
		limit := fallbackSentences
		if len(sentences) < limit {
			limit = len(sentences)
		}
		kept = sentences[:limit]
	}

	return truncate(strings.Join(kept, ". "), summaryBudget)
}

// splitSentences chops text on sentence punctuation and newlines, keeping
// only chunks long enough to carry meaning.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	var sentences []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > sentenceMinChars {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

func renderBundle(merged []*scoredResult) string {
	if len(merged) == 0 {
		return ""
	}

	limit := bundleSize
	if len(merged) < limit {
		limit = len(merged)
	}

	var b strings.Builder
	b.WriteString("Latest web context (auto-collected):\n")
	for i, result := range merged[:limit] {
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\nSnippet: %s\n", i+1, result.Title, result.Link, result.Snippet)
		if result.Content != "" {
			fmt.Fprintf(&b, "ContentExcerpt: %s\n", result.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString("Use this context to judge the idea against current market reality.")

	return b.String()
}

func baseQuery(idea string) string {
	return excerpt(idea, excerptChars) + " current market trends competitors feasibility"
}

// buildQueries produces the deduplicated variant list: the base query, up to
// two term-pair queries, and up to two domain-specific queries.
func buildQueries(idea string, terms []string, domain string) []string {
	queries := []string{baseQuery(idea)}

	suffixes := []string{"market trends", "competitors", "feasibility"}
	pairCount := 0
	for i := 0; i+1 < len(terms) && pairCount < maxPairQueries; i += 2 {
		queries = append(queries, terms[i]+" "+terms[i+1]+" "+suffixes[pairCount%len(suffixes)])
		pairCount++
	}

	if domain != "" {
		queries = append(queries, domain+" regulation", domain+" adoption challenges")
	}

	seen := make(map[string]struct{}, len(queries))
	deduped := queries[:0]
	for _, query := range queries {
		key := strings.ToLower(query)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, query)
		if len(deduped) == maxQueries {
			break
		}
	}

	return deduped
}

// extractTerms tokenizes the idea into up to maxTerms distinct search terms,
// dropping short tokens and stopwords.
func extractTerms(idea string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(idea), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{})
	var terms []string
	for _, token := range tokens {
		if len(token) < 4 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
		if len(terms) == maxTerms {
			break
		}
	}

	return terms
}

// inferDomain matches extracted terms against the fixed domain table; the
// first rule with any matching term wins. No match yields "".
func inferDomain(terms []string) string {
	for _, rule := range domainRules {
		for _, term := range terms {
			for _, marker := range rule.markers {
				if strings.Contains(term, marker) {
					return rule.name
				}
			}
		}
	}
	return ""
}

func domainMarkers(domain string) []string {
	for _, rule := range domainRules {
		if rule.name == domain {
			return append([]string(nil), rule.markers...)
		}
	}
	return nil
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func hostOf(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return link
	}
	return strings.ToLower(parsed.Host)
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
