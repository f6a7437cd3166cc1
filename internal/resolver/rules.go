// File: internal/resolver/rules.go
package resolver

import "strings"

// Query carries the resolution request: the text the model wants clicked and
// the originating user instruction (used only for intent detection).
type Query struct {
	Target      string
	Instruction string

	expected []string
	personal bool
}

// NewQuery precomputes the expected domains and intent flags for a target.
func NewQuery(target, instruction string) Query {
	return Query{
		Target:      target,
		Instruction: instruction,
		expected:    expectedDomains(target),
		personal:    wantsPersonalPage(instruction),
	}
}

// Rule is a pure scoring rule. Rules never mutate the candidate; the
// resolver sums their contributions. Keeping each weight in its own rule
// makes the ranking auditable without changing its outcome.
type Rule struct {
	Name  string
	Score func(c *Candidate, q Query) float64
}

// Weight constants. Together with the rule order below they reproduce the
// established ranking exactly.
const (
	citationBase      = 200.0
	exactTextBonus    = 300.0
	containsTextBonus = 150.0
	substringBonus    = 30.0
	domainMatchBonus  = 100.0
	rootHostBonus     = 500.0
	officialBonus     = 200.0
	headingBonus      = 50.0
	topBandBonus      = 20.0
	middleBandBonus   = 5.0
	badSubdomainMalus = -1000.0
)

// textScore grades how well a visible text matches the target.
func textScore(text, target string) float64 {
	ct, cq := cleanText(text), cleanText(target)
	if cq == "" || ct == "" {
		return 0
	}
	switch {
	case ct == cq:
		return exactTextBonus
	case strings.Contains(ct, cq):
		return containsTextBonus
	case strings.Contains(cq, ct):
		return substringBonus
	}
	return 0
}

// defaultRules is the rule set in evaluation order.
var defaultRules = []Rule{
	{
		// Search-result citations display the true destination; a citation
		// that names an expected domain is trusted over the href.
		Name: "citation",
		Score: func(c *Candidate, q Query) float64 {
			if c.Cite == "" {
				return 0
			}
			host := hostOf(c.Cite)
			if host == "" || !domainMatches(host, q.expected) {
				return 0
			}
			score := citationBase
			if isRootHost(host) {
				score += rootHostBonus
			}
			if hasBadSubdomainPrefix(host) && !q.personal {
				score += badSubdomainMalus
			}
			return score
		},
	},
	{
		Name: "text",
		Score: func(c *Candidate, q Query) float64 {
			return textScore(c.Text, q.Target)
		},
	},
	{
		Name: "href",
		Score: func(c *Candidate, q Query) float64 {
			host := hostOf(c.Href)
			if host == "" || !domainMatches(host, q.expected) {
				return 0
			}
			score := domainMatchBonus
			if isRootHost(host) {
				score += rootHostBonus
			}
			if hasBadSubdomainPrefix(host) && !q.personal {
				score += badSubdomainMalus
			}
			return score
		},
	},
	{
		Name: "official",
		Score: func(c *Candidate, q Query) float64 {
			low := strings.ToLower(c.Text)
			if strings.Contains(c.Text, "官网") || strings.Contains(low, "official") {
				return officialBonus
			}
			return 0
		},
	},
	{
		Name: "heading",
		Score: func(c *Candidate, q Query) float64 {
			if c.InHeading {
				return headingBonus
			}
			return 0
		},
	},
	{
		Name: "band",
		Score: func(c *Candidate, q Query) float64 {
			switch c.Band {
			case BandTop:
				return topBandBonus
			case BandMiddle:
				return middleBandBonus
			}
			return 0
		},
	},
}

// uiChromeTokens mark the search engine's own UI: the AI answer panel,
// scope-tab containers and header rows. Matched against href and the
// class/id ancestry collected at harvest time.
var uiChromeTokens = []string{"copilot", "ai生成", "b_scopelist", "b_header"}

// navTabLabels are the scope-tab captions search engines render above the
// results.
var navTabLabels = []string{"全部", "视频", "图片", "地图", "资讯", "更多"}

// navClassTokens flag header-band elements that belong to the navigation
// chrome rather than a result row.
var navClassTokens = []string{"scope", "nav", "tab", "header"}

// isUIChrome reports whether the candidate is part of the engine's own UI
// rather than a result. The AI-panel veto is unconditional: a Copilot link
// repeating the target text is exactly the element that must not win. The
// nav-tab and header vetoes yield to an explicit request, so the user can
// still ask for a tab by name.
func isUIChrome(c *Candidate, q Query) bool {
	blob := strings.ToLower(c.Href) + " " + strings.ToLower(c.Classes)
	for _, tok := range uiChromeTokens {
		if strings.Contains(blob, tok) {
			return true
		}
	}
	if p := pathOf(c.Href); strings.Contains(p, "copilot") || strings.Contains(p, "chat") {
		return true
	}

	if cq := cleanText(q.Target); cq != "" && cleanText(c.Text) == cq && len(q.expected) == 0 {
		return false
	}
	trimmed := strings.TrimSpace(c.Text)
	for _, label := range navTabLabels {
		if trimmed == label {
			return true
		}
	}
	if c.Band == BandHeader {
		cls := strings.ToLower(c.Classes)
		for _, tok := range navClassTokens {
			if strings.Contains(cls, tok) {
				return true
			}
		}
		// A link-resolution query never targets the header row.
		if len(q.expected) > 0 {
			return true
		}
	}
	return false
}

// scoreCandidate runs the rule set. Ad ancestry and UI chrome are vetoes,
// not weights: a sponsored result or a Copilot/nav-tab element scores zero
// no matter what the rules said.
func scoreCandidate(c *Candidate, q Query, rules []Rule) float64 {
	if c.AdAncestor || isUIChrome(c, q) {
		return 0
	}
	var total float64
	for _, rule := range rules {
		total += rule.Score(c, q)
	}
	return total
}
