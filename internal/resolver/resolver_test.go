// File: internal/resolver/resolver_test.go
package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver() *Resolver {
	return New(zap.NewNop())
}

func TestRootDomainBeatsPersonalSubdomain(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("京东", "打开京东")

	candidates := []Candidate{
		{Text: "京东商城", Href: "https://home.jd.com/", Selector: "#a"},
		{Text: "京东", Href: "https://www.jd.com/", Selector: "#b"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#b", winner.Selector)
	assert.True(t, winner.RootDomain)
}

func TestPersonalIntentAllowsAccountSubdomain(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("京东", "打开我的京东账户")

	candidates := []Candidate{
		{Text: "我的京东", Href: "https://home.jd.com/", Selector: "#home"},
		{Text: "京东", Href: "https://www.jd.com/", Selector: "#www"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	// Ranking still prefers the root host; the point is that home.jd.com is
	// not vetoed and survives with a positive score.
	assert.Equal(t, "#www", winner.Selector)

	home := candidates[0]
	assert.Greater(t, home.Score, 0.0)
}

func TestSponsoredAncestryVetoesCandidate(t *testing.T) {
	q := NewQuery("jd", "open jd")
	ad := Candidate{
		Text:       "京东 - 官网",
		Href:       "https://www.jd.com/",
		AdAncestor: true,
	}

	score := scoreCandidate(&ad, q, defaultRules)
	assert.LessOrEqual(t, score, 0.0)

	r := newTestResolver()
	_, err := r.Resolve(q, []Candidate{ad})
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestOpenAITargetResolvesToOfficialSite(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("openai", "search for openai and open the official site")

	candidates := []Candidate{
		{Text: "OpenAI - Wikipedia", Href: "https://en.wikipedia.org/wiki/OpenAI", Selector: "#wiki"},
		{Text: "OpenAI", Href: "https://openai.com/", Selector: "#official", InHeading: true, Band: BandTop},
		{Text: "OpenAI news", Href: "https://news.ycombinator.com/", Selector: "#hn"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#official", winner.Selector)
}

func TestCitationTrustedOverRedirectHref(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("jd", "open jd")

	candidates := []Candidate{
		// Search engines wrap hrefs in redirects; the citation shows the
		// real destination.
		{Text: "京东商城", Href: "https://www.baidu.com/link?url=abc", Cite: "www.jd.com", Selector: "#wrapped"},
		{Text: "某转载文章 jd 相关", Href: "https://blog.example.com/jd", Selector: "#blog"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#wrapped", winner.Selector)
	assert.True(t, winner.RootDomain)
}

func TestStableOrderPreservedForTies(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("github", "open github")

	candidates := []Candidate{
		{Text: "GitHub", Href: "https://github.com/a", Selector: "#first"},
		{Text: "GitHub", Href: "https://github.com/b", Selector: "#second"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#first", winner.Selector)
}

func TestNoCandidates(t *testing.T) {
	r := newTestResolver()
	_, err := r.Resolve(NewQuery("github", ""), nil)
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestAllAccountHostsReportsNotFound(t *testing.T) {
	r := newTestResolver()
	// The only survivor lives on an account host. It must never be
	// auto-clicked; not-found lets the caller fall back to vision.
	q := NewQuery("示例站", "打开示例站")

	candidates := []Candidate{
		{Text: "示例站", Href: "https://home.example.com/", Selector: "#home"},
	}

	_, err := r.Resolve(q, candidates)
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestPersonalIntentStillPicksAccountHost(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("示例站", "打开我的示例站账户")

	candidates := []Candidate{
		{Text: "示例站", Href: "https://home.example.com/", Selector: "#home"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#home", winner.Selector)
}

func TestCopilotPanelLinkNeverWins(t *testing.T) {
	r := newTestResolver()
	q := NewQuery("github", "搜索github并打开")

	candidates := []Candidate{
		{Text: "github", Href: "https://www.bing.com/copilotsearch?q=github", Selector: "#copilot"},
		{Text: "GitHub", Href: "https://github.com/", Selector: "#real"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#real", winner.Selector)

	// With nothing else on the page the panel still must not resolve.
	_, err = r.Resolve(q, candidates[:1])
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestNavTabAndHeaderChromeVetoed(t *testing.T) {
	q := NewQuery("github", "搜索github并打开")

	tab := Candidate{Text: "图片", Href: "https://www.bing.com/images/search?q=github", Classes: "b_scopelist"}
	assert.Zero(t, scoreCandidate(&tab, q, defaultRules))

	header := Candidate{
		Text:    "github",
		Href:    "https://github.com/",
		Band:    BandHeader,
		Classes: "b_header sb_form",
	}
	assert.Zero(t, scoreCandidate(&header, q, defaultRules))

	// The same link below the header band scores normally.
	result := Candidate{Text: "github", Href: "https://github.com/", Band: BandTop}
	assert.Greater(t, scoreCandidate(&result, q, defaultRules), 0.0)
}

func TestExplicitTabRequestOverridesNavVeto(t *testing.T) {
	r := newTestResolver()
	// No domain expectations for the tab caption itself, so an exact text
	// match may still click the tab.
	q := NewQuery("图片", "点击图片标签")

	candidates := []Candidate{
		{Text: "图片", Href: "https://www.bing.com/images/search?q=x", Selector: "#tab"},
	}

	winner, err := r.Resolve(q, candidates)
	require.NoError(t, err)
	assert.Equal(t, "#tab", winner.Selector)
}

func TestParseCandidates(t *testing.T) {
	raw := []byte(`[{"text":"JD","href":"https://www.jd.com/","selector":"#x","tag":"a","cite":"","inHeading":true,"band":"top","adAncestor":false,"x":100,"y":50}]`)

	cands, err := ParseCandidates(raw)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "JD", cands[0].Text)
	assert.Equal(t, BandTop, cands[0].Band)
	assert.True(t, cands[0].InHeading)
}

func TestParseCandidatesNull(t *testing.T) {
	cands, err := ParseCandidates([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, cands)
}
