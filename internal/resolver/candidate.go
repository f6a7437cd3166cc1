// File: internal/resolver/candidate.go
// Package resolver turns a fuzzy text target ("click the JD link") into a
// concrete page element. Clickable elements are harvested from the DOM,
// scored by a set of pure weighted rules, and ranked so that official
// landing pages beat personal-area subdomains and sponsored results.
package resolver

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Band positions a candidate vertically in the viewport at harvest time.
type Band string

const (
	// BandHeader covers the engine's own chrome above the results.
	BandHeader Band = "header"
	BandTop    Band = "top"
	BandMiddle Band = "middle"
	BandBottom Band = "bottom"
)

// Candidate is one clickable element harvested from the page.
type Candidate struct {
	Text     string  `json:"text"`
	Href     string  `json:"href"`
	Selector string  `json:"selector"`
	Tag      string  `json:"tag"`
	// Cite is the visible citation text of the enclosing search result, when
	// present. Search engines render the true destination there, so it is
	// trusted over the (often redirect-wrapped) href.
	Cite      string `json:"cite"`
	InHeading bool   `json:"inHeading"`
	Band      Band   `json:"band"`
	// Classes concatenates the element's own class/id with those of its
	// five nearest ancestors, lowercased, for UI-chrome detection.
	Classes    string  `json:"classes"`
	AdAncestor bool    `json:"adAncestor"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Top        float64 `json:"top"`

	// Ranking state, populated by the resolver.
	Score         float64 `json:"-"`
	MatchedDomain bool    `json:"-"`
	RootDomain    bool    `json:"-"`
}

// HarvestScript collects candidate elements from the live page. It returns a
// JSON array matching the Candidate shape.
const HarvestScript = `(function() {
	const out = [];
	const adMarkers = ['ad', 'ads', 'advert', 'sponsor', 'sponsored', 'promotion', 'promoted', 'ec_tuiguang', 'tuiguang'];
	const hasAdAncestor = (node) => {
		for (let el = node; el && el !== document.body; el = el.parentElement) {
			const cls = ((el.className || '') + ' ' + (el.id || '') + ' ' + (el.getAttribute('data-testid') || '')).toLowerCase();
			if (adMarkers.some(m => cls.split(/[\s_-]+/).includes(m))) return true;
		}
		return false;
	};
	const cssPath = (el) => {
		if (el.id) return '#' + CSS.escape(el.id);
		const parts = [];
		for (let node = el; node && node.nodeType === 1 && parts.length < 6; node = node.parentElement) {
			let part = node.localName;
			if (node.id) { parts.unshift('#' + CSS.escape(node.id)); break; }
			const siblings = node.parentElement ? Array.from(node.parentElement.children).filter(c => c.localName === node.localName) : [];
			if (siblings.length > 1) part += ':nth-of-type(' + (siblings.indexOf(node) + 1) + ')';
			parts.unshift(part);
		}
		return parts.join(' > ');
	};
	const classChain = (node) => {
		let acc = '';
		let el = node;
		for (let i = 0; i < 6 && el; i++, el = el.parentElement) {
			acc += ' ' + (typeof el.className === 'string' ? el.className : '') + ' ' + (el.id || '');
		}
		return acc.toLowerCase().trim();
	};
	const viewH = window.innerHeight;
	const nodes = document.querySelectorAll('a, button, [role="button"], [role="link"], [onclick]');
	for (const node of nodes) {
		const text = (node.innerText || node.textContent || '').trim().slice(0, 200);
		const href = node.href || '';
		if (!text && !href) continue;
		const rect = node.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		const container = node.closest('div, li, article, section');
		const cite = container ? (container.querySelector('cite')?.innerText || '').trim() : '';
		let band = 'bottom';
		if (rect.top > 0 && rect.top < 180) band = 'header';
		else if (rect.top < viewH / 3) band = 'top';
		else if (rect.top < (viewH * 2) / 3) band = 'middle';
		out.push({
			text: text,
			href: href,
			selector: cssPath(node),
			tag: node.localName,
			cite: cite,
			inHeading: !!node.closest('h1, h2, h3, h4'),
			band: band,
			classes: classChain(node),
			adAncestor: hasAdAncestor(node),
			x: rect.left + rect.width / 2,
			y: rect.top + rect.height / 2,
			top: rect.top,
		});
		if (out.length >= 200) break;
	}
	return out;
})()`

// ParseCandidates decodes the harvest script's JSON output.
func ParseCandidates(raw []byte) ([]Candidate, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var cands []Candidate
	if err := json.Unmarshal(raw, &cands); err != nil {
		return nil, fmt.Errorf("resolver: failed to decode candidates: %w", err)
	}
	return cands, nil
}
