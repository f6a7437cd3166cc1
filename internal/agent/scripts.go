// File: internal/agent/scripts.go
package agent

import "fmt"

// jsArg renders a Go value as a JSON literal for safe embedding in a script.
// Selectors and text come straight from the model, so naive quoting is not
// an option.
func jsArg(v interface{}) string {
	s, err := json.MarshalToString(v)
	if err != nil {
		return "null"
	}
	return s
}

// inputSelectorLadder is the shared fallback chain for locating a search box
// when the model's selector misses. Ordered by site specificity.
const inputSelectorLadder = `[
	'#query-builder-test',
	'input[data-target="query-builder.input"]',
	'.QueryBuilder-Input',
	'#sb_form_q', 'textarea#sb_form_q',
	'#kw',
	'#key', '#keyword', '.search-text', 'input.search-text',
	'input[name="keyword"]',
	'#q', 'input[name="q"]', 'textarea[name="q"]',
	'input[type="search"]',
	'input[placeholder*="Search"]', 'input[placeholder*="search"]',
	'input[aria-label*="Search"]', 'input[aria-label*="search"]'
]`

// highlightScript scrolls the target into view and draws the agent's blue
// marker box over it so the click is visible in the recording. Any box left
// over from a previous action is replaced first.
func highlightScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var old = document.getElementById('pagepilot-agent-highlight');
		if (old) old.remove();
		var el = document.querySelector(%s);
		if (!el) return { found: false };
		el.scrollIntoView({ behavior: 'smooth', block: 'center' });
		var rect = el.getBoundingClientRect();
		var box = document.createElement('div');
		box.id = 'pagepilot-agent-highlight';
		box.style.cssText = 'position:fixed;pointer-events:none;z-index:2147483647;' +
			'border:4px solid #3b82f6;background:rgba(59,130,246,0.15);border-radius:6px;' +
			'box-shadow:0 0 20px rgba(59,130,246,0.5);transition:all 0.3s;';
		box.style.left = (rect.left - 4) + 'px';
		box.style.top = (rect.top - 4) + 'px';
		box.style.width = (rect.width + 8) + 'px';
		box.style.height = (rect.height + 8) + 'px';
		document.body.appendChild(box);
		return { found: true, x: rect.left + rect.width / 2, y: rect.top + rect.height / 2 };
	})()`, jsArg(selector))
}

// clearHighlightScript lets the marker box linger briefly past the click
// before removing it.
const clearHighlightScript = `(function() {
	setTimeout(function() {
		var box = document.getElementById('pagepilot-agent-highlight');
		if (box) box.remove();
	}, 500);
	return true;
})()`

// navigateScript navigates after a short beat so the click highlight is
// visible before the page unloads.
func navigateScript(href string) string {
	return fmt.Sprintf(`(function() {
		var href = %s;
		setTimeout(function() { window.location.href = href; }, 300);
		return true;
	})()`, jsArg(href))
}

// clickAtScript clicks whatever sits at the point, walking up to a clickable
// ancestor first. Anchors also get a hard navigation since some pages swallow
// synthetic clicks.
func clickAtScript(x, y float64) string {
	return fmt.Sprintf(`(function() {
		var el = document.elementFromPoint(%s, %s);
		if (!el) return false;
		var target = el;
		while (target && target.tagName !== 'BODY') {
			if (target.tagName === 'BUTTON' || target.tagName === 'A' ||
				target.getAttribute('role') === 'button' || target.onclick) {
				break;
			}
			target = target.parentElement;
		}
		if (!target || target.tagName === 'BODY') target = el;
		target.click();
		try {
			target.dispatchEvent(new MouseEvent('mousedown', { bubbles: true }));
			target.dispatchEvent(new MouseEvent('mouseup', { bubbles: true }));
		} catch (e) {}
		var link = target;
		while (link && link.tagName !== 'A' && link.parentElement) {
			link = link.parentElement;
		}
		if (link && link.tagName === 'A' && link.href) {
			window.location.href = link.href;
		}
		return true;
	})()`, jsArg(x), jsArg(y))
}

// findButtonScript scores visible button-like elements against the wanted
// text and returns the center of the best match. Exact text wins, then
// substring matches, then domain synonyms like 加购 for 购物车. Occluded
// elements are skipped so we never aim at something under an overlay.
func findButtonScript(text string, fallbacks []string) string {
	if fallbacks == nil {
		fallbacks = []string{}
	}
	return fmt.Sprintf(`(function() {
		var targetText = %s.toLowerCase().trim();
		var fallbacks = %s;
		var commonSelectors = [
			'#InitCartUrl', '.btn-special1', '#choose-btn-append',
			'.J_LinkAdd', '#J_AddCart', '.tb-btn-buy', '.tm-btn-buy',
			'#buy-now', '.buy-now', '[class*="buy-now"]', '.btn-buy',
			'#InitBuyUrl', '.J_LinkBuy',
			'.btn-primary', '.btn-submit', '.btn-confirm',
			'button[type="submit"]', 'input[type="submit"]'
		];
		var candidates = [];

		var all = document.querySelectorAll('button, a, div, span, input[type="button"], input[type="submit"], [role="button"], [class*="btn"], [class*="button"]');
		for (var i = 0; i < all.length; i++) {
			var el = all[i];
			var elText = (el.textContent || el.value || '').toLowerCase().trim();
			var rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) continue;
			if (rect.top < 0 || rect.top > window.innerHeight) continue;

			var cx = rect.left + rect.width / 2;
			var cy = rect.top + rect.height / 2;
			var topEl = document.elementFromPoint(cx, cy);
			if (!topEl) continue;
			if (!el.contains(topEl) && !topEl.contains(el) && topEl !== el) continue;

			var score = 0;
			if (elText === targetText) {
				score += 1000;
			} else if (elText.indexOf(targetText) !== -1) {
				score += 500;
				if (elText.length < 20) score += 100;
				if (elText.length < 10) score += 50;
			} else if (targetText.indexOf('购物车') !== -1 && (elText.indexOf('加购') !== -1 || elText.indexOf('购物车') !== -1)) {
				score += 400;
			} else if (targetText.indexOf('购买') !== -1 && elText.indexOf('购买') !== -1) {
				score += 400;
			}
			if (score === 0) continue;

			if (el.tagName === 'BUTTON') score += 50;
			if (el.tagName === 'A') score += 30;
			if (el.getAttribute('role') === 'button') score += 40;
			var cls = (typeof el.className === 'string' ? el.className : '').toLowerCase();
			if (cls.indexOf('cart') !== -1) score += 100;
			if (cls.indexOf('buy') !== -1) score += 100;
			if (cls.indexOf('add') !== -1) score += 50;
			if (cls.indexOf('btn') !== -1) score += 30;
			if (cls.indexOf('primary') !== -1) score += 20;
			if (rect.width > 50 && rect.height > 20) score += 30;

			candidates.push({ rect: rect, score: score, text: elText.slice(0, 50) });
		}

		if (candidates.length === 0) {
			for (var i = 0; i < commonSelectors.length; i++) {
				try {
					var btns = document.querySelectorAll(commonSelectors[i]);
					for (var j = 0; j < btns.length; j++) {
						var btn = btns[j];
						var rect = btn.getBoundingClientRect();
						if (rect.width > 0 && rect.height > 0 && rect.top > 0 && rect.top < window.innerHeight) {
							var t = (btn.textContent || btn.value || '').toLowerCase().trim();
							if (t.indexOf(targetText) !== -1 || targetText.indexOf(t) !== -1 || t.length < 20) {
								candidates.push({ rect: rect, score: 200, text: t.slice(0, 50) });
							}
						}
					}
				} catch (e) {}
			}
		}

		for (var i = 0; i < fallbacks.length; i++) {
			try {
				var btn = document.querySelector(fallbacks[i]);
				if (btn) {
					var rect = btn.getBoundingClientRect();
					if (rect.width > 0 && rect.height > 0) {
						candidates.push({ rect: rect, score: 150, text: (btn.textContent || '').slice(0, 50) });
					}
				}
			} catch (e) {}
		}

		candidates.sort(function(a, b) { return b.score - a.score; });
		if (candidates.length === 0) return { found: false };
		var best = candidates[0];
		return {
			found: true,
			x: best.rect.left + best.rect.width / 2,
			y: best.rect.top + best.rect.height / 2,
			text: best.text
		};
	})()`, jsArg(text), jsArg(fallbacks))
}

// searchButtonInfoScript reports where the search button is so the pointer
// can aim at it before the scripted click.
const searchButtonInfoScript = `(function() {
	var selectors = [
		'#search_icon', '#sb_form_go', 'input[type="submit"]#sb_form_go',
		'svg.search', 'button[aria-label*="Search"]', 'button[aria-label*="search"]',
		'#su', 'input#su',
		'.button', 'button.button', 'a.button',
		'.form button', '.search button',
		'[class*="search-btn"]', '[class*="search_btn"]',
		'button[type="submit"]', 'input[type="submit"]'
	];
	for (var i = 0; i < selectors.length; i++) {
		var btns = document.querySelectorAll(selectors[i]);
		for (var j = 0; j < btns.length; j++) {
			var btn = btns[j];
			if (btn && btn.offsetWidth > 0 && btn.offsetHeight > 0) {
				var rect = btn.getBoundingClientRect();
				return { found: true, x: rect.left + rect.width / 2, y: rect.top + rect.height / 2 };
			}
		}
	}
	return { found: false };
})()`

// clickSearchButtonScript submits the search. GitHub gets an Enter in its
// query builder since its button is decorative; everyone else gets the
// selector ladder, then Enter on the focused field plus a form submit.
const clickSearchButtonScript = `(function() {
	if (window.location.hostname.includes('github.com')) {
		var searchInput = document.querySelector('#query-builder-test') ||
			document.querySelector('input[data-target="query-builder.input"]') ||
			document.querySelector('.QueryBuilder-Input') ||
			document.activeElement;
		if (searchInput && (searchInput.tagName === 'INPUT' || searchInput.tagName === 'TEXTAREA')) {
			searchInput.focus();
			searchInput.dispatchEvent(new KeyboardEvent('keydown', {
				key: 'Enter', code: 'Enter', keyCode: 13, which: 13, bubbles: true, cancelable: true
			}));
			var ghForm = searchInput.closest('form');
			if (ghForm) ghForm.submit();
			return { clicked: true };
		}
	}

	var selectors = [
		'#search_icon', '#sb_form_go', 'input[type="submit"]#sb_form_go',
		'svg.search', 'button[aria-label*="Search"]', 'button[aria-label*="search"]',
		'#su', 'input#su',
		'.button', 'button.button', 'a.button',
		'.form button', '.search button',
		'[class*="search-btn"]', '[class*="search_btn"]',
		'.search-btn', '.btn-search',
		'.form-search-btn', '.search-button',
		'button[clstag*="search"]',
		'input[name="btnK"]',
		'button[type="submit"]', 'input[type="submit"]',
		'.submit', '.search-submit',
		'form button:not([type="reset"])',
		'form input[type="button"]'
	];
	for (var i = 0; i < selectors.length; i++) {
		var btns = document.querySelectorAll(selectors[i]);
		for (var j = 0; j < btns.length; j++) {
			var btn = btns[j];
			if (btn && btn.offsetWidth > 0 && btn.offsetHeight > 0) {
				btn.click();
				return { clicked: true };
			}
		}
	}

	var activeEl = document.activeElement;
	if (activeEl && (activeEl.tagName === 'INPUT' || activeEl.tagName === 'TEXTAREA')) {
		activeEl.dispatchEvent(new KeyboardEvent('keydown', {
			key: 'Enter', code: 'Enter', keyCode: 13, which: 13, bubbles: true
		}));
		var form = activeEl.closest('form');
		if (form) form.submit();
		return { clicked: true };
	}
	return { clicked: false };
})()`

// searchVerifyScript checks whether the search actually went through.
const searchVerifyScript = `(function() {
	var url = window.location.href;
	var hasResults = document.querySelectorAll('.search-result, .b_algo, .g, [class*="result"], .repo-list, .codesearch-results, #J_goodsList').length > 0;
	var urlChanged = url.includes('search') || url.includes('query') || url.includes('?q=') || url.includes('?s=');
	return { url: url, hasResults: hasResults, urlChanged: urlChanged };
})()`

// findInputScript locates the search box for pointer aiming. The model's
// selector is tried first, then the common ladder.
func findInputScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var selectors = [%s].concat(%s);
		for (var i = 0; i < selectors.length; i++) {
			if (!selectors[i]) continue;
			var el;
			try { el = document.querySelector(selectors[i]); } catch (e) { continue; }
			if (el && el.offsetWidth > 0 && el.offsetHeight > 0) {
				var rect = el.getBoundingClientRect();
				return { found: true, x: rect.left + rect.width / 2, y: rect.top + rect.height / 2 };
			}
		}
		return { found: false };
	})()`, jsArg(selector), inputSelectorLadder)
}

// searchTriggerScript opens GitHub's search modal. The real input only
// exists after the trigger button is clicked.
const searchTriggerScript = `(function() {
	if (!window.location.hostname.includes('github.com')) return false;
	var triggers = [
		'button[data-target="qbsearch-input.inputButton"]',
		'.header-search-button',
		'.header-search-input',
		'[data-hotkey="s,/"]',
		'button.header-search-button'
	];
	for (var i = 0; i < triggers.length; i++) {
		var trigger = document.querySelector(triggers[i]);
		if (trigger && trigger.offsetWidth > 0) {
			trigger.click();
			return true;
		}
	}
	return false;
})()`

// setInputValueScript fills the field through the native value setter so
// React and Vue controlled inputs pick the change up, then fires the event
// set frameworks listen for.
func setInputValueScript(selector, text string) string {
	return fmt.Sprintf(`(function() {
		var el;
		try { el = document.querySelector(%s); } catch (e) {}
		if (!el || el.offsetWidth === 0) {
			var selectors = %s;
			for (var i = 0; i < selectors.length; i++) {
				var found;
				try { found = document.querySelector(selectors[i]); } catch (e) { continue; }
				if (found && found.offsetWidth > 0 && (found.tagName === 'INPUT' || found.tagName === 'TEXTAREA')) {
					el = found;
					break;
				}
			}
		}
		if (!el) return { success: false };

		el.scrollIntoView({ behavior: 'smooth', block: 'center' });
		el.click();
		el.focus();
		el.select();

		var text = %s;
		try {
			var proto = el.tagName === 'TEXTAREA' ? HTMLTextAreaElement : HTMLInputElement;
			var nativeSetter = Object.getOwnPropertyDescriptor(proto.prototype, 'value').set;
			nativeSetter.call(el, text);
		} catch (e) {
			el.value = text;
		}
		el.dispatchEvent(new Event('input', { bubbles: true, cancelable: true }));
		el.dispatchEvent(new Event('change', { bubbles: true, cancelable: true }));
		el.dispatchEvent(new KeyboardEvent('keydown', { bubbles: true }));
		el.dispatchEvent(new KeyboardEvent('keyup', { bubbles: true }));
		return { success: true, actualValue: el.value };
	})()`, jsArg(selector), inputSelectorLadder, jsArg(text))
}

// verifyInputScript confirms some visible field now holds the text.
func verifyInputScript(text string) string {
	return fmt.Sprintf(`(function() {
		var text = %s;
		var inputs = document.querySelectorAll('input, textarea');
		for (var i = 0; i < inputs.length; i++) {
			if (inputs[i].value && inputs[i].value.includes(text)) {
				return { verified: true, value: inputs[i].value };
			}
		}
		return { verified: false };
	})()`, jsArg(text))
}

// focusInputScript focuses the field Enter should land in.
func focusInputScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var el;
		try { el = document.querySelector(%s); } catch (e) {}
		if (!el || el.offsetWidth === 0) {
			var selectors = %s;
			for (var i = 0; i < selectors.length; i++) {
				var found;
				try { found = document.querySelector(selectors[i]); } catch (e) { continue; }
				if (found && found.offsetWidth > 0) { el = found; break; }
			}
		}
		if (!el) return false;
		el.focus();
		var opts = { key: 'Enter', code: 'Enter', keyCode: 13, which: 13, bubbles: true, cancelable: true };
		el.dispatchEvent(new KeyboardEvent('keydown', opts));
		el.dispatchEvent(new KeyboardEvent('keypress', opts));
		el.dispatchEvent(new KeyboardEvent('keyup', opts));
		return true;
	})()`, jsArg(selector), inputSelectorLadder)
}

// submitFallbackScript clicks a submit button or submits the enclosing form
// for pages that ignore the synthetic Enter.
func submitFallbackScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var btnSelectors = [
			'#search_icon', '#sb_search', '#su', 'input#su',
			'.btn-search', '.search-btn',
			'.form-search-btn', '.search-button',
			'[class*="search"][class*="btn"]',
			'button[type="submit"]', 'input[type="submit"]'
		];
		for (var i = 0; i < btnSelectors.length; i++) {
			var btns = document.querySelectorAll(btnSelectors[i]);
			for (var j = 0; j < btns.length; j++) {
				var btn = btns[j];
				if (btn && btn.offsetWidth > 0 && btn.offsetHeight > 0) {
					btn.click();
					return { clicked: true };
				}
			}
		}
		var el;
		try { el = document.querySelector(%s); } catch (e) {}
		if (!el) el = document.activeElement;
		if (el) {
			var form = el.closest('form');
			if (form) {
				try { form.submit(); return { clicked: true }; } catch (e) {}
			}
		}
		return { clicked: false };
	})()`, jsArg(selector))
}

// verifyStateScript snapshots the page for verify_action.
const verifyStateScript = `(function() {
	var result = {
		url: window.location.href,
		title: document.title,
		hostname: window.location.hostname,
		hasSearchResults: false,
		inputValues: {},
		errorMessages: []
	};
	var resultIndicators = [
		'.search-results', '.results', '[class*="result"]',
		'.repo-list', '.codesearch-results',
		'#J_goodsList', '.gl-item',
		'.s-result-list',
		'#b_results', '.b_algo'
	];
	for (var i = 0; i < resultIndicators.length; i++) {
		if (document.querySelector(resultIndicators[i])) {
			result.hasSearchResults = true;
			break;
		}
	}
	var inputs = document.querySelectorAll('input[type="text"], input[type="search"], textarea');
	inputs.forEach(function(input, idx) {
		if (input.value && input.offsetWidth > 0) {
			result.inputValues[input.id || input.name || 'input_' + idx] = input.value;
		}
	});
	var errorSelectors = ['.error', '.alert-danger', '.warning', '[class*="error"]', '[class*="404"]'];
	errorSelectors.forEach(function(sel) {
		var errEl = document.querySelector(sel);
		if (errEl && errEl.offsetWidth > 0) {
			result.errorMessages.push(errEl.textContent.slice(0, 100));
		}
	});
	return result;
})()`

// analyzePageScript classifies the page and enumerates what can be acted on.
const analyzePageScript = `(function() {
	var result = {
		url: window.location.href,
		title: document.title,
		pageType: 'unknown',
		searchInputs: [],
		buttons: [],
		links: [],
		state: { hasSearchResults: false, hasLoginForm: false },
		suggestions: []
	};

	var url = window.location.href.toLowerCase();
	var title = document.title.toLowerCase();
	if (url.includes('search') || url.includes('query') || url.includes('?q=')) {
		result.pageType = 'search_results';
	} else if (url.includes('login') || url.includes('signin') || title.includes('login')) {
		result.pageType = 'login';
	} else if (url.includes('cart') || url.includes('checkout')) {
		result.pageType = 'shopping';
	} else if (document.querySelectorAll('article, .post, .content').length > 0) {
		result.pageType = 'content';
	} else if (url === 'about:blank' || url.includes('bing.com') || url.includes('google.com') || url.includes('baidu.com')) {
		result.pageType = 'search_engine';
	} else {
		result.pageType = 'general';
	}

	var inputs = document.querySelectorAll('input[type="text"], input[type="search"], input:not([type]), textarea');
	inputs.forEach(function(inp) {
		if (inp.offsetWidth > 0) {
			result.searchInputs.push({
				selector: inp.id ? '#' + inp.id : (inp.name ? '[name="' + inp.name + '"]' : inp.className),
				placeholder: inp.placeholder || '',
				value: inp.value || ''
			});
		}
	});

	var buttons = document.querySelectorAll('button, input[type="submit"], [role="button"]');
	buttons.forEach(function(btn) {
		if (btn.offsetWidth > 0 && btn.offsetHeight > 0) {
			var rect = btn.getBoundingClientRect();
			if (rect.top > 0 && rect.top < window.innerHeight) {
				var text = (btn.textContent || btn.value || '').slice(0, 30).trim();
				if (text) result.buttons.push(text);
			}
		}
	});

	var links = document.querySelectorAll('a[href]');
	var linkCount = 0;
	links.forEach(function(link) {
		if (linkCount < 5 && link.offsetWidth > 0 && link.offsetHeight > 0) {
			var rect = link.getBoundingClientRect();
			if (rect.top > 50 && rect.top < window.innerHeight) {
				var text = (link.textContent || '').slice(0, 40).trim();
				if (text.length > 2) {
					result.links.push(text);
					linkCount++;
				}
			}
		}
	});

	result.state.hasSearchResults = document.querySelectorAll('.search-result, .b_algo, .g, [class*="result"]').length > 0;
	result.state.hasLoginForm = document.querySelectorAll('input[type="password"]').length > 0;

	if (result.searchInputs.length > 0) {
		result.suggestions.push('Use input_text with selector: ' + result.searchInputs[0].selector);
	}
	if (result.state.hasSearchResults) {
		result.suggestions.push('Search results are visible. Use click_text to select a result.');
	}
	if (result.pageType === 'search_engine') {
		result.suggestions.push('This is a search engine. Type search query and submit.');
	}
	return result;
})()`

// scanElementsScript lists the visible interactive elements.
const scanElementsScript = `(function() {
	var result = { inputs: [], buttons: [], links: [] };
	document.querySelectorAll('input, textarea').forEach(function(el) {
		if (el.offsetWidth > 0 && el.offsetHeight > 0) {
			result.inputs.push({
				type: el.type || 'text',
				id: el.id || '',
				name: el.name || '',
				placeholder: el.placeholder || ''
			});
		}
	});
	document.querySelectorAll('button, input[type="submit"], input[type="button"], [role="button"]').forEach(function(el) {
		if (el.offsetWidth > 0 && el.offsetHeight > 0) {
			result.buttons.push({
				text: (el.textContent || el.value || '').slice(0, 30).trim(),
				id: el.id || '',
				className: (typeof el.className === 'string' ? el.className : '').split(' ')[0]
			});
		}
	});
	var linkCount = 0;
	document.querySelectorAll('a[href]').forEach(function(el) {
		if (linkCount < 15 && el.offsetWidth > 0) {
			var text = (el.textContent || '').slice(0, 40).trim();
			if (text.length > 2) {
				result.links.push({ text: text });
				linkCount++;
			}
		}
	});
	return result;
})()`

// pageContentScript extracts the main text, preferring a main/article
// container over the whole body.
func pageContentScript(maxLength int) string {
	return fmt.Sprintf(`(function() {
		var main = document.querySelector('main, article, .content, .main, #content, #main');
		var text = main ? main.innerText : document.body.innerText;
		text = text.replace(/\s+/g, ' ').trim();
		return {
			title: document.title,
			content: text.slice(0, %d),
			totalLength: text.length
		};
	})()`, maxLength)
}

// findElementScript matches interactive elements against the description's
// keywords and returns up to five with usable selectors.
func findElementScript(description string) string {
	return fmt.Sprintf(`(function() {
		var desc = %s.toLowerCase();
		var keywords = desc.split(' ');
		var found = [];
		var all = document.querySelectorAll('button, a, input, [role="button"], label');
		all.forEach(function(el) {
			if (el.offsetWidth === 0 || el.offsetHeight === 0) return;
			var text = (el.textContent || el.placeholder || el.value || el.ariaLabel || '').toLowerCase();
			var id = (el.id || '').toLowerCase();
			var cls = (typeof el.className === 'string' ? el.className : '').toLowerCase();
			var match = false;
			keywords.forEach(function(kw) {
				if (kw && (text.includes(kw) || id.includes(kw) || cls.includes(kw))) match = true;
			});
			if (!match) return;
			var selector;
			if (el.id) selector = '#' + el.id;
			else if (el.name) selector = '[name="' + el.name + '"]';
			else selector = el.tagName.toLowerCase() + (cls ? '.' + cls.split(' ')[0] : '');
			found.push({
				tag: el.tagName,
				text: (el.textContent || '').slice(0, 30).trim(),
				selector: selector
			});
		});
		return found.slice(0, 5);
	})()`, jsArg(description))
}

// checkElementScript reports existence, visibility and position.
func checkElementScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var el;
		try { el = document.querySelector(%s); } catch (e) {}
		if (!el) return { exists: false };
		var rect = el.getBoundingClientRect();
		var visible = el.offsetWidth > 0 && el.offsetHeight > 0 &&
			rect.top >= 0 && rect.top < window.innerHeight;
		return {
			exists: true,
			visible: visible,
			tag: el.tagName,
			text: (el.textContent || el.value || '').slice(0, 30).trim(),
			top: Math.round(rect.top),
			left: Math.round(rect.left)
		};
	})()`, jsArg(selector))
}

// imgInfoScript finds the image and reports its viewport geometry so the
// vision prompt can point at the right region.
func imgInfoScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var img;
		try { img = document.querySelector(%s); } catch (e) {}
		if (!img) return { found: false };
		var rect = img.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) return { found: false };
		img.scrollIntoView({ behavior: 'instant', block: 'center' });
		rect = img.getBoundingClientRect();
		return {
			found: true,
			x: rect.left,
			y: rect.top,
			width: rect.width,
			height: rect.height
		};
	})()`, jsArg(selector))
}

func imgExistsScript(selector string) string {
	return fmt.Sprintf(`(function() {
		var img;
		try { img = document.querySelector(%s); } catch (e) { return false; }
		return !!(img && img.offsetWidth > 0);
	})()`, jsArg(selector))
}

// pageBottomScript is true once the viewport has reached the end of the page.
const pageBottomScript = `window.scrollY + window.innerHeight >= document.body.scrollHeight - 10`

// retryInputScript surveys visible text inputs for retry_with_alternative.
const retryInputScript = `(function() {
	var allInputs = document.querySelectorAll('input[type="text"], input[type="search"], input:not([type]), textarea');
	for (var i = 0; i < allInputs.length; i++) {
		var inp = allInputs[i];
		if (inp.offsetWidth > 0 && inp.offsetHeight > 0) {
			var rect = inp.getBoundingClientRect();
			if (rect.top > 0 && rect.top < window.innerHeight) {
				inp.click();
				inp.focus();
				return { found: true, element: inp.id || inp.className || inp.tagName };
			}
		}
	}
	return { found: false };
})()`

// retryClickScript lists visible clickable elements for retry_with_alternative.
const retryClickScript = `(function() {
	var clickables = document.querySelectorAll('button, a, [role="button"], [onclick]');
	var visible = [];
	clickables.forEach(function(el) {
		if (el.offsetWidth > 0 && el.offsetHeight > 0) {
			var rect = el.getBoundingClientRect();
			if (rect.top > 50 && rect.top < window.innerHeight) {
				visible.push({
					tag: el.tagName,
					text: (el.textContent || '').slice(0, 30),
					className: (typeof el.className === 'string' ? el.className : '')
				});
			}
		}
	});
	return { visibleButtons: visible.slice(0, 10) };
})()`

// retrySearchScript inspects the search form for retry_with_alternative.
const retrySearchScript = `(function() {
	var forms = document.querySelectorAll('form');
	var searchForm = null;
	forms.forEach(function(form) {
		if ((form.action && form.action.includes('search')) ||
			form.querySelector('input[type="search"]') ||
			(form.id && form.id.includes('search'))) {
			searchForm = form;
		}
	});
	if (!searchForm) return { found: false };
	return {
		found: true,
		formId: searchForm.id,
		inputCount: searchForm.querySelectorAll('input').length,
		buttonCount: searchForm.querySelectorAll('button, input[type="submit"]').length
	};
})()`
