// File: internal/resolver/domain.go
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// knownDomains maps cleaned site names to the registrable domains they may
// legitimately resolve to. A miss falls back to "<name>.com".
var knownDomains = map[string][]string{
	"jd":        {"jd.com"},
	"jingdong":  {"jd.com"},
	"京东":        {"jd.com"},
	"taobao":    {"taobao.com", "tmall.com"},
	"淘宝":        {"taobao.com", "tmall.com"},
	"tmall":     {"tmall.com"},
	"天猫":        {"tmall.com"},
	"github":    {"github.com"},
	"amazon":    {"amazon.com", "amazon.cn"},
	"google":    {"google.com"},
	"baidu":     {"baidu.com"},
	"百度":        {"baidu.com"},
	"bing":      {"bing.com"},
	"必应":        {"bing.com"},
	"谷歌":        {"google.com"},
	"microsoft": {"microsoft.com"},
	"微软":        {"microsoft.com"},
	"apple":     {"apple.com"},
	"苹果":        {"apple.com"},
	"亚马逊":       {"amazon.cn", "amazon.com"},
	"facebook":  {"facebook.com"},
	"twitter":   {"twitter.com", "x.com"},
	"youtube":   {"youtube.com"},
	"bilibili":  {"bilibili.com"},
	"哔哩哔哩":      {"bilibili.com"},
	"b站":        {"bilibili.com"},
	"openai":    {"openai.com"},
	"zhihu":     {"zhihu.com"},
	"知乎":        {"zhihu.com"},
	"weibo":     {"weibo.com"},
	"微博":        {"weibo.com"},
}

// badSubdomainPrefixes mark hosts that lead to account areas rather than the
// site's landing page. They are penalized unless the user asked for one.
var badSubdomainPrefixes = []string{
	"home.", "my.", "user.", "account.", "login.", "passport.",
	"member.", "profile.", "center.", "i.", "u.", "sso.", "auth.",
}

// personalPageKeywords signal the user actually wants an account area.
var personalPageKeywords = []string{
	"个人", "账户", "账号", "我的", "登录", "登陆", "home page", "my page",
	"account", "profile", "sign in", "log in",
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9\p{Han}]+`)

// cleanText lowercases and strips separators for name matching.
func cleanText(s string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// expectedDomains resolves the target text to the registrable domains a
// matching link should live on.
func expectedDomains(target string) []string {
	cleaned := cleanText(target)
	if cleaned == "" {
		return nil
	}
	if domains, ok := knownDomains[cleaned]; ok {
		return domains
	}
	// Only ASCII names can be guessed as <name>.com.
	if regexp.MustCompile(`^[a-z0-9]+$`).MatchString(cleaned) {
		return []string{cleaned + ".com"}
	}
	return nil
}

// wantsPersonalPage reports whether the instruction asks for an account area.
func wantsPersonalPage(instruction string) bool {
	low := strings.ToLower(instruction)
	for _, kw := range personalPageKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

// hostOf extracts the lowercase hostname of a URL, or of a bare citation
// string like "www.jd.com › category".
func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return strings.ToLower(u.Hostname())
	}
	// Citation text: take the first whitespace/separator-delimited token.
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '›' || r == '>' || r == '/'
	})
	if len(fields) == 0 {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(fields[0], "https://"))
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

// pathOf extracts the lowercase URL path, or "" for unparseable input.
func pathOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Path)
}

// registrableDomain reduces a host to its eTLD+1, e.g. home.jd.com -> jd.com.
func registrableDomain(host string) string {
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// isRootHost reports whether the host is the site's landing host: the bare
// registrable domain or its www form.
func isRootHost(host string) bool {
	domain := registrableDomain(host)
	return host == domain || host == "www."+domain
}

// hasBadSubdomainPrefix reports whether the host starts with an account-area
// prefix like home. or login.
func hasBadSubdomainPrefix(host string) bool {
	for _, prefix := range badSubdomainPrefixes {
		if strings.HasPrefix(host, prefix) {
			return true
		}
	}
	return false
}

// domainMatches reports whether the host belongs to one of the expected
// registrable domains.
func domainMatches(host string, expected []string) bool {
	domain := registrableDomain(host)
	for _, want := range expected {
		if domain == want {
			return true
		}
	}
	return false
}
