package robots

import (
	"testing"
	"time"
)

func TestIsAllowed_AgentPrecedence(t *testing.T) {
	t.Parallel()
	rules := Parse(`User-agent: ltxmd
Disallow: /private

User-agent: *
Allow: /
`)
	if rules.IsAllowed("Mozilla/5.0 (compatible; ltxmd/1.0)", "/private/page") {
		t.Fatalf("expected disallow for ltxmd on /private/page")
	}
	if !rules.IsAllowed("otheragent", "/private/page") {
		t.Fatalf("expected allow for otheragent via wildcard group")
	}
}

func TestIsAllowed_LongestMatch(t *testing.T) {
	t.Parallel()
	rules := Parse(`User-agent: *
Disallow: /html
Allow: /html/public
`)
	if !rules.IsAllowed("any", "/html/public/info") {
		t.Fatalf("expected allow due to longer Allow rule")
	}
	if rules.IsAllowed("any", "/html/2401.00001") {
		t.Fatalf("expected disallow under shorter Disallow")
	}
}

func TestIsAllowed_WildcardsAndAnchors(t *testing.T) {
	t.Parallel()
	rules := Parse(`User-agent: *
Disallow: /*.pdf$
Allow: /public/*.pdf$
Disallow: /*?session=
`)
	tests := []struct {
		path string
		want bool
	}{
		{"/abs/2401.00001.pdf", false},
		{"/public/paper.pdf", true},
		{"/abs/2401.00001.pdf?x=1", true},
		{"/index.html?session=1", false},
		{"/html/2401.00001", true},
	}
	for _, tt := range tests {
		if got := rules.IsAllowed("any", tt.path); got != tt.want {
			t.Fatalf("IsAllowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsAllowed_EmptyDisallowAndNoGroups(t *testing.T) {
	t.Parallel()
	if !Parse("User-agent: *\nDisallow:\n").IsAllowed("any", "/x") {
		t.Fatalf("empty Disallow must not restrict")
	}
	if !(Rules{}).IsAllowed("any", "/x") {
		t.Fatalf("no rules must allow")
	}
	if (Rules{DisallowAll: true}).IsAllowed("any", "/x") {
		t.Fatalf("DisallowAll must refuse")
	}
}

func TestParse_CommentsAndCase(t *testing.T) {
	t.Parallel()
	rules := Parse("# header\nUSER-AGENT: *  # everyone\nDISALLOW: /tmp # scratch\n")
	if len(rules.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(rules.Groups))
	}
	if got := rules.Groups[0].Disallow; len(got) != 1 || got[0] != "/tmp" {
		t.Fatalf("unexpected disallow %q", got)
	}
}

func TestCrawlDelayFor(t *testing.T) {
	t.Parallel()
	rules := Parse(`User-agent: ltxmd
Crawl-delay: 2

User-agent: *
Crawl-delay: 7
`)
	if d := rules.CrawlDelayFor("ltxmd/1.0"); d != 2*time.Second {
		t.Fatalf("expected 2s for ltxmd, got %v", d)
	}
	if d := rules.CrawlDelayFor("other"); d != 7*time.Second {
		t.Fatalf("expected 7s for wildcard, got %v", d)
	}
	if d := Parse("User-agent: *\nDisallow: /x\n").CrawlDelayFor("any"); d != 0 {
		t.Fatalf("expected no delay, got %v", d)
	}
}
