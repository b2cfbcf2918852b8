package sanitize

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"  hello  ":                        "hello",
		"<b>bold</b> text":                 "bold text",
		"<script>alert(1)</script>stays":   "stays",
		"no markup at all":                 "no markup at all",
		"<img src=x onerror=alert(1)>safe": "safe",
		"Tom & Jerry <3":                   "Tom & Jerry <3",
		"a < b && b > c":                   "a < b && b > c",
		"&lt;script&gt;x()&lt;/script&gt;": "",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"  hello  ",
		"<b>bold</b> text",
		"<script>x()</script>plain",
		"already clean",
		"Tom & Jerry <3",
		"&lt;b&gt;entity-encoded markup&lt;/b&gt;",
	}
	for _, in := range inputs {
		once := CleanText(in)
		twice := CleanText(once)
		if once != twice {
			t.Errorf("CleanText not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestContainsURL(t *testing.T) {
	linky := []string{
		"visit http://example.com",
		"visit https://example.com/page",
		"visit www.example.com please",
		"check example.com/path now",
		"bare domain example.com here",
		"sg domain tuition.sg",
		"SHOUTY HTTP://EXAMPLE.COM",
	}
	for _, s := range linky {
		if !ContainsURL(s) {
			t.Errorf("ContainsURL(%q) = false, want true", s)
		}
	}

	clean := []string{
		"great teacher, highly recommend",
		"my son improved from C5 to A1",
		"see ch. 2 of the textbook",
		"ratio was 1.5 per class",
		"",
	}
	for _, s := range clean {
		if ContainsURL(s) {
			t.Errorf("ContainsURL(%q) = true, want false", s)
		}
	}
}

func TestValidateCommentAccumulates(t *testing.T) {
	long := strings.Repeat("a", MaxCommentLen+1)
	reasons := ValidateComment(long+" www.spam.com", "")
	if len(reasons) != 3 {
		t.Fatalf("expected 3 violations (length, URL, empty name), got %d: %v", len(reasons), reasons)
	}
}

func TestValidateCommentLength(t *testing.T) {
	if reasons := ValidateComment(strings.Repeat("x", MaxCommentLen), "amy"); len(reasons) != 0 {
		t.Errorf("comment at limit should pass, got %v", reasons)
	}
	if reasons := ValidateComment(strings.Repeat("x", MaxCommentLen+1), "amy"); len(reasons) == 0 {
		t.Error("comment over limit should fail")
	}
	if reasons := ValidateComment("fine", strings.Repeat("x", MaxUsernameLen+1)); len(reasons) == 0 {
		t.Error("username over limit should fail")
	}

	// Limits count characters, not bytes. 500 CJK characters are 1500
	// bytes and must still pass.
	if reasons := ValidateComment(strings.Repeat("数", MaxCommentLen), "美玲"); len(reasons) != 0 {
		t.Errorf("multi-byte comment at limit should pass, got %v", reasons)
	}
	if reasons := ValidateComment(strings.Repeat("数", MaxCommentLen+1), "amy"); len(reasons) == 0 {
		t.Error("multi-byte comment over limit should fail")
	}
	if reasons := ValidateComment("fine", strings.Repeat("李", MaxUsernameLen+1)); len(reasons) == 0 {
		t.Error("multi-byte username over limit should fail")
	}
}

func TestValidateCommentURL(t *testing.T) {
	for _, s := range []string{"http://a.com", "https://a.com", "www.a.com", "spam.com"} {
		reasons := ValidateComment("go to "+s, "amy")
		found := false
		for _, r := range reasons {
			if strings.Contains(r, "links") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected link violation for %q, got %v", s, reasons)
		}
	}
}
