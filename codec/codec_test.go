package codec

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"plain",
		"site-A1-AABBCCDDEEFF",
		"a/b/c",
		"what?&when",
		`quo"ted'`,
		"<script>alert(1)</script>",
		"spaces and\ttabs",
		"percent%20literal",
		"multi-byte: 温度センサー Ünïcødé",
		"nodes/../../etc",
	}
	for _, raw := range cases {
		enc := EncodeSegment(raw)
		got, err := DecodeSegment(enc)
		if err != nil {
			t.Errorf("DecodeSegment(%q): %v", enc, err)
			continue
		}
		if got != raw {
			t.Errorf("round trip %q -> %q -> %q", raw, enc, got)
		}
	}
}

func TestEncodeSegmentNoReservedChars(t *testing.T) {
	enc := EncodeSegment(`a/b?c&d"e'f<g>h`)
	for _, c := range []string{"/", "?", `"`, "<", ">"} {
		if containsStr(enc, c) {
			t.Errorf("encoded segment %q still contains %q", enc, c)
		}
	}
}

func containsStr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestEscapeMarkup(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a&b", "a&amp;b"},
		{"<b>", "&lt;b&gt;"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#039;s"},
		{`<img src="x" onerror='y'>`, "&lt;img src=&quot;x&quot; onerror=&#039;y&#039;&gt;"},
	}
	for _, c := range cases {
		if got := EscapeMarkup(c.in); got != c.want {
			t.Errorf("EscapeMarkup(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeMarkupIsNotDecode(t *testing.T) {
	// EscapeMarkup must not be used to invert EncodeSegment.
	raw := "a&b"
	if EscapeMarkup(EncodeSegment(raw)) == raw {
		t.Fatal("escape should not invert encode")
	}
}
