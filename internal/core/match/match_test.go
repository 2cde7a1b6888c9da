package match

import "testing"

func TestMatch_Table(t *testing.T) {
	m := New([]string{"denied claim", "c&p exam", "rating decision"})

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "exact lowercase",
			text: "my denied claim is back",
			want: "denied claim",
			ok:   true,
		},
		{
			name: "mixed case text",
			text: "They DENIED CLAIM number two",
			want: "denied claim",
			ok:   true,
		},
		{
			name: "title case",
			text: "Denied Claim after the appeal",
			want: "denied claim",
			ok:   true,
		},
		{
			name: "punctuation in keyword",
			text: "went to my C&P Exam yesterday",
			want: "c&p exam",
			ok:   true,
		},
		{
			name: "first keyword by list order wins",
			text: "denied claim after the c&p exam",
			want: "denied claim",
			ok:   true,
		},
		{
			name: "substring inside larger word still counts",
			text: "rating decisions arrived",
			want: "rating decision",
			ok:   true,
		},
		{
			name: "no match",
			text: "just saying hello",
			ok:   false,
		},
		{
			name: "empty text",
			text: "",
			ok:   false,
		},
		{
			name: "whitespace only text",
			text: "   \t\n ",
			ok:   false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Match(tc.text)
			if ok != tc.ok {
				t.Fatalf("Match(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Match(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestMatch_ReturnsOriginalCasing(t *testing.T) {
	m := New([]string{"Denied Claim"})
	got, ok := m.Match("my denied claim")
	if !ok || got != "Denied Claim" {
		t.Fatalf("got (%q, %v), want the keyword as configured", got, ok)
	}
}

func TestNew_DropsBlankEntriesKeepsOrder(t *testing.T) {
	m := New([]string{"  ", "ptsd", "", "tinnitus", "\t"})
	kws := m.Keywords()
	if len(kws) != 2 || kws[0] != "ptsd" || kws[1] != "tinnitus" {
		t.Fatalf("Keywords() = %v, want [ptsd tinnitus]", kws)
	}
}

func TestMatch_EmptyMatcherNeverMatches(t *testing.T) {
	m := New(nil)
	if _, ok := m.Match("denied claim everywhere"); ok {
		t.Fatal("empty matcher must not match anything")
	}
}

func TestMatch_UnicodeFolding(t *testing.T) {
	m := New([]string{"straße"})
	if _, ok := m.Match("the STRASSE case"); !ok {
		t.Fatal("case folding should equate straße and STRASSE")
	}
}
