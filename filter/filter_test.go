package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProfanityFilterTestSuite struct {
	suite.Suite
	filter *ProfanityFilter
}

func (s *ProfanityFilterTestSuite) SetupTest() {
	s.filter = NewProfanityFilter([]string{"darn", "heck", "[a-z0-9]*\\.ru"})
}

func (s *ProfanityFilterTestSuite) TestClean() {

	s.Run("Should replace whole words keeping the surrounding characters", func() {

		cleaned := s.filter.Clean("well darn, that is it")
		s.Require().Equal("well ㏏㏏㏏㏏, that is it", cleaned)
	})

	s.Run("Should replace words that follow each other", func() {

		s.Require().Equal("㏏㏏㏏㏏ ㏏㏏㏏㏏", s.filter.Clean("darn darn"))
		s.Require().Equal("㏏㏏㏏㏏ ㏏㏏㏏㏏ now", s.filter.Clean("darn heck now"))
		s.Require().Equal("㏏㏏㏏㏏,㏏㏏㏏㏏s", s.filter.Clean("darn,hecks"))
	})

	s.Run("Should not match inside longer words", func() {

		for _, text := range []string{"hello world", "checked", "darning", "shecky"} {
			s.Require().Equal(text, s.filter.Clean(text))
			s.Require().False(s.filter.Contains(text), text)
		}
	})

	s.Run("Should catch plurals and case variants", func() {

		s.Require().True(s.filter.Contains("DARNS everywhere"))
		s.Require().True(s.filter.Contains("Heck"))
	})

	s.Run("Should match domain patterns", func() {
		s.Require().True(s.filter.Contains("visit cheap.ru now"))
	})

	s.Run("Should keep first and last character in partial mode", func() {

		f := NewProfanityFilter([]string{"darn"}, WithPartial(), WithReplacements("*"))
		s.Require().Equal("oh d**n", f.Clean("oh darn"))
	})

	s.Run("Should respect case when asked to", func() {

		f := NewProfanityFilter([]string{"darn"}, WithCaseSensitive())
		s.Require().False(f.Contains("DARN"))
		s.Require().True(f.Contains("darn"))
	})
}

func TestProfanityFilterTestSuite(t *testing.T) {
	suite.Run(t, new(ProfanityFilterTestSuite))
}

func TestDefaultClean(t *testing.T) {

	for text, expected := range map[string]string{
		"shit shit":        "㏏㏏㏏㏏ ㏏㏏㏏㏏",
		"casino poker now": "㏏㏏㏏㏏㏏㏏ ㏏㏏㏏㏏ now",
		"hello world":      "hello world",
	} {
		cleaned := Default().Clean(text)
		require.Equal(t, expected, cleaned, text)
		require.False(t, Default().Contains(cleaned), text)
	}
}

func TestContainsProfanity(t *testing.T) {

	require.True(t, ContainsProfanity("Buy VIAGRA today"))
	require.True(t, ContainsProfanity("great deals at pills.ru"))
	require.True(t, ContainsProfanity("массаж"))
	require.False(t, ContainsProfanity("Hello world"))
	require.False(t, ContainsProfanity("void setup() { size(200, 200); }"))
	require.False(t, ContainsProfanity("class Scunthorpe {}"))
}

func TestTooManyLinks(t *testing.T) {

	links := func(n int) string { return strings.Repeat("see http://example.com ", n) }

	var testCases = map[string]struct {
		source, description string
		expected            bool
	}{
		"clean":                     {source: "void draw() {}", description: "a sketch", expected: false},
		"ten source links":          {source: links(10), expected: false},
		"eleven source links":       {source: links(11), expected: true},
		"bbcode link":               {source: "[url=http://spam.example]x[/url]", expected: true},
		"eight description links":   {description: links(8), expected: true},
		"seven description links":   {description: links(7), expected: false},
		"too many links altogether": {source: links(7), description: links(6), expected: true},
		"twelve links altogether":   {source: links(6), description: links(6), expected: false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, TooManyLinks(tc.source, tc.description))
		})
	}
}

func TestIsSuspicious(t *testing.T) {

	require.True(t, IsSuspicious("CheapWatchDeal", "BuyNowCheap"))
	require.False(t, IsSuspicious("Cheap Watch Deal", "BuyNowCheap"), "title has spaces")
	require.False(t, IsSuspicious("CheapWatchDeal", "Buy,NowCheap"), "tags have commas")
	require.False(t, IsSuspicious("Cheapwatchdeal", "BuyNowCheap"), "single capital")
	require.False(t, IsSuspicious("ShortOne", "BuyNowCheap"), "title too short")
	require.False(t, IsSuspicious("CheapWatchDeal", "CheapWatchDealsForToday"), "tags too long")

	require.True(t, NeedsReview("CheapWatchDeal", "BuyNowCheap", "", ""))
	require.True(t, NeedsReview("my sketch", "art", "", "free porn here"))
	require.False(t, NeedsReview("bouncing balls", "physics, balls", "void draw() {}", "balls bouncing"))
}

func TestTextHelpers(t *testing.T) {

	require.Equal(t, "bouncing-balls-2", SanitizeTitle("  Bouncing   Balls #2! "))
	require.Equal(t, "untitled", SanitizeTitle("!!!"))

	require.Equal(t, []string{"art", "physics", "particles", "fun"}, SplitTags("art, physics;#particles fun"))
	require.Empty(t, SplitTags(" , ;"))

	require.Equal(t, "hello", Shorten("hello", 5))
	require.Equal(t, "he...", Shorten("hello world", 5))

	require.Equal(t, "a&nbsp;&lt;&nbsp;b<br>&quot;x&quot;", EscapeSource(" a < b\n\"x\" "))

	require.Equal(t, "<b>bold</b> and alert(1)", StripHTML("<b>bold</b> and <script>alert(1)</script>"))
	require.Equal(t, "<em>x</em>alert(1)", StripHTML("<em>x</em><script>alert(1)</script>"))
	require.Equal(t, `<a href="http://www.sketchpatch.net/view/x">x</a>`, StripHTML(`<a href="http://www.sketchpatch.net/view/x">x</a>`))
	require.Equal(t, "x</a>", StripHTML(`<a href="http://evil.example">x</a>`))
}
