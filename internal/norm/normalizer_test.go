package norm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func builtin(t *testing.T, english bool) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(BuiltinRules(english))
	require.NoError(t, err)
	return n
}

func TestHalfWidthKatakana(t *testing.T) {
	n := builtin(t, false)
	got, err := n.Normalize("ｱﾒﾘｶ", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "アメリカ", got)
}

func TestVoicedCombination(t *testing.T) {
	n := builtin(t, false)
	tests := []struct{ in, want string }{
		{"ｶﾞｷﾞ", "ガギ"},
		{"ﾊﾟﾋﾟ", "パピ"},
		{"ガ", "ガ"}, // full-width base with combining voiced mark
		{"ｳﾞ", "ヴ"},
	}
	for _, tt := range tests {
		got, err := n.Normalize(tt.in, ModeNormalized)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFullWidthASCII(t *testing.T) {
	n := builtin(t, false)
	got, err := n.Normalize("ＡＢＣ１２３", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "abc123", got)
}

func TestIdempotence(t *testing.T) {
	n := builtin(t, true)
	for _, input := range []string{"ｱﾒﾘｶ", "Hello World", "ＫＡＳＵＧＡ", "漢字かなカナ", "ｶﾞｷﾞｸﾞ"} {
		once, err := n.Normalize(input, ModeNormalized)
		require.NoError(t, err)
		twice, err := n.Normalize(once, ModeNormalized)
		require.NoError(t, err)
		require.Equal(t, once, twice, "normalize must be idempotent for %q", input)
	}
}

func TestBothModeAndExtract(t *testing.T) {
	n := builtin(t, false)
	both, err := n.Normalize("ｱﾒﾘｶ", ModeBoth)
	require.NoError(t, err)

	d := DefaultDelimiters()
	units := encodeUTF16(both)
	require.Equal(t, d.D0, units[0], "changed run opens with d0")
	require.Equal(t, d.D2, units[len(units)-1], "and closes with d2")

	orig, err := n.ExtractString(both, ModeOriginal)
	require.NoError(t, err)
	require.Equal(t, "ｱﾒﾘｶ", orig)

	norm, err := n.ExtractString(both, ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "アメリカ", norm)
}

func TestBothModeUnchangedPassesThrough(t *testing.T) {
	n := builtin(t, false)
	both, err := n.Normalize("漢字", ModeBoth)
	require.NoError(t, err)
	require.Equal(t, "漢字", both, "untouched text carries no delimiters")
}

func TestBothModeRoundTripMixed(t *testing.T) {
	n := builtin(t, false)
	input := "漢字ｱﾒﾘｶ123 ＸＹ"
	both, err := n.Normalize(input, ModeBoth)
	require.NoError(t, err)
	orig, err := n.ExtractString(both, ModeOriginal)
	require.NoError(t, err)
	require.Equal(t, input, orig)

	norm, err := n.ExtractString(both, ModeNormalized)
	require.NoError(t, err)
	direct, err := n.Normalize(input, ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, direct, norm)
}

func TestDelimiterValidation(t *testing.T) {
	n := builtin(t, false)
	// duplicate delimiters
	bad := Delimiters{0x21, 0x21, 0x23, 0x24}
	_, err := n.NormalizeUnits(encodeUTF16("x"), ModeBoth, bad, 0)
	require.Error(t, err)

	// katakana delimiters are forbidden
	kana := Delimiters{0x30A2, 0x21, 0x23, 0x24}
	_, err = n.NormalizeUnits(encodeUTF16("x"), ModeBoth, kana, 0)
	require.Error(t, err)

	// original mode is extract-only
	_, err = n.NormalizeUnits(encodeUTF16("x"), ModeOriginal, DefaultDelimiters(), 0)
	require.Error(t, err)
}

func TestExtractUninitialized(t *testing.T) {
	n := builtin(t, false)
	_, _, err := n.ExtractGetc()
	require.Error(t, err)
}

func TestChunkingInvariance(t *testing.T) {
	n := builtin(t, false)
	// spaces are breakpoints, so tiny buffers chunk between the words
	input := strings.Repeat("ｱﾒﾘｶ ", 20)
	small, err := n.NormalizeUnits(encodeUTF16(input), ModeNormalized, DefaultDelimiters(), 8)
	require.NoError(t, err)
	large, err := n.NormalizeUnits(encodeUTF16(input), ModeNormalized, DefaultDelimiters(), DefaultMaxBufferLength)
	require.NoError(t, err)
	require.Equal(t, decodeUTF16(large), decodeUTF16(small))
}

func TestMetaClasses(t *testing.T) {
	n := builtin(t, false)

	// a middle dot between kana drops
	got, err := n.Normalize("ｱﾒﾘｶ・ｲﾝﾃﾞｨｱﾝ", ModeNormalized)
	require.NoError(t, err)
	require.NotContains(t, got, "・")

	// a middle dot before non-kana stays
	got, err = n.Normalize("ア・1", ModeNormalized)
	require.NoError(t, err)
	require.Contains(t, got, "・")

	// hyphen classes unify to ASCII hyphen
	got, err = n.Normalize("x‐y", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "x-y", got)

	// long-sound classes unify inside a kana run
	got, err = n.Normalize("ア―ア", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "アーア", got)

	// disabling the meta tables turns the handling off
	n.EnableMetaTables(false, false, false, false)
	got, err = n.Normalize("x‐y", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "x‐y", got)
	n.EnableMetaTables(true, true, true, true)
}

func TestRuleEngineRewrite(t *testing.T) {
	rules := BuiltinRules(false)
	rules.SetRuleEngine(NewDictRuleEngine(map[string]string{
		"ヴァイオリン": "バイオリン",
	}))
	n, err := NewNormalizer(rules)
	require.NoError(t, err)

	got, err := n.Normalize("ｳﾞｧｲｵﾘﾝ", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "バイオリン", got)

	// Both mode carries the original through the group
	both, err := n.Normalize("ｳﾞｧｲｵﾘﾝ", ModeBoth)
	require.NoError(t, err)
	orig, err := n.ExtractString(both, ModeOriginal)
	require.NoError(t, err)
	require.Equal(t, "ｳﾞｧｲｵﾘﾝ", orig)
	norm, err := n.ExtractString(both, ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "バイオリン", norm)
}

func TestEnglishRuns(t *testing.T) {
	rules := BuiltinRules(true)
	rules.SetRuleEngine(NewDictRuleEngine(map[string]string{
		"_colour_": "_color_",
	}))
	n, err := NewNormalizer(rules)
	require.NoError(t, err)

	got, err := n.Normalize("COLOUR", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "color", got)
}

func TestExpand(t *testing.T) {
	rules := BuiltinRules(false)
	rules.SetExpandEngine(NewDictExpandEngine(map[string][]string{
		"アメリカ": {"アメリカ", "アメリカン"},
	}))
	n, err := NewNormalizer(rules)
	require.NoError(t, err)

	alternatives, err := n.Expand("ｱﾒﾘｶコーヒー", ExpandNoCheck)
	require.NoError(t, err)
	require.Equal(t, []string{"アメリカコーヒー", "アメリカンコーヒー"}, alternatives)

	// empty input yields zero alternatives
	alternatives, err = n.Expand("", ExpandNoCheck)
	require.NoError(t, err)
	require.Empty(t, alternatives)
}

func TestExpandInclusionFilter(t *testing.T) {
	rules := BuiltinRules(false)
	rules.SetExpandEngine(NewDictExpandEngine(map[string][]string{
		"アメリカ": {"アメリカ", "アメリカン"},
	}))
	n, err := NewNormalizer(rules)
	require.NoError(t, err)

	alternatives, err := n.Expand("ｱﾒﾘｶ", ExpandCheckOriginal)
	require.NoError(t, err)
	// アメリカン contains アメリカ and drops; the survivor differs from
	// the original half-width input, so it stays
	require.Equal(t, []string{"アメリカ"}, alternatives)
}

func TestLayeredRules(t *testing.T) {
	base := BuiltinRules(false)
	second := BuiltinRules(false)
	second.SetRuleEngine(NewDictRuleEngine(map[string]string{"アア": "ア"}))

	n, err := NewNormalizer(base)
	require.NoError(t, err)
	require.False(t, n.HasSubRule())
	n.AddRule(second)
	require.True(t, n.HasSubRule())

	got, err := n.Normalize("アア", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "アア", got)

	require.NoError(t, n.SwitchRule(1))
	got, err = n.Normalize("アア", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "ア", got)

	require.Error(t, n.SwitchRule(5))
}

func TestSurrogatePairs(t *testing.T) {
	rules := BuiltinRules(false)
	// map one astral character to a BMP replacement
	high, low := uint16(0xD842), uint16(0xDFB7) // U+20BB7
	rules.SetPreSurrogate(high, low, encodeUTF16("吉"))
	n, err := NewNormalizer(rules)
	require.NoError(t, err)

	got, err := n.Normalize("\U00020BB7野", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "吉野", got)

	// unmapped pairs pass through intact
	got, err = n.Normalize("\U0001F600", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "\U0001F600", got)

	// Both mode keeps pairs whole on both sides of the round trip
	both, err := n.Normalize("\U00020BB7\U0001F600", ModeBoth)
	require.NoError(t, err)
	orig, err := n.ExtractString(both, ModeOriginal)
	require.NoError(t, err)
	require.Equal(t, "\U00020BB7\U0001F600", orig)
	normed, err := n.ExtractString(both, ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "吉\U0001F600", normed)
}

func TestSpaceFolding(t *testing.T) {
	rules := BuiltinRules(false)
	rules.EnableSpaceFolding()
	n, err := NewNormalizer(rules)
	require.NoError(t, err)
	got, err := n.Normalize("a b", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "ab", got)

	rules.DisableSpaceFolding()
	got, err = n.Normalize("a b", ModeNormalized)
	require.NoError(t, err)
	require.Equal(t, "a b", got)
}

func TestServiceProfiles(t *testing.T) {
	n := builtin(t, false)
	svc := NewService(n)

	got, err := svc.Normalize("ｱﾒﾘｶ", "")
	require.NoError(t, err)
	require.Equal(t, "アメリカ", got)

	both, err := svc.Normalize("ｱﾒﾘｶ", "both")
	require.NoError(t, err)
	orig, err := svc.Normalize(both, "extract")
	require.NoError(t, err)
	require.Equal(t, "ｱﾒﾘｶ", orig)

	_, err = svc.Normalize("x", "nonsense")
	require.Error(t, err)
}
