package norm

// BuiltinRules returns the rule set shipped with the engine: half-width
// katakana unifies to full-width, voiced and semi-voiced marks combine,
// full-width ASCII unifies to ASCII and letters fold to lower case.
// Production deployments load the compiled dictionary tables instead;
// the builtin set keeps the engine usable without a resource directory.
func BuiltinRules(english bool) *RuleSet {
	r := NewRuleSet(english)

	// half-width katakana to full-width
	for half, full := range halfToFull {
		r.SetPreMap(half, full)
	}

	// voiced and semi-voiced combining marks, half- and full-width
	r.DeletePre(0xFF9E)
	r.DeletePre(0xFF9F)
	r.DeletePre(0x3099)
	r.DeletePre(0x309A)
	for base, voiced := range voicable {
		r.SetCombination(base, 0x3099, voiced)
		if half, ok := fullToHalf[base]; ok {
			r.SetCombination(half, 0xFF9E, voiced)
		}
	}
	for base, semi := range semiVoicable {
		r.SetCombination(base, 0x309A, semi)
		if half, ok := fullToHalf[base]; ok {
			r.SetCombination(half, 0xFF9F, semi)
		}
	}

	// full-width ASCII to ASCII
	for c := uint16(0xFF01); c <= 0xFF5E; c++ {
		r.SetPreMap(c, c-0xFF01+0x21)
	}
	r.SetPreMap(0x3000, 0x20)

	// case folding
	for c := uint16('A'); c <= 'Z'; c++ {
		r.SetPreMap(c, c+0x20)
	}
	for c := uint16(0xFF21); c <= 0xFF3A; c++ {
		r.SetPreMap(c, c-0xFF21+'a')
	}

	return r
}

// halfToFull maps the half-width katakana block to full-width.
var halfToFull = map[uint16]uint16{
	0xFF61: 0x3002, 0xFF62: 0x300C, 0xFF63: 0x300D, 0xFF64: 0x3001,
	0xFF65: 0x30FB, 0xFF66: 0x30F2, 0xFF67: 0x30A1, 0xFF68: 0x30A3,
	0xFF69: 0x30A5, 0xFF6A: 0x30A7, 0xFF6B: 0x30A9, 0xFF6C: 0x30E3,
	0xFF6D: 0x30E5, 0xFF6E: 0x30E7, 0xFF6F: 0x30C3, 0xFF70: 0x30FC,
	0xFF71: 0x30A2, 0xFF72: 0x30A4, 0xFF73: 0x30A6, 0xFF74: 0x30A8,
	0xFF75: 0x30AA, 0xFF76: 0x30AB, 0xFF77: 0x30AD, 0xFF78: 0x30AF,
	0xFF79: 0x30B1, 0xFF7A: 0x30B3, 0xFF7B: 0x30B5, 0xFF7C: 0x30B7,
	0xFF7D: 0x30B9, 0xFF7E: 0x30BB, 0xFF7F: 0x30BD, 0xFF80: 0x30BF,
	0xFF81: 0x30C1, 0xFF82: 0x30C4, 0xFF83: 0x30C6, 0xFF84: 0x30C8,
	0xFF85: 0x30CA, 0xFF86: 0x30CB, 0xFF87: 0x30CC, 0xFF88: 0x30CD,
	0xFF89: 0x30CE, 0xFF8A: 0x30CF, 0xFF8B: 0x30D2, 0xFF8C: 0x30D5,
	0xFF8D: 0x30D8, 0xFF8E: 0x30DB, 0xFF8F: 0x30DE, 0xFF90: 0x30DF,
	0xFF91: 0x30E0, 0xFF92: 0x30E1, 0xFF93: 0x30E2, 0xFF94: 0x30E4,
	0xFF95: 0x30E6, 0xFF96: 0x30E8, 0xFF97: 0x30E9, 0xFF98: 0x30EA,
	0xFF99: 0x30EB, 0xFF9A: 0x30EC, 0xFF9B: 0x30ED, 0xFF9C: 0x30EF,
	0xFF9D: 0x30F3,
}

// voicable maps a full-width base to its voiced composition.
var voicable = map[uint16]uint16{
	0x30A6: 0x30F4, // ウ → ヴ
	0x30AB: 0x30AC, 0x30AD: 0x30AE, 0x30AF: 0x30B0, 0x30B1: 0x30B2, 0x30B3: 0x30B4,
	0x30B5: 0x30B6, 0x30B7: 0x30B8, 0x30B9: 0x30BA, 0x30BB: 0x30BC, 0x30BD: 0x30BE,
	0x30BF: 0x30C0, 0x30C1: 0x30C2, 0x30C4: 0x30C5, 0x30C6: 0x30C7, 0x30C8: 0x30C9,
	0x30CF: 0x30D0, 0x30D2: 0x30D3, 0x30D5: 0x30D6, 0x30D8: 0x30D9, 0x30DB: 0x30DC,
}

// semiVoicable maps a full-width base to its semi-voiced composition.
var semiVoicable = map[uint16]uint16{
	0x30CF: 0x30D1, 0x30D2: 0x30D4, 0x30D5: 0x30D7, 0x30D8: 0x30DA, 0x30DB: 0x30DD,
}

// fullToHalf inverts halfToFull for the combination registrations.
var fullToHalf = func() map[uint16]uint16 {
	m := make(map[uint16]uint16, len(halfToFull))
	for half, full := range halfToFull {
		m[full] = half
	}
	return m
}()

// DictRuleEngine rewrites dictionary-matched substrings of a run into
// X{A,B}Y form. Longest match wins at each position.
type DictRuleEngine struct {
	entries map[string]string // original run → normalized alternative
	maxLen  int
}

// NewDictRuleEngine builds a rule engine over original→normalized
// pairs keyed by UTF-16 content.
func NewDictRuleEngine(pairs map[string]string) *DictRuleEngine {
	e := &DictRuleEngine{entries: map[string]string{}}
	for from, to := range pairs {
		e.entries[from] = to
		if n := len(encodeUTF16(from)); n > e.maxLen {
			e.maxLen = n
		}
	}
	return e
}

func (e *DictRuleEngine) Apply(run []uint16) []uint16 {
	var out []uint16
	for i := 0; i < len(run); {
		matched := false
		limit := e.maxLen
		if rest := len(run) - i; rest < limit {
			limit = rest
		}
		for n := limit; n > 0; n-- {
			candidate := decodeUTF16(run[i : i+n])
			repl, ok := e.entries[candidate]
			if !ok {
				continue
			}
			out = append(out, ruleOpen)
			out = append(out, run[i:i+n]...)
			out = append(out, ruleComma)
			out = append(out, encodeUTF16(repl)...)
			out = append(out, ruleClose)
			i += n
			matched = true
			break
		}
		if !matched {
			out = append(out, run[i])
			i++
		}
	}
	return out
}

// DictExpandEngine emits alternative groups bracketed by the default
// delimiters for dictionary-matched substrings.
type DictExpandEngine struct {
	entries map[string][]string
	maxLen  int
}

// NewDictExpandEngine builds an expansion engine over original →
// alternatives entries.
func NewDictExpandEngine(entries map[string][]string) *DictExpandEngine {
	e := &DictExpandEngine{entries: map[string][]string{}}
	for from, alts := range entries {
		e.entries[from] = alts
		if n := len(encodeUTF16(from)); n > e.maxLen {
			e.maxLen = n
		}
	}
	return e
}

func (e *DictExpandEngine) Expand(run []uint16) []uint16 {
	var out []uint16
	for i := 0; i < len(run); {
		matched := false
		limit := e.maxLen
		if rest := len(run) - i; rest < limit {
			limit = rest
		}
		for n := limit; n > 0; n-- {
			alts, ok := e.entries[decodeUTF16(run[i:i+n])]
			if !ok || len(alts) == 0 {
				continue
			}
			out = append(out, DefaultDelimiter0)
			for j, alt := range alts {
				if j > 0 {
					out = append(out, DefaultDelimiter1)
				}
				out = append(out, encodeUTF16(alt)...)
			}
			out = append(out, DefaultDelimiter2)
			i += n
			matched = true
			break
		}
		if !matched {
			out = append(out, run[i])
			i++
		}
	}
	return out
}
