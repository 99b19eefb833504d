package norm

import (
	"github.com/kasuga-db/kasuga/internal/errors"
)

// OutMode selects the normalizer output.
type OutMode int

const (
	// ModeNormalized emits only the normalized form.
	ModeNormalized OutMode = iota
	// ModeOriginal recovers the original form; valid for extraction
	// only.
	ModeOriginal
	// ModeBoth interleaves original and normalized runs between
	// delimiters.
	ModeBoth
)

// Delimiters carries the three Both-mode delimiters and the escape.
type Delimiters struct {
	D0, D1, D2, Escape uint16
}

// DefaultDelimiters returns the stock delimiter assignment.
func DefaultDelimiters() Delimiters {
	return Delimiters{DefaultDelimiter0, DefaultDelimiter1, DefaultDelimiter2, DefaultEscape}
}

func (d Delimiters) validate() error {
	all := []uint16{d.D0, d.D1, d.D2, d.Escape}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if all[i] == all[j] {
				return errors.Newf(errors.BadArgument, "duplicate delimiter %04x", all[i])
			}
		}
		if isKatakana(all[i]) {
			return errors.Newf(errors.BadArgument, "katakana delimiter %04x", all[i])
		}
	}
	return nil
}

func (d Delimiters) isDelim(c uint16) bool {
	return c == d.D0 || c == d.D1 || c == d.D2 || c == d.Escape
}

// runType classifies the active run buffer during the rule stage.
type runType int

const (
	runNone runType = iota
	runKana
	runAlpha
)

// genChar is one source character with its pre-stage replacement; a nil
// replacement means the character deletes.
type genChar struct {
	orig uint16
	repl []uint16
}

// Normalizer drives the pre-map → surrogate → combine → rule → post-map
// pipeline over one or more layered rule sets.
type Normalizer struct {
	rules  []*RuleSet
	active int

	// meta class toggles set by EnableMetaTables
	useNakaten    bool
	useChouon     bool
	useHyphen     bool
	useIgnoreBoth bool

	// nakatenCheck keeps middle dots whose neighbor is not kana; when
	// disabled a middle dot inside a kana run always drops.
	nakatenCheck bool

	extract extractState
}

// NewNormalizer creates a normalizer over the given rule set.
func NewNormalizer(rule *RuleSet) (*Normalizer, error) {
	if rule == nil {
		return nil, errors.New(errors.NotInitialized)
	}
	return &Normalizer{
		rules:         []*RuleSet{rule},
		useNakaten:    true,
		useChouon:     true,
		useHyphen:     true,
		useIgnoreBoth: true,
		nakatenCheck:  true,
	}, nil
}

// AddRule layers a second rule set on top.
func (n *Normalizer) AddRule(rule *RuleSet) { n.rules = append(n.rules, rule) }

// HasSubRule reports whether a layered rule set exists.
func (n *Normalizer) HasSubRule() bool { return len(n.rules) > 1 }

// SwitchRule selects the active rule set.
func (n *Normalizer) SwitchRule(i int) error {
	if i < 0 || i >= len(n.rules) {
		return errors.Newf(errors.BadArgument, "rule set %d", i)
	}
	n.active = i
	return nil
}

// EnableMetaTables toggles the four meta classes at runtime.
func (n *Normalizer) EnableMetaTables(nakaten, chouon, hyphen, ignoreBoth bool) {
	n.useNakaten = nakaten
	n.useChouon = chouon
	n.useHyphen = hyphen
	n.useIgnoreBoth = ignoreBoth
}

func (n *Normalizer) ruleSet() *RuleSet { return n.rules[n.active] }

func (n *Normalizer) nakatenMeta() []uint16 {
	if !n.useNakaten {
		return nil
	}
	return n.ruleSet().nakatenMeta
}

func (n *Normalizer) chouonMeta() []uint16 {
	if !n.useChouon {
		return nil
	}
	return n.ruleSet().chouonMeta
}

func (n *Normalizer) hyphenMeta() []uint16 {
	if !n.useHyphen {
		return nil
	}
	return n.ruleSet().hyphenMeta
}

func (n *Normalizer) ignoreBoth() []uint16 {
	if !n.useIgnoreBoth {
		return nil
	}
	return n.ruleSet().ignoreBoth
}

// Normalize rewrites input under the active rule set.
func (n *Normalizer) Normalize(input string, mode OutMode) (string, error) {
	out, err := n.NormalizeUnits(encodeUTF16(input), mode, DefaultDelimiters(), DefaultMaxBufferLength)
	if err != nil {
		return "", err
	}
	return decodeUTF16(out), nil
}

// NormalizeUnits rewrites input code units. ModeOriginal is invalid
// here; it exists for extraction. Inputs longer than maxBufLen are
// clipped at breakpoints and processed piecewise.
func (n *Normalizer) NormalizeUnits(input []uint16, mode OutMode, d Delimiters, maxBufLen int) ([]uint16, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if mode == ModeOriginal {
		return nil, errors.Newf(errors.BadArgument, "original mode is extract-only")
	}
	if maxBufLen <= 0 {
		maxBufLen = DefaultMaxBufferLength
	}
	var out []uint16
	for start := 0; start < len(input); {
		end := n.findClipPoint(input, start, maxBufLen)
		gen := n.chkPre(input[start:end])
		if mode == ModeBoth {
			out = n.chkBoth(out, gen, d)
		} else {
			out = append(out, n.chkPost(n.chkRule(gen))...)
		}
		start = end
	}
	return out, nil
}

// findClipPoint searches for a breakpoint past the buffer limit; a
// breakpoint never sits inside a combining sequence.
func (n *Normalizer) findClipPoint(input []uint16, start, maxBufLen int) int {
	limit := start + maxBufLen
	if limit >= len(input) {
		return len(input)
	}
	for i := limit; i < len(input); i++ {
		if isBreakpoint(input[i]) {
			return i
		}
	}
	return len(input)
}

// mapChar maps one unit through a per-code-unit map with its
// decomposition table. A nil result deletes the character.
func mapChar(c uint16, m []uint16, decomp []decompEntry) ([]uint16, error) {
	v := m[c]
	if v == mapDecompose && c != 0xFFFF {
		for _, e := range decomp {
			if e.orig == c {
				return e.repl, nil
			}
		}
		return nil, errors.Newf(errors.Unexpected, "decomposition of %04x missing", c)
	}
	if v == 0 {
		return nil, nil
	}
	return []uint16{v}, nil
}

func (n *Normalizer) combine(base, mark uint16) uint16 {
	return n.ruleSet().combiMap[uint32(base)<<16|uint32(mark)]
}

// chkPre applies the pre stage: surrogate pairs, combining sequences
// and the per-code-unit map.
func (n *Normalizer) chkPre(input []uint16) []genChar {
	rs := n.ruleSet()
	gen := make([]genChar, len(input))
	for i := range input {
		gen[i].orig = input[i]
	}
	for i := 0; i < len(input); {
		target := input[i]
		if isHighSurrogate(target) && i < len(input)-1 && isLowSurrogate(input[i+1]) {
			gen[i].repl = n.mapSurrogate(target, input[i+1], rs.preSurrogateMap)
			i += 2
			continue
		}
		// probe the combining sequence following the base character
		except := 0
		j := i + 1
		for ; j < len(input); j++ {
			next := input[j]
			pm := rs.preMap[next]
			if pm != 0 && pm != mapCombiningKeep {
				// not a combining mark
				break
			}
			if (target == combineHalf1 || target == combineHalf2) && j == i+1 {
				break
			}
			combined := n.combine(target, next)
			switch {
			case combined == 0:
				if pm == 0 {
					// the mark never combines here; consume it
					j++
				}
			case combined == combineHalf1 || combined == combineHalf2:
				// two marks may still form a new character
				except++
				target = combined
				continue
			default:
				except = 0
				target = combined
				continue
			}
			break
		}
		if except > 0 {
			// the partial composition never completed; fall back
			target = input[i]
		}
		repl, err := mapChar(target, rs.preMap, rs.preDecompMap)
		if err != nil {
			// missing decomposition: pass the character through
			repl = []uint16{target}
		}
		if len(repl) == 1 && repl[0] == mapCombiningKeep {
			// a protected combining mark survives as itself
			repl = []uint16{gen[i].orig}
		}
		gen[i].repl = repl
		i = j
	}
	return gen
}

func (n *Normalizer) mapSurrogate(high, low uint16, m []surrogateEntry) []uint16 {
	for _, e := range m {
		if e.high == high && e.low == low {
			return e.repl
		}
	}
	return []uint16{high, low}
}

// doRule applies the rule engine to one run buffer and extracts the
// normalized alternative from the X{A,B}Y form.
func (n *Normalizer) doRule(run []uint16, typ runType) []uint16 {
	if len(run) == 0 {
		return nil
	}
	if typ == runAlpha {
		run = append(run, englishDummy)
	}
	applied := n.ruleSet().rule.Apply(run)
	out := extractRuleResult(applied)
	if typ == runAlpha {
		out = stripDummy(out)
	}
	return out
}

// extractRuleResult turns X{A,B}Y into XBY.
func extractRuleResult(applied []uint16) []uint16 {
	var out []uint16
	i := 0
	for i < len(applied) {
		if applied[i] != ruleOpen {
			out = append(out, applied[i])
			i++
			continue
		}
		// skip to the alternative
		j := i + 1
		for j < len(applied) && applied[j] != ruleComma {
			j++
		}
		j++
		for j < len(applied) && applied[j] != ruleClose {
			out = append(out, applied[j])
			j++
		}
		i = j + 1
	}
	return out
}

// stripDummy removes the sentinel underscores added around an alpha run.
func stripDummy(units []uint16) []uint16 {
	if len(units) > 0 && units[0] == englishDummy {
		units = units[1:]
	}
	if len(units) > 0 && units[len(units)-1] == englishDummy {
		units = units[:len(units)-1]
	}
	return units
}

// getNextChar finds the next surviving character after position (i, j)
// of the pre-stage result.
func getNextChar(gen []genChar, i, j int) uint16 {
	for {
		j++
		if i < len(gen) && j < len(gen[i].repl) {
			return gen[i].repl[j]
		}
		i++
		if i >= len(gen) {
			return 0
		}
		j = -1
	}
}

// chkRule walks the pre-stage result, carving katakana and ASCII runs
// for the rule engine while meta characters steer the segmentation.
func (n *Normalizer) chkRule(gen []genChar) []uint16 {
	rs := n.ruleSet()
	nakaten := n.nakatenMeta()
	chouon := n.chouonMeta()
	hyphen := n.hyphenMeta()

	var out []uint16
	var run []uint16
	context := runNone

	flush := func() {
		out = append(out, n.doRule(run, context)...)
		run = run[:0]
	}

	for i := range gen {
		repl := gen[i].repl
		if len(repl) == 0 {
			// deleted by the pre stage
			continue
		}
		for j := 0; j < len(repl); j++ {
			c := repl[j]

			if isKatakana(c) || isHankakuKana(c) {
				if context == runAlpha {
					flush()
					context = runNone
				}
				if context != runKana {
					if contains(nakaten, c) {
						// a middle dot outside a kana run passes through
						out = append(out, c)
						context = runNone
						continue
					}
					if contains(hyphen, c) {
						out = append(out, hyphen[0])
						context = runNone
						continue
					}
					run = append(run, c)
					context = runKana
					continue
				}
				if contains(nakaten, c) {
					if n.nakatenCheck {
						// keep the dot unless the next character
						// continues the kana run
						next := getNextChar(gen, i, j)
						if next == 0 || (!isKatakana(next) && !isHankakuKana(next)) {
							run = append(run, c)
						}
					}
					continue
				}
				run = append(run, c)
				continue
			}

			if rs.english && c < 0x80 && isASCIIAlphabet(c) {
				if context == runKana {
					if contains(chouon, c) {
						run = append(run, chouon[0])
						continue
					}
					flush()
				}
				if len(run) == 0 {
					run = append(run, englishDummy)
				}
				run = append(run, c)
				context = runAlpha
				continue
			}

			if context == runKana {
				if contains(chouon, c) {
					run = append(run, chouon[0])
					continue
				}
				if contains(nakaten, c) {
					if n.nakatenCheck {
						next := getNextChar(gen, i, j)
						if next != 0 && (isKatakana(next) || isHankakuKana(next)) {
							continue
						}
					} else {
						continue
					}
				}
			}
			if context != runNone {
				flush()
				context = runNone
			}
			if contains(hyphen, c) {
				c = hyphen[0]
			}
			out = append(out, c)
		}
	}
	if context != runNone {
		flush()
	}
	return out
}

// chkPost applies the post-stage map.
func (n *Normalizer) chkPost(units []uint16) []uint16 {
	rs := n.ruleSet()
	var out []uint16
	for _, c := range units {
		repl, err := mapChar(c, rs.postMap, rs.postDecompMap)
		if err != nil {
			repl = []uint16{c}
		}
		out = append(out, repl...)
	}
	return out
}
