package norm

import (
	"strings"
)

// ExpandMode controls the inclusion filter on expansion results.
type ExpandMode int

const (
	// ExpandNoCheck keeps every alternative.
	ExpandNoCheck ExpandMode = iota
	// ExpandCheckOriginal drops alternatives containing another one and
	// suppresses the expansion when only the original remains.
	ExpandCheckOriginal
)

// Expand normalizes input and applies the expansion rule table; the
// result is the cartesian product of the per-group alternatives. Empty
// input yields no alternatives.
func (n *Normalizer) Expand(input string, mode ExpandMode) ([]string, error) {
	units := encodeUTF16(input)
	if len(units) == 0 {
		return nil, nil
	}
	gen := n.chkPre(units)
	expanded := n.chkExpand(gen)
	post := n.chkPost(expanded)
	alternatives := expandArray(post)
	if mode == ExpandCheckOriginal {
		alternatives = filterInclusions(alternatives)
		if len(alternatives) == 0 ||
			(len(alternatives) == 1 && strings.Contains(alternatives[0], input)) {
			return nil, nil
		}
	}
	return alternatives, nil
}

// chkExpand is the rule stage with the expansion engine instead of the
// normalization engine: runs still carve out the same way, but matched
// segments emit delimiter-bracketed alternative groups.
func (n *Normalizer) chkExpand(gen []genChar) []uint16 {
	saved := n.ruleSet().rule
	n.ruleSet().rule = expandAsRule{n.ruleSet().expand}
	defer func() { n.ruleSet().rule = saved }()
	return n.chkRule(gen)
}

// expandAsRule adapts the expansion engine to the rule-stage slot. The
// engine output carries the private-use delimiters, which pass through
// the X{A,B}Y extraction untouched.
type expandAsRule struct {
	e ExpandEngine
}

func (a expandAsRule) Apply(run []uint16) []uint16 { return a.e.Expand(run) }

// expandArray builds the cartesian product of "d0 w1 d1 w2 d2" groups
// interleaved with fixed text.
func expandArray(units []uint16) []string {
	result := []string{""}
	appendAll := func(suffix string) {
		for i := range result {
			result[i] += suffix
		}
	}
	i := 0
	for i < len(units) {
		if units[i] != DefaultDelimiter0 {
			j := i
			for j < len(units) && units[j] != DefaultDelimiter0 {
				j++
			}
			appendAll(decodeUTF16(units[i:j]))
			i = j
			continue
		}
		// collect the group's alternatives
		i++
		var words []string
		var word []uint16
		for i < len(units) && units[i] != DefaultDelimiter2 {
			if units[i] == DefaultDelimiter1 {
				words = append(words, decodeUTF16(word))
				word = nil
			} else {
				word = append(word, units[i])
			}
			i++
		}
		words = append(words, decodeUTF16(word))
		if i < len(units) {
			i++ // consume the closing delimiter
		}
		grown := make([]string, 0, len(result)*len(words))
		for _, prefix := range result {
			for _, w := range words {
				grown = append(grown, prefix+w)
			}
		}
		result = grown
	}
	return result
}

// filterInclusions drops every alternative that contains another one.
func filterInclusions(alternatives []string) []string {
	var out []string
	for i, a := range alternatives {
		if a == "" {
			continue
		}
		contained := false
		for j, b := range alternatives {
			if i == j || b == "" {
				continue
			}
			if a != b && strings.Contains(a, b) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, a)
		}
	}
	return out
}
