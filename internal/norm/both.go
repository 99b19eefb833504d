package norm

// Both-mode output: runs that normalization leaves untouched copy
// through; every changed run becomes a "d0 original d1 normalized d2"
// group. Delimiter code points inside user data carry the escape prefix.

// appendEscaped copies units, escaping any delimiter occurrences.
func appendEscaped(out, units []uint16, d Delimiters) []uint16 {
	for _, c := range units {
		if d.isDelim(c) {
			out = append(out, d.Escape)
		}
		out = append(out, c)
	}
	return out
}

func equalUnits(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// chkBoth renders the pre-stage result in Both mode. The segmentation
// follows the rule stage: kana and ASCII runs are rewritten as whole
// segments, everything else per character.
func (n *Normalizer) chkBoth(out []uint16, gen []genChar, d Delimiters) []uint16 {
	rs := n.ruleSet()
	nakaten := n.nakatenMeta()
	chouon := n.chouonMeta()
	hyphen := n.hyphenMeta()
	ignore := n.ignoreBoth()

	var run, runOrig []uint16
	context := runNone

	emitGroup := func(orig, norm []uint16) {
		out = append(out, d.D0)
		out = appendEscaped(out, orig, d)
		out = append(out, d.D1)
		out = appendEscaped(out, norm, d)
		out = append(out, d.D2)
	}

	emitSegment := func(orig, norm []uint16) {
		if equalUnits(orig, norm) {
			out = appendEscaped(out, norm, d)
			return
		}
		emitGroup(orig, norm)
	}

	flush := func() {
		if context == runNone && len(runOrig) == 0 {
			return
		}
		norm := n.chkPost(n.doRule(run, context))
		emitSegment(runOrig, norm)
		run = run[:0]
		runOrig = runOrig[:0]
	}

	// emitChar renders one surviving character outside any run.
	emitChar := func(orig []uint16, hasOrig bool, c uint16) {
		norm := n.chkPost([]uint16{c})
		if hasOrig {
			emitSegment(orig, norm)
			return
		}
		// a secondary decomposition unit has no original of its own
		if len(norm) > 0 {
			emitGroup(nil, norm)
		}
	}

	for i := range gen {
		repl := gen[i].repl
		if isLowSurrogate(gen[i].orig) && len(repl) == 0 && i > 0 && isHighSurrogate(gen[i-1].orig) {
			// consumed by the surrogate pair before it
			continue
		}
		// a mapped surrogate pair owns both of its source units
		orig := []uint16{gen[i].orig}
		if isHighSurrogate(gen[i].orig) && i+1 < len(gen) &&
			isLowSurrogate(gen[i+1].orig) && len(gen[i+1].repl) == 0 {
			orig = append(orig, gen[i+1].orig)
		}
		if len(repl) == 0 {
			// deleted by the pre stage
			if contains(ignore, gen[i].orig) {
				continue
			}
			if context != runNone {
				runOrig = append(runOrig, orig...)
			} else {
				emitGroup(orig, nil)
			}
			continue
		}
		if len(repl) == 2 && isHighSurrogate(repl[0]) && isLowSurrogate(repl[1]) {
			// a surviving surrogate pair renders as one unit
			flush()
			context = runNone
			emitSegment(orig, n.chkPost(repl))
			continue
		}
		for j := 0; j < len(repl); j++ {
			c := repl[j]
			hasOrig := j == 0

			if isKatakana(c) || isHankakuKana(c) {
				if context == runAlpha {
					flush()
					context = runNone
				}
				if context != runKana {
					if contains(nakaten, c) {
						flush()
						context = runNone
						emitChar(orig, hasOrig, c)
						continue
					}
					if contains(hyphen, c) {
						flush()
						context = runNone
						emitChar(orig, hasOrig, hyphen[0])
						continue
					}
					flush()
					run = append(run, c)
					if hasOrig {
						runOrig = append(runOrig, orig...)
					}
					context = runKana
					continue
				}
				if contains(nakaten, c) {
					if hasOrig {
						runOrig = append(runOrig, orig...)
					}
					if n.nakatenCheck {
						next := getNextChar(gen, i, j)
						if next == 0 || (!isKatakana(next) && !isHankakuKana(next)) {
							run = append(run, c)
						}
					}
					continue
				}
				run = append(run, c)
				if hasOrig {
					runOrig = append(runOrig, orig...)
				}
				continue
			}

			if rs.english && c < 0x80 && isASCIIAlphabet(c) {
				if context == runKana {
					if contains(chouon, c) {
						run = append(run, chouon[0])
						if hasOrig {
							runOrig = append(runOrig, orig...)
						}
						continue
					}
					flush()
				}
				if context != runAlpha {
					flush()
					run = append(run, englishDummy)
				}
				run = append(run, c)
				if hasOrig {
					runOrig = append(runOrig, orig...)
				}
				context = runAlpha
				continue
			}

			if context == runKana {
				if contains(chouon, c) {
					run = append(run, chouon[0])
					if hasOrig {
						runOrig = append(runOrig, orig...)
					}
					continue
				}
				if contains(nakaten, c) {
					if hasOrig {
						runOrig = append(runOrig, orig...)
					}
					if n.nakatenCheck {
						next := getNextChar(gen, i, j)
						if next != 0 && (isKatakana(next) || isHankakuKana(next)) {
							continue
						}
						run = append(run, c)
						continue
					}
					continue
				}
			}
			flush()
			context = runNone
			if contains(hyphen, c) {
				c = hyphen[0]
			}
			emitChar(orig, hasOrig, c)
		}
	}
	flush()
	return out
}
