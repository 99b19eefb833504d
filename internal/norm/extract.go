package norm

import (
	"github.com/kasuga-db/kasuga/internal/errors"
)

// extractState walks a Both-mode string and yields either the original
// or the normalized characters one at a time, honoring the escape.
type extractState struct {
	text  []uint16
	pos   int
	alive bool
	mode  OutMode
	d     Delimiters
	state OutMode
}

// ExtractInit sets the extraction target. The mode selects which side
// of the delimited groups comes out; ModeBoth passes everything.
func (n *Normalizer) ExtractInit(input []uint16, mode OutMode, d Delimiters) error {
	if err := d.validate(); err != nil {
		return err
	}
	n.extract = extractState{
		text:  input,
		alive: true,
		mode:  mode,
		d:     d,
		state: ModeBoth,
	}
	return nil
}

// ExtractGetc yields the next extracted character; false means the
// input is exhausted. Calling it without ExtractInit fails with
// NotInitialized.
func (n *Normalizer) ExtractGetc() (uint16, bool, error) {
	x := &n.extract
	if !x.alive {
		return 0, false, errors.New(errors.NotInitialized)
	}
	cur := func() uint16 {
		if x.pos >= len(x.text) {
			return 0
		}
		return x.text[x.pos]
	}
	ret := cur()
	if x.mode != ModeBoth {
		escaped := false
		for ret != 0 && (x.d.isDelim(ret) || (x.state != ModeBoth && x.state != x.mode)) {
			if escaped {
				if x.state == x.mode {
					break
				}
				escaped = false
			} else if ret == x.d.Escape && x.state != ModeBoth {
				// the escape inside a group protects the next character
				escaped = true
			} else if ret == x.d.D0 && x.state == ModeBoth {
				x.state = ModeOriginal
			} else if ret == x.d.D1 && x.state == ModeOriginal {
				x.state = ModeNormalized
			} else if ret == x.d.D2 && x.state == ModeNormalized {
				x.state = ModeBoth
			} else if x.d.isDelim(ret) {
				break
			}
			x.pos++
			ret = cur()
		}
	}
	x.pos++
	if ret == 0 {
		x.alive = false
		return 0, false, nil
	}
	return ret, true, nil
}

// Extract drains the whole input in one call.
func (n *Normalizer) Extract(input []uint16, mode OutMode, d Delimiters) ([]uint16, error) {
	if err := n.ExtractInit(input, mode, d); err != nil {
		return nil, err
	}
	var out []uint16
	for {
		c, ok, err := n.ExtractGetc()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, c)
	}
}

// ExtractString is the string-typed convenience form.
func (n *Normalizer) ExtractString(input string, mode OutMode) (string, error) {
	out, err := n.Extract(encodeUTF16(input), mode, DefaultDelimiters())
	if err != nil {
		return "", err
	}
	return decodeUTF16(out), nil
}
