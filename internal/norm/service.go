package norm

import (
	"strconv"
	"strings"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// Service adapts a Normalizer to the engine's text-normalizer contract.
// The option operand of the normalize and expand-synonym actions names
// a processing profile: a comma-separated list of tokens.
//
//	both      emit the Both-mode interleaving
//	extract   recover the original from a Both-mode input
//	chkorg    filter expansion results against the original
//	rule=N    switch to the layered rule set N
type Service struct {
	normalizer *Normalizer
}

func NewService(n *Normalizer) *Service { return &Service{normalizer: n} }

func (s *Service) parse(option string) (mode OutMode, expand ExpandMode, err error) {
	mode = ModeNormalized
	expand = ExpandNoCheck
	for _, token := range strings.Split(option, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "" || token == "normalized":
		case token == "both":
			mode = ModeBoth
		case token == "extract":
			mode = ModeOriginal
		case token == "chkorg":
			expand = ExpandCheckOriginal
		case strings.HasPrefix(token, "rule="):
			n, convErr := strconv.Atoi(token[len("rule="):])
			if convErr != nil {
				return 0, 0, errors.Wrap(errors.BadArgument, convErr, "rule option")
			}
			if err := s.normalizer.SwitchRule(n); err != nil {
				return 0, 0, err
			}
		default:
			return 0, 0, errors.Newf(errors.BadArgument, "normalize option %q", token)
		}
	}
	return mode, expand, nil
}

// Normalize rewrites input under the option profile.
func (s *Service) Normalize(input, option string) (string, error) {
	mode, _, err := s.parse(option)
	if err != nil {
		return "", err
	}
	if mode == ModeOriginal {
		return s.normalizer.ExtractString(input, ModeOriginal)
	}
	return s.normalizer.Normalize(input, mode)
}

// Expand returns the synonym alternatives of input.
func (s *Service) Expand(input, option string) ([]string, error) {
	_, expand, err := s.parse(option)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Expand(input, expand)
}
