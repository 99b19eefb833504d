// kasuga-norm drives the Japanese text normalizer from the command
// line: it normalizes, expands or extracts each input line.
package main

import (
	"bufio"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/ledgerwatch/log/v3"

	"github.com/kasuga-db/kasuga/internal/norm"
)

type options struct {
	ResourceDir string `short:"r" long:"resource" description:"rule table directory; the builtin rules apply when omitted"`
	English     bool   `short:"e" long:"english" description:"enable English (ASCII run) normalization"`
	Both        bool   `short:"b" long:"both" description:"emit the Both-mode interleaving"`
	Expand      bool   `short:"x" long:"expand" description:"expand synonyms instead of normalizing"`
	ExtractOrig bool   `long:"extract-original" description:"extract the original form from Both-mode input"`
	ExtractNorm bool   `long:"extract-normalized" description:"extract the normalized form from Both-mode input"`
	Input       string `short:"i" long:"input" description:"input file (default stdin)"`
}

func main() {
	var opts options
	args, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "unexpected arguments")
		os.Exit(1)
	}

	var rules *norm.RuleSet
	if opts.ResourceDir != "" {
		rules, err = norm.LoadDir(opts.ResourceDir, opts.English)
		if err != nil {
			log.Error("loading rule tables", "dir", opts.ResourceDir, "err", err)
			os.Exit(1)
		}
	} else {
		rules = norm.BuiltinRules(opts.English)
	}
	normalizer, err := norm.NewNormalizer(rules)
	if err != nil {
		log.Error("creating normalizer", "err", err)
		os.Exit(1)
	}

	in := os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			log.Error("opening input", "path", opts.Input, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case opts.Expand:
			alternatives, err := normalizer.Expand(line, norm.ExpandNoCheck)
			if err != nil {
				log.Error("expand failed", "err", err)
				os.Exit(1)
			}
			for _, alt := range alternatives {
				fmt.Fprintln(out, alt)
			}
		case opts.ExtractOrig:
			printExtract(out, normalizer, line, norm.ModeOriginal)
		case opts.ExtractNorm:
			printExtract(out, normalizer, line, norm.ModeNormalized)
		default:
			mode := norm.ModeNormalized
			if opts.Both {
				mode = norm.ModeBoth
			}
			result, err := normalizer.Normalize(line, mode)
			if err != nil {
				log.Error("normalize failed", "err", err)
				os.Exit(1)
			}
			fmt.Fprintln(out, result)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading input", "err", err)
		os.Exit(1)
	}
}

func printExtract(out *bufio.Writer, n *norm.Normalizer, line string, mode norm.OutMode) {
	result, err := n.ExtractString(line, mode)
	if err != nil {
		log.Error("extract failed", "err", err)
		os.Exit(1)
	}
	fmt.Fprintln(out, result)
}
