// Package snippet splits normalized turn text into snippets sized for
// indexing. Each snippet becomes its own memory record.
package snippet

import "strings"

const (
	DefaultTargetSize = 280
	DefaultMinSize    = 40
	DefaultMaxSize    = 500
)

// Options configures snippet splitting.
type Options struct {
	TargetSize int
	MinSize    int
	MaxSize    int
}

// DefaultOptions returns default splitting options.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		MinSize:    DefaultMinSize,
		MaxSize:    DefaultMaxSize,
	}
}

// Split breaks text into snippets. Short text (<= MaxSize) returns a single
// snippet. Longer text is split on sentence boundaries, merging short
// sentences up to the target size.
func Split(text string, opts Options) []string {
	if opts.TargetSize == 0 {
		opts = DefaultOptions()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= opts.MaxSize {
		return []string{text}
	}

	sentences := splitSentences(text)
	return merge(sentences, opts)
}

// splitSentences splits on terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				s := strings.TrimSpace(current.String())
				if s != "" {
					out = append(out, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// merge combines short sentences and hard-splits oversized ones.
func merge(sentences []string, opts Options) []string {
	var out []string
	var accum strings.Builder

	flush := func() {
		s := strings.TrimSpace(accum.String())
		if s != "" {
			out = append(out, s)
		}
		accum.Reset()
	}

	for _, sentence := range sentences {
		// A single sentence beyond MaxSize gets hard-split on word
		// boundaries.
		if len(sentence) > opts.MaxSize {
			flush()
			out = append(out, hardSplit(sentence, opts.MaxSize)...)
			continue
		}

		if accum.Len() > 0 && accum.Len()+len(sentence)+1 > opts.TargetSize {
			flush()
		}
		if accum.Len() > 0 {
			accum.WriteByte(' ')
		}
		accum.WriteString(sentence)
	}
	flush()

	// Fold a trailing fragment below MinSize into its predecessor.
	if n := len(out); n >= 2 && len(out[n-1]) < opts.MinSize {
		out[n-2] = out[n-2] + " " + out[n-1]
		out = out[:n-1]
	}

	return out
}

func hardSplit(s string, maxSize int) []string {
	words := strings.Fields(s)
	var out []string
	var current strings.Builder

	for _, w := range words {
		if current.Len() > 0 && current.Len()+len(w)+1 > maxSize {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}
