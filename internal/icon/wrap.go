// Package icon lays out a short label as a few centered lines and renders
// it as a demo icon.
package icon

import (
	"errors"
	"strings"
)

// ErrEmptyLabel is returned when a label has no words to lay out.
var ErrEmptyLabel = errors.New("icon label has no words")

// Params bound the wrapped text block.
type Params struct {
	MinLen     int // minimum target line width, in characters
	MaxLen     int // maximum target line width, in characters
	MaxLines   int // lines beyond this are dropped
	LineHeight int // pixels per line
}

// DefaultParams returns the layout used for generated demo icons.
func DefaultParams() Params {
	return Params{MinLen: 4, MaxLen: 12, MaxLines: 5, LineHeight: 30}
}

// Layout is the result of wrapping a label.
type Layout struct {
	Lines      []string
	Width      int  // target line width in characters
	Longest    int  // length of the longest produced line
	HeightRows int  // canvas height in line units, at least len(Lines)
	TopPadding int  // pixels above the first line
	StartY     int  // y of the first (top) line, y-up
	MaxY       int  // canvas height in pixels
	Truncated  bool // words were dropped to respect MaxLines
}

// Wrap greedily word-wraps label into at most p.MaxLines lines no wider than
// the computed target width. Words longer than the target are split with a
// trailing hyphen. Completed lines are centered with leading spaces; the
// last line is left as is.
func Wrap(label string, p Params) (*Layout, error) {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil, ErrEmptyLabel
	}
	if p.MaxLines < 1 {
		p.MaxLines = 1
	}

	width := 0
	for _, w := range words {
		width = max(width, len(w)+1)
	}
	width = max(width, len(label)/p.MaxLines)
	width = max(width, p.MinLen)
	width = min(width, p.MaxLen)
	width = max(width, 2)

	var (
		lines   []string
		current string
		rest    string
		stopped bool
		wordIdx int
	)

	chunk := func(word string) (string, string) {
		cut := len(word)
		if len(word) > width {
			cut = min(width-len(current), len(word)/2)
			// An empty line must always accept the chunk plus its hyphen,
			// otherwise the same chunk would be pushed back forever.
			if current == "" && cut >= width {
				cut = width - 1
			}
		}
		cut = max(cut, 1)
		head, tail := word[:cut], word[cut:]
		if strings.TrimSpace(tail) != "" {
			head += "-"
		}
		return head, tail
	}

	for wordIdx = 0; wordIdx < len(words) && !stopped; wordIdx++ {
		word := words[wordIdx] + " "
		for word != "" {
			var piece string
			piece, word = chunk(word)
			if len(piece)+len(current) > width {
				pad := (width - len(current)) / 2
				lines = append(lines, strings.Repeat(" ", pad)+current)
				current = ""
				piece = strings.TrimSuffix(piece, "-")
				word = strings.TrimLeft(piece+word, " \t")
			} else {
				current += piece
			}
			if len(lines) >= p.MaxLines {
				rest = word
				stopped = true
				break
			}
		}
	}

	truncated := false
	if stopped {
		truncated = strings.TrimSpace(rest) != "" || wordIdx < len(words)
	} else if current != "" {
		lines = append(lines, current)
	}

	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}

	rows := max(longest/2+1, len(lines))
	top := (rows - len(lines)) * p.LineHeight / 2
	maxY := rows * p.LineHeight

	return &Layout{
		Lines:      lines,
		Width:      width,
		Longest:    longest,
		HeightRows: rows,
		TopPadding: top,
		StartY:     maxY - top,
		MaxY:       maxY,
		Truncated:  truncated,
	}, nil
}
