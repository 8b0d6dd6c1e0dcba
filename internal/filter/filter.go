// Package filter normalizes raw single-byte text into the stream the counters walk.
package filter

import (
	"io"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
	"github.com/verte-zerg/symkrypt/internal/model"
)

// Apply filters data according to mode. Letters are lowercased.
func Apply(data []byte, mode model.Mode, a *alphabet.Alphabet) []byte {
	out := make([]byte, 0, len(data))
	switch mode {
	case model.StripSpaces:
		for _, b := range data {
			if a.InScope(b) {
				out = append(out, a.Lower(b))
			}
		}
	default:
		prevSpace := false
		for _, b := range data {
			switch {
			case a.InScope(b):
				out = append(out, a.Lower(b))
			case isSpace(b) && !prevSpace:
				out = append(out, ' ')
			}
			prevSpace = isSpace(b)
		}
	}
	return out
}

// ReadAll reads r fully and filters it.
func ReadAll(r io.Reader, mode model.Mode, a *alphabet.Alphabet) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Apply(data, mode, a), nil
}

// isSpace matches horizontal whitespace. Newlines are excluded and break a run.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
