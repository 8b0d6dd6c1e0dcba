// Package generator builds random single-byte corpora for sampling and tests.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/symkrypt/internal/alphabet"
)

// Generator produces random letter text over an alphabet.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns count words of 1..maxLen uniformly drawn in-scope bytes,
// separated by a space, with punctPct of words followed by a comma and a
// newline every lineWords words.
func (g *Generator) Generate(a *alphabet.Alphabet, count, maxLen int, punctPct float64, lineWords int) []byte {
	if count <= 0 {
		return nil
	}
	if maxLen <= 0 {
		maxLen = 1
	}
	low, high := a.Range()
	span := int(high) - int(low) + 1
	out := make([]byte, 0, count*(maxLen/2+2))
	for i := 0; i < count; i++ {
		if i > 0 {
			if lineWords > 0 && i%lineWords == 0 {
				out = append(out, '\n')
			} else {
				out = append(out, ' ')
			}
		}
		n := 1 + g.rnd.Intn(maxLen)
		for j := 0; j < n; j++ {
			out = append(out, low+byte(g.rnd.Intn(span)))
		}
		out = applyPunct(g.rnd, out, punctPct)
	}
	return out
}

func applyPunct(rnd *rand.Rand, word []byte, punctPct float64) []byte {
	if punctPct <= 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	return append(word, ',')
}
