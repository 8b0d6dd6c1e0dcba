// Package alphabet defines which bytes count as letters and how they are lowered and displayed.
package alphabet

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

const (
	// DefaultLow is the first in-scope byte of the single-byte Cyrillic block.
	DefaultLow = 192
	// DefaultHigh is the last in-scope byte.
	DefaultHigh = 255
	// DefaultEncoding is the code page used to interpret input bytes.
	DefaultEncoding = "windows-1251"
)

var codePages = map[string]*charmap.Charmap{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"koi8-u":       charmap.KOI8U,
	"iso-8859-5":   charmap.ISO8859_5,
	"cp866":        charmap.CodePage866,
}

// Encodings lists the supported code page names.
func Encodings() []string {
	names := make([]string, 0, len(codePages))
	for name := range codePages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alphabet is a single-byte letter policy: a byte range plus a code page.
type Alphabet struct {
	low      byte
	high     byte
	encoding string
	cm       *charmap.Charmap
	lower    [256]byte
}

// New builds an Alphabet for the inclusive byte range [low, high] in the named code page.
func New(low, high int, encoding string) (*Alphabet, error) {
	if low < 0 || low > 255 || high < 0 || high > 255 {
		return nil, fmt.Errorf("byte range %d..%d out of bounds 0..255", low, high)
	}
	if low > high {
		return nil, fmt.Errorf("byte range low %d exceeds high %d", low, high)
	}
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" {
		name = DefaultEncoding
	}
	cm, ok := codePages[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q (available: %s)", encoding, strings.Join(Encodings(), ", "))
	}
	a := &Alphabet{
		low:      byte(low),
		high:     byte(high),
		encoding: name,
		cm:       cm,
	}
	for i := 0; i < 256; i++ {
		a.lower[i] = byte(i)
	}
	for i := low; i <= high; i++ {
		b := byte(i)
		r := unicode.ToLower(cm.DecodeByte(b))
		lb, ok := cm.EncodeRune(r)
		if !ok || !a.InScope(lb) {
			continue
		}
		a.lower[i] = lb
	}
	return a, nil
}

// Default returns the windows-1251 alphabet over bytes 192..255.
func Default() *Alphabet {
	a, err := New(DefaultLow, DefaultHigh, DefaultEncoding)
	if err != nil {
		panic(err)
	}
	return a
}

// Encoding returns the normalized code page name.
func (a *Alphabet) Encoding() string {
	return a.encoding
}

// Range returns the inclusive in-scope byte range.
func (a *Alphabet) Range() (low, high byte) {
	return a.low, a.high
}

// InScope reports whether b is a letter of the alphabet.
func (a *Alphabet) InScope(b byte) bool {
	return b >= a.low && b <= a.high
}

// Lower maps an in-scope byte to its lowercase form. Other bytes are returned unchanged.
func (a *Alphabet) Lower(b byte) byte {
	return a.lower[b]
}

// Decode returns the rune a byte stands for in the code page.
func (a *Alphabet) Decode(b byte) rune {
	if b < 0x80 {
		return rune(b)
	}
	return a.cm.DecodeByte(b)
}

// Encode converts UTF-8 text to code page bytes. Unencodable runes become '?'.
func (a *Alphabet) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := a.cm.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// Text decodes a byte key (symbol or bigram) to UTF-8.
func (a *Alphabet) Text(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		b.WriteRune(a.Decode(key[i]))
	}
	return b.String()
}

// SpaceMark stands for a space inside a bigram label. No supported code page
// can encode it, so it never collides with an in-scope letter.
const SpaceMark = "\u2423"

// Label renders a byte key for reports; a lone space becomes <space> and spaces
// inside bigrams become SpaceMark.
func (a *Alphabet) Label(key string) string {
	if key == " " {
		return "<space>"
	}
	return strings.ReplaceAll(a.Text(key), " ", SpaceMark)
}
