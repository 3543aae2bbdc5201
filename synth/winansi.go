package synth

import (
	"bytes"

	anyascii "github.com/anyascii/go"
)

// winAnsiExtra maps the runes that live in the 0x80-0x9F gap of the
// WinAnsiEncoding (CP-1252) code page.
var winAnsiExtra = map[rune]byte{
	'€': 0x80, // euro sign
	'‚': 0x82,
	'ƒ': 0x83,
	'„': 0x84,
	'…': 0x85,
	'†': 0x86,
	'‡': 0x87,
	'ˆ': 0x88,
	'‰': 0x89,
	'Š': 0x8A,
	'‹': 0x8B,
	'Œ': 0x8C,
	'Ž': 0x8E,
	'‘': 0x91,
	'’': 0x92,
	'“': 0x93,
	'”': 0x94,
	'•': 0x95,
	'–': 0x96,
	'—': 0x97,
	'˜': 0x98,
	'™': 0x99,
	'š': 0x9A,
	'›': 0x9B,
	'œ': 0x9C,
	'ž': 0x9E,
	'Ÿ': 0x9F,
}

// encodeLine converts recognized text to WinAnsi bytes. Runes outside the
// code page are transliterated to ASCII so searchable text degrades to a
// close approximation instead of disappearing. The second return is false
// when nothing encodable remains.
func encodeLine(text string) ([]byte, bool) {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r >= 0xA0 && r <= 0xFF:
			out = append(out, byte(r))
		default:
			if b, ok := winAnsiExtra[r]; ok {
				out = append(out, b)
				continue
			}
			out = append(out, []byte(anyascii.Transliterate(string(r)))...)
		}
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, false
	}
	return out, true
}
