package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF replaces every \r\n with \n and leaves lone \r alone.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// normalizeNFC composes decomposed sequences so that one visible character
// is one rune for the lexer and its offsets.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	out := norm.NFC.Bytes(content)
	return out, !bytes.Equal(out, content)
}

// replaceInvalidUTF8 turns each run of undecodable bytes into one U+FFFD,
// keeping rune offsets and byte offsets of the text in step.
func replaceInvalidUTF8(content []byte) ([]byte, bool) {
	if utf8.Valid(content) {
		return content, false
	}
	return bytes.ToValidUTF8(content, []byte(string(utf8.RuneError))), true
}

// ValidText is replaceInvalidUTF8 for strings handed straight to the lexer.
func ValidText(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	out, _ := replaceInvalidUTF8([]byte(text))
	return string(out)
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func normalizePath(p string) string {
	// forward slashes keep paths stable across platforms
	return filepath.ToSlash(filepath.Clean(p))
}
