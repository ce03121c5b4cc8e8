package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0
	// Лексические
	LexInfo             Code = 1000
	LexIllegalCharacter Code = 1001

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		LexInfo:             "Lexical information",
		LexIllegalCharacter: "Illegal character",
		IOLoadFileError:     "I/O load file error",
		IOCacheError:        "Token cache error",
	}

	codeCategory = map[Code]string{
		UnknownCode:         "UnknownError",
		LexInfo:             "LexInfo",
		LexIllegalCharacter: "IllegalCharacter",
		IOLoadFileError:     "LoadFileError",
		IOCacheError:        "CacheError",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Category is the short machine-friendly error name, e.g. "IllegalCharacter".
func (c Code) Category() string {
	cat, ok := codeCategory[c]
	if !ok {
		return codeCategory[Code(0)]
	}
	return cat
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
