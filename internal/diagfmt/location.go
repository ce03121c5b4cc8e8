package diagfmt

import "arithlex/internal/source"

// PositionJSON is a serialisable cursor snapshot. Line and Col are 1-based.
type PositionJSON struct {
	Offset uint32 `json:"offset" msgpack:"offset"`
	Line   uint32 `json:"line" msgpack:"line"`
	Col    uint32 `json:"col" msgpack:"col"`
}

// LocationJSON is a serialisable span.
type LocationJSON struct {
	File  string       `json:"file" msgpack:"file"`
	Start PositionJSON `json:"start" msgpack:"start"`
	End   PositionJSON `json:"end" msgpack:"end"`
}

func makePosition(p source.Position) PositionJSON {
	return PositionJSON{Offset: p.Offset, Line: p.Line + 1, Col: p.Col + 1}
}

func makeLocation(sp source.Span) LocationJSON {
	return LocationJSON{
		File:  sp.Start.Name,
		Start: makePosition(sp.Start),
		End:   makePosition(sp.End),
	}
}
