package diag

// Reporter receives diagnostics from lexer.Collect.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adds into Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Discard is a Reporter that drops everything.
var Discard Reporter = discard{}
