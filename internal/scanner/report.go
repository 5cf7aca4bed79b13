package scanner

// Scan runs the full pipeline over one source file: classification,
// tokenization, context tracking, definition matching, and field extraction.
// It never fails: malformed input degrades to partial results plus
// diagnostics. The engine holds no global state, so Scan is safe to call
// concurrently on disjoint inputs.
func Scan(source, filePath string) *FileReport {
	spans, lexDiags := Classify(source)
	toks := tokenize(source, spans)

	s := newScan(source, toks)
	s.run()

	report := &FileReport{
		FilePath:    filePath,
		Definitions: s.defs,
	}
	if report.Definitions == nil {
		report.Definitions = []Definition{}
	}

	// Attach each diagnostic to the innermost definition whose span contains
	// it; diagnostics outside every definition stay file-level.
	all := append(lexDiags, s.diags...)
	for _, diag := range all {
		diag.Line = s.lines.LineFor(diag.Offset)
		if idx := report.enclosingDefinition(diag.Offset); idx >= 0 {
			report.Definitions[idx].Diagnostics = append(report.Definitions[idx].Diagnostics, diag)
		} else {
			report.Diagnostics = append(report.Diagnostics, diag)
		}
	}
	return report
}

// enclosingDefinition returns the index of the innermost definition whose
// span contains the offset, or -1.
func (r *FileReport) enclosingDefinition(offset int) int {
	best := -1
	bestSize := 0
	for i := range r.Definitions {
		d := &r.Definitions[i]
		if offset < d.Span.Start || offset >= d.Span.End {
			continue
		}
		size := d.Span.End - d.Span.Start
		if best < 0 || size < bestSize {
			best = i
			bestSize = size
		}
	}
	return best
}

// TotalFields counts fields across all definitions in the report.
func (r *FileReport) TotalFields() int {
	n := 0
	for i := range r.Definitions {
		n += len(r.Definitions[i].Fields)
	}
	return n
}
