package chunker

// windowChunker splits files with no boundary detection into fixed-size,
// non-overlapping windows that cover the file exactly.
type windowChunker struct {
	size int
}

func (w *windowChunker) Scan(lines []string) []span {
	var spans []span
	for start := 1; start <= len(lines); start += w.size {
		end := start + w.size - 1
		if end > len(lines) {
			end = len(lines)
		}
		spans = append(spans, span{start: start, end: end, kind: KindCodeBlock})
	}
	return spans
}
