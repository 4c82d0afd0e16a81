package text

import "sort"

// buildLines computes the start offset of every line.
// Line 1 starts at offset 0. A line ends after '\n'.
func (s *Source) buildLines() {
	s.lines = []int{0}
	for base, chunk := range s.Chunks() {
		for i := 0; i < len(chunk); i++ {
			if chunk[i] == '\n' {
				s.lines = append(s.lines, base+i+1)
			}
		}
	}
}

func (s *Source) lineStarts() []int {
	s.linesOnce.Do(s.buildLines)
	return s.lines
}

// LineCount returns the number of lines. An empty source has one line.
func (s *Source) LineCount() int {
	return len(s.lineStarts())
}

// LineCol converts a byte offset to a 1-based line and column.
// Columns count bytes. Offsets outside the source are clamped.
func (s *Source) LineCol(offset int) (int, int) {
	offset = min(max(offset, 0), s.length)
	lines := s.lineStarts()

	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i] > offset
	}) - 1

	return idx + 1, offset - lines[idx] + 1
}

// Offset converts a 1-based line and column to a byte offset.
// Returns false if the position does not exist.
func (s *Source) Offset(line, col int) (int, bool) {
	lines := s.lineStarts()
	if line < 1 || line > len(lines) || col < 1 {
		return 0, false
	}

	offset := lines[line-1] + col - 1
	if line < len(lines) && offset >= lines[line] {
		return 0, false
	}
	if offset > s.length {
		return 0, false
	}
	return offset, true
}
