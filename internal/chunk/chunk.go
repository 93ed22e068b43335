// Package chunk partitions observed year ranges into request-sized pieces.
//
// The UIS API caps the number of observations returned per request, so a
// country/endpoint pair with a long history must be fetched over several
// year ranges. Partitioning is driven by the per-year observation counts the
// structure document reports.
package chunk

import "sort"

// Chunk is an inclusive year range whose observations fit one API request.
type Chunk struct {
	Start int
	End   int
}

// Partition splits the observed years into chunks, newest first. A chunk is
// closed when adding the next (older) year would reach the ceiling, and the
// oldest partial chunk is always closed at the end, so the chunks tile the
// observed span with no gaps or overlaps. A single year whose count alone
// reaches the ceiling forms its own one-year chunk.
func Partition(counts map[int]int, ceiling int) []Chunk {
	if len(counts) == 0 {
		return nil
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	var chunks []Chunk
	end := years[0]
	prev := end
	acc := 0
	for _, y := range years {
		if acc > 0 && acc+counts[y] >= ceiling {
			chunks = append(chunks, Chunk{Start: prev, End: end})
			end = y
			acc = 0
		}
		acc += counts[y]
		prev = y
	}
	chunks = append(chunks, Chunk{Start: years[len(years)-1], End: end})
	return chunks
}
