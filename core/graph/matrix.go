package graph

// RelevanceMatrix is a dense text × keyword score matrix stored row-major.
// Row i belongs to text node i, column j to keyword node j.
type RelevanceMatrix struct {
	rows int
	cols int
	data []float32
}

// NewRelevanceMatrix fills a nTexts × nKeywords matrix with (i+j)/(nTexts+nKeywords).
// It returns nil when either dimension is zero.
func NewRelevanceMatrix(nTexts, nKeywords int) *RelevanceMatrix {
	if nTexts <= 0 || nKeywords <= 0 {
		return nil
	}

	total := float32(nTexts + nKeywords)
	m := &RelevanceMatrix{
		rows: nTexts,
		cols: nKeywords,
		data: make([]float32, nTexts*nKeywords),
	}
	for i := 0; i < nTexts; i++ {
		row := m.data[i*nKeywords : (i+1)*nKeywords]
		for j := range row {
			row[j] = float32(i+j) / total
		}
	}
	return m
}

// Rows returns the number of text rows
func (m *RelevanceMatrix) Rows() int {
	if m == nil {
		return 0
	}
	return m.rows
}

// Cols returns the number of keyword columns
func (m *RelevanceMatrix) Cols() int {
	if m == nil {
		return 0
	}
	return m.cols
}

// At returns the relevance of text i to keyword j
func (m *RelevanceMatrix) At(i, j int) float32 {
	return m.data[i*m.cols+j]
}

// Column returns a copy of the scores of keyword j for all texts
func (m *RelevanceMatrix) Column(j int) []float32 {
	col := make([]float32, m.rows)
	for i := range col {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}
