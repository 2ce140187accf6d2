package graph

import "sort"

// GetKeywordRelatedTexts returns up to k text ids ordered by descending relevance
// to the keyword. Equal scores keep text id order. The result is empty when the
// relevance matrix is absent, the keyword id is out of range or k <= 0.
func (s *Store) GetKeywordRelatedTexts(keywordID, k int) []int {
	if s.relevance == nil || k <= 0 || keywordID < 0 || keywordID >= s.relevance.Cols() {
		return []int{}
	}

	scores := s.relevance.Column(keywordID)
	ids := make([]int, len(scores))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return scores[ids[a]] > scores[ids[b]]
	})

	if k < len(ids) {
		ids = ids[:k]
	}
	return ids
}

// GetAdjacentKeywords returns up to k keyword ids other than keywordID in
// ascending order. Every pair of keywords is adjacent.
func (s *Store) GetAdjacentKeywords(keywordID, k int) []int {
	n := len(s.keywords)
	if n == 0 || k <= 0 || keywordID < 0 || keywordID >= n {
		return []int{}
	}

	limit := min(k, n-1)
	ids := make([]int, 0, limit)
	for id := 0; id < n && len(ids) < limit; id++ {
		if id == keywordID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Relevance returns the matrix score of a text for a keyword.
// ok is false when the matrix is absent or an id is out of range.
func (s *Store) Relevance(textID, keywordID int) (score float32, ok bool) {
	m := s.relevance
	if m == nil || textID < 0 || textID >= m.Rows() || keywordID < 0 || keywordID >= m.Cols() {
		return 0, false
	}
	return m.At(textID, keywordID), true
}
