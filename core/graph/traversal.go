package graph

import (
	"context"
	"fmt"

	"github.com/siherrmann/vectorkg/model"
)

// GraphDB defines the interface for keyword graph operations
type GraphDB interface {
	GetKeyword(ctx context.Context, id int) (*model.KeywordNode, error)
	GetKeywordNeighbors(ctx context.Context, id int, limit int) ([]int, error)
}

// TraversalResult contains a keyword and its hop distance from the source
type TraversalResult struct {
	Keyword  *model.KeywordNode
	Distance int
	Path     []int // Path from source to this keyword
}

// GetKeyword returns a copy of the keyword node with the given id
func (s *Store) GetKeyword(ctx context.Context, id int) (*model.KeywordNode, error) {
	if id < 0 || id >= len(s.keywords) {
		return nil, fmt.Errorf("keyword %d not found", id)
	}
	kw := s.keywords[id].Clone()
	return &kw, nil
}

// GetKeywordNeighbors returns up to limit keywords adjacent to id
func (s *Store) GetKeywordNeighbors(ctx context.Context, id int, limit int) ([]int, error) {
	return s.GetAdjacentKeywords(id, limit), nil
}

// BFS performs breadth-first search from a source keyword.
// fanout bounds the number of neighbors expanded per keyword.
func BFS(ctx context.Context, db GraphDB, sourceID int, maxHops int, fanout int) ([]*TraversalResult, error) {
	sourceKeyword, err := db.GetKeyword(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	visited := map[int]bool{sourceID: true}
	queue := []TraversalResult{{
		Keyword:  sourceKeyword,
		Distance: 0,
		Path:     []int{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]
		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		neighbors, err := db.GetKeywordNeighbors(ctx, current.Keyword.ID, fanout)
		if err != nil {
			return nil, err
		}

		for _, targetID := range neighbors {
			if visited[targetID] {
				continue
			}

			targetKeyword, err := db.GetKeyword(ctx, targetID)
			if err != nil {
				continue // Skip if keyword not found
			}
			visited[targetID] = true

			newPath := make([]int, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)
			newPath = append(newPath, targetID)

			queue = append(queue, TraversalResult{
				Keyword:  targetKeyword,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results, nil
}

// DFS performs depth-first search from a source keyword
func DFS(ctx context.Context, db GraphDB, sourceID int, maxHops int, fanout int) ([]*TraversalResult, error) {
	sourceKeyword, err := db.GetKeyword(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	visited := make(map[int]bool)
	var results []*TraversalResult
	if err := dfsRecursive(ctx, db, sourceKeyword, 0, maxHops, fanout, []int{sourceID}, visited, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func dfsRecursive(
	ctx context.Context,
	db GraphDB,
	current *model.KeywordNode,
	distance int,
	maxHops int,
	fanout int,
	path []int,
	visited map[int]bool,
	results *[]*TraversalResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	visited[current.ID] = true

	pathCopy := make([]int, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Keyword:  current,
		Distance: distance,
		Path:     pathCopy,
	})

	if distance >= maxHops {
		return nil
	}

	neighbors, err := db.GetKeywordNeighbors(ctx, current.ID, fanout)
	if err != nil {
		return err
	}

	for _, targetID := range neighbors {
		if visited[targetID] {
			continue
		}

		targetKeyword, err := db.GetKeyword(ctx, targetID)
		if err != nil {
			continue
		}

		newPath := make([]int, len(path), len(path)+1)
		copy(newPath, path)
		newPath = append(newPath, targetID)

		if err := dfsRecursive(ctx, db, targetKeyword, distance+1, maxHops, fanout, newPath, visited, results); err != nil {
			return err
		}
	}

	return nil
}

// GetNeighbors retrieves immediate neighbors (1-hop) of a keyword
func GetNeighbors(ctx context.Context, db GraphDB, keywordID int, fanout int) ([]*model.KeywordNode, error) {
	results, err := BFS(ctx, db, keywordID, 1, fanout)
	if err != nil {
		return nil, err
	}

	// Skip the source keyword itself (first result)
	neighbors := make([]*model.KeywordNode, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Keyword)
	}

	return neighbors, nil
}
