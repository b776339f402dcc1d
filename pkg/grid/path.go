// pkg/grid/path.go
package grid

import "errors"

// SearchBudget caps the number of node expansions a single search may
// perform.
const SearchBudget = 20000

// ErrBudgetExhausted reports a search that hit SearchBudget before
// settling the question of reachability.
var ErrBudgetExhausted = errors.New("search budget exhausted")

// FindPath returns the ordered list of tiles from start to goal, excluding
// the start tile, using breadth-first search over cardinal neighbors. The
// goal tile is always treated as traversable even when blocked, so units
// can path to contested destinations. A nil path with a nil error means
// the goal is unreachable; ErrBudgetExhausted means the search gave up
// before it could tell.
func (g *Grid) FindPath(start, goal TileCoord) ([]TileCoord, error) {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return nil, nil
	}
	if start == goal {
		return nil, nil
	}

	parent := make(map[TileCoord]TileCoord, 256)
	parent[start] = start
	queue := []TileCoord{start}
	expansions := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		expansions++
		if expansions > SearchBudget {
			return nil, ErrBudgetExhausted
		}

		for _, next := range cur.Neighbors4() {
			if _, seen := parent[next]; seen {
				continue
			}
			if !g.IsNavigable(next) && next != goal {
				continue
			}
			parent[next] = cur
			if next == goal {
				return reconstruct(parent, start, goal), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, nil
}

// reconstruct walks the parent links back from goal and reverses them
func reconstruct(parent map[TileCoord]TileCoord, start, goal TileCoord) []TileCoord {
	var path []TileCoord
	for c := goal; c != start; c = parent[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NearestOpenNeighbor ring-searches outward from a coordinate for the
// closest navigable, unoccupied tile. Used by builders when the exact
// target tile is itself occupied.
func (g *Grid) NearestOpenNeighbor(center TileCoord, occupied func(TileCoord) bool) (TileCoord, bool) {
	tiles := g.ringSearch(center, 1, func(c TileCoord) bool {
		return g.IsNavigable(c) && (occupied == nil || !occupied(c))
	})
	if len(tiles) == 0 {
		return TileCoord{}, false
	}
	return tiles[0], true
}

// AllocateGroupDestinations assigns up to n distinct free tiles near a
// shared destination, nearest first. A tile is free when it is navigable,
// not occupied by a unit outside the moving group, and not already handed
// out in this allocation. Fewer than n results means the remaining units
// stay put.
func (g *Grid) AllocateGroupDestinations(dest TileCoord, n int, occupied func(TileCoord) bool) []TileCoord {
	if n <= 0 {
		return nil
	}
	reserved := make(map[TileCoord]bool, n)
	tiles := g.ringSearch(dest, n, func(c TileCoord) bool {
		if reserved[c] {
			return false
		}
		if !g.IsNavigable(c) {
			return false
		}
		if occupied != nil && occupied(c) {
			return false
		}
		reserved[c] = true
		return true
	})
	return tiles
}

// ringSearch performs a budget-bounded BFS outward from center, collecting
// up to n tiles accepted by the predicate. The center itself is considered
// first.
func (g *Grid) ringSearch(center TileCoord, n int, accept func(TileCoord) bool) []TileCoord {
	var found []TileCoord
	visited := map[TileCoord]bool{center: true}
	queue := []TileCoord{center}
	expansions := 0

	for len(queue) > 0 && len(found) < n {
		cur := queue[0]
		queue = queue[1:]

		expansions++
		if expansions > SearchBudget {
			break
		}

		if accept(cur) {
			found = append(found, cur)
		}

		for _, next := range cur.Neighbors4() {
			if visited[next] || !g.InBounds(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return found
}
