package risk

// TerritoryCount is the number of territories on the classic board.
const TerritoryCount = 42

// ContinentCount is the number of continents on the classic board.
const ContinentCount = 6

// TerritoryName identifies a territory on the board.
type TerritoryName string

// ContinentName identifies a continent on the board.
type ContinentName string

// ContinentData holds a continent's bonus value and member territories.
type ContinentData struct {
	Name        ContinentName
	Bonus       int
	Territories []TerritoryName
}

// ControlledBy reports whether every member territory is owned by the player.
func (c *ContinentData) ControlledBy(playerID string, territories map[TerritoryName]*Territory) bool {
	for _, name := range c.Territories {
		t, ok := territories[name]
		if !ok || t.Owner != playerID {
			return false
		}
	}
	return true
}

// Board holds the full territory and continent graph.
// It is built once at startup and must not be mutated.
type Board struct {
	Adjacency   map[TerritoryName][]TerritoryName
	Continents  map[ContinentName]*ContinentData
	continentOf map[TerritoryName]ContinentName
	order       []TerritoryName // declaration order, for deterministic iteration
}

// Territories returns all territory names in declaration order.
// Callers must not mutate the returned slice.
func (b *Board) Territories() []TerritoryName {
	return b.order
}

// Contains reports whether the territory exists on the board.
func (b *Board) Contains(t TerritoryName) bool {
	_, ok := b.continentOf[t]
	return ok
}

// AdjacentTo returns the neighbors of a territory.
// Callers must not mutate the returned slice.
func (b *Board) AdjacentTo(t TerritoryName) []TerritoryName {
	return b.Adjacency[t]
}

// Adjacent reports whether two territories share a border.
func (b *Board) Adjacent(from, to TerritoryName) bool {
	for _, n := range b.Adjacency[from] {
		if n == to {
			return true
		}
	}
	return false
}

// ContinentOf returns the continent a territory belongs to.
func (b *Board) ContinentOf(t TerritoryName) (ContinentName, bool) {
	c, ok := b.continentOf[t]
	return c, ok
}

// ContinentBonus returns the army bonus for controlling a continent,
// or 0 for an unknown continent.
func (b *Board) ContinentBonus(c ContinentName) int {
	if data, ok := b.Continents[c]; ok {
		return data.Bonus
	}
	return 0
}

// Connected reports whether a path exists from one territory to another
// through the subgraph induced by territories for which ownedBy returns
// true. The destination must satisfy ownedBy; the origin is not checked.
// A territory is trivially connected to itself. Breadth-first search.
func (b *Board) Connected(from, to TerritoryName, ownedBy func(TerritoryName) bool) bool {
	if from == to {
		return true
	}
	visited := map[TerritoryName]bool{from: true}
	queue := []TerritoryName{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range b.Adjacency[current] {
			if visited[n] {
				continue
			}
			if !ownedBy(n) {
				continue
			}
			if n == to {
				return true
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}
