package idtable_test

import (
	"fmt"
	"maps"

	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/idtable"
	"github.com/plus3/interstellar/sim"
)

// ExampleTable shows deferred removal: dead entries stay until stale ones
// outnumber live ones, then a rebuild from the live set drops them.
func ExampleTable() {
	table := idtable.New(nil)
	world := sim.NewWorld()

	live := map[sim.Entity]ident.LongId{}
	var ids []ident.LongId
	for range 3 {
		e, id := world.Spawn(), ident.Random()
		table.Insert(id, e)
		live[e] = id
		ids = append(ids, id)
	}

	for e, id := range live {
		if id != ids[0] {
			delete(live, e)
		}
	}
	table.MarkRemoved(2)
	fmt.Println("rebuild after 2 removals:", table.ShouldRebuild())

	table.MarkRemoved(2)
	fmt.Println("rebuild after 4 removals:", table.ShouldRebuild())

	table.Rebuild(maps.All(live))
	_, ok := table.Query(ids[1])
	fmt.Println("entries:", table.Len(), "removed id found:", ok)

	// Output:
	// rebuild after 2 removals: false
	// rebuild after 4 removals: true
	// entries: 1 removed id found: false
}
