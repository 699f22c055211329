package matrix

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var colorNamespace = uuid.MustParse("5b1f3c9e-2a0d-4c53-9a57-3f0e8f7d6c21")

// derivedID derives an id from the colour name and skips ids already in use.
// NewGrid uses it so that identical input builds identical grids.
func derivedID(name string, inUse map[string]bool) string {
	for k := 0; ; k++ {
		id := uuid.NewSHA1(colorNamespace, []byte(name+"\x00"+strconv.Itoa(k))).String()
		if !inUse[id] {
			inUse[id] = true
			return id
		}
	}
}

// randomID returns a new random id not in use. Colours added to an existing
// grid get one, so a removed colour's id is never handed to a later colour
// of the same name.
func randomID(inUse map[string]bool) string {
	for {
		id := uuid.NewString()
		if !inUse[id] {
			inUse[id] = true
			return id
		}
	}
}

// Reconcile assigns ids to incoming colours from the colours already held.
// A colour keeps the id of the first unused old colour with the same name;
// failing that, an id it carries is kept when it belongs to an old colour not
// matched by name; otherwise it gets a new random id. Output order follows
// incoming. Reconciling the result against the same incoming list again
// yields the same ids.
func Reconcile(old, incoming []Color) []Color {
	out := make([]Color, len(incoming))
	used := make([]bool, len(old))
	oldIDs := make(map[string]int, len(old))
	for j, o := range old {
		if _, dup := oldIDs[o.ID]; !dup {
			oldIDs[o.ID] = j
		}
	}

	for i, c := range incoming {
		out[i] = c
		out[i].ID = ""
		for j, o := range old {
			if !used[j] && o.Name == c.Name {
				used[j] = true
				out[i].ID = o.ID
				break
			}
		}
	}

	for i, c := range incoming {
		if out[i].ID != "" || c.ID == "" {
			continue
		}
		if j, ok := oldIDs[c.ID]; ok && !used[j] {
			used[j] = true
			out[i].ID = c.ID
		}
	}

	inUse := make(map[string]bool, len(old)+len(out))
	for _, o := range old {
		inUse[o.ID] = true
	}
	for _, c := range out {
		if c.ID != "" {
			inUse[c.ID] = true
		}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = randomID(inUse)
		}
	}
	return out
}

// Reload replaces g with the grid described by b while keeping the ids of
// colours that are still present.
func (g Grid) Reload(b Breakdown, defaultPrice decimal.Decimal) Grid {
	incoming := Load(b, defaultPrice)
	incoming.colors = Reconcile(g.colors, incoming.colors)
	return incoming
}
