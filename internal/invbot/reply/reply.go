// Package reply renders ledger state and confirmations as chat text.
// Everything here is pure string building; nothing talks to the transport.
package reply

import (
	"fmt"
	"sort"
	"strings"
)

// Usage hints returned when an amount fails to parse.
const (
	UpdateUsage = "I couldn't understand the amount. Use something like `dmem -200` or `m199 +500`."
	SetUsage    = "Usage: `set <item> <amount_ml>`\nExample: `set dmem 1000`"
)

// Help is the multi-section usage text, reachable both through the natural
// help keywords and the prefixed !help command.
const Help = "**Inventory bot usage (no prefix needed):**\n\n" +
	"__Update amounts:__\n" +
	"- `dmem -200` → subtract 200 ml from DMEM\n" +
	"- `m199 +500ml` → add 500 ml to M199\n" +
	"- `sch -50` → subtract 50 ml from Schneider (because `sch` is aliased)\n\n" +
	"__Check inventory:__\n" +
	"- `inv` or `inventory` → show all items\n" +
	"- `inv dmem` or `inventory m199` → show a single item\n" +
	"- `dmem` (just the name) → show that item's amount (if it exists)\n\n" +
	"__Set exact value:__\n" +
	"- `set dmem 1000` → set DMEM to exactly 1000 ml\n\n" +
	"__Aliases:__\n" +
	"- `sch` or `sh` → interpreted as **schneider**\n\n" +
	"Inventory is stored in a local JSON file and kept in sync with a Google Sheet."

// FullInventory lists every item sorted by key, one line per item, or the
// empty-ledger sentinel when there is nothing to list.
func FullInventory(items map[string]int) string {
	if len(items) == 0 {
		return "Inventory is empty."
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Current inventory:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n- %s: %d ml", k, items[k])
	}
	return b.String()
}

// SingleItem renders one item's quantity, or a not-found line echoing the
// user's original (non-normalized) query text.
func SingleItem(items map[string]int, key, originalQuery string) string {
	if amount, ok := items[key]; ok {
		return fmt.Sprintf("%s: %d ml", key, amount)
	}
	return fmt.Sprintf("No entry found for '%s'.", originalQuery)
}

// Updated confirms a delta update, naming the canonical item and new total.
func Updated(name string, delta, total int) string {
	return fmt.Sprintf("Updated **%s** by %d ml. New total: %d ml.", name, delta, total)
}

// Set confirms an absolute assignment.
func Set(name string, amount int) string {
	return fmt.Sprintf("Set **%s** to %d ml.", name, amount)
}
