package reply_test

import (
	"strings"
	"testing"

	"github.com/peginatta/inventory-bot/internal/invbot/reply"
)

func TestFullInventoryEmpty(t *testing.T) {
	if got := reply.FullInventory(nil); got != "Inventory is empty." {
		t.Fatalf("FullInventory(nil) = %q", got)
	}
	if got := reply.FullInventory(map[string]int{}); got != "Inventory is empty." {
		t.Fatalf("FullInventory(empty) = %q", got)
	}
}

func TestFullInventorySorted(t *testing.T) {
	got := reply.FullInventory(map[string]int{"m199": 50, "dmem": 300, "schneider": -20})
	want := "Current inventory:\n- dmem: 300 ml\n- m199: 50 ml\n- schneider: -20 ml"
	if got != want {
		t.Fatalf("FullInventory = %q, want %q", got, want)
	}
}

func TestSingleItem(t *testing.T) {
	items := map[string]int{"dmem": 300}

	if got := reply.SingleItem(items, "dmem", "dmem"); got != "dmem: 300 ml" {
		t.Errorf("SingleItem hit = %q", got)
	}
	// The miss line echoes the user's original text, not the normalized key.
	if got := reply.SingleItem(items, "xyz", "XYZ!"); got != "No entry found for 'XYZ!'." {
		t.Errorf("SingleItem miss = %q", got)
	}
}

func TestConfirmations(t *testing.T) {
	if got := reply.Updated("dmem", -200, -200); got != "Updated **dmem** by -200 ml. New total: -200 ml." {
		t.Errorf("Updated = %q", got)
	}
	if got := reply.Set("dmem", 1000); got != "Set **dmem** to 1000 ml." {
		t.Errorf("Set = %q", got)
	}
}

func TestHelpMentionsEverySyntax(t *testing.T) {
	for _, want := range []string{"dmem -200", "m199 +500ml", "inv", "set dmem 1000", "sch", "schneider"} {
		if !strings.Contains(reply.Help, want) {
			t.Errorf("help text does not mention %q", want)
		}
	}
}
