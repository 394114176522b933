package intent_test

import (
	"testing"

	"github.com/peginatta/inventory-bot/internal/invbot/intent"
	"github.com/peginatta/inventory-bot/internal/invbot/ledger"
)

func newClassifier(existing ...string) *intent.Classifier {
	keys := make(map[string]bool, len(existing))
	for _, k := range existing {
		keys[k] = true
	}
	return intent.NewClassifier(ledger.DefaultAliases(), func(key string) bool {
		return keys[key]
	})
}

func TestClassify(t *testing.T) {
	c := newClassifier("dmem", "m199", "schneider")

	tests := []struct {
		name  string
		input string
		want  intent.Intent
	}{
		{"help word", "help", intent.Intent{Kind: intent.KindHelp}},
		{"help short", "h", intent.Intent{Kind: intent.KindHelp}},
		{"help question mark", "?", intent.Intent{Kind: intent.KindHelp}},
		{"help with trailing word", "help me", intent.Intent{Kind: intent.KindHelp}},
		{"help in long sentence is chat", "help me count all the flasks", intent.Intent{Kind: intent.KindPassthrough}},

		{"list all", "inv", intent.Intent{Kind: intent.KindListAll}},
		{"list all synonym", "inventory", intent.Intent{Kind: intent.KindListAll}},
		{"list all spanish", "inventario", intent.Intent{Kind: intent.KindListAll}},
		{"list all punctuated keyword", "inv!", intent.Intent{Kind: intent.KindListAll}},
		{"list one", "inv dmem", intent.Intent{Kind: intent.KindListOne, Item: "dmem", Query: "dmem"}},
		{"list one alias", "inventory sch", intent.Intent{Kind: intent.KindListOne, Item: "schneider", Query: "sch"}},
		{"list one unknown still list-one", "inv xyz", intent.Intent{Kind: intent.KindListOne, Item: "xyz", Query: "xyz"}},

		{"bare lookup hit", "dmem", intent.Intent{Kind: intent.KindListOne, Item: "dmem", Query: "dmem"}},
		{"bare lookup alias hit", "sch", intent.Intent{Kind: intent.KindListOne, Item: "schneider", Query: "sch"}},
		{"bare lookup upper", "DMEM", intent.Intent{Kind: intent.KindListOne, Item: "dmem", Query: "dmem"}},
		{"bare lookup miss is chat", "xyz123", intent.Intent{Kind: intent.KindPassthrough}},

		{"update subtract", "dmem -200", intent.Intent{Kind: intent.KindUpdate, Item: "dmem", Query: "dmem", Amount: -200}},
		{"update add with suffix", "m199 +500ml", intent.Intent{Kind: intent.KindUpdate, Item: "m199", Query: "m199", Amount: 500}},
		{"update with colon", "dmem: -200", intent.Intent{Kind: intent.KindUpdate, Item: "dmem", Query: "dmem", Amount: -200}},
		{"update no space", "dmem-200", intent.Intent{Kind: intent.KindUpdate, Item: "dmem", Query: "dmem", Amount: -200}},
		{"update alias", "sch -50", intent.Intent{Kind: intent.KindUpdate, Item: "schneider", Query: "sch", Amount: -50}},
		{"update mixed case", "DMEM +100", intent.Intent{Kind: intent.KindUpdate, Item: "dmem", Query: "dmem", Amount: 100}},

		// Sign is mandatory: a bare number never fires an update.
		{"unsigned number is chat", "dmem 200", intent.Intent{Kind: intent.KindPassthrough}},
		{"incidental number is chat", "we used 200 flasks today", intent.Intent{Kind: intent.KindPassthrough}},

		{"set", "set dmem 1000", intent.Intent{Kind: intent.KindSet, Item: "dmem", Query: "dmem", Amount: 1000}},
		{"set alias", "set sch 500", intent.Intent{Kind: intent.KindSet, Item: "schneider", Query: "sch", Amount: 500}},
		{"set negative", "set dmem -10", intent.Intent{Kind: intent.KindSet, Item: "dmem", Query: "dmem", Amount: -10}},
		{"set bad amount", "set dmem lots", intent.Intent{Kind: intent.KindBadSetAmount}},
		{"set too few tokens is chat", "set dmem", intent.Intent{Kind: intent.KindPassthrough}},

		{"empty", "", intent.Intent{Kind: intent.KindPassthrough}},
		{"whitespace", "   ", intent.Intent{Kind: intent.KindPassthrough}},
		{"ordinary chat", "see you all tomorrow", intent.Intent{Kind: intent.KindPassthrough}},
		{"prefixed command is chat here", "!help", intent.Intent{Kind: intent.KindPassthrough}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyOverflowAmount(t *testing.T) {
	c := newClassifier()
	got := c.Classify("dmem +99999999999999999999999999")
	if got.Kind != intent.KindBadUpdateAmount {
		t.Fatalf("Classify overflow = %+v, want %v", got, intent.KindBadUpdateAmount)
	}
}

// Keyword listing outranks the update pattern, and the update pattern
// outranks set only because "set ..." never matches it; the recognizer
// order is the contract, so pin the two interesting collisions.
func TestClassifyOrdering(t *testing.T) {
	c := newClassifier("inv")

	// "inv" names an existing ledger item here, but the keyword rule runs
	// before bare lookup and claims it as list-all.
	if got := c.Classify("inv"); got.Kind != intent.KindListAll {
		t.Errorf("Classify(inv) = %+v, want list-all", got)
	}

	// "list -5" looks like an update of item "list", but the keyword rule
	// claims it first as a single-item listing.
	got := c.Classify("list -5")
	if got.Kind != intent.KindListOne {
		t.Errorf("Classify(list -5) = %+v, want list-one", got)
	}
}
