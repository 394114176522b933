// Package intent classifies free-form chat messages into inventory actions.
//
// Classification is deterministic keyword and pattern matching over a single
// message line, tried as an ordered list of recognizers where the first match
// wins. No message state is kept between calls.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/peginatta/inventory-bot/internal/invbot/ledger"
)

// Kind identifies the action the user wants the bot to take.
type Kind string

const (
	// KindHelp requests the usage text.
	KindHelp Kind = "help"
	// KindListAll requests the full inventory listing.
	KindListAll Kind = "list_all"
	// KindListOne requests a single item's quantity.
	KindListOne Kind = "list_one"
	// KindUpdate adds a signed delta to an item.
	KindUpdate Kind = "update"
	// KindSet assigns an absolute quantity to an item.
	KindSet Kind = "set"
	// KindBadUpdateAmount is an update whose amount could not be parsed.
	KindBadUpdateAmount Kind = "bad_update_amount"
	// KindBadSetAmount is a set whose amount could not be parsed.
	KindBadSetAmount Kind = "bad_set_amount"
	// KindPassthrough means no inventory pattern matched; the message goes
	// to the generic prefixed-command dispatcher and is otherwise inert.
	KindPassthrough Kind = "passthrough"
)

// Intent is the result of classifying one message.
type Intent struct {
	Kind Kind
	// Item is the canonical (normalized, alias-resolved) item key for
	// list-one, update and set intents.
	Item string
	// Query is the item token as the user typed it, echoed back in
	// "not found" replies.
	Query string
	// Amount is the signed delta (update) or absolute quantity (set).
	Amount int
}

// helpWords are accepted as a help request when they lead a short message.
var helpWords = map[string]bool{
	"help": true,
	"h":    true,
	"?":    true,
}

// inventoryWords are synonyms that trigger a listing.
var inventoryWords = map[string]bool{
	"inventory":  true,
	"inv":        true,
	"stock":      true,
	"list":       true,
	"inventario": true,
}

// updatePattern matches "<item> <signed amount>[ml]" with an optional colon,
// e.g. "dmem -200", "m199 +500ml", "dmem: -200". The sign is mandatory so a
// bare number mentioned in ordinary chat never triggers an update.
var updatePattern = regexp.MustCompile(`^(?P<name>\w+)\s*:?\s*(?P<amount>[+-]\d+)\s*(?:ml)?\b`)

// nonWord strips punctuation when checking the leading keyword.
var nonWord = regexp.MustCompile(`[^\w]`)

// Classifier turns message text into intents. hasItem reports whether a
// canonical key currently exists in the ledger; it backs the bare-lookup
// rule so unknown single words stay ordinary chat.
type Classifier struct {
	aliases ledger.Aliases
	hasItem func(key string) bool
}

// NewClassifier creates a classifier using the given alias table and ledger
// membership check.
func NewClassifier(aliases ledger.Aliases, hasItem func(string) bool) *Classifier {
	return &Classifier{aliases: aliases, hasItem: hasItem}
}

// message is the pre-tokenized view shared by all recognizers.
type message struct {
	lower  string
	tokens []string
}

// recognizer inspects a message and either claims it or declines.
type recognizer func(message) (Intent, bool)

// Classify runs the ordered recognizers over one message line. Empty input
// and input matching no rule come back as passthrough.
func (c *Classifier) Classify(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	msg := message{lower: lower, tokens: strings.Fields(lower)}
	if len(msg.tokens) == 0 {
		return Intent{Kind: KindPassthrough}
	}

	for _, recognize := range []recognizer{
		c.help,
		c.keywordList,
		c.bareLookup,
		c.deltaUpdate,
		c.absoluteSet,
	} {
		if in, ok := recognize(msg); ok {
			return in
		}
	}
	return Intent{Kind: KindPassthrough}
}

// help matches short messages led by a help keyword: "help", "h", "?".
func (c *Classifier) help(msg message) (Intent, bool) {
	if helpWords[msg.tokens[0]] && len(msg.tokens) <= 2 {
		return Intent{Kind: KindHelp}, true
	}
	return Intent{}, false
}

// keywordList matches "inv", "inventory dmem" and friends. Alone the keyword
// lists everything; with a second token it lists that one item.
func (c *Classifier) keywordList(msg message) (Intent, bool) {
	first := nonWord.ReplaceAllString(msg.tokens[0], "")
	if !inventoryWords[first] {
		return Intent{}, false
	}
	if len(msg.tokens) == 1 {
		return Intent{Kind: KindListAll}, true
	}
	return Intent{
		Kind:  KindListOne,
		Item:  c.aliases.Normalize(msg.tokens[1]),
		Query: msg.tokens[1],
	}, true
}

// bareLookup matches a lone token naming an existing item. A lone token that
// is not in the ledger declines, so it can still match the update rule
// ("dmem-200" is one token) and otherwise stays ordinary chat.
func (c *Classifier) bareLookup(msg message) (Intent, bool) {
	if len(msg.tokens) != 1 {
		return Intent{}, false
	}
	key := c.aliases.Normalize(msg.tokens[0])
	if key == "" || !c.hasItem(key) {
		return Intent{}, false
	}
	return Intent{Kind: KindListOne, Item: key, Query: msg.tokens[0]}, true
}

// deltaUpdate matches the signed update pattern and parses the amount.
func (c *Classifier) deltaUpdate(msg message) (Intent, bool) {
	m := updatePattern.FindStringSubmatch(msg.lower)
	if m == nil {
		return Intent{}, false
	}
	rawName := m[updatePattern.SubexpIndex("name")]
	amountStr := m[updatePattern.SubexpIndex("amount")]

	delta, err := strconv.Atoi(amountStr)
	if err != nil {
		// The pattern guarantees digits, so only out-of-range amounts
		// land here. Answer with the usage hint instead of mutating.
		return Intent{Kind: KindBadUpdateAmount}, true
	}
	return Intent{
		Kind:   KindUpdate,
		Item:   c.aliases.Normalize(rawName),
		Query:  rawName,
		Amount: delta,
	}, true
}

// absoluteSet matches "set <item> <amount>".
func (c *Classifier) absoluteSet(msg message) (Intent, bool) {
	if msg.tokens[0] != "set" || len(msg.tokens) < 3 {
		return Intent{}, false
	}
	amount, err := strconv.Atoi(msg.tokens[2])
	if err != nil {
		return Intent{Kind: KindBadSetAmount}, true
	}
	return Intent{
		Kind:   KindSet,
		Item:   c.aliases.Normalize(msg.tokens[1]),
		Query:  msg.tokens[1],
		Amount: amount,
	}, true
}
