// Package app wires the inventory bot together and runs the per-message
// pipeline: resync from the remote sheet, classify, mutate, reply.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"maunium.net/go/mautrix/event"

	"github.com/peginatta/inventory-bot/common/trace"
	"github.com/peginatta/inventory-bot/internal/invbot/commands"
	"github.com/peginatta/inventory-bot/internal/invbot/intent"
	"github.com/peginatta/inventory-bot/internal/invbot/ledger"
	"github.com/peginatta/inventory-bot/internal/invbot/matrix"
	"github.com/peginatta/inventory-bot/internal/invbot/reply"
	"github.com/peginatta/inventory-bot/internal/invbot/sheets"
	"github.com/peginatta/inventory-bot/internal/invbot/store"
)

// Config holds application configuration
type Config struct {
	DatabasePath  string
	InventoryFile string
	// AliasesFile optionally points at a YAML file extending the built-in
	// alias table. Empty means defaults only.
	AliasesFile string
	Matrix      matrix.Config
	Sheets      sheets.Config
}

// App is the assembled bot
type App struct {
	config     *Config
	store      *store.Store
	mirror     ledger.Mirror
	ledger     *ledger.Store
	classifier *intent.Classifier
	router     *commands.Router
	matrix     *matrix.Client

	// handleMu serializes message handling. Every cycle pulls the remote
	// state first and pushes it back after a mutation, so two interleaved
	// cycles would race last-writer-wins; the mutex removes that window
	// within this process (concurrent writers outside it remain unguarded).
	handleMu sync.Mutex
}

// New creates the application: database, remote mirror, ledger, classifier,
// command router and Matrix client. Configuration problems (bad credentials,
// missing spreadsheet ID, broken alias file) fail here, before the chat loop
// ever starts.
func New(config *Config) (*App, error) {
	slog.Info("opening database", "path", config.DatabasePath)
	st, err := store.New(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mirror, err := sheets.New(config.Sheets)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize Sheets mirror: %w", err)
	}

	app, err := newApp(config, st, mirror)
	if err != nil {
		st.Close()
		return nil, err
	}

	// Inject the DB so the Matrix client can persist the sync token across
	// restarts.
	matrixCfg := config.Matrix
	matrixCfg.DB = st.DB()
	slog.Info("connecting to Matrix", "homeserver", matrixCfg.Homeserver)
	matrixClient, err := matrix.New(&matrixCfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize Matrix client: %w", err)
	}
	app.matrix = matrixClient

	return app, nil
}

// newApp assembles everything except the Matrix client, which tests replace
// by calling handleText directly.
func newApp(config *Config, st *store.Store, mirror ledger.Mirror) (*App, error) {
	aliases := ledger.DefaultAliases()
	if config.AliasesFile != "" {
		loaded, err := ledger.LoadAliases(config.AliasesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load alias table: %w", err)
		}
		aliases = loaded
	}

	led := ledger.NewStore(config.InventoryFile, aliases, mirror)

	a := &App{
		config: config,
		store:  st,
		mirror: mirror,
		ledger: led,
		classifier: intent.NewClassifier(aliases, func(key string) bool {
			_, ok := led.Load()[key]
			return ok
		}),
		router: commands.NewRouter("!"),
	}
	a.registerCommands()
	return a, nil
}

// registerCommands sets up the explicitly prefixed commands. These duplicate
// functionality reachable through natural language; they exist for users who
// expect bot commands to carry a prefix.
func (a *App) registerCommands() {
	a.router.Register("help", func(ctx context.Context, cmd *commands.Command) (string, error) {
		return reply.Help, nil
	})
	a.router.Register("audit", a.handleAuditCommand)
}

// handleAuditCommand renders the most recent ledger mutations ("!audit" or
// "!audit 20").
func (a *App) handleAuditCommand(ctx context.Context, cmd *commands.Command) (string, error) {
	n := 10
	if arg, ok := cmd.GetArg(0); ok {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return "Usage: `!audit [count]`", nil
		}
		n = v
	}

	entries, err := a.store.RecentAudit(ctx, n)
	if err != nil {
		return "", fmt.Errorf("reading audit log: %w", err)
	}
	if len(entries) == 0 {
		return "No ledger changes recorded yet.", nil
	}

	var b strings.Builder
	b.WriteString("Recent ledger changes:")
	for _, e := range entries {
		verb := "set"
		amount := fmt.Sprintf("%d", e.Amount)
		if e.Action == "update" {
			verb = "updated"
			amount = fmt.Sprintf("%+d", e.Amount)
		}
		fmt.Fprintf(&b, "\n- %s %s %s %s ml (%s, %s)",
			e.Timestamp.Format("2006-01-02 15:04"), e.Actor, verb+" "+e.Item, amount, e.Result, e.TraceID)
	}
	return b.String(), nil
}

// Run starts the Matrix sync loop and blocks until an interrupt signal.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("starting Matrix sync")
	if err := a.matrix.Start(ctx, a.handleMessage); err != nil {
		return fmt.Errorf("failed to start Matrix client: %w", err)
	}

	slog.Info("inventory bot is running; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	return nil
}

// Stop stops the application
func (a *App) Stop() {
	if a.matrix != nil {
		a.matrix.Stop()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// handleMessage adapts a Matrix event to the text pipeline and sends the
// reply, if any. The transport has already filtered out our own messages,
// notices and rooms we do not listen in.
func (a *App) handleMessage(ctx context.Context, evt *event.Event) {
	msgContent := evt.Content.AsMessage()
	if msgContent == nil {
		return
	}

	response, ok := a.handleText(ctx, evt.Sender.String(), msgContent.Body)
	if !ok {
		return
	}
	if err := a.matrix.SendNotice(evt.RoomID.String(), response); err != nil {
		slog.Error("failed to send reply", "room", evt.RoomID.String(), "err", err)
	}
}

// handleText runs one full message cycle and returns the reply text, or
// ok=false when the message warrants no reply. Every cycle starts by pulling
// the remote sheet (the source of truth) over the local file; a pull failure
// keeps the local state and degrades to local-only.
func (a *App) handleText(ctx context.Context, sender, raw string) (string, bool) {
	a.handleMu.Lock()
	defer a.handleMu.Unlock()

	ctx = trace.WithTraceID(ctx, trace.GenerateID())

	a.resync(ctx)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	in := a.classifier.Classify(raw)
	switch in.Kind {
	case intent.KindHelp:
		return reply.Help, true

	case intent.KindListAll:
		return reply.FullInventory(a.ledger.Load()), true

	case intent.KindListOne:
		return reply.SingleItem(a.ledger.Load(), in.Item, in.Query), true

	case intent.KindUpdate:
		name, total, err := a.ledger.Update(ctx, in.Item, in.Amount)
		if err != nil {
			slog.Error("update failed", "item", in.Item, "delta", in.Amount, "err", err)
			a.audit(ctx, sender, "update", in.Item, in.Amount, "error", err.Error())
			return "", false
		}
		a.audit(ctx, sender, "update", name, in.Amount, "success", "")
		return reply.Updated(name, in.Amount, total), true

	case intent.KindSet:
		name, total, err := a.ledger.Set(ctx, in.Item, in.Amount)
		if err != nil {
			slog.Error("set failed", "item", in.Item, "amount", in.Amount, "err", err)
			a.audit(ctx, sender, "set", in.Item, in.Amount, "error", err.Error())
			return "", false
		}
		a.audit(ctx, sender, "set", name, in.Amount, "success", "")
		return reply.Set(name, total), true

	case intent.KindBadUpdateAmount:
		return reply.UpdateUsage, true

	case intent.KindBadSetAmount:
		return reply.SetUsage, true

	default:
		// Passthrough: hand the message to the prefixed-command dispatcher.
		// Unprefixed and unknown-command messages are ordinary chat.
		response, err := a.router.Route(ctx, raw)
		if err != nil {
			if errors.Is(err, commands.ErrNotACommand) || errors.Is(err, commands.ErrUnknownCommand) {
				return "", false
			}
			slog.Error("command failed", "err", err)
			return fmt.Sprintf("❌ Error: %s", err), true
		}
		return response, true
	}
}

// resync overwrites the local ledger with the remote sheet's contents. On
// pull failure the local file is left untouched so the bot keeps serving
// best-available state.
func (a *App) resync(ctx context.Context) {
	pulled, err := a.mirror.Pull(ctx)
	if err != nil {
		slog.Warn("could not load inventory from remote sheet; keeping local state", "err", err)
		return
	}
	if err := a.ledger.Save(pulled); err != nil {
		slog.Warn("could not persist pulled inventory", "err", err)
	}
}

// audit records a mutation, correlating it with the message's trace ID.
// Audit failures never disturb the message flow.
func (a *App) audit(ctx context.Context, actor, action, item string, amount int, result, errMsg string) {
	if err := a.store.WriteAudit(ctx, trace.FromContext(ctx), actor, action, item, int64(amount), result, errMsg); err != nil {
		slog.Warn("could not write audit entry", "err", err)
	}
}
