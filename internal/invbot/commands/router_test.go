package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/peginatta/inventory-bot/internal/invbot/commands"
)

func TestParse(t *testing.T) {
	router := commands.NewRouter("!")

	tests := []struct {
		input    string
		wantName string
		wantArgs []string
		wantErr  error
	}{
		{input: "!help", wantName: "help", wantArgs: []string{}},
		{input: "!HELP", wantName: "help", wantArgs: []string{}},
		{input: "  !audit tail 20  ", wantName: "audit", wantArgs: []string{"tail", "20"}},
		{input: "dmem -200", wantErr: commands.ErrNotACommand},
		{input: "plain chat", wantErr: commands.ErrNotACommand},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := router.Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) err = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if cmd.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.wantName)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", cmd.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestParseBarePrefix(t *testing.T) {
	router := commands.NewRouter("!")
	if _, err := router.Parse("!"); !errors.Is(err, commands.ErrNotACommand) {
		t.Fatalf("bare prefix err = %v, want ErrNotACommand", err)
	}
}

func TestRoute(t *testing.T) {
	router := commands.NewRouter("!")
	router.Register("help", func(ctx context.Context, cmd *commands.Command) (string, error) {
		return "usage", nil
	})

	got, err := router.Route(context.Background(), "!help")
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if got != "usage" {
		t.Errorf("Route = %q, want %q", got, "usage")
	}

	if _, err := router.Route(context.Background(), "!nosuch"); !errors.Is(err, commands.ErrUnknownCommand) {
		t.Errorf("Route(!nosuch) err = %v, want ErrUnknownCommand", err)
	}
	if _, err := router.Route(context.Background(), "just chatting"); !errors.Is(err, commands.ErrNotACommand) {
		t.Errorf("Route(chat) err = %v, want ErrNotACommand", err)
	}
}
