package main

import (
	"fmt"
	"os"

	"github.com/peginatta/inventory-bot/common/environment"
	"github.com/peginatta/inventory-bot/common/version"
	"github.com/peginatta/inventory-bot/internal/invbot/app"
	"github.com/peginatta/inventory-bot/internal/invbot/matrix"
	"github.com/peginatta/inventory-bot/internal/invbot/sheets"
)

func main() {
	fmt.Printf("Inventory Bot\n")
	fmt.Printf("Version: %s\n", version.Info())
	fmt.Println()

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bot, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize inventory bot: %v\n", err)
		os.Exit(1)
	}
	defer bot.Stop()

	if err := bot.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running inventory bot: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from environment variables. All Matrix and
// Sheets settings are required; the process refuses to start the chat loop
// without them.
func loadConfig() (*app.Config, error) {
	homeserver, err := environment.RequiredString("MATRIX_HOMESERVER")
	if err != nil {
		return nil, err
	}
	userID, err := environment.RequiredString("MATRIX_USER_ID")
	if err != nil {
		return nil, err
	}
	accessToken, err := environment.RequiredString("MATRIX_ACCESS_TOKEN")
	if err != nil {
		return nil, err
	}
	rooms := environment.StringSliceOr("MATRIX_ROOMS", nil)
	if len(rooms) == 0 {
		return nil, fmt.Errorf("required environment variable %q is not set", "MATRIX_ROOMS")
	}

	credsJSON, err := environment.RequiredString("GOOGLE_CREDS_JSON")
	if err != nil {
		return nil, err
	}
	spreadsheetID, err := environment.RequiredString("SPREADSHEET_ID")
	if err != nil {
		return nil, err
	}

	return &app.Config{
		DatabasePath:  environment.StringOr("DATABASE_PATH", "./invbot.db"),
		InventoryFile: environment.StringOr("INVENTORY_FILE", "./inventory.json"),
		AliasesFile:   environment.StringOr("ALIASES_FILE", ""),
		Matrix: matrix.Config{
			Homeserver:  homeserver,
			UserID:      userID,
			AccessToken: accessToken,
			Rooms:       rooms,
		},
		Sheets: sheets.Config{
			CredentialsJSON: []byte(credsJSON),
			SpreadsheetID:   spreadsheetID,
		},
	}, nil
}
