// Package sheets mirrors the inventory ledger to a Google Sheets
// spreadsheet. The sheet is the source of truth: callers pull it before
// reading local state and push the whole ledger after every mutation.
//
// Layout: row 1 is the fixed header, every following row is
// (upper-cased item name, integer quantity), sorted by item key.
package sheets

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	headerName     = "Medium"
	headerQuantity = "Volume (ml)"

	// ledgerRange covers the two ledger columns from the header down.
	ledgerRange = "A1:B"
)

// Config holds the remote mirror configuration. Both fields are required;
// New rejects incomplete configuration so the failure surfaces at startup.
type Config struct {
	// CredentialsJSON is the Google service-account credential document.
	CredentialsJSON []byte
	// SpreadsheetID identifies the target spreadsheet.
	SpreadsheetID string
}

// Mirror reads and writes the ledger sheet. The underlying Sheets service is
// built lazily on first use and reused for the process lifetime; the
// sync.Once guards the first use against concurrent callers.
type Mirror struct {
	cfg Config

	initOnce sync.Once
	svc      *gsheets.Service
	initErr  error
}

// New validates the configuration and returns a Mirror. No network traffic
// happens here; the service connection is established on first Pull/Push.
func New(cfg Config) (*Mirror, error) {
	if err := ValidateCredentials(cfg.CredentialsJSON); err != nil {
		return nil, err
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is not set")
	}
	return &Mirror{cfg: cfg}, nil
}

// service returns the cached Sheets service, constructing it on first call.
func (m *Mirror) service(ctx context.Context) (*gsheets.Service, error) {
	m.initOnce.Do(func() {
		creds, err := google.CredentialsFromJSON(ctx, m.cfg.CredentialsJSON, gsheets.SpreadsheetsScope)
		if err != nil {
			m.initErr = fmt.Errorf("parsing Google credentials: %w", err)
			return
		}
		svc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
		if err != nil {
			m.initErr = fmt.Errorf("creating Sheets service: %w", err)
			return
		}
		m.svc = svc
	})
	return m.svc, m.initErr
}

// Pull fetches the full ledger from the sheet. A nil map with an error means
// the remote is unavailable, which is distinct from an empty-but-valid
// ledger; callers should keep their local state in that case.
func (m *Mirror) Pull(ctx context.Context) (map[string]int, error) {
	svc, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(m.cfg.SpreadsheetID, ledgerRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet values: %w", err)
	}
	return LedgerFromRows(resp.Values), nil
}

// Push replaces the entire sheet contents with the header plus one row per
// item. Callers treat any error as non-fatal and log it.
func (m *Mirror) Push(ctx context.Context, items map[string]int) error {
	svc, err := m.service(ctx)
	if err != nil {
		return err
	}

	if _, err := svc.Spreadsheets.Values.Clear(m.cfg.SpreadsheetID, ledgerRange, &gsheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}

	body := &gsheets.ValueRange{Values: RowsFromLedger(items)}
	_, err = svc.Spreadsheets.Values.Update(m.cfg.SpreadsheetID, "A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing sheet values: %w", err)
	}
	return nil
}

// LedgerFromRows converts raw sheet rows to a ledger. The first row is the
// header and is skipped; rows with a blank name or a non-integer quantity
// are silently dropped. Names come back trimmed and lower-cased.
func LedgerFromRows(rows [][]any) map[string]int {
	items := map[string]int{}
	if len(rows) < 2 {
		return items
	}

	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(fmt.Sprint(row[0])))
		if name == "" {
			continue
		}
		amount, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(row[1])))
		if err != nil {
			continue
		}
		items[name] = amount
	}
	return items
}

// RowsFromLedger converts a ledger to sheet rows: the header first, then one
// row per item sorted by key with the name upper-cased.
func RowsFromLedger(items map[string]int) [][]any {
	rows := [][]any{{headerName, headerQuantity}}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rows = append(rows, []any{strings.ToUpper(k), items[k]})
	}
	return rows
}
