package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"eucalito/internal/core"
)

// SheetWriter mirrors one confirmed transaction to the backup
// spreadsheet and returns a row reference.
type SheetWriter interface {
	AppendRow(ctx context.Context, tx core.Transaction) (string, error)
}

// GoogleSheet appends ledger rows to a Google Sheets spreadsheet.
type GoogleSheet struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ SheetWriter = (*GoogleSheet)(nil)

// NewGoogleSheetFromEnv builds the client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials in
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME (default
// "Movimientos").
func NewGoogleSheetFromEnv(ctx context.Context) (*GoogleSheet, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Movimientos"
	}

	credentialsJSON, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleSheet{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

// AppendRow implements SheetWriter. The transaction ID goes in the last
// column so a re-delivered event can be spotted in the sheet.
func (g *GoogleSheet) AppendRow(ctx context.Context, tx core.Transaction) (string, error) {
	if g.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		tx.Date.ISO(),
		tx.Description,
		tx.AmountUSD.Dollars(),
		tx.OriginalAmount.Dollars(),
		string(tx.OriginalCurrency),
		string(tx.Category),
		tx.PaidBy,
		tx.ID,
	}

	rng := fmt.Sprintf("%s!A:H", g.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", g.sheetName, err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}
