package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"financas/internal/core"
	"financas/internal/report"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client exports monthly reports to a Google spreadsheet. Each year
// gets its own sheet, named "<year> <base>".
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

var _ report.Writer = (*Client)(nil)

// New creates a Sheets client using Service Account credentials from
// the environment: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetBase string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Relatório"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteMonth appends the report rows below existing content on the
// year's sheet. Amounts are written in reais so the spreadsheet can
// sum them natively.
func (c *Client) WriteMonth(ctx context.Context, m report.Month) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("invalid month: %d", m.Month)
	}

	sheetName := fmt.Sprintf("%d %s", m.Year, c.sheetBase)

	values := [][]any{
		{fmt.Sprintf("%02d/%d", m.Month, m.Year), "", "", "", ""},
		{"Data", "Descrição", "Categoria", "Tipo", "Valor"},
	}
	for _, row := range m.Rows {
		values = append(values, []any{
			row.Date,
			row.Description,
			row.Category,
			recordTypeLabel(row.Type),
			row.Amount.Reais(),
		})
	}
	values = append(values,
		[]any{"", "", "", "Receitas", m.TotalIncome.Reais()},
		[]any{"", "", "", "Despesas", m.TotalExpense.Reais()},
		[]any{"", "", "", "Saldo", m.Balance().Reais()},
	)

	rng := fmt.Sprintf("%s!A:E", sheetName)
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append report to %s: %w", sheetName, err)
	}
	return nil
}

func recordTypeLabel(t core.RecordType) string {
	if t == core.Income {
		return "Receita"
	}
	return "Despesa"
}
