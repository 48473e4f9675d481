package sheets

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/errortypes"
)

// Client reads and writes one spreadsheet through the Google Sheets API,
// authenticated with a service account.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Client from the service-account credentials in cfg.
func NewClient(ctx context.Context, cfg config.Sheets) (*Client, error) {
	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.ServiceAccountKey()),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets service: %v", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

func (c *Client) FetchTable(ctx context.Context, name string) ([][]string, error) {
	glog.Infof("sheets: fetching table %q", name)

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, name).Context(ctx).Do()
	if err != nil {
		return nil, &errortypes.ExternalService{
			Message: fmt.Sprintf("failed to read sheet %q: %v", name, err),
		}
	}

	return stringRows(resp.Values), nil
}

func (c *Client) BatchUpdate(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, len(updates))
	for i, update := range updates {
		data[i] = &sheetsapi.ValueRange{
			Range:  update.Range,
			Values: [][]interface{}{update.Values},
		}
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := c.service.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &errortypes.ExternalService{
			Message: fmt.Sprintf("batch update of %d ranges failed: %v", len(updates), err),
		}
	}

	glog.Infof("sheets: batch updated %d ranges", len(updates))
	return nil
}

// stringRows flattens the API's interface{} cells to strings. With the
// default FORMATTED_VALUE rendering the cells already arrive as strings;
// anything else is formatted with fmt.
func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, value := range values {
		row := make([]string, len(value))
		for j, cell := range value {
			if s, ok := cell.(string); ok {
				row[j] = s
			} else if cell != nil {
				row[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = row
	}
	return rows
}
