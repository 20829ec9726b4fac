package kross

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_request_reservations = "client.request-reservations"
	report_client_reservations         = "client.reservations"
)

// Query selects the reservations to list and the columns to return.
type Query struct {
	Filters []Filter
	// Fields are the requested columns, FieldCode is always the first one.
	Fields []Field
}

// columns returns the wire keys of the requested fields with the code forced
// to the front and duplicates removed.
func (q Query) columns() []string {
	seen := map[Field]struct{}{FieldCode: {}}
	columns := []string{FieldCode.Key()}
	for _, f := range q.Fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		columns = append(columns, f.Key())
	}
	return columns
}

type reservationsPayload struct {
	Id          string   `json:"id"`
	Sort        string   `json:"sort"`
	Text        string   `json:"text"`
	RefreshAjax bool     `json:"refresh_ajax"`
	Columns     []string `json:"columns"`
	Filters     string   `json:"filters,omitempty"`
}

func (q Query) payload() (string, error) {
	filters, err := BuildFilters(q.Filters...)
	if err != nil {
		return "", err
	}
	// filters carry '&' and must not be escaped to \u0026
	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	encoder.SetEscapeHTML(false)
	err = encoder.Encode(reservationsPayload{
		Id:          "reservations",
		Sort:        ",arrival asc,",
		Text:        "",
		RefreshAjax: true,
		Columns:     q.columns(),
		Filters:     filters,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(body.String(), "\n"), nil
}

// RequestReservations posts the query to the reservations listing and returns
// the raw response. A non 2xx response is returned along with an error.
func (c *Client) RequestReservations(ctx context.Context, q Query) (*resty.Response, error) {
	err := c.checkAuthentication()
	if err != nil {
		return nil, err
	}
	base, err := c.BaseUrl()
	if err != nil {
		return nil, err
	}

	payload, err := q.payload()
	if err != nil {
		c.tel.ReportWarning(report_client_request_reservations, fmt.Errorf("build payload: %w", err))
		return nil, err
	}
	c.tel.ReportDebug(report_client_request_reservations, payload)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"zt4_data": payload,
		}).
		Post(base + c.config.ReservationsPath + "?")
	if err != nil {
		c.tel.ReportBroken(
			report_client_request_reservations,
			fmt.Errorf("fetch: %w", err),
		)
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("unexpected status: %s", res.Status())
		c.tel.ReportBroken(report_client_request_reservations, err)
		return res, err
	}

	return res, nil
}

// ReservationsTable fetches the reservations and returns them as a header
// list with aligned rows.
func (c *Client) ReservationsTable(ctx context.Context, q Query) (Table, error) {
	res, err := c.RequestReservations(ctx, q)
	if err != nil {
		return Table{}, c.reservationsError(err, res)
	}
	table, err := ExtractTable(c.tel, bytes.NewReader(res.Body()))
	if err != nil {
		return Table{}, c.reservationsError(err, res)
	}
	return table, nil
}

// Reservations fetches the reservations and returns one Record per row.
func (c *Client) Reservations(ctx context.Context, q Query) ([]Record, error) {
	table, err := c.ReservationsTable(ctx, q)
	if err != nil {
		return nil, err
	}
	return table.Records(), nil
}

func (c *Client) reservationsError(err error, res *resty.Response) error {
	out := &ReservationsError{Err: err}
	if res != nil {
		out.StatusCode = res.StatusCode()
		out.Body = res.String()
		c.tel.ReportDebug(report_client_reservations, "response", out.Body)
	}
	return out
}
