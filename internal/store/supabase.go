package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Supabase talks to the PostgREST API of a Supabase project with the
// service key, so row level security is bypassed.
type Supabase struct {
	prefix     string
	serviceKey string
	httpClient *http.Client
}

func NewSupabase(projectURL, serviceKey string, httpClient *http.Client) (*Supabase, error) {
	if projectURL == "" {
		return nil, errors.New("project URL is required")
	}
	if serviceKey == "" {
		return nil, errors.New("service key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Supabase{
		prefix:     strings.TrimRight(projectURL, "/") + "/rest/v1",
		serviceKey: serviceKey,
		httpClient: httpClient,
	}, nil
}

func (s *Supabase) Insert(ctx context.Context, table string, rec Record) (string, error) {
	if err := validIdentifier(table); err != nil {
		return "", err
	}
	if len(rec) == 0 {
		return "", errors.New("store: empty record")
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	data, err := s.do(ctx, http.MethodPost, table, nil, body)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(data, "0.id")
	if !id.Exists() {
		return "", errors.New("store: insert returned no id")
	}
	return id.String(), nil
}

func (s *Supabase) Select(ctx context.Context, table string, filter Filter, dest interface{}) error {
	if err := validIdentifier(table); err != nil {
		return err
	}
	query, err := filterQuery(filter)
	if err != nil {
		return err
	}
	query.Set("select", "*")
	query.Set("order", "created_at.asc")

	data, err := s.do(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (s *Supabase) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := validIdentifier(table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, ErrUnfilteredWrite
	}
	if len(patch) == 0 {
		return 0, errors.New("store: empty record")
	}
	query, err := filterQuery(filter)
	if err != nil {
		return 0, err
	}

	withStamp := make(Record, len(patch)+1)
	for k, v := range patch {
		withStamp[k] = v
	}
	withStamp["updated_at"] = time.Now().UTC()
	body, err := json.Marshal(withStamp)
	if err != nil {
		return 0, err
	}

	data, err := s.do(ctx, http.MethodPatch, table, query, body)
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(data, "#").Int(), nil
}

func (s *Supabase) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := validIdentifier(table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, ErrUnfilteredWrite
	}
	query, err := filterQuery(filter)
	if err != nil {
		return 0, err
	}

	data, err := s.do(ctx, http.MethodDelete, table, query, nil)
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(data, "#").Int(), nil
}

func (s *Supabase) do(ctx context.Context, method, table string, query url.Values, body []byte) ([]byte, error) {
	endpoint := s.prefix + "/" + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(resp.StatusCode, data)
	}
	return data, nil
}

func parseError(status int, data []byte) error {
	e := &Error{StatusCode: status}
	if gjson.ValidBytes(data) {
		parsed := gjson.ParseBytes(data)
		e.Code = parsed.Get("code").String()
		e.Message = parsed.Get("message").String()
		e.Details = parsed.Get("details").String()
		e.Hint = parsed.Get("hint").String()
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

var restOps = map[Op]string{
	OpEq:  "eq",
	OpNeq: "neq",
	OpLt:  "lt",
	OpLte: "lte",
	OpGt:  "gt",
	OpGte: "gte",
	OpIs:  "is",
}

func filterQuery(filter Filter) (url.Values, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	query := url.Values{}
	for _, c := range filter {
		query.Add(c.Column, restOps[c.Op]+"."+formatValue(c.Value))
	}
	return query, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case *string:
		if val == nil {
			return "null"
		}
		return *val
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return "null"
		}
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(val)
	}
}
