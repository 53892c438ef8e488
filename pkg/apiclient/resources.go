package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type deleted struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func list[T any](ctx context.Context, c *Client, path string, q url.Values) (*Page[T], error) {
	resp, err := Do[[]T](ctx, c, Request{Method: http.MethodGet, Path: path, Query: q})
	if err != nil {
		return nil, err
	}

	var meta struct {
		Pagination Pagination `json:"pagination"`
	}
	if len(resp.Metadata) > 0 {
		if err := json.Unmarshal(resp.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode pagination: %w", err)
		}
	}
	return &Page[T]{Items: resp.Data, Pagination: meta.Pagination}, nil
}

func data[T any](ctx context.Context, c *Client, req Request) (T, error) {
	resp, err := Do[T](ctx, c, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return resp.Data, nil
}

// Register creates an account and keeps the returned token for later calls.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	return c.authenticate(ctx, "/api/auth/register", body)
}

// Login keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	res, err := data[AuthResult](ctx, c, Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	u, err := data[User](ctx, c, Request{Method: http.MethodGet, Path: "/api/user"})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type SearchOptions struct {
	ListOptions
	Query    string
	Category string
}

func (c *Client) SearchRemedies(ctx context.Context, opts SearchOptions) (*Page[Remedy], error) {
	q := opts.values()
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	return list[Remedy](ctx, c, "/api/remedies", q)
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	return data[[]Category](ctx, c, Request{Method: http.MethodGet, Path: "/api/remedies/categories"})
}

func (c *Client) GetRemedy(ctx context.Context, id string) (*Remedy, error) {
	r, err := data[Remedy](ctx, c, Request{Method: http.MethodGet, Path: "/api/remedies/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CompareRemedies(ctx context.Context, ids ...string) ([]Remedy, error) {
	q := url.Values{"ids": {strings.Join(ids, ",")}}
	return data[[]Remedy](ctx, c, Request{Method: http.MethodGet, Path: "/api/remedies/compare", Query: q})
}

func (c *Client) Favorites(ctx context.Context, opts ListOptions) (*Page[Favorite], error) {
	return list[Favorite](ctx, c, "/api/favorites", opts.values())
}

func (c *Client) AddFavorite(ctx context.Context, remedyID, notes string) (*Favorite, error) {
	body := map[string]string{"remedyId": remedyID, "notes": notes}
	f, err := data[Favorite](ctx, c, Request{Method: http.MethodPost, Path: "/api/favorites", Body: body})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateFavorite(ctx context.Context, id uuid.UUID, notes string) (*Favorite, error) {
	body := map[string]string{"notes": notes}
	f, err := data[Favorite](ctx, c, Request{Method: http.MethodPut, Path: "/api/favorites/" + id.String(), Body: body})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, id uuid.UUID) error {
	_, err := data[deleted](ctx, c, Request{Method: http.MethodDelete, Path: "/api/favorites/" + id.String()})
	return err
}

func (c *Client) Journal(ctx context.Context, opts ListOptions) (*Page[JournalEntry], error) {
	return list[JournalEntry](ctx, c, "/api/journal", opts.values())
}

func (c *Client) CreateJournalEntry(ctx context.Context, in JournalEntryInput) (*JournalEntry, error) {
	e, err := data[JournalEntry](ctx, c, Request{Method: http.MethodPost, Path: "/api/journal", Body: in})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteJournalEntry(ctx context.Context, id uuid.UUID) error {
	_, err := data[deleted](ctx, c, Request{Method: http.MethodDelete, Path: "/api/journal/" + id.String()})
	return err
}

func (c *Client) Medications(ctx context.Context) ([]Medication, error) {
	return data[[]Medication](ctx, c, Request{Method: http.MethodGet, Path: "/api/medications"})
}

func (c *Client) CreateMedication(ctx context.Context, in MedicationInput) (*Medication, error) {
	m, err := data[Medication](ctx, c, Request{Method: http.MethodPost, Path: "/api/medications", Body: in})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	_, err := data[deleted](ctx, c, Request{Method: http.MethodDelete, Path: "/api/medications/" + id.String()})
	return err
}

func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	return data[[]Plan](ctx, c, Request{Method: http.MethodGet, Path: "/api/plans"})
}

func (c *Client) Subscription(ctx context.Context) (*SubscriptionOverview, error) {
	o, err := data[SubscriptionOverview](ctx, c, Request{Method: http.MethodGet, Path: "/api/subscription"})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) ChangePlan(ctx context.Context, plan string) (*Subscription, error) {
	body := map[string]string{"plan": plan}
	s, err := data[Subscription](ctx, c, Request{Method: http.MethodPut, Path: "/api/subscription", Body: body})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CancelSubscription keeps the current plan until the period ends.
func (c *Client) CancelSubscription(ctx context.Context) (*Subscription, error) {
	s, err := data[Subscription](ctx, c, Request{Method: http.MethodDelete, Path: "/api/subscription"})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CheckInteractions(ctx context.Context, in InteractionCheckInput) (*InteractionReport, error) {
	r, err := data[InteractionReport](ctx, c, Request{Method: http.MethodPost, Path: "/api/interactions/check", Body: in})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
