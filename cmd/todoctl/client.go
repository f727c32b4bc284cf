package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const todayList = "Today"

// page mirrors the JSON view served for Accept: application/json.
type page struct {
	ListTitle    string `json:"listTitle"`
	NewListItems []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"newListItems"`
}

// todoClient drives the server's HTML form routes. Redirects are not
// followed: a 302 is how the server reports success.
type todoClient struct {
	http *resty.Client
}

func newTodoClient(baseURL string, timeout time.Duration) *todoClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	return &todoClient{http: c}
}

func listPath(list string) string {
	if list == todayList {
		return "/"
	}
	return "/" + url.PathEscape(list)
}

// Show fetches a list. The first view of an empty Today or an unknown list
// answers with a redirect after seeding, so one redirect is followed.
func (c *todoClient) Show(ctx context.Context, list string) (*page, error) {
	path := listPath(list)
	for attempt := 0; attempt < 2; attempt++ {
		var out page
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetResult(&out).
			Get(path)
		if err != nil {
			return nil, err
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			return &out, nil
		case http.StatusFound:
			log.Debug().Str("location", resp.Header().Get("Location")).Msg("list seeded, following redirect")
			path = resp.Header().Get("Location")
		default:
			return nil, statusError(resp)
		}
	}
	return nil, fmt.Errorf("GET %s: still redirecting", path)
}

// Add posts a new item and returns the list path the server redirected to.
func (c *todoClient) Add(ctx context.Context, list, name string) (string, error) {
	return c.postForm(ctx, "/", map[string]string{"newItem": name, "list": list})
}

// Delete removes an item by ID and returns the redirect path.
func (c *todoClient) Delete(ctx context.Context, list, id string) (string, error) {
	return c.postForm(ctx, "/delete", map[string]string{"checkbox": id, "listName": list})
}

func (c *todoClient) postForm(ctx context.Context, path string, form map[string]string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusFound {
		return "", statusError(resp)
	}
	return resp.Header().Get("Location"), nil
}

func statusError(resp *resty.Response) error {
	return fmt.Errorf("%s %s: %s: %s", resp.Request.Method, resp.Request.URL, resp.Status(), resp.String())
}
