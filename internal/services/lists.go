package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

// Page is what a list view renders: a title and the items in order.
type Page struct {
	ListTitle    string       `json:"listTitle"`
	NewListItems []model.Item `json:"newListItems"`
}

// ListService holds the branch structure behind each route. It never writes
// HTTP responses; handlers turn its results into renders and redirects.
type ListService struct {
	store store.Store
}

func NewListService(s store.Store) *ListService {
	return &ListService{store: s}
}

// ListPath is the redirect target for a list name: "/" plus the lower-cased,
// path-escaped name.
func ListPath(name string) string {
	return "/" + url.PathEscape(model.CanonicalName(name))
}

// Today returns the Today items. An empty collection is seeded with the
// defaults instead, and seeded is true; the caller redirects to "/" so the
// next request renders the fresh items.
func (s *ListService) Today(ctx context.Context) (page Page, seeded bool, err error) {
	its, err := s.store.Items().List(ctx)
	if err != nil {
		return Page{}, false, fmt.Errorf("list today items: %w", err)
	}
	if len(its) == 0 {
		seeded, err = s.store.Items().SeedIfEmpty(ctx, model.DefaultItemNames)
		if err != nil {
			return Page{}, false, fmt.Errorf("seed today items: %w", err)
		}
		if seeded {
			todaySeededTotal.Inc()
		}
		// Another request seeded first; either way there is something to show.
		return Page{}, true, nil
	}
	return Page{ListTitle: model.TodayTitle, NewListItems: its}, false, nil
}

// Show returns the custom list for rawName, creating it with the default
// items when absent (created is then true and the caller redirects back).
func (s *ListService) Show(ctx context.Context, rawName string) (page Page, created bool, err error) {
	l, err := s.store.Lists().FindByName(ctx, rawName)
	if errors.Is(err, model.ErrNotFound) {
		l, created, err = s.store.Lists().FindOrCreate(ctx, rawName, model.DefaultItemNames)
	}
	if err != nil {
		return Page{}, false, fmt.Errorf("show list %q: %w", rawName, err)
	}
	if created {
		listsCreatedTotal.WithLabelValues("view").Inc()
		return Page{}, true, nil
	}
	return Page{ListTitle: model.DisplayTitle(rawName), NewListItems: l.Items}, false, nil
}

// AddItem stores itemName on the list named by listField and returns where
// to redirect. Only the exact title "Today" targets the Today collection.
// A missing custom list is created holding just this item, without defaults.
func (s *ListService) AddItem(ctx context.Context, listField, itemName string) (string, error) {
	if listField == model.TodayTitle {
		if _, err := s.store.Items().Insert(ctx, itemName); err != nil {
			return "", fmt.Errorf("add today item: %w", err)
		}
		return "/", nil
	}

	l, err := s.store.Lists().FindByName(ctx, listField)
	switch {
	case err == nil:
		if _, err := s.store.Lists().AppendItem(ctx, l, itemName); err != nil {
			return "", fmt.Errorf("append to list %q: %w", listField, err)
		}
	case errors.Is(err, model.ErrNotFound):
		_, created, err := s.store.Lists().PushItem(ctx, listField, itemName)
		if err != nil {
			return "", fmt.Errorf("create list %q: %w", listField, err)
		}
		if created {
			listsCreatedTotal.WithLabelValues("add").Inc()
		}
	default:
		return "", fmt.Errorf("find list %q: %w", listField, err)
	}
	return ListPath(listField), nil
}

// DeleteItem removes itemID from the list named by listField and returns
// where to redirect. Missing lists and items are not errors.
func (s *ListService) DeleteItem(ctx context.Context, listField, itemID string) (string, error) {
	if listField == model.TodayTitle {
		if err := s.store.Items().Delete(ctx, itemID); err != nil {
			return "", fmt.Errorf("delete today item: %w", err)
		}
		return "/", nil
	}
	if err := s.store.Lists().PullItem(ctx, listField, itemID); err != nil {
		return "", fmt.Errorf("pull from list %q: %w", listField, err)
	}
	return ListPath(listField), nil
}
