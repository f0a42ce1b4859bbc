package usecase_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
	githubinfra "github.com/ncn914491/folio/pkg/infra/github"
	"github.com/ncn914491/folio/pkg/infra/pinned"
	"github.com/ncn914491/folio/pkg/usecase"
)

// staticBody answers every request with 200 and the same JSON body
type staticBody string

func (b staticBody) RoundTrip(r *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(string(b))),
		Request:    r,
	}, nil
}

func TestFeedLoader_NullBodiesFallBack(t *testing.T) {
	ctx := context.Background()
	secondaryItems := []model.FeedItem{
		{ID: "1", Name: "y", Description: "", URL: "http://b", Topics: []string{"Rust"}},
	}

	for _, body := range []string{`null`, `[null]`} {
		t.Run("pinned body "+body, func(t *testing.T) {
			primary := pinned.NewClient(
				pinned.WithEndpoint("http://pinned.test/"),
				pinned.WithHTTPClient(&http.Client{Transport: staticBody(body)}),
			)
			secondary := staticSource(secondaryItems)
			loader := usecase.NewFeedLoader("u", primary, secondary)

			gt.Equal(t, loader.Load(ctx), model.FeedSourceSecondary)
			gt.Equal(t, secondary.CallCount(), 1)
			gt.Equal(t, loader.Items(), secondaryItems)
		})
	}
}

func TestFeedLoader_NullSecondaryKeepsPreviousFeed(t *testing.T) {
	ctx := context.Background()
	primaryItems := []model.FeedItem{
		{ID: "u/x-0", Name: "x", Description: "d", URL: "http://a", Topics: []string{"Go"}},
	}

	for _, body := range []string{`null`, `[null]`} {
		t.Run("github body "+body, func(t *testing.T) {
			calls := 0
			primary := &MockFeedSource{
				fetchFunc: func(ctx context.Context, account types.AccountID) ([]model.FeedItem, error) {
					calls++
					if calls > 1 {
						return nil, errSourceDown
					}
					return primaryItems, nil
				},
			}
			secondary, err := githubinfra.NewClient(
				githubinfra.WithBaseURL("http://github.test/"),
				githubinfra.WithHTTPClient(&http.Client{Transport: staticBody(body)}),
			)
			gt.NoError(t, err)

			loader := usecase.NewFeedLoader("u", primary, secondary)
			gt.Equal(t, loader.Load(ctx), model.FeedSourcePrimary)

			gt.Equal(t, loader.Load(ctx), model.FeedSourceNone)
			gt.Equal(t, loader.Items(), primaryItems)
			gt.Equal(t, loader.Feed().Source, model.FeedSourcePrimary)
		})
	}
}
