package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultNewsBaseURL is the newsapi.org API root.
const DefaultNewsBaseURL = "https://newsapi.org"

// HeadlinesCount is the number of headlines kept.
const HeadlinesCount = 5

// Headline is a business news item.
type Headline struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// News fetches the top US business headlines.
type News struct {
	BaseURL string // defaults to DefaultNewsBaseURL
	APIKey  string
	Client  *http.Client
}

// Headlines returns the first HeadlinesCount headlines.
func (n *News) Headlines(ctx context.Context) ([]Headline, error) {
	base := n.BaseURL
	if base == "" {
		base = DefaultNewsBaseURL
	}
	addr := fmt.Sprintf("%s/v2/top-headlines?country=us&category=business&apiKey=%s", base, url.QueryEscape(n.APIKey))

	var jobj any
	if err := getJSON(ctx, n.Client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching news: %w", err)
	}
	jval, err := jsonpath.Get("$.articles", jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing news: %w", err)
	}
	articles, _ := jval.([]any)
	if len(articles) > HeadlinesCount {
		articles = articles[:HeadlinesCount]
	}

	headlines := make([]Headline, 0, len(articles))
	for _, a := range articles {
		var h Headline
		for path, dst := range map[string]*string{"$.title": &h.Title, "$.url": &h.URL, "$.source.name": &h.Source} {
			if v, err := jsonpath.Get(path, a); err == nil {
				*dst, _ = v.(string)
			}
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}
