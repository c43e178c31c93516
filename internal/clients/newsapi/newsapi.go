// Package newsapi queries the newsapi.org "everything" endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const MaxArticles = 40

var (
	ErrUpstream          = errors.New("news api request failed")
	ErrMalformedResponse = errors.New("news api returned a malformed response")
	ErrNoResults         = errors.New("news api returned no articles")
)

type Source struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
	UrlToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type searchResponse struct {
	Status       string     `json:"status"`
	TotalResults int        `json:"totalResults"`
	Articles     *[]Article `json:"articles"`
	Code         string     `json:"code"`
	Message      string     `json:"message"`
}

type NewsClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewNewsClient(httpClient *http.Client, baseURL string, apiKey string) *NewsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &NewsClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// Search returns at most MaxArticles English articles for query, most
// recently published first.
func (c *NewsClient) Search(ctx context.Context, query string) ([]Article, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint: %v", ErrUpstream, err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstream, err)
	}

	var decoded searchResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode != http.StatusOK || decoded.Status == "error" {
		if decodeErr == nil && decoded.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s: %s", ErrUpstream, resp.StatusCode, decoded.Code, decoded.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if decoded.Articles == nil {
		return nil, fmt.Errorf("%w: no articles field", ErrMalformedResponse)
	}

	articles := *decoded.Articles
	if len(articles) == 0 {
		return nil, ErrNoResults
	}
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}
	return articles, nil
}
