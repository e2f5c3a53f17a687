package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted quote API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restSample is the expected JSON shape from the quote API.
type restSample struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]model.PriceSample, error) {
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&days=%d", f.BaseURL, url.QueryEscape(symbol), days)
	var raw []restSample
	if err := f.get(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no history for %s", ErrNoData, symbol)
	}
	samples := make([]model.PriceSample, len(raw))
	for i, r := range raw {
		samples[i] = model.PriceSample{
			Symbol: symbol,
			Time:   time.Unix(r.Timestamp, 0),
			Price:  r.Price,
			Volume: r.Volume,
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })
	return samples, nil
}

func (f *RESTFetcher) FetchLatest(ctx context.Context, symbol string) (model.PriceSample, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var raw restSample
	if err := f.get(ctx, endpoint, &raw); err != nil {
		return model.PriceSample{}, err
	}
	if raw.Price == 0 {
		return model.PriceSample{}, fmt.Errorf("%w: empty quote for %s", ErrNoData, symbol)
	}
	ts := time.Unix(raw.Timestamp, 0)
	if raw.Timestamp == 0 {
		ts = time.Now()
	}
	return model.PriceSample{Symbol: symbol, Time: ts, Price: raw.Price, Volume: raw.Volume}, nil
}

func (f *RESTFetcher) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status 429", ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status 404", ErrNoData)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", ErrNetwork, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrNetwork, err)
	}
	return nil
}
