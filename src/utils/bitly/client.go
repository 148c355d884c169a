package bitly

import (
	"context"
	"fmt"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type (
	shortenRequest struct {
		LongUrl string `json:"long_url"`
	}

	shortenResponse struct {
		Link string `json:"link"`
	}
)

// Client shortens links through the v4 API.
// Successful results are memoized, listing links repeat within one thread.
type Client struct {
	httpClient *resty.Client
	cache      *cache.Cache
	log        *logrus.Entry
}

func NewClient(config *config.Bitly) (self *Client) {
	self = new(Client)
	self.log = logger.NewSublogger("bitly-client")
	self.cache = cache.New(config.CacheTtl, 2*config.CacheTtl)

	self.httpClient = resty.New().
		SetBaseURL(config.ApiUrl).
		SetTimeout(config.RequestTimeout).
		SetAuthToken(config.Token)

	return
}

func (self *Client) Shorten(ctx context.Context, longUrl string) (shortUrl string, err error) {
	if cached, ok := self.cache.Get(longUrl); ok {
		shortUrl = cached.(string)
		return
	}

	resp, err := self.httpClient.R().
		SetContext(ctx).
		SetBody(shortenRequest{LongUrl: longUrl}).
		SetResult(shortenResponse{}).
		ForceContentType("application/json").
		Post("/v4/shorten")
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("shorten request failed with status %d", resp.StatusCode())
		return
	}

	result, ok := resp.Result().(*shortenResponse)
	if !ok || result.Link == "" {
		err = fmt.Errorf("shorten response could not be parsed")
		return
	}

	shortUrl = result.Link
	self.cache.Set(longUrl, shortUrl, cache.DefaultExpiration)
	return
}
