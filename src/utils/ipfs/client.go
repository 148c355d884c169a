package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client fetches content-addressed documents.
// URIs starting with a path separator are served through the gateway,
// other relative paths fall back to the configured file base URL.
type Client struct {
	httpClient  *resty.Client
	gatewayUrl  string
	fileBaseUrl string
	log         *logrus.Entry
}

func NewClient(config *config.Ipfs) (self *Client) {
	self = new(Client)
	self.log = logger.NewSublogger("ipfs-client")
	self.gatewayUrl = strings.TrimSuffix(config.GatewayUrl, "/")
	self.fileBaseUrl = strings.TrimSuffix(config.FileBaseUrl, "/")

	self.httpClient = resty.New().
		SetTimeout(config.RequestTimeout)

	return
}

// ResolveUri rewrites relative URIs to an absolute origin
func (self *Client) ResolveUri(uri string) string {
	if uri == "" {
		return uri
	}
	if strings.HasPrefix(uri, "/") {
		return self.gatewayUrl + uri
	}
	if !strings.Contains(uri, "://") {
		return self.fileBaseUrl + "/" + uri
	}
	return uri
}

func (self *Client) Get(ctx context.Context, uri string) (data []byte, contentType string, err error) {
	resp, err := self.httpClient.R().
		SetContext(ctx).
		Get(self.ResolveUri(uri))
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("fetching %s failed with status %d", uri, resp.StatusCode())
		return
	}

	data = resp.Body()
	contentType = resp.Header().Get("Content-Type")
	return
}

func (self *Client) GetJson(ctx context.Context, uri string, out interface{}) (err error) {
	data, _, err := self.Get(ctx, uri)
	if err != nil {
		return
	}

	err = json.Unmarshal(data, out)
	return
}
