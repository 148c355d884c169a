package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

// ErrDuplicateStatus is returned when the platform rejects a tweet
// identical to a recently posted one
var ErrDuplicateStatus = errors.New("duplicate status")

const errCodeDuplicateStatus = 187

type (
	tweetResponse struct {
		IdStr string `json:"id_str"`
	}

	mediaResponse struct {
		MediaIdString string `json:"media_id_string"`
	}

	apiError struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}

	// PostOptions carry the optional parts of a status update
	PostOptions struct {
		// Tweet ID this status replies to. Empty starts a new thread.
		InReplyTo string

		// Uploaded media IDs to attach
		MediaIDs []string
	}
)

// Client posts statuses and uploads media, signing every request with
// OAuth 1.0a and pacing writes through a rate limiter
type Client struct {
	httpClient   *resty.Client
	uploadClient *resty.Client
	signer       *signer
	limiter      ratelimit.Limiter
	log          *logrus.Entry
}

func NewClient(config *config.Twitter) (self *Client) {
	self = new(Client)
	self.log = logger.NewSublogger("twitter-client")
	self.signer = newSigner(config.ConsumerKey, config.ConsumerSecret, config.AccessToken, config.AccessSecret)
	self.limiter = ratelimit.New(config.RequestsPerSecond)

	self.httpClient = resty.New().
		SetBaseURL(config.ApiUrl).
		SetTimeout(config.RequestTimeout)

	self.uploadClient = resty.New().
		SetBaseURL(config.UploadUrl).
		SetTimeout(config.RequestTimeout)

	return
}

// Post publishes a status update and returns the new tweet ID
func (self *Client) Post(ctx context.Context, text string, opts PostOptions) (tweetID string, err error) {
	form := url.Values{}
	form.Set("status", text)
	if opts.InReplyTo != "" {
		form.Set("in_reply_to_status_id", opts.InReplyTo)
		form.Set("auto_populate_reply_metadata", "true")
	}
	if len(opts.MediaIDs) > 0 {
		form.Set("media_ids", strings.Join(opts.MediaIDs, ","))
	}

	endpoint := "/statuses/update.json"
	header, err := self.signer.AuthorizationHeader("POST", self.httpClient.BaseURL+endpoint, form)
	if err != nil {
		return
	}

	self.limiter.Take()

	resp, err := self.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", header).
		SetFormDataFromValues(form).
		Post(endpoint)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = self.parseError(resp.StatusCode(), resp.Body())
		return
	}

	var result tweetResponse
	err = json.Unmarshal(resp.Body(), &result)
	if err != nil {
		return
	}
	if result.IdStr == "" {
		err = fmt.Errorf("status update response missing tweet id")
		return
	}

	tweetID = result.IdStr
	return
}

// UploadMedia uploads one image and returns its media ID
func (self *Client) UploadMedia(ctx context.Context, data []byte) (mediaID string, err error) {
	form := url.Values{}
	form.Set("media_data", base64.StdEncoding.EncodeToString(data))

	endpoint := "/media/upload.json"
	header, err := self.signer.AuthorizationHeader("POST", self.uploadClient.BaseURL+endpoint, form)
	if err != nil {
		return
	}

	self.limiter.Take()

	resp, err := self.uploadClient.R().
		SetContext(ctx).
		SetHeader("Authorization", header).
		SetFormDataFromValues(form).
		Post(endpoint)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = self.parseError(resp.StatusCode(), resp.Body())
		return
	}

	var result mediaResponse
	err = json.Unmarshal(resp.Body(), &result)
	if err != nil {
		return
	}
	if result.MediaIdString == "" {
		err = fmt.Errorf("media upload response missing media id")
		return
	}

	mediaID = result.MediaIdString
	return
}

func (self *Client) parseError(status int, body []byte) (err error) {
	var parsed apiError
	if json.Unmarshal(body, &parsed) == nil {
		for _, e := range parsed.Errors {
			if e.Code == errCodeDuplicateStatus {
				return ErrDuplicateStatus
			}
		}
		if len(parsed.Errors) > 0 {
			return fmt.Errorf("request failed with status %d: %s (code %d)",
				status, parsed.Errors[0].Message, parsed.Errors[0].Code)
		}
	}
	return fmt.Errorf("request failed with status %d", status)
}
