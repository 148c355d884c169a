package twitter

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// signer produces OAuth 1.0a Authorization headers using HMAC-SHA1
type signer struct {
	consumerKey    string
	consumerSecret string
	accessToken    string
	accessSecret   string

	// overridable in tests
	nonce     func() string
	timestamp func() string
}

func newSigner(consumerKey, consumerSecret, accessToken, accessSecret string) (self *signer) {
	self = new(signer)
	self.consumerKey = consumerKey
	self.consumerSecret = consumerSecret
	self.accessToken = accessToken
	self.accessSecret = accessSecret
	self.nonce = randomNonce
	self.timestamp = func() string {
		return strconv.FormatInt(time.Now().Unix(), 10)
	}
	return
}

func randomNonce() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// AuthorizationHeader signs one request. Form values are part of the
// signature base string, body payloads sent as multipart are not.
func (self *signer) AuthorizationHeader(method, rawUrl string, form url.Values) (header string, err error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     self.consumerKey,
		"oauth_nonce":            self.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        self.timestamp(),
		"oauth_token":            self.accessToken,
		"oauth_version":          "1.0",
	}

	signature := self.sign(method, parsed, form, oauthParams)
	oauthParams["oauth_signature"] = signature

	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("OAuth ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `%s="%s"`, percentEncode(k), percentEncode(oauthParams[k]))
	}
	header = b.String()
	return
}

func (self *signer) sign(method string, parsed *url.URL, form url.Values, oauthParams map[string]string) string {
	params := make(map[string][]string)
	for k, vs := range parsed.Query() {
		params[k] = append(params[k], vs...)
	}
	for k, vs := range form {
		params[k] = append(params[k], vs...)
	}
	for k, v := range oauthParams {
		params[k] = append(params[k], v)
	}

	type pair struct{ key, value string }
	var pairs []pair
	for k, vs := range params {
		for _, v := range vs {
			pairs = append(pairs, pair{percentEncode(k), percentEncode(v)})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	var paramString strings.Builder
	for i, p := range pairs {
		if i > 0 {
			paramString.WriteByte('&')
		}
		paramString.WriteString(p.key)
		paramString.WriteByte('=')
		paramString.WriteString(p.value)
	}

	baseUrl := strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + parsed.EscapedPath()
	baseString := strings.ToUpper(method) + "&" + percentEncode(baseUrl) + "&" + percentEncode(paramString.String())

	signingKey := percentEncode(self.consumerSecret) + "&" + percentEncode(self.accessSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode implements RFC 3986 encoding as the signature requires,
// url.QueryEscape differs on spaces and tilde
func percentEncode(input string) string {
	var b strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
