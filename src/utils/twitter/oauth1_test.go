package twitter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestOauth1TestSuite(t *testing.T) {
	suite.Run(t, new(Oauth1TestSuite))
}

type Oauth1TestSuite struct {
	suite.Suite
	signer *signer
}

func (s *Oauth1TestSuite) SetupSuite() {
	s.signer = newSigner(
		"xvz1evFS4wEEPTGEFPHBog",
		"kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
		"370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		"LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
	)
	s.signer.nonce = func() string { return "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg" }
	s.signer.timestamp = func() string { return "1318622958" }
}

// Reference vector from the platform's signing documentation
func (s *Oauth1TestSuite) TestKnownSignature() {
	parsed, err := url.Parse("https://api.twitter.com/1.1/statuses/update.json?include_entities=true")
	require.Nil(s.T(), err)

	form := url.Values{}
	form.Set("status", "Hello Ladies + Gentlemen, a signed OAuth request!")

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.signer.consumerKey,
		"oauth_nonce":            s.signer.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        s.signer.timestamp(),
		"oauth_token":            s.signer.accessToken,
		"oauth_version":          "1.0",
	}

	signature := s.signer.sign("POST", parsed, form, oauthParams)
	require.Equal(s.T(), "hCtSmYh+iHYCEqBWrE7C7hYmtUk=", signature)
}

func (s *Oauth1TestSuite) TestAuthorizationHeaderShape() {
	header, err := s.signer.AuthorizationHeader("POST",
		"https://api.twitter.com/1.1/statuses/update.json", url.Values{"status": {"hi"}})
	require.Nil(s.T(), err)

	require.Contains(s.T(), header, "OAuth ")
	require.Contains(s.T(), header, `oauth_consumer_key="xvz1evFS4wEEPTGEFPHBog"`)
	require.Contains(s.T(), header, `oauth_signature_method="HMAC-SHA1"`)
	require.Contains(s.T(), header, `oauth_signature="`)
	require.Contains(s.T(), header, `oauth_version="1.0"`)
}

func (s *Oauth1TestSuite) TestPercentEncode() {
	require.Equal(s.T(), "Ladies%20%2B%20Gentlemen", percentEncode("Ladies + Gentlemen"))
	require.Equal(s.T(), "Dogs%2C%20Cats%20%26%20Mice", percentEncode("Dogs, Cats & Mice"))
	require.Equal(s.T(), "An%20encoded%20string%21", percentEncode("An encoded string!"))
	require.Equal(s.T(), "safe-._~", percentEncode("safe-._~"))
	require.Equal(s.T(), "%E2%98%83", percentEncode("☃"))
}
