package ipfs

import (
	"testing"
	"time"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type ClientTestSuite struct {
	suite.Suite
	client *Client
}

func (s *ClientTestSuite) SetupSuite() {
	s.client = NewClient(&config.Ipfs{
		GatewayUrl:     "https://ipfs.kleros.io/",
		FileBaseUrl:    "https://files.example.com",
		RequestTimeout: 10 * time.Second,
	})
}

func (s *ClientTestSuite) TestPathUrisGoThroughTheGateway() {
	require.Equal(s.T(),
		"https://ipfs.kleros.io/ipfs/Qm123/file.json",
		s.client.ResolveUri("/ipfs/Qm123/file.json"))
}

func (s *ClientTestSuite) TestBareNamesFallBackToFileBase() {
	require.Equal(s.T(),
		"https://files.example.com/Qm123",
		s.client.ResolveUri("Qm123"))
}

func (s *ClientTestSuite) TestAbsoluteUrlsPassThrough() {
	require.Equal(s.T(),
		"https://example.com/evidence.json",
		s.client.ResolveUri("https://example.com/evidence.json"))
}

func (s *ClientTestSuite) TestEmptyUriStaysEmpty() {
	require.Equal(s.T(), "", s.client.ResolveUri(""))
}
