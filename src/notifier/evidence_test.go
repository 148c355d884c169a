package notifier

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestEvidenceTestSuite(t *testing.T) {
	suite.Run(t, new(EvidenceTestSuite))
}

type EvidenceTestSuite struct {
	suite.Suite
}

func (s *EvidenceTestSuite) TestShortDocumentsUntouched() {
	title := strings.Repeat("t", 25)
	description := strings.Repeat("d", 50)

	outTitle, outDescription := TruncateEvidence(title, description)
	require.Equal(s.T(), title, outTitle)
	require.Equal(s.T(), description, outDescription)
}

func (s *EvidenceTestSuite) TestLongDocumentsTruncated() {
	title := strings.Repeat("t", 25)
	description := strings.Repeat("d", 120)

	outTitle, outDescription := TruncateEvidence(title, description)
	require.Equal(s.T(), strings.Repeat("t", 17)+"...", outTitle)
	require.Equal(s.T(), strings.Repeat("d", 107)+"...", outDescription)
}

func (s *EvidenceTestSuite) TestCutsAreIndependent() {
	// Combined length over budget but only the description is long enough to cut
	title := strings.Repeat("t", 15)
	description := strings.Repeat("d", 120)

	outTitle, outDescription := TruncateEvidence(title, description)
	require.Equal(s.T(), title, outTitle)
	require.Equal(s.T(), strings.Repeat("d", 107)+"...", outDescription)
}

func (s *EvidenceTestSuite) TestMultibyteTitlesCutOnRuneBoundaries() {
	title := strings.Repeat("é", 25)
	description := strings.Repeat("d", 120)

	outTitle, outDescription := TruncateEvidence(title, description)
	require.Equal(s.T(), strings.Repeat("é", 17)+"...", outTitle)
	require.Equal(s.T(), strings.Repeat("d", 107)+"...", outDescription)
}

func (s *EvidenceTestSuite) TestByteLengthDoesNotTriggerTheBudget() {
	// 50 bytes of title but only 25 characters, combined well under the budget
	title := strings.Repeat("é", 25)
	description := strings.Repeat("d", 50)

	outTitle, outDescription := TruncateEvidence(title, description)
	require.Equal(s.T(), title, outTitle)
	require.Equal(s.T(), description, outDescription)
}

func (s *EvidenceTestSuite) TestResolvePrefersTitle() {
	fetcher := &fakeFetcher{
		documents: map[string]string{
			"/ipfs/doc": `{"title":"The Title","name":"The Name","description":"Details"}`,
		},
	}
	resolver := NewResolver(fetcher, &fakeShortener{})

	evidence, err := resolver.Resolve(context.Background(), "/ipfs/doc")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "The Title", evidence.Name)
	require.Equal(s.T(), "Details", evidence.Description)
	require.Empty(s.T(), evidence.FileLink)
}

func (s *EvidenceTestSuite) TestResolveShortensFileLink() {
	fetcher := &fakeFetcher{
		documents: map[string]string{
			"/ipfs/doc": `{"name":"Report","fileURI":"/ipfs/attachment.pdf"}`,
		},
	}
	resolver := NewResolver(fetcher, &fakeShortener{})

	evidence, err := resolver.Resolve(context.Background(), "/ipfs/doc")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "Report", evidence.Name)
	require.Equal(s.T(), "short:https://gateway/ipfs/attachment.pdf", evidence.FileLink)
}

// fakeFetcher serves canned documents keyed by their raw URI
type fakeFetcher struct {
	documents map[string]string
}

func (self *fakeFetcher) ResolveUri(uri string) string {
	if strings.HasPrefix(uri, "/") {
		return "https://gateway" + uri
	}
	return uri
}

func (self *fakeFetcher) Get(ctx context.Context, uri string) (data []byte, contentType string, err error) {
	return []byte(self.documents[uri]), "application/json", nil
}

func (self *fakeFetcher) GetJson(ctx context.Context, uri string, out interface{}) error {
	return json.Unmarshal([]byte(self.documents[uri]), out)
}

type fakeShortener struct{}

func (self *fakeShortener) Shorten(ctx context.Context, longUrl string) (string, error) {
	return "short:" + longUrl, nil
}
