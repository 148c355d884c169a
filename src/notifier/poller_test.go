package notifier

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
	monitor_notifier "github.com/kleros/t2cr-twitter-bot/src/utils/monitoring/notifier"
	"github.com/kleros/t2cr-twitter-bot/src/utils/twitter"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPollerTestSuite(t *testing.T) {
	suite.Run(t, new(PollerTestSuite))
}

type PollerTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *PollerTestSuite) SetupSuite() {
	s.config = config.Default()
}

const (
	registryAddress   = "0x1111111111111111111111111111111111111111"
	arbitratorAddress = "0x2222222222222222222222222222222222222222"
	badgeAddress      = "0x3333333333333333333333333333333333333333"
	holderAddress     = "0x4444444444444444444444444444444444444444"
)

func testTokenID(last byte) string {
	var raw [32]byte
	raw[31] = last
	return "0x" + hex.EncodeToString(raw[:])
}

type pollerFixture struct {
	poller     *Poller
	threads    *fakeThreads
	chain      *fakeChain
	registry   *fakeContract
	arbitrator *fakeContract
	badge      *fakeContract
	publisher  *fakePublisher
	fetcher    *fakeFetcher
}

func (s *PollerTestSuite) newFixture(tokens map[string]Token) *pollerFixture {
	f := &pollerFixture{
		threads:   newFakeThreads(),
		chain:     &fakeChain{height: 100, inputs: map[string][]byte{}},
		publisher: &fakePublisher{},
		fetcher:   &fakeFetcher{documents: map[string]string{}},
	}

	f.registry = &fakeContract{address: eth.Checksum(registryAddress), calls: registryCalls(tokens)}
	f.arbitrator = &fakeContract{address: eth.Checksum(arbitratorAddress), calls: arbitratorCalls(1)}
	f.badge = &fakeContract{address: eth.Checksum(badgeAddress), calls: badgeCalls(tokens)}

	f.poller = NewPoller(s.config).
		WithThreadRepository(f.threads).
		WithChainClient(f.chain).
		WithContracts(f.registry, f.arbitrator, []BadgeContract{{Handle: f.badge, Title: "ERC20 Standard"}}).
		WithEvidenceResolver(NewResolver(f.fetcher, &fakeShortener{})).
		WithMediaStore(NewMediaStore(&s.config.Notifier, f.fetcher)).
		WithPublisher(f.publisher).
		WithShortener(&fakeShortener{}).
		WithMonitor(monitor_notifier.NewMonitor())

	return f
}

func (s *PollerTestSuite) TestFirstRunSeedsCheckpoint() {
	f := s.newFixture(nil)

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	// Only the current block is scanned, history is not replayed
	require.Equal(s.T(), [][2]int64{{100, 100}}, f.registry.filterCalls)
	require.Equal(s.T(), []int64{100, 101}, f.threads.savedHeights)
	require.Empty(s.T(), f.publisher.posts)
}

func (s *PollerTestSuite) TestRolledBackNodeSkipsCycle() {
	f := s.newFixture(nil)
	f.threads.setCheckpoint(200)
	f.chain.height = 150

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Empty(s.T(), f.registry.filterCalls)
	require.Empty(s.T(), f.threads.savedHeights)
}

func (s *PollerTestSuite) TestPublishFailureDoesNotStopTheBatch() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
		testTokenID(2): {Name: "Token Two", Ticker: "TWO"},
		testTokenID(3): {Name: "Token Three", Ticker: "THREE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.registry.events = []eth.Event{
		statusChangeEvent(testTokenID(1), StatusRejected, false, false),
		statusChangeEvent(testTokenID(2), StatusRejected, false, false),
		statusChangeEvent(testTokenID(3), StatusRejected, false, false),
	}
	f.publisher.failOnText = "#TokenTwo"

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Len(s.T(), f.publisher.posts, 2)
	require.Contains(s.T(), f.publisher.posts[0].text, "#TokenOne")
	require.Contains(s.T(), f.publisher.posts[1].text, "#TokenThree")

	_, ok := f.threads.tweetIDs[testTokenID(1)]
	require.True(s.T(), ok)
	_, ok = f.threads.tweetIDs[testTokenID(2)]
	require.False(s.T(), ok)

	// Checkpoint still advances past the scanned range
	require.Equal(s.T(), []int64{101}, f.threads.savedHeights)
}

func (s *PollerTestSuite) TestContractFetchFailureDoesNotStopOtherContracts() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.registry.filterErr = fmt.Errorf("node unavailable")
	f.badge.events = []eth.Event{
		addressStatusChangeEvent(holderAddress, StatusRejected, false, false),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	// Badge events are still processed and the checkpoint still advances
	require.Len(s.T(), f.publisher.posts, 1)
	require.Contains(s.T(), f.publisher.posts[0].text, "#TokenOne has been denied the ERC20 Standard Badge.")
	require.Equal(s.T(), []int64{101}, f.threads.savedHeights)
}

func (s *PollerTestSuite) TestRejectionThreadsIntoExistingConversation() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE", NumberOfRequests: 1},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.threads.tweetIDs[testTokenID(1)] = "111"
	f.registry.events = []eth.Event{
		statusChangeEvent(testTokenID(1), StatusRejected, true, false),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Len(s.T(), f.publisher.posts, 1)
	post := f.publisher.posts[0]
	require.Equal(s.T(), "111", post.replyTo)
	require.Contains(s.T(), post.text, "#TokenOne")
	require.Contains(s.T(), post.text, "The challenger has won the deposit of 1.50 ETH")

	// The thread now points at the newest message
	require.Equal(s.T(), "tweet-1", f.threads.tweetIDs[testTokenID(1)])
}

func (s *PollerTestSuite) TestDuplicateMessageSkippedQuietly() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.registry.events = []eth.Event{
		statusChangeEvent(testTokenID(1), StatusRejected, false, false),
	}
	f.publisher.duplicateOnText = "#TokenOne"

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	_, ok := f.threads.tweetIDs[testTokenID(1)]
	require.False(s.T(), ok)
	require.Equal(s.T(), []int64{101}, f.threads.savedHeights)
}

func (s *PollerTestSuite) TestUndecidedRulingNotAnnounced() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.arbitrator.calls = arbitratorCalls(0)
	f.arbitrator.events = []eth.Event{
		appealPossibleEvent(5, registryAddress),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)
	require.Empty(s.T(), f.publisher.posts)
}

func (s *PollerTestSuite) TestRegistryRulingAnnounced() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.arbitrator.events = []eth.Event{
		appealPossibleEvent(5, registryAddress),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Len(s.T(), f.publisher.posts, 1)
	require.Contains(s.T(), f.publisher.posts[0].text, "Jurors have ruled to accept the request #TokenOne.")
}

func (s *PollerTestSuite) TestBadgeAwardWithoutThreadSkipped() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.badge.events = []eth.Event{
		addressStatusChangeEvent(holderAddress, StatusAccepted, false, false),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)
	require.Empty(s.T(), f.publisher.posts)
}

func (s *PollerTestSuite) TestBadgeAwardRepliesIntoThread() {
	tokens := map[string]Token{
		testTokenID(1): {Name: "Token One", Ticker: "ONE"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)
	f.threads.tweetIDs[testTokenID(1)] = "111"
	f.badge.events = []eth.Event{
		addressStatusChangeEvent(holderAddress, StatusAccepted, false, false),
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Len(s.T(), f.publisher.posts, 1)
	require.Equal(s.T(), "111", f.publisher.posts[0].replyTo)
	require.Contains(s.T(), f.publisher.posts[0].text, "#TokenOne has been awarded the ERC20 Standard Badge.")
}

func (s *PollerTestSuite) TestEvidenceRecoveredFromCalldata() {
	tokens := map[string]Token{
		testTokenID(7): {Name: "Token Seven", Ticker: "SEVEN"},
	}
	f := s.newFixture(tokens)
	f.threads.setCheckpoint(50)

	// Selector followed by the listing ID as the first argument
	input := make([]byte, 36)
	input[35] = 7
	f.chain.inputs["0xdead"] = input

	f.fetcher.documents["/ipfs/doc"] = `{"title":"Proof","description":"It is real"}`
	f.registry.events = []eth.Event{
		{
			Name:     "Evidence",
			Contract: eth.Checksum(registryAddress),
			TxHash:   "0xdead",
			Fields:   map[string]interface{}{"_evidence": "/ipfs/doc"},
		},
	}

	err := f.poller.runCycle()
	require.Nil(s.T(), err)

	require.Len(s.T(), f.publisher.posts, 1)
	require.Contains(s.T(), f.publisher.posts[0].text, "New Evidence for #TokenSeven: Proof")
	require.Contains(s.T(), f.publisher.posts[0].text, "It is real")
}

// Contract call fakes

func registryCalls(tokens map[string]Token) func(method string, args []interface{}) ([]interface{}, error) {
	return func(method string, args []interface{}) ([]interface{}, error) {
		switch method {
		case "getTokenInfo":
			id, _ := args[0].([32]byte)
			token, ok := tokens["0x"+hex.EncodeToString(id[:])]
			if !ok {
				return nil, fmt.Errorf("unknown token")
			}
			return []interface{}{
				token.Name,
				token.Ticker,
				eth.ParseAddress(token.Address),
				token.SymbolMultihash,
				token.Status,
				big.NewInt(max64(token.NumberOfRequests, 1)),
			}, nil
		case "arbitratorDisputeIDToTokenID":
			return []interface{}{eth.HexToBytes32(testTokenID(1))}, nil
		case "queryTokens":
			return []interface{}{[][32]byte{eth.HexToBytes32(testTokenID(1))}, false}, nil
		default:
			return arbitrableConstants(method)
		}
	}
}

func badgeCalls(tokens map[string]Token) func(method string, args []interface{}) ([]interface{}, error) {
	return func(method string, args []interface{}) ([]interface{}, error) {
		switch method {
		case "arbitratorDisputeIDToAddress":
			return []interface{}{eth.ParseAddress(holderAddress)}, nil
		default:
			return arbitrableConstants(method)
		}
	}
}

func arbitrableConstants(method string) ([]interface{}, error) {
	switch method {
	case "arbitratorExtraData":
		return []interface{}{[]byte{0x01}}, nil
	case "MULTIPLIER_DIVISOR":
		return []interface{}{big.NewInt(10000)}, nil
	case "sharedStakeMultiplier", "winnerStakeMultiplier":
		return []interface{}{big.NewInt(10000)}, nil
	case "challengerBaseDeposit", "requesterBaseDeposit":
		return []interface{}{big.NewInt(500000000000000000)}, nil
	default:
		return nil, fmt.Errorf("no fake output for %s", method)
	}
}

func arbitratorCalls(ruling int64) func(method string, args []interface{}) ([]interface{}, error) {
	return func(method string, args []interface{}) ([]interface{}, error) {
		switch method {
		case "arbitrationCost", "appealCost":
			return []interface{}{big.NewInt(1000000000000000000)}, nil
		case "currentRuling":
			return []interface{}{big.NewInt(ruling)}, nil
		default:
			return nil, fmt.Errorf("no fake output for %s", method)
		}
	}
}

func statusChangeEvent(tokenID string, status uint8, disputed, appealed bool) eth.Event {
	return eth.Event{
		Name:     "TokenStatusChange",
		Contract: eth.Checksum(registryAddress),
		TxHash:   "0xbeef",
		Fields: map[string]interface{}{
			"_tokenID":  eth.HexToBytes32(tokenID),
			"_status":   status,
			"_disputed": disputed,
			"_appealed": appealed,
		},
	}
}

func addressStatusChangeEvent(address string, status uint8, disputed, appealed bool) eth.Event {
	return eth.Event{
		Name:     "AddressStatusChange",
		Contract: eth.Checksum(badgeAddress),
		TxHash:   "0xbeef",
		Fields: map[string]interface{}{
			"_address":  eth.ParseAddress(address),
			"_status":   status,
			"_disputed": disputed,
			"_appealed": appealed,
		},
	}
}

func appealPossibleEvent(disputeID int64, arbitrable string) eth.Event {
	return eth.Event{
		Name:     "AppealPossible",
		Contract: eth.Checksum(arbitratorAddress),
		TxHash:   "0xbeef",
		Fields: map[string]interface{}{
			"_disputeID":  big.NewInt(disputeID),
			"_arbitrable": eth.ParseAddress(arbitrable),
		},
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Fakes for the poller's collaborators

type fakeThreads struct {
	mtx           sync.Mutex
	tweetIDs      map[string]string
	checkpoint    int64
	hasCheckpoint bool
	savedHeights  []int64
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{tweetIDs: map[string]string{}}
}

func (self *fakeThreads) setCheckpoint(height int64) {
	self.checkpoint = height
	self.hasCheckpoint = true
}

func (self *fakeThreads) LastTweetID(ctx context.Context, tokenID string) (string, bool, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	tweetID, ok := self.tweetIDs[tokenID]
	return tweetID, ok, nil
}

func (self *fakeThreads) UpsertTweetID(ctx context.Context, tokenID string, tweetID string) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.tweetIDs[tokenID] = tweetID
	return nil
}

func (self *fakeThreads) Checkpoint(ctx context.Context) (int64, bool, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.checkpoint, self.hasCheckpoint, nil
}

func (self *fakeThreads) SaveCheckpoint(ctx context.Context, height int64) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.savedHeights = append(self.savedHeights, height)
	if height > self.checkpoint {
		self.checkpoint = height
	}
	self.hasCheckpoint = true
	return nil
}

type fakeChain struct {
	height int64
	inputs map[string][]byte
}

func (self *fakeChain) Height(ctx context.Context) (int64, error) {
	return self.height, nil
}

func (self *fakeChain) TransactionInput(ctx context.Context, txHash string) ([]byte, error) {
	input, ok := self.inputs[txHash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", txHash)
	}
	return input, nil
}

type fakeContract struct {
	address     string
	events      []eth.Event
	filterErr   error
	filterCalls [][2]int64
	calls       func(method string, args []interface{}) ([]interface{}, error)
	mtx         sync.Mutex
}

func (self *fakeContract) Address() string {
	return self.address
}

func (self *fakeContract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.calls(method, args)
}

func (self *fakeContract) FilterLogs(ctx context.Context, from, to int64) ([]eth.Event, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.filterCalls = append(self.filterCalls, [2]int64{from, to})
	return self.events, self.filterErr
}

type postedMessage struct {
	text    string
	replyTo string
	media   []string
}

type fakePublisher struct {
	mtx             sync.Mutex
	posts           []postedMessage
	failOnText      string
	duplicateOnText string
}

func (self *fakePublisher) Post(ctx context.Context, text string, opts twitter.PostOptions) (string, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.failOnText != "" && strings.Contains(text, self.failOnText) {
		return "", fmt.Errorf("posting rejected")
	}
	if self.duplicateOnText != "" && strings.Contains(text, self.duplicateOnText) {
		return "", twitter.ErrDuplicateStatus
	}
	self.posts = append(self.posts, postedMessage{text: text, replyTo: opts.InReplyTo, media: opts.MediaIDs})
	return fmt.Sprintf("tweet-%d", len(self.posts)), nil
}

func (self *fakePublisher) UploadMedia(ctx context.Context, data []byte) (string, error) {
	return "media-1", nil
}
