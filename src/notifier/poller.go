package notifier

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
	monitor_notifier "github.com/kleros/t2cr-twitter-bot/src/utils/monitoring/notifier"
	"github.com/kleros/t2cr-twitter-bot/src/utils/task"
	"github.com/kleros/t2cr-twitter-bot/src/utils/twitter"
)

// BadgeContract pairs a deployed badge contract with its display title
type BadgeContract struct {
	Handle ContractHandle
	Title  string
}

// Poller periodically scans the watched contracts for new events and
// publishes one message per event. Failures are contained per event, one
// bad event never stops the stream.
type Poller struct {
	*task.Task

	threads    ThreadRepository
	chain      ChainClient
	registry   ContractHandle
	arbitrator ContractHandle
	badges     []BadgeContract

	evidence  *Resolver
	media     *MediaStore
	publisher Publisher
	shortener Shortener

	monitor *monitor_notifier.Monitor

	listingBaseUrl   string
	etherscanBaseUrl string
}

func NewPoller(config *config.Config) (self *Poller) {
	self = new(Poller)
	self.listingBaseUrl = config.Notifier.ListingBaseUrl
	self.etherscanBaseUrl = config.Notifier.EtherscanBaseUrl

	self.Task = task.NewTask(config, "poller").
		WithPeriodicSubtaskFunc(config.Notifier.PollInterval, self.runCycle).
		WithWorkerPool(config.Notifier.NumWorkers)

	return
}

func (self *Poller) WithThreadRepository(threads ThreadRepository) *Poller {
	self.threads = threads
	return self
}

func (self *Poller) WithChainClient(chain ChainClient) *Poller {
	self.chain = chain
	return self
}

func (self *Poller) WithContracts(registry, arbitrator ContractHandle, badges []BadgeContract) *Poller {
	self.registry = registry
	self.arbitrator = arbitrator
	self.badges = badges
	return self
}

func (self *Poller) WithEvidenceResolver(evidence *Resolver) *Poller {
	self.evidence = evidence
	return self
}

func (self *Poller) WithMediaStore(media *MediaStore) *Poller {
	self.media = media
	return self
}

func (self *Poller) WithPublisher(publisher Publisher) *Poller {
	self.publisher = publisher
	return self
}

func (self *Poller) WithShortener(shortener Shortener) *Poller {
	self.shortener = shortener
	return self
}

func (self *Poller) WithMonitor(monitor *monitor_notifier.Monitor) *Poller {
	self.monitor = monitor
	return self
}

// runCycle performs one scan over the range [checkpoint, height].
// It never returns an error, a failed cycle is retried on the next tick.
func (self *Poller) runCycle() error {
	ctx := self.Ctx

	height, err := self.chain.Height(ctx)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		self.Log.WithError(err).Error("Failed to get chain height")
		return nil
	}

	from, ok, err := self.threads.Checkpoint(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to load checkpoint")
		return nil
	}
	if !ok {
		// First run starts at the current height, history is not replayed
		from = height
		err = self.threads.SaveCheckpoint(ctx, from)
		if err != nil {
			self.monitor.Report.Notifier.Errors.CheckpointSaveFailures.Inc()
			self.Log.WithError(err).Error("Failed to seed checkpoint")
			return nil
		}
		self.Log.WithField("height", from).Info("Seeded checkpoint at current height")
	}

	if height < from {
		// Node reported an older height, wait for it to catch up
		self.Log.WithField("height", height).WithField("checkpoint", from).
			Warn("Chain height below checkpoint, skipping cycle")
		return nil
	}

	self.Log.WithField("from", from).WithField("to", height).Debug("Scanning for new events")

	self.scanRegistry(ctx, from, height)
	self.scanArbitrator(ctx, from, height)
	self.scanBadges(ctx, from, height)

	self.saveCheckpoint(height + 1)

	self.monitor.Report.Notifier.State.LastScannedBlock.Store(height)
	self.monitor.Report.Notifier.State.CyclesFinished.Inc()
	self.Log.WithField("to", height).Info("Finished scan cycle")
	return nil
}

func (self *Poller) scanRegistry(ctx context.Context, from, to int64) {
	events, err := self.registry.FilterLogs(ctx, from, to)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ContractFetchFailures.Inc()
		self.Log.WithError(err).Error("Failed to fetch registry events")
		return
	}

	for _, event := range events {
		self.monitor.Report.Notifier.State.EventsSeen.Inc()

		switch event.Name {
		case "TokenStatusChange":
			err = self.handleRegistryStatusChange(ctx, event)
		case "Evidence":
			err = self.handleRegistryEvidence(ctx, event)
		default:
			self.monitor.Report.Notifier.State.EventsSkipped.Inc()
			continue
		}
		if err != nil {
			self.Log.WithError(err).WithField("event", event.Name).WithField("tx", event.TxHash).
				Error("Failed to handle registry event")
		}
	}
}

func (self *Poller) scanArbitrator(ctx context.Context, from, to int64) {
	events, err := self.arbitrator.FilterLogs(ctx, from, to)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ContractFetchFailures.Inc()
		self.Log.WithError(err).Error("Failed to fetch arbitrator events")
		return
	}

	for _, event := range events {
		if event.Name != "AppealPossible" {
			continue
		}
		self.monitor.Report.Notifier.State.EventsSeen.Inc()

		err = self.handleRuling(ctx, event)
		if err != nil {
			self.Log.WithError(err).WithField("tx", event.TxHash).
				Error("Failed to handle ruling event")
		}
	}
}

func (self *Poller) scanBadges(ctx context.Context, from, to int64) {
	type fetched struct {
		events []eth.Event
		err    error
	}

	// Ranges are fetched in parallel, events are processed sequentially
	results := make([]fetched, len(self.badges))
	var wg sync.WaitGroup
	for i, badge := range self.badges {
		wg.Add(1)
		handle := badge.Handle
		slot := &results[i]
		self.SubmitToWorker(func() {
			defer wg.Done()
			slot.events, slot.err = handle.FilterLogs(ctx, from, to)
		})
	}
	wg.Wait()

	for i, result := range results {
		badge := self.badges[i]
		if result.err != nil {
			self.monitor.Report.Notifier.Errors.ContractFetchFailures.Inc()
			self.Log.WithError(result.err).WithField("badge", badge.Title).
				Error("Failed to fetch badge events")
			continue
		}

		for _, event := range result.events {
			self.monitor.Report.Notifier.State.EventsSeen.Inc()

			var err error
			switch event.Name {
			case "AddressStatusChange":
				err = self.handleBadgeStatusChange(ctx, badge, event)
			case "Evidence":
				err = self.handleBadgeEvidence(ctx, badge, event)
			default:
				self.monitor.Report.Notifier.State.EventsSkipped.Inc()
				continue
			}
			if err != nil {
				self.Log.WithError(err).WithField("badge", badge.Title).WithField("event", event.Name).
					Error("Failed to handle badge event")
			}
		}
	}
}

func (self *Poller) saveCheckpoint(height int64) {
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxInterval(self.Config.Notifier.CheckpointBackoffInterval).
		WithMaxElapsedTime(self.Config.Notifier.CheckpointMaxElapsedTime).
		WithOnError(func(err error) {
			self.monitor.Report.Notifier.Errors.CheckpointSaveFailures.Inc()
			self.Log.WithError(err).Warn("Failed to save checkpoint, retrying")
		}).
		Run(func() error {
			return self.threads.SaveCheckpoint(self.Ctx, height)
		})
	if err != nil {
		// Scanned range gets re-processed next cycle, duplicates are
		// caught by the publisher
		self.Log.WithError(err).WithField("height", height).Error("Failed to save checkpoint")
	}
}

// publish posts one message, threading it into the entity's conversation,
// and records the new message as the thread tail
func (self *Poller) publish(ctx context.Context, tokenID, replyTo, text string, mediaIDs []string) (err error) {
	tweetID, err := self.publisher.Post(ctx, text, twitter.PostOptions{
		InReplyTo: replyTo,
		MediaIDs:  mediaIDs,
	})
	if errors.Is(err, twitter.ErrDuplicateStatus) {
		self.monitor.Report.Notifier.Errors.DuplicateTweets.Inc()
		self.Log.WithField("text", text).Warn("Duplicate message, skipping")
		return nil
	}
	if err != nil {
		self.monitor.Report.Notifier.Errors.PublishFailures.Inc()
		self.Log.WithError(err).WithField("text", text).Error("Failed to publish message")
		return
	}
	self.monitor.Report.Notifier.State.TweetsPosted.Inc()

	err = self.threads.UpsertTweetID(ctx, tokenID, tweetID)
	if err != nil {
		// The message is already out, only threading of later events breaks
		self.Log.WithError(err).WithField("token_id", tokenID).Error("Failed to update thread")
	}
	return
}

func (self *Poller) lastTweetID(ctx context.Context, tokenID string) (replyTo string, err error) {
	replyTo, _, err = self.threads.LastTweetID(ctx, tokenID)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ThreadLookupFailures.Inc()
	}
	return
}

// depositParams are the contract constants needed to compute deposits
type depositParams struct {
	ExtraData             []byte
	Divisor               string
	SharedStakeMultiplier string
	ChallengerBaseDeposit string
	RequesterBaseDeposit  string
}

// fetchDepositParams gathers the independent reads through the worker pool
func (self *Poller) fetchDepositParams(ctx context.Context, contract ContractHandle) (params depositParams, err error) {
	var wg sync.WaitGroup
	var mtx sync.Mutex

	read := func(method string, assign func(out []interface{})) {
		wg.Add(1)
		self.SubmitToWorker(func() {
			defer wg.Done()
			out, callErr := contract.Call(ctx, method)
			mtx.Lock()
			defer mtx.Unlock()
			if callErr != nil {
				if err == nil {
					err = fmt.Errorf("%s: %w", method, callErr)
				}
				return
			}
			assign(out)
		})
	}

	read("arbitratorExtraData", func(out []interface{}) { params.ExtraData, _ = out[0].([]byte) })
	read("MULTIPLIER_DIVISOR", func(out []interface{}) { params.Divisor = eth.BigString(out[0]) })
	read("sharedStakeMultiplier", func(out []interface{}) { params.SharedStakeMultiplier = eth.BigString(out[0]) })
	read("challengerBaseDeposit", func(out []interface{}) { params.ChallengerBaseDeposit = eth.BigString(out[0]) })
	read("requesterBaseDeposit", func(out []interface{}) { params.RequesterBaseDeposit = eth.BigString(out[0]) })
	wg.Wait()

	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
	}
	return
}

func (self *Poller) arbitrationCost(ctx context.Context, extraData []byte) (cost string, err error) {
	out, err := self.arbitrator.Call(ctx, "arbitrationCost", extraData)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	cost = eth.BigString(out[0])
	return
}

func (self *Poller) getTokenInfo(ctx context.Context, tokenID string) (token Token, err error) {
	out, err := self.registry.Call(ctx, "getTokenInfo", eth.HexToBytes32(tokenID))
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	if len(out) < 6 {
		err = errors.New("unexpected getTokenInfo output")
		return
	}

	token = Token{
		ID:              tokenID,
		Name:            eth.StringValue(out[0]),
		Ticker:          eth.StringValue(out[1]),
		Address:         eth.AddressHex(out[2]),
		SymbolMultihash: eth.StringValue(out[3]),
		Status:          eth.Uint8Value(out[4]),
	}
	if requests, ok := out[5].(*big.Int); ok {
		token.NumberOfRequests = requests.Int64()
	}
	return
}

// tokenIDByAddress finds the listing a badge contract refers to.
// The registry is queried for the single listing in the registered state.
func (self *Poller) tokenIDByAddress(ctx context.Context, tokenAddress string) (tokenID string, err error) {
	out, err := self.registry.Call(ctx, "queryTokens",
		[32]byte{},
		big.NewInt(1),
		[8]bool{false, true, false, false, false, false, false, false},
		true,
		eth.ParseAddress(tokenAddress),
	)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}

	values, _ := out[0].([][32]byte)
	if len(values) == 0 {
		err = fmt.Errorf("no listing found for address %s", tokenAddress)
		return
	}

	tokenID = eth.Bytes32Hex(values[0])
	return
}
