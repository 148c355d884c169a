package report

import "go.uber.org/atomic"

type NotifierErrors struct {
	ContractFetchFailures   atomic.Uint64 `json:"contract_fetch_failures"`
	ChainCallFailures       atomic.Uint64 `json:"chain_call_failures"`
	EvidenceFetchFailures   atomic.Uint64 `json:"evidence_fetch_failures"`
	MediaFetchFailures      atomic.Uint64 `json:"media_fetch_failures"`
	PublishFailures         atomic.Uint64 `json:"publish_failures"`
	DuplicateTweets         atomic.Uint64 `json:"duplicate_tweets"`
	CheckpointSaveFailures  atomic.Uint64 `json:"checkpoint_save_failures"`
	ThreadLookupFailures    atomic.Uint64 `json:"thread_lookup_failures"`
	LinkShorteningFailures  atomic.Uint64 `json:"link_shortening_failures"`
}

type NotifierState struct {
	LastScannedBlock atomic.Int64 `json:"last_scanned_block"`
	EventsSeen       atomic.Int64 `json:"events_seen"`
	EventsSkipped    atomic.Int64 `json:"events_skipped"`
	TweetsPosted     atomic.Int64 `json:"tweets_posted"`
	MediaUploaded    atomic.Int64 `json:"media_uploaded"`
	CyclesFinished   atomic.Int64 `json:"cycles_finished"`
}

type NotifierReport struct {
	State  NotifierState  `json:"state"`
	Errors NotifierErrors `json:"errors"`
}
