package notifier

import (
	"context"

	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
	"github.com/kleros/t2cr-twitter-bot/src/utils/twitter"
)

// Role tells which kind of contract emitted an event
type Role int

const (
	RoleRegistry Role = iota
	RoleBadge
	RoleArbitrator
)

func (self Role) String() string {
	switch self {
	case RoleRegistry:
		return "registry"
	case RoleBadge:
		return "badge"
	case RoleArbitrator:
		return "arbitrator"
	}
	return "unknown"
}

// Kind is the classification outcome that drives rendering
type Kind int

const (
	KindRejected Kind = iota
	KindAccepted
	KindChallenged
	KindAppealed
	KindSubmittedWithMedia
	KindRemovalRequested
	KindEvidenceSubmitted
	KindRulingAppealable
	KindBadgeDenied
	KindBadgeAwarded
)

func (self Kind) String() string {
	switch self {
	case KindRejected:
		return "rejected"
	case KindAccepted:
		return "accepted"
	case KindChallenged:
		return "challenged"
	case KindAppealed:
		return "appealed"
	case KindSubmittedWithMedia:
		return "submitted_with_media"
	case KindRemovalRequested:
		return "removal_requested"
	case KindEvidenceSubmitted:
		return "evidence_submitted"
	case KindRulingAppealable:
		return "ruling_appealable"
	case KindBadgeDenied:
		return "badge_denied"
	case KindBadgeAwarded:
		return "badge_awarded"
	}
	return "unknown"
}

// Token is the on-chain listing a notification refers to
type Token struct {
	ID               string
	Name             string
	Ticker           string
	Address          string
	SymbolMultihash  string
	Status           uint8
	NumberOfRequests int64
}

// Notification gathers everything the renderer needs for one message
type Notification struct {
	Kind  Kind
	Role  Role
	Token Token

	// Badge display name, set for badge notifications only
	BadgeTitle string

	// Whether the triggering request was disputed
	Disputed bool

	// Whether the listing left the registry after more than one request
	Removed bool

	// Whether jurors ruled in favor of the request
	RulingAccept bool

	// Deposits in wei as decimal strings
	RequesterDeposit  string
	ChallengerDeposit string
	AppealMaxFee      string

	// Resolved evidence document, set for evidence notifications only
	Evidence *Evidence

	// Shortened links
	ListingLink      string
	TokenAddressLink string
}

// ThreadRepository persists reply threads and the scan checkpoint
type ThreadRepository interface {
	LastTweetID(ctx context.Context, tokenID string) (tweetID string, ok bool, err error)
	UpsertTweetID(ctx context.Context, tokenID string, tweetID string) error
	Checkpoint(ctx context.Context) (height int64, ok bool, err error)
	SaveCheckpoint(ctx context.Context, height int64) error
}

// Publisher posts messages to the social feed
type Publisher interface {
	Post(ctx context.Context, text string, opts twitter.PostOptions) (tweetID string, err error)
	UploadMedia(ctx context.Context, data []byte) (mediaID string, err error)
}

// Shortener turns long listing links into feed-friendly ones
type Shortener interface {
	Shorten(ctx context.Context, longUrl string) (shortUrl string, err error)
}

// ContentFetcher retrieves content-addressed documents
type ContentFetcher interface {
	ResolveUri(uri string) string
	Get(ctx context.Context, uri string) (data []byte, contentType string, err error)
	GetJson(ctx context.Context, uri string, out interface{}) error
}

// ChainClient covers the node-level reads the poller needs
type ChainClient interface {
	Height(ctx context.Context) (height int64, err error)
	TransactionInput(ctx context.Context, txHash string) (input []byte, err error)
}

// ContractHandle is a deployed contract bound to its ABI
type ContractHandle interface {
	Address() string
	Call(ctx context.Context, method string, args ...interface{}) (out []interface{}, err error)
	FilterLogs(ctx context.Context, from, to int64) (events []eth.Event, err error)
}
