package notifier

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
)

func (self *Poller) handleRegistryStatusChange(ctx context.Context, event eth.Event) (err error) {
	tokenID := eth.Bytes32Hex(event.Fields["_tokenID"])

	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	params, err := self.fetchDepositParams(ctx, self.registry)
	if err != nil {
		return
	}
	cost, err := self.arbitrationCost(ctx, params.ExtraData)
	if err != nil {
		return
	}

	disputed := eth.BoolValue(event.Fields["_disputed"])
	appealed := eth.BoolValue(event.Fields["_appealed"])
	status := eth.Uint8Value(event.Fields["_status"])

	listingLink, err := self.shortenListingLink(ctx, tokenID)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:              Classify(RoleRegistry, status, disputed, appealed),
		Role:              RoleRegistry,
		Token:             token,
		Disputed:          disputed,
		Removed:           token.NumberOfRequests > 1,
		RequesterDeposit:  WinnableDeposit(cost, params.SharedStakeMultiplier, params.Divisor, params.RequesterBaseDeposit),
		ChallengerDeposit: WinnableDeposit(cost, params.SharedStakeMultiplier, params.Divisor, params.ChallengerBaseDeposit),
		ListingLink:       listingLink,
	}

	var mediaIDs []string
	if notification.Kind == KindSubmittedWithMedia {
		mediaIDs, err = self.uploadRegistryLogo(ctx, token)
		if err != nil {
			return
		}

		notification.TokenAddressLink, err = self.shortener.Shorten(ctx, self.etherscanBaseUrl+"/token/"+token.Address)
		if err != nil {
			self.monitor.Report.Notifier.Errors.LinkShorteningFailures.Inc()
			return
		}
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), mediaIDs)
}

func (self *Poller) handleRegistryEvidence(ctx context.Context, event eth.Event) (err error) {
	// The listing ID is not part of the event, recover it from the calldata
	input, err := self.chain.TransactionInput(ctx, event.TxHash)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	if len(input) < 36 {
		err = errors.New("calldata too short to hold a listing ID")
		return
	}
	tokenID := "0x" + hex.EncodeToString(input[4:36])

	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	evidence, err := self.evidence.Resolve(ctx, eth.StringValue(event.Fields["_evidence"]))
	if err != nil {
		self.monitor.Report.Notifier.Errors.EvidenceFetchFailures.Inc()
		return
	}

	listingLink, err := self.shortenListingLink(ctx, tokenID)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:        KindEvidenceSubmitted,
		Role:        RoleRegistry,
		Token:       token,
		Evidence:    &evidence,
		ListingLink: listingLink,
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), nil)
}

func (self *Poller) uploadRegistryLogo(ctx context.Context, token Token) (mediaIDs []string, err error) {
	data, err := self.media.RegistryLogo(ctx, token.SymbolMultihash)
	if err != nil {
		self.monitor.Report.Notifier.Errors.MediaFetchFailures.Inc()
		return
	}

	mediaID, err := self.publisher.UploadMedia(ctx, data)
	if err != nil {
		self.monitor.Report.Notifier.Errors.PublishFailures.Inc()
		return
	}
	self.monitor.Report.Notifier.State.MediaUploaded.Inc()

	mediaIDs = []string{mediaID}
	return
}

func (self *Poller) shortenListingLink(ctx context.Context, tokenID string) (link string, err error) {
	link, err = self.shortener.Shorten(ctx, self.listingBaseUrl+"/token/"+tokenID)
	if err != nil {
		self.monitor.Report.Notifier.Errors.LinkShorteningFailures.Inc()
	}
	return
}
