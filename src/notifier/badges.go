package notifier

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
)

func (self *Poller) handleBadgeStatusChange(ctx context.Context, badge BadgeContract, event eth.Event) (err error) {
	tokenAddress := eth.AddressHex(event.Fields["_address"])

	tokenID, err := self.tokenIDByAddress(ctx, tokenAddress)
	if err != nil {
		return
	}
	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	params, err := self.fetchDepositParams(ctx, badge.Handle)
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

	listingLink, err := self.shortenBadgeLink(ctx, badge, tokenAddress)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:              Classify(RoleBadge, status, disputed, appealed),
		Role:              RoleBadge,
		Token:             token,
		BadgeTitle:        badge.Title,
		Disputed:          disputed,
		RequesterDeposit:  WinnableDeposit(cost, params.SharedStakeMultiplier, params.Divisor, params.RequesterBaseDeposit),
		ChallengerDeposit: WinnableDeposit(cost, params.SharedStakeMultiplier, params.Divisor, params.ChallengerBaseDeposit),
		ListingLink:       listingLink,
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	// Badge awards are only announced inside an existing conversation
	if notification.Kind == KindBadgeAwarded && replyTo == "" {
		self.monitor.Report.Notifier.State.EventsSkipped.Inc()
		self.Log.WithField("token_id", tokenID).Debug("No thread for awarded badge, skipping")
		return nil
	}

	var mediaIDs []string
	if notification.Kind == KindSubmittedWithMedia {
		mediaIDs, err = self.uploadBadgeAsset(ctx, badge)
		if err != nil {
			return
		}
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), mediaIDs)
}

func (self *Poller) handleBadgeEvidence(ctx context.Context, badge BadgeContract, event eth.Event) (err error) {
	// The badge holder's address sits in the first calldata word
	input, err := self.chain.TransactionInput(ctx, event.TxHash)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	if len(input) < 36 {
		err = errors.New("calldata too short to hold an address")
		return
	}
	tokenAddress := eth.Checksum("0x" + hex.EncodeToString(input[16:36]))

	tokenID, err := self.tokenIDByAddress(ctx, tokenAddress)
	if err != nil {
		return
	}
	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	evidence, err := self.evidence.Resolve(ctx, eth.StringValue(event.Fields["_evidence"]))
	if err != nil {
		self.monitor.Report.Notifier.Errors.EvidenceFetchFailures.Inc()
		return
	}

	listingLink, err := self.shortenBadgeLink(ctx, badge, tokenAddress)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:        KindEvidenceSubmitted,
		Role:        RoleBadge,
		Token:       token,
		BadgeTitle:  badge.Title,
		Evidence:    &evidence,
		ListingLink: listingLink,
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), nil)
}

func (self *Poller) uploadBadgeAsset(ctx context.Context, badge BadgeContract) (mediaIDs []string, err error) {
	data, err := self.media.BadgeAsset(badge.Handle.Address())
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

func (self *Poller) shortenBadgeLink(ctx context.Context, badge BadgeContract, tokenAddress string) (link string, err error) {
	link, err = self.shortener.Shorten(ctx,
		self.listingBaseUrl+"/badge/"+eth.Checksum(badge.Handle.Address())+"/"+eth.Checksum(tokenAddress))
	if err != nil {
		self.monitor.Report.Notifier.Errors.LinkShorteningFailures.Inc()
	}
	return
}
