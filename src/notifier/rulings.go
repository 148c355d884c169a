package notifier

import (
	"context"
	"errors"
	"math/big"

	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
)

// handleRuling resolves which tracked contract a dispute belongs to and
// publishes an appeal call. Disputes of unrelated arbitrables are skipped.
func (self *Poller) handleRuling(ctx context.Context, event eth.Event) (err error) {
	arbitrable := eth.AddressHex(event.Fields["_arbitrable"])
	disputeID, ok := event.Fields["_disputeID"].(*big.Int)
	if !ok {
		return errors.New("ruling event missing dispute ID")
	}

	if arbitrable == self.registry.Address() {
		return self.handleRegistryRuling(ctx, disputeID)
	}

	for _, badge := range self.badges {
		if arbitrable == badge.Handle.Address() {
			return self.handleBadgeRuling(ctx, badge, disputeID)
		}
	}

	self.monitor.Report.Notifier.State.EventsSkipped.Inc()
	return nil
}

func (self *Poller) handleRegistryRuling(ctx context.Context, disputeID *big.Int) (err error) {
	out, err := self.registry.Call(ctx, "arbitratorDisputeIDToTokenID",
		eth.ParseAddress(self.arbitrator.Address()), disputeID)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	tokenID := eth.Bytes32Hex(out[0])

	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	ruling, decided, err := self.currentRuling(ctx, disputeID)
	if err != nil {
		return
	}
	if !decided {
		// Jurors have not voted yet, nothing to announce
		self.monitor.Report.Notifier.State.EventsSkipped.Inc()
		return nil
	}

	maxFee, err := self.appealMaxFee(ctx, self.registry, disputeID)
	if err != nil {
		return
	}

	listingLink, err := self.shortenListingLink(ctx, tokenID)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:         KindRulingAppealable,
		Role:         RoleRegistry,
		Token:        token,
		RulingAccept: ruling == 1,
		AppealMaxFee: maxFee,
		ListingLink:  listingLink,
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), nil)
}

func (self *Poller) handleBadgeRuling(ctx context.Context, badge BadgeContract, disputeID *big.Int) (err error) {
	out, err := badge.Handle.Call(ctx, "arbitratorDisputeIDToAddress",
		eth.ParseAddress(self.arbitrator.Address()), disputeID)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	tokenAddress := eth.AddressHex(out[0])

	tokenID, err := self.tokenIDByAddress(ctx, tokenAddress)
	if err != nil {
		return
	}
	token, err := self.getTokenInfo(ctx, tokenID)
	if err != nil {
		return
	}

	ruling, decided, err := self.currentRuling(ctx, disputeID)
	if err != nil {
		return
	}
	if !decided {
		self.monitor.Report.Notifier.State.EventsSkipped.Inc()
		return nil
	}

	maxFee, err := self.appealMaxFee(ctx, badge.Handle, disputeID)
	if err != nil {
		return
	}

	listingLink, err := self.shortenBadgeLink(ctx, badge, tokenAddress)
	if err != nil {
		return
	}

	notification := Notification{
		Kind:         KindRulingAppealable,
		Role:         RoleBadge,
		Token:        token,
		BadgeTitle:   badge.Title,
		RulingAccept: ruling == 1,
		AppealMaxFee: maxFee,
		ListingLink:  listingLink,
	}

	replyTo, err := self.lastTweetID(ctx, tokenID)
	if err != nil {
		return
	}

	return self.publish(ctx, tokenID, replyTo, Render(notification), nil)
}

func (self *Poller) currentRuling(ctx context.Context, disputeID *big.Int) (ruling int64, decided bool, err error) {
	out, err := self.arbitrator.Call(ctx, "currentRuling", disputeID)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}

	if value, ok := out[0].(*big.Int); ok {
		ruling = value.Int64()
	}
	decided = ruling != 0
	return
}

// appealMaxFee computes the highest appeal fee the winner side can fund,
// reading the multipliers from the arbitrable contract the dispute targets
func (self *Poller) appealMaxFee(ctx context.Context, arbitrable ContractHandle, disputeID *big.Int) (maxFee string, err error) {
	out, err := arbitrable.Call(ctx, "arbitratorExtraData")
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	extraData, _ := out[0].([]byte)

	out, err = self.arbitrator.Call(ctx, "appealCost", disputeID, extraData)
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	appealCost := eth.BigString(out[0])

	out, err = arbitrable.Call(ctx, "winnerStakeMultiplier")
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	winnerStakeMultiplier := eth.BigString(out[0])

	out, err = arbitrable.Call(ctx, "MULTIPLIER_DIVISOR")
	if err != nil {
		self.monitor.Report.Notifier.Errors.ChainCallFailures.Inc()
		return
	}
	divisor := eth.BigString(out[0])

	maxFee = AppealMaxFee(appealCost, winnerStakeMultiplier, divisor)
	return
}
