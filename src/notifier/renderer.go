package notifier

import (
	"fmt"
	"strings"
)

// Tag strips spaces from a listing name to form a searchable hashtag
func Tag(name string) string {
	return "#" + strings.ReplaceAll(name, " ", "")
}

// Render builds the message text for one notification
func Render(n Notification) string {
	if n.Role == RoleBadge {
		return renderBadge(n)
	}
	return renderRegistry(n)
}

func renderRegistry(n Notification) string {
	tag := Tag(n.Token.Name)

	switch n.Kind {
	case KindRejected:
		verb := "rejected"
		if n.Removed {
			verb = "removed"
		}
		text := fmt.Sprintf("%s $%s has been %s.", tag, n.Token.Ticker, verb)
		if n.Disputed {
			text += fmt.Sprintf(" The challenger has won the deposit of %s ETH",
				PrettyAmount(n.RequesterDeposit))
		}
		return text

	case KindAccepted:
		text := fmt.Sprintf("%s $%s has been accepted into the list.", tag, n.Token.Ticker)
		if n.Disputed {
			text += fmt.Sprintf(" The submitter has taken the challengers deposit of %s ETH",
				PrettyAmount(n.ChallengerDeposit))
		}
		return text

	case KindChallenged:
		return fmt.Sprintf("Token Challenged! %s $%s is headed to court %s",
			tag, n.Token.Ticker, n.ListingLink)

	case KindAppealed:
		return fmt.Sprintf("The ruling on %s $%s has been appealed %s",
			tag, n.Token.Ticker, n.ListingLink)

	case KindSubmittedWithMedia:
		return fmt.Sprintf("%s $%s submitted. Verify it for a chance to win %s #ETH\n\nToken Address: %s\n\nListing: %s",
			tag, n.Token.Ticker, PrettyAmount(n.RequesterDeposit), n.TokenAddressLink, n.ListingLink)

	case KindRemovalRequested:
		return fmt.Sprintf("Someone requested to remove %s $%s with a deposit of %s ETH. Verify it for a chance to win the deposit\n\nSee the listing here: %s",
			tag, n.Token.Ticker, PrettyAmount(n.RequesterDeposit), n.ListingLink)

	case KindEvidenceSubmitted:
		return renderEvidence(fmt.Sprintf("New Evidence for %s:", tag), n)

	case KindRulingAppealable:
		direction := "against"
		if n.RulingAccept {
			direction = "to accept"
		}
		return fmt.Sprintf("Jurors have ruled %s the request %s. Think they are wrong? Fund an appeal for the chance to win up to %s ETH.\n\nSee the listing here: %s",
			direction, tag, PrettyAmount(n.AppealMaxFee), n.ListingLink)
	}

	return ""
}

func renderBadge(n Notification) string {
	tag := Tag(n.Token.Name)

	switch n.Kind {
	case KindBadgeDenied:
		text := fmt.Sprintf("%s has been denied the %s Badge.", tag, n.BadgeTitle)
		if n.Disputed {
			text += fmt.Sprintf(" The challenger has won the deposit of %s ETH",
				PrettyAmount(n.RequesterDeposit))
		}
		return text

	case KindBadgeAwarded:
		text := fmt.Sprintf("%s has been awarded the %s Badge.", tag, n.BadgeTitle)
		if n.Disputed {
			text += fmt.Sprintf(" The submitter has taken the challengers deposit of %s ETH",
				PrettyAmount(n.ChallengerDeposit))
		}
		return text

	case KindChallenged:
		return fmt.Sprintf("%s Badge Challenged! %s is headed to court", n.BadgeTitle, tag)

	case KindAppealed:
		return fmt.Sprintf("The ruling on the %s Badge for %s has been appealed.", n.BadgeTitle, tag)

	case KindSubmittedWithMedia:
		return fmt.Sprintf("%s has requested the %s Badge. Verify it meets the criteria for a chance to win %s ETH.\n\nSee the listing here: %s",
			tag, n.BadgeTitle, PrettyAmount(n.RequesterDeposit), n.ListingLink)

	case KindRemovalRequested:
		return fmt.Sprintf("Someone requested to remove an %s Badge from %s with a deposit of %s ETH. If you challenge the removal and win, you will take the deposit.\n\nSee the listing here: %s",
			n.BadgeTitle, tag, PrettyAmount(n.RequesterDeposit), n.ListingLink)

	case KindEvidenceSubmitted:
		return renderEvidence(fmt.Sprintf("New Evidence for %s's %s Badge:", tag, n.BadgeTitle), n)

	case KindRulingAppealable:
		direction := "against"
		if n.RulingAccept {
			direction = "for"
		}
		return fmt.Sprintf("Jurors have ruled %s the request on %s the %s Badge. Think they are wrong? Fund an appeal for the chance to win up to %s ETH.\n\nSee the listing here: %s",
			direction, tag, n.BadgeTitle, PrettyAmount(n.AppealMaxFee), n.ListingLink)
	}

	return ""
}

func renderEvidence(header string, n Notification) string {
	var b strings.Builder
	b.WriteString(header)
	if n.Evidence.Name != "" {
		b.WriteString(" " + n.Evidence.Name)
	}
	if n.Evidence.Description != "" {
		b.WriteString("\n" + n.Evidence.Description)
	}
	if n.Evidence.FileLink != "" {
		b.WriteString("\n\nLink: " + n.Evidence.FileLink)
	}
	b.WriteString("\n\nSee Full Evidence: " + n.ListingLink)
	return b.String()
}
