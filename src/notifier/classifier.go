package notifier

// Registry status codes emitted with status change events
const (
	StatusRejected          uint8 = 0
	StatusAccepted          uint8 = 1
	StatusPendingSubmission uint8 = 2
)

// Classify maps a status change event to a notification kind.
// Precedence follows the order of the checks, final status codes win over
// dispute flags, dispute flags win over pending codes.
func Classify(role Role, status uint8, disputed, appealed bool) Kind {
	switch {
	case status == StatusRejected:
		if role == RoleBadge {
			return KindBadgeDenied
		}
		return KindRejected
	case status == StatusAccepted:
		if role == RoleBadge {
			return KindBadgeAwarded
		}
		return KindAccepted
	case disputed && !appealed:
		return KindChallenged
	case disputed && appealed:
		return KindAppealed
	case status == StatusPendingSubmission:
		return KindSubmittedWithMedia
	default:
		return KindRemovalRequested
	}
}
