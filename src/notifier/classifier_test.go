package notifier

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestClassifierTestSuite(t *testing.T) {
	suite.Run(t, new(ClassifierTestSuite))
}

type ClassifierTestSuite struct {
	suite.Suite
}

func (s *ClassifierTestSuite) TestRegistryPrecedence() {
	cases := []struct {
		status             uint8
		disputed, appealed bool
		expected           Kind
	}{
		{StatusRejected, false, false, KindRejected},
		{StatusRejected, true, false, KindRejected},
		{StatusRejected, true, true, KindRejected},
		{StatusAccepted, false, false, KindAccepted},
		{StatusAccepted, true, true, KindAccepted},
		{StatusPendingSubmission, true, false, KindChallenged},
		{StatusPendingSubmission, true, true, KindAppealed},
		{StatusPendingSubmission, false, false, KindSubmittedWithMedia},
		{3, false, false, KindRemovalRequested},
		{3, true, false, KindChallenged},
		{3, true, true, KindAppealed},
	}

	for _, c := range cases {
		require.Equal(s.T(), c.expected, Classify(RoleRegistry, c.status, c.disputed, c.appealed),
			"status=%d disputed=%v appealed=%v", c.status, c.disputed, c.appealed)
	}
}

func (s *ClassifierTestSuite) TestBadgeFinalStatuses() {
	require.Equal(s.T(), KindBadgeDenied, Classify(RoleBadge, StatusRejected, false, false))
	require.Equal(s.T(), KindBadgeAwarded, Classify(RoleBadge, StatusAccepted, true, false))

	// Non-final badge statuses classify like registry ones
	require.Equal(s.T(), KindChallenged, Classify(RoleBadge, 3, true, false))
	require.Equal(s.T(), KindSubmittedWithMedia, Classify(RoleBadge, StatusPendingSubmission, false, false))
	require.Equal(s.T(), KindRemovalRequested, Classify(RoleBadge, 3, false, false))
}
