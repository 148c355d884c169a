package notifier

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestDepositTestSuite(t *testing.T) {
	suite.Run(t, new(DepositTestSuite))
}

type DepositTestSuite struct {
	suite.Suite
}

func (s *DepositTestSuite) TestWinnableDeposit() {
	require.Equal(s.T(), "1050", WinnableDeposit("1000", "2", "2", "50"))
}

func (s *DepositTestSuite) TestWinnableDepositTruncates() {
	require.Equal(s.T(), "1500", WinnableDeposit("1000", "3", "2", "0"))
	require.Equal(s.T(), "1501", WinnableDeposit("1001", "3", "2", "0"))
}

func (s *DepositTestSuite) TestWinnableDepositLargeValues() {
	require.Equal(s.T(),
		"1500000000000000000",
		WinnableDeposit("1000000000000000000", "10000", "10000", "500000000000000000"))
}

func (s *DepositTestSuite) TestAppealMaxFee() {
	require.Equal(s.T(), "1500", AppealMaxFee("1000", "3", "2"))
	require.Equal(s.T(), "2000", AppealMaxFee("1000", "20000", "10000"))
}

func (s *DepositTestSuite) TestPrettyAmount() {
	require.Equal(s.T(), "1.50", PrettyAmount("1500000000000000000"))
	require.Equal(s.T(), "1.0", PrettyAmount("1000000000000000000"))
	require.Equal(s.T(), "0.10", PrettyAmount("100000000000000000"))
	require.Equal(s.T(), "0.00", PrettyAmount("1"))
	require.Equal(s.T(), "0.0", PrettyAmount("0"))
	require.Equal(s.T(), "12.34", PrettyAmount("12345000000000000000"))
}
