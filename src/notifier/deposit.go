package notifier

import (
	"math/big"
	"strings"
)

// weiDigits is the number of decimal digits in one whole token unit
const weiDigits = 18

func bigFromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// WinnableDeposit computes the deposit a party can win from a disputed request.
// All inputs are decimal wei strings, the division truncates.
func WinnableDeposit(arbitrationCost, stakeMultiplier, divisor, baseDeposit string) string {
	deposit := new(big.Int).Mul(bigFromString(arbitrationCost), bigFromString(stakeMultiplier))
	deposit.Div(deposit, bigFromString(divisor))
	deposit.Add(deposit, bigFromString(baseDeposit))
	return deposit.String()
}

// AppealMaxFee computes the highest fee the winner side can fund for an appeal
func AppealMaxFee(appealCost, winnerStakeMultiplier, divisor string) string {
	fee := new(big.Int).Mul(bigFromString(appealCost), bigFromString(winnerStakeMultiplier))
	fee.Div(fee, bigFromString(divisor))
	return fee.String()
}

// PrettyAmount renders a wei amount as whole units with two fractional
// digits, truncated. Amounts without a fractional part keep a single zero.
func PrettyAmount(wei string) string {
	whole := "0"
	frac := strings.Repeat("0", weiDigits)
	if len(wei) > weiDigits {
		whole = wei[:len(wei)-weiDigits]
		frac = wei[len(wei)-weiDigits:]
	} else {
		frac = strings.Repeat("0", weiDigits-len(wei)) + wei
	}

	if strings.Trim(frac, "0") == "" {
		return whole + ".0"
	}
	return whole + "." + frac[:2]
}
