package eth

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Thin wrapper around the JSON-RPC client.
// All numeric values leave this package as decimal strings to avoid precision loss.
type Client struct {
	log       *logrus.Entry
	ethClient *ethclient.Client
	timeout   time.Duration
}

func NewClient(config *config.Eth) (self *Client, err error) {
	self = new(Client)
	self.log = logger.NewSublogger("eth-client")
	self.timeout = config.CallTimeout

	self.ethClient, err = ethclient.Dial(config.RpcUrl)
	if err != nil {
		self.log.WithError(err).Error("Cannot get ETH client")
		return
	}

	return
}

func (self *Client) Height(ctx context.Context) (height int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, self.timeout)
	defer cancel()

	header, err := self.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return
	}

	height = header.Number.Int64()
	return
}

// TransactionInput returns the calldata of a mined transaction
func (self *Client) TransactionInput(ctx context.Context, txHash string) (input []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, self.timeout)
	defer cancel()

	tx, _, err := self.ethClient.TransactionByHash(ctx, common.HexToHash(txHash))
	if err != nil {
		return
	}
	if tx == nil {
		err = errors.New("transaction not found")
		return
	}

	input = tx.Data()
	return
}

// Checksum normalizes an address to its EIP-55 form
func Checksum(address string) string {
	return common.HexToAddress(address).Hex()
}

// BigString converts a decoded ABI value to a decimal string
func BigString(v interface{}) string {
	value, ok := v.(*big.Int)
	if !ok {
		return "0"
	}
	return value.String()
}

// Bytes32Hex converts a decoded bytes32 value to its 0x-prefixed hex form
func Bytes32Hex(v interface{}) string {
	value, ok := v.([32]byte)
	if !ok {
		return ""
	}
	return "0x" + common.Bytes2Hex(value[:])
}

// AddressHex converts a decoded address value to its checksummed hex form
func AddressHex(v interface{}) string {
	value, ok := v.(common.Address)
	if !ok {
		return ""
	}
	return value.Hex()
}

func Uint8Value(v interface{}) uint8 {
	value, ok := v.(uint8)
	if !ok {
		return 0
	}
	return value
}

func BoolValue(v interface{}) bool {
	value, ok := v.(bool)
	if !ok {
		return false
	}
	return value
}

func StringValue(v interface{}) string {
	value, ok := v.(string)
	if !ok {
		return ""
	}
	return value
}

// HexToBytes32 parses a 0x-prefixed 32 byte hex string into the form the ABI encoder expects
func HexToBytes32(s string) (out [32]byte) {
	copy(out[:], common.FromHex(s))
	return
}

// ParseAddress parses a hex address into the form the ABI encoder expects
func ParseAddress(s string) common.Address {
	return common.HexToAddress(s)
}
