package eth

import (
	"context"
	_ "embed"
	"math/big"
	"strings"

	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

var (
	//go:embed abis/t2cr.json
	RegistryABI string

	//go:embed abis/badge.json
	BadgeABI string

	//go:embed abis/kleros.json
	ArbitratorABI string
)

// Event is one decoded log entry
type Event struct {
	// Event name as declared in the ABI
	Name string

	// Checksummed address of the emitting contract
	Contract string

	// Hash of the transaction that emitted the log
	TxHash string

	// Decoded indexed and non-indexed arguments
	Fields map[string]interface{}
}

// Contract binds an ABI to a deployed address for read calls and log fetching
type Contract struct {
	client  *Client
	address common.Address
	abi     abi.ABI
	log     *logrus.Entry
}

func NewContract(client *Client, address string, abiJson string) (self *Contract, err error) {
	self = new(Contract)
	self.client = client
	self.address = common.HexToAddress(address)
	self.log = logger.NewSublogger("contract")

	self.abi, err = abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		return
	}

	return
}

func (self *Contract) Address() string {
	return self.address.Hex()
}

// Call performs a read-only contract call and returns the decoded outputs
func (self *Contract) Call(ctx context.Context, method string, args ...interface{}) (out []interface{}, err error) {
	data, err := self.abi.Pack(method, args...)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, self.client.timeout)
	defer cancel()

	result, err := self.client.ethClient.CallContract(ctx, ethereum.CallMsg{
		To:   &self.address,
		Data: data,
	}, nil)
	if err != nil {
		return
	}

	out, err = self.abi.Unpack(method, result)
	return
}

// FilterLogs fetches and decodes all known events emitted in the block range.
// Logs whose topic is not part of the ABI are skipped.
func (self *Contract) FilterLogs(ctx context.Context, from, to int64) (events []Event, err error) {
	ctx, cancel := context.WithTimeout(ctx, self.client.timeout)
	defer cancel()

	logs, err := self.client.ethClient.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: big.NewInt(from),
		ToBlock:   big.NewInt(to),
		Addresses: []common.Address{self.address},
	})
	if err != nil {
		return
	}

	for _, vLog := range logs {
		event, err := self.decodeLog(vLog)
		if err != nil {
			// Not an event we track
			continue
		}
		events = append(events, event)
	}

	return
}

func (self *Contract) decodeLog(vLog types.Log) (event Event, err error) {
	eventAbi, err := self.abi.EventByID(vLog.Topics[0])
	if err != nil {
		return
	}

	fields := make(map[string]interface{})

	indexed := make([]abi.Argument, 0)
	for _, input := range eventAbi.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	err = abi.ParseTopicsIntoMap(fields, indexed, vLog.Topics[1:])
	if err != nil {
		return
	}

	if len(vLog.Data) > 0 {
		err = self.abi.UnpackIntoMap(fields, eventAbi.Name, vLog.Data)
		if err != nil {
			return
		}
	}

	event = Event{
		Name:     eventAbi.Name,
		Contract: self.address.Hex(),
		TxHash:   vLog.TxHash.Hex(),
		Fields:   fields,
	}
	return
}
