package notifier

import (
	"github.com/kleros/t2cr-twitter-bot/src/utils/bitly"
	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
	"github.com/kleros/t2cr-twitter-bot/src/utils/ipfs"
	"github.com/kleros/t2cr-twitter-bot/src/utils/model"
	"github.com/kleros/t2cr-twitter-bot/src/utils/monitoring"
	monitor_notifier "github.com/kleros/t2cr-twitter-bot/src/utils/monitoring/notifier"
	"github.com/kleros/t2cr-twitter-bot/src/utils/task"
	"github.com/kleros/t2cr-twitter-bot/src/utils/twitter"
)

type Controller struct {
	*task.Task
}

// NewController builds the whole pipeline. Everything is setup here,
// started upon calling Controller.Start().
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "notifier")

	// SQL database
	db, err := model.NewConnection(self.Ctx, config, "notifier")
	if err != nil {
		return
	}
	threads := model.NewThreadRepository(db)

	// Monitoring
	monitor := monitor_notifier.NewMonitor()
	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Eth client
	ethClient, err := eth.NewClient(&config.Eth)
	if err != nil {
		self.Log.WithError(err).Error("Could not get ETH client")
		return
	}

	// Watched contracts
	registry, err := eth.NewContract(ethClient, config.Contracts.RegistryAddress, eth.RegistryABI)
	if err != nil {
		self.Log.WithError(err).Error("Failed to bind registry contract")
		return
	}
	arbitrator, err := eth.NewContract(ethClient, config.Contracts.ArbitratorAddress, eth.ArbitratorABI)
	if err != nil {
		self.Log.WithError(err).Error("Failed to bind arbitrator contract")
		return
	}

	badges := make([]BadgeContract, 0, len(config.Contracts.Badges))
	for _, badge := range config.Contracts.Badges {
		var handle *eth.Contract
		handle, err = eth.NewContract(ethClient, badge.Address, eth.BadgeABI)
		if err != nil {
			self.Log.WithError(err).WithField("badge", badge.Title).Error("Failed to bind badge contract")
			return
		}
		badges = append(badges, BadgeContract{Handle: handle, Title: badge.Title})
	}

	// External services
	ipfsClient := ipfs.NewClient(&config.Ipfs)
	shortener := bitly.NewClient(&config.Bitly)
	publisher := twitter.NewClient(&config.Twitter)

	// Scans for new events and publishes notifications
	poller := NewPoller(config).
		WithThreadRepository(threads).
		WithChainClient(ethClient).
		WithContracts(registry, arbitrator, badges).
		WithEvidenceResolver(NewResolver(ipfsClient, shortener)).
		WithMediaStore(NewMediaStore(&config.Notifier, ipfsClient)).
		WithPublisher(publisher).
		WithShortener(shortener).
		WithMonitor(monitor)

	self.Task.
		WithSubtask(poller.Task).
		WithSubtask(monitor.Task).
		WithSubtask(server.Task)
	return
}
