package monitor_notifier

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Errors
	ContractFetchFailures  *prometheus.Desc
	ChainCallFailures      *prometheus.Desc
	EvidenceFetchFailures  *prometheus.Desc
	MediaFetchFailures     *prometheus.Desc
	PublishFailures        *prometheus.Desc
	DuplicateTweets        *prometheus.Desc
	CheckpointSaveFailures *prometheus.Desc
	ThreadLookupFailures   *prometheus.Desc
	LinkShorteningFailures *prometheus.Desc

	// State
	LastScannedBlock *prometheus.Desc
	EventsSeen       *prometheus.Desc
	EventsSkipped    *prometheus.Desc
	TweetsPosted     *prometheus.Desc
	MediaUploaded    *prometheus.Desc
	CyclesFinished   *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, nil),

		// Errors
		ContractFetchFailures:  prometheus.NewDesc("contract_fetch_failures", "", nil, nil),
		ChainCallFailures:      prometheus.NewDesc("chain_call_failures", "", nil, nil),
		EvidenceFetchFailures:  prometheus.NewDesc("evidence_fetch_failures", "", nil, nil),
		MediaFetchFailures:     prometheus.NewDesc("media_fetch_failures", "", nil, nil),
		PublishFailures:        prometheus.NewDesc("publish_failures", "", nil, nil),
		DuplicateTweets:        prometheus.NewDesc("duplicate_tweets", "", nil, nil),
		CheckpointSaveFailures: prometheus.NewDesc("checkpoint_save_failures", "", nil, nil),
		ThreadLookupFailures:   prometheus.NewDesc("thread_lookup_failures", "", nil, nil),
		LinkShorteningFailures: prometheus.NewDesc("link_shortening_failures", "", nil, nil),

		// State
		LastScannedBlock: prometheus.NewDesc("last_scanned_block", "", nil, nil),
		EventsSeen:       prometheus.NewDesc("events_seen", "", nil, nil),
		EventsSkipped:    prometheus.NewDesc("events_skipped", "", nil, nil),
		TweetsPosted:     prometheus.NewDesc("tweets_posted", "", nil, nil),
		MediaUploaded:    prometheus.NewDesc("media_uploaded", "", nil, nil),
		CyclesFinished:   prometheus.NewDesc("cycles_finished", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.UpForSeconds

	// Errors
	ch <- self.ContractFetchFailures
	ch <- self.ChainCallFailures
	ch <- self.EvidenceFetchFailures
	ch <- self.MediaFetchFailures
	ch <- self.PublishFailures
	ch <- self.DuplicateTweets
	ch <- self.CheckpointSaveFailures
	ch <- self.ThreadLookupFailures
	ch <- self.LinkShorteningFailures

	// State
	ch <- self.LastScannedBlock
	ch <- self.EventsSeen
	ch <- self.EventsSkipped
	ch <- self.TweetsPosted
	ch <- self.MediaUploaded
	ch <- self.CyclesFinished
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	self.monitor.Report.Run.Fill()

	// Run
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.UpForSeconds.Load()))

	// Errors
	ch <- prometheus.MustNewConstMetric(self.ContractFetchFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.ContractFetchFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.ChainCallFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.ChainCallFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.EvidenceFetchFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.EvidenceFetchFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.MediaFetchFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.MediaFetchFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.PublishFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.PublishFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.DuplicateTweets, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.DuplicateTweets.Load()))
	ch <- prometheus.MustNewConstMetric(self.CheckpointSaveFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.CheckpointSaveFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.ThreadLookupFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.ThreadLookupFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.LinkShorteningFailures, prometheus.CounterValue, float64(self.monitor.Report.Notifier.Errors.LinkShorteningFailures.Load()))

	// State
	ch <- prometheus.MustNewConstMetric(self.LastScannedBlock, prometheus.GaugeValue, float64(self.monitor.Report.Notifier.State.LastScannedBlock.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsSeen, prometheus.CounterValue, float64(self.monitor.Report.Notifier.State.EventsSeen.Load()))
	ch <- prometheus.MustNewConstMetric(self.EventsSkipped, prometheus.CounterValue, float64(self.monitor.Report.Notifier.State.EventsSkipped.Load()))
	ch <- prometheus.MustNewConstMetric(self.TweetsPosted, prometheus.CounterValue, float64(self.monitor.Report.Notifier.State.TweetsPosted.Load()))
	ch <- prometheus.MustNewConstMetric(self.MediaUploaded, prometheus.CounterValue, float64(self.monitor.Report.Notifier.State.MediaUploaded.Load()))
	ch <- prometheus.MustNewConstMetric(self.CyclesFinished, prometheus.CounterValue, float64(self.monitor.Report.Notifier.State.CyclesFinished.Load()))
}
