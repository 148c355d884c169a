package report

type Report struct {
	Run      *RunReport      `json:"run,omitempty"`
	Notifier *NotifierReport `json:"notifier,omitempty"`
}
