package cmd

import (
	"github.com/kleros/t2cr-twitter-bot/src/notifier"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Watch the registry contracts and tweet every new event",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := notifier.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished notify command")
		applicationCtxCancel()
		return
	},
}
