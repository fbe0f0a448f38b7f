package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/HizanLi/learn-textbook-with-ai/internal/cli"
)

func main() {
	command := NewLearnerCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewLearnerCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learner [flags] [options]",
		Short: "learner controls the textbook learner service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdProcess())

	return cmd
}
