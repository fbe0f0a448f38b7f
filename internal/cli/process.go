package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type ProcessOptions struct {
	GlobalOptions
}

func DefaultProcessOptions() *ProcessOptions {
	return &ProcessOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdProcess() *cobra.Command {
	o := DefaultProcessOptions()
	cmd := &cobra.Command{
		Use:   "process PROJECT_ID",
		Short: "Run the document pipeline on a project and wait for the outcome.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ProcessOptions) Run(ctx context.Context, args []string) error {
	reply, err := o.Client().ProcessProject(ctx, o.Username, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("status: %s\n", reply.Status)
	if reply.Reason != "" {
		fmt.Printf("reason: %s\n", reply.Reason)
	}
	fmt.Printf("message: %s\n", reply.Message)
	if reply.Project != nil && reply.Project.CollectionName != nil {
		fmt.Printf("collection: %s\n", *reply.Project.CollectionName)
	}
	return nil
}
