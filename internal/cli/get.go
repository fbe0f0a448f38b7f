package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const jsonFormat = "json"

type GetOptions struct {
	GlobalOptions

	Output string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get [PROJECT_ID]",
		Short: "Display one or all projects of a user.",
		Args:  cobra.MaximumNArgs(1),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format. Only 'json' is supported.")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Output != "" && o.Output != jsonFormat {
		return fmt.Errorf("output format must be %q", jsonFormat)
	}
	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c := o.Client()

	var response interface{}
	var err error
	if len(args) == 1 {
		response, err = c.GetProject(ctx, o.Username, args[0])
	} else {
		response, err = c.ListProjects(ctx, o.Username)
	}
	if err != nil {
		return err
	}

	if o.Output == jsonFormat {
		return printJSON(response)
	}
	return printProjectTable(response)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printProjectTable(v interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tUPLOADED")
	forEachProject(v, func(id, name, status, uploaded string) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, name, status, uploaded)
	})
	return w.Flush()
}
