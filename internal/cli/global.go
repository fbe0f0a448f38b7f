package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/HizanLi/learn-textbook-with-ai/internal/client"
)

type GlobalOptions struct {
	ServerUrl string
	Username  string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ServerUrl: "http://localhost:8080",
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "s", o.ServerUrl, "Address of the learner API")
	fs.StringVarP(&o.Username, "user", "u", o.Username, "Username owning the projects")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if o.Username == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func (o *GlobalOptions) Client() *client.Client {
	return client.New(o.ServerUrl)
}
