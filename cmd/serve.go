package cmd

import (
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gtkrshnaaa/cevia/envconfig"
	"github.com/gtkrshnaaa/cevia/server"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the cevia server",
		Args:    cobra.NoArgs,
		RunE:    serveHandler,
	}

	cmd.Flags().String("model-prefix", "", "Path prefix for the model files (default from CEVIA_MODELS)")

	return cmd
}

func serveHandler(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("model-prefix")
	if prefix == "" {
		prefix = defaultModelPrefix()
	}

	m, err := loadModel(prefix)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", envconfig.Host)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, ln, m)
}
