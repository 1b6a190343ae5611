package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dipnego/config"
	"dipnego/suggest"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides suggest.address, default :50051)")
}

var serveCmd = &cobra.Command{
	Use:   "suggest-server",
	Short: "Serve deal suggestions over gRPC",
	Long: "Runs the DealSuggester service with the built-in policy. Agents using\n" +
		"the template strategy with suggest.address set ask it what to propose.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.Suggest.Address
	}
	if addr == "" {
		addr = ":50051"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := suggest.NewServer(nil)
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down suggestion server")
		srv.GracefulStop()
	}()
	return srv.Serve(addr)
}
