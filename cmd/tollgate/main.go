// tollgate is a command line tool for inspecting transfer-tax decisions: it
// computes fee breakdowns and dry-runs transfers against a configuration
// file, without a live ledger.
package main

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tollmesh/go-tollmesh/accounts"
	"github.com/tollmesh/go-tollmesh/common/types"
	cfg "github.com/tollmesh/go-tollmesh/config"
	"github.com/tollmesh/go-tollmesh/engine"
	"github.com/tollmesh/go-tollmesh/engine/core"
	"github.com/tollmesh/go-tollmesh/engine/tax"
	"github.com/tollmesh/go-tollmesh/metrics"
)

var (
	version = "dev"

	conf = cfg.DefaultConfig()

	amountFlag string
	classFlag  string
	fromFlag   string
	toFlag     string
	seqFlag    uint64
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tollgate",
		Short:         "inspect transfer-tax and abuse-limit decisions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if conf.ConfigFile != "" {
				if err := cfg.LoadConfig(conf.ConfigFile, viper.New(), &conf); err != nil {
					return err
				}
			}
			if err := conf.Tax.Validate(); err != nil {
				return err
			}
			types.SetAddressHRP(conf.NetworkHRP)
			if conf.CollectMetrics {
				metrics.StartCollectingMetrics(logger(), conf.MetricsPort)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&conf.ConfigFile, "config", "c", conf.ConfigFile,
		"load configuration from file")
	root.PersistentFlags().StringVar(&conf.LogLevel, "log-level", conf.LogLevel,
		"log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&conf.CollectMetrics, "metrics", conf.CollectMetrics,
		"collect engine metrics")
	root.PersistentFlags().IntVar(&conf.MetricsPort, "metrics-port", conf.MetricsPort,
		"metric server port")

	root.AddCommand(feeCmd(), checkCmd(), versionCmd())
	return root
}

func logger() *zap.Logger {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func feeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "compute the fee breakdown for an amount and classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := uint256.FromDecimal(amountFlag)
			if err != nil {
				return fmt.Errorf("parse amount: %w", err)
			}
			class, err := parseClass(classFlag)
			if err != nil {
				return err
			}
			rate := tax.RateFor(conf.Tax, class, false, false)
			fee := tax.FeeFor(amount, rate)
			burn, reward := tax.Split(fee, conf.Tax.BurnBps)
			net := new(uint256.Int).Sub(amount, fee)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "class:  %s\n", class)
			fmt.Fprintf(out, "rate:   %d bps\n", rate)
			fmt.Fprintf(out, "fee:    %s\n", fee.Dec())
			fmt.Fprintf(out, "burn:   %s\n", burn.Dec())
			fmt.Fprintf(out, "reward: %s\n", reward.Dec())
			fmt.Fprintf(out, "net:    %s\n", net.Dec())
			return nil
		},
	}
	cmd.Flags().StringVar(&amountFlag, "amount", "0", "transfer amount")
	cmd.Flags().StringVar(&classFlag, "class", "transfer", "classification: buy, sell or transfer")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "dry-run a transfer against the configured limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := uint256.FromDecimal(amountFlag)
			if err != nil {
				return fmt.Errorf("parse amount: %w", err)
			}
			sender, err := types.StringToAddress(fromFlag)
			if err != nil {
				return fmt.Errorf("parse sender: %w", err)
			}
			recipient, err := types.StringToAddress(toFlag)
			if err != nil {
				return fmt.Errorf("parse recipient: %w", err)
			}
			limits, err := conf.Limits.ToLimits()
			if err != nil {
				return err
			}

			// A throwaway engine seeded with just enough balance: the
			// check concerns policy, not the live ledger.
			store := accounts.NewStore()
			eng, err := engine.New(sender, store, store, engine.WithLogger(logger()))
			if err != nil {
				return err
			}
			if err := eng.ApplyGenesis([]types.Account{{Address: sender, Balance: *amount}}); err != nil {
				return err
			}
			if err := eng.Gov().SetTaxConfig(sender, conf.Tax); err != nil {
				return err
			}
			if err := eng.Gov().SetLimitsConfig(sender, limits); err != nil {
				return err
			}
			if err := eng.Gov().OpenTrading(sender); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok, reason := eng.CanTransfer(sender, recipient, amount, seqFlag); !ok {
				fmt.Fprintf(out, "denied: %v\n", reason)
				return nil
			}
			fee, err := eng.FeeFor(sender, recipient, amount)
			if err != nil {
				return err
			}
			net := new(uint256.Int).Sub(amount, fee)
			fmt.Fprintf(out, "allowed: fee %s, recipient receives %s\n", fee.Dec(), net.Dec())
			return nil
		},
	}
	cmd.Flags().StringVar(&amountFlag, "amount", "0", "transfer amount")
	cmd.Flags().StringVar(&fromFlag, "from", "", "sender address")
	cmd.Flags().StringVar(&toFlag, "to", "", "recipient address")
	cmd.Flags().Uint64Var(&seqFlag, "seq", 1, "sequence number of the transfer")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func parseClass(value string) (core.Class, error) {
	switch value {
	case "buy":
		return core.Buy, nil
	case "sell":
		return core.Sell, nil
	case "transfer":
		return core.Transfer, nil
	default:
		return core.Transfer, fmt.Errorf("unknown class %q", value)
	}
}
