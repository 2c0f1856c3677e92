package main

import (
	"fmt"
	"io"
	"os"

	solanago "github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krazyTry/swapio-clmm-go/clmm"
	"github.com/krazyTry/swapio-clmm-go/internal/config"
	"github.com/krazyTry/swapio-clmm-go/internal/snapshot"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clmm-quote",
		Short:        "Offline quotes against a swap-io CLMM pool snapshot",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts a quote needs",
		RunE:  runAccounts,
	}
	addPoolFlags(accountsCmd.Flags())
	root.AddCommand(accountsCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap from the snapshot",
		RunE:  runQuote,
	}
	addPoolFlags(quoteCmd.Flags())
	quoteCmd.Flags().String("in", "", "input mint")
	quoteCmd.Flags().Uint64("amount", 0, "amount in base units")
	quoteCmd.Flags().Bool("exact-out", false, "treat amount as the desired output")
	root.AddCommand(quoteCmd)

	return root
}

func addPoolFlags(flags *pflag.FlagSet) {
	flags.String("pool", "", "pool address")
	flags.String("snapshot", "./snapshot.json", "account snapshot JSON path")
	flags.Uint64("epoch", 0, "epoch used for token-2022 transfer fees")
	flags.Int("slippage-bps", 0, "slippage applied to the quoted amount")
	flags.Int("neighborhood-size", clmm.NeighborhoodSize, "initialized tick arrays per direction")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

type session struct {
	cfg      config.Config
	logger   *zap.Logger
	accounts clmm.AccountMap
	amm      *clmm.Adapter
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	accounts, err := snapshot.Load(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	pool, ok := accounts[cfg.Pool]
	if !ok {
		return nil, fmt.Errorf("pool %s not found in %s", cfg.Pool, cfg.Snapshot)
	}

	opts := append(cfg.Options(), clmm.WithLogger(logger))
	amm, err := clmm.FromKeyedAccount(clmm.KeyedAccount{Key: cfg.Pool, Account: pool}, clmm.AmmContext{}, opts...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, accounts: accounts, amm: amm}, nil
}

type accountsOutput struct {
	Pool     string   `json:"pool"`
	Active   bool     `json:"active"`
	Accounts []string `json:"accounts"`
	Missing  []string `json:"missing,omitempty"`
}

func runAccounts(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	out := accountsOutput{Pool: s.cfg.Pool.String(), Active: s.amm.IsActive()}
	for _, address := range s.amm.AccountsToUpdate() {
		out.Accounts = append(out.Accounts, address.String())
		if _, ok := s.accounts[address]; !ok {
			out.Missing = append(out.Missing, address.String())
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

type quoteOutput struct {
	Pool       string `json:"pool"`
	InputMint  string `json:"input_mint"`
	OutputMint string `json:"output_mint"`
	SwapMode   string `json:"swap_mode"`
	InAmount   uint64 `json:"in_amount"`
	OutAmount  uint64 `json:"out_amount"`
	FeeAmount  uint64 `json:"fee_amount"`
	FeeMint    string `json:"fee_mint"`
	FeePct     string `json:"fee_pct"`
	SpotPrice  string `json:"spot_price"`
}

func runQuote(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	inRaw, _ := cmd.Flags().GetString("in")
	amount, _ := cmd.Flags().GetUint64("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")

	inputMint, err := solanago.PublicKeyFromBase58(inRaw)
	if err != nil {
		return fmt.Errorf("invalid input mint %q: %w", inRaw, err)
	}
	mints := s.amm.ReserveMints()
	outputMint := mints[1]
	if inputMint == mints[1] {
		outputMint = mints[0]
	}

	if err := s.amm.Update(s.accounts); err != nil {
		return err
	}

	params := clmm.QuoteParams{
		Amount:     amount,
		InputMint:  inputMint,
		OutputMint: outputMint,
		SwapMode:   clmm.SwapModeExactIn,
	}
	if exactOut {
		params.SwapMode = clmm.SwapModeExactOut
	}
	q, err := s.amm.Quote(params)
	if err != nil {
		return err
	}
	s.logger.Debug("quoted",
		zap.String("pool", s.cfg.Pool.String()),
		zap.Uint64("in", q.InAmount),
		zap.Uint64("out", q.OutAmount),
	)

	return writeJSON(cmd.OutOrStdout(), quoteOutput{
		Pool:       s.cfg.Pool.String(),
		InputMint:  inputMint.String(),
		OutputMint: outputMint.String(),
		SwapMode:   params.SwapMode.String(),
		InAmount:   q.InAmount,
		OutAmount:  q.OutAmount,
		FeeAmount:  q.FeeAmount,
		FeeMint:    q.FeeMint.String(),
		FeePct:     q.FeePct.String(),
		SpotPrice:  s.amm.SpotPrice().String(),
	})
}

func writeJSON(w io.Writer, v any) error {
	raw, err := jsoniter.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
