package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/peercat/peercat-go"
	"github.com/peercat/peercat-go/version"
	"github.com/peercat/peercat-go/wallet"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var models []peercat.Model
			err := a.call(cmd.Context(), "models", func(ctx context.Context, c *peercat.Client) (err error) {
				models, err = c.Models(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(models, func(t *uitable.Table) {
				t.AddRow("ID", "NAME", "PROVIDER", "MAX PROMPT", "PRICE")
				for _, m := range models {
					t.AddRow(m.ID, m.Name, m.Provider, m.MaxPromptLength, formatUSD(m.PriceUSD))
				}
			})
		},
	}
}

func newPricesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Show current prices in USD and SOL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var prices *peercat.PriceResponse
			err := a.call(cmd.Context(), "prices", func(ctx context.Context, c *peercat.Client) (err error) {
				prices, err = c.Prices(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(prices, func(t *uitable.Table) {
				t.AddRow("SOL price:", formatUSD(prices.SOLPrice))
				t.AddRow("Slippage:", fmt.Sprintf("%.1f%%", prices.SlippageTolerance*100))
				t.AddRow("Treasury:", prices.Treasury)
				t.AddRow("Updated:", formatTime(&prices.UpdatedAt))
				t.AddRow("")
				t.AddRow("MODEL", "USD", "SOL", "SOL (WITH SLIPPAGE)")
				for _, m := range prices.Models {
					t.AddRow(m.Model, formatUSD(m.PriceUSD), fmt.Sprintf("%.6f", m.PriceSOL), fmt.Sprintf("%.6f", m.PriceSOLWithSlippage))
				}
			})
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account credit balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var balance *peercat.Balance
			err := a.call(cmd.Context(), "balance", func(ctx context.Context, c *peercat.Client) (err error) {
				balance, err = c.Balance(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(balance, keyValues(
				"Credits", formatUSD(balance.Credits),
				"Deposited", formatUSD(balance.TotalDeposited),
				"Spent", formatUSD(balance.TotalSpent),
				"Withdrawn", formatUSD(balance.TotalWithdrawn),
				"Generated", balance.TotalGenerated,
			))
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit, offset int
		all           bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show usage history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []peercat.HistoryItem
			var result any
			err := a.call(cmd.Context(), "history", func(ctx context.Context, c *peercat.Client) error {
				if all {
					var err error
					items, err = c.AllHistory(ctx, limit)
					result = items
					return err
				}
				page, err := c.History(ctx, peercat.HistoryParams{Limit: limit, Offset: offset})
				if err != nil {
					return err
				}
				items, result = page.Items, page
				return nil
			})
			if err != nil {
				return err
			}
			return a.printer().print(result, func(t *uitable.Table) {
				t.AddRow("ID", "ENDPOINT", "MODEL", "CREDITS", "STATUS", "CREATED")
				for _, it := range items {
					t.AddRow(it.ID, it.Endpoint, it.Model, formatUSD(it.CreditsUsed), it.Status, formatTime(&it.CreatedAt))
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, fmt.Sprintf("page size, at most %d", peercat.MaxHistoryLimit))
	cmd.Flags().IntVar(&offset, "offset", 0, "items to skip")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		model string
		demo  bool
	)
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate an image from a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := peercat.GenerateParams{
				Prompt: strings.Join(args, " "),
				Model:  model,
				Mode:   peercat.ModeProduction,
			}
			if demo {
				params.Mode = peercat.ModeDemo
			}

			var result *peercat.GenerateResult
			err := a.call(cmd.Context(), "generate", func(ctx context.Context, c *peercat.Client) (err error) {
				result, err = c.Generate(ctx, params)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(result, keyValues(
				"ID", result.ID,
				"Image", result.ImageURL,
				"Model", result.Model,
				"Mode", result.Mode,
				"Charged", formatUSD(result.Usage.CreditsUsed),
				"Balance", formatUSD(result.Usage.BalanceRemaining),
			))
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model ID (default: server default)")
	cmd.Flags().BoolVar(&demo, "demo", false, "return a free placeholder image")
	return cmd
}

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var keys []peercat.APIKey
			err := a.call(cmd.Context(), "keys list", func(ctx context.Context, c *peercat.Client) (err error) {
				keys, err = c.ListKeys(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(keys, func(t *uitable.Table) {
				t.AddRow("ID", "NAME", "PREFIX", "ENV", "TIER", "LAST USED", "REVOKED")
				for _, k := range keys {
					t.AddRow(k.ID, k.Name, k.KeyPrefix, k.Environment, k.RateLimitTier, formatTime(k.LastUsedAt), k.Revoked)
				}
			})
		},
	}

	var name, secretEnv string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an API key signed by your wallet",
		Long: "Create an API key. The wallet secret key (base58) is read from the\n" +
			"environment variable named by --wallet-env and never passed as a flag.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv(secretEnv)
			if secret == "" {
				return fmt.Errorf("wallet secret key not set: export %s", secretEnv)
			}
			kp, err := wallet.FromBase58(secret)
			if err != nil {
				return fmt.Errorf("load wallet: %w", err)
			}
			params := kp.NewCreateKeyParams(name, wallet.KeyCreationMessage(time.Now()))

			var created *peercat.CreateKeyResult
			err = a.call(cmd.Context(), "keys create", func(ctx context.Context, c *peercat.Client) (err error) {
				created, err = c.CreateKey(ctx, params)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(created, keyValues(
				"ID", created.ID,
				"Key", created.Key,
				"Environment", created.Environment,
				"Warning", created.Warning,
			))
		},
	}
	create.Flags().StringVar(&name, "name", "", "display name for the key")
	create.Flags().StringVar(&secretEnv, "wallet-env", "PEERCAT_WALLET_SECRET", "environment variable holding the wallet secret key")

	revoke := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.call(cmd.Context(), "keys revoke", func(ctx context.Context, c *peercat.Client) error {
				return c.RevokeKey(ctx, args[0])
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.cfg.Stdout, "Revoked %s\n", args[0])
			return err
		},
	}

	rename := &cobra.Command{
		Use:   "rename <key-id> <name>",
		Short: "Rename an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.call(cmd.Context(), "keys rename", func(ctx context.Context, c *peercat.Client) error {
				return c.RenameKey(ctx, args[0], args[1])
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.cfg.Stdout, "Renamed %s to %q\n", args[0], args[1])
			return err
		},
	}

	cmd.AddCommand(list, create, revoke, rename)
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var model, callbackURL string
	cmd := &cobra.Command{
		Use:   "submit <prompt>",
		Short: "Submit a prompt for on-chain payment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := peercat.SubmitPromptParams{
				Prompt:      strings.Join(args, " "),
				Model:       model,
				CallbackURL: callbackURL,
			}

			var sub *peercat.PromptSubmission
			err := a.call(cmd.Context(), "submit", func(ctx context.Context, c *peercat.Client) (err error) {
				sub, err = c.SubmitPrompt(ctx, params)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(sub, keyValues(
				"Submission", sub.SubmissionID,
				"Pay to", sub.PaymentAddress,
				"Amount", fmt.Sprintf("%.9f SOL (%d lamports, %s)", sub.RequiredAmount.SOL, sub.RequiredAmount.Lamports, formatUSD(sub.RequiredAmount.USD)),
				"Memo", sub.Memo,
				"Model", sub.Model,
				"Expires", formatTime(&sub.ExpiresAt),
			))
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model ID (default: server default)")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL notified when the generation finishes")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		wait        bool
		waitTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status <tx-signature>",
		Short: "Show the status of an on-chain generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status *peercat.OnChainGenerationStatus
			err := a.call(cmd.Context(), "status", func(ctx context.Context, c *peercat.Client) (err error) {
				if !wait {
					status, err = c.OnChainStatus(ctx, args[0])
					return err
				}
				status, err = c.WaitForOnChain(ctx, args[0],
					peercat.WithWaitTimeout(waitTimeout),
					peercat.WithStatusCallback(func(s *peercat.OnChainGenerationStatus) {
						a.logger.Info("on-chain status", "tx", s.TxSignature, "status", s.Status)
					}),
				)
				return err
			})
			if err != nil {
				return err
			}
			return a.printer().print(status, keyValues(
				"Transaction", status.TxSignature,
				"Status", status.Status,
				"Model", status.Model,
				"Image", status.ImageURL,
				"Completed", formatTime(status.CompletedAt),
				"Error", status.Error,
			))
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "poll until the generation finishes")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 5*time.Minute, "how long --wait polls")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if a.v.GetString("output") == formatTable {
				_, err := fmt.Fprintln(a.cfg.Stdout, info.Text())
				return err
			}
			return a.printer().print(info, nil)
		},
	}
}
