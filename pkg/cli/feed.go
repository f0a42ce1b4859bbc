package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ncn914491/folio/pkg/cli/config"
	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
	"github.com/ncn914491/folio/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFeed() *cli.Command {
	var (
		feedCfg config.Feed
		siteCfg config.Site
		strict  bool
	)

	flags := append(feedCfg.Flags(), siteCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "strict",
		Usage:       "Exit with an error when no feed source succeeded",
		Destination: &strict,
	})

	return &cli.Command{
		Name:  "feed",
		Usage: "Load the project feed once and print it as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := siteCfg.Apply(c.IsSet, &feedCfg, nil); err != nil {
				return err
			}
			if err := feedCfg.Validate(); err != nil {
				return err
			}

			secondary, err := feedCfg.NewSecondary()
			if err != nil {
				return err
			}

			loader := usecase.NewFeedLoader(
				types.AccountID(feedCfg.Account),
				feedCfg.NewPrimary(),
				secondary,
				usecase.WithFetchTimeout(feedCfg.Timeout),
			)
			defer loader.Close()

			source := loader.Load(ctx)
			if strict && source == model.FeedSourceNone {
				return goerr.New("no feed source succeeded", goerr.V("account", feedCfg.Account))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(loader.Feed()); err != nil {
				return goerr.Wrap(err, "failed to write feed")
			}
			return nil
		},
	}
}
