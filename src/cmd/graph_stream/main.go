package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/kataras/go-events"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/fx-valuation/src/eventmodels"
	"github.com/jiaming2012/fx-valuation/src/eventpubsub"
	"github.com/jiaming2012/fx-valuation/src/feed"
	"github.com/jiaming2012/fx-valuation/src/instruments"
	"github.com/jiaming2012/fx-valuation/src/pricing"
	"github.com/jiaming2012/fx-valuation/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "graph_stream",
	Short: "Streams venue quotes through a spot -> future -> options valuation graph",
	Long: `Builds a currency derivatives valuation graph from a YAML description and
drives its leaves from a websocket quote feed. Every applied quote recomputes
the touched node and cascades through its derivatives; recomputed marks,
implied vols and greeks are logged as they change.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if err := utils.InitEnvironmentVariables(); err != nil {
			log.Warnf("continuing without .env file: %v", err)
		}

		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			parsed, err := log.ParseLevel(lvl)
			if err != nil {
				log.Fatalf("error parsing LOG_LEVEL: %v", err)
			}
			log.SetLevel(parsed)
		}

		cfg, err := utils.LoadGraphConfig(configPath)
		if err != nil {
			log.Fatalf("error loading config: %v", err)
		}

		eventpubsub.Init()

		spot := instruments.NewSpot(cfg.Spot.TradeSymbol, cfg.Spot.QuoteSymbol)

		future, err := instruments.NewFuture(cfg.Future.TradeSymbol, cfg.Future.QuoteSymbol, spot,
			cfg.Future.DomesticRate, cfg.Future.ForeignRate, cfg.Future.Settlement)
		if err != nil {
			log.Fatalf("error building future: %v", err)
		}

		options := make([]*instruments.Option, 0, len(cfg.Options))
		for _, oc := range cfg.Options {
			option, err := instruments.NewOption(oc.TradeSymbol, oc.QuoteSymbol, future,
				pricing.OptionType(oc.Type), oc.Strike, oc.Expiry, nil)
			if err != nil {
				log.Fatalf("error building option %s: %v", oc.TradeSymbol, err)
			}

			options = append(options, option)
		}

		runner := feed.NewRunner(256)

		if err := eventpubsub.Subscribe(eventpubsub.CalibrationFailedEvent, func(ev *eventmodels.CalibrationFailedEvent) {
			log.WithFields(log.Fields{
				"symbol": ev.Symbol,
				"reason": ev.Reason,
			}).Warn("calibration failed, model values are stale")
		}); err != nil {
			log.Fatalf("error subscribing: %v", err)
		}

		events.On(feed.NewQuoteEvent, func(payload ...interface{}) {
			if len(payload) == 0 {
				return
			}

			ev, ok := payload[0].(*eventmodels.QuoteAppliedEvent)
			if !ok {
				return
			}

			// reads go through the runner so they serialize with feed writes
			runner.Do(func() {
				fields := log.Fields{"symbol": ev.Symbol}

				if mark := future.Mark(); mark != nil {
					fields["future_mark"] = *mark
				}

				if carry := future.Carry(); carry != nil {
					fields["carry"] = *carry
				}

				for _, option := range options {
					if vol := option.ImpliedVol(); vol != nil {
						fields["vol_"+option.TradeSymbol()] = *vol
					}
				}

				log.WithFields(fields).Info("quote applied")
			})
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		wsFeed := feed.NewWebsocketFeed(cfg.Feed.URL)
		go func() {
			if err := wsFeed.Run(ctx); err != nil {
				log.Errorf("websocket feed stopped: %v", err)
				stop()
			}
		}()

		go runner.Start(ctx)

		poll := time.Duration(cfg.Feed.PollSeconds) * time.Second
		go feed.AttachStream(ctx, runner, wsFeed, spot, poll)
		go feed.AttachStream(ctx, runner, wsFeed, future, poll)
		for _, option := range options {
			go feed.AttachStream(ctx, runner, wsFeed, option, poll)
		}

		<-ctx.Done()
		log.Info("shutting down")
	},
}

func main() {
	rootCmd.PersistentFlags().StringP("config", "c", "graph.yaml", "Path to the YAML graph description.")

	cobra.CheckErr(rootCmd.Execute())
}
