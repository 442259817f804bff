// dots is the command-line entry point for the bot facade: "serve" runs the
// JSON line protocol over stdin/stdout, "sgf" replays and summarizes a game
// record, "bench" times the configured search engine against fixed board
// sizes and opening move sequences.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/herohde/dots/pkg/config"
	"github.com/herohde/dots/pkg/engine"
	"github.com/herohde/dots/pkg/engine/proto"
	"github.com/herohde/dots/pkg/engine/sgf"
	"github.com/herohde/dots/pkg/field"
	"github.com/seekerror/logw"
	"github.com/spf13/cobra"
)

var (
	hash    uint
	threads int
	depth   uint
	kind    string
	komi    string

	width  int
	height int
)

func main() {
	root := &cobra.Command{
		Use:   "dots",
		Short: "A dots/points/kropki bot engine",
	}
	root.PersistentFlags().UintVar(&hash, "hash", 0, "minimax transposition table size in MB (0 disables it)")
	root.PersistentFlags().IntVar(&threads, "threads", 1, "search worker threads")
	root.PersistentFlags().UintVar(&depth, "depth", 0, "default search depth/iteration limit (0 means unbounded)")
	root.PersistentFlags().StringVar(&kind, "engine", "uct", "search engine: uct, minimax, or heuristic")
	root.PersistentFlags().StringVar(&komi, "komi", "dynamic", "UCT dynamic komi: none, static, or dynamic")

	root.AddCommand(serveCmd(), sgfCmd(), benchCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig() config.Options {
	cfg := config.Default()
	cfg.Threads = threads

	switch komi {
	case "none":
		cfg.KomiType = config.KomiNone
	case "static":
		cfg.KomiType = config.KomiStatic
	default:
		cfg.KomiType = config.KomiDynamic
	}
	return cfg
}

func parseKind(s string) engine.EngineKind {
	switch s {
	case "minimax":
		return engine.KindMinimax
	case "heuristic":
		return engine.KindHeuristic
	default:
		return engine.KindUCT
	}
}

func newEngine(ctx context.Context) *engine.Engine {
	return engine.New(ctx, "dots", "A. Kowalski",
		engine.WithConfig(buildConfig()),
		engine.WithOptions(engine.Options{Depth: depth, Hash: hash, Engine: parseKind(kind)}),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON line protocol over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e := newEngine(ctx)

			in := engine.ReadStdinLines(ctx)
			driver, out := proto.NewDriver(ctx, e, in)
			go engine.WriteStdoutLines(ctx, out)

			<-driver.Closed()
			return nil
		},
	}
}

func sgfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sgf <file>",
		Short: "Replay and summarize an SGF game record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			record := string(data)

			w, h, err := sgf.ParseSize(record)
			if err != nil {
				return err
			}

			zt := field.NewZobristTable(field.Length(w, h), 0)
			b, err := sgf.Decode(record, zt)
			if err != nil {
				return err
			}

			fmt.Printf("board: %vx%v\n", w, h)
			fmt.Printf("moves: %v\n", b.MovesCount())
			fmt.Printf("score: red=%v black=%v\n", b.Score(field.Red), b.Score(field.Black))
			fmt.Println(b)
			return nil
		},
	}
}

func benchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the configured search engine over a fixed number of opening moves",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e := newEngine(ctx)
			e.Init(ctx, width, height)

			player := field.Red
			for i := 0; i < 10; i++ {
				start := time.Now()
				x, y, ok := e.BestMove(ctx, player, engine.WithComplexity(1))
				elapsed := time.Since(start)

				if !ok {
					break
				}
				if !e.Put(ctx, x, y, player) {
					logw.Exitf(ctx, "bench: illegal move (%v,%v) for %v", x, y, player)
				}

				fmt.Printf("bench,%v,%v,%v,%v,%v\n", i, player, x, y, elapsed.Microseconds())
				player = player.Next()
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 13, "board width")
	cmd.Flags().IntVar(&height, "height", 13, "board height")
	return cmd
}
