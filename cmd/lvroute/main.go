// Command lvroute edits route graphs over HTTP and plans routes through them.
//
//	lvroute serve                       HTTP editing API (see internal/server)
//	lvroute plan -graph depot.json      plan a saved document
//	lvroute demo -rows 5 -cols 5 -targets 6
//
// Configuration comes from the environment and an optional .env file; see
// internal/config for the variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/katalvlaran/lvroute/builder"
	"github.com/katalvlaran/lvroute/codec"
	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/internal/config"
	"github.com/katalvlaran/lvroute/internal/server"
	"github.com/katalvlaran/lvroute/planner"
	"github.com/katalvlaran/lvroute/store"
	"github.com/katalvlaran/lvroute/tsp"
)

const usage = `usage: lvroute <command> [flags]

commands:
  serve   run the HTTP editing and planning API
  plan    plan a route through a saved graph document
  demo    build a grid with random targets and plan it
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "lvroute:", err)
		stop()
		os.Exit(1)
	}
}

var errUsage = errors.New("unknown command")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	switch args[0] {
	case "serve":
		return serve(ctx, cfg, logger)
	case "plan":
		return planCmd(ctx, cfg, logger, args[1:], stdout)
	case "demo":
		return demoCmd(ctx, cfg, logger, args[1:], stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: %q", errUsage, args[0])
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	repo, err := store.Open(ctx, cfg.StoreOptions(logger))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	solver, err := cfg.Solver()
	if err != nil {
		_ = repo.Close()
		return err
	}

	srv, err := server.New(server.Config{
		Addr:   cfg.Addr,
		Repo:   repo,
		Graph:  cfg.Graph,
		Solver: solver,
		Logger: logger,
	})
	if err != nil {
		_ = repo.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}
	if _, err = srv.Start(); err != nil {
		_ = repo.Close()
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-ctx.Done()
	logger.Info("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}
	logger.Info("server stopped")

	return nil
}

// planFlags are shared by plan and demo.
type planFlags struct {
	algo   string
	oracle string
	seed   int64
	every  uint64
}

func (f *planFlags) register(fs *flag.FlagSet, cfg config.Config) {
	fs.StringVar(&f.algo, "algo", string(planner.AlgoExact), "planning mode: exact or approx")
	fs.StringVar(&f.oracle, "oracle", cfg.Oracle, "tour oracle for approx: two-opt, genetic or held-karp")
	fs.Int64Var(&f.seed, "seed", cfg.OracleSeed, "oracle seed")
	fs.Uint64Var(&f.every, "progress", 100000, "log progress every N permutations (0 disables)")
}

func (f *planFlags) plan(ctx context.Context, logger *slog.Logger, s codec.Session, stdout io.Writer) error {
	algo, err := planner.ParseAlgorithm(f.algo)
	if err != nil {
		return err
	}
	solver, err := tsp.New(f.oracle, tsp.WithSeed(f.seed))
	if err != nil {
		return err
	}

	p := planner.New(
		planner.WithRequireTargets(),
		planner.WithSolver(solver),
		planner.WithLogger(logger),
		planner.WithProgress(planner.NewLogProgress(logger, f.every, 2*time.Second)),
	)
	res, err := p.Plan(ctx, planner.NewRequest(s.Graph, s.Start, s.End), algo)
	if err != nil {
		return err
	}

	return printResult(stdout, s.Graph, res)
}

func planCmd(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	var (
		file = fs.String("graph", "", "graph document (JSON); empty loads -name from the store")
		name = fs.String("name", cfg.Graph, "stored graph name")
		pf   planFlags
	)
	pf.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var doc *codec.Document
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		s, err := codec.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("%s: %w", *file, err)
		}
		return pf.plan(ctx, logger, s, stdout)
	}

	repo, err := store.Open(ctx, cfg.StoreOptions(logger))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()
	if doc, err = repo.Load(ctx, *name); err != nil {
		return err
	}
	s, err := codec.Decode(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", *name, err)
	}

	return pf.plan(ctx, logger, s, stdout)
}

func demoCmd(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	var (
		rows    = fs.Int("rows", 4, "grid rows")
		cols    = fs.Int("cols", 4, "grid columns")
		spacing = fs.Float64("spacing", 10, "grid spacing")
		targets = fs.Int("targets", 5, "random targets to attach")
		gseed   = fs.Int64("graph-seed", 1, "seed for target placement")
		save    = fs.String("save", "", "save the generated graph under this name")
		pf      planFlags
	)
	pf.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := builder.BuildGraph(
		[]builder.BuilderOption{builder.WithSeed(*gseed)},
		builder.Grid(*rows, *cols, *spacing),
		builder.RandomTargets(*targets),
	)
	if err != nil {
		return err
	}
	// opposite grid corners; grid nodes are numbered row-major from 0
	s := codec.Session{Graph: g, Start: 0, End: core.NodeID(*rows**cols - 1)}

	if *save != "" {
		if err = saveSession(ctx, cfg, logger, *save, s); err != nil {
			return err
		}
	}

	return pf.plan(ctx, logger, s, stdout)
}

func saveSession(ctx context.Context, cfg config.Config, logger *slog.Logger, name string, s codec.Session) error {
	repo, err := store.Open(ctx, cfg.StoreOptions(logger))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()

	doc, err := codec.Encode(s)
	if err != nil {
		return err
	}

	return repo.Save(ctx, name, doc)
}

func printResult(w io.Writer, g *core.Graph, res planner.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "status:    %s\n", res.Status)
	fmt.Fprintf(&b, "algorithm: %s\n", res.Algorithm)
	if res.Status == planner.StatusOK {
		fmt.Fprintf(&b, "length:    %.3f\n", res.Length)

		labels := make([]string, 0, len(res.Order))
		for _, id := range res.Order {
			if t, err := g.Target(id); err == nil {
				labels = append(labels, t.Label)
			}
		}
		fmt.Fprintf(&b, "order:     %s\n", strings.Join(labels, " -> "))

		nodes := make([]string, 0, len(res.Path))
		for _, id := range res.Path {
			nodes = append(nodes, fmt.Sprint(int(id)))
		}
		fmt.Fprintf(&b, "path:      %s\n", strings.Join(nodes, " "))
	}
	fmt.Fprintf(&b, "evaluated: %d\n", res.Evaluated)

	_, err := io.WriteString(w, b.String())

	return err
}
