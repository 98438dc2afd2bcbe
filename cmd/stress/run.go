package stress

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gocql/gocql"

	"github.com/cqlstress/cql-stress/common"
	"github.com/cqlstress/cql-stress/db"
	"github.com/cqlstress/cql-stress/generate"
	"github.com/cqlstress/cql-stress/profile"
	"github.com/cqlstress/cql-stress/run"
	"github.com/cqlstress/cql-stress/settings"
	"github.com/cqlstress/cql-stress/stats"
)

func cmdMain(ctx context.Context, command settings.Command, args []string) error {
	s, err := settings.Parse(command, args)
	if err != nil {
		return err
	}
	s.WriteSettings(os.Stdout)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := db.NewSession(s)
	if err != nil {
		return err
	}
	defer session.Close()

	builder, err := newOperationBuilder(s, session)
	if err != nil {
		return err
	}
	if err := builder.setupSchema(); err != nil {
		return err
	}

	threads := s.Rate.Threads.Threads
	if s.Rate.Threads.Auto {
		threads, err = run.AutoThreads(ctx, s.Rate.Threads.MinThreads, s.Rate.Threads.MaxThreads, builder.build)
		if err != nil {
			return err
		}
	}

	ops, seeds, err := builder.build(int(threads))
	if err != nil {
		return err
	}

	if warmup := s.Command.WarmupCount(); warmup > 0 {
		run.Warmup(ctx, int(threads), warmup, ops, seeds)
		if ctx.Err() != nil {
			return nil
		}
		// Sequential populations restart from the beginning of the range
		// once measurement begins.
		seeds = run.NewSeedSources(s.Population.Distribution, int(threads))
	}

	recorders := make([]*stats.Recorder, threads)
	for i := range recorders {
		recorders[i] = stats.NewRecorder()
	}

	out := io.Writer(os.Stdout)
	if s.Log.File != "" {
		file, err := os.Create(s.Log.File)
		if err != nil {
			return fmt.Errorf("failed to create log file: %s", err)
		}
		defer file.Close()
		out = file
	}

	var hdrLog *stats.HdrLogWriter
	if s.Log.HdrFile != "" {
		hdrLog, err = stats.NewHdrLogWriter(s.Log.HdrFile, Version, time.Now())
		if err != nil {
			return err
		}
		defer hdrLog.Close()
	}

	reporter := stats.NewReporter(recorders, s.Log.Interval, out, hdrLog)
	reporterCtx, stopReporter := context.WithCancel(context.Background())
	reporterDone := make(chan struct{})
	go func() {
		reporter.Run(reporterCtx)
		close(reporterDone)
	}()

	common.LogBannerMsg([]string{fmt.Sprintf("Running %s with %d threads", command, threads)}, 2)

	cfg := run.Config{
		Threads:      int(threads),
		Throttle:     s.Rate.Threads.Throttle,
		FixedRate:    s.Rate.Threads.FixedRate,
		Count:        s.Command.Count,
		Duration:     s.Command.Duration,
		Retries:      s.Errors.Retries,
		IgnoreErrors: s.Errors.Ignore,
	}
	runErr := run.Run(ctx, cfg, ops, seeds, recorders)

	stopReporter()
	<-reporterDone

	if !s.Log.NoSummary {
		reporter.WriteSummary(os.Stdout)
	}

	if runErr != nil {
		return fmt.Errorf("benchmark aborted: %s", runErr)
	}
	if ctx.Err() != nil {
		log.Warnf("benchmark interrupted, results are partial")
	}
	return nil
}

// operationBuilder constructs per worker operations and seed sources, either
// for the standard tables or for a user profile.
type operationBuilder struct {
	settings *settings.Settings
	session  *gocql.Session
	workload *run.Workload
	user     *run.UserWorkload
}

func newOperationBuilder(s *settings.Settings, session *gocql.Session) (*operationBuilder, error) {
	b := &operationBuilder{settings: s, session: session}

	if s.Command.Command == settings.CommandUser {
		p, err := profile.Load(s.Command.Profile)
		if err != nil {
			return nil, err
		}
		b.user = &run.UserWorkload{Session: session, Profile: p}
		return b, nil
	}

	b.workload = &run.Workload{
		Session:  session,
		Keyspace: s.Schema.Keyspace,
		Generator: &generate.RowGenerator{
			KeySize:     generate.DefaultKeySize,
			ColumnCount: int(s.Columns.Count),
			ColumnSize:  s.Columns.Size,
		},
		ColumnCount: s.Columns.Count,
	}
	return b, nil
}

func (b *operationBuilder) setupSchema() error {
	if b.user != nil {
		return db.SetupProfileSchema(b.session, b.user.Profile)
	}
	return db.SetupSchema(b.session, b.settings.Schema, b.settings.Columns.Count)
}

func (b *operationBuilder) build(threads int) ([]run.Operation, []run.SeedSource, error) {
	ops := make([]run.Operation, threads)
	for i := range ops {
		var (
			op  run.Operation
			err error
		)
		if b.user != nil {
			op, err = b.user.NewOperation(b.settings.Command, i)
		} else {
			op, err = b.workload.NewOperation(b.settings.Command.Command, b.settings.Command, i)
		}
		if err != nil {
			return nil, nil, err
		}
		ops[i] = op
	}
	return ops, run.NewSeedSources(b.settings.Population.Distribution, threads), nil
}
