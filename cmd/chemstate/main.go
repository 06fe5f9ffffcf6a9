// Command chemstate reads raw reactant dumps, resolves mixes, and moves dumps
// between the archive blob store and the snapshot store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"chemstate/internal/blob"
	"chemstate/internal/config"
	"chemstate/internal/core"
	"chemstate/internal/diag"
	"chemstate/internal/logging"
	"chemstate/pkg/domain"
)

var exitFunc = os.Exit

const usage = `usage: chemstate [-env file] [-metrics] <command> [flags] [files...]

commands:
  dump       read raw files and print the combined dump
  inspect    summarize ids per reactant kind (yaml or json)
  archive    write the dump to the blob store, or list / restore archives
  save       store the dump as a named snapshot
  load       print a named snapshot as a raw dump
  snapshots  list or delete stored snapshots

Raw input is read from the named files, or from stdin when none are given.
`

// main runs the command-line interface and exits with its status code.
func main() {
	code := cli(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	exitFunc(code)
}

type runner struct {
	cfg     config.Config
	logger  *logging.Logger
	metrics *core.PrometheusMetricsRecorder
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func cli(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("chemstate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = io.WriteString(stderr, usage) }
	envFile := fs.String("env", "", "path to a .env file")
	printMetrics := fs.Bool("metrics", false, "print Prometheus metrics to stderr on exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "logging: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	r := &runner{
		cfg:     cfg,
		logger:  logger,
		metrics: core.NewPrometheusMetricsRecorder(cfg.MetricsNamespace),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
	code := r.dispatch(ctx, rest[0], rest[1:])
	if *printMetrics {
		if err := r.metrics.WriteText(stderr); err != nil {
			_, _ = fmt.Fprintf(stderr, "metrics: %v\n", err)
		}
	}
	return code
}

func (r *runner) dispatch(ctx context.Context, cmd string, args []string) int {
	var err error
	switch cmd {
	case "dump":
		err = r.dump(ctx, args)
	case "inspect":
		err = r.inspect(ctx, args)
	case "archive":
		err = r.archive(ctx, args)
	case "save":
		err = r.save(ctx, args)
	case "load":
		err = r.load(ctx, args)
	case "snapshots":
		err = r.snapshots(ctx, args)
	case "help", "-h", "--help":
		_, _ = io.WriteString(r.stdout, usage)
		return 0
	default:
		_, _ = fmt.Fprintf(r.stderr, "unknown command %q\n", cmd)
		_, _ = io.WriteString(r.stderr, usage)
		return 2
	}
	var usageErr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		_, _ = fmt.Fprintf(r.stderr, "%s: %v\n", cmd, err)
		return 2
	default:
		_, _ = fmt.Fprintf(r.stderr, "%s failed: %v\n", cmd, err)
		return 1
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func (r *runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return fs
}

func (r *runner) reporter() *diag.Reporter {
	if r.cfg.ErrorLog != "" {
		return diag.NewReporter(diag.FileFactory(r.cfg.ErrorLog))
	}
	stderr := r.stderr
	return diag.NewReporter(func() (diag.Sink, error) { return diag.WriterSink{W: stderr}, nil })
}

type serviceNeeds struct {
	blobs bool
	store bool
}

func (r *runner) service(ctx context.Context, needs serviceNeeds) (*core.Service, error) {
	opts := []core.Option{
		core.WithLogger(r.logger),
		core.WithMetricsRecorder(r.metrics),
		core.WithReporter(r.reporter()),
		core.WithCombinePolicy(r.cfg.Policy()),
		core.WithExitFunc(exitFunc),
	}
	if needs.blobs {
		store, err := blob.Open(ctx, r.cfg.BlobOptions())
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		opts = append(opts, core.WithBlobStore(store))
	}
	if needs.store {
		store, err := core.OpenPersistentStore(ctx, core.StorageConfig{
			Driver:      core.StorageDriver(r.cfg.StorageDriver),
			SQLitePath:  r.cfg.SQLitePath,
			PostgresDSN: r.cfg.PostgresDSN,
		})
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		opts = append(opts, core.WithPersistentStore(store))
	}
	return core.NewService(nil, opts...), nil
}

// readInputs reads every path into svc; "-" or no paths means stdin.
func (r *runner) readInputs(ctx context.Context, svc *core.Service, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		if path == "-" {
			if _, err := svc.ReadRaw(ctx, r.stdin); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			continue
		}
		f, err := os.Open(path) // #nosec G304 -- paths are operator supplied
		if err != nil {
			return err
		}
		_, err = svc.ReadRaw(ctx, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}
	return nil
}

type mixTarget struct{ mix, target int }

func parseMixTarget(s string) (mixTarget, error) {
	mixPart, targetPart, found := strings.Cut(s, ":")
	mix, err := strconv.Atoi(strings.TrimSpace(mixPart))
	if err != nil {
		return mixTarget{}, usageError{fmt.Sprintf("bad mix id in %q", s)}
	}
	if !found {
		return mixTarget{mix: mix, target: mix}, nil
	}
	target, err := strconv.Atoi(strings.TrimSpace(targetPart))
	if err != nil {
		return mixTarget{}, usageError{fmt.Sprintf("bad target id in %q", s)}
	}
	return mixTarget{mix: mix, target: target}, nil
}

func (r *runner) dump(ctx context.Context, args []string) error {
	fs := r.flags("dump")
	var mixes []mixTarget
	fs.Func("mix", "materialize `mix[:target]` as a solution (repeatable)", func(v string) error {
		mt, err := parseMixTarget(v)
		if err != nil {
			return err
		}
		mixes = append(mixes, mt)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	svc, err := r.service(ctx, serviceNeeds{})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	if err := r.readInputs(ctx, svc, fs.Args()); err != nil {
		return err
	}
	for _, mt := range mixes {
		if _, err := svc.MaterializeMix(ctx, mt.mix, mt.target); err != nil {
			return err
		}
	}
	return svc.DumpRaw(ctx, r.stdout)
}

type kindSummary struct {
	Kind  domain.Kind `json:"kind" yaml:"kind"`
	Count int         `json:"count" yaml:"count"`
	IDs   []int       `json:"ids" yaml:"ids,flow"`
}

type inspectSummary struct {
	Records  int           `json:"records" yaml:"records"`
	Warnings int           `json:"warnings" yaml:"warnings"`
	Kinds    []kindSummary `json:"kinds" yaml:"kinds"`
}

func summarize(svc *core.Service) inspectSummary {
	out := inspectSummary{Warnings: svc.Reporter().Warnings(), Kinds: []kindSummary{}}
	bin := svc.Bin()
	for _, kind := range domain.Kinds {
		ids := bin.IDs(kind)
		if len(ids) == 0 {
			continue
		}
		out.Records += len(ids)
		out.Kinds = append(out.Kinds, kindSummary{Kind: kind, Count: len(ids), IDs: ids})
	}
	return out
}

func (r *runner) inspect(ctx context.Context, args []string) error {
	fs := r.flags("inspect")
	format := fs.String("format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	if *format != "yaml" && *format != "json" {
		return usageError{fmt.Sprintf("unknown format %q", *format)}
	}
	svc, err := r.service(ctx, serviceNeeds{})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	if err := r.readInputs(ctx, svc, fs.Args()); err != nil {
		return err
	}
	return r.encode(*format, summarize(svc))
}

func (r *runner) encode(format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(r.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(r.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *runner) archive(ctx context.Context, args []string) error {
	fs := r.flags("archive")
	list := fs.Bool("list", false, "list archived dumps instead of writing one")
	dayFlag := fs.String("day", "", "restrict -list to one UTC day (yyyymmdd)")
	restore := fs.String("restore", "", "print the archived dump stored at `key`")
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	svc, err := r.service(ctx, serviceNeeds{blobs: true})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	switch {
	case *list:
		var day time.Time
		if *dayFlag != "" {
			day, err = time.Parse("20060102", *dayFlag)
			if err != nil {
				return usageError{fmt.Sprintf("bad -day %q", *dayFlag)}
			}
		}
		infos, err := svc.ListArchives(ctx, day)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(r.stdout, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "KEY\tBYTES\tRECORDS")
		for _, info := range infos {
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", info.Key, info.Size, blob.Records(info))
		}
		return tw.Flush()
	case *restore != "":
		if _, err := svc.RestoreArchive(ctx, *restore); err != nil {
			return err
		}
		return svc.DumpRaw(ctx, r.stdout)
	}

	if err := r.readInputs(ctx, svc, fs.Args()); err != nil {
		return err
	}
	info, err := svc.ArchiveDump(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.stdout, info.Key)
	return err
}

func (r *runner) snapshotName(name string, args []string) (*flag.FlagSet, *string, error) {
	fs := r.flags(name)
	snap := fs.String("name", "", "snapshot name")
	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError{err.Error()}
	}
	if strings.TrimSpace(*snap) == "" {
		return nil, nil, usageError{"-name is required"}
	}
	return fs, snap, nil
}

func (r *runner) save(ctx context.Context, args []string) error {
	fs, name, err := r.snapshotName("save", args)
	if err != nil {
		return err
	}
	svc, err := r.service(ctx, serviceNeeds{store: true})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	if err := r.readInputs(ctx, svc, fs.Args()); err != nil {
		return err
	}
	return svc.SaveSnapshot(ctx, *name)
}

func (r *runner) load(ctx context.Context, args []string) error {
	_, name, err := r.snapshotName("load", args)
	if err != nil {
		return err
	}
	svc, err := r.service(ctx, serviceNeeds{store: true})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	if err := svc.LoadSnapshot(ctx, *name); err != nil {
		return err
	}
	return svc.DumpRaw(ctx, r.stdout)
}

type snapshotEntry struct {
	Name    string              `json:"name" yaml:"name"`
	Records int                 `json:"records" yaml:"records"`
	Entries map[domain.Kind]int `json:"entries" yaml:"entries"`
}

func (r *runner) snapshots(ctx context.Context, args []string) error {
	fs := r.flags("snapshots")
	format := fs.String("format", "yaml", "output format: yaml or json")
	del := fs.String("delete", "", "delete the snapshot with this `name`")
	if err := fs.Parse(args); err != nil {
		return usageError{err.Error()}
	}
	svc, err := r.service(ctx, serviceNeeds{store: true})
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()
	if *del != "" {
		return svc.DeleteSnapshot(ctx, *del)
	}
	infos, err := svc.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	out := make([]snapshotEntry, 0, len(infos))
	for _, info := range infos {
		entry := snapshotEntry{Name: info.Name, Entries: map[domain.Kind]int{}}
		for kind, n := range info.Entries {
			if n == 0 {
				continue
			}
			entry.Entries[kind] = n
			entry.Records += n
		}
		out = append(out, entry)
	}
	return r.encode(*format, out)
}
