// apigen resolves API documentation metadata for a PHP project and prints it
// in TOON format.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thinkbox/apigen/internal/config"
	"github.com/thinkbox/apigen/internal/discover"
	"github.com/thinkbox/apigen/internal/element"
	"github.com/thinkbox/apigen/internal/group"
	"github.com/thinkbox/apigen/internal/index"
	"github.com/thinkbox/apigen/internal/lang"
	"github.com/thinkbox/apigen/internal/names"
	"github.com/thinkbox/apigen/internal/parse"
	"github.com/thinkbox/apigen/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

type options struct {
	configPath string
	cachePath  string
	mainOnly   bool
	groupBy    string
	filter     string
	verbose    bool
}

// configFlags maps CLI flags onto configuration keys.
var configFlags = map[string]string{
	"include-builtins":   "include_builtins",
	"include-deprecated": "include_deprecated",
	"include-internal":   "include_internal",
	"main":               "main",
	"max-file-size":      "max_file_size",
	"exclude":            "exclude",
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var opts options

	cmd := &cobra.Command{
		Use:           "apigen [flags] [root]",
		Short:         "Resolve API documentation metadata for a PHP project",
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return generate(cmd.Context(), v, root, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("apigen {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default <root>/apigen.yaml)")
	f.Bool("include-builtins", false, "document PHP built-in classes")
	f.Bool("include-deprecated", true, "document deprecated elements")
	f.Bool("include-internal", false, "document elements tagged with an empty @internal")
	f.String("main", "", "name prefix of the main project's elements")
	f.Int("max-file-size", config.DefaultMaxFileSize, "skip files larger than this many bytes")
	f.StringSlice("exclude", nil, "gitignore-style patterns of paths to skip")
	f.StringVar(&opts.cachePath, "cache", "", "cache output in this file and reuse it while no source file is newer")
	f.BoolVar(&opts.mainOnly, "main-only", false, "only print elements of the main project")
	f.StringVar(&opts.groupBy, "group-by", string(group.ByPackage), "group elements by package or namespace")
	f.StringVar(&opts.filter, "filter", "", "only print elements whose name contains this text")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")

	for flag, key := range configFlags {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

func generate(ctx context.Context, v *viper.Viper, root string, opts options, stdout, stderr io.Writer) error {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "apigen"})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	by, err := group.ParseBy(opts.groupBy)
	if err != nil {
		return err
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := config.Load(v, root, opts.configPath)
	if err != nil {
		return err
	}

	files, err := discover.Files(root, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no PHP files found")
	}

	if opts.cachePath != "" && cacheIsFresh(opts.cachePath, root, files, v.ConfigFileUsed()) {
		data, err := os.ReadFile(opts.cachePath)
		if err == nil {
			logger.Debug("using cached output", "path", opts.cachePath)
			_, _ = stdout.Write(data)
			return nil
		}
	}

	files = filterBySize(root, files, cfg.MaxFileSize, logger)
	if len(files) == 0 {
		return errors.New("no PHP files found (all exceeded size limit)")
	}

	results := parseFilesConcurrent(ctx, root, files, logger)
	if len(results) == 0 {
		return errors.New("no files could be parsed")
	}

	idx := index.Build(results)
	canon := names.New()
	reg := element.NewRegistry(cfg, canon)
	usedBy := index.CrossReference(reg, idx)

	elems := group.Documented(reg.Elements(idx.Symbols), opts.mainOnly)
	if opts.filter != "" {
		elems = group.FilterByName(elems, opts.filter)
	}

	groups := group.Build(elems, by)
	logger.Debug("resolved",
		"files", len(results),
		"symbols", len(idx.Symbols),
		"documented", len(elems),
		"packages", len(canon.Packages()),
		"namespaces", len(canon.Namespaces()))

	doc := &toon.Document{
		Project: filepath.Base(root),
		Root:    filepath.Base(root),
		GroupBy: by,
		Groups:  groups,
		UsedBy:  edgesBetween(usedBy, elems),

		Extensions: extensionsOf(idx, elems),
	}
	output := toon.Encode(doc)

	if opts.cachePath != "" {
		if err := os.WriteFile(opts.cachePath, []byte(output+"\n"), 0o644); err != nil {
			logger.Warn("failed to write cache", "path", opts.cachePath, "err", err)
		}
	}

	_, _ = fmt.Fprintln(stdout, output)
	return nil
}

// cacheIsFresh reports whether the cache file is newer than every source file
// and the config file, if any.
func cacheIsFresh(cachePath, root string, files []discover.FileEntry, configFile string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := make([]string, 0, len(files)+1)
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	if configFile != "" {
		paths = append(paths, configFile)
	}

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

// extensionsOf lists the extension modules that own a documented element.
func extensionsOf(idx *index.Index, elems []*element.Element) []string {
	used := make(map[string]struct{})
	for _, e := range elems {
		if ext := e.Extension(); ext != nil {
			used[ext.Name()] = struct{}{}
		}
	}

	var out []string
	for _, ext := range idx.Extensions() {
		if _, ok := used[ext.Name]; ok {
			out = append(out, ext.Name)
		}
	}
	return out
}

// edgesBetween keeps the edges whose ends are both in elems.
func edgesBetween(edges []index.Edge, elems []*element.Element) []index.Edge {
	kept := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		kept[e.Name()] = struct{}{}
	}

	var out []index.Edge
	for _, edge := range edges {
		_, srcOK := kept[edge.Source]
		_, tgtOK := kept[edge.Target]
		if srcOK && tgtOK {
			out = append(out, edge)
		}
	}
	return out
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, logger *log.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			logger.Warn("skipped oversize file", "path", f.Path, "limit", maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func parseFilesConcurrent(ctx context.Context, root string, files []discover.FileEntry, logger *log.Logger) []*parse.Result {
	type result struct {
		index int
		res   *parse.Result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parser := lang.PHP.NewParser()

			for idx := range work {
				f := files[idx]
				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					logger.Warn("failed to read", "path", f.Path, "err", err)
					continue
				}

				res, err := parse.ExtractSymbols(ctx, parser, source, f.Path)
				if err != nil {
					logger.Warn("failed to parse", "path", f.Path, "err", err)
					continue
				}
				results <- result{index: idx, res: res}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]*parse.Result, len(files))
	for r := range results {
		indexed[r.index] = r.res
	}

	var parsed []*parse.Result
	for _, r := range indexed {
		if r != nil {
			parsed = append(parsed, r)
		}
	}
	return parsed
}
