// Command ktmap maps an AIGER design onto K-input LUTs and prints the
// mapping report to stdout.
package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airtools/ktmap/aiger"
	"github.com/airtools/ktmap/cut"
	"github.com/airtools/ktmap/techmap"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var k, c uint32
	var mode string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ktmap <aig-file> [flags]",
		Short: "Map an AIGER design onto K-input LUTs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(args[0], k, c, mode)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Uint32VarP(&k, "k", "k", 6, "LUT input count (must be >= 2)")
	cmd.Flags().Uint32VarP(&c, "c", "c", 0, "priority-pruning bound (0 disables pruning)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "a", "mapping goal: a (MinArea) or d (MinDelay); first character significant")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log phase boundaries at debug level")

	return cmd
}

func run(path string, k, c uint32, mode string) error {
	entry := log.WithFields(logrus.Fields{"file": path, "k": k, "c": c, "mode": mode})

	goal, err := parseGoal(mode)
	if err != nil {
		entry.Errorf("bad mode: %s", err)
		return err
	}

	r, err := openAIG(path)
	if err != nil {
		entry.Errorf("open: %s", err)
		return err
	}
	defer r.Close()

	a, err := aiger.Read(r)
	if err != nil {
		entry.Errorf("parse: %s", err)
		return err
	}
	entry.Debug("parse complete")

	eng, err := techmap.NewEngine(a, k, c, goal)
	if err != nil {
		entry.Errorf("configure: %s", err)
		return err
	}
	if err := eng.Run(); err != nil {
		entry.Errorf("enumerate cuts: %s", err)
		return err
	}
	entry.Debug("enumeration complete")

	m := techmap.NewMapper(eng)
	if err := m.Run(); err != nil {
		entry.Errorf("select cover: %s", err)
		return err
	}
	entry.WithFields(logrus.Fields{"area": m.Area(), "depth": m.Depth()}).Debug("mapping complete")

	fmt.Print(m.Report())
	return nil
}

func parseGoal(mode string) (cut.Goal, error) {
	if mode == "" {
		return cut.MinArea, fmt.Errorf("empty mode")
	}
	switch mode[0] {
	case 'a', 'A':
		return cut.MinArea, nil
	case 'd', 'D':
		return cut.MinDelay, nil
	default:
		return cut.MinArea, fmt.Errorf("unknown mode %q, want a or d", mode)
	}
}

// openAIG opens path for reading, transparently decompressing a .gz
// suffix.
func openAIG(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{gr: gr, f: f}, nil
}

type gzipReadCloser struct {
	gr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gr.Read(p) }

func (g *gzipReadCloser) Close() error {
	gerr := g.gr.Close()
	ferr := g.f.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}
