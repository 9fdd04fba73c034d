package main

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

// ErrRegression is returned by the compare command when at least one
// workload regressed significantly.
var ErrRegression = errors.New("significant performance regressions detected")

// Options is the root of the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Verbose bool `short:"v" long:"verbose" description:"log table resize events"`

	Run     RunCmd     `command:"run" description:"Run workloads and write a JSON summary"`
	Compare CompareCmd `command:"compare" description:"Compare two JSON summaries"`
}

// Run parses args and executes the selected command.
func Run(args []string) error {
	opts := &Options{}
	opts.Run.opts = opts

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			return nil
		}
		fmt.Printf("Error: %v\n", err)
		return err
	}
	return nil
}

func (o *Options) logger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !o.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
