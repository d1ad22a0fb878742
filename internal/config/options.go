package config

import (
	"strings"

	"github.com/projectdiscovery/goflags"
)

// BlobInputPrefix marks an input that lives in the configured blob container
const BlobInputPrefix = "az://"

// Options holds the command line options of one invocation
type Options struct {
	Inputs            goflags.StringSlice
	InputList         string
	TCP               bool
	UDP               bool
	Ports             goflags.StringSlice
	WebPorts          bool
	Output            bool
	OutputDir         string
	FilterExpressions goflags.StringSlice
	JSON              bool
	Upload            bool
	Silent            bool
	Verbose           bool
	Debug             bool
}

// ParseOptions parses command line arguments.
// Positional arguments are treated as scan report paths.
func ParseOptions(args []string) (*Options, error) {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("portgroup reads nmap XML reports and groups the hosts by open port.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Inputs, "input", "i", nil, "scan report(s) to read (local path or az://<blob>)", goflags.StringSliceOptions),
		flagSet.StringVarP(&options.InputList, "list", "l", "", "file containing scan report paths, one per line"),
	)

	flagSet.CreateGroup("filter", "Filter",
		flagSet.BoolVarP(&options.TCP, "tcp", "t", false, "restrict results to tcp ports"),
		flagSet.BoolVarP(&options.UDP, "udp", "u", false, "restrict results to udp ports"),
		flagSet.StringSliceVarP(&options.Ports, "port", "p", nil, "only report these ports (repeatable, comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringSliceVarP(&options.FilterExpressions, "filter-expression", "f", nil, `xpath evaluated against each port, e.g. 'service[@name="https"]' or '*[@ostype="Windows"]'`, goflags.StringSliceOptions),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&options.WebPorts, "web-ports", "w", false, "print http/https services as URLs and stop"),
		flagSet.BoolVarP(&options.Output, "output", "o", false, "write PORT_PROTO.txt files containing the list of hosts (will overwrite)"),
		flagSet.StringVarP(&options.OutputDir, "output-dir", "od", ".", "directory for the files written by -output"),
		flagSet.BoolVar(&options.JSON, "json", false, "print results as JSON lines"),
		flagSet.BoolVar(&options.Upload, "upload", false, "upload written files to Azure Blob Storage"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Silent, "silent", false, "only print results"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "verbose output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "debug output"),
	)

	if err := flagSet.Parse(args...); err != nil {
		return nil, err
	}

	options.Inputs = append(options.Inputs, flagSet.CommandLine.Args()...)
	return options, nil
}

// NeedsBlob reports whether any option requires blob storage access
func (o *Options) NeedsBlob() bool {
	if o.Upload {
		return true
	}
	for _, in := range o.Inputs {
		if strings.HasPrefix(in, BlobInputPrefix) {
			return true
		}
	}
	return false
}

// LogLevel returns the level implied by the verbosity flags, or fallback
func (o *Options) LogLevel(fallback string) string {
	switch {
	case o.Debug:
		return "debug"
	case o.Verbose:
		return "verbose"
	case o.Silent:
		return "silent"
	default:
		return fallback
	}
}
