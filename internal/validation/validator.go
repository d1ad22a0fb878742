package validation

import (
	"fmt"
	"strings"

	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/config"
	fileutil "github.com/projectdiscovery/utils/file"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

// Validator provides all validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateInputList checks that the -list file exists before it is read
func (v *Validator) ValidateInputList(path string) error {
	if !fileutil.FileExists(path) {
		return common.NewValidationError("list", fmt.Sprintf("input list %s does not exist or is not a file", path))
	}
	return nil
}

// ValidateOptions validates the command line options.
// Inputs are validated after list files have been expanded.
func (v *Validator) ValidateOptions(opts *config.Options) error {
	if err := v.ValidateInputs(opts.Inputs); err != nil {
		return err
	}

	for i, port := range opts.Ports {
		if err := v.ValidatePort(port); err != nil {
			return common.NewValidationError("port", fmt.Sprintf("invalid port at index %d: %v", i, err))
		}
	}

	if opts.Upload && !opts.Output {
		return common.NewValidationError("upload", "-upload requires -output")
	}

	if opts.Output && strings.TrimSpace(opts.OutputDir) == "" {
		return common.NewValidationError("output-dir", "output directory cannot be empty")
	}

	return nil
}

// ValidateInputs checks that at least one input was given
func (v *Validator) ValidateInputs(inputs []string) error {
	if len(inputs) == 0 {
		return common.NewValidationError("input", "at least one scan report is required")
	}

	for i, in := range inputs {
		if strings.TrimSpace(in) == "" {
			return common.NewValidationError("input", fmt.Sprintf("empty input at index %d", i))
		}
		// flag parsing stops at the first report path
		if strings.HasPrefix(in, "-") {
			return common.NewValidationError("input", fmt.Sprintf("input %q looks like a flag: flags must precede report paths", in))
		}
		if in == config.BlobInputPrefix {
			return common.NewValidationError("input", fmt.Sprintf("blob input at index %d has no name", i))
		}
	}

	return nil
}

// ValidatePort checks a requested port id.
// Ids are matched as strings, so non-numeric ids are accepted.
func (v *Validator) ValidatePort(port string) error {
	if port == "" {
		return fmt.Errorf("port is empty")
	}
	if strings.ContainsAny(port, "/ \t") {
		return fmt.Errorf("port %q must not contain a protocol or whitespace", port)
	}
	return nil
}

// NormalizePorts trims and de-duplicates requested ports, keeping order
func (v *Validator) NormalizePorts(ports []string) []string {
	trimmed := make([]string, 0, len(ports))
	for _, p := range ports {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return sliceutil.Dedupe(trimmed)
}

// WebModeIgnored lists the options that have no effect in web-ports mode
func (v *Validator) WebModeIgnored(opts *config.Options) []string {
	if !opts.WebPorts {
		return nil
	}

	var ignored []string
	if opts.TCP {
		ignored = append(ignored, "-tcp")
	}
	if opts.UDP {
		ignored = append(ignored, "-udp")
	}
	if len(opts.Ports) > 0 {
		ignored = append(ignored, "-port")
	}
	if len(opts.FilterExpressions) > 0 {
		ignored = append(ignored, "-filter-expression")
	}
	if opts.Output {
		ignored = append(ignored, "-output")
	}
	if opts.Upload {
		ignored = append(ignored, "-upload")
	}
	if opts.JSON {
		ignored = append(ignored, "-json")
	}
	return ignored
}
