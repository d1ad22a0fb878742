package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/allsafeASM/portgroup/internal/azure"
	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/config"
	"github.com/allsafeASM/portgroup/internal/extractor"
	"github.com/allsafeASM/portgroup/internal/logging"
	"github.com/allsafeASM/portgroup/internal/models"
	"github.com/allsafeASM/portgroup/internal/output"
	"github.com/allsafeASM/portgroup/internal/parser"
	"github.com/allsafeASM/portgroup/internal/utils"
	"github.com/allsafeASM/portgroup/internal/validation"
	"github.com/projectdiscovery/gologger"
)

// blobStore is the part of the blob client the application uses
type blobStore interface {
	OpenReport(ctx context.Context, input string) (io.ReadCloser, error)
	ListReports(ctx context.Context, prefix string) ([]string, error)
	UploadFiles(ctx context.Context, files []string) ([]string, error)
}

// Application runs one invocation of the tool
type Application struct {
	config     *config.Config
	options    *config.Options
	validator  *validation.Validator
	extractor  *extractor.Extractor
	printer    *output.Printer
	blobClient blobStore

	errorClassifier *common.ErrorClassifier
}

// Summary describes what one run did
type Summary struct {
	Parsed      int
	Diagnostics []models.Diagnostic
	Keys        int
	Files       []string
	Uploaded    []string
}

// NewApplication validates the configuration and options and prepares the
// extractor. Filter syntax errors are returned here, before any input is read.
func NewApplication(cfg *config.Config, opts *config.Options, stdout io.Writer) (*Application, error) {
	app := &Application{
		config:    cfg,
		options:   opts,
		validator: validation.NewValidator(),
		printer:   output.NewPrinter(stdout, opts.JSON),

		errorClassifier: common.NewErrorClassifier(),
	}

	if err := app.initialize(); err != nil {
		return nil, err
	}

	return app, nil
}

// initialize sets up all application components
func (app *Application) initialize() error {
	if err := app.config.Validate(false); err != nil {
		return common.NewConfigurationError(configField(err), err.Error())
	}

	// Initialize logging
	logging.NewLogger().SetupLogging(app.options.LogLevel(app.config.App.LogLevel))

	if err := app.loadInputList(); err != nil {
		return err
	}

	if err := app.validator.ValidateOptions(app.options); err != nil {
		return err
	}

	if ignored := app.validator.WebModeIgnored(app.options); len(ignored) > 0 {
		gologger.Warning().Msgf("Ignoring %s in web-ports mode", strings.Join(ignored, ", "))
	}

	if err := app.initializeExtractor(); err != nil {
		return err
	}

	if app.options.NeedsBlob() {
		if err := app.initializeBlobClient(); err != nil {
			return err
		}
	}

	return nil
}

// loadInputList appends the entries of the -list file to the inputs
func (app *Application) loadInputList() error {
	if app.options.InputList == "" {
		return nil
	}

	if err := app.validator.ValidateInputList(app.options.InputList); err != nil {
		return err
	}

	lines, err := utils.ReadLinesFromFile(app.options.InputList)
	if err != nil {
		return common.NewValidationError("list", err.Error())
	}

	gologger.Debug().Msgf("Loaded %d inputs from %s", len(lines), app.options.InputList)
	app.options.Inputs = append(app.options.Inputs, lines...)
	return nil
}

// initializeExtractor compiles filters and builds the extraction criteria
func (app *Application) initializeExtractor() error {
	filters, err := extractor.CompileFilters(app.options.FilterExpressions)
	if err != nil {
		return err
	}

	criteria := extractor.Criteria{
		Protocols: extractor.NewSelection(app.options.TCP, app.options.UDP),
		Ports:     app.validator.NormalizePorts(app.options.Ports),
		Filters:   filters,
	}
	gologger.Debug().Msgf("Extraction criteria: protocols=%s ports=%v filters=%d",
		criteria.Protocols, criteria.Ports, len(criteria.Filters))

	app.extractor = extractor.New(criteria)
	return nil
}

// initializeBlobClient creates the Blob Storage client for az:// inputs and uploads
func (app *Application) initializeBlobClient() error {
	if err := app.config.Validate(true); err != nil {
		return common.NewConfigurationError(configField(err), err.Error())
	}

	client, err := azure.NewBlobStorageClient(
		app.config.Azure.BlobStorageConnectionString,
		app.config.Azure.BlobContainerName,
		app.config.Azure.BlobPrefix,
	)
	if err != nil {
		return common.NewConfigurationError("BLOB_STORAGE_CONNECTION_STRING", err.Error())
	}

	app.blobClient = client
	return nil
}

// Run processes every input in order and writes the results.
// Inputs that cannot be read or parsed are reported and skipped.
func (app *Application) Run(ctx context.Context) (*Summary, error) {
	inputs, err := app.resolveInputs(ctx)
	if err != nil {
		return nil, err
	}

	if app.options.WebPorts {
		return app.runWebPorts(ctx, inputs)
	}
	return app.runPortMap(ctx, inputs)
}

// runPortMap groups hosts by "<port>/<protocol>" across all inputs
func (app *Application) runPortMap(ctx context.Context, inputs []string) (*Summary, error) {
	summary := &Summary{}
	discovered := models.NewPortMap()

	summary.Diagnostics = parser.Walk(inputs, app.opener(ctx), func(doc *models.ScanDocument) {
		summary.Parsed++
		discovered.Merge(app.extractor.Extract(doc))
	})
	if err := app.reportDiagnostics(summary.Diagnostics); err != nil {
		return summary, err
	}
	summary.Keys = discovered.Len()

	if err := app.printer.PrintPortMap(discovered); err != nil {
		return summary, common.NewIOError("failed to print results", err)
	}

	if app.options.Output {
		files, err := output.WritePortFiles(app.options.OutputDir, discovered, app.config.App.FileMode)
		summary.Files = files
		if err != nil {
			return summary, err
		}
		if err := app.printer.PrintWrittenFiles(files); err != nil {
			return summary, common.NewIOError("failed to print written files", err)
		}
	}

	if app.options.Upload && len(summary.Files) > 0 {
		uploaded, err := app.upload(ctx, summary.Files)
		summary.Uploaded = uploaded
		if err != nil {
			return summary, err
		}
	}

	gologger.Info().Msgf("Parsed %d reports (%d skipped), found %d port keys", summary.Parsed, len(summary.Diagnostics), summary.Keys)
	return summary, nil
}

// runWebPorts prints http and https services as URLs.
// A later report replaces the hosts of a port found in an earlier one.
func (app *Application) runWebPorts(ctx context.Context, inputs []string) (*Summary, error) {
	summary := &Summary{}
	httpPorts := models.NewPortMap()
	httpsPorts := models.NewPortMap()

	summary.Diagnostics = parser.Walk(inputs, app.opener(ctx), func(doc *models.ScanDocument) {
		summary.Parsed++
		docHTTP, docHTTPS := extractor.ExtractWebServices(doc)
		httpPorts.Update(docHTTP)
		httpsPorts.Update(docHTTPS)
	})
	if err := app.reportDiagnostics(summary.Diagnostics); err != nil {
		return summary, err
	}
	summary.Keys = httpPorts.Len() + httpsPorts.Len()

	if err := app.printer.PrintURLs(httpPorts, httpsPorts); err != nil {
		return summary, common.NewIOError("failed to print urls", err)
	}

	gologger.Info().Msgf("Parsed %d reports (%d skipped), found %d web ports", summary.Parsed, len(summary.Diagnostics), summary.Keys)
	return summary, nil
}

// resolveInputs expands az:// folder inputs (ending in "/") into the
// reports stored under them
func (app *Application) resolveInputs(ctx context.Context) ([]string, error) {
	var inputs []string

	for _, in := range app.options.Inputs {
		if !isBlobInput(in) || !strings.HasSuffix(in, "/") {
			inputs = append(inputs, in)
			continue
		}

		names, err := app.blobClient.ListReports(ctx, azure.InputBlobName(in))
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			gologger.Warning().Msgf("No reports found under %s", in)
		}
		for _, name := range names {
			inputs = append(inputs, config.BlobInputPrefix+name)
		}
	}

	return inputs, nil
}

// opener returns the parser's open function, reading az:// inputs from the
// blob container and everything else from disk
func (app *Application) opener(ctx context.Context) parser.OpenFunc {
	return func(name string) (io.ReadCloser, error) {
		if isBlobInput(name) {
			return app.blobClient.OpenReport(ctx, name)
		}
		return parser.OpenFile(name)
	}
}

// upload sends the written files to the blob container
func (app *Application) upload(ctx context.Context, files []string) ([]string, error) {
	timeout := time.Duration(app.config.App.UploadTimeout) * time.Second
	uploadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return app.blobClient.UploadFiles(uploadCtx, files)
}

// reportDiagnostics logs the inputs that were skipped. A diagnostic that
// is not recoverable (e.g. a storage outage) aborts the run before any
// partial result is written.
func (app *Application) reportDiagnostics(diagnostics []models.Diagnostic) error {
	var fatal error
	for _, d := range diagnostics {
		appErr := app.errorClassifier.ClassifyError(d.Err)
		gologger.Error().Msgf("Error in %s (%s): %v", d.Source, appErr.Type, d.Err)

		if fatal == nil && !app.errorClassifier.IsRecoverableError(d.Err) {
			fatal = fmt.Errorf("cannot continue after %s: %w", d.Source, d.Err)
		}
	}
	return fatal
}

func isBlobInput(name string) bool {
	return strings.HasPrefix(name, config.BlobInputPrefix)
}

func configField(err error) string {
	if configErr, ok := err.(*config.ConfigError); ok {
		return configErr.Field
	}
	return ""
}

// String summarises the run for logs
func (s *Summary) String() string {
	return fmt.Sprintf("parsed=%d skipped=%d keys=%d files=%d uploaded=%d",
		s.Parsed, len(s.Diagnostics), s.Keys, len(s.Files), len(s.Uploaded))
}
