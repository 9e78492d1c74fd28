package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/internal/operations"
	"github.com/fivetwenty-io/pulse/internal/sink"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

type runOptions struct {
	params         []string
	paramsFile     string
	continueOnFail bool
	outDir         string
	natsURL        string
	natsSubject    string
}

// ParamsFile is the layout accepted by --params-file. Each entry of Items is
// one work item; Defaults apply to every item.
type ParamsFile struct {
	Defaults map[string]interface{}   `yaml:"defaults"`
	Items    []map[string]interface{} `yaml:"items"`
}

// ResultRecord is the printable form of one item result.
type ResultRecord struct {
	Index  int         `json:"index"           yaml:"index"`
	Status string      `json:"status"          yaml:"status"`
	JSON   interface{} `json:"json,omitempty"  yaml:"json,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run RESOURCE OPERATION",
		Short: "Run an operation",
		Long: `Run an operation on a resource for one or more work items.

Parameters given with --param apply to every item. A params file holds a list
of items and optional defaults; values in an item override --param values,
which override the file defaults. Use 'pulse resources' to list operations.`,
		Example: `  pulse run talent getTalent --param talentId=42
  pulse run talent get-talent-list --param returnAll=true -o json
  pulse run talent getTalentReport --param talentId=42 --out-dir reports
  pulse run recruitment createCampaignWithStages --params-file campaigns.yml --continue-on-fail`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "operation parameter as name=value (repeatable)")
	cmd.Flags().StringVarP(&opts.paramsFile, "params-file", "f", "", "YAML file with 'defaults' and 'items'")
	cmd.Flags().BoolVar(&opts.continueOnFail, "continue-on-fail", false, "record item failures and keep going")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "directory for downloaded files")
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", "", "publish results to this NATS server")
	cmd.Flags().StringVar(&opts.natsSubject, "nats-subject", "", "NATS subject for results")

	return cmd
}

func runOperation(cmd *cobra.Command, resourceArg, operation string, opts *runOptions) error {
	format := outputFormat()
	if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	resource := operations.NormalizeResource(resourceArg)

	_, err := operations.Lookup(resource, operation)
	if err != nil {
		return err
	}

	params, err := buildParameters(opts.params, opts.paramsFile)
	if err != nil {
		return err
	}

	natsURL := firstNonEmpty(opts.natsURL, viper.GetString("nats_url"))
	natsSubject := firstNonEmpty(opts.natsSubject, viper.GetString("nats_subject"))

	if natsURL != "" && natsSubject == "" {
		return constants.ErrNATSSubjectEmpty
	}

	logger := newLogger(cmd.ErrOrStderr())

	config, err := buildClientConfig(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	executor := operations.NewExecutor(config,
		operations.WithContinueOnFail(opts.continueOnFail),
		operations.WithLogger(logger),
	)

	results, runErr := executor.Run(ctx, resource, operation, params, params.Len())

	var result *multierror.Error

	if runErr != nil {
		result = multierror.Append(result, runErr)
	}

	if opts.outDir != "" {
		err = writeBinaryResults(opts.outDir, results)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if natsURL != "" && len(results) > 0 {
		err = publishResults(natsURL, natsSubject, config.HTTPTimeout, logger, resource, operation, results)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	err = renderResults(cmd.OutOrStdout(), format, results)
	if err != nil {
		result = multierror.Append(result, err)
	}

	for _, item := range results {
		if item.Failed() {
			result = multierror.Append(result, fmt.Errorf("%w: item %d: %s", constants.ErrRunFailed, item.Index, item.Error))
		}
	}

	return result.ErrorOrNil()
}

// buildParameters merges --param values with the params file.
func buildParameters(flags []string, paramsFile string) (*operations.MapParameters, error) {
	defaults := map[string]interface{}{}

	var items []map[string]interface{}

	if paramsFile != "" {
		loaded, err := loadParamsFile(paramsFile)
		if err != nil {
			return nil, err
		}

		for name, value := range loaded.Defaults {
			defaults[name] = value
		}

		items = loaded.Items
	}

	flagParams, err := parseParamFlags(flags)
	if err != nil {
		return nil, err
	}

	for name, value := range flagParams {
		defaults[name] = value
	}

	return operations.NewMapParameters(defaults, items...), nil
}

// parseParamFlags turns name=value pairs into a map. The value is kept as
// text; operations decode numbers, booleans, lists and JSON objects from it.
func parseParamFlags(flags []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(flags))

	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParamFlag, flag)
		}

		params[name] = value
	}

	return params, nil
}

func loadParamsFile(path string) (*ParamsFile, error) {
	// path comes from the user's own command line
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrParamsFileNotFound, path)
		}

		return nil, fmt.Errorf("reading params file: %w", err)
	}

	var loaded ParamsFile

	err = yaml.Unmarshal(data, &loaded)
	if err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidItem, err)
		}

		return nil, fmt.Errorf("parsing params file: %w", err)
	}

	for i, item := range loaded.Items {
		if item == nil {
			loaded.Items[i] = map[string]interface{}{}
		}
	}

	return &loaded, nil
}

// writeBinaryResults stores downloaded files in dir and records the written
// path in each item's JSON.
func writeBinaryResults(dir string, results []operations.ItemResult) error {
	var result *multierror.Error

	written := map[string]bool{}

	for _, item := range results {
		if item.Binary == nil {
			continue
		}

		if len(written) == 0 {
			err := os.MkdirAll(dir, constants.ConfigDirPerm)
			if err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}

		name, err := binaryFileName(item.Index, item.Binary)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		if written[name] {
			name = "item-" + strconv.Itoa(item.Index) + "-" + name
		}

		path := filepath.Join(dir, name)

		err = os.WriteFile(path, item.Binary.Data, constants.OutputFilePerm)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("writing item %d: %w", item.Index, err))

			continue
		}

		written[name] = true

		if fields, ok := item.JSON.(map[string]interface{}); ok {
			fields["path"] = path
		}
	}

	return result.ErrorOrNil()
}

func binaryFileName(index int, data *pulse.BinaryData) (string, error) {
	name := filepath.Base(filepath.Clean(data.FileName))

	switch name {
	case "", ".", string(filepath.Separator):
		return "item-" + strconv.Itoa(index) + ".bin", nil
	case "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidOutputPath, data.FileName)
	}

	return name, nil
}

func publishResults(url, subject string, timeout time.Duration, logger pulse.Logger, resource pulse.ResourceType, operation string, results []operations.ItemResult) error {
	publisher, err := sink.Connect(url, subject, timeout, logger)
	if err != nil {
		return err
	}

	err = publisher.Publish(resource, operation, results)

	closeErr := publisher.Close()
	if err != nil {
		return err
	}

	return closeErr
}

func toRecords(results []operations.ItemResult) []ResultRecord {
	records := make([]ResultRecord, 0, len(results))

	for _, item := range results {
		record := ResultRecord{Index: item.Index, Status: statusOK, JSON: item.JSON}
		if item.Failed() {
			record.Status = statusFailed
			record.Error = item.Error
		}

		records = append(records, record)
	}

	return records
}

func renderResults(w io.Writer, format string, results []operations.ItemResult) error {
	records := toRecords(results)

	switch format {
	case constants.FormatJSON:
		return renderJSON(w, records)
	case constants.FormatYAML:
		return renderYAML(w, records)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Item", "Status", "Result")

	for _, record := range records {
		summary := record.Error
		if summary == "" {
			encoded, err := json.Marshal(record.JSON)
			if err != nil {
				return fmt.Errorf("encoding item %d: %w", record.Index, err)
			}

			summary = string(encoded)
		}

		_ = table.Append(strconv.Itoa(record.Index), record.Status, truncate(summary))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
