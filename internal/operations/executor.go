package operations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/pulse/internal/client"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// ItemResult is the outcome of one work item.
type ItemResult struct {
	Index  int               `json:"index"            yaml:"index"`
	JSON   interface{}       `json:"json,omitempty"   yaml:"json,omitempty"`
	Binary *pulse.BinaryData `json:"binary,omitempty" yaml:"binary,omitempty"`
	Error  string            `json:"error,omitempty"  yaml:"error,omitempty"`
}

// Failed reports whether the item captured an error.
func (r ItemResult) Failed() bool {
	return r.Error != ""
}

// Executor runs an operation over a batch of work items.
type Executor struct {
	config         *pulse.Config
	continueOnFail bool
	logger         pulse.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithContinueOnFail captures item errors in the results instead of aborting.
func WithContinueOnFail(continueOnFail bool) ExecutorOption {
	return func(e *Executor) {
		e.continueOnFail = continueOnFail
	}
}

// WithLogger sets the logger.
func WithLogger(logger pulse.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an executor bound to config's credentials.
func NewExecutor(config *pulse.Config, opts ...ExecutorOption) *Executor {
	executor := &Executor{config: config}

	for _, opt := range opts {
		opt(executor)
	}

	if executor.logger == nil && config != nil {
		executor.logger = config.Logger
	}

	return executor
}

// Run executes operation on itemCount items in order. A fresh client is
// built for the run, so the login happens at most once per run. Without
// continue-on-fail the first failing item aborts the run; the results of the
// items before it are returned with the error.
func (e *Executor) Run(ctx context.Context, resource pulse.ResourceType, operation string, params Parameters, itemCount int) ([]ItemResult, error) {
	if itemCount < 1 {
		itemCount = 1
	}

	runID := uuid.New().String()

	_, err := Lookup(resource, operation)
	if err != nil {
		return nil, err
	}

	root, err := client.New(e.config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	resourceClient := client.NewResourceClient(root, resource)

	e.log("Running operation", map[string]interface{}{
		"run_id":    runID,
		"resource":  string(resource),
		"operation": operation,
		"items":     itemCount,
	})

	results := make([]ItemResult, 0, itemCount)

	for itemIndex := range itemCount {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, fmt.Errorf("item %d: %w", itemIndex, ctxErr)
		}

		value, err := Dispatch(ctx, resource, operation, params, itemIndex, resourceClient)
		if err != nil {
			if !e.continueOnFail {
				e.warn("Item failed, aborting run", runID, itemIndex, err)

				return results, fmt.Errorf("item %d: %w", itemIndex, err)
			}

			e.warn("Item failed", runID, itemIndex, err)
			results = append(results, ItemResult{Index: itemIndex, Error: err.Error()})

			continue
		}

		results = append(results, toItemResult(itemIndex, value))
	}

	return results, nil
}

func toItemResult(itemIndex int, value interface{}) ItemResult {
	result := ItemResult{Index: itemIndex}

	switch typed := value.(type) {
	case *pulse.BinaryData:
		result.Binary = typed
		result.JSON = map[string]interface{}{
			"fileName": typed.FileName,
			"mimeType": typed.MimeType,
			"fileSize": typed.FileSize,
		}
	case bool:
		result.JSON = map[string]interface{}{"success": typed}
	default:
		result.JSON = value
	}

	return result
}

func (e *Executor) log(msg string, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.Info(msg, fields)
	}
}

func (e *Executor) warn(msg, runID string, itemIndex int, err error) {
	if e.logger != nil {
		e.logger.Warn(msg, map[string]interface{}{
			"run_id": runID,
			"item":   itemIndex,
			"error":  err.Error(),
		})
	}
}
