// Package delivery hands the finished report to the user: through the
// clipboard when any strategy in the fallback chain succeeds, otherwise by
// printing to standard output with a visible warning.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/clipdiff/clipdiff/internal/execshell"
)

const (
	sinkLoggerMissingMessageConstant     = "delivery logger not configured"
	sinkOutputMissingMessageConstant     = "delivery output writer not configured"
	clipboardStrategyNameConstant        = "clipboard-library"
	clipboardUnsupportedMessageConstant  = "clipboard library reported no usable backend"
	strategyFailedLogMessageConstant     = "delivery strategy failed"
	deliverySucceededLogMessageConstant  = "report delivered"
	fallbackWarningLogMessageConstant    = "clipboard delivery unavailable, printing report to standard output"
	logFieldStrategyConstant             = "strategy"
	logFieldReportBytesConstant          = "report_bytes"
	platformDarwinConstant               = "darwin"
	platformWindowsConstant              = "windows"
	xclipSelectionFlagConstant           = "-selection"
	xclipClipboardSelectionConstant      = "clipboard"
	xselClipboardFlagConstant            = "--clipboard"
	xselInputFlagConstant                = "--input"
)

// ErrLoggerNotConfigured indicates the sink was built without a logger.
var ErrLoggerNotConfigured = errors.New(sinkLoggerMissingMessageConstant)

// ErrOutputNotConfigured indicates the sink was built without an output writer.
var ErrOutputNotConfigured = errors.New(sinkOutputMissingMessageConstant)

// Strategy is one way of placing report text on the clipboard.
type Strategy interface {
	Name() string
	Deliver(executionContext context.Context, reportText string) error
}

// Result reports how delivery concluded.
type Result struct {
	// Delivered is true when some clipboard strategy accepted the report.
	Delivered bool
	// StrategyName identifies the successful strategy.
	StrategyName string
	// PrintedFallback is true when the report went to standard output instead.
	PrintedFallback bool
}

// ClipboardLibraryStrategy writes through the cross-platform clipboard library.
type ClipboardLibraryStrategy struct{}

// Name identifies the strategy in logs.
func (ClipboardLibraryStrategy) Name() string {
	return clipboardStrategyNameConstant
}

// Deliver writes the report to the system clipboard.
func (ClipboardLibraryStrategy) Deliver(_ context.Context, reportText string) error {
	if clipboard.Unsupported {
		return errors.New(clipboardUnsupportedMessageConstant)
	}
	return clipboard.WriteAll(reportText)
}

// UtilityExecutor abstracts the execshell surface for platform utilities.
type UtilityExecutor interface {
	ExecuteClipboardUtility(executionContext context.Context, utility execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PlatformUtilityStrategy pipes the report into a platform clipboard command.
type PlatformUtilityStrategy struct {
	executor  UtilityExecutor
	utility   execshell.CommandName
	arguments []string
}

// NewPlatformUtilityStrategy constructs a strategy around one utility.
func NewPlatformUtilityStrategy(executor UtilityExecutor, utility execshell.CommandName, arguments []string) PlatformUtilityStrategy {
	return PlatformUtilityStrategy{executor: executor, utility: utility, arguments: arguments}
}

// Name identifies the utility in logs.
func (strategy PlatformUtilityStrategy) Name() string {
	return string(strategy.utility)
}

// Deliver feeds the report to the utility's standard input.
func (strategy PlatformUtilityStrategy) Deliver(executionContext context.Context, reportText string) error {
	_, executionError := strategy.executor.ExecuteClipboardUtility(executionContext, strategy.utility, execshell.CommandDetails{
		Arguments:     strategy.arguments,
		StandardInput: []byte(reportText),
	})
	return executionError
}

// PlatformUtilityStrategies selects the utilities worth trying on the given
// platform, in preference order.
func PlatformUtilityStrategies(executor UtilityExecutor, platform string) []Strategy {
	switch platform {
	case platformDarwinConstant:
		return []Strategy{NewPlatformUtilityStrategy(executor, execshell.CommandPbcopy, nil)}
	case platformWindowsConstant:
		return []Strategy{NewPlatformUtilityStrategy(executor, execshell.CommandClip, nil)}
	default:
		return []Strategy{
			NewPlatformUtilityStrategy(executor, execshell.CommandXclip, []string{xclipSelectionFlagConstant, xclipClipboardSelectionConstant}),
			NewPlatformUtilityStrategy(executor, execshell.CommandXsel, []string{xselClipboardFlagConstant, xselInputFlagConstant}),
		}
	}
}

// DefaultStrategies builds the full fallback chain for the current platform.
func DefaultStrategies(executor UtilityExecutor) []Strategy {
	return append([]Strategy{ClipboardLibraryStrategy{}}, PlatformUtilityStrategies(executor, runtime.GOOS)...)
}

// Sink walks the strategy chain and falls back to printing.
type Sink struct {
	logger     *zap.Logger
	strategies []Strategy
	output     io.Writer
}

// NewSink validates dependencies and constructs a Sink.
func NewSink(logger *zap.Logger, strategies []Strategy, output io.Writer) (*Sink, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if output == nil {
		return nil, ErrOutputNotConfigured
	}
	return &Sink{logger: logger, strategies: strategies, output: output}, nil
}

// Deliver attempts each strategy in order; when all fail the report is
// printed to the configured output and the degraded result is reported.
func (sink *Sink) Deliver(executionContext context.Context, reportText string) Result {
	for _, strategy := range sink.strategies {
		deliveryError := strategy.Deliver(executionContext, reportText)
		if deliveryError == nil {
			sink.logger.Info(
				deliverySucceededLogMessageConstant,
				zap.String(logFieldStrategyConstant, strategy.Name()),
				zap.Int(logFieldReportBytesConstant, len(reportText)),
			)
			return Result{Delivered: true, StrategyName: strategy.Name()}
		}

		sink.logger.Debug(
			strategyFailedLogMessageConstant,
			zap.String(logFieldStrategyConstant, strategy.Name()),
			zap.Error(deliveryError),
		)
	}

	sink.logger.Warn(fallbackWarningLogMessageConstant)
	fmt.Fprint(sink.output, reportText)
	return Result{PrintedFallback: true}
}
