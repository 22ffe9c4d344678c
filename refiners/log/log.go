package log

import (
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/refiner"
	"go.uber.org/zap"
)

// EmitType is the action type handled by Refiner.
const EmitType = "log/emit"

// LogLevel defines the severity level for log messages.
type LogLevel string

const (
	// LogInfo is used for general informational messages.
	LogInfo LogLevel = "info"

	// LogWarn is used for potentially harmful situations.
	LogWarn LogLevel = "warn"

	// LogError is used for error events that might still allow the application to continue running.
	LogError LogLevel = "error"

	// LogDebug is used for debugging messages with detailed internal information.
	LogDebug LogLevel = "debug"
)

// Payload is the payload of EmitType.
type Payload struct {
	Level   LogLevel
	Message string
	Fields  map[string]any
}

// Emit builds an impure log action.
func Emit(level LogLevel, msg string, fields map[string]any) action.Action {
	return action.Impure(EmitType, Payload{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// Refiner writes EmitType actions to logger. Unknown levels log at info.
func Refiner[S any](logger *zap.Logger) refiner.Refiner[S] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return refiner.Switch(refiner.Cases[S]{
		EmitType: func(_ refiner.Dispatch, a action.Action, _ S) {
			payload, err := action.PayloadOf[Payload](a)
			if err != nil {
				logger.Warn("ignoring log action", zap.Error(err))
				return
			}

			fields := make([]zap.Field, 0, len(payload.Fields))
			for k, v := range payload.Fields {
				fields = append(fields, zap.Any(k, v))
			}

			switch payload.Level {
			case LogInfo:
				logger.Info(payload.Message, fields...)
			case LogWarn:
				logger.Warn(payload.Message, fields...)
			case LogError:
				logger.Error(payload.Message, fields...)
			case LogDebug:
				logger.Debug(payload.Message, fields...)
			default:
				logger.Info(payload.Message, fields...)
			}
		},
	})
}
