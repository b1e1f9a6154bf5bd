package utils_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freenet-actions/delete-old-releases/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{name: "debug_structured", requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{name: "info_structured", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{name: "info_console", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatConsole},
		{name: "unsupported_log_level", requestedLogLevel: utils.LogLevel("invalid"), requestedLogFormat: utils.LogFormatStructured, expectError: true},
		{name: "unsupported_log_format", requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormat("invalid"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output := &bytes.Buffer{}
			logger, creationError := utils.NewLoggerFactory(output).CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			logger.Info(testLogMessageConstant)
			require.NoError(testInstance, logger.Sync())

			trimmedOutput := bytes.TrimSpace(output.Bytes())
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid(trimmedOutput))
		})
	}
}

func TestLoggerFactoryHonorsLevel(testInstance *testing.T) {
	output := &bytes.Buffer{}
	logger, creationError := utils.NewLoggerFactory(output).CreateLogger(utils.LogLevelWarn, utils.LogFormatStructured)
	require.NoError(testInstance, creationError)

	logger.Info("suppressed")
	logger.Warn("emitted")

	require.NotContains(testInstance, output.String(), "suppressed")
	require.Contains(testInstance, output.String(), "emitted")
}

func TestLoggerFactoryFlushesBufferedOutput(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedOutput := bufio.NewWriterSize(destination, 4096)

	logger, creationError := utils.NewLoggerFactory(bufferedOutput).CreateLogger(utils.LogLevelInfo, utils.LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Info(testLogMessageConstant)
	require.Contains(testInstance, destination.String(), testLogMessageConstant)
}

func TestParseLogLevelAndFormat(testInstance *testing.T) {
	level, levelError := utils.ParseLogLevel(" DEBUG ")
	require.NoError(testInstance, levelError)
	require.Equal(testInstance, utils.LogLevelDebug, level)

	_, levelError = utils.ParseLogLevel("verbose")
	require.Error(testInstance, levelError)

	format, formatError := utils.ParseLogFormat("Console")
	require.NoError(testInstance, formatError)
	require.Equal(testInstance, utils.LogFormatConsole, format)

	_, formatError = utils.ParseLogFormat("xml")
	require.Error(testInstance, formatError)
}
