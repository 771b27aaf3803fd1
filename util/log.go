package util

import "log"

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogVoxel | LogScheduler | LogIO

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

type LogCategory int

const (
	LogVoxel LogCategory = 1 << iota
	LogScheduler
	LogIO
)

func logf(cat LogCategory, lvl LogLevel, format string, args ...any) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	log.Printf(format, args...)
}

func LogVoxelInfo(format string, args ...any) {
	logf(LogVoxel, LogLevelInfo, format, args...)
}

func LogVoxelDebug(format string, args ...any) {
	logf(LogVoxel, LogLevelDebug, format, args...)
}

func LogSchedulerInfo(format string, args ...any) {
	logf(LogScheduler, LogLevelInfo, format, args...)
}

func LogSchedulerDebug(format string, args ...any) {
	logf(LogScheduler, LogLevelDebug, format, args...)
}

func LogSchedulerError(format string, args ...any) {
	logf(LogScheduler, LogLevelError, format, args...)
}

func LogIOInfo(format string, args ...any) {
	logf(LogIO, LogLevelInfo, format, args...)
}

func LogIOError(format string, args ...any) {
	logf(LogIO, LogLevelError, format, args...)
}
