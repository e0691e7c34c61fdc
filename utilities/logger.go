package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	debugLog *log.Logger
	logMutex sync.Mutex
	debugOn  bool
)

// InitLogging sets up leveled logging to stdout plus a size-rotated file.
func InitLogging(logDir string, debug bool) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "app.log"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	outWriter := io.MultiWriter(os.Stdout, rotated)
	errWriter := io.MultiWriter(os.Stderr, rotated)

	infoLog = log.New(outWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(outWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errWriter, "ERROR: ", log.Ldate|log.Ltime)
	debugLog = log.New(outWriter, "DEBUG: ", log.Ldate|log.Ltime)
	debugOn = debug

	// Override Go's default log.
	log.SetOutput(outWriter)
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name()
}

func logAt(dst *log.Logger, format string, v ...interface{}) {
	if dst == nil {
		log.Printf(format, v...)
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	dst.Printf("[%s] %s", getCallerInfo(), fmt.Sprintf(format, v...))
}

func Info(format string, v ...interface{}) {
	logAt(infoLog, format, v...)
}

func Warn(format string, v ...interface{}) {
	logAt(warnLog, format, v...)
}

func Error(format string, v ...interface{}) {
	logAt(errorLog, format, v...)
}

func Debug(format string, v ...interface{}) {
	if !debugOn {
		return
	}
	logAt(debugLog, format, v...)
}
