package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	debugColor = color.New(color.FgHiBlack)
	infoColor  = color.New(color.FgHiGreen)
	warnColor  = color.New(color.FgHiYellow)
	errorColor = color.New(color.FgHiRed)
	fatalColor = color.New(color.FgHiRed, color.Bold)
)

type Logger struct {
	level  Level
	logger *log.Logger
}

func New(level, file string) *Logger {
	logPath := file
	if logPath == "" {
		logPath = "logs/bot.log"
	}

	if !filepath.IsAbs(logPath) {
		dir, err := os.Getwd()
		if err != nil {
			log.Fatal("Failed to get working directory:", err)
		}
		logPath = filepath.Join(dir, logPath)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to open log file %s: %v", logPath, err))
	}

	fileLogger := log.New(logFile, "", log.Ldate|log.Ltime|log.Lshortfile)

	return &Logger{
		level:  parseLevel(level),
		logger: fileLogger,
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) write(lvl Level, tag string, c *color.Color, v ...interface{}) {
	if lvl < l.level {
		return
	}
	message := fmt.Sprint(v...)
	l.logger.Printf("%s: %s", tag, message)
	log.Printf("%s %s", c.Sprintf("%s:", tag), message)
}

func (l *Logger) Debug(v ...interface{}) {
	l.write(LevelDebug, "DEBUG", debugColor, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.write(LevelInfo, "INFO", infoColor, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.write(LevelWarn, "WARN", warnColor, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.write(LevelError, "ERROR", errorColor, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	message := fmt.Sprint(v...)
	l.logger.Printf("FATAL: %s", message)
	log.Fatalf("%s %s", fatalColor.Sprint("FATAL:"), message)
}
