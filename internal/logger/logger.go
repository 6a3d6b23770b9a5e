package logger

import (
	"io"
	"log"
	"os"
)

// Log writes to the session log file once Init succeeds; before that it
// discards, so packages may log unconditionally.
var Log = log.New(io.Discard, "", log.LstdFlags)

var file *os.File

func Init(logFilePath string) error {
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}

	file = f
	Log = log.New(f, "", log.LstdFlags)
	Log.Println("dstar logger initialized.")
	return nil
}

func Close() {
	if file != nil {
		_ = file.Close()
	}
}
