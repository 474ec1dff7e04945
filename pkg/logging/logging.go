package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging 建立 JSON 格式的 logger，level 無法解析時回傳錯誤
func SetupLogging(level string) (*logrus.Logger, error) {
	return newLogger(os.Stdout, level)
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	logLevel := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		logLevel = parsed
	}

	logger := logrus.New()
	logger.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyLevel: "loglevel",
		},
	}
	logger.Out = out
	logger.Level = logLevel
	return logger, nil
}
