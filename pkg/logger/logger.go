package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init cấu hình global zerolog logger theo environment
// development: console output dễ đọc, các env khác: JSON
func Init(env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

var onceKeys sync.Map

// WarnOnce chỉ log lần đầu tiên cho mỗi key trong vòng đời process
// Dùng cho các cảnh báo cấu hình (thiếu API key...) tránh spam log mỗi request
func WarnOnce(key, msg string, fields map[string]interface{}) {
	if _, loaded := onceKeys.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	log.Warn().Str("key", key).Fields(fields).Msg(msg)
}
