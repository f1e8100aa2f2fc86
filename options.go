package treewalk

import "github.com/mwantia/treewalk/log"

type WalkerOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
}

type WalkerOption func(*WalkerOptions) error

func newDefaultWalkerOptions() *WalkerOptions {
	return &WalkerOptions{
		LogLevel: log.Info,
	}
}

func WithLogLevel(logLevel log.LogLevel) WalkerOption {
	return func(opts *WalkerOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithLogFile(logFile string) WalkerOption {
	return func(opts *WalkerOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

func WithoutTerminalLog() WalkerOption {
	return func(opts *WalkerOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}
