package logger

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConsoleHook mirrors every entry to stdout synchronously. The admin and
// token roles use it; their log volume is operator-driven and small.
type ConsoleHook struct{}

func NewConsoleHook() *ConsoleHook {
	return &ConsoleHook{}
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	fmt.Print(string(line))
	return nil
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// AsyncConsoleHook mirrors entries to stdout through a buffered channel.
// The trap listener logs on the attacker's schedule: when the buffer is
// full the line is dropped rather than delaying a decoy response.
type AsyncConsoleHook struct {
	lines chan string
	done  chan struct{}
	wg    sync.WaitGroup
}

func NewAsyncConsoleHook(bufferSize int) *AsyncConsoleHook {
	h := &AsyncConsoleHook{
		lines: make(chan string, bufferSize),
		done:  make(chan struct{}),
	}
	h.wg.Add(1)
	go h.drain()
	return h
}

func (h *AsyncConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	select {
	case h.lines <- line:
	default:
	}
	return nil
}

func (h *AsyncConsoleHook) drain() {
	defer h.wg.Done()
	for {
		select {
		case line := <-h.lines:
			fmt.Print(line)
		case <-h.done:
			for len(h.lines) > 0 {
				fmt.Print(<-h.lines)
			}
			return
		}
	}
}

// Close flushes buffered lines and stops the drain goroutine.
func (h *AsyncConsoleHook) Close() {
	close(h.done)
	h.wg.Wait()
}

func (h *AsyncConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
