package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileFlushInterval = 2 * time.Second

// AsyncFileWriter appends log lines to a file from a background goroutine.
// Write never blocks: when the queue is full the line is dropped, the same
// policy the console mirror applies under a trap burst.
type AsyncFileWriter struct {
	out   *bufio.Writer
	file  *os.File
	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		out:   bufio.NewWriterSize(file, bufferSize),
		file:  file,
		queue: make(chan []byte, 1000),
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.drain()
	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	// logrus reuses the entry buffer after Write returns, copy first.
	select {
	case w.queue <- append([]byte{}, p...):
		return len(p), nil
	default:
		return 0, nil
	}
}

func (w *AsyncFileWriter) drain() {
	defer w.wg.Done()
	ticker := time.NewTicker(fileFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-w.queue:
			if _, err := w.out.Write(line); err != nil {
				fmt.Println("error writing log data to file", err)
			}
		case <-ticker.C:
			_ = w.out.Flush()
		case <-w.done:
			for len(w.queue) > 0 {
				if _, err := w.out.Write(<-w.queue); err != nil {
					fmt.Println("error writing log data to file", err)
				}
			}
			_ = w.out.Flush()
			return
		}
	}
}

// Close flushes queued lines and closes the underlying file.
func (w *AsyncFileWriter) Close() {
	close(w.done)
	w.wg.Wait()
	_ = w.file.Close()
}
