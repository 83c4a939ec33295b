package logger

import (
	"fmt"
	"io"
)

type Logger struct {
	Prints chan string
}

func Init() *Logger {
	return &Logger{make(chan string, 100)}
}

func (l *Logger) Print(s string) {
	l.Prints <- s
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.Prints <- fmt.Sprintf(s, as...)
}

func (l *Logger) PrintError(source string, err error) {
	l.Printf("Error(%s) -> %s", source, err.Error())
}

// Drain consumes log lines in the background and writes them to w.
// Pass io.Discard to silence the logger. The returned stop function
// flushes any lines still buffered in the channel and does not return
// until the drain goroutine has exited.
func (l *Logger) Drain(w io.Writer) func() {
	done := make(chan struct{})
	idle := make(chan struct{})
	go func() {
		defer close(idle)
		for {
			select {
			case s := <-l.Prints:
				fmt.Fprintln(w, s)
			case <-done:
				for {
					select {
					case s := <-l.Prints:
						fmt.Fprintln(w, s)
					default:
						return
					}
				}
			}
		}
	}()
	return func() {
		close(done)
		<-idle
	}
}
