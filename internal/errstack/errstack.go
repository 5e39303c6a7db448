// Package errstack records call stacks on error values so that a development
// build can report where a failure originated.
package errstack

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 32

// Stack is a captured set of program counters. Embed it in an error type and
// populate it with Capture to make the error satisfy Tracer.
type Stack struct {
	pcs []uintptr
}

// Tracer is implemented by errors that carry a Stack.
type Tracer interface {
	StackTrace() string
}

// Capture records the caller's stack. skip=0 starts at the function calling
// Capture.
func Capture(skip int) Stack {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	return Stack{pcs: pcs[:n]}
}

// StackTrace formats the stack one frame per line as "function\n\tfile:line".
func (s Stack) StackTrace() string {
	if len(s.pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(s.pcs)
	for {
		f, more := frames.Next()
		if f.Function != "" {
			b.WriteString(f.Function)
			b.WriteString("\n\t")
			b.WriteString(f.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(f.Line))
			b.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return b.String()
}
