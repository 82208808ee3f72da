package render

import (
	"encoding/json"
	"io"
)

// Writer emits JSON incrementally: structural tokens are written the
// moment they are known, so a document is streamed without ever holding
// more than one scalar in memory.
//
// Separator discipline: each open container tracks how many elements it
// has received. The first element of a container suppresses the comma;
// every later one prints it first. A key and its value count as one
// element. In indented mode every element starts on a new line padded to
// depth × indent spaces; compact mode inserts no whitespace at all.
//
// Misusing the writer (closing a container that is not open, mixing up
// object and array closers, emitting a value into an object without a
// key) is an internal-consistency fault and panics.
type Writer struct {
	w      io.Writer
	pretty bool
	indent int
	err    error
	stack  []frame
}

type frame struct {
	object     bool
	count      int
	pendingKey bool
}

// NewWriter returns a Writer on w. indent is the per-depth space count
// used in pretty mode; it is ignored when pretty is false.
func NewWriter(w io.Writer, pretty bool, indent int) *Writer {
	return &Writer{w: w, pretty: pretty, indent: indent}
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *Writer) pad() {
	if !w.pretty {
		return
	}
	w.write("\n")
	n := len(w.stack) * w.indent
	for i := 0; i < n; i++ {
		w.write(" ")
	}
}

func (w *Writer) top() *frame {
	if len(w.stack) == 0 {
		return nil
	}
	return &w.stack[len(w.stack)-1]
}

// element positions the writer for the next element of the innermost
// container: separator, newline, indentation. A value that consumes a
// pending key is glued to it instead.
func (w *Writer) element() {
	f := w.top()
	if f == nil {
		return // root value
	}
	if f.pendingKey {
		f.pendingKey = false
		return
	}
	if f.object {
		panic("render: value emitted into an object without a key")
	}
	if f.count > 0 {
		w.write(",")
	}
	f.count++
	w.pad()
}

// BeginObject opens a keyed container.
func (w *Writer) BeginObject() {
	w.element()
	w.write("{")
	w.stack = append(w.stack, frame{object: true})
}

// EndObject closes the innermost container, which must be an object.
func (w *Writer) EndObject() { w.end(true, "}") }

// BeginArray opens a positional container.
func (w *Writer) BeginArray() {
	w.element()
	w.write("[")
	w.stack = append(w.stack, frame{object: false})
}

// EndArray closes the innermost container, which must be an array.
func (w *Writer) EndArray() { w.end(false, "]") }

func (w *Writer) end(object bool, closer string) {
	f := w.top()
	if f == nil {
		panic("render: container closed but never opened")
	}
	if f.object != object {
		panic("render: mismatched container closer")
	}
	if f.pendingKey {
		panic("render: container closed with a dangling key")
	}
	n := f.count
	w.stack = w.stack[:len(w.stack)-1]
	if n > 0 {
		w.pad()
	}
	w.write(closer)
}

// Key emits an object key. The next Value or Begin* call provides the
// element it labels.
func (w *Writer) Key(k string) {
	f := w.top()
	if f == nil || !f.object {
		panic("render: key emitted outside an object")
	}
	if f.pendingKey {
		panic("render: two keys in a row")
	}
	if f.count > 0 {
		w.write(",")
	}
	f.count++
	w.pad()
	w.writeScalar(k)
	if w.pretty {
		w.write(": ")
	} else {
		w.write(":")
	}
	f.pendingKey = true
}

// Value emits one scalar: a string, bool, number, nil, or *string
// (nil pointer encodes as null). Strings are escaped by encoding/json.
func (w *Writer) Value(v any) {
	w.element()
	if p, isStr := v.(*string); isStr {
		if p == nil {
			w.write("null")
			return
		}
		v = *p
	}
	w.writeScalar(v)
}

func (w *Writer) writeScalar(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		panic("render: unencodable scalar: " + err.Error())
	}
	w.write(string(b))
}

// Depth returns the number of open containers.
func (w *Writer) Depth() int { return len(w.stack) }

// Err returns the first write error encountered.
func (w *Writer) Err() error { return w.err }
