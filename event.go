package weft

// Event is an empty interface used to deliver terminal lifecycle and
// application requests from a pane to its host. Panes post events to the
// handler registered with Attach
type Event interface{}

// EventBell is emitted when BEL is received
type EventBell struct{}

// EventTitle is emitted when the application sets the window title via
// OSC 0 or OSC 2
type EventTitle string

// EventNotify is emitted when the application posts a desktop notification
// via OSC 9 or OSC 777
type EventNotify struct {
	Title string
	Body  string
}

// EventWorkingDirectory is emitted when the application reports its working
// directory via OSC 7. The value is the reported path
type EventWorkingDirectory string

// EventClipboard is emitted when the application writes to the system
// clipboard via OSC 52. The value is the decoded payload
type EventClipboard string

// EventMouseShape is emitted when the application requests a pointer shape
// via OSC 22
type EventMouseShape MouseShape

// EventAPC is emitted when an APC sequence is received
type EventAPC struct {
	Payload string
}

// EventClosed is emitted exactly once when the pane's child process has
// exited and its output has been fully consumed. Status is the process exit
// status, or -1 when the child was lost to a transport failure
type EventClosed struct {
	Status int
	Err    error
}

// EventPanic is emitted when the pane's reader goroutine recovered from a
// panic. The pane is closed afterward
type EventPanic error

// Redraw is a coalesced notification that pane contents changed since the
// last snapshot was taken
type Redraw struct{}
