package logger

// LoggerInterface is the logging seam handed to the vlc client, the
// MPRIS bridge and the TUI.
type LoggerInterface interface {
	Print(s string)
	Printf(s string, as ...interface{})
	PrintError(source string, err error)
}
