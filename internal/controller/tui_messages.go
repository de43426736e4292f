package controller

// Message types.
type editorFinishedMsg struct {
	path string
	err  error
}
