package window

// WindowBuilderOption configures an engineWindow inside NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial client area size. The size is clamped to the limits set by
// WithMinSize and WithMaxSize regardless of option order.
//
// Parameters:
//   - width: initial width in screen coordinates
//   - height: initial height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize sets the smallest size the user can shrink the window to. Zero leaves an
// axis at its default.
//
// Parameters:
//   - width: minimum width
//   - height: minimum height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.minWidth = width
		}
		if height > 0 {
			w.minHeight = height
		}
	}
}

// WithMaxSize sets the largest size the window may grow to. Zero leaves an axis at its default.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.maxWidth = width
		}
		if height > 0 {
			w.maxHeight = height
		}
	}
}

// WithResizable locks the window to its initial size when false. Defaults to true.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.resizable = resizable
	}
}
