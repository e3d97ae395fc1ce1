package ui

// Layout sizes.
const (
	// MaxContentWidth caps the centered column on wide terminals.
	MaxContentWidth = 72

	// MinContentWidth is the narrowest column the layout renders into.
	MinContentWidth = 30

	// chromeHeight counts the rows outside the task list: header (2), blank,
	// add panel (3), tabs, blank, list box borders (2), footer.
	chromeHeight = 11

	// InputCharLimit bounds the add and edit inputs.
	InputCharLimit = 256
)
