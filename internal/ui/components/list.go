package components

// List tracks a cursor and scroll window over n rows.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// Reset replaces the row count and moves the cursor to the top.
func (l *List) Reset(n int) {
	l.Len = n
	l.Cursor = 0
	l.Offset = 0
}

// Resize changes the row count and keeps the cursor in range.
func (l *List) Resize(n int) {
	l.Len = n
	if l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.clampOffset()
}

// SetPageSize changes how many rows are visible at once.
func (l *List) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	l.PageSize = size
	l.clampOffset()
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Window returns the [start, end) range of visible rows.
func (l *List) Window() (int, int) {
	if l.Len == 0 {
		return 0, 0
	}
	end := l.Offset + l.PageSize
	if end > l.Len {
		end = l.Len
	}
	return l.Offset, end
}

// Selected returns the index of the selected row, or -1 if empty.
func (l *List) Selected() int {
	if l.Len == 0 {
		return -1
	}
	return l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}

func (l *List) clampOffset() {
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}
