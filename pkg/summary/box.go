package summary

import "strings"

// Box draws bordered rows with a fixed inner width.
type Box struct {
	Width int
}

// Top returns ╭───╮.
func (b *Box) Top() string {
	return BoxTopLeft + strings.Repeat(BoxHorizontal, b.Width) + BoxTopRight
}

// Mid returns ├───┤.
func (b *Box) Mid() string {
	return BoxTeeLeft + strings.Repeat(BoxHorizontal, b.Width) + BoxTeeRight
}

// Bottom returns ╰───╯.
func (b *Box) Bottom() string {
	return BoxBottomLeft + strings.Repeat(BoxHorizontal, b.Width) + BoxBottomRight
}

// Row returns content left-aligned between borders, truncated to fit.
func (b *Box) Row(content string) string {
	n := visibleLength(content)
	if n >= b.Width {
		return BoxVertical + truncateVisible(content, b.Width) + BoxVertical
	}
	return BoxVertical + content + strings.Repeat(" ", b.Width-n) + BoxVertical
}

// RowCenter returns content centered between borders.
func (b *Box) RowCenter(content string) string {
	n := visibleLength(content)
	if n >= b.Width {
		return BoxVertical + truncateVisible(content, b.Width) + BoxVertical
	}
	left := (b.Width - n) / 2
	return BoxVertical + strings.Repeat(" ", left) + content + strings.Repeat(" ", b.Width-n-left) + BoxVertical
}

// visibleLength counts runes outside ANSI escape sequences.
func visibleLength(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}

// truncateVisible cuts s to width visible runes, keeping escape sequences
// and closing any open style.
func truncateVisible(s string, width int) string {
	var sb strings.Builder
	visible := 0
	inEscape, open := false, false
	for _, r := range s {
		if r == '\033' {
			inEscape, open = true, true
			sb.WriteRune(r)
			continue
		}
		if inEscape {
			sb.WriteRune(r)
			if r == 'm' {
				inEscape = false
				if strings.HasSuffix(sb.String(), ColorReset) {
					open = false
				}
			}
			continue
		}
		if visible >= width {
			break
		}
		sb.WriteRune(r)
		visible++
	}
	if open {
		sb.WriteString(ColorReset)
	}
	return sb.String()
}

// padRight pads s with spaces to width visible runes.
func padRight(s string, width int) string {
	if n := visibleLength(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads s on the left to width visible runes.
func padLeft(s string, width int) string {
	if n := visibleLength(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
