package summary

func (r *Renderer) style(code, text string) string {
	if !r.color {
		return text
	}
	return code + text + ColorReset
}

// header is bold cyan.
func (r *Renderer) header(text string) string {
	if !r.color {
		return text
	}
	return ColorBold + ColorCyan + text + ColorReset
}

func (r *Renderer) label(text string) string { return r.style(ColorGreen, text) }

func (r *Renderer) value(text string) string { return r.style(ColorYellow, text) }

func (r *Renderer) dim(text string) string { return r.style(ColorGray, text) }
