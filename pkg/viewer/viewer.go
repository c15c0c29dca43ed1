// Package viewer shows a rendered chart in a desktop window.
package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// AppID identifies the viewer to the windowing system.
const AppID = "com.r3d91ll.classreport"

// Window builds a window on a that displays img scaled to fit, with a Close
// button underneath.
func Window(a fyne.App, title string, img image.Image) fyne.Window {
	w := a.NewWindow(title)

	chartImg := canvas.NewImageFromImage(img)
	chartImg.FillMode = canvas.ImageFillContain
	b := img.Bounds()
	chartImg.SetMinSize(fyne.NewSize(float32(b.Dx())*0.6, float32(b.Dy())*0.6))

	closeBtn := widget.NewButton("Close", w.Close)
	w.SetContent(container.NewBorder(nil, container.NewHBox(closeBtn), nil, nil, chartImg))
	w.Resize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())+40))
	return w
}

// Show opens a window with img and blocks until it is closed.
func Show(title string, img image.Image) {
	a := app.NewWithID(AppID)
	Window(a, title, img).ShowAndRun()
}
