package overlay

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity uint8
	Icon    fyne.Resource
}

// Window is the session-complete acknowledgement shown after a long break.
type Window struct {
	window        fyne.Window
	config        Config
	background    *canvas.Rectangle
	image         *canvas.Image
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	againButton   *widget.Button
	dismissButton *widget.Button
	onAgain       func()
}

const (
	overlayWidthFraction  = float32(0.22)
	overlayHeightFraction = float32(0.2)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the overlay window. It stays hidden until Show.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("focusloop")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 31, G: 36, B: 48, A: config.Opacity})

	image := canvas.NewImageFromResource(config.Icon)
	image.FillMode = canvas.ImageFillContain
	image.SetMinSize(fyne.NewSize(64, 64))

	titleLabel := canvas.NewText("Session complete", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 21

	subtitleLabel := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	subtitleLabel.TextSize = 14

	overlay := &Window{
		window:        window,
		config:        config,
		background:    background,
		image:         image,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
	}
	overlay.againButton = widget.NewButton("Start another", func() {
		overlay.Hide()
		if overlay.onAgain != nil {
			overlay.onAgain()
		}
	})
	overlay.dismissButton = widget.NewButton("Dismiss", overlay.Hide)

	text := container.NewVBox(titleLabel, subtitleLabel)
	buttons := container.NewHBox(overlay.againButton, overlay.dismissButton)
	content := container.NewBorder(nil, container.NewCenter(buttons), image, nil, container.NewPadded(text))
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(overlay.Hide)

	return overlay
}

// SetOnStartAgain sets the handler of the "Start another" button.
func (overlay *Window) SetOnStartAgain(handler func()) {
	overlay.onAgain = handler
}

// Show displays the acknowledgement for a finished session.
func (overlay *Window) Show(cycles int) {
	overlay.subtitleLabel.Text = Summary(cycles)
	overlay.subtitleLabel.Refresh()
	overlay.resizeToScreenFraction()
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Hide closes the overlay.
func (overlay *Window) Hide() {
	overlay.window.Hide()
}

// Subtitle returns the text currently shown under the title.
func (overlay *Window) Subtitle() string {
	return overlay.subtitleLabel.Text
}

// Summary is the one-line description of a finished session.
func Summary(cycles int) string {
	if cycles == 1 {
		return "1 focus block done. Take a real rest."
	}
	return fmt.Sprintf("%d focus blocks done. Take a real rest.", cycles)
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}
