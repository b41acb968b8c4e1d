package auth

// Popup dimensions.
const (
	PopupWidth  = 500
	PopupHeight = 600
)

// Screen is the size of the display the popup is centred on.
type Screen struct {
	Width  int
	Height int
}

// DefaultScreen is assumed when the real display size is unknown.
var DefaultScreen = Screen{Width: 1920, Height: 1080}

// WindowSpec describes the popup to open.
type WindowSpec struct {
	URL    string
	Name   string
	Width  int
	Height int
	Left   int
	Top    int
}

// CenteredSpec returns a PopupWidth x PopupHeight window for url, centred on
// screen. Offsets never go negative.
func CenteredSpec(url, name string, screen Screen) WindowSpec {
	left := (screen.Width - PopupWidth) / 2
	top := (screen.Height - PopupHeight) / 2
	return WindowSpec{
		URL:    url,
		Name:   name,
		Width:  PopupWidth,
		Height: PopupHeight,
		Left:   max(left, 0),
		Top:    max(top, 0),
	}
}

// Window is an opened login popup.
type Window interface {
	// Closed reports whether the user closed the popup.
	Closed() bool

	// Close dismisses the popup. Closing twice is harmless.
	Close()
}

// Launcher opens login popups. Open returns ErrPopupBlocked (or a nil
// Window) when the popup cannot be created.
type Launcher interface {
	Open(spec WindowSpec) (Window, error)
}

// Navigator moves the front end to a route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Routes the flow navigates to.
const (
	RouteHome   = "/"
	RouteSignup = "/signup"
)
